// Package cmd implements the crosshair command line.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sys/unix"

	"github.com/tesselslate/crosshair/internal/cfg"
	"github.com/tesselslate/crosshair/internal/detach"
	"github.com/tesselslate/crosshair/internal/log"
	"github.com/tesselslate/crosshair/internal/tracker"
)

// options holds the values of the root command's flags.
type options struct {
	width      int
	color      cfg.Color
	foreground bool
	config     string
	logLevel   string
	logFile    string
	display    string
}

// usageError is an error caused by invalid command line input. The usage text
// is printed alongside it.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// Execute runs the command line with the process arguments.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	opts := newOptions()
	rootCmd := &cobra.Command{
		Use:   "crosshair [flags] DEVICE",
		Short: "Crosshair - pointer tracking overlay for X11",
		Long: `Crosshair draws a click-through crosshair which follows the motion of a
single XInput device. DEVICE is the numeric XInput ID of the device to track,
as shown by "crosshair devices".`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
				return usage(cmd, usageError{err})
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := opts.profile(cmd.Flags(), args)
			if err != nil {
				var uerr usageError
				if errors.As(err, &uerr) {
					return usage(cmd, err)
				}
				return err
			}
			return run(cmd, conf)
		},
	}
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usage(cmd, usageError{err})
	})
	opts.bind(rootCmd)

	rootCmd.AddCommand(newDevicesCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// usage prints the usage text of cmd and returns err, joined with the error
// from printing if there was one.
func usage(cmd *cobra.Command, err error) error {
	if uerr := cmd.Usage(); uerr != nil {
		return errors.Join(err, fmt.Errorf("print usage: %w", uerr))
	}
	return err
}

func newOptions() *options {
	return &options{
		width: cfg.DefaultWidth,
		color: cfg.DefaultColor,
	}
}

// bind registers the flags of the root command.
func (o *options) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.IntVarP(&o.width, "width", "w", cfg.DefaultWidth, "crosshair width in pixels")
	flags.VarP(&o.color, "color", "c", "crosshair color as hex RGB")
	flags.BoolVarP(&o.foreground, "foreground", "F", false, "stay in the foreground")
	flags.StringVar(&o.config, "config", "", "configuration file (TOML or YAML)")
	flags.StringVar(&o.logLevel, "log-level", "", "log level (error, warn, info, debug)")
	flags.StringVar(&o.logFile, "log-file", "", "append log output to this file")
	cmd.PersistentFlags().StringVar(&o.display, "display", "", "X display to connect to (default $DISPLAY)")
}

// profile loads the configuration file and applies the command line on top
// of it. The returned profile has been validated.
func (o *options) profile(flags *pflag.FlagSet, args []string) (cfg.Profile, error) {
	conf, err := cfg.Load(o.config)
	if err != nil {
		return cfg.Profile{}, err
	}
	if flags.Changed("width") {
		conf.Width = o.width
	}
	if flags.Changed("color") {
		conf.Color = o.color
	}
	if flags.Changed("foreground") {
		conf.Foreground = o.foreground
	}
	if flags.Changed("log-level") {
		conf.Log.Level = o.logLevel
	}
	if flags.Changed("log-file") {
		conf.Log.File = o.logFile
	}
	if flags.Changed("display") {
		conf.Display = o.display
	}
	if len(args) == 1 {
		device, err := strconv.Atoi(args[0])
		if err != nil || device < 0 {
			return cfg.Profile{}, usageError{fmt.Errorf("%w: %q", cfg.ErrInvalidDevice, args[0])}
		}
		conf.Device = device
	}

	if err := conf.Validate(); err != nil {
		return cfg.Profile{}, usageError{err}
	}
	return conf, nil
}

// run sets up logging, detaches if needed and runs the tracker until it is
// interrupted.
func run(cmd *cobra.Command, conf cfg.Profile) error {
	level, err := log.ParseLevel(conf.Log.Level)
	if err != nil {
		return err
	}
	logger, err := log.New(level, conf.Log.File, os.Stderr)
	if err != nil {
		return err
	}
	log.SetDefault(logger)
	defer logger.Close()

	detacher, err := detach.New(conf.Foreground)
	if err != nil {
		return err
	}
	role, err := detacher.Detach()
	if role == detach.RoleExit {
		if err != nil {
			return err
		}
		log.Info("Crosshair running in the background.")
		return nil
	}

	t, err := tracker.New(&conf)
	detacher.Ready(err)
	if err != nil {
		return err
	}
	defer t.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), unix.SIGINT, unix.SIGTERM)
	defer stop()
	return t.Run(ctx)
}

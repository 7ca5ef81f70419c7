// Package cfg allows for reading and validating the user's configuration.
package cfg

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v2"

	"github.com/tesselslate/crosshair/internal/log"
)

// Defaults
const (
	DefaultWidth = 11
	DefaultColor = Color(0x800080)

	// MaxWidth is the largest crosshair width which still fits in the 16-bit
	// coordinates used by the X protocol.
	MaxWidth = 32767

	// NoDevice marks a profile without a device ID.
	NoDevice = -1
)

// Error types
var (
	ErrInvalidWidth  = errors.New("invalid width")
	ErrInvalidColor  = errors.New("invalid color, must be hex up to 6 digits")
	ErrMissingDevice = errors.New("missing device")
	ErrInvalidDevice = errors.New("invalid device")
)

// Profile contains everything the crosshair needs to run.
type Profile struct {
	Width      int    `toml:"width" yaml:"width"`           // Total crosshair width, in pixels
	Color      Color  `toml:"color" yaml:"color"`           // 24-bit RGB crosshair color
	Foreground bool   `toml:"foreground" yaml:"foreground"` // Do not detach from the terminal
	Device     int    `toml:"device" yaml:"device"`         // XInput device ID
	Display    string `toml:"display" yaml:"display"`       // X display, empty for $DISPLAY

	Log struct {
		Level string `toml:"level" yaml:"level"` // error, warn, info, debug
		File  string `toml:"file" yaml:"file"`   // Optional log file path
	} `toml:"log" yaml:"log"`
}

// Default returns a profile with the default settings and no device.
func Default() Profile {
	p := Profile{
		Width:  DefaultWidth,
		Color:  DefaultColor,
		Device: NoDevice,
	}
	p.Log.Level = "info"
	return p
}

// GetDirectory returns the path to the user's configuration directory.
func GetDirectory() (string, error) {
	// UserConfigDir checks $XDG_CONFIG_HOME and falls back to $HOME/.config.
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "crosshair"), nil
}

// DefaultPath returns the path of the configuration file which is read when
// no other path is given.
func DefaultPath() (string, error) {
	dir, err := GetDirectory()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the configuration file at path on top of the default profile.
// An empty path means the default path, which is allowed to not exist. Files
// ending in .yaml or .yml are parsed as YAML, anything else as TOML.
func Load(path string) (Profile, error) {
	profile := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			// No config directory; run with the defaults.
			return profile, nil
		}
		path = p
	}

	file, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return profile, nil
		}
		return Profile{}, fmt.Errorf("read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(file, &profile)
	default:
		err = toml.Unmarshal(file, &profile)
	}
	if err != nil {
		return Profile{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return profile, nil
}

// Validate ensures that the profile does not have any illegal or invalid
// settings. It must pass before any X resource is created.
func (p *Profile) Validate() error {
	if p.Width <= 0 || p.Width > MaxWidth {
		return fmt.Errorf("%w: %d", ErrInvalidWidth, p.Width)
	}
	if !p.Color.Valid() {
		return fmt.Errorf("%w: %#x", ErrInvalidColor, uint32(p.Color))
	}
	if p.Device < 0 {
		return ErrMissingDevice
	}
	if p.Device > 0xFFFF {
		return fmt.Errorf("%w: %d", ErrInvalidDevice, p.Device)
	}
	if _, err := log.ParseLevel(p.Log.Level); err != nil {
		return err
	}
	if p.Width%2 == 0 {
		log.Debug("Even crosshair width %d will be drawn off-center.", p.Width)
	}
	return nil
}

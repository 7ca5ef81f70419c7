// Package detach moves the crosshair into the background. The original
// process starts a copy of itself in a new session, waits for the copy to
// report whether initialization succeeded, and exits; only the copy runs the
// event loop.
package detach

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
)

// EnvMarker is set in the environment of the background copy.
const EnvMarker = "CROSSHAIR_DETACHED"

// statusFd is the file descriptor the background copy reports its status on.
const statusFd = 3

// Status bytes written by the background copy.
const (
	statusReady = 'R'
	statusError = 'E'
)

// Error types
var (
	ErrChildDied     = errors.New("background process exited before becoming ready")
	ErrInvalidStatus = errors.New("invalid status from background process")
)

// Role tells the caller what to do after Detach returns.
type Role int

const (
	// RoleRun means this process should run the event loop.
	RoleRun Role = iota
	// RoleExit means another process runs the event loop and this one should
	// exit.
	RoleExit
)

func (r Role) String() string {
	switch r {
	case RoleRun:
		return "run"
	case RoleExit:
		return "exit"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// Detacher decides which process runs the event loop. At most one process
// per invocation receives RoleRun.
type Detacher interface {
	// Detach is called once the configuration is valid and before any X
	// resources are created.
	Detach() (Role, error)

	// Ready reports the outcome of initialization to the original process.
	// It is called by the process which received RoleRun.
	Ready(err error)
}

// New returns the Detacher matching the foreground setting. In the background
// case the program is re-executed with its current arguments.
func New(foreground bool) (Detacher, error) {
	if foreground {
		return Foreground(), nil
	}
	path, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("find executable: %w", err)
	}
	return &Background{Path: path, Args: os.Args[1:]}, nil
}

type foreground struct{}

// Foreground returns a Detacher which keeps everything in the current
// process.
func Foreground() Detacher {
	return foreground{}
}

func (foreground) Detach() (Role, error) { return RoleRun, nil }
func (foreground) Ready(error)           {}

// Background runs the event loop in a copy of the program started in a new
// session.
type Background struct {
	Path string   // Executable to start
	Args []string // Arguments, without the program name
	Env  []string // Extra environment variables

	// Status is where the background copy writes its status. It defaults to
	// file descriptor 3, which the original process sets up.
	Status io.WriteCloser
}

// Detach starts the background copy and waits for its status when called in
// the original process. In the background copy it returns RoleRun.
func (b *Background) Detach() (Role, error) {
	if os.Getenv(EnvMarker) == "1" {
		if b.Status == nil {
			b.Status = os.NewFile(statusFd, "status")
		}
		// The controlling terminal is gone; a hangup must not end the loop.
		signal.Ignore(unix.SIGHUP)
		return RoleRun, nil
	}

	r, w, err := os.Pipe()
	if err != nil {
		return RoleExit, fmt.Errorf("create status pipe: %w", err)
	}
	defer r.Close()

	cmd := exec.Command(b.Path, b.Args...)
	cmd.Env = append(os.Environ(), EnvMarker+"=1")
	cmd.Env = append(cmd.Env, b.Env...)
	cmd.ExtraFiles = []*os.File{w}
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	err = cmd.Start()
	w.Close()
	if err != nil {
		return RoleExit, fmt.Errorf("start background process: %w", err)
	}

	status := readStatus(r)
	if errors.Is(status, ErrChildDied) {
		// Reap it so the exit status is not lost.
		if err := cmd.Wait(); err != nil {
			status = fmt.Errorf("%w: %s", ErrChildDied, err)
		}
	} else {
		cmd.Process.Release()
	}
	return RoleExit, status
}

// Ready writes the status to the original process and closes the status
// pipe.
func (b *Background) Ready(err error) {
	if b.Status == nil {
		return
	}
	writeStatus(b.Status, err)
	b.Status.Close()
	b.Status = nil
}

// writeStatus encodes an initialization result.
func writeStatus(w io.Writer, err error) error {
	var buf []byte
	if err == nil {
		buf = []byte{statusReady}
	} else {
		buf = append([]byte{statusError}, err.Error()...)
	}
	_, werr := w.Write(buf)
	return werr
}

// readStatus decodes an initialization result. A pipe closed without any
// status means the background copy died.
func readStatus(r io.Reader) error {
	buf, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read status: %w", err)
	}
	if len(buf) == 0 {
		return ErrChildDied
	}
	switch buf[0] {
	case statusReady:
		return nil
	case statusError:
		return errors.New(string(buf[1:]))
	default:
		return ErrInvalidStatus
	}
}

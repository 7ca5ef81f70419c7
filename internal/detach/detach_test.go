package detach

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForeground(t *testing.T) {
	d, err := New(true)
	require.NoError(t, err)
	role, err := d.Detach()
	require.NoError(t, err)
	assert.Equal(t, RoleRun, role)
	d.Ready(nil)
}

func TestStatusEncoding(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ready", nil},
		{"error", errors.New("XFIXES extension not available")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writeStatus(&buf, tt.err))
			got := readStatus(&buf)
			if tt.err == nil {
				assert.NoError(t, got)
			} else {
				assert.EqualError(t, got, tt.err.Error())
			}
		})
	}
}

func TestReadStatusInvalid(t *testing.T) {
	assert.ErrorIs(t, readStatus(bytes.NewReader(nil)), ErrChildDied)
	assert.ErrorIs(t, readStatus(bytes.NewReader([]byte("x"))), ErrInvalidStatus)
}

func shell(t *testing.T, script string) *Background {
	t.Helper()
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no /bin/sh")
	}
	t.Setenv(EnvMarker, "")
	return &Background{Path: "/bin/sh", Args: []string{"-c", script}}
}

func TestBackgroundReady(t *testing.T) {
	b := shell(t, `test "$CROSSHAIR_DETACHED" = 1 && printf R >&3`)
	role, err := b.Detach()
	assert.NoError(t, err)
	assert.Equal(t, RoleExit, role)
}

func TestBackgroundError(t *testing.T) {
	b := shell(t, `printf 'Einvalid device: no device with ID 99' >&3`)
	role, err := b.Detach()
	assert.Equal(t, RoleExit, role)
	assert.EqualError(t, err, "invalid device: no device with ID 99")
}

func TestBackgroundDied(t *testing.T) {
	b := shell(t, `exit 3`)
	role, err := b.Detach()
	assert.Equal(t, RoleExit, role)
	assert.ErrorIs(t, err, ErrChildDied)
}

func TestBackgroundMissingExecutable(t *testing.T) {
	t.Setenv(EnvMarker, "")
	b := &Background{Path: "/nonexistent/crosshair"}
	role, err := b.Detach()
	assert.Equal(t, RoleExit, role)
	assert.Error(t, err)
}

type statusBuffer struct {
	bytes.Buffer
	closed bool
}

func (s *statusBuffer) Close() error {
	s.closed = true
	return nil
}

func TestBackgroundChild(t *testing.T) {
	t.Setenv(EnvMarker, "1")
	status := &statusBuffer{}
	b := &Background{Status: status}
	role, err := b.Detach()
	require.NoError(t, err)
	assert.Equal(t, RoleRun, role)

	b.Ready(nil)
	assert.True(t, status.closed)
	assert.Equal(t, "R", status.String())

	// A second call has nothing left to write to.
	b.Ready(errors.New("late"))
	assert.Equal(t, "R", status.String())
}

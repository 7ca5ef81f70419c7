package cfg

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Color is a 24-bit RGB color. The upper byte must be zero.
type Color uint32

// ParseColor parses a hex color with an optional 0x or # prefix.
func ParseColor(str string) (Color, error) {
	s := strings.TrimSpace(str)
	switch {
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		s = s[2:]
	case strings.HasPrefix(s, "#"):
		s = s[1:]
	}
	if s == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidColor, str)
	}
	val, err := strconv.ParseUint(s, 16, 32)
	if err != nil || val >= 1<<24 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidColor, str)
	}
	return Color(val), nil
}

// Valid returns whether the color fits in 24 bits.
func (c Color) Valid() bool {
	return c < 1<<24
}

// String implements pflag.Value.
func (c *Color) String() string {
	return fmt.Sprintf("0x%06x", uint32(*c))
}

// Set implements pflag.Value.
func (c *Color) Set(str string) error {
	val, err := ParseColor(str)
	if err != nil {
		return err
	}
	*c = val
	return nil
}

// Type implements pflag.Value.
func (c *Color) Type() string {
	return "color"
}

// UnmarshalTOML implements toml.Unmarshaler. Colors may be given as a hex
// string or an integer.
func (c *Color) UnmarshalTOML(value any) error {
	return c.unmarshalAny(value)
}

// UnmarshalYAML implements yaml.Unmarshaler. YAML parses 0x800080 as an
// integer and #800080 as a comment, so both strings and integers are
// accepted.
func (c *Color) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var value interface{}
	if err := unmarshal(&value); err != nil {
		return err
	}
	return c.unmarshalAny(value)
}

func (c *Color) unmarshalAny(value any) error {
	switch v := value.(type) {
	case string:
		return c.Set(v)
	case int:
		return c.setInt(int64(v))
	case int64:
		return c.setInt(v)
	case uint64:
		if v >= 1<<24 {
			return fmt.Errorf("%w: %#x", ErrInvalidColor, v)
		}
		*c = Color(v)
		return nil
	default:
		return errors.New("color value was not a string or integer")
	}
}

func (c *Color) setInt(v int64) error {
	if v < 0 || v >= 1<<24 {
		return fmt.Errorf("%w: %#x", ErrInvalidColor, v)
	}
	*c = Color(v)
	return nil
}

package output

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// ColorMode is the value of the --color flag.
type ColorMode string

// Recognized color modes.
const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode validates a --color value. Empty means auto.
func ParseColorMode(s string) (ColorMode, error) {
	switch mode := ColorMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case "":
		return ColorAuto, nil
	case ColorAuto, ColorAlways, ColorNever:
		return mode, nil
	default:
		return ColorAuto, NewUserError(fmt.Sprintf("invalid --color value %q: use auto, always or never", s))
	}
}

// Enabled reports whether styled output should be used on w. Auto mode
// colors terminals only, and NO_COLOR turns it off.
func (m ColorMode) Enabled(w io.Writer) bool {
	switch m {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return IsTTY(w)
}

// IsTTY reports whether w is a character device.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

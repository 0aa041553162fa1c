package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
)

type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ANSI palette indexes used for message tones.
const (
	toneRed    = "1"
	toneGreen  = "2"
	toneYellow = "3"
	toneBlue   = "4"
)

// UI writes human-facing messages. Results go to Out; diagnostics and
// progress go to Err so piped output stays clean.
type UI struct {
	Out          io.Writer
	Err          io.Writer
	Output       *termenv.Output
	ErrOutput    *termenv.Output
	ColorEnabled bool
}

func New(out io.Writer, err io.Writer, mode ColorMode, disableColor bool) *UI {
	output := termenv.NewOutput(out)
	return &UI{
		Out:          out,
		Err:          err,
		Output:       output,
		ErrOutput:    termenv.NewOutput(err),
		ColorEnabled: colorWanted(output, mode, disableColor),
	}
}

func colorWanted(output *termenv.Output, mode ColorMode, disableColor bool) bool {
	if disableColor {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}

	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return output.ColorProfile() != termenv.Ascii
	}
}

func NormalizeColorMode(value string) ColorMode {
	switch ColorMode(strings.ToLower(strings.TrimSpace(value))) {
	case ColorAlways:
		return ColorAlways
	case ColorNever:
		return ColorNever
	default:
		return ColorAuto
	}
}

func (u *UI) Errorf(format string, args ...any) {
	u.emit(u.Err, u.ErrOutput, func(s termenv.Style) termenv.Style {
		return s.Foreground(u.ErrOutput.Color(toneRed))
	}, format, args...)
}

func (u *UI) Warnf(format string, args ...any) {
	u.emit(u.Err, u.ErrOutput, func(s termenv.Style) termenv.Style {
		return s.Foreground(u.ErrOutput.Color(toneYellow))
	}, format, args...)
}

func (u *UI) Infof(format string, args ...any) {
	u.emit(u.Out, u.Output, func(s termenv.Style) termenv.Style {
		return s.Foreground(u.Output.Color(toneBlue))
	}, format, args...)
}

func (u *UI) Successf(format string, args ...any) {
	u.emit(u.Out, u.Output, func(s termenv.Style) termenv.Style {
		return s.Foreground(u.Output.Color(toneGreen))
	}, format, args...)
}

// Statusf prints a faint progress line to the error stream.
func (u *UI) Statusf(format string, args ...any) {
	u.emit(u.Err, u.ErrOutput, termenv.Style.Faint, format, args...)
}

// Tally colors a count green when positive and yellow when zero.
func (u *UI) Tally(n int) string {
	text := fmt.Sprintf("%d", n)
	if !u.ColorEnabled {
		return text
	}
	tone := toneGreen
	if n == 0 {
		tone = toneYellow
	}
	return u.ErrOutput.String(text).Foreground(u.ErrOutput.Color(tone)).String()
}

// emit writes one line, trailing newlines folded, styled only when color is on.
func (u *UI) emit(w io.Writer, out *termenv.Output, style func(termenv.Style) termenv.Style, format string, args ...any) {
	msg := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	if u.ColorEnabled {
		msg = style(out.String(msg)).String()
	}
	fmt.Fprintln(w, msg)
}

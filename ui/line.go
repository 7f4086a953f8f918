package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/x/ansi"

	"github.com/ftahirops/gputemp/engine"
	"github.com/ftahirops/gputemp/util"
)

// PlainLine formats a cycle without styling:
//
//	GPU: <model> Temperature: <temp> °C, Load: <load>%
//	Error: <message>
func PlainLine(c engine.Cycle) string {
	if c.Failed() {
		return "Error: " + c.Err.Error()
	}
	return formatLine(c, util.FormatFloat(c.Reading.Temperature))
}

// StyledLine is PlainLine with the temperature highlighted when the
// cycle's severity is a warning.
func StyledLine(c engine.Cycle, s Styles) string {
	if c.Failed() {
		return PlainLine(c)
	}
	temp := util.FormatFloat(c.Reading.Temperature)
	if st, ok := s.temperature(c.Severity); ok {
		temp = st.Render(temp)
	}
	return formatLine(c, temp)
}

func formatLine(c engine.Cycle, temp string) string {
	return fmt.Sprintf("GPU: %s Temperature: %s °C, Load: %s%%",
		c.Reading.Model, temp, util.FormatFloat(c.Reading.Load))
}

// LineDisplay rewrites a single terminal line in place on every cycle.
type LineDisplay struct {
	w      io.Writer
	styles Styles
}

// NewLineDisplay writes to w using styles.
func NewLineDisplay(w io.Writer, styles Styles) *LineDisplay {
	return &LineDisplay{w: w, styles: styles}
}

// Show returns the cursor to column 0, writes the line and clears what
// is left of a longer previous line. No newline is written.
func (d *LineDisplay) Show(c engine.Cycle) error {
	_, err := io.WriteString(d.w, "\r"+StyledLine(c, d.styles)+ansi.EraseLineRight)
	if err != nil {
		return err
	}
	if f, ok := d.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

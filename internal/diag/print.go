package diag

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Printer renders diagnostics as "file:line:col: severity ID: message".
type Printer struct {
	Color bool
}

// Print writes one line per diagnostic followed by a summary line when any
// diagnostics were written.
func (p Printer) Print(w io.Writer, diags []Diagnostic) {
	loc := p.style(color.Bold)
	errs, warns := 0, 0
	for _, d := range diags {
		sev := p.severityStyle(d.Severity())
		fmt.Fprintf(w, "%s %s %s: %s\n",
			loc.Sprintf("%s:%d:%d:", d.Location.File, d.Location.Line, d.Location.Column),
			sev.Sprint(d.Severity().String()),
			d.ID(),
			d.Message())
		switch d.Severity() {
		case SevError:
			errs++
		case SevWarning:
			warns++
		}
	}
	if len(diags) > 0 {
		fmt.Fprintf(w, "%d error(s), %d warning(s)\n", errs, warns)
	}
}

func (p Printer) severityStyle(s Severity) *color.Color {
	switch s {
	case SevError:
		return p.style(color.FgRed, color.Bold)
	case SevWarning:
		return p.style(color.FgYellow, color.Bold)
	case SevInfo:
		return p.style(color.FgCyan)
	}
	return p.style(color.Faint)
}

func (p Printer) style(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if p.Color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// Package output renders resolved variables as tables and dotenv lines.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/systmms/valt/internal/resolve"
	"golang.org/x/term"
)

// Format selects how show renders values.
type Format string

const (
	FormatAuto   Format = "auto"
	FormatTable  Format = "table"
	FormatDotenv Format = "dotenv"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatAuto, FormatTable, FormatDotenv:
		return f, nil
	}
	return "", fmt.Errorf("invalid format %q (expected table, dotenv or auto)", s)
}

// Resolve picks table or dotenv for auto, based on whether stdout is a terminal.
func (f Format) Resolve(stdoutIsTTY bool) Format {
	if f != FormatAuto {
		return f
	}
	if stdoutIsTTY {
		return FormatTable
	}
	return FormatDotenv
}

// Masked is shown in place of hidden values.
const Masked = "****"

// Unset is shown for absent values.
const Unset = "<unset>"

// MaskValue renders a value for display. nil is Unset; hidden multi-line
// values show their line count.
func MaskValue(value *string, show bool) string {
	if value == nil {
		return Unset
	}
	if show {
		return *value
	}
	if lines := strings.Count(*value, "\n") + 1; lines > 1 {
		return fmt.Sprintf("%s (%d lines)", Masked, lines)
	}
	return Masked
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// TerminalWidth returns the width of f, or 0 when it is not a terminal.
func TerminalWidth(f *os.File) int {
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

// Printer writes tables to one writer. Width 0 leaves tables unconstrained.
type Printer struct {
	out    io.Writer
	width  int
	styles styles
}

// NewPrinter creates a printer writing to out.
func NewPrinter(out io.Writer, color bool, width int) *Printer {
	return &Printer{out: out, width: width, styles: newStyles(color)}
}

// Table renders the values of a report with Name, Value, Provider and Info
// columns.
func (p *Printer) Table(report *resolve.Report, show bool) {
	rows := make([][]string, 0, len(report.Values))
	for _, v := range report.Values {
		name := p.styles.name.Render(v.Name)
		value := Masked
		if show {
			value = v.Value
		}

		switch v.Kind {
		case resolve.KindStore:
			rows = append(rows, []string{name, p.styles.store.Render(value), v.Provider(), v.Info()})
		case resolve.KindDotenv:
			rows = append(rows, []string{name, p.styles.dotenv.Render(value), v.Provider(), v.Info()})
		case resolve.KindDefault, resolve.KindEnv:
			rows = append(rows, []string{name, value, v.Provider(), ""})
		case resolve.KindMissing:
			rows = append(rows, []string{name, p.styles.missing.Render("missing"), "", ""})
		case resolve.KindEmpty:
			rows = append(rows, []string{name, p.styles.unset.Render(Unset), "", ""})
		}
	}

	fmt.Fprintln(p.out)
	fmt.Fprintf(p.out, "Profile: %s\n", p.styles.label.Render(report.Profile))
	fmt.Fprintln(p.out, p.newTable().Headers("Name", "Value", "Provider", "Info").Rows(rows...))
	fmt.Fprintln(p.out)
}

// Change renders the before/after table of a pending write.
func (p *Printer) Change(change resolve.Change, show bool) {
	fmt.Fprintln(p.out)
	fmt.Fprintf(p.out, "🔑 Changing secret value for '%s' in '%s'\n", change.Ref.Key, change.Ref.Source)
	fmt.Fprintln(p.out)

	t := p.newTable().
		Headers("", change.Name).
		Row(p.styles.label.Render("Before"), MaskValue(change.Before, show)).
		Row(p.styles.label.Render("After"), MaskValue(change.After, show))
	fmt.Fprintln(p.out, t)
}

// Plan renders descriptors without values.
func (p *Printer) Plan(profile string, descriptors []resolve.Descriptor) {
	rows := make([][]string, 0, len(descriptors))
	for _, d := range descriptors {
		def := ""
		if d.Default != nil {
			def = "yes"
		}
		rows = append(rows, []string{p.styles.name.Render(d.Name), d.String(), def, string(d.Policy)})
	}

	fmt.Fprintf(p.out, "Profile: %s\n", p.styles.label.Render(profile))
	fmt.Fprintln(p.out, p.newTable().Headers("Name", "Sources", "Default", "Policy").Rows(rows...))
}

func (p *Printer) newTable() *table.Table {
	s := p.styles
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.border).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.header.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	if p.width > 0 {
		t = t.Width(p.width)
	}
	return t
}

// Dotenv writes NAME=value lines. Absent optional values are skipped and
// missing required ones are written as NAME=<error>.
func Dotenv(w io.Writer, values []resolve.Value) {
	for _, v := range values {
		switch v.Kind {
		case resolve.KindEmpty:
			continue
		case resolve.KindMissing:
			fmt.Fprintf(w, "%s=<error>\n", v.Name)
		default:
			fmt.Fprintf(w, "%s=%s\n", v.Name, quote(v.Value))
		}
	}
}

func quote(value string) string {
	if !strings.Contains(value, "\n") {
		return value
	}
	if strings.Contains(value, `"`) {
		return "'" + value + "'"
	}
	return `"` + value + `"`
}

package output

import "github.com/charmbracelet/lipgloss"

var (
	colorSuccess = lipgloss.Color("#10B981")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")
	colorBorder  = lipgloss.Color("#374151")
)

// styles are the cell styles used by Printer. The zero value renders plain text.
type styles struct {
	name    lipgloss.Style
	store   lipgloss.Style
	dotenv  lipgloss.Style
	missing lipgloss.Style
	unset   lipgloss.Style
	label   lipgloss.Style
	header  lipgloss.Style
	border  lipgloss.Style
}

func newStyles(color bool) styles {
	plain := lipgloss.NewStyle()
	if !color {
		return styles{
			name: plain, store: plain, dotenv: plain, missing: plain,
			unset: plain, label: plain, header: plain, border: plain,
		}
	}
	return styles{
		name:    plain.Bold(true),
		store:   plain.Bold(true).Foreground(colorSuccess),
		dotenv:  plain.Foreground(colorSuccess),
		missing: plain.Foreground(colorError),
		unset:   plain.Foreground(colorMuted),
		label:   plain.Bold(true).Foreground(colorSuccess),
		header:  plain.Bold(true),
		border:  plain.Foreground(colorBorder),
	}
}

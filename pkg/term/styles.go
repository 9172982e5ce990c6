// Package term is the terminal front-end used by adminctl. It implements the
// console's View, LoginView, Prompter, Router and Modal interfaces on top of
// an io.Writer, drawing tables and cards with lipgloss.
package term

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/LunovVladyslav/ws-tutorial/pkg/console"
	"github.com/LunovVladyslav/ws-tutorial/pkg/model"
)

var (
	Primary  = lipgloss.Color("#7D56F4")
	Accent   = lipgloss.Color("#00BFFF")
	Success  = lipgloss.Color("#2ECC71")
	Warning  = lipgloss.Color("#F39C12")
	ErrorCol = lipgloss.Color("#E74C3C")
	Text     = lipgloss.Color("#FFFFFF")
	Muted    = lipgloss.Color("#888888")

	TitleStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true).
			MarginBottom(1)

	HeaderCellStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true).
			Padding(0, 1)

	CellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	CardStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(Success).
			MarginBottom(1)

	InfoKeyStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Width(12)

	BannedStyle = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	AdminStyle = lipgloss.NewStyle().
			Foreground(Warning)

	ResolvedStyle = lipgloss.NewStyle().
			Foreground(Success)

	BadgeStyle = lipgloss.NewStyle().
			Foreground(Text).
			Background(ErrorCol).
			Bold(true).
			Padding(0, 1)

	MutedStyle = lipgloss.NewStyle().
			Foreground(Muted)

	ErrorTextStyle = lipgloss.NewStyle().
			Foreground(ErrorCol).
			Bold(true)
)

// statusStyle colours a status cell the way the web console did: pending
// and admin amber, everything else green.
func statusStyle(status string) lipgloss.Style {
	switch status {
	case console.StatusBanned:
		return BannedStyle
	case string(model.RoleAdmin), string(model.ReportPending):
		return AdminStyle
	default:
		return ResolvedStyle
	}
}

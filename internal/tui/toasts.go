package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"stackit.dev/vbranch/internal/notify"
)

var (
	toastTitleStyle     = lipgloss.NewStyle().Bold(true)
	toastNeutralStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	toastSuccessStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	toastErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	toastBodyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).PaddingLeft(2)
	toastErrorBodyStyle = toastBodyStyle.Foreground(lipgloss.Color("196"))
)

// RenderToasts renders notifications oldest first. busy is shown in front
// of neutral notifications, which announce work in progress.
func RenderToasts(items []notify.Notification, busy string) string {
	if len(items) == 0 {
		return ""
	}

	var b strings.Builder
	for i, n := range items {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(renderToast(n, busy))
	}
	return b.String()
}

func renderToast(n notify.Notification, busy string) string {
	var icon string
	var style lipgloss.Style
	switch n.Style {
	case notify.StyleError:
		icon, style = "✗", toastErrorStyle
	case notify.StyleSuccess:
		icon, style = "✓", toastSuccessStyle
	default:
		icon, style = "•", toastNeutralStyle
		if busy != "" {
			icon = busy
		}
	}

	line := style.Render(icon) + " " + toastTitleStyle.Render(n.Title)
	if n.Message != "" {
		line += "\n" + toastBodyStyle.Render(n.Message)
	}
	if n.Error != "" {
		line += "\n" + toastErrorBodyStyle.Render(n.Error)
	}
	return line
}

package tui

import "github.com/charmbracelet/lipgloss"

// BranchColors is the palette branch names cycle through
var BranchColors = []lipgloss.Color{
	lipgloss.Color("#4CCBF1"), // Light blue
	lipgloss.Color("#4DCA7D"), // Green
	lipgloss.Color("#F5C800"), // Yellow
	lipgloss.Color("#F89048"), // Orange
	lipgloss.Color("#EB82BC"), // Pink
	lipgloss.Color("#9F83E4"), // Purple
}

// BranchColor returns the palette color for the branch at index i
func BranchColor(i int) lipgloss.Color {
	return BranchColors[i%len(BranchColors)]
}

// Package tui provides the terminal user interface for vb.
//
// It handles:
//   - Rendering the notification queue as toasts (using lipgloss)
//   - The interactive board for moving hunks, files and commits (using bubbletea)
//   - Terminal detection and color profile selection
package tui

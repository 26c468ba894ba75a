package ui

import "github.com/charmbracelet/lipgloss"

// HeadingStyle returns the lipgloss style for report section headings under
// the active theme.
func HeadingStyle() lipgloss.Style {
	t := GetCurrentTheme()
	style := lipgloss.NewStyle()
	if _, plain := t.Heading.(lipgloss.NoColor); plain || t.Heading == nil {
		return style
	}
	return style.Bold(true).Foreground(t.Heading)
}

// Heading renders s as a section heading.
func Heading(s string) string {
	return HeadingStyle().Render(s)
}

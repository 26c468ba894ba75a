// Package ui holds the report's color themes: ANSI helpers for inline text and
// lipgloss styles for headings. Themes are selected by name (--theme) and
// disabled by --no-color or NO_COLOR.
package ui

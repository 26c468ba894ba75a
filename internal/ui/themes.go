package ui

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a color scheme for the report. The string fields are ANSI escape
// codes written inline; Heading is the lipgloss color of section headings.
type Theme struct {
	Name    string
	Heading lipgloss.TerminalColor
	// Success marks verified totals.
	Success string
	// Warning marks timings and cancellation.
	Warning string
	// Error marks integrity and run failures.
	Error string
	// Info marks host details.
	Info  string
	Reset string
}

var (
	// DarkTheme suits dark terminal backgrounds.
	DarkTheme = Theme{
		Name:    "dark",
		Heading: lipgloss.Color("#00AFFF"),
		Success: "\033[38;5;82m",
		Warning: "\033[38;5;220m",
		Error:   "\033[38;5;196m",
		Info:    "\033[38;5;141m",
		Reset:   "\033[0m",
	}

	// LightTheme uses darker tones for light backgrounds.
	LightTheme = Theme{
		Name:    "light",
		Heading: lipgloss.Color("#005FAF"),
		Success: "\033[38;5;28m",
		Warning: "\033[38;5;130m",
		Error:   "\033[38;5;124m",
		Info:    "\033[38;5;54m",
		Reset:   "\033[0m",
	}

	// NoColorTheme writes plain text. Selected by --no-color or NO_COLOR.
	NoColorTheme = Theme{Name: "none", Heading: lipgloss.NoColor{}}

	themes = map[string]Theme{
		DarkTheme.Name:    DarkTheme,
		LightTheme.Name:   LightTheme,
		NoColorTheme.Name: NoColorTheme,
	}

	currentTheme = DarkTheme
	themeMutex   sync.RWMutex
)

// LookupTheme returns the theme registered under name.
func LookupTheme(name string) (Theme, bool) {
	t, ok := themes[name]
	return t, ok
}

// GetCurrentTheme returns the active theme.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// SetTheme activates the theme called name. Unknown names leave the active
// theme unchanged and return false.
func SetTheme(name string) bool {
	t, ok := LookupTheme(name)
	if !ok {
		return false
	}
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
	return true
}

// InitTheme activates the named theme unless colors are disabled by noColor
// or the NO_COLOR environment variable (https://no-color.org/). An unknown
// name falls back to the dark theme.
func InitTheme(name string, noColor bool) {
	if _, set := os.LookupEnv("NO_COLOR"); noColor || set {
		name = NoColorTheme.Name
	}
	if !SetTheme(name) {
		SetTheme(DarkTheme.Name)
	}
}

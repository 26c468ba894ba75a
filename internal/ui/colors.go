package ui

// ColorReset returns the escape code that clears formatting.
func ColorReset() string { return GetCurrentTheme().Reset }

// ColorRed is used for failures.
func ColorRed() string { return GetCurrentTheme().Error }

// ColorGreen is used for verified results.
func ColorGreen() string { return GetCurrentTheme().Success }

// ColorYellow is used for timings.
func ColorYellow() string { return GetCurrentTheme().Warning }

// ColorCyan is used for host details.
func ColorCyan() string { return GetCurrentTheme().Info }

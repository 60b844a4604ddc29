package theme

import (
	"github.com/pterm/pterm"
)

// Theme defines the colour scheme and styling for the application
type Theme struct {
	// Log level colours
	Debug    *pterm.Style
	Info     *pterm.Style
	Warn     *pterm.Style
	Error    *pterm.Style
	Critical *pterm.Style

	// Component colours
	Success   *pterm.Style
	Highlight *pterm.Style
	Muted     *pterm.Style
	Accent    *pterm.Style

	// Decision colours
	Model     *pterm.Style
	Tier      *pterm.Style
	Numbers   *pterm.Style
	Counts    *pterm.Style
	Safe      *pterm.Style
	Malicious *pterm.Style
	Healthy   *pterm.Style
	Unhealthy *pterm.Style
}

// Default returns the default application theme
func Default() *Theme {
	return &Theme{
		Debug:    pterm.NewStyle(pterm.FgLightBlue),
		Info:     pterm.NewStyle(pterm.FgGreen),
		Warn:     pterm.NewStyle(pterm.FgYellow, pterm.Bold),
		Error:    pterm.NewStyle(pterm.FgRed, pterm.Bold),
		Critical: pterm.NewStyle(pterm.FgWhite, pterm.BgRed, pterm.Bold),

		Success:   pterm.NewStyle(pterm.FgGreen, pterm.Bold),
		Highlight: pterm.NewStyle(pterm.FgCyan, pterm.Bold),
		Muted:     pterm.NewStyle(pterm.FgGray),
		Accent:    pterm.NewStyle(pterm.FgMagenta),

		Model:     pterm.NewStyle(pterm.FgCyan),
		Tier:      pterm.NewStyle(pterm.FgMagenta),
		Numbers:   pterm.NewStyle(pterm.FgYellow),
		Counts:    pterm.NewStyle(pterm.FgGray),
		Safe:      pterm.NewStyle(pterm.FgGreen),
		Malicious: pterm.NewStyle(pterm.FgRed, pterm.Bold),
		Healthy:   pterm.NewStyle(pterm.FgGreen),
		Unhealthy: pterm.NewStyle(pterm.FgRed),
	}
}

// Dark returns a dark theme variant
func Dark() *Theme {
	t := Default()
	t.Info = pterm.NewStyle(pterm.FgLightGreen)
	t.Warn = pterm.NewStyle(pterm.FgLightYellow, pterm.Bold)
	t.Error = pterm.NewStyle(pterm.FgLightRed, pterm.Bold)
	t.Success = pterm.NewStyle(pterm.FgLightGreen, pterm.Bold)
	t.Highlight = pterm.NewStyle(pterm.FgLightCyan, pterm.Bold)
	t.Accent = pterm.NewStyle(pterm.FgLightMagenta)
	t.Model = pterm.NewStyle(pterm.FgLightCyan)
	t.Tier = pterm.NewStyle(pterm.FgLightMagenta)
	t.Numbers = pterm.NewStyle(pterm.FgLightYellow)
	t.Safe = pterm.NewStyle(pterm.FgLightGreen)
	t.Malicious = pterm.NewStyle(pterm.FgLightRed, pterm.Bold)
	t.Healthy = pterm.NewStyle(pterm.FgLightGreen)
	t.Unhealthy = pterm.NewStyle(pterm.FgLightRed)
	return t
}

// Light returns a light theme variant
func Light() *Theme {
	t := Default()
	t.Debug = pterm.NewStyle(pterm.FgBlue)
	t.Info = pterm.NewStyle(pterm.FgBlack)
	t.Warn = pterm.NewStyle(pterm.FgRed, pterm.Bold)
	t.Highlight = pterm.NewStyle(pterm.FgBlue, pterm.Bold)
	t.Model = pterm.NewStyle(pterm.FgBlue)
	t.Numbers = pterm.NewStyle(pterm.FgRed)
	return t
}

// GetTheme returns the appropriate theme based on environment or preference
func GetTheme(name string) *Theme {
	switch name {
	case "dark":
		return Dark()
	case "light":
		return Light()
	default:
		return Default()
	}
}

// ColourSplash Colours for the splash screen
func ColourSplash(message ...any) string {
	return pterm.LightGreen(message...)
}

// ColourVersion Colours Version numbers, used for the splash screen
func ColourVersion(message ...any) string {
	return pterm.LightYellow(message...)
}

// StyleUrl Colours for URLs and hyperlinks
func StyleUrl(message ...any) string {
	return pterm.LightBlue(message...)
}

// Package styles provides shared lipgloss styles for CLI output.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Style exports.
var (
	TextPrimaryBoldStyle    lipgloss.Style
	TextForegroundStyle     lipgloss.Style
	TextForegroundBoldStyle lipgloss.Style
	TextMutedStyle          lipgloss.Style
	TextSuccessStyle        lipgloss.Style
	TextWarningStyle        lipgloss.Style
	TextErrorStyle          lipgloss.Style

	// Report styles.
	PathStyle  lipgloss.Style
	CodeStyle  lipgloss.Style
	LineStyle  lipgloss.Style
	FieldStyle lipgloss.Style

	// Unified diff styles.
	DiffHeaderStyle lipgloss.Style
	DiffHunkStyle   lipgloss.Style
	DiffAddStyle    lipgloss.Style
	DiffDelStyle    lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	TextPrimaryBoldStyle = lipgloss.NewStyle().Foreground(p.Primary).Bold(true)
	TextForegroundStyle = lipgloss.NewStyle().Foreground(p.Foreground)
	TextForegroundBoldStyle = lipgloss.NewStyle().Foreground(p.Foreground).Bold(true)
	TextMutedStyle = lipgloss.NewStyle().Foreground(p.Muted)
	TextSuccessStyle = lipgloss.NewStyle().Foreground(p.Success)
	TextWarningStyle = lipgloss.NewStyle().Foreground(p.Warning)
	TextErrorStyle = lipgloss.NewStyle().Foreground(p.Error)

	PathStyle = lipgloss.NewStyle().Foreground(p.Primary).Underline(true)
	CodeStyle = lipgloss.NewStyle().Foreground(p.Muted).Italic(true)
	LineStyle = lipgloss.NewStyle().Foreground(p.Secondary)
	FieldStyle = lipgloss.NewStyle().Foreground(p.Foreground).Bold(true)

	DiffHeaderStyle = lipgloss.NewStyle().Foreground(p.Foreground).Bold(true)
	DiffHunkStyle = lipgloss.NewStyle().Foreground(p.Secondary)
	DiffAddStyle = lipgloss.NewStyle().Foreground(p.Success)
	DiffDelStyle = lipgloss.NewStyle().Foreground(p.Error)
}

// UseTheme activates a named theme. It returns false for unknown names and
// leaves the current theme in place.
func UseTheme(name string) bool {
	p, ok := GetPalette(name)
	if !ok {
		return false
	}
	SetTheme(p)
	return true
}

// Disable strips colour and decoration from every style.
func Disable() {
	none := lipgloss.NoColor{}
	SetTheme(Palette{
		Primary:    none,
		Secondary:  none,
		Foreground: none,
		Muted:      none,
		Success:    none,
		Warning:    none,
		Error:      none,
	})

	for _, s := range []*lipgloss.Style{
		&TextPrimaryBoldStyle, &TextForegroundBoldStyle, &PathStyle,
		&CodeStyle, &FieldStyle, &DiffHeaderStyle,
	} {
		*s = lipgloss.NewStyle()
	}
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}

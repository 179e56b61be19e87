package style

import "github.com/charmbracelet/lipgloss"

// Theme defines a complete color palette for the TUI.
type Theme struct {
	Name                                        string
	Primary, Secondary, Accent                  lipgloss.TerminalColor
	Success, Warning, Error                     lipgloss.TerminalColor
	Muted, Dim, Border                          lipgloss.TerminalColor
}

// Built-in themes. "neon" matches the Maya web branding.
var (
	neonTheme = Theme{
		Name:      "neon",
		Primary:   lipgloss.Color("#FF4ECD"), // neon pink
		Secondary: lipgloss.Color("#B026FF"), // neon purple
		Accent:    lipgloss.Color("#00F0FF"), // neon blue
		Success:   lipgloss.Color("#22C55E"),
		Warning:   lipgloss.Color("#F59E0B"),
		Error:     lipgloss.Color("#EF4444"),
		Muted:     lipgloss.Color("#6B7280"),
		Dim:       lipgloss.Color("#374151"),
		Border:    lipgloss.Color("#4B5563"),
	}

	darkTheme = Theme{
		Name:      "dark",
		Primary:   lipgloss.Color("#7C3AED"), // violet-600
		Secondary: lipgloss.Color("#06B6D4"), // cyan-500
		Accent:    lipgloss.Color("#06B6D4"),
		Success:   lipgloss.Color("#22C55E"),
		Warning:   lipgloss.Color("#F59E0B"),
		Error:     lipgloss.Color("#EF4444"),
		Muted:     lipgloss.Color("#6B7280"),
		Dim:       lipgloss.Color("#374151"),
		Border:    lipgloss.Color("#4B5563"),
	}

	lightTheme = Theme{
		Name:      "light",
		Primary:   lipgloss.Color("#BE185D"), // pink-700
		Secondary: lipgloss.Color("#7E22CE"), // purple-700
		Accent:    lipgloss.Color("#0891B2"), // cyan-600
		Success:   lipgloss.Color("#16A34A"),
		Warning:   lipgloss.Color("#D97706"),
		Error:     lipgloss.Color("#DC2626"),
		Muted:     lipgloss.Color("#9CA3AF"),
		Dim:       lipgloss.Color("#D1D5DB"),
		Border:    lipgloss.Color("#9CA3AF"),
	}
)

// Themes maps theme names to their definitions.
var Themes = map[string]Theme{
	"neon":  neonTheme,
	"dark":  darkTheme,
	"light": lightTheme,
}

// ThemeNames lists available themes in display order.
var ThemeNames = []string{"neon", "dark", "light"}

// CurrentThemeName tracks the active theme name.
var CurrentThemeName = "neon"

// SetTheme switches the active palette. Unknown names fall back to "neon".
func SetTheme(name string) {
	theme, ok := Themes[name]
	if !ok {
		theme = neonTheme
	}
	CurrentThemeName = theme.Name
	applyTheme(theme)
}

package style

import "github.com/charmbracelet/lipgloss"

// Colors are populated from the active Theme; defaults to neon (Maya branding).
var (
	Primary   = neonTheme.Primary
	Secondary = neonTheme.Secondary
	Accent    = neonTheme.Accent
	Success   = neonTheme.Success
	Warning   = neonTheme.Warning
	Error     = neonTheme.Error
	Muted     = neonTheme.Muted
	Dim       = neonTheme.Dim
	Border    = neonTheme.Border
)

// Base styles.
var (
	Bold      = lipgloss.NewStyle().Bold(true)
	Faint     = lipgloss.NewStyle().Foreground(Muted)
	ErrorText = lipgloss.NewStyle().Foreground(Error).Bold(true)

	// Banner
	BannerTitle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)
	BannerDetail = lipgloss.NewStyle().
			Foreground(Muted)

	// Prompt
	PromptChar = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	// Chat
	UserLabel = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)
	AssistantLabel = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	// Video job indicators
	VideoGenerating = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)
	VideoFailed = lipgloss.NewStyle().
			Foreground(Error)
	VideoReady = lipgloss.NewStyle().
			Foreground(Accent).
			Underline(true)

	// Status bar
	StatusBar = lipgloss.NewStyle().
			Foreground(Muted).
			PaddingLeft(1)
	StatusIdentity = lipgloss.NewStyle().
			Foreground(Secondary)
	StatusGate = lipgloss.NewStyle().
			Foreground(Warning)

	// Hint text
	Hint = lipgloss.NewStyle().
		Foreground(Dim)
)

// applyTheme rebuilds every derived style from theme.
func applyTheme(theme Theme) {
	Primary = theme.Primary
	Secondary = theme.Secondary
	Accent = theme.Accent
	Success = theme.Success
	Warning = theme.Warning
	Error = theme.Error
	Muted = theme.Muted
	Dim = theme.Dim
	Border = theme.Border

	Faint = lipgloss.NewStyle().Foreground(Muted)
	ErrorText = lipgloss.NewStyle().Foreground(Error).Bold(true)
	BannerTitle = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	BannerDetail = lipgloss.NewStyle().Foreground(Muted)
	PromptChar = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	UserLabel = lipgloss.NewStyle().Foreground(Accent).Bold(true)
	AssistantLabel = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	VideoGenerating = lipgloss.NewStyle().Foreground(Muted).Italic(true)
	VideoFailed = lipgloss.NewStyle().Foreground(Error)
	VideoReady = lipgloss.NewStyle().Foreground(Accent).Underline(true)
	StatusBar = lipgloss.NewStyle().Foreground(Muted).PaddingLeft(1)
	StatusIdentity = lipgloss.NewStyle().Foreground(Secondary)
	StatusGate = lipgloss.NewStyle().Foreground(Warning)
	Hint = lipgloss.NewStyle().Foreground(Dim)
}

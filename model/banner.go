package model

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mayachat/maya-tui/style"
)

// BannerModel renders the one-line header:
//
//	M A Y A · http://127.0.0.1:8000
type BannerModel struct {
	version string
	baseURL string
	width   int
}

// NewBanner returns a BannerModel for the given backend address.
func NewBanner(version, baseURL string) BannerModel {
	return BannerModel{version: version, baseURL: baseURL}
}

// SetWidth sets the available width for centering.
func (m *BannerModel) SetWidth(w int) {
	m.width = w
}

// Init satisfies tea.Model.
func (m BannerModel) Init() tea.Cmd {
	return nil
}

// Update satisfies tea.Model. The banner is static.
func (m BannerModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

// View renders the header line with a separator underneath.
func (m BannerModel) View() string {
	muted := lipgloss.NewStyle().Foreground(style.Muted)
	title := style.BannerTitle.Render("M A Y A")
	detail := style.BannerDetail.Render(m.baseURL)
	line := title + muted.Render(" · ") + detail

	sep := ""
	if m.width > 0 {
		sep = "\n" + style.Hint.Render(repeatRune('─', m.width))
	}
	return line + sep
}

func repeatRune(r rune, n int) string {
	out := make([]rune, n)
	for i := range out {
		out[i] = r
	}
	return string(out)
}

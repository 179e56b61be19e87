package model

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mayachat/maya-tui/style"
)

// StatusModel renders the bottom status line:
//
//	you@example.com · video on · 2 jobs
//	guest 1/3 · video off
//
// It is driven entirely by setter calls from the app loop.
type StatusModel struct {
	email      string
	guestUsed  int
	guestLimit int
	wantVideo  bool
	jobCount   int
	awaiting   bool
	dots       int
}

// NewStatus returns a zero-value StatusModel.
func NewStatus() StatusModel {
	return StatusModel{}
}

// SetIdentity records the signed-in address, or "" for a guest.
func (m *StatusModel) SetIdentity(email string) {
	m.email = email
}

// SetGuestQuota records used/limit guest sends for the gate display.
func (m *StatusModel) SetGuestQuota(used, limit int) {
	m.guestUsed = used
	m.guestLimit = limit
}

// SetWantVideo records the video toggle state.
func (m *StatusModel) SetWantVideo(on bool) {
	m.wantVideo = on
}

// SetJobCount records how many video jobs are generating.
func (m *StatusModel) SetJobCount(n int) {
	m.jobCount = n
}

// SetAwaiting toggles the thinking indicator.
func (m *StatusModel) SetAwaiting(on bool) {
	m.awaiting = on
	if !on {
		m.dots = 0
	}
}

// Tick advances the thinking animation. Call on msg.TickMsg.
func (m *StatusModel) Tick() {
	m.dots = (m.dots + 1) % 4
}

// Init satisfies tea.Model.
func (m StatusModel) Init() tea.Cmd {
	return nil
}

// Update satisfies tea.Model; the status line consumes no messages.
func (m StatusModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

// View renders the status line.
func (m StatusModel) View() string {
	var parts []string
	if m.email != "" {
		parts = append(parts, style.StatusIdentity.Render(m.email))
	} else {
		parts = append(parts, style.StatusGate.Render(
			fmt.Sprintf("guest %d/%d", m.guestUsed, m.guestLimit)))
	}

	if m.wantVideo {
		parts = append(parts, "video on")
	} else {
		parts = append(parts, "video off")
	}

	if m.jobCount == 1 {
		parts = append(parts, "1 job")
	} else if m.jobCount > 1 {
		parts = append(parts, fmt.Sprintf("%d jobs", m.jobCount))
	}

	line := style.StatusBar.Render(strings.Join(parts, " · "))
	if m.awaiting {
		line += style.Faint.Render(" thinking" + strings.Repeat(".", m.dots))
	}
	return line
}

package model

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mayachat/maya-tui/style"
)

// ToastLevel classifies toast severity.
type ToastLevel int

const (
	ToastInfo ToastLevel = iota
	ToastWarning
	ToastError
)

const maxToasts = 3

type toast struct {
	message string
	level   ToastLevel
	expiry  time.Time
}

// ToastsModel manages a queue of auto-dismissing notices: gate prompts,
// auth results, busy warnings. Repeating the message already on top of the
// queue refreshes its expiry instead of stacking a duplicate, since the busy
// warning can fire on every Enter press.
type ToastsModel struct {
	queue []toast
}

// NewToasts creates an empty ToastsModel.
func NewToasts() ToastsModel {
	return ToastsModel{}
}

// ttlFor keeps errors on screen longer than notices.
func ttlFor(level ToastLevel) time.Duration {
	if level == ToastError {
		return 6 * time.Second
	}
	return 4 * time.Second
}

// Add enqueues a toast. Oldest toasts drop when the queue exceeds maxToasts.
func (m *ToastsModel) Add(message string, level ToastLevel) {
	expiry := time.Now().Add(ttlFor(level))
	if n := len(m.queue); n > 0 && m.queue[n-1].message == message {
		m.queue[n-1].expiry = expiry
		return
	}
	m.queue = append(m.queue, toast{message: message, level: level, expiry: expiry})
	if len(m.queue) > maxToasts {
		m.queue = m.queue[len(m.queue)-maxToasts:]
	}
}

// Tick prunes expired toasts. Call on every msg.TickMsg.
func (m *ToastsModel) Tick() {
	now := time.Now()
	alive := m.queue[:0]
	for _, t := range m.queue {
		if now.Before(t.expiry) {
			alive = append(alive, t)
		}
	}
	m.queue = alive
}

// HasToasts reports whether any toasts are visible.
func (m ToastsModel) HasToasts() bool {
	return len(m.queue) > 0
}

// View renders visible toasts as right-aligned colored lines.
func (m ToastsModel) View(termWidth int) string {
	if len(m.queue) == 0 {
		return ""
	}
	lines := make([]string, 0, len(m.queue))
	for _, t := range m.queue {
		icon, color := toastIconColor(t.level)
		rendered := lipgloss.NewStyle().
			Foreground(color).
			Render(" " + icon + " " + t.message + " ")
		pad := termWidth - lipgloss.Width(rendered)
		if pad < 0 {
			pad = 0
		}
		lines = append(lines, strings.Repeat(" ", pad)+rendered)
	}
	return strings.Join(lines, "\n")
}

func toastIconColor(level ToastLevel) (string, lipgloss.TerminalColor) {
	switch level {
	case ToastWarning:
		return "⚠", style.Warning
	case ToastError:
		return "✘", style.Error
	default:
		return "✓", style.Success
	}
}

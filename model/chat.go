package model

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mayachat/maya-tui/markdown"
	"github.com/mayachat/maya-tui/session"
	"github.com/mayachat/maya-tui/style"
)

const welcomeLine = "She's watching… waiting for you to speak."

// ChatModel is a scrollable viewport that displays the transcript. It holds
// a snapshot taken from the session controller; it never mutates messages.
type ChatModel struct {
	vp       viewport.Model
	messages []session.Message
	typing   bool
	width    int
	height   int
}

// NewChat constructs a ChatModel sized to width x height.
func NewChat(width, height int) ChatModel {
	vp := viewport.New(width, height)
	vp.SetContent("")
	return ChatModel{
		vp:     vp,
		width:  width,
		height: height,
	}
}

// SetMessages replaces the rendered snapshot and scrolls to the bottom.
func (m *ChatModel) SetMessages(msgs []session.Message) {
	m.messages = msgs
	m.refresh()
}

// SetTyping toggles the typing indicator under the last message.
func (m *ChatModel) SetTyping(typing bool) {
	m.typing = typing
	m.refresh()
}

// SetSize resizes the underlying viewport.
func (m *ChatModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.vp.Width = width
	m.vp.Height = height
	m.refresh()
}

// ScrollToTop jumps the viewport to the first message.
func (m *ChatModel) ScrollToTop() { m.vp.GotoTop() }

// ScrollToBottom jumps the viewport to the latest message.
func (m *ChatModel) ScrollToBottom() { m.vp.GotoBottom() }

// Init satisfies tea.Model.
func (m ChatModel) Init() tea.Cmd {
	return nil
}

// Update forwards keyboard and mouse events to the viewport.
func (m ChatModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(message)
	return m, cmd
}

// View returns the rendered viewport content.
func (m ChatModel) View() string {
	return m.vp.View()
}

// refresh re-renders all messages into the viewport and scrolls to the bottom.
func (m *ChatModel) refresh() {
	m.vp.SetContent(m.renderAll())
	m.vp.GotoBottom()
}

func (m *ChatModel) renderAll() string {
	if len(m.messages) == 0 && !m.typing {
		return style.Faint.Render("  " + welcomeLine)
	}

	var sb strings.Builder
	for i, message := range m.messages {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(renderMessage(message))
	}
	if m.typing {
		if len(m.messages) > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(style.Faint.Render("◈ Maya is typing…"))
	}
	return sb.String()
}

// renderMessage converts one transcript entry to a display string.
func renderMessage(message session.Message) string {
	if message.Sender == session.SenderUser {
		return style.UserLabel.Render("❯ You") + "\n" + message.Text
	}

	out := style.AssistantLabel.Render("◈ Maya") + "\n" + markdown.Render(message.Text)
	if line := videoLine(message.Job); line != "" {
		out += "\n" + line
	}
	return out
}

// videoLine renders the job indicator under an assistant message: a
// generating notice while non-terminal, the failure line, or the playable
// URL once ready.
func videoLine(job *session.VideoJob) string {
	if job == nil {
		return ""
	}
	switch job.Status {
	case session.JobReady:
		return style.VideoReady.Render("▶ " + job.URL)
	case session.JobFailed:
		return style.VideoFailed.Render("Video generation failed")
	default:
		return style.VideoGenerating.Render("Generating video…")
	}
}

// Package app is the bubbletea shell around the session controller: it
// renders transcript snapshots, forwards user input, and surfaces gate and
// auth notices. All chat semantics live in the session package.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/mayachat/maya-tui/auth"
	"github.com/mayachat/maya-tui/model"
	"github.com/mayachat/maya-tui/msg"
	"github.com/mayachat/maya-tui/session"
	"github.com/mayachat/maya-tui/style"
)

// ProgramReady delivers the running program so background sources (the auth
// subscription) can post messages into the update loop.
type ProgramReady struct{ Program *tea.Program }

var slashCommands = []string{
	"/login", "/signup", "/logout", "/new", "/sessions", "/session",
	"/video", "/theme", "/help", "/quit",
}

// Model is the root tea.Model.
type Model struct {
	banner model.BannerModel
	chat   model.ChatModel
	input  model.InputModel
	status model.StatusModel
	toasts model.ToastsModel

	state       State
	ctrl        *session.Controller
	auth        *auth.State
	program     *tea.Program
	unsubscribe func()
	keys        KeyMap
	log         *zap.Logger

	width       int
	height      int
	wantVideo   bool
	guestLimit  int
	helpVisible bool
	confirmQuit bool
}

// New builds the root model around an already-wired controller and auth
// state.
func New(ctrl *session.Controller, authState *auth.State, version, baseURL string, guestLimit int, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}
	input := model.NewInput()
	input.SetCommands(slashCommands)
	status := model.NewStatus()
	status.SetGuestQuota(0, guestLimit)
	status.SetIdentity(authState.Email())
	return Model{
		banner:     model.NewBanner(version, baseURL),
		chat:       model.NewChat(80, 20),
		input:      input,
		status:     status,
		toasts:     model.NewToasts(),
		state:      StateIdle,
		ctrl:       ctrl,
		auth:       authState,
		keys:       DefaultKeyMap(),
		log:        log,
		width:      80,
		height:     24,
		guestLimit: guestLimit,
	}
}

// Init satisfies tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.input.Init(), m.input.Focus(), m.waitEvent(), m.tickCmd(), tea.WindowSize())
}

// Update satisfies tea.Model.
func (m Model) Update(rawMsg tea.Msg) (tea.Model, tea.Cmd) {
	switch v := rawMsg.(type) {
	case tea.WindowSizeMsg:
		m.width = v.Width
		m.height = v.Height
		m.banner.SetWidth(v.Width)
		m.input.SetWidth(v.Width)
		m.chat.SetSize(v.Width, m.chatHeight())
		return m, nil

	case tea.KeyMsg:
		nm, cmd := m.handleKey(v)
		return nm, cmd

	case ProgramReady:
		m.program = v.Program
		p := v.Program
		m.unsubscribe = m.auth.Subscribe(func() {
			p.Send(msg.AuthChanged{})
		})
		return m, nil

	case session.Event:
		nm, cmd := m.handleSessionEvent(v)
		return nm, cmd

	case msg.AuthChanged:
		m.status.SetIdentity(m.auth.Email())
		m.refresh()
		return m, nil

	case msg.LoginResult:
		if v.Err != nil {
			m.toasts.Add(v.Err.Error(), model.ToastError)
		} else {
			m.toasts.Add(fmt.Sprintf("Signed in as %s", v.Email), model.ToastInfo)
		}
		m.status.SetIdentity(m.auth.Email())
		return m, nil

	case msg.SignupResult:
		if v.Err != nil {
			m.toasts.Add(v.Err.Error(), model.ToastError)
		} else {
			m.toasts.Add(fmt.Sprintf("Welcome, %s", v.Email), model.ToastInfo)
		}
		m.status.SetIdentity(m.auth.Email())
		return m, nil

	case msg.LogoutResult:
		m.toasts.Add("Signed out", model.ToastInfo)
		m.status.SetIdentity(m.auth.Email())
		return m, nil

	case msg.TickMsg:
		m.toasts.Tick()
		if m.state == StateAwaiting {
			m.status.Tick()
		}
		return m, m.tickCmd()
	}

	return m, nil
}

// View satisfies tea.Model.
func (m Model) View() string {
	var sections []string
	sections = append(sections, m.banner.View())
	sections = append(sections, m.chat.View())
	if m.toasts.HasToasts() {
		sections = append(sections, m.toasts.View(m.width))
	}
	if m.helpVisible {
		sections = append(sections, helpText())
	}
	sections = append(sections, m.status.View())
	sections = append(sections, m.input.View())
	if m.confirmQuit {
		sections = append(sections, "\n  Press Ctrl+C again to quit, or any key to stay.")
	}
	return strings.Join(sections, "\n")
}

// Close releases the auth subscription and the controller.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	m.ctrl.Close()
}

func (m Model) handleSessionEvent(ev session.Event) (Model, tea.Cmd) {
	cmds := []tea.Cmd{m.waitEvent()}
	switch ev.Kind {
	case session.EventExchangeDone:
		m.state = StateIdle
		cmds = append(cmds, m.input.Focus())
	case session.EventReset:
		m.state = StateIdle
		m.input.Reset()
		m.toasts.Add("New session started", model.ToastInfo)
		cmds = append(cmds, m.input.Focus())
	}
	m.refresh()
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(k tea.KeyMsg) (Model, tea.Cmd) {
	if m.confirmQuit {
		if key.Matches(k, m.keys.Cancel) {
			m.Close()
			return m, tea.Quit
		}
		m.confirmQuit = false
		return m, nil
	}

	switch {
	case key.Matches(k, m.keys.Cancel):
		if m.input.Value() == "" {
			m.confirmQuit = true
			return m, nil
		}
		m.input.Reset()
		return m, nil

	case key.Matches(k, m.keys.QuitEOF):
		if m.input.Value() == "" {
			m.Close()
			return m, tea.Quit
		}

	case key.Matches(k, m.keys.Escape):
		m.helpVisible = false
		m.input.Reset()
		return m, nil

	case key.Matches(k, m.keys.Submit):
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}
		return m.submitInput(text)

	case key.Matches(k, m.keys.ToggleVideo):
		m.wantVideo = !m.wantVideo
		m.status.SetWantVideo(m.wantVideo)
		return m, nil

	case key.Matches(k, m.keys.NewSession):
		m.ctrl.NewSession()
		return m, nil

	case key.Matches(k, m.keys.Help):
		m.helpVisible = !m.helpVisible
		m.chat.SetSize(m.width, m.chatHeight())
		return m, nil

	case key.Matches(k, m.keys.ClearInput):
		m.input.Reset()
		return m, nil

	case key.Matches(k, m.keys.ScrollTop):
		m.chat.ScrollToTop()
		return m, nil

	case key.Matches(k, m.keys.ScrollBottom):
		m.chat.ScrollToBottom()
		return m, nil

	case key.Matches(k, m.keys.PageUp), key.Matches(k, m.keys.PageDown):
		updated, cmd := m.chat.Update(k)
		if c, ok := updated.(model.ChatModel); ok {
			m.chat = c
		}
		return m, cmd
	}

	updated, cmd := m.input.Update(k)
	if inp, ok := updated.(model.InputModel); ok {
		m.input = inp
	}
	return m, cmd
}

func (m Model) submitInput(text string) (Model, tea.Cmd) {
	if strings.HasPrefix(text, "/") {
		return m.runCommand(text)
	}
	return m.sendMessage(text)
}

// sendMessage hands the turn to the controller. On gate or busy rejection
// the typed text stays in the input bar so nothing the user wrote is lost.
func (m Model) sendMessage(text string) (Model, tea.Cmd) {
	err := m.ctrl.Send(text, m.wantVideo)
	switch {
	case err == nil:
		m.input.Submit(text)
		m.state = StateAwaiting
		m.status.SetAwaiting(true)
		m.input.Blur()
		return m, nil
	case errors.Is(err, session.ErrBusy):
		m.toasts.Add("Maya is still thinking…", model.ToastWarning)
	case errors.Is(err, session.ErrGateClosed):
		m.toasts.Add("Guest limit reached. /login or /signup to keep chatting", model.ToastWarning)
	case errors.Is(err, session.ErrEmptyInput):
		// Nothing to do.
	default:
		m.toasts.Add(err.Error(), model.ToastError)
	}
	return m, nil
}

func (m Model) runCommand(text string) (Model, tea.Cmd) {
	fields := strings.Fields(text)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "/quit", "/exit":
		m.Close()
		return m, tea.Quit

	case "/help":
		m.helpVisible = !m.helpVisible
		m.input.Reset()
		m.chat.SetSize(m.width, m.chatHeight())
		return m, nil

	case "/login":
		if len(args) != 2 {
			m.toasts.Add("Usage: /login <email> <password>", model.ToastWarning)
			return m, nil
		}
		m.input.Submit("/login " + args[0])
		return m, m.doLogin(args[0], args[1])

	case "/signup":
		if len(args) != 2 {
			m.toasts.Add("Usage: /signup <email> <password>", model.ToastWarning)
			return m, nil
		}
		m.input.Submit("/signup " + args[0])
		return m, m.doSignup(args[0], args[1])

	case "/logout":
		m.input.Reset()
		return m, m.doLogout()

	case "/new":
		m.input.Reset()
		m.ctrl.NewSession()
		return m, nil

	case "/sessions":
		m.input.Reset()
		var parts []string
		for _, s := range m.ctrl.Sessions() {
			parts = append(parts, fmt.Sprintf("%s) %s", s.ID, s.Title))
		}
		m.toasts.Add("Sessions: "+strings.Join(parts, "  "), model.ToastInfo)
		return m, nil

	case "/session":
		if len(args) != 1 {
			m.toasts.Add("Usage: /session <id>", model.ToastWarning)
			return m, nil
		}
		m.input.Reset()
		m.ctrl.SelectSession(args[0])
		m.toasts.Add(fmt.Sprintf("Viewing session %s (transcript not reloaded)", args[0]), model.ToastInfo)
		return m, nil

	case "/video":
		m.input.Reset()
		m.wantVideo = !m.wantVideo
		m.status.SetWantVideo(m.wantVideo)
		return m, nil

	case "/theme":
		if len(args) != 1 {
			m.toasts.Add("Usage: /theme <neon|dark|light>", model.ToastWarning)
			return m, nil
		}
		m.input.Reset()
		return m, m.switchTheme(args[0])
	}

	m.toasts.Add("Unknown command: "+cmd, model.ToastWarning)
	return m, nil
}

func (m *Model) switchTheme(name string) tea.Cmd {
	if _, ok := style.Themes[name]; !ok {
		m.toasts.Add("Unknown theme: "+name, model.ToastWarning)
		return nil
	}
	// Styles are package-level; a redraw picks the new palette up.
	style.SetTheme(name)
	m.toasts.Add("Theme: "+name, model.ToastInfo)
	m.refresh()
	return nil
}

func (m Model) doLogin(email, password string) tea.Cmd {
	a := m.auth
	return func() tea.Msg {
		err := a.Login(context.Background(), email, password)
		return msg.LoginResult{Email: email, Err: err}
	}
}

func (m Model) doSignup(email, password string) tea.Cmd {
	a := m.auth
	return func() tea.Msg {
		err := a.Signup(context.Background(), email, password)
		return msg.SignupResult{Email: email, Err: err}
	}
}

func (m Model) doLogout() tea.Cmd {
	a := m.auth
	return func() tea.Msg {
		a.Logout()
		return msg.LogoutResult{}
	}
}

// waitEvent blocks on the controller's event stream and feeds the next
// notification into the update loop. Re-armed after every delivery.
func (m Model) waitEvent() tea.Cmd {
	events := m.ctrl.Events()
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return ev
	}
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(time.Time) tea.Msg { return msg.TickMsg{} })
}

// refresh re-reads controller state into the view models.
func (m *Model) refresh() {
	msgs := m.ctrl.Messages()
	m.chat.SetMessages(msgs)
	m.chat.SetTyping(m.ctrl.Awaiting())
	m.status.SetAwaiting(m.ctrl.Awaiting())
	m.status.SetJobCount(m.ctrl.ActiveJobs())

	used := 0
	for _, message := range msgs {
		if message.Sender == session.SenderUser {
			used++
		}
	}
	m.status.SetGuestQuota(used, m.guestLimit)
}

// chatHeight calculates available lines for the chat viewport.
func (m Model) chatHeight() int {
	reserved := 2 // banner + separator
	reserved += 2 // status + input
	if m.helpVisible {
		reserved += countLines(helpText())
	}
	h := m.height - reserved
	if h < 5 {
		h = 5
	}
	return h
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}

func helpText() string {
	return `Commands:
  /login <email> <password>   Sign in
  /signup <email> <password>  Create an account and sign in
  /logout                     Sign out
  /new                        Start a new session
  /sessions                   List past conversations
  /session <id>               Select a conversation
  /video                      Toggle the video request flag
  /theme <neon|dark|light>    Switch color theme
  /quit                       Exit

Keybindings:
  Enter      Send message
  Ctrl+V     Toggle video request
  Ctrl+N     New session
  Ctrl+U     Clear input
  F1         Toggle this help
  Home/End   Scroll to top/bottom
  PgUp/PgDn  Scroll transcript
  Tab        Autocomplete commands
  Up/Down    Input history
  Ctrl+C     Quit`
}

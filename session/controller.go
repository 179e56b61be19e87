package session

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mayachat/maya-tui/client"
)

const (
	// DefaultGuestLimit is how many messages an unauthenticated viewer may
	// send before the gate closes.
	DefaultGuestLimit = 3

	// Pacing window before a reply becomes visible, sampled uniformly in
	// [PacingMin, PacingMin+PacingJitter). Keeps the reply cadence from
	// feeling instantaneous.
	DefaultPacingMin    = 600 * time.Millisecond
	DefaultPacingJitter = 300 * time.Millisecond

	fallbackReply = "Hmm, something's not right..."
	errorReply    = "Something's playing hard to get... try again?"
)

// Gateway is the slice of the HTTP client the controller needs for a chat
// turn.
type Gateway interface {
	Chat(ctx context.Context, message string, wantVideo bool) (*client.ChatResponse, error)
}

// AuthReader is the controller's read-only view of authentication state,
// consulted live at every gate decision.
type AuthReader interface {
	IsAuthenticated() bool
}

// Options configures a Controller. Gateway, Jobs and Auth are required.
type Options struct {
	Gateway      Gateway
	Jobs         JobGetter
	Auth         AuthReader
	Logger       *zap.Logger
	PollInterval time.Duration
	PacingMin    time.Duration
	PacingJitter time.Duration
	GuestLimit   int
}

// Controller owns the transcript for the current session. The log is
// append-only: messages are never edited (apart from their in-place job
// state) or removed, only cleared wholesale by NewSession.
type Controller struct {
	gw           Gateway
	auth         AuthReader
	poller       *JobPoller
	log          *zap.Logger
	pacingMin    time.Duration
	pacingJitter time.Duration
	guestLimit   int
	events       chan Event

	mu       sync.Mutex
	msgs     []*Message
	activeID string
	awaiting bool
	gateOpen bool
	closed   bool
	gen      uint64 // bumped by NewSession; a stale exchange never lands
}

// NewController wires a controller and its job poller.
func NewController(opts Options) *Controller {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	guestLimit := opts.GuestLimit
	if guestLimit <= 0 {
		guestLimit = DefaultGuestLimit
	}
	c := &Controller{
		gw:           opts.Gateway,
		auth:         opts.Auth,
		log:          log,
		pacingMin:    opts.PacingMin,
		pacingJitter: opts.PacingJitter,
		guestLimit:   guestLimit,
		events:       make(chan Event, 64),
	}
	c.poller = NewJobPoller(opts.Jobs, opts.PollInterval, c.applyJobUpdate, log)
	return c
}

// Events is the controller's notification stream. The UI drains it and takes
// Messages() snapshots; the channel never carries transcript content.
func (c *Controller) Events() <-chan Event { return c.events }

// Send validates and dispatches one user turn. The user message is appended
// optimistically before the network round trip; the assistant reply (or a
// user-safe error stand-in) follows after the pacing delay. Only one
// exchange may be outstanding.
func (c *Controller) Send(text string, wantVideo bool) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyInput
	}

	c.mu.Lock()
	if c.awaiting {
		c.mu.Unlock()
		return ErrBusy
	}
	authed := c.auth.IsAuthenticated()
	if authed {
		// Once authenticated the gate stays open for this session, even
		// across a later logout.
		c.gateOpen = true
	}
	if !authed && !c.gateOpen && c.userCountLocked() >= c.guestLimit {
		c.mu.Unlock()
		c.log.Info("guest gate closed", zap.Int("limit", c.guestLimit))
		return ErrGateClosed
	}
	m := &Message{ID: uuid.NewString(), Sender: SenderUser, Text: text, SentAt: time.Now()}
	c.msgs = append(c.msgs, m)
	c.awaiting = true
	gen := c.gen
	c.mu.Unlock()

	c.emit(Event{Kind: EventTranscript})
	// Video is silently disabled for guests; the UI keeps the toggle intent
	// for the next authenticated attempt.
	go c.exchange(text, wantVideo && authed, gen)
	return nil
}

// NewSession discards the current transcript: every poll loop is cancelled
// first so no timer outlives the session it belongs to, and a reply still in
// flight is discarded rather than appended to the fresh log.
func (c *Controller) NewSession() {
	c.poller.CancelAll()
	c.mu.Lock()
	c.msgs = nil
	c.activeID = ""
	c.gateOpen = false
	c.awaiting = false
	c.gen++
	c.mu.Unlock()
	c.log.Info("session reset")
	c.emit(Event{Kind: EventReset})
}

// SelectSession marks a history entry as active for display. Prior
// transcripts are not reloaded.
func (c *Controller) SelectSession(id string) {
	c.mu.Lock()
	c.activeID = id
	c.mu.Unlock()
	c.emit(Event{Kind: EventTranscript})
}

// Sessions lists the history entries shown in the sidebar. These are
// placeholders (see SelectSession); no transcript content is stored for
// them.
func (c *Controller) Sessions() []SessionInfo {
	return []SessionInfo{
		{ID: "1", Title: "First conversation"},
		{ID: "2", Title: "Another chat"},
		{ID: "3", Title: "Quick question"},
	}
}

// ActiveSession returns the selected history id, or "".
func (c *Controller) ActiveSession() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeID
}

// Messages returns a snapshot of the transcript safe to read while exchanges
// and pollers run.
func (c *Controller) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.msgs))
	for i, m := range c.msgs {
		out[i] = *m
		if m.Job != nil {
			job := *m.Job
			out[i].Job = &job
		}
	}
	return out
}

// Awaiting reports whether an exchange is in flight.
func (c *Controller) Awaiting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.awaiting
}

// GuestRemaining says how many guest sends are left before the gate closes.
// Meaningless (and unused) once the viewer has authenticated.
func (c *Controller) GuestRemaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	left := c.guestLimit - c.userCountLocked()
	if left < 0 {
		left = 0
	}
	return left
}

// ActiveJobs returns the number of live video poll loops.
func (c *Controller) ActiveJobs() int { return c.poller.Active() }

// Close tears the controller down: pollers cancelled, event stream closed.
func (c *Controller) Close() {
	c.poller.CancelAll()
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.events)
	}
	c.mu.Unlock()
}

func (c *Controller) exchange(text string, wantVideo bool, gen uint64) {
	resp, err := c.gw.Chat(context.Background(), text, wantVideo)
	c.pace()

	m := &Message{ID: uuid.NewString(), Sender: SenderAssistant, SentAt: time.Now()}
	if err != nil {
		// The transcript always answers a user turn, never fails silently.
		c.log.Warn("chat exchange failed", zap.Error(err))
		m.Text = replyForError(err)
	} else {
		m.Text = resp.Text
		if m.Text == "" {
			m.Text = fallbackReply
		}
		if resp.VideoJobID != "" {
			m.Job = &VideoJob{ID: resp.VideoJobID, Status: JobPending}
		}
	}

	c.mu.Lock()
	if c.gen != gen {
		// The session this reply belonged to is gone.
		c.mu.Unlock()
		c.log.Debug("reply discarded, session was reset")
		return
	}
	c.msgs = append(c.msgs, m)
	c.awaiting = false
	c.mu.Unlock()

	if m.Job != nil {
		c.poller.Start(m.ID, m.Job.ID)
	}
	c.emit(Event{Kind: EventTranscript})
	c.emit(Event{Kind: EventExchangeDone})
}

// applyJobUpdate is the poller's delivery callback. A message whose job
// already reached a terminal state ignores late observations.
func (c *Controller) applyJobUpdate(messageID string, status JobStatus, url string) {
	c.mu.Lock()
	var target *Message
	for _, m := range c.msgs {
		if m.ID == messageID {
			target = m
			break
		}
	}
	if target == nil || target.Job == nil || target.Job.Status.Terminal() {
		c.mu.Unlock()
		return
	}
	target.Job.Status = status
	if status == JobReady {
		target.Job.URL = url
	}
	c.mu.Unlock()
	c.emit(Event{Kind: EventJob, MessageID: messageID})
}

func (c *Controller) emit(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.events <- ev:
	default:
		// The UI rebuilds from snapshots, so a dropped nudge is harmless.
	}
}

func (c *Controller) pace() {
	d := c.pacingMin
	if c.pacingJitter > 0 {
		d += time.Duration(rand.Int63n(int64(c.pacingJitter)))
	}
	if d > 0 {
		time.Sleep(d)
	}
}

func (c *Controller) userCountLocked() int {
	n := 0
	for _, m := range c.msgs {
		if m.Sender == SenderUser {
			n++
		}
	}
	return n
}

func replyForError(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	var transportErr *client.TransportError
	if errors.As(err, &transportErr) {
		return transportErr.Error()
	}
	return errorReply
}

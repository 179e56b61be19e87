package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mayachat/maya-tui/client"
)

// fakeGateway echoes the user message and records the wantVideo flags it saw.
type fakeGateway struct {
	mu        sync.Mutex
	wantVideo []bool
	jobID     string
	err       error
	reply     string
}

func (g *fakeGateway) Chat(_ context.Context, message string, wantVideo bool) (*client.ChatResponse, error) {
	g.mu.Lock()
	g.wantVideo = append(g.wantVideo, wantVideo)
	jobID, err, reply := g.jobID, g.err, g.reply
	g.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if reply == "" {
		reply = "echo: " + message
	}
	return &client.ChatResponse{Text: reply, VideoJobID: jobID}, nil
}

func (g *fakeGateway) sawWantVideo() []bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]bool, len(g.wantVideo))
	copy(out, g.wantVideo)
	return out
}

type fakeAuth struct {
	mu     sync.Mutex
	authed bool
}

func (a *fakeAuth) IsAuthenticated() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.authed
}

func (a *fakeAuth) set(v bool) {
	a.mu.Lock()
	a.authed = v
	a.mu.Unlock()
}

func newTestController(t *testing.T, gw Gateway, auth AuthReader) *Controller {
	t.Helper()
	c := NewController(Options{
		Gateway:      gw,
		Jobs:         newScriptedGetter(videoStep{resp: &client.VideoJobResponse{Status: "pending"}}),
		Auth:         auth,
		PollInterval: time.Millisecond,
		PacingMin:    time.Millisecond,
		PacingJitter: 0,
	})
	t.Cleanup(c.Close)
	return c
}

// waitDone drains events until the in-flight exchange completes.
func waitDone(t *testing.T, c *Controller) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-c.Events():
			require.True(t, ok, "event stream closed while waiting")
			if ev.Kind == EventExchangeDone {
				return
			}
		case <-deadline:
			t.Fatal("exchange did not complete")
		}
	}
}

func TestSendAppendsUserThenAssistant(t *testing.T) {
	gw := &fakeGateway{}
	c := newTestController(t, gw, &fakeAuth{authed: true})

	require.NoError(t, c.Send("hello", false))
	waitDone(t, c)

	msgs := c.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, SenderUser, msgs[0].Sender)
	assert.Equal(t, "hello", msgs[0].Text)
	assert.Equal(t, SenderAssistant, msgs[1].Sender)
	assert.Equal(t, "echo: hello", msgs[1].Text)
	assert.False(t, c.Awaiting())
}

func TestSendRejectsEmptyInput(t *testing.T) {
	c := newTestController(t, &fakeGateway{}, &fakeAuth{})
	assert.ErrorIs(t, c.Send("   ", false), ErrEmptyInput)
	assert.Empty(t, c.Messages())
}

func TestSendRejectsWhileAwaiting(t *testing.T) {
	gw := &blockingGateway{release: make(chan struct{})}
	c := newTestController(t, gw, &fakeAuth{authed: true})

	require.NoError(t, c.Send("first", false))
	assert.ErrorIs(t, c.Send("second", false), ErrBusy)

	close(gw.release)
	waitDone(t, c)
	require.NoError(t, c.Send("third", false))
	waitDone(t, c)
}

// blockingGateway holds every Chat call until release is closed.
type blockingGateway struct {
	release chan struct{}
}

func (g *blockingGateway) Chat(_ context.Context, message string, _ bool) (*client.ChatResponse, error) {
	<-g.release
	return &client.ChatResponse{Text: "echo: " + message}, nil
}

func TestGuestGateClosesAfterLimit(t *testing.T) {
	gw := &fakeGateway{}
	c := newTestController(t, gw, &fakeAuth{authed: false})

	for i := 0; i < DefaultGuestLimit; i++ {
		require.NoError(t, c.Send("hi", false))
		waitDone(t, c)
	}
	assert.Equal(t, 0, c.GuestRemaining())
	assert.ErrorIs(t, c.Send("one more", false), ErrGateClosed)

	// The rejected attempt left no trace in the transcript.
	assert.Len(t, c.Messages(), 2*DefaultGuestLimit)
}

func TestAuthOpensGatePermanently(t *testing.T) {
	gw := &fakeGateway{}
	auth := &fakeAuth{authed: false}
	c := newTestController(t, gw, auth)

	for i := 0; i < DefaultGuestLimit; i++ {
		require.NoError(t, c.Send("hi", false))
		waitDone(t, c)
	}
	require.ErrorIs(t, c.Send("blocked", false), ErrGateClosed)

	auth.set(true)
	require.NoError(t, c.Send("now signed in", false))
	waitDone(t, c)

	// The gate stays open for this session even after logging out again.
	auth.set(false)
	require.NoError(t, c.Send("still allowed", false))
	waitDone(t, c)
}

func TestGateResetsWithNewSession(t *testing.T) {
	gw := &fakeGateway{}
	auth := &fakeAuth{authed: true}
	c := newTestController(t, gw, auth)

	require.NoError(t, c.Send("open the gate", false))
	waitDone(t, c)

	auth.set(false)
	c.NewSession()
	assert.Empty(t, c.Messages())
	assert.Equal(t, DefaultGuestLimit, c.GuestRemaining())

	for i := 0; i < DefaultGuestLimit; i++ {
		require.NoError(t, c.Send("guest again", false))
		waitDone(t, c)
	}
	assert.ErrorIs(t, c.Send("blocked again", false), ErrGateClosed)
}

func TestNewSessionDiscardsInFlightReply(t *testing.T) {
	gw := &blockingGateway{release: make(chan struct{})}
	c := newTestController(t, gw, &fakeAuth{authed: true})

	require.NoError(t, c.Send("old session", false))
	c.NewSession()
	assert.Empty(t, c.Messages())
	assert.False(t, c.Awaiting())

	// The held reply resolves now; it belongs to the discarded session and
	// must not land in the fresh transcript.
	close(gw.release)
	require.NoError(t, c.Send("new session", false))
	waitDone(t, c)

	msgs := c.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, SenderUser, msgs[0].Sender)
	assert.Equal(t, "new session", msgs[0].Text)
	assert.Equal(t, SenderAssistant, msgs[1].Sender)
	assert.Equal(t, "echo: new session", msgs[1].Text)
}

func TestWantVideoForcedOffForGuests(t *testing.T) {
	gw := &fakeGateway{}
	auth := &fakeAuth{authed: false}
	c := newTestController(t, gw, auth)

	require.NoError(t, c.Send("video please", true))
	waitDone(t, c)

	auth.set(true)
	require.NoError(t, c.Send("video please", true))
	waitDone(t, c)

	assert.Equal(t, []bool{false, true}, gw.sawWantVideo())
}

func TestChatErrorProducesAssistantReply(t *testing.T) {
	gw := &fakeGateway{err: &client.APIError{Status: 429, Detail: "Slow down a little"}}
	c := newTestController(t, gw, &fakeAuth{authed: true})

	require.NoError(t, c.Send("hi", false))
	waitDone(t, c)

	msgs := c.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, SenderAssistant, msgs[1].Sender)
	assert.Equal(t, "Slow down a little", msgs[1].Text)
}

func TestTransportErrorNamesEndpoint(t *testing.T) {
	gw := &fakeGateway{err: &client.TransportError{Endpoint: "http://127.0.0.1:8000"}}
	c := newTestController(t, gw, &fakeAuth{authed: true})

	require.NoError(t, c.Send("hi", false))
	waitDone(t, c)

	msgs := c.Messages()
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[1].Text, "http://127.0.0.1:8000")
}

func TestEmptyReplyGetsFallbackText(t *testing.T) {
	c := newTestController(t, &emptyReplyGateway{}, &fakeAuth{authed: true})

	require.NoError(t, c.Send("hi", false))
	waitDone(t, c)

	msgs := c.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, fallbackReply, msgs[1].Text)
}

type emptyReplyGateway struct{}

func (emptyReplyGateway) Chat(context.Context, string, bool) (*client.ChatResponse, error) {
	return &client.ChatResponse{}, nil
}

func TestVideoJobStartsPollerAndUpdatesMessage(t *testing.T) {
	gw := &fakeGateway{jobID: "job-7"}
	c := NewController(Options{
		Gateway: gw,
		Jobs: newScriptedGetter(
			videoStep{resp: &client.VideoJobResponse{Status: "processing"}},
			videoStep{resp: &client.VideoJobResponse{Status: "ready", VideoURL: "https://cdn.example/v.mp4"}},
		),
		Auth:         &fakeAuth{authed: true},
		PollInterval: time.Millisecond,
		PacingMin:    time.Millisecond,
	})
	t.Cleanup(c.Close)

	require.NoError(t, c.Send("make a video", true))
	waitDone(t, c)

	require.Eventually(t, func() bool {
		msgs := c.Messages()
		if len(msgs) != 2 || msgs[1].Job == nil {
			return false
		}
		return msgs[1].Job.Status == JobReady
	}, 2*time.Second, 5*time.Millisecond)

	msgs := c.Messages()
	assert.Equal(t, "job-7", msgs[1].Job.ID)
	assert.Equal(t, "https://cdn.example/v.mp4", msgs[1].Job.URL)
	assert.Equal(t, 0, c.ActiveJobs())
}

func TestNewSessionCancelsPollers(t *testing.T) {
	gw := &fakeGateway{jobID: "job-9"}
	c := NewController(Options{
		Gateway:      gw,
		Jobs:         newScriptedGetter(videoStep{resp: &client.VideoJobResponse{Status: "processing"}}),
		Auth:         &fakeAuth{authed: true},
		PollInterval: time.Millisecond,
		PacingMin:    time.Millisecond,
	})
	t.Cleanup(c.Close)

	require.NoError(t, c.Send("make a video", true))
	waitDone(t, c)
	require.Eventually(t, func() bool { return c.ActiveJobs() == 1 }, 2*time.Second, time.Millisecond)

	c.NewSession()
	assert.Equal(t, 0, c.ActiveJobs())
	assert.Empty(t, c.Messages())
}

func TestSessionsAreStaticStubs(t *testing.T) {
	c := newTestController(t, &fakeGateway{}, &fakeAuth{})
	sessions := c.Sessions()
	require.Len(t, sessions, 3)
	assert.Equal(t, "First conversation", sessions[0].Title)

	c.SelectSession("2")
	assert.Equal(t, "2", c.ActiveSession())
	// Selecting a stub does not load a transcript.
	assert.Empty(t, c.Messages())
}

func TestCloseIsIdempotent(t *testing.T) {
	c := NewController(Options{
		Gateway:   &fakeGateway{},
		Jobs:      newScriptedGetter(videoStep{resp: &client.VideoJobResponse{Status: "pending"}}),
		Auth:      &fakeAuth{},
		PacingMin: time.Millisecond,
	})
	c.Close()
	c.Close()
	_, ok := <-c.Events()
	assert.False(t, ok)
}

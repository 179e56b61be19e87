// Package auth owns the authentication state of the client: the access token
// and identity, their persistence across runs, and the change notification
// every other component observes instead of polling.
package auth

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mayachat/maya-tui/client"
)

// API is the slice of the HTTP client the auth state drives. The token
// setters keep the gateway's bearer header in step with the stored state.
type API interface {
	Login(ctx context.Context, email, password string) (*client.LoginResponse, error)
	Signup(ctx context.Context, email, password string) error
	SetToken(token string)
	ClearToken()
	SetUnauthorizedHook(fn func())
}

// State is the single writer of authentication state. Readers observe
// changes through Subscribe; nothing polls.
type State struct {
	api      API
	store    CredentialStore
	log      *zap.Logger
	validate *validator.Validate

	mu     sync.RWMutex
	token  string
	email  string
	subs   map[int]func()
	nextID int
}

// New restores persisted credentials from store and wires the 401 hook so an
// unauthorized response anywhere drops cached credentials like a logout.
// Malformed stored credentials are treated as logged out and cleared.
func New(api API, store CredentialStore, log *zap.Logger) *State {
	if log == nil {
		log = zap.NewNop()
	}
	s := &State{
		api:      api,
		store:    store,
		log:      log,
		validate: validator.New(),
		subs:     make(map[int]func()),
	}
	creds, err := store.Load()
	switch {
	case err != nil:
		log.Warn("stored credentials unreadable, treating as logged out", zap.Error(err))
		_ = store.Clear()
	case creds.Token != "" && creds.Email != "":
		s.token = creds.Token
		s.email = creds.Email
		api.SetToken(creds.Token)
	case creds.Token != "" || creds.Email != "":
		// Half a credential is no credential.
		log.Warn("incomplete stored credentials, clearing")
		_ = store.Clear()
	}
	api.SetUnauthorizedHook(s.invalidate)
	return s
}

// IsAuthenticated reports whether a token is currently held.
func (s *State) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Email returns the authenticated identity, or "" when logged out.
func (s *State) Email() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.email
}

// Subscribe registers fn to run after every auth change. The returned func
// removes the subscription. fn is called from whichever goroutine changed
// the state; keep it cheap and non-blocking.
func (s *State) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Login exchanges credentials for a token, persists token+identity, and
// notifies subscribers. Failures are *Error values.
func (s *State) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if err := s.checkCredentialShape(email, password); err != nil {
		return err
	}
	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		return classifyLoginErr(err)
	}
	s.api.SetToken(resp.AccessToken)
	creds := Credentials{Token: resp.AccessToken, Email: email}
	if err := s.store.Save(creds); err != nil {
		// Still authenticated for this run; persistence is best effort.
		s.log.Warn("persist credentials", zap.Error(err))
	}
	s.mu.Lock()
	s.token = resp.AccessToken
	s.email = email
	s.mu.Unlock()
	s.log.Info("logged in", zap.String("email", email))
	s.notify()
	return nil
}

// Signup creates the account and then logs in with the same credentials.
func (s *State) Signup(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if err := s.checkCredentialShape(email, password); err != nil {
		return err
	}
	if err := s.api.Signup(ctx, email, password); err != nil {
		return classifySignupErr(err)
	}
	return s.Login(ctx, email, password)
}

// Logout clears token and identity and notifies. Calling it while already
// logged out is a no-op.
func (s *State) Logout() {
	s.mu.Lock()
	if s.token == "" {
		s.mu.Unlock()
		return
	}
	s.token = ""
	s.email = ""
	s.mu.Unlock()
	s.api.ClearToken()
	if err := s.store.Clear(); err != nil {
		s.log.Warn("clear credentials", zap.Error(err))
	}
	s.log.Info("logged out")
	s.notify()
}

// invalidate is the 401 hook: same effect as Logout, triggered by the server.
func (s *State) invalidate() {
	s.mu.Lock()
	if s.token == "" {
		s.mu.Unlock()
		return
	}
	s.token = ""
	s.email = ""
	s.mu.Unlock()
	if err := s.store.Clear(); err != nil {
		s.log.Warn("clear credentials", zap.Error(err))
	}
	s.log.Info("credentials invalidated by server")
	s.notify()
}

func (s *State) notify() {
	s.mu.RLock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()
	for _, fn := range fns {
		fn()
	}
}

func (s *State) checkCredentialShape(email, password string) error {
	if err := s.validate.Var(email, "required,email"); err != nil {
		return &Error{Kind: KindInvalidCredentials, Detail: "Please enter a valid email address"}
	}
	if password == "" {
		return &Error{Kind: KindInvalidCredentials, Detail: "Password is required"}
	}
	return nil
}

func classifyLoginErr(err error) error {
	var transportErr *client.TransportError
	if errors.As(err, &transportErr) {
		return &Error{Kind: KindNetwork, Detail: transportErr.Error(), cause: err}
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return &Error{Kind: KindInvalidCredentials, Detail: apiErr.Detail, cause: err}
	}
	return &Error{Kind: KindNetwork, cause: err}
}

func classifySignupErr(err error) error {
	var transportErr *client.TransportError
	if errors.As(err, &transportErr) {
		return &Error{Kind: KindNetwork, Detail: transportErr.Error(), cause: err}
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return &Error{Kind: KindEmailTaken, Detail: apiErr.Detail, cause: err}
	}
	return &Error{Kind: KindNetwork, cause: err}
}

// Package msg defines the tea.Msg types dispatched within the Maya TUI that
// don't originate in the session core. It has no upstream imports so every
// other package may depend on it without cycles.
package msg

// LoginResult from the /login command.
type LoginResult struct {
	Email string
	Err   error
}

// SignupResult from the /signup command.
type SignupResult struct {
	Email string
	Err   error
}

// LogoutResult from the /logout command.
type LogoutResult struct {
	Err error
}

// AuthChanged is forwarded from the auth subscription so the UI re-reads
// identity and gate state.
type AuthChanged struct{}

// TickMsg drives the awaiting-reply indicator.
type TickMsg struct{}

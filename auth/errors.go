package auth

// Kind classifies authentication failures.
type Kind int

const (
	// KindInvalidCredentials covers rejected logins and malformed emails.
	KindInvalidCredentials Kind = iota
	// KindEmailTaken means signup was refused because the address exists.
	KindEmailTaken
	// KindNetwork means the backend could not be reached.
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindEmailTaken:
		return "email_taken"
	case KindNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// Error is an authentication failure with a user-facing detail string.
type Error struct {
	Kind   Kind
	Detail string
	cause  error
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	switch e.Kind {
	case KindInvalidCredentials:
		return "Invalid email or password"
	case KindEmailTaken:
		return "An account with this email already exists"
	case KindNetwork:
		return "Cannot reach the server"
	default:
		return "Authentication failed"
	}
}

func (e *Error) Unwrap() error { return e.cause }

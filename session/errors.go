package session

import "errors"

var (
	// ErrEmptyInput rejects a send whose text trims to nothing.
	ErrEmptyInput = errors.New("message is empty")

	// ErrBusy rejects a send while a previous exchange is still awaiting its
	// reply. One outstanding exchange at a time.
	ErrBusy = errors.New("still waiting for the previous reply")

	// ErrGateClosed rejects a send once an unauthenticated viewer has used up
	// the guest message allowance. The UI prompts for sign-in.
	ErrGateClosed = errors.New("guest message limit reached, sign in to continue")
)

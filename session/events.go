package session

// EventKind says what changed.
type EventKind int

const (
	// EventTranscript: a message was appended or the active session changed.
	EventTranscript EventKind = iota
	// EventJob: the job state of one message changed. MessageID is set.
	EventJob
	// EventExchangeDone: the in-flight exchange finished (reply or error
	// appended) and the controller accepts input again.
	EventExchangeDone
	// EventReset: the session was cleared.
	EventReset
)

// Event is the controller's only outward signal. The UI reacts by taking a
// fresh Messages() snapshot; events carry no transcript data themselves.
type Event struct {
	Kind      EventKind
	MessageID string
}

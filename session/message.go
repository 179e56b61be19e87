// Package session is the message controller: it owns the ordered transcript,
// turns user input into chat exchanges, enforces the guest usage gate, and
// tracks asynchronous video-generation jobs attached to assistant replies.
package session

import "time"

// Sender identifies who produced a message.
type Sender int

const (
	SenderUser Sender = iota
	SenderAssistant
)

func (s Sender) String() string {
	if s == SenderUser {
		return "user"
	}
	return "assistant"
}

// JobStatus is the lifecycle of a video-generation job. Pending and
// Processing both render as "generating"; Ready and Failed are terminal.
type JobStatus int

const (
	JobPending JobStatus = iota
	JobProcessing
	JobReady
	JobFailed
)

func (s JobStatus) String() string {
	switch s {
	case JobPending:
		return "pending"
	case JobProcessing:
		return "processing"
	case JobReady:
		return "ready"
	case JobFailed:
		return "failed"
	}
	return "unknown"
}

// Terminal reports whether no further transitions can occur.
func (s JobStatus) Terminal() bool { return s == JobReady || s == JobFailed }

// VideoJob is the video-generation task attached to an assistant message.
// URL is non-empty exactly when Status is JobReady. Transitions are applied
// only by the JobPoller.
type VideoJob struct {
	ID     string
	Status JobStatus
	URL    string
}

// Message is one entry in the transcript. Everything but Job is immutable
// once appended; Job is mutated in place as its poll loop progresses. The ID
// is a generated identifier, never a position, so pollers cannot be
// misrouted by list changes.
type Message struct {
	ID     string
	Sender Sender
	Text   string
	Job    *VideoJob
	SentAt time.Time
}

// SessionInfo is a sidebar entry for a prior conversation.
type SessionInfo struct {
	ID    string
	Title string
}

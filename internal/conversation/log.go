package conversation

import (
	"encoding/json"
	"io"
	"sync"
	"time"
)

// Kind classifies a conversation message. KindSessionContext is reserved for
// injected cluster-session blocks so they can be located and removed as a
// group without inspecting message content.
type Kind string

const (
	KindSystem         Kind = "system"
	KindSessionContext Kind = "session_context"
	KindUser           Kind = "user"
	KindAssistant      Kind = "assistant"
)

// Message is one entry in a conversation log.
type Message struct {
	Kind      Kind      `json:"kind"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Log is an owned conversation history. Components never get access to the
// backing slice; mutation happens only through Append, RemoveKind, TruncateTo
// and Reset, which is what keeps the at-most-one-injected-block and
// bounded-length invariants enforceable in one place.
type Log struct {
	mu       sync.Mutex
	messages []Message
	version  uint64
}

// New returns an empty log.
func New() *Log {
	return &Log{}
}

// NewWithSystem returns a log seeded with a single system message.
func NewWithSystem(content string) *Log {
	l := New()
	l.Append(KindSystem, content)
	return l
}

// Append adds a message to the end of the log.
func (l *Log) Append(kind Kind, content string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, Message{
		Kind:      kind,
		Content:   content,
		Timestamp: time.Now(),
	})
	l.version++
}

// RemoveKind deletes every message of the given kind and returns how many
// were removed.
func (l *Log) RemoveKind(kind Kind) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.messages[:0]
	removed := 0
	for _, m := range l.messages {
		if m.Kind == kind {
			removed++
			continue
		}
		kept = append(kept, m)
	}
	l.messages = kept
	if removed > 0 {
		l.version++
	}
	return removed
}

// TruncateTo keeps only the first n messages. n larger than the current
// length is a no-op.
func (l *Log) TruncateTo(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n < 0 {
		n = 0
	}
	if n < len(l.messages) {
		l.messages = l.messages[:n]
		l.version++
	}
}

// Reset drops everything except the leading system message, if present.
// This is the between-cycle bound: no cycle starts with more than one
// carried-over message.
func (l *Log) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.messages) > 0 && l.messages[0].Kind == KindSystem {
		l.messages = l.messages[:1]
	} else {
		l.messages = nil
	}
	l.version++
}

// Len returns the current number of messages.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.messages)
}

// Version increments on every mutation; useful for tests and change detection.
func (l *Log) Version() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.version
}

// Messages returns a copy of the current history.
func (l *Log) Messages() []Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// CountKind returns how many messages of the given kind are present.
func (l *Log) CountKind(kind Kind) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, m := range l.messages {
		if m.Kind == kind {
			n++
		}
	}
	return n
}

// Save writes the history to w as a JSON array. The format is treated as an
// opaque append-only record by the rest of the system.
func (l *Log) Save(w io.Writer) error {
	msgs := l.Messages()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(msgs)
}

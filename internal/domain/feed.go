package domain

import "sync"

// Feed is the append-only, display-ordered list of relayed messages for
// one paired session. A new pairing gets a new Feed instance; an old
// Feed is never reset in place.
type Feed struct {
	mu       sync.RWMutex
	messages []Message
}

func NewFeed() *Feed {
	return &Feed{}
}

// Append adds a message at the end. Arrival order is display order;
// there is no deduplication and no size cap.
func (f *Feed) Append(msg Message) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.messages = append(f.messages, msg)
}

func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return len(f.messages)
}

// IsEmpty drives whether the UI shows the waiting placeholder instead of
// the message list.
func (f *Feed) IsEmpty() bool {
	return f.Len() == 0
}

// Messages returns a copy of the feed in display order.
func (f *Feed) Messages() []Message {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]Message, len(f.messages))
	copy(out, f.messages)
	return out
}

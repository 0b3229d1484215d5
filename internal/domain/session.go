package domain

// SessionRecord is the post-update image of one session row in the
// Session Store. The client never writes it; it reads it once during
// pairing verification and then observes updates through a subscription.
type SessionRecord struct {
	Code PairingCode

	// Response is the assistant's latest reply. Empty until the writer
	// side populates it (partial-row writes land with no response yet).
	Response string

	// Timestamp is a display string set by the writer, e.g. "10:02".
	Timestamp string
}

// Message is one relayed chat message, derived 1:1 from a session
// update whose response field was populated. Immutable once created.
type Message struct {
	ID        MessageID
	Text      string
	Timestamp string
}

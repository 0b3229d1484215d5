package realtime

import "encoding/json"

// The websocket feed speaks phoenix-style frames: every message is a
// {topic, event, payload, ref} envelope. Joining a topic with a
// postgres_changes config subscribes to server-filtered row updates.

const (
	eventJoin      = "phx_join"
	eventReply     = "phx_reply"
	eventClose     = "phx_close"
	eventError     = "phx_error"
	eventHeartbeat = "heartbeat"
	eventChanges   = "postgres_changes"

	topicChanges   = "realtime:db-changes"
	topicHeartbeat = "phoenix"
)

type frame struct {
	Topic   string          `json:"topic"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	Ref     string          `json:"ref"`
}

type joinPayload struct {
	Config joinConfig `json:"config"`
}

type joinConfig struct {
	PostgresChanges []changeFilter `json:"postgres_changes"`
}

// changeFilter is the server-side subscription filter. The id filter is
// mandatory: the relay must never see another session's updates.
type changeFilter struct {
	Event  string `json:"event"`
	Schema string `json:"schema"`
	Table  string `json:"table"`
	Filter string `json:"filter"`
}

type replyPayload struct {
	Status string `json:"status"`
}

// changePayload carries the post-update row image.
type changePayload struct {
	Data struct {
		Type   string     `json:"type"`
		Record sessionRow `json:"record"`
	} `json:"data"`
}

package domain

// Entry kinds retained in the chat log.
const (
	KindChat   = "chat"
	KindSystem = "system"
)

// HistoryEntry is one retained chat-log record. Kind discriminates a user
// chat line from a room system notice; Username and Color are set only for
// chat lines. The JSON shape is shared between storage and the wire: entries
// are sent verbatim inside history payloads, and chat-message /
// system-message envelopes embed an entry.
type HistoryEntry struct {
	Kind      string `json:"msgType"`
	Username  string `json:"username,omitempty"`
	Color     string `json:"color,omitempty"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

package room

import "github.com/neko-chat/chat-service/internal/domain"

// Envelope types accepted from clients.
const (
	typeJoin     = "join"
	typeChat     = "chat"
	typeSetColor = "set-color"
	typeCursor   = "cursor"
)

// Envelope types sent to clients.
const (
	typeVisitorCount  = "visitor-count"
	typeHistory       = "history"
	typeSystemMessage = "system-message"
	typeChatMessage   = "chat-message"
	typeUserList      = "user-list"
	typeCursorGone    = "cursor-gone"
)

// inbound is the single decode target for every client envelope; Type picks
// which fields are meaningful. Payloads that fail to decode into this shape
// are dropped without a reply.
type inbound struct {
	Type       string  `json:"type"`
	Username   string  `json:"username"`
	Color      string  `json:"color"`
	ExternalID string  `json:"externalId"`
	Text       string  `json:"text"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
}

type visitorCountMsg struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

type historyMsg struct {
	Type     string                `json:"type"`
	Messages []domain.HistoryEntry `json:"messages"`
}

// entryMsg wraps a history entry as a chat-message or system-message
// envelope. Embedding keeps the wire shape identical to the persisted
// record.
type entryMsg struct {
	Type string `json:"type"`
	domain.HistoryEntry
}

// noticeMsg is an informational system-message addressed to one session
// only, such as the rate-limit nudge. It is never persisted.
type noticeMsg struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type userListMsg struct {
	Type  string               `json:"type"`
	Users []domain.UserSummary `json:"users"`
	Total int                  `json:"total"`
}

type cursorMsg struct {
	Type     string  `json:"type"`
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Color    string  `json:"color"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

type cursorGoneMsg struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

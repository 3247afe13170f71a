// Package room implements the single-room session manager: connection
// lifecycle, join/leave semantics, per-connection rate limiting, bounded
// message history, sticky per-username colors and broadcast fan-out.
//
// One Room aggregate owns all mutable state. Every entry point runs under a
// single mutex, so handling of one inbound event is atomic with respect to
// the session registry, the rate windows and every store read-modify-write.
// Fan-out stays non-blocking because Sender implementations buffer.
package room

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/neko-chat/chat-service/internal/domain"
)

const rateLimitNotice = "You're chatting too fast! 🐢"

// Store is the durable key/value state the room rebuilds from after a
// restart. Absent keys yield zero values, not errors. Implemented by
// postgres.StateRepository.
type Store interface {
	VisitorCount(ctx context.Context) (int64, error)
	SetVisitorCount(ctx context.Context, n int64) error
	History(ctx context.Context) ([]domain.HistoryEntry, error)
	SetHistory(ctx context.Context, entries []domain.HistoryEntry) error
	UserColors(ctx context.Context) (map[string]string, error)
	SetUserColors(ctx context.Context, colors map[string]string) error
	WalletLog(ctx context.Context) (map[string]string, error)
	SetWalletLog(ctx context.Context, wallets map[string]string) error
}

// Sender delivers one outbound envelope to one connection. Send must not
// block: a backed-up peer drops frames instead of stalling the room.
type Sender interface {
	Send(v any) error
}

// Config tunes the room; zero values fall back to the stock limits.
type Config struct {
	HistoryLimit  int           // retained history entries, FIFO-evicted
	HistoryOnJoin int           // entries replayed to a joining user
	RateBurst     int           // chat messages allowed per window
	RateWindow    time.Duration // trailing rate-limit window
}

func (c *Config) applyDefaults() {
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = 200
	}
	if c.HistoryOnJoin <= 0 {
		c.HistoryOnJoin = 100
	}
	if c.RateBurst <= 0 {
		c.RateBurst = 5
	}
	if c.RateWindow <= 0 {
		c.RateWindow = 10 * time.Second
	}
}

// identity is the joined-state payload. A session with a nil identity is
// anonymous: counted in user-list totals but unable to chat, move a cursor
// or change color.
type identity struct {
	Username   string
	Color      string
	ExternalID string
}

type session struct {
	id     string
	conn   Sender
	joined *identity
}

// Room is the broadcast domain all connections share.
type Room struct {
	cfg   Config
	store Store

	mu       sync.Mutex
	sessions map[string]*session
	limiter  *slidingLimiter
	visitors int64

	// swapped out in tests
	now       func() time.Time
	pickColor func() string
}

func New(store Store, cfg Config) *Room {
	cfg.applyDefaults()

	return &Room{
		cfg:       cfg,
		store:     store,
		sessions:  make(map[string]*session),
		limiter:   newSlidingLimiter(cfg.RateBurst, cfg.RateWindow),
		now:       time.Now,
		pickColor: randomColor,
	}
}

// Init loads the persisted visitor counter. The room works without it; the
// counter just restarts from zero.
func (r *Room) Init(ctx context.Context) error {
	n, err := r.store.VisitorCount(ctx)
	if err != nil {
		return fmt.Errorf("load visitor count: %w", err)
	}

	r.mu.Lock()
	r.visitors = n
	r.mu.Unlock()
	return nil
}

// Connect registers a new anonymous session and greets it with the bumped
// visitor counter. The id must stay stable for the connection's lifetime.
func (r *Room) Connect(ctx context.Context, id string, conn Sender) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[id] = &session{id: id, conn: conn}
	r.visitors++
	if err := r.store.SetVisitorCount(ctx, r.visitors); err != nil {
		slog.Warn("persist visitor count failed", "err", err)
	}

	_ = conn.Send(visitorCountMsg{Type: typeVisitorCount, Count: r.visitors})
}

// HandleMessage processes one raw client envelope. Every failure mode —
// unknown session, malformed JSON, action requiring a join, empty sanitized
// input — drops the message; nothing here ever terminates the connection.
func (r *Room) HandleMessage(ctx context.Context, id string, data []byte) {
	var msg inbound
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return
	}

	switch msg.Type {
	case typeJoin:
		r.handleJoin(ctx, s, msg)
	case typeChat:
		r.handleChat(ctx, s, msg)
	case typeSetColor:
		r.handleSetColor(ctx, s, msg)
	case typeCursor:
		r.handleCursor(s, msg)
	}
}

// Disconnect tears down a session. A joined departure is announced and its
// cursor indicator retired before the refreshed user list goes out; an
// anonymous departure only shrinks the list total.
func (r *Room) Disconnect(ctx context.Context, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return
	}
	r.limiter.forget(id)
	delete(r.sessions, id)

	if s.joined != nil {
		entry := domain.HistoryEntry{
			Kind:      domain.KindSystem,
			Text:      fmt.Sprintf("✧ %s has left the chat ✧", s.joined.Username),
			Timestamp: r.now().UnixMilli(),
		}
		r.broadcast(entryMsg{Type: typeSystemMessage, HistoryEntry: entry})
		r.appendHistory(ctx, entry)
		r.broadcast(cursorGoneMsg{Type: typeCursorGone, ID: id})
		slog.Info("user left", "username", s.joined.Username, "conn", id)
	}

	r.broadcastUserList()
}

func (r *Room) handleJoin(ctx context.Context, s *session, msg inbound) {
	username := sanitizeUsername(msg.Username)
	if username == "" {
		return
	}

	color := r.resolveColor(ctx, username, msg.Color)
	if msg.ExternalID != "" {
		r.logWallet(ctx, username, msg.ExternalID)
	}

	// Rejoin on a live connection overwrites the previous identity.
	s.joined = &identity{Username: username, Color: color, ExternalID: msg.ExternalID}
	slog.Info("user joined", "username", username, "conn", s.id, "has_external_id", msg.ExternalID != "")

	history := r.loadHistory(ctx)
	recent := history
	if len(recent) > r.cfg.HistoryOnJoin {
		recent = recent[len(recent)-r.cfg.HistoryOnJoin:]
	}
	if recent == nil {
		recent = []domain.HistoryEntry{}
	}
	_ = s.conn.Send(historyMsg{Type: typeHistory, Messages: recent})

	entry := domain.HistoryEntry{
		Kind:      domain.KindSystem,
		Text:      fmt.Sprintf("✦ %s has entered the chat ✦", username),
		Timestamp: r.now().UnixMilli(),
	}
	r.broadcast(entryMsg{Type: typeSystemMessage, HistoryEntry: entry})
	r.appendHistory(ctx, entry)

	r.broadcastUserList()
	r.broadcast(visitorCountMsg{Type: typeVisitorCount, Count: r.visitors})
}

func (r *Room) handleChat(ctx context.Context, s *session, msg inbound) {
	if s.joined == nil {
		return
	}

	if !r.limiter.allow(s.id, r.now()) {
		_ = s.conn.Send(noticeMsg{Type: typeSystemMessage, Text: rateLimitNotice})
		return
	}

	text := sanitizeText(msg.Text)
	if strings.TrimSpace(text) == "" {
		return
	}

	entry := domain.HistoryEntry{
		Kind:      domain.KindChat,
		Username:  s.joined.Username,
		Color:     s.joined.Color,
		Text:      text,
		Timestamp: r.now().UnixMilli(),
	}
	r.broadcast(entryMsg{Type: typeChatMessage, HistoryEntry: entry})
	r.appendHistory(ctx, entry)
}

func (r *Room) handleSetColor(ctx context.Context, s *session, msg inbound) {
	if s.joined == nil || msg.Color == "" {
		return
	}

	s.joined.Color = msg.Color
	r.saveColor(ctx, s.joined.Username, msg.Color)

	// Deliberately quiet: no system message, just the refreshed list.
	r.broadcastUserList()
}

// handleCursor relays live pointer positions to everyone but the sender.
// Coordinates are viewport percentages converted client-side; they are
// passed through unmodified and never persisted.
func (r *Room) handleCursor(s *session, msg inbound) {
	if s.joined == nil {
		return
	}

	r.broadcastExcept(s.id, cursorMsg{
		Type:     typeCursor,
		ID:       s.id,
		Username: s.joined.Username,
		Color:    s.joined.Color,
		X:        msg.X,
		Y:        msg.Y,
	})
}

// resolveColor applies the stickiness rules: an explicit color wins and is
// persisted; otherwise the stored assignment is reused; otherwise a palette
// color is drawn and persisted for next time.
func (r *Room) resolveColor(ctx context.Context, username, explicit string) string {
	if explicit != "" {
		r.saveColor(ctx, username, explicit)
		return explicit
	}

	colors, err := r.store.UserColors(ctx)
	if err != nil {
		slog.Warn("load user colors failed", "err", err)
	}
	if c := colors[username]; c != "" {
		return c
	}

	c := r.pickColor()
	r.saveColor(ctx, username, c)
	return c
}

func (r *Room) saveColor(ctx context.Context, username, color string) {
	colors, err := r.store.UserColors(ctx)
	if err != nil {
		slog.Warn("load user colors failed", "err", err)
	}
	if colors == nil {
		colors = make(map[string]string)
	}
	colors[username] = color

	if err := r.store.SetUserColors(ctx, colors); err != nil {
		slog.Warn("persist user colors failed", "err", err)
	}
}

func (r *Room) logWallet(ctx context.Context, username, externalID string) {
	wallets, err := r.store.WalletLog(ctx)
	if err != nil {
		slog.Warn("load wallet log failed", "err", err)
	}
	if wallets == nil {
		wallets = make(map[string]string)
	}
	wallets[username] = externalID

	if err := r.store.SetWalletLog(ctx, wallets); err != nil {
		slog.Warn("persist wallet log failed", "err", err)
	}
}

func (r *Room) loadHistory(ctx context.Context) []domain.HistoryEntry {
	history, err := r.store.History(ctx)
	if err != nil {
		slog.Warn("load chat history failed", "err", err)
		return nil
	}
	return history
}

// appendHistory adds an entry to the retained log, evicting the oldest past
// the cap, and persists best-effort: a failed write is logged and the
// already-issued broadcasts stand.
func (r *Room) appendHistory(ctx context.Context, entry domain.HistoryEntry) {
	history := append(r.loadHistory(ctx), entry)
	if len(history) > r.cfg.HistoryLimit {
		history = history[len(history)-r.cfg.HistoryLimit:]
	}

	if err := r.store.SetHistory(ctx, history); err != nil {
		slog.Warn("persist chat history failed", "err", err)
	}
}

func (r *Room) broadcast(v any) {
	for _, s := range r.sessions {
		_ = s.conn.Send(v) // best-effort
	}
}

func (r *Room) broadcastExcept(id string, v any) {
	for _, s := range r.sessions {
		if s.id == id {
			continue
		}
		_ = s.conn.Send(v)
	}
}

// broadcastUserList publishes the visible (joined) users plus the raw
// connection count. The two diverge while anonymous sessions are present.
func (r *Room) broadcastUserList() {
	users := make([]domain.UserSummary, 0, len(r.sessions))
	for _, s := range r.sessions {
		if s.joined == nil {
			continue
		}
		users = append(users, domain.UserSummary{Username: s.joined.Username, Color: s.joined.Color})
	}

	r.broadcast(userListMsg{Type: typeUserList, Users: users, Total: len(r.sessions)})
}

package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/neko-chat/chat-service/internal/domain"
)

// Logical keys of the room state store.
const (
	keyVisitorCount = "visitorCount"
	keyChatHistory  = "chatHistory"
	keyUserColors   = "userColors"
	keyWalletLog    = "walletLog"
)

// StateRepository persists room state as whole JSON values, one row per
// logical key. Absent keys decode to zero values. Concurrent
// read-modify-write sequences are serialized by the Room, not here.
type StateRepository struct {
	db *pgxpool.Pool
}

func NewStateRepository(db *pgxpool.Pool) *StateRepository {
	return &StateRepository{db: db}
}

func (r *StateRepository) get(ctx context.Context, key string, dst any) error {
	var raw []byte
	err := r.db.QueryRow(ctx, `SELECT value FROM room_state WHERE key=$1`, key).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (r *StateRepository) put(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO room_state (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, key, raw)
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (r *StateRepository) VisitorCount(ctx context.Context) (int64, error) {
	var n int64
	err := r.get(ctx, keyVisitorCount, &n)
	return n, err
}

func (r *StateRepository) SetVisitorCount(ctx context.Context, n int64) error {
	return r.put(ctx, keyVisitorCount, n)
}

func (r *StateRepository) History(ctx context.Context) ([]domain.HistoryEntry, error) {
	var entries []domain.HistoryEntry
	err := r.get(ctx, keyChatHistory, &entries)
	return entries, err
}

func (r *StateRepository) SetHistory(ctx context.Context, entries []domain.HistoryEntry) error {
	return r.put(ctx, keyChatHistory, entries)
}

func (r *StateRepository) UserColors(ctx context.Context) (map[string]string, error) {
	var colors map[string]string
	err := r.get(ctx, keyUserColors, &colors)
	return colors, err
}

func (r *StateRepository) SetUserColors(ctx context.Context, colors map[string]string) error {
	return r.put(ctx, keyUserColors, colors)
}

func (r *StateRepository) WalletLog(ctx context.Context) (map[string]string, error) {
	var wallets map[string]string
	err := r.get(ctx, keyWalletLog, &wallets)
	return wallets, err
}

func (r *StateRepository) SetWalletLog(ctx context.Context, wallets map[string]string) error {
	return r.put(ctx, keyWalletLog, wallets)
}

package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

// WalletReader exposes the persisted username → wallet mapping.
type WalletReader interface {
	WalletLog(ctx context.Context) (map[string]string, error)
}

type Handler struct {
	wallets WalletReader
}

func NewHandler(wallets WalletReader) *Handler {
	return &Handler{wallets: wallets}
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// GET /wallets — the full wallet log as one JSON object. Informational only;
// entries are never expired.
func (h *Handler) Wallets(w http.ResponseWriter, r *http.Request) {
	wallets, err := h.wallets.WalletLog(r.Context())
	if err != nil {
		slog.Error("handler.Wallets:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "storage unavailable"})
		return
	}
	if wallets == nil {
		wallets = map[string]string{}
	}

	writeJSON(w, http.StatusOK, wallets)
}

package http

import (
	"net/http"

	"github.com/neko-chat/chat-service/internal/transport/ws"

	"github.com/go-chi/chi/v5"
	middlewareChi "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *Handler, wsServer *ws.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(middlewareChi.RequestID)
	r.Use(middlewareChi.RealIP)
	r.Use(middlewareChi.Recoverer)

	// WS endpoint
	r.Get("/ws", wsServer.HandleWS)

	// admin read endpoint
	r.Get("/wallets", h.Wallets)

	// health
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// anything else, any method: plain 404
	r.NotFound(http.NotFound)
	r.MethodNotAllowed(http.NotFound)

	return r
}

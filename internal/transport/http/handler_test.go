package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neko-chat/chat-service/internal/room"
	"github.com/neko-chat/chat-service/internal/transport/ws"
)

type fakeWallets struct {
	wallets map[string]string
	err     error
}

func (f *fakeWallets) WalletLog(context.Context) (map[string]string, error) {
	return f.wallets, f.err
}

type noopController struct{}

func (noopController) Connect(context.Context, string, room.Sender)  {}
func (noopController) HandleMessage(context.Context, string, []byte) {}
func (noopController) Disconnect(context.Context, string)            {}

func newTestRouter(wallets *fakeWallets) http.Handler {
	return NewRouter(NewHandler(wallets), ws.NewServer(noopController{}, ""))
}

func TestWalletsReturnsLog(t *testing.T) {
	router := newTestRouter(&fakeWallets{wallets: map[string]string{"neko": "0xCAFE"}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/wallets", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, map[string]string{"neko": "0xCAFE"}, got)
}

func TestWalletsEmptyLogIsObject(t *testing.T) {
	router := newTestRouter(&fakeWallets{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/wallets", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{}`, rec.Body.String())
}

func TestWalletsStoreFailure(t *testing.T) {
	router := newTestRouter(&fakeWallets{err: errors.New("pg down")})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/wallets", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestUnknownRoutesAre404(t *testing.T) {
	router := newTestRouter(&fakeWallets{})

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/nope", nil),
		httptest.NewRequest(http.MethodPost, "/wallets", nil),
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code, "%s %s", req.Method, req.URL.Path)
	}
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(&fakeWallets{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

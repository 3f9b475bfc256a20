// =============================
// File: internal/server/server_test.go
// =============================
package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/liquidity-watch/internal/solana"
	"github.com/rovshanmuradov/liquidity-watch/internal/watchlist"
)

type fakePipeline struct {
	mu       sync.Mutex
	received []*solana.ParsedTransaction
	active   bool
}

func (p *fakePipeline) HandleWebhookTransaction(tx *solana.ParsedTransaction) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.received = append(p.received, tx)
}

func (p *fakePipeline) Active() bool { return p.active }

func (p *fakePipeline) receivedCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.received)
}

func newTestServer(t *testing.T, pipeline *fakePipeline, store *watchlist.Store) *Server {
	t.Helper()
	return New(0, pipeline, store, zap.NewNop())
}

func TestHandleWebhook_ValidDelivery(t *testing.T) {
	pipeline := &fakePipeline{active: true}
	srv := newTestServer(t, pipeline, watchlist.NewStore(5))

	body := `{"transaction":{"transaction":{"signatures":["Sig1"],"message":{"instructions":[]}},"meta":{"logMessages":["Program log: Instruction: AddLiquidityByStrategy"]}}}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	rec := httptest.NewRecorder()

	srv.handleWebhook(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, pipeline.receivedCount())
	assert.Equal(t, "Sig1", pipeline.received[0].Signature())
}

func TestHandleWebhook_Rejections(t *testing.T) {
	pipeline := &fakePipeline{active: true}
	srv := newTestServer(t, pipeline, watchlist.NewStore(5))

	// Not JSON.
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	srv.handleWebhook(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Missing transaction field.
	req = httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"other":1}`))
	rec = httptest.NewRecorder()
	srv.handleWebhook(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Wrong method.
	req = httptest.NewRequest(http.MethodGet, "/webhook", nil)
	rec = httptest.NewRecorder()
	srv.handleWebhook(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	assert.Zero(t, pipeline.receivedCount())
}

func TestHandleHealth(t *testing.T) {
	store := watchlist.NewStore(5)
	require.NoError(t, store.Add("mint-1"))
	require.NoError(t, store.Add("mint-2"))

	srv := newTestServer(t, &fakePipeline{active: true}, store)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.handleHealth(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var payload struct {
		Status           string `json:"status"`
		MonitoringActive bool   `json:"monitoring_active"`
		WatchlistSize    int    `json:"watchlist_size"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "ok", payload.Status)
	assert.True(t, payload.MonitoringActive)
	assert.Equal(t, 2, payload.WatchlistSize)
}

func TestHandleHealth_InactivePipeline(t *testing.T) {
	srv := newTestServer(t, &fakePipeline{active: false}, watchlist.NewStore(5))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.handleHealth(rec, req)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, false, payload["monitoring_active"])
}

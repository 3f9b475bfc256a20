// =============================
// File: internal/server/server.go
// =============================
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/liquidity-watch/internal/metrics"
	"github.com/rovshanmuradov/liquidity-watch/internal/solana"
	"github.com/rovshanmuradov/liquidity-watch/internal/watchlist"
)

const (
	readTimeout     = 10 * time.Second
	writeTimeout    = 10 * time.Second
	shutdownTimeout = 5 * time.Second
	maxWebhookBody  = 4 << 20
)

// Pipeline is the ingestion surface the server pushes webhook deliveries
// into.
type Pipeline interface {
	HandleWebhookTransaction(tx *solana.ParsedTransaction)
	Active() bool
}

// webhookEnvelope is the push-delivery body: a parsed transaction wrapped
// in a single field.
type webhookEnvelope struct {
	Transaction *solana.ParsedTransaction `json:"transaction"`
}

// Server exposes the webhook ingestion endpoint plus health and metrics.
type Server struct {
	httpServer *http.Server
	pipeline   Pipeline
	store      *watchlist.Store
	logger     *zap.Logger
}

func New(port int, pipeline Pipeline, store *watchlist.Store, logger *zap.Logger) *Server {
	s := &Server{
		pipeline: pipeline,
		store:    store,
		logger:   logger.Named("server"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/webhook", s.handleWebhook)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}
	return s
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var envelope webhookEnvelope
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err := decoder.Decode(&envelope); err != nil || envelope.Transaction == nil {
		metrics.WebhookDeliveriesTotal.WithLabelValues("rejected").Inc()
		s.logger.Warn("malformed webhook delivery", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	metrics.WebhookDeliveriesTotal.WithLabelValues("accepted").Inc()
	s.pipeline.HandleWebhookTransaction(envelope.Transaction)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":            "ok",
		"monitoring_active": s.pipeline.Active(),
		"watchlist_size":    s.store.Size(),
	})
}

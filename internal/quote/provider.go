// =============================
// File: internal/quote/provider.go
// =============================
package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Unavailable is the annotation used when a quote cannot be produced.
// Quote failures degrade the alert text, never suppress the alert.
const Unavailable = "N/A (insufficient liquidity for quote)"

// Provider computes a swap quote for one base unit of the pool's X token.
// The quote math itself lives in an external service; this pipeline only
// consumes its result as an opaque price string.
type Provider interface {
	Quote(ctx context.Context, poolAddress string, inputDecimals int) (string, error)
}

// HTTPProvider asks a quote REST API for a price.
type HTTPProvider struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewHTTPProvider(baseURL string, logger *zap.Logger) *HTTPProvider {
	return &HTTPProvider{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		logger: logger.Named("quote"),
	}
}

type quoteResponse struct {
	Success  bool   `json:"success"`
	OutPrice string `json:"outPrice"`
}

func (p *HTTPProvider) Quote(ctx context.Context, poolAddress string, inputDecimals int) (string, error) {
	url := fmt.Sprintf("%s/quote?pool=%s&decimals=%d", p.baseURL, poolAddress, inputDecimals)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("quote API returned status code: %d", resp.StatusCode)
	}

	var qr quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&qr); err != nil {
		return "", fmt.Errorf("failed to decode quote response: %w", err)
	}
	if !qr.Success || qr.OutPrice == "" {
		return "", fmt.Errorf("quote API returned no price")
	}
	return qr.OutPrice, nil
}

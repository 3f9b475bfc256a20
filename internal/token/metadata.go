// =============================
// File: internal/token/metadata.go
// =============================
package token

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

const (
	metadataTTL = 5 * time.Minute

	// Sentinels used when every lookup source fails. Enrichment failure
	// must never suppress an alert, so lookups always return something.
	UnknownName   = "Unknown Token"
	UnknownSymbol = "UNK"
)

// Info holds the display metadata for a mint.
type Info struct {
	Mint      string
	Name      string
	Symbol    string
	Decimals  uint8
	Source    string // "chain", "api", "cache", "fallback"
	UpdatedAt time.Time
}

// AccountFetcher is the slice of the RPC client the cache needs.
type AccountFetcher interface {
	GetAccountInfo(ctx context.Context, account solanago.PublicKey) (*rpc.GetAccountInfoResult, error)
}

// MetadataCache resolves and caches token metadata: decimals from the mint
// account on chain, name/symbol from an HTTP token API, with a known-token
// table and an Unknown Token fallback.
type MetadataCache struct {
	cache      sync.Map
	client     AccountFetcher
	apiURL     string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewMetadataCache(client AccountFetcher, apiURL string, logger *zap.Logger) *MetadataCache {
	return &MetadataCache{
		client: client,
		apiURL: apiURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		logger: logger.Named("token_metadata"),
	}
}

type apiTokenInfo struct {
	Success bool `json:"success"`
	Token   struct {
		Symbol   string `json:"symbol"`
		Name     string `json:"name"`
		Decimals uint8  `json:"decimals"`
	} `json:"token"`
}

// GetTokenInfo returns metadata for the mint. It never fails: on any
// lookup error the sentinel Unknown Token triple is returned instead.
func (c *MetadataCache) GetTokenInfo(ctx context.Context, mint string) *Info {
	if mint == "" {
		return &Info{Name: UnknownName, Symbol: UnknownSymbol, Source: "fallback"}
	}

	if info, ok := c.getFromCache(mint); ok {
		return info
	}

	info := &Info{Mint: mint, Source: "chain"}

	if decimals, err := c.decimalsFromChain(ctx, mint); err != nil {
		c.logger.Debug("failed to get on-chain decimals",
			zap.String("mint", mint),
			zap.Error(err))
	} else {
		info.Decimals = decimals
	}

	if err := c.enrichFromAPI(ctx, mint, info); err != nil {
		c.logger.Debug("failed to enrich metadata from API",
			zap.String("mint", mint),
			zap.Error(err))
	}

	if info.Name == "" || info.Symbol == "" {
		enrichFromKnownTokens(mint, info)
	}
	if info.Name == "" {
		info.Name = UnknownName
		info.Symbol = UnknownSymbol
		info.Source = "fallback"
	}

	info.UpdatedAt = time.Now()
	c.cache.Store(mint, info)

	c.logger.Debug("token metadata resolved",
		zap.String("mint", mint),
		zap.String("symbol", info.Symbol),
		zap.Uint8("decimals", info.Decimals),
		zap.String("source", info.Source))

	return info
}

func (c *MetadataCache) getFromCache(mint string) (*Info, bool) {
	if value, ok := c.cache.Load(mint); ok {
		info := value.(*Info)
		if time.Since(info.UpdatedAt) < metadataTTL {
			return info, true
		}
		c.cache.Delete(mint)
	}
	return nil, false
}

// decimalsFromChain reads the decimals byte of the SPL mint account.
func (c *MetadataCache) decimalsFromChain(ctx context.Context, mint string) (uint8, error) {
	pubkey, err := solanago.PublicKeyFromBase58(mint)
	if err != nil {
		return 0, fmt.Errorf("invalid mint: %w", err)
	}

	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	acc, err := c.client.GetAccountInfo(cctx, pubkey)
	if err != nil {
		return 0, fmt.Errorf("failed to get mint account: %w", err)
	}
	if acc == nil || acc.Value == nil {
		return 0, fmt.Errorf("mint account not found: %s", mint)
	}

	data := acc.Value.Data.GetBinary()
	if len(data) < 45 {
		return 0, fmt.Errorf("invalid mint account data length: %d", len(data))
	}
	return data[44], nil
}

func (c *MetadataCache) enrichFromAPI(ctx context.Context, mint string, info *Info) error {
	if c.apiURL == "" {
		return fmt.Errorf("no token API configured")
	}
	url := fmt.Sprintf("%s/getToken?token=%s", c.apiURL, mint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API returned status code: %d", resp.StatusCode)
	}

	var tokenInfo apiTokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&tokenInfo); err != nil {
		return fmt.Errorf("failed to decode API response: %w", err)
	}
	if !tokenInfo.Success {
		return fmt.Errorf("API returned unsuccessful response")
	}

	if tokenInfo.Token.Symbol != "" {
		info.Symbol = tokenInfo.Token.Symbol
	}
	if tokenInfo.Token.Name != "" {
		info.Name = tokenInfo.Token.Name
	}
	if tokenInfo.Token.Decimals > 0 {
		info.Decimals = tokenInfo.Token.Decimals
	}
	info.Source = "api"
	return nil
}

func enrichFromKnownTokens(mint string, info *Info) {
	switch mint {
	case "So11111111111111111111111111111111111111112": // wSOL
		info.Symbol = "SOL"
		info.Name = "Wrapped SOL"
	case "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v": // USDC
		info.Symbol = "USDC"
		info.Name = "USD Coin"
	case "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263": // Bonk
		info.Symbol = "BONK"
		info.Name = "Bonk"
	}
}

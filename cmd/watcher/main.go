// =============================
// File: cmd/watcher/main.go
// =============================
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/liquidity-watch/internal/config"
	"github.com/rovshanmuradov/liquidity-watch/internal/dex"
	"github.com/rovshanmuradov/liquidity-watch/internal/logger"
	"github.com/rovshanmuradov/liquidity-watch/internal/monitor"
	"github.com/rovshanmuradov/liquidity-watch/internal/notify"
	"github.com/rovshanmuradov/liquidity-watch/internal/quote"
	"github.com/rovshanmuradov/liquidity-watch/internal/server"
	"github.com/rovshanmuradov/liquidity-watch/internal/solana"
	"github.com/rovshanmuradov/liquidity-watch/internal/token"
	"github.com/rovshanmuradov/liquidity-watch/internal/watchlist"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "watcher: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(&logger.Config{
		LogFile:     "watcher.log",
		MaxSize:     100,
		MaxBackups:  3,
		MaxAge:      7,
		Compress:    true,
		Development: cfg.DebugLogging,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := watchlist.NewStore(cfg.MaxWatchlistSize)
	for _, id := range cfg.Watchlist {
		if err := store.Add(id); err != nil {
			log.Warn("skipping watchlist entry from config",
				zap.String("identifier", id),
				zap.Error(err))
		}
	}

	notifier, err := notify.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID, log.Logger)
	if err != nil {
		return fmt.Errorf("init notifier: %w", err)
	}

	rpcClient := rpc.New(cfg.RPCURL)
	tokens := token.NewMetadataCache(rpcClient, cfg.TokenAPIURL, log.Logger)

	var quotes quote.Provider
	if cfg.QuoteAPIURL != "" {
		quotes = quote.NewHTTPProvider(cfg.QuoteAPIURL, log.Logger)
	}

	registry := dex.DefaultRegistry()
	fetcher := solana.NewClient(cfg.RPCURL, log.Logger)

	mon := monitor.New(&monitor.Config{
		Registry: registry,
		Fetcher:  fetcher,
		Store:    store,
		Tokens:   tokens,
		Quotes:   quotes,
		Notifier: notifier,
		Cooldown: cfg.Cooldown(),
		Logger:   log.Logger,
	})

	srv := server.New(cfg.WebhookPort, mon, store, log.Logger)
	subscriber := solana.NewSubscriber(cfg.WebSocketURL, log.Logger)

	log.WithOperation("startup").Info("liquidity watcher starting",
		zap.Int("programs", len(cfg.Programs)),
		zap.Int("watchlist", store.Size()),
		zap.Int("webhook_port", cfg.WebhookPort))

	if err := notifier.SendMessage("👀 Liquidity watcher online, monitoring started."); err != nil {
		log.Warn("failed to send startup notification", zap.Error(err))
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return mon.Run(gctx) })
	g.Go(func() error { return srv.Run(gctx) })

	for _, programID := range cfg.Programs {
		g.Go(func() error {
			return subscriber.Run(gctx, programID, func(event solana.LogEvent) {
				mon.HandleLogEvent(programID, event)
			})
		})
	}

	err = g.Wait()
	if err != nil && ctx.Err() != nil {
		log.Info("liquidity watcher stopped")
		return nil
	}
	return err
}

// =============================
// File: internal/solana/subscriber.go
// =============================
package solana

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
	"go.uber.org/zap"
)

// LogEvent is one notification from a program log subscription.
type LogEvent struct {
	Signature string
	Logs      []string
	Slot      uint64
	Failed    bool
}

// LogHandler consumes subscription notifications. It must not block for
// long; slow work belongs on the consumer side of a channel.
type LogHandler func(event LogEvent)

// Subscriber maintains one long-lived logsSubscribe stream per monitored
// program, reconnecting with exponential backoff when the stream drops.
type Subscriber struct {
	wsURL  string
	logger *zap.Logger
}

func NewSubscriber(wsURL string, logger *zap.Logger) *Subscriber {
	return &Subscriber{
		wsURL:  wsURL,
		logger: logger.Named("subscriber"),
	}
}

// Run subscribes to logs mentioning programID at confirmed commitment and
// delivers notifications to handler until ctx is cancelled.
func (s *Subscriber) Run(ctx context.Context, programID string, handler LogHandler) error {
	program, err := solanago.PublicKeyFromBase58(programID)
	if err != nil {
		return fmt.Errorf("invalid program id %q: %w", programID, err)
	}

	log := s.logger.With(zap.String("program", programID))
	bo := backoff.NewExponentialBackOff()

	for {
		if err := s.consume(ctx, program, handler, log, bo); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			delay := bo.NextBackOff()
			log.Warn("log subscription dropped, reconnecting",
				zap.Error(err),
				zap.Duration("delay", delay))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}
}

func (s *Subscriber) consume(
	ctx context.Context,
	program solanago.PublicKey,
	handler LogHandler,
	log *zap.Logger,
	bo *backoff.ExponentialBackOff,
) error {
	client, err := ws.Connect(ctx, s.wsURL)
	if err != nil {
		return fmt.Errorf("websocket connect: %w", err)
	}
	defer client.Close()

	sub, err := client.LogsSubscribeMentions(program, rpc.CommitmentConfirmed)
	if err != nil {
		return fmt.Errorf("logsSubscribe: %w", err)
	}
	defer sub.Unsubscribe()

	log.Info("subscribed to program logs")
	bo.Reset()

	for {
		got, err := sub.Recv(ctx)
		if err != nil {
			return fmt.Errorf("recv: %w", err)
		}
		handler(LogEvent{
			Signature: got.Value.Signature.String(),
			Logs:      got.Value.Logs,
			Slot:      got.Context.Slot,
			Failed:    got.Value.Err != nil,
		})
	}
}

// =============================
// File: internal/notify/telegram.go
// =============================
package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// TelegramNotifier sends liquidity alerts to a single chat.
type TelegramNotifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
	logger *zap.Logger
}

func NewTelegramNotifier(token string, chatID int64, logger *zap.Logger) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram init: %w", err)
	}
	return &TelegramNotifier{
		api:    api,
		chatID: chatID,
		logger: logger.Named("telegram"),
	}, nil
}

func (t *TelegramNotifier) SendLiquidityAlert(alert Alert) error {
	title := "🚨 *Liquidity Added*"
	if alert.Kind == "remove" {
		title = "📉 *Liquidity Removed*"
	}

	text := fmt.Sprintf(
		"%s\n\n"+
			"*DEX:* %s\n"+
			"*Pair:* %s\n"+
			"*Pool:* `%s`\n"+
			"*Tokens:* %s / %s\n"+
			"*Liquidity:* %s\n"+
			"*Price:* %s\n\n"+
			"🔗 [View on Solscan](https://solscan.io/tx/%s)",
		title,
		alert.Dex,
		alert.Pair,
		alert.Pool,
		alert.TokenA,
		alert.TokenB,
		alert.Liquidity,
		alert.Price,
		alert.Tx,
	)

	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true

	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}

	t.logger.Info("liquidity alert sent",
		zap.String("pool", alert.Pool),
		zap.String("tx", alert.Tx))
	return nil
}

func (t *TelegramNotifier) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

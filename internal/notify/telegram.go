// Package notify sends manipulation alerts via the Telegram Bot API.
package notify

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"token-forensics/internal/analysis"
)

// Notifier sends analysis alerts to a Telegram chat.
type Notifier struct {
	bot            *tgbotapi.BotAPI
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
}

// New creates a Notifier.
func New(botToken, chatID string, maxRetries int, retryDelayBase time.Duration) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat id: %w", err)
	}

	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}

	return &Notifier{
		bot:            bot,
		chatID:         chatIDInt,
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
	}, nil
}

// SendFindings sends an alert summarizing the positive detections of a run.
// Call only when the result has findings.
func (n *Notifier) SendFindings(res *analysis.Result) error {
	return n.sendMarkdownV2(formatFindings(res))
}

// SendError sends a pipeline error notification.
func (n *Notifier) SendError(runErr error) error {
	text := fmt.Sprintf("⚠️ *Analysis error*\n`%s`", escapeMarkdownV2(runErr.Error()))
	return n.sendMarkdownV2(text)
}

// sendMarkdownV2 sends a MarkdownV2 message with linear-backoff retry.
func (n *Notifier) sendMarkdownV2(text string) error {
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = "MarkdownV2"

	var lastErr error
	for i := 0; i < n.maxRetries; i++ {
		if _, err := n.bot.Send(msg); err == nil {
			return nil
		} else {
			lastErr = err
		}
		time.Sleep(n.retryDelayBase * time.Duration(i+1))
	}
	return fmt.Errorf("failed after %d retries: %w", n.maxRetries, lastErr)
}

// formatFindings formats a result into a Telegram MarkdownV2 alert.
func formatFindings(res *analysis.Result) string {
	var b strings.Builder

	b.WriteString("🚨 *Manipulation Signals Detected*\n\n")
	b.WriteString(fmt.Sprintf("📅 Run: %s\n", escapeMarkdownV2(res.GeneratedAt.UTC().Format("2006-01-02 15:04:05"))))
	b.WriteString(fmt.Sprintf("📊 Trades analyzed: %d\n\n", len(res.Trades)))

	if pumps := res.ConfirmedPumps(); len(pumps) > 0 {
		b.WriteString(fmt.Sprintf("💣 *Pump\\-and\\-dump:* %d confirmed\n", len(pumps)))
		for _, p := range pumps {
			window := fmt.Sprintf("%s -> %s",
				time.Unix(p.Event.StartTime, 0).UTC().Format("15:04"),
				time.Unix(p.Event.EndTime, 0).UTC().Format("15:04"))
			b.WriteString(fmt.Sprintf("   📈 %s, %d retail buys, %d whale sells\n",
				escapeMarkdownV2(window), p.RetailBuyCount, p.WhaleSellCount))
		}
	}

	if len(res.CoordinatedIntervals) > 0 {
		b.WriteString(fmt.Sprintf("🤝 *Coordinated intervals:* %d\n", len(res.CoordinatedIntervals)))
	}

	if len(res.WhaleEntries) > 0 {
		b.WriteString(fmt.Sprintf("🐋 *Whale entries:* %d\n", len(res.WhaleEntries)))
	}

	flagged := 0
	for _, s := range res.Ranked {
		if s.Flagged() {
			flagged++
		}
	}
	if flagged > 0 {
		b.WriteString(fmt.Sprintf("👛 *Flagged wallets:* %d\n", flagged))
	}

	return b.String()
}

// escapeMarkdownV2 escapes special characters for Telegram MarkdownV2.
func escapeMarkdownV2(text string) string {
	var b strings.Builder
	b.Grow(len(text) + len(text)/4)
	for _, char := range text {
		switch char {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!':
			b.WriteByte('\\')
		}
		b.WriteRune(char)
	}
	return b.String()
}

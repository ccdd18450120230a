package notify

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// sender is the part of *tgbotapi.BotAPI the notifier uses.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram sends alerts to one chat through the Bot API.
type Telegram struct {
	bot            sender
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
}

// defaultRequestTimeout bounds one Bot API request when no timeout is set.
const defaultRequestTimeout = 10 * time.Second

// NewTelegram creates a Telegram notifier. It contacts the Bot API to
// validate the token. The bot library takes no context, so each HTTP request
// is bounded by requestTimeout instead; Notify's context only cuts the retry
// loop short between attempts.
func NewTelegram(botToken, chatID string, maxRetries int, retryDelayBase, requestTimeout time.Duration) (*Telegram, error) {
	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	bot, err := tgbotapi.NewBotAPIWithClient(botToken, tgbotapi.APIEndpoint, botClient(requestTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	return newTelegram(bot, chatIDInt, maxRetries, retryDelayBase), nil
}

func botClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &http.Client{Timeout: timeout}
}

func newTelegram(bot sender, chatID int64, maxRetries int, retryDelayBase time.Duration) *Telegram {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}
	return &Telegram{
		bot:            bot,
		chatID:         chatID,
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
	}
}

// Notify implements Notifier.
func (t *Telegram) Notify(ctx context.Context, a Alert) error {
	return t.sendMarkdownV2(ctx, formatAlert(a))
}

// sendMarkdownV2 sends a MarkdownV2 message with linear-backoff retry.
func (t *Telegram) sendMarkdownV2(ctx context.Context, text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = "MarkdownV2"

	var lastErr error
	for i := 0; i < t.maxRetries; i++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("send cancelled after %d attempts: %w", i, err)
		}
		if _, err := t.bot.Send(msg); err == nil {
			return nil
		} else {
			lastErr = err
		}
		if i == t.maxRetries-1 {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("send cancelled after %d attempts: %w", i+1, ctx.Err())
		case <-time.After(t.retryDelayBase * time.Duration(i+1)):
		}
	}
	return fmt.Errorf("failed after %d retries: %w", t.maxRetries, lastErr)
}

// formatAlert formats an alert into a Telegram MarkdownV2 message.
func formatAlert(a Alert) string {
	var b strings.Builder

	icon := "🚑"
	if a.Risk {
		icon = "🚨"
	}
	fmt.Fprintf(&b, "%s *%s*\n\n", icon, escapeMarkdownV2(a.Kind.Title()))

	if a.Message != "" {
		b.WriteString(escapeMarkdownV2(a.Message))
		b.WriteString("\n\n")
	}

	status := "Normal"
	if a.Risk {
		status = "Risk detected"
	}
	fmt.Fprintf(&b, "❤️ HR: %s bpm\n", escapeMarkdownV2(strconv.Itoa(a.HeartRate)))
	fmt.Fprintf(&b, "🫁 RR: %s s\n", escapeMarkdownV2(strconv.FormatFloat(a.RespRate, 'f', 2, 64)))
	fmt.Fprintf(&b, "📈 Status: %s\n", escapeMarkdownV2(status))

	if a.Hospital != "" {
		fmt.Fprintf(&b, "🏥 %s\n", escapeMarkdownV2(a.Hospital))
	}
	if !a.At.IsZero() {
		fmt.Fprintf(&b, "\n📅 %s\n", escapeMarkdownV2(a.At.Format("2006-01-02 15:04:05")))
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

// Package notify tells the dispatch unit about new reports.
package notify

import (
	"context"
	"fmt"
	"strings"

	"safecity/backend/internal/logger"
	"safecity/backend/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier is called after a report has been stored. Errors are only logged.
type Notifier interface {
	ReportCreated(ctx context.Context, report *models.Report) error
}

// Nop is used when no dispatch channel is configured.
type Nop struct{}

func (Nop) ReportCreated(context.Context, *models.Report) error { return nil }

// Sender is the part of tgbotapi.BotAPI the dispatcher uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramDispatcher posts a short summary of each new report to one chat.
type TelegramDispatcher struct {
	Bot    Sender
	ChatID int64
}

// NewTelegramDispatcher authorizes the bot token against Telegram.
func NewTelegramDispatcher(token string, chatID int64) (*TelegramDispatcher, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	bot.Debug = false
	logger.Success("Dispatch bot authorized on account %s", bot.Self.UserName)
	return &TelegramDispatcher{Bot: bot, ChatID: chatID}, nil
}

func (d *TelegramDispatcher) ReportCreated(ctx context.Context, report *models.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(d.ChatID, FormatReport(report))
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	if _, err := d.Bot.Send(msg); err != nil {
		return fmt.Errorf("send dispatch message for %s: %w", report.CaseNumber, err)
	}
	return nil
}

// FormatReport renders a MarkdownV2 summary. Anonymous reports carry a marker
// so dispatch does not try to call the reporter back.
func FormatReport(r *models.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🚨 *New report* `%s`\n", tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, r.CaseNumber))
	fmt.Fprintf(&b, "*Type:* %s\n", tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, r.Type))
	fmt.Fprintf(&b, "*Priority:* %s\n", tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, string(r.Priority)))
	if r.Location.Address != "" {
		fmt.Fprintf(&b, "*Location:* %s\n", tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, r.Location.Address))
	}
	if r.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, r.Description))
	}
	if r.IsAnonymous {
		b.WriteString("\n_Submitted anonymously_")
	}
	return b.String()
}

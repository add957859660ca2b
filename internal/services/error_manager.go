package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"runtime/debug"

	"github.com/ad/go-telegram-progress-stats/internal/models"
	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
)

const adminMessageLimit = 4000

// ErrorManager reports handler panics and undeliverable messages to the
// admin chat. With adminID == 0 reports only go to the log.
type ErrorManager struct {
	sender  Sender
	adminID int64
}

func NewErrorManager(sender Sender, adminID int64) *ErrorManager {
	return &ErrorManager{
		sender:  sender,
		adminID: adminID,
	}
}

func (e *ErrorManager) NotifyAdmin(ctx context.Context, panicValue interface{}, update *tgmodels.Update) {
	userInfo := "unknown"

	if update != nil {
		if update.Message != nil && update.Message.From != nil {
			userInfo = formatSender(*update.Message.From)
		} else if update.CallbackQuery != nil && update.CallbackQuery.From.ID != 0 {
			userInfo = formatSender(update.CallbackQuery.From)
		}
	}

	msg := fmt.Sprintf("🚨 Panic in handler\nUser: %s\nError: %v\n\nStack trace:\n%s",
		userInfo, panicValue, string(debug.Stack()))

	e.send(ctx, msg)
}

func (e *ErrorManager) NotifyAdminWithCurl(ctx context.Context, chatID int64, request interface{}, err error) {
	curl := e.buildCurlCommand(request)

	msg := fmt.Sprintf("❌ Failed to send message\nUser: [%d]\nError: %v\n\nCurl:\n%s",
		chatID, err, curl)

	e.send(ctx, msg)
}

func (e *ErrorManager) send(ctx context.Context, msg string) {
	log.Printf("[ERROR] %s", msg)
	if e.adminID == 0 || e.sender == nil {
		return
	}

	if chunks := SplitText(msg, adminMessageLimit, models.SplitLines); len(chunks) > 1 {
		msg = chunks[0] + "\n... (truncated)"
	}

	_, _ = e.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: e.adminID,
		Text:   msg,
	})
}

func (e *ErrorManager) buildCurlCommand(request interface{}) string {
	jsonData, err := json.MarshalIndent(request, "", "  ")
	if err != nil {
		return fmt.Sprintf("# Failed to serialize request: %v", err)
	}

	return fmt.Sprintf("curl -X POST 'https://api.telegram.org/bot[BOT_TOKEN]/sendMessage' \\\n  -H 'Content-Type: application/json' \\\n  -d '%s'",
		string(jsonData))
}

func formatSender(u tgmodels.User) string {
	name := u.FirstName
	if u.LastName != "" {
		name += " " + u.LastName
	}
	if u.Username != "" {
		name += " @" + u.Username
	}
	return fmt.Sprintf("%s [%d]", name, u.ID)
}

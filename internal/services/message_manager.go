package services

import (
	"context"
	"log"
	"strings"

	"github.com/ad/go-telegram-progress-stats/internal/metrics"
	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
)

// Sender is the subset of *bot.Bot used for replies.
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*tgmodels.Message, error)
	EditMessageText(ctx context.Context, params *bot.EditMessageTextParams) (*tgmodels.Message, error)
	AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error)
}

type MessageManager struct {
	sender   Sender
	errMgr   *ErrorManager
	maxRetry int
}

func NewMessageManager(sender Sender, errMgr *ErrorManager) *MessageManager {
	return &MessageManager{
		sender:   sender,
		errMgr:   errMgr,
		maxRetry: 2,
	}
}

func (m *MessageManager) SendWithRetry(ctx context.Context, params *bot.SendMessageParams) (*tgmodels.Message, error) {
	var lastErr error
	for attempt := 0; attempt < m.maxRetry; attempt++ {
		msg, err := m.sender.SendMessage(ctx, params)
		metrics.RecordSend(err)
		if err == nil {
			return msg, nil
		}
		lastErr = err
	}
	chatID, _ := params.ChatID.(int64)
	if m.errMgr != nil {
		m.errMgr.NotifyAdminWithCurl(ctx, chatID, params, lastErr)
	}
	return nil, lastErr
}

func (m *MessageManager) SendText(ctx context.Context, chatID int64, text string, keyboard *tgmodels.InlineKeyboardMarkup) error {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}
	_, err := m.SendWithRetry(ctx, params)
	return err
}

// SendChunks sends each chunk as a new message, in order, stopping at the
// first failure.
func (m *MessageManager) SendChunks(ctx context.Context, chatID int64, chunks []string) error {
	for _, chunk := range chunks {
		if err := m.SendText(ctx, chatID, chunk, nil); err != nil {
			return err
		}
	}
	return nil
}

// ReplaceWithChunks edits messageID to hold the first chunk and appends the
// rest as new messages. If the original message can no longer be edited the
// first chunk is sent as a new message instead.
func (m *MessageManager) ReplaceWithChunks(ctx context.Context, chatID int64, messageID int, chunks []string) error {
	if len(chunks) == 0 {
		return nil
	}

	_, err := m.sender.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      chunks[0],
	})
	metrics.RecordSend(err)
	if err != nil && !isMessageNotModifiedError(err) {
		if !isMessageNotFoundError(err) {
			return err
		}
		log.Printf("[SEND] edit of message %d failed, sending instead: %v", messageID, err)
		if err := m.SendText(ctx, chatID, chunks[0], nil); err != nil {
			return err
		}
	}

	return m.SendChunks(ctx, chatID, chunks[1:])
}

func (m *MessageManager) AnswerCallback(ctx context.Context, callbackID, text string) {
	_, err := m.sender.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
	if err != nil {
		log.Printf("[SEND] answer callback %s: %v", callbackID, err)
	}
}

func isMessageNotModifiedError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "message is not modified")
}

func isMessageNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "message to edit not found") ||
		strings.Contains(errStr, "message can't be edited") ||
		strings.Contains(errStr, "MESSAGE_ID_INVALID")
}

package handlers

import (
	"context"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/ad/go-telegram-progress-stats/internal/fsm"
	"github.com/ad/go-telegram-progress-stats/internal/metrics"
	"github.com/ad/go-telegram-progress-stats/internal/models"
	"github.com/ad/go-telegram-progress-stats/internal/services"
	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
)

type Options struct {
	Mode models.StatsMode
	// BotName is the bot shown by /stats in single mode.
	BotName       string
	MenuWidth     int
	MaxMessageLen int
	SplitStrategy models.SplitStrategy
	SplitAll      bool
}

type BotHandler struct {
	errorManager *services.ErrorManager
	msgManager   *services.MessageManager
	statsService *services.StatisticsService
	opts         Options
}

func NewBotHandler(
	errorManager *services.ErrorManager,
	msgManager *services.MessageManager,
	statsService *services.StatisticsService,
	opts Options,
) *BotHandler {
	return &BotHandler{
		errorManager: errorManager,
		msgManager:   msgManager,
		statsService: statsService,
		opts:         opts,
	}
}

func (h *BotHandler) HandleUpdate(ctx context.Context, _ *bot.Bot, update *tgmodels.Update) {
	defer h.recoverPanic(ctx, update)

	if update.Message != nil {
		h.handleMessage(ctx, update.Message)
	} else if update.CallbackQuery != nil {
		h.handleCallback(ctx, update.CallbackQuery)
	}
}

func (h *BotHandler) recoverPanic(ctx context.Context, update *tgmodels.Update) {
	if r := recover(); r != nil {
		h.errorManager.NotifyAdmin(ctx, r, update)
	}
}

func (h *BotHandler) handleMessage(ctx context.Context, msg *tgmodels.Message) {
	switch parseCommand(msg.Text) {
	case "/start":
		metrics.RecordUpdate(metrics.KindStart)
		h.handleStart(ctx, msg)
	case "/stats":
		metrics.RecordUpdate(metrics.KindStats)
		h.handleStats(ctx, msg)
	default:
		metrics.RecordUpdate(metrics.KindIgnored)
	}
}

// parseCommand returns the command of a message text, without arguments
// and without the "@botname" suffix.
func parseCommand(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return ""
	}
	cmd, _, _ := strings.Cut(fields[0], "@")
	return cmd
}

func (h *BotHandler) handleStart(ctx context.Context, msg *tgmodels.Message) {
	h.msgManager.SendText(ctx, msg.Chat.ID, services.StartMessage, nil)
	h.logState(msg.Chat.ID, fsm.EventStart)
}

func (h *BotHandler) handleStats(ctx context.Context, msg *tgmodels.Message) {
	chatID := msg.Chat.ID

	snapshot, err := h.statsService.Snapshot(ctx)
	if err != nil {
		h.msgManager.SendText(ctx, chatID, services.QueryErrorMessage, nil)
		return
	}

	if snapshot.IsEmpty() {
		h.msgManager.SendText(ctx, chatID, services.NoDataMessage, nil)
		h.logState(chatID, fsm.EventNoData)
		return
	}

	switch h.opts.Mode {
	case models.ModeAll:
		h.sendAllBots(ctx, chatID, snapshot)
	case models.ModeSingle:
		text := services.FormatBotStats(h.opts.BotName, snapshot.Totals[h.opts.BotName], snapshot.Details[h.opts.BotName])
		if err := h.msgManager.SendChunks(ctx, chatID, h.split(text)); err != nil {
			log.Printf("[STATS] send single-bot stats to %d: %v", chatID, err)
		}
	default:
		keyboard := BuildBotMenu(snapshot.Order, h.opts.MenuWidth)
		h.msgManager.SendText(ctx, chatID, services.ChooseBotMessage, keyboard)
	}

	h.logState(chatID, fsm.EventStats)
}

// sendAllBots sends the listing of every bot. Unless SplitAll is set the
// listing goes out as one message even when it exceeds MaxMessageLen.
func (h *BotHandler) sendAllBots(ctx context.Context, chatID int64, snapshot *models.StatsSnapshot) {
	text := services.FormatAllBots(snapshot)

	if h.opts.SplitAll {
		if err := h.msgManager.SendChunks(ctx, chatID, h.split(text)); err != nil {
			log.Printf("[STATS] send all-bots stats to %d: %v", chatID, err)
		}
		return
	}

	if n := utf8.RuneCountInString(text); h.opts.MaxMessageLen > 0 && n > h.opts.MaxMessageLen {
		log.Printf("[STATS] all-bots listing is %d chars, over the %d limit", n, h.opts.MaxMessageLen)
	}
	h.msgManager.SendText(ctx, chatID, text, nil)
}

func (h *BotHandler) handleCallback(ctx context.Context, callback *tgmodels.CallbackQuery) {
	if !strings.HasPrefix(callback.Data, BotStatsPrefix) {
		metrics.RecordUpdate(metrics.KindIgnored)
		return
	}
	metrics.RecordUpdate(metrics.KindCallback)

	botName := strings.TrimPrefix(callback.Data, BotStatsPrefix)

	snapshot, err := h.statsService.Snapshot(ctx)
	if err != nil {
		h.msgManager.AnswerCallback(ctx, callback.ID, services.QueryErrorMessage)
		return
	}

	text := services.FormatBotStats(botName, snapshot.Totals[botName], snapshot.Details[botName])
	chunks := h.split(text)

	chatID := callback.From.ID
	msg := callback.Message.Message
	if msg != nil {
		chatID = msg.Chat.ID
		err = h.msgManager.ReplaceWithChunks(ctx, chatID, msg.ID, chunks)
	} else {
		err = h.msgManager.SendChunks(ctx, chatID, chunks)
	}
	if err != nil {
		log.Printf("[STATS] send stats for %q to %d: %v", botName, chatID, err)
	}

	h.msgManager.AnswerCallback(ctx, callback.ID, "")
	h.logState(chatID, fsm.EventSelect)
}

func (h *BotHandler) split(text string) []string {
	return services.SplitText(text, h.opts.MaxMessageLen, h.opts.SplitStrategy)
}

func (h *BotHandler) logState(chatID int64, event fsm.Event) {
	log.Printf("[STATE] chat=%d event=%s state=%s", chatID, event, fsm.Next(h.opts.Mode, event))
}

package services

import (
	"fmt"
	"strings"

	"github.com/ad/go-telegram-progress-stats/internal/models"
)

const (
	StartMessage      = "📊 Статистический бот запущен\nКоманда: /stats"
	NoDataMessage     = "Нет данных для статистики."
	ChooseBotMessage  = "Выберите бота для просмотра статистики:"
	QueryErrorMessage = "⚠️ Ошибка при получении статистики"
)

// FormatBotStats renders the detail view for one bot.
func FormatBotStats(botName string, total int, users []models.UserStep) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🤖 Статистика для бота: %s\n", botName))
	sb.WriteString(fmt.Sprintf("👥 Всего пользователей: %d\n", total))
	sb.WriteString("📍 Пользователи и их последний шаг:\n")
	if len(users) == 0 {
		sb.WriteString("Нет данных.")
		return sb.String()
	}
	for _, u := range users {
		sb.WriteString(FormatUserLine(u))
	}
	return sb.String()
}

func FormatUserLine(u models.UserStep) string {
	return fmt.Sprintf("• %s — %s\n", u.Username, u.LastStep)
}

// FormatAllBots renders every bot of the snapshot in first-seen order.
func FormatAllBots(s *models.StatsSnapshot) string {
	var sb strings.Builder
	sb.WriteString("📊 Статистика по ботам\n\n")
	for i, name := range s.Order {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(FormatBotStats(name, s.Totals[name], s.Details[name]))
	}
	return sb.String()
}

package handlers

import (
	tgmodels "github.com/go-telegram/bot/models"
)

const BotStatsPrefix = "bot_stats:"

// BuildBotMenu lays out one button per bot name, at most width per row,
// keeping the input order. The last row may be shorter.
func BuildBotMenu(names []string, width int) *tgmodels.InlineKeyboardMarkup {
	if width <= 0 {
		width = 2
	}

	rows := make([][]tgmodels.InlineKeyboardButton, 0, (len(names)+width-1)/width)
	for i := 0; i < len(names); i += width {
		end := i + width
		if end > len(names) {
			end = len(names)
		}
		row := make([]tgmodels.InlineKeyboardButton, 0, end-i)
		for _, name := range names[i:end] {
			row = append(row, tgmodels.InlineKeyboardButton{
				Text:         name,
				CallbackData: BotStatsPrefix + name,
			})
		}
		rows = append(rows, row)
	}

	return &tgmodels.InlineKeyboardMarkup{InlineKeyboard: rows}
}

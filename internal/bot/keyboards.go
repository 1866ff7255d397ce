package bot

import (
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"canteen-bot/internal/model"
)

// mealDateCandidates lists the next N calendar days starting tomorrow.
const mealDateCandidates = 3

func mainMenuKeyboard(isAdmin bool) tgbotapi.ReplyKeyboardMarkup {
	rows := [][]tgbotapi.KeyboardButton{
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnOrder),
			tgbotapi.NewKeyboardButton(btnChangeName),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnDeleteMe),
		),
	}
	if isAdmin {
		rows = append(rows,
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton(btnStats),
				tgbotapi.NewKeyboardButton(btnExport),
			),
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButton(btnClear),
			),
		)
	}
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	return kb
}

func dateKeyboard(today time.Time) tgbotapi.ReplyKeyboardMarkup {
	var row []tgbotapi.KeyboardButton
	for i := 1; i <= mealDateCandidates; i++ {
		d := today.AddDate(0, 0, i)
		row = append(row, tgbotapi.NewKeyboardButton(d.Format(model.DisplayDate)))
	}
	kb := tgbotapi.NewReplyKeyboard(
		row,
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnBack)),
	)
	kb.ResizeKeyboard = true
	return kb
}

func canteenKeyboard(canteens []string) tgbotapi.ReplyKeyboardMarkup {
	var row []tgbotapi.KeyboardButton
	for _, c := range canteens {
		row = append(row, tgbotapi.NewKeyboardButton(c))
	}
	kb := tgbotapi.NewReplyKeyboard(
		row,
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnBack)),
	)
	kb.ResizeKeyboard = true
	return kb
}

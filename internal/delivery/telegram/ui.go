package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aboalhasanx/masters-quiz-bot/internal/domain/entities"
	"github.com/aboalhasanx/masters-quiz-bot/internal/subjects"
)

// buildSubjectsKeyboard builds the main menu keyboard, one subject per row.
func buildSubjectsKeyboard() *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, s := range subjects.All() {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(s.Emoji+" "+s.Name, buildSubjectCallback(s.Key)),
		))
	}

	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

// buildPartsKeyboard builds the chapter list for a subject.
func buildPartsKeyboard(subjectKey string, parts []entities.Part) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, p := range parts {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(p.Title, buildQuizStartCallback(subjectKey, p.Key)),
		))
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔙 Back", buildMenuCallback()),
	))

	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

// buildBackKeyboard builds a single back-to-menu button.
func buildBackKeyboard() *tgbotapi.InlineKeyboardMarkup {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔙 Back", buildMenuCallback()),
		),
	)
	return &kb
}

// buildQuizExitKeyboard builds the in-quiz exit button.
func buildQuizExitKeyboard() *tgbotapi.InlineKeyboardMarkup {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🚪 Leave quiz", buildQuizExitCallback()),
		),
	)
	return &kb
}

// buildQuizResultKeyboard builds the keyboard shown after a quiz ends.
func buildQuizResultKeyboard() *tgbotapi.InlineKeyboardMarkup {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 My statistics", buildStatsCallback()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 New quiz", buildMenuCallback()),
		),
	)
	return &kb
}

// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aboalhasanx/masters-quiz-bot/internal/domain/entities"
	"github.com/aboalhasanx/masters-quiz-bot/internal/infra/postgres/repository"
	"github.com/aboalhasanx/masters-quiz-bot/internal/leveling"
	"github.com/aboalhasanx/masters-quiz-bot/internal/service"
	"github.com/aboalhasanx/masters-quiz-bot/internal/subjects"
)

// Error and guidance messages.
const (
	msgUnknownCommand    = "Unknown command. Use /help to see what I can do."
	msgUseStart          = "Use /start to pick a subject and begin a quiz."
	msgChooseSubject     = "Choose a subject:"
	msgUnknownSubject    = "❌ Unknown subject."
	msgNoParts           = "❌ No quiz parts are available for this subject yet.\nCheck back later."
	msgSourceUnavailable = "❌ <b>Failed to load the questions.</b>\n\nCheck your connection and try again."
	msgNoQuestions       = "❌ <b>Sorry, no questions are available for this part.</b>\n\nTry another part."
	msgInternalError     = "Something went wrong. Please try again later."
	msgNoActiveQuiz      = "You have no quiz in progress. Use /start to begin one."
	msgAnswerNotRecorded = "⚠️ Your answer could not be recorded. Please answer the question again."
	msgResultNotSaved    = "⚠️ Your answer was recorded, but the quiz result could not be saved yet. Please try again in a moment."
	msgCorrect           = "✅ <b>Correct!</b>\n\n<i>Next question coming up…</i>"
	msgWrong             = "❌ <b>Wrong!</b>\n\n<i>Next question coming up…</i>"
	msgExitHint          = "<i>💡 To leave the quiz at any time, press the button below:</i>"
	msgStatsUnavailable  = "Could not load your statistics. Please try again later."
	msgNoProgressYet     = "No progress to show yet. Finish a quiz first!"
)

const msgHelp = `📚 <b>Available commands:</b>

/start — main menu
/stats — your personal statistics
/weekly — your last 7 days
/progress — your per-chapter progress
/cancel — leave the current quiz
/help — show this message

<b>How do I begin?</b>
1. Press /start
2. Pick a subject
3. Pick a chapter
4. Answer the quiz!`

const progressBarLength = 10

// recentSessionsLimit caps the recent-quizzes list in /stats.
const recentSessionsLimit = 5

// newHTMLMessage creates a message with HTML parse mode.
func newHTMLMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	return msg
}

// truncate shortens a string to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func buildWelcomeMessage(chatID int64, firstName string) tgbotapi.MessageConfig {
	text := fmt.Sprintf(
		"🎓 <b>Welcome, %s!</b>\n\nThis bot drills you on masters entrance exam subjects.\n\nChoose the subject you want to practice:",
		firstName,
	)

	msg := newHTMLMessage(chatID, text)
	kb := buildSubjectsKeyboard()
	msg.ReplyMarkup = *kb
	return msg
}

func buildPartsHeader(subject subjects.Subject) string {
	return fmt.Sprintf("%s <b>%s</b>\n\nChoose a chapter:", subject.Emoji, subject.Name)
}

func buildStartMessage(subject subjects.Subject, result *service.StartResult) string {
	return fmt.Sprintf(`<b>🚀 Quiz started!</b>

%s <b>Subject:</b> %s
📖 <b>Chapter:</b> %s
🔢 <b>Questions:</b> %d

<i>Ready? The first question is coming…</i>`,
		subject.Emoji, subject.Name, result.Title, result.Total,
	)
}

func buildResultMessage(sum *service.QuizSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<b>✅ Quiz finished!</b>\n\n")
	fmt.Fprintf(&b, "📊 <b>Score:</b> %d/%d\n", sum.Score, sum.Total)
	fmt.Fprintf(&b, "📈 <b>Accuracy:</b> %.0f%%\n\n", sum.Percentage)
	fmt.Fprintf(&b, "⭐ <b>XP earned:</b> +%d XP\n", sum.XPEarned)

	if sum.Level.LeveledUp {
		fmt.Fprintf(&b, "\n🎉 <b>Level up!</b>\n\n%s <b>Level %d: %s</b>\n",
			sum.Info.Tier.Emoji, sum.Level.NewLevel, sum.Info.Tier.Name)
	}

	b.WriteString("\n")
	b.WriteString(buildLevelBlock(sum.Info))

	return b.String()
}

func buildLevelBlock(info leveling.Info) string {
	if info.AtMax {
		return fmt.Sprintf(
			"🏆 <b>Top level!</b>\n%s %s — level %d\n\nYou reached the summit! 👑",
			info.Tier.Emoji, info.Tier.Name, info.Level,
		)
	}

	var b strings.Builder

	fmt.Fprintf(&b, "<b>Current level:</b>\n%s %s (level %d)\n\n", info.Tier.Emoji, info.Tier.Name, info.Level)
	fmt.Fprintf(&b, "%s %.1f%%\n", progressBar(info.Progress), info.Progress)
	fmt.Fprintf(&b, "• XP: %d / %d\n", info.XPInLevel, info.XPNeeded)

	if next, ok := leveling.NextTier(info.Level); ok {
		fmt.Fprintf(&b, "\n<b>Next tier:</b> %s %s", next.Emoji, next.Name)
	}

	return b.String()
}

func progressBar(percent float64) string {
	filled := int(percent / 100 * progressBarLength)
	if filled > progressBarLength {
		filled = progressBarLength
	}
	return strings.Repeat("━", filled) + strings.Repeat("░", progressBarLength-filled)
}

func buildAbortMessage(sum *service.AbortSummary) string {
	return fmt.Sprintf(`<b>🚪 Quiz cancelled.</b>

You answered %d of %d questions.

<i>Nothing from this quiz was recorded.</i>`,
		sum.Answered, sum.Total,
	)
}

func buildStatsMessage(firstName string, stats *repository.UserStats, recent []*entities.QuizSession) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📊 <b>Your statistics</b>\n\n")
	fmt.Fprintf(&b, "👤 %s\n\n", firstName)
	fmt.Fprintf(&b, "🔢 <b>Questions:</b>\n")
	fmt.Fprintf(&b, "   • answered: %d\n", stats.TotalQuestions)
	fmt.Fprintf(&b, "   • correct: %d\n", stats.CorrectAnswers)
	fmt.Fprintf(&b, "   • accuracy: %.1f%%\n\n", stats.Accuracy)
	fmt.Fprintf(&b, "🎯 <b>Quizzes:</b>\n")
	fmt.Fprintf(&b, "   • completed: %d\n", stats.QuizCount)
	fmt.Fprintf(&b, "   • best result: %.1f%%\n\n", stats.BestScore)

	b.WriteString(buildLevelBlock(leveling.ForXP(stats.XP)))

	if len(stats.Subjects) > 0 {
		fmt.Fprintf(&b, "\n\n📚 <b>By subject:</b>\n")
		for _, s := range stats.Subjects {
			fmt.Fprintf(&b, "   • %s: %d quizzes (avg %.1f%%)\n", subjects.Name(s.Subject), s.Count, s.AvgScore)
		}
	}

	if len(recent) > 0 {
		fmt.Fprintf(&b, "\n\n🕑 <b>Recent quizzes:</b>\n")
		for _, s := range recent {
			if s.EndedAt == nil {
				fmt.Fprintf(&b, "   • %s %s: not finished\n", subjects.Name(s.Subject), s.Chapter)
				continue
			}
			fmt.Fprintf(&b, "   • %s %s: %d/%d (%.0f%%)\n",
				subjects.Name(s.Subject), s.Chapter, s.Score, s.TotalQuestions, s.Percentage())
		}
	}

	b.WriteString("\n💪 Keep going!")

	return b.String()
}

func buildWeeklyMessage(stats *repository.WeeklyStats) string {
	return fmt.Sprintf(`📅 <b>Your last 7 days</b>

   • questions answered: %d
   • correct: %d
   • accuracy: %.1f%%
   • active days: %d
   • quizzes completed: %d`,
		stats.TotalAttempts, stats.CorrectAttempts, stats.Accuracy, stats.ActiveDays, stats.CompletedQuizzes,
	)
}

func buildProgressMessage(progress []repository.ChapterProgress) string {
	var b strings.Builder

	b.WriteString("📈 <b>Your progress:</b>\n\n")

	current := ""
	for _, p := range progress {
		if p.Subject != current {
			current = p.Subject
			fmt.Fprintf(&b, "%s <b>%s</b>:\n", subjects.Emoji(p.Subject), subjects.Name(p.Subject))
		}

		badge := "📝"
		switch {
		case p.AvgScore >= 80:
			badge = "✅"
		case p.AvgScore >= 60:
			badge = "🔄"
		}

		fmt.Fprintf(&b, "   %s %s: %d attempts, avg %.0f%%\n", badge, p.Chapter, p.Attempts, p.AvgScore)
	}

	b.WriteString("\n💡 <b>Badges:</b>\n✅ great (80%+) | 🔄 good (60%+) | 📝 needs work")

	return b.String()
}

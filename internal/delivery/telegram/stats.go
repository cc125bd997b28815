package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (h *Handler) handleStatsCommand(ctx context.Context, chatID int64, from *tgbotapi.User) {
	stats, err := h.statsService.UserStats(ctx, from.ID)
	if err != nil {
		h.logger.Error("failed to load user stats",
			zap.Int64("user_id", from.ID),
			zap.Error(err),
		)
		h.send(newHTMLMessage(chatID, msgStatsUnavailable))
		return
	}

	// Best effort; the stats are still useful without the recent list.
	recent, err := h.statsService.RecentSessions(ctx, from.ID, recentSessionsLimit)
	if err != nil {
		h.logger.Warn("failed to load recent sessions",
			zap.Int64("user_id", from.ID),
			zap.Error(err),
		)
	}

	h.send(newHTMLMessage(chatID, buildStatsMessage(from.FirstName, stats, recent)))
}

func (h *Handler) handleProgressCommand(ctx context.Context, chatID, userID int64) {
	progress, err := h.statsService.SubjectProgress(ctx, userID)
	if err != nil {
		h.logger.Error("failed to load subject progress",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		h.send(newHTMLMessage(chatID, msgStatsUnavailable))
		return
	}

	if len(progress) == 0 {
		h.send(newHTMLMessage(chatID, msgNoProgressYet))
		return
	}

	h.send(newHTMLMessage(chatID, buildProgressMessage(progress)))
}

func (h *Handler) handleWeeklyCommand(ctx context.Context, chatID, userID int64) {
	stats, err := h.statsService.WeeklyStats(ctx, userID)
	if err != nil {
		h.logger.Error("failed to load weekly stats",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		h.send(newHTMLMessage(chatID, msgStatsUnavailable))
		return
	}

	h.send(newHTMLMessage(chatID, buildWeeklyMessage(stats)))
}

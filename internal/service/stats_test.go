package service

import (
	"context"
	"testing"

	"github.com/aboalhasanx/masters-quiz-bot/internal/domain/entities"
)

func TestStatsServiceRecentSessions(t *testing.T) {
	sessions := newFakeSessionRepo()
	sessions.recent = []*entities.QuizSession{
		{ID: 2, Subject: "os", Chapter: "pt1", Score: 4, TotalQuestions: 5},
		{ID: 1, Subject: "ai", Chapter: "pt3", Score: 3, TotalQuestions: 5},
	}
	svc := NewStatsService(nil, sessions)

	got, err := svc.RecentSessions(context.Background(), 7, 5)
	if err != nil {
		t.Fatalf("recent sessions: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("sessions = %d, want 2", len(got))
	}
	if got[0].ID != 2 || got[1].ID != 1 {
		t.Errorf("order = [%d %d], want newest first [2 1]", got[0].ID, got[1].ID)
	}
	if sessions.recentLimit != 5 {
		t.Errorf("limit passed to repo = %d, want 5", sessions.recentLimit)
	}
}

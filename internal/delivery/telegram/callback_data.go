package telegram

import "fmt"

// Callback action constants.
const (
	actionSubject = "subject"
	actionQuiz    = "quiz"
	actionMenu    = "menu"
	actionStats   = "stats"
)

// Quiz sub-actions.
const (
	quizStart = "start"
	quizExit  = "exit"
)

// Menu sub-actions.
const (
	menuSubjects = "subjects"
)

func buildSubjectCallback(subjectKey string) string {
	return fmt.Sprintf("%s:%s", actionSubject, subjectKey)
}

func buildQuizStartCallback(subjectKey, chapterKey string) string {
	return fmt.Sprintf("%s:%s:%s:%s", actionQuiz, quizStart, subjectKey, chapterKey)
}

func buildQuizExitCallback() string {
	return fmt.Sprintf("%s:%s", actionQuiz, quizExit)
}

func buildMenuCallback() string {
	return fmt.Sprintf("%s:%s", actionMenu, menuSubjects)
}

func buildStatsCallback() string {
	return actionStats
}

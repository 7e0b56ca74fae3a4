package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cahier-numerique/cahier/internal/api"
	"github.com/cahier-numerique/cahier/internal/nav"
	"github.com/cahier-numerique/cahier/internal/store"
)

// questionCounts are the question counts offered in quiz setup.
var questionCounts = []int{3, 5, 7, 10}

// unanswered marks a question the user has not answered yet.
const unanswered = -1

// quizSession holds the transient state of one setup -> active ->
// results pass. It is discarded when navigation leaves the quiz views.
type quizSession struct {
	subject     string
	title       string
	countIndex  int // index into questionCounts
	generating  bool
	genErr      string
	quiz        *api.Quiz
	answers     []int // one entry per question, unanswered until set
	index       int   // current question
	submitting  bool
	submitErr   string
	confirmQuit bool
	result      *api.QuizResult
}

func newQuizSession(subj, title string) *quizSession {
	return &quizSession{subject: subj, title: title, countIndex: 1}
}

// unansweredCount counts the questions still without an answer.
func unansweredCount(answers []int) int {
	n := 0
	for _, a := range answers {
		if a == unanswered {
			n++
		}
	}
	return n
}

func (m *Model) handleQuizSetupKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	q := m.quiz
	if q == nil {
		return m.back()
	}
	if q.generating {
		// Generation is never cancelled or retried from here; the only
		// way out is esc, which pops back and drops the session.
		return m, nil
	}

	switch key.String() {
	case "left", "h":
		if q.countIndex > 0 {
			q.countIndex--
		}
	case "right", "l":
		if q.countIndex < len(questionCounts)-1 {
			q.countIndex++
		}
	case "enter":
		return m, m.generateQuiz()
	}
	return m, nil
}

func (m *Model) generateQuiz() tea.Cmd {
	q := m.quiz
	if q.generating {
		return nil
	}
	q.generating = true
	q.genErr = ""

	client := m.client
	req := api.QuizRequest{
		Subject:       q.subject,
		Title:         q.title,
		QuestionCount: questionCounts[q.countIndex],
		Level:         m.level,
	}
	return func() tea.Msg {
		quiz, err := client.GenerateQuiz(context.Background(), req)
		return quizGeneratedMsg{subject: req.Subject, title: req.Title, quiz: quiz, err: err}
	}
}

func (m *Model) handleQuizGenerated(msg quizGeneratedMsg) tea.Cmd {
	// Drop results for a session that is gone or has moved on.
	q := m.quiz
	if q == nil || m.view() != nav.ViewQuizSetup || q.subject != msg.subject || q.title != msg.title {
		return nil
	}
	q.generating = false
	if msg.err != nil {
		q.genErr = "La génération du quiz a échoué. Quitte et réessaie."
		return nil
	}

	q.quiz = msg.quiz
	q.answers = make([]int, len(msg.quiz.Questions))
	for i := range q.answers {
		q.answers[i] = unanswered
	}
	q.index = 0
	return m.navigate(nav.ViewQuizActive, nav.Params{})
}

func (m *Model) handleQuizActiveKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	q := m.quiz
	if q == nil || q.quiz == nil {
		// The session was dropped while history still pointed here.
		return m.back()
	}

	if q.confirmQuit {
		switch key.String() {
		case "y", "o":
			// Discard without recording history.
			m.quiz = nil
			return m.back()
		case "n":
			q.confirmQuit = false
		}
		return m, nil
	}

	if q.submitting {
		return m, nil
	}

	last := q.index == len(q.quiz.Questions)-1

	switch key.String() {
	case "1", "2", "3", "4":
		// Answering records the choice without advancing.
		q.answers[q.index] = int(key.String()[0] - '1')
		q.submitErr = ""
	case "left", "h":
		if q.index > 0 {
			q.index--
		}
	case "right", "l":
		if !last {
			q.index++
		}
	case "enter":
		if !last {
			q.index++
			return m, nil
		}
		if n := unansweredCount(q.answers); n > 0 {
			q.submitErr = fmt.Sprintf("Il reste %d question(s) sans réponse.", n)
			return m, nil
		}
		return m, m.submitQuiz()
	case "q":
		q.confirmQuit = true
	}
	return m, nil
}

func (m *Model) submitQuiz() tea.Cmd {
	q := m.quiz
	if q.submitting {
		return nil
	}
	q.submitting = true
	q.submitErr = ""

	client := m.client
	req := api.ValidateRequest{
		QuizID:    q.quiz.ID,
		Questions: q.quiz.Questions,
		Answers:   append([]int(nil), q.answers...),
	}
	return func() tea.Msg {
		result, err := client.ValidateQuiz(context.Background(), req)
		return quizValidatedMsg{quizID: req.QuizID, result: result, err: err}
	}
}

func (m *Model) handleQuizValidated(msg quizValidatedMsg) tea.Cmd {
	q := m.quiz
	if q == nil || q.quiz == nil || q.quiz.ID != msg.quizID || m.view() != nav.ViewQuizActive {
		return nil
	}
	q.submitting = false
	if msg.err != nil {
		q.submitErr = "La validation a échoué. Réessaie."
		return nil
	}

	q.result = msg.result

	// Record the completion before showing results; the store evicts
	// beyond the history cap.
	if _, err := m.db.AppendQuizRecord(store.QuizRecord{
		Subject:         q.subject,
		Title:           q.title,
		Score:           msg.result.Score,
		Total:           msg.result.Total,
		Percentage:      msg.result.Percentage,
		PerformanceTier: msg.result.PerformanceTier,
	}); err != nil {
		m.statusMsg = "historique non enregistré"
	}

	return m.navigate(nav.ViewQuizResults, nav.Params{})
}

func (m *Model) handleQuizResultsKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	q := m.quiz
	if q == nil || q.result == nil {
		return m.back()
	}
	switch key.String() {
	case "r":
		// Retry starts a fresh setup for the same lesson.
		m.quiz = newQuizSession(q.subject, q.title)
		return m, m.navigate(nav.ViewQuizSetup, nav.Params{Subject: q.subject, Lesson: q.title})
	case "b":
		return m, m.navigate(nav.ViewLesson, nav.Params{Subject: q.subject, Lesson: q.title})
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(key)
	return m, cmd
}

func (m *Model) viewQuizSetup() string {
	q := m.quiz
	if q == nil {
		return mutedStyle.Render("Session de quiz terminée. échap pour revenir.")
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("🎯 Quiz : "+q.title) + "\n\n")

	if q.generating {
		b.WriteString(m.spinner.View() + " Génération des questions... (cela peut prendre un moment)\n")
		return b.String()
	}
	if q.genErr != "" {
		b.WriteString(errorStyle.Render(q.genErr) + "\n")
		return b.String()
	}

	b.WriteString("Nombre de questions :\n\n  ")
	for i, n := range questionCounts {
		label := fmt.Sprintf(" %d ", n)
		if i == q.countIndex {
			b.WriteString(selectedStyle.Render("[" + label + "]"))
		} else {
			b.WriteString("  " + label + " ")
		}
	}
	b.WriteString("\n")
	return b.String()
}

func (m *Model) viewQuizActive() string {
	q := m.quiz
	if q == nil || q.quiz == nil || len(q.quiz.Questions) == 0 {
		return mutedStyle.Render("Session de quiz terminée. échap pour revenir.")
	}
	question := q.quiz.Questions[q.index]
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Question %d / %d", q.index+1, len(q.quiz.Questions))) + "\n\n")
	b.WriteString(question.Prompt + "\n\n")

	for i, opt := range question.Options {
		marker := "  "
		if q.answers[q.index] == i {
			marker = "✓ "
		}
		line := fmt.Sprintf("%s[%d] %s", marker, i+1, opt)
		if q.answers[q.index] == i {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}

	if q.submitting {
		b.WriteString("\n" + m.spinner.View() + " Correction en cours...\n")
	}
	if q.submitErr != "" {
		b.WriteString("\n" + errorStyle.Render(q.submitErr) + "\n")
	}
	if q.confirmQuit {
		b.WriteString("\n" + errorStyle.Render("Abandonner le quiz ? (o/n)") + "\n")
	}
	return b.String()
}

func (m *Model) viewQuizResults() string {
	q := m.quiz
	if q == nil || q.result == nil {
		return mutedStyle.Render("Session de quiz terminée. échap pour revenir.")
	}
	r := q.result
	var b strings.Builder

	b.WriteString(titleStyle.Render("🏁 Résultats") + "\n\n")
	b.WriteString(fmt.Sprintf("Score : %d / %d (%.0f%%) — %s\n\n", r.Score, r.Total, r.Percentage, r.PerformanceTier))

	for i, res := range r.Results {
		question := q.quiz.Questions[i]
		mark := "✗"
		style := errorStyle
		if res.IsCorrect {
			mark = "✓"
			style = noticeStyle
		}
		b.WriteString(style.Render(fmt.Sprintf("%s %d. %s", mark, i+1, question.Prompt)) + "\n")
		if !res.IsCorrect && res.CorrectAnswer >= 0 && res.CorrectAnswer < len(question.Options) {
			b.WriteString(mutedStyle.Render("   Bonne réponse : "+question.Options[res.CorrectAnswer]) + "\n")
		}
		if res.Explanation != "" {
			b.WriteString(summaryStyle.Render("   "+res.Explanation) + "\n")
		}
	}
	return b.String()
}

func (m *Model) quizFooter() string {
	switch m.view() {
	case nav.ViewQuizSetup:
		return helpStyle.Render("←/→ nombre de questions · entrée générer · échap retour")
	case nav.ViewQuizActive:
		return helpStyle.Render("1-4 répondre · ←/→ naviguer · entrée suivant/valider · q abandonner")
	default:
		return helpStyle.Render("r réessayer · b retour à la leçon · échap retour")
	}
}

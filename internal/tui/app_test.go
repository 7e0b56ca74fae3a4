package tui

import (
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cahier-numerique/cahier/internal/api"
	"github.com/cahier-numerique/cahier/internal/config"
	"github.com/cahier-numerique/cahier/internal/nav"
	"github.com/cahier-numerique/cahier/internal/store"
)

func newTestModel(t *testing.T, start nav.Entry) *Model {
	t.Helper()
	db, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("opening in-memory store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := config.DefaultConfig()
	client := api.New("http://backend.invalid")
	return New(cfg, client, db, start)
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSendGuardRejectsConcurrentSend(t *testing.T) {
	m := newTestModel(t, nav.Entry{View: nav.ViewChat})

	cmd := m.sendChat("C'est quoi un séisme ?", "")
	if cmd == nil {
		t.Fatal("first send returned no command")
	}
	if !m.sending || len(m.chatHistory) != 1 {
		t.Fatalf("after first send: sending=%v history=%d", m.sending, len(m.chatHistory))
	}

	// A second send while pending is a no-op: no request, no turn.
	if cmd := m.sendChat("autre question", ""); cmd != nil {
		t.Error("second send issued a command while one was pending")
	}
	if len(m.chatHistory) != 1 {
		t.Errorf("history = %d turns, want 1", len(m.chatHistory))
	}
}

func TestSendGuardRejectsEmptyQuestion(t *testing.T) {
	m := newTestModel(t, nav.Entry{View: nav.ViewChat})
	if cmd := m.sendChat("", ""); cmd != nil {
		t.Error("empty question issued a command")
	}
	if len(m.chatHistory) != 0 {
		t.Errorf("history = %d turns, want 0", len(m.chatHistory))
	}
}

func TestChatErrorShowsApologyOutsideHistory(t *testing.T) {
	m := newTestModel(t, nav.Entry{View: nav.ViewChat})

	m.sendChat("question", "")
	m.handleChatResult(chatResultMsg{turnID: m.pendingTurnID, err: errors.New("boom")})

	if m.sending {
		t.Error("still sending after error")
	}
	if m.sendErr != apologyMessage {
		t.Errorf("sendErr = %q, want the apology", m.sendErr)
	}
	// Only the optimistic user turn; the apology is not a turn.
	if len(m.chatHistory) != 1 || m.chatHistory[0].Role != "user" {
		t.Errorf("history = %+v", m.chatHistory)
	}
}

func TestStaleChatResultDropped(t *testing.T) {
	m := newTestModel(t, nav.Entry{View: nav.ViewChat})

	m.sendChat("question", "")
	before := len(m.chatHistory)

	m.handleChatResult(chatResultMsg{turnID: "some-old-turn", resp: &api.ChatResponse{Answer: "late"}})

	if !m.sending {
		t.Error("stale result cleared the sending flag")
	}
	if len(m.chatHistory) != before {
		t.Error("stale result appended a turn")
	}
}

func TestAmbiguousResponseOffersCandidates(t *testing.T) {
	m := newTestModel(t, nav.Entry{View: nav.ViewChat})

	m.sendChat("l'énergie", "")
	m.handleChatResult(chatResultMsg{turnID: m.pendingTurnID, resp: &api.ChatResponse{
		Ambiguous:         true,
		CandidateSubjects: []string{"svt", "physique_chimie"},
	}})

	if len(m.disambiguate) != 2 {
		t.Fatalf("disambiguate = %v", m.disambiguate)
	}
	if len(m.chatHistory) != 1 {
		t.Errorf("ambiguous response appended a bot turn: %+v", m.chatHistory)
	}

	// Picking a candidate re-issues pinned to it without a second user turn.
	_, cmd := m.handleChatKey(keyMsg("2"))
	if cmd == nil {
		t.Fatal("picking a candidate issued no command")
	}
	if !m.sending {
		t.Error("not sending after candidate pick")
	}
	if len(m.chatHistory) != 1 {
		t.Errorf("history = %d turns after re-issue, want 1", len(m.chatHistory))
	}
}

func TestFilterLessonsAccentAndCaseInsensitive(t *testing.T) {
	lessons := []api.Lesson{
		{Title: "Les séismes", Summary: "Origine des tremblements de terre"},
		{Title: "La géométrie du triangle", Summary: "Angles et côtés"},
		{Title: "Le présent de l'indicatif", Summary: "Conjugaison"},
	}

	got := filterLessons(lessons, "SEISME")
	if len(got) != 1 || got[0].Title != "Les séismes" {
		t.Errorf("filter SEISME = %+v", got)
	}

	// Summary matches count too.
	got = filterLessons(lessons, "cotés")
	if len(got) != 1 || got[0].Title != "La géométrie du triangle" {
		t.Errorf("filter cotés = %+v", got)
	}

	// No match: empty result, input untouched.
	got = filterLessons(lessons, "volcan")
	if len(got) != 0 {
		t.Errorf("filter volcan = %+v, want empty", got)
	}
	if len(lessons) != 3 {
		t.Error("input slice was modified")
	}

	// Empty query returns everything.
	if got := filterLessons(lessons, "  "); len(got) != 3 {
		t.Errorf("empty query = %d lessons, want 3", len(got))
	}
}

func TestPaginationWindow(t *testing.T) {
	lessons := make([]api.Lesson, 120)
	for i := range lessons {
		lessons[i] = api.Lesson{Title: fmt.Sprintf("Leçon %d", i)}
	}

	visible, hasMore := visibleLessons(lessons, pageSize)
	if len(visible) != 50 || !hasMore {
		t.Fatalf("first page: len=%d hasMore=%v", len(visible), hasMore)
	}

	visible, hasMore = visibleLessons(lessons, 2*pageSize)
	if len(visible) != 100 || !hasMore {
		t.Fatalf("second page: len=%d hasMore=%v", len(visible), hasMore)
	}

	visible, hasMore = visibleLessons(lessons, 3*pageSize)
	if len(visible) != 120 || hasMore {
		t.Fatalf("third page: len=%d hasMore=%v", len(visible), hasMore)
	}
}

func TestSearchEditResetsPagination(t *testing.T) {
	m := newTestModel(t, nav.Entry{View: nav.ViewLibrary, Params: nav.Params{Subject: "svt"}})
	m.lessonsCache["svt"] = make([]api.Lesson, 120)
	m.visibleCount = 100
	m.searching = true
	m.searchInput.Focus()

	m.handleLibraryKey(keyMsg("x"))

	if m.visibleCount != pageSize {
		t.Errorf("visibleCount = %d after search edit, want %d", m.visibleCount, pageSize)
	}
}

func TestLessonsCacheCommitsEvenAfterNavigation(t *testing.T) {
	m := newTestModel(t, nav.Entry{View: nav.ViewLibrary, Params: nav.Params{Subject: "svt"}})

	// The user navigated away before the fetch resolved.
	m.navigate(nav.ViewChat, nav.Params{})

	m.handleLessonsResult(lessonsMsg{subject: "svt", lessons: []api.Lesson{{Title: "Les séismes", Subject: "svt"}}})

	if len(m.lessonsCache["svt"]) != 1 {
		t.Error("cache did not commit after navigation")
	}
}

func TestLessonsCacheDoesNotCommitOnError(t *testing.T) {
	m := newTestModel(t, nav.Entry{View: nav.ViewLibrary, Params: nav.Params{Subject: "svt"}})

	m.handleLessonsResult(lessonsMsg{subject: "svt", err: errors.New("boom")})

	if _, ok := m.lessonsCache["svt"]; ok {
		t.Error("cache committed on error")
	}
	if m.lessonsErr == "" {
		t.Error("no error surfaced to the view")
	}
}

func TestFetchLessonsUsesCache(t *testing.T) {
	m := newTestModel(t, nav.Entry{View: nav.ViewLibrary, Params: nav.Params{Subject: "svt"}})
	m.lessonsCache["svt"] = []api.Lesson{{Title: "Les séismes"}}

	if cmd := m.fetchLessons("svt"); cmd != nil {
		t.Error("fetch issued despite a populated cache")
	}
}

func TestQuizSubmitRejectedWithUnanswered(t *testing.T) {
	m := newTestModel(t, nav.Entry{View: nav.ViewChat})
	m.navigate(nav.ViewQuizSetup, nav.Params{Subject: "svt", Lesson: "Les séismes"})

	m.handleQuizGenerated(quizGeneratedMsg{subject: "svt", title: "Les séismes", quiz: &api.Quiz{
		ID: "q1",
		Questions: []api.Question{
			{Prompt: "A", Options: []string{"1", "2", "3", "4"}},
			{Prompt: "B", Options: []string{"1", "2", "3", "4"}},
			{Prompt: "C", Options: []string{"1", "2", "3", "4"}},
		},
	}})

	if m.view() != nav.ViewQuizActive {
		t.Fatalf("view = %v after generation, want quiz-active", m.view())
	}

	q := m.quiz
	q.answers[0] = 2
	q.index = len(q.quiz.Questions) - 1

	// Submit with two unanswered: rejected, no network command.
	_, cmd := m.handleQuizActiveKey(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("partial submit issued a command")
	}
	if q.submitErr == "" {
		t.Error("no unanswered-count message shown")
	}

	// Fill the rest; submit now issues exactly one validation call.
	q.answers[1], q.answers[2] = 0, 1
	_, cmd = m.handleQuizActiveKey(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("complete submit issued no command")
	}
	if !q.submitting {
		t.Error("not in submitting state")
	}
}

func TestUnansweredCount(t *testing.T) {
	if got := unansweredCount([]int{unanswered, 1, unanswered}); got != 2 {
		t.Errorf("unansweredCount = %d, want 2", got)
	}
	if got := unansweredCount([]int{0, 1, 2}); got != 0 {
		t.Errorf("unansweredCount = %d, want 0", got)
	}
}

func TestQuizValidationRecordsHistory(t *testing.T) {
	m := newTestModel(t, nav.Entry{View: nav.ViewChat})
	m.navigate(nav.ViewQuizSetup, nav.Params{Subject: "svt", Lesson: "Les séismes"})
	m.handleQuizGenerated(quizGeneratedMsg{subject: "svt", title: "Les séismes", quiz: &api.Quiz{
		ID:        "q1",
		Questions: []api.Question{{Prompt: "A", Options: []string{"1", "2", "3", "4"}}},
	}})
	m.quiz.answers[0] = 0
	m.quiz.submitting = true

	m.handleQuizValidated(quizValidatedMsg{quizID: "q1", result: &api.QuizResult{
		Score: 1, Total: 1, Percentage: 100, PerformanceTier: "Excellent",
		Results: []api.QuestionResult{{QuestionID: 1, IsCorrect: true}},
	}})

	if m.view() != nav.ViewQuizResults {
		t.Errorf("view = %v, want quiz-results", m.view())
	}
	recs := m.db.QuizHistory()
	if len(recs) != 1 || recs[0].PerformanceTier != "Excellent" {
		t.Errorf("quiz history = %+v", recs)
	}
}

func TestStaleQuizGenerationDropped(t *testing.T) {
	m := newTestModel(t, nav.Entry{View: nav.ViewChat})
	m.navigate(nav.ViewQuizSetup, nav.Params{Subject: "svt", Lesson: "Les volcans"})

	// A generation for a different lesson resolves late.
	m.handleQuizGenerated(quizGeneratedMsg{subject: "svt", title: "Les séismes", quiz: &api.Quiz{ID: "old"}})

	if m.view() != nav.ViewQuizSetup {
		t.Errorf("view = %v, stale generation moved the view", m.view())
	}
	if m.quiz.quiz != nil {
		t.Error("stale quiz installed into the session")
	}
}

func TestNavigationHistoryThroughModel(t *testing.T) {
	m := newTestModel(t, nav.Entry{View: nav.ViewChat})

	m.navigate(nav.ViewLibrary, nav.Params{Subject: "svt"})
	m.navigate(nav.ViewFavorites, nav.Params{})

	if m.router.HistoryLen() != 2 {
		t.Errorf("HistoryLen = %d, want 2", m.router.HistoryLen())
	}

	m.back()
	cur := m.router.Current()
	if cur.View != nav.ViewLibrary || cur.Params.Subject != "svt" {
		t.Errorf("after back: %+v", cur)
	}
}

func TestLeavingQuizViewsDropsSession(t *testing.T) {
	m := newTestModel(t, nav.Entry{View: nav.ViewChat})
	m.navigate(nav.ViewQuizSetup, nav.Params{Subject: "svt", Lesson: "Les séismes"})
	if m.quiz == nil {
		t.Fatal("no session created on setup entry")
	}

	m.navigate(nav.ViewChat, nav.Params{})
	if m.quiz != nil {
		t.Error("session survived navigation away")
	}
}

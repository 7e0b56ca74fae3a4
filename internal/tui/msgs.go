package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cahier-numerique/cahier/internal/api"
)

// Result messages carry the context they were issued for so stale
// responses arriving after a navigation can be dropped. Cache commits
// (lesson lists) are the exception: they apply regardless, since the
// cache outlives any one view.

type chatResultMsg struct {
	turnID string
	resp   *api.ChatResponse
	err    error
}

type lessonsMsg struct {
	subject string
	lessons []api.Lesson
	err     error
}

type lessonDetailMsg struct {
	subject string
	title   string
	detail  *api.LessonDetail
	err     error
}

type quizGeneratedMsg struct {
	subject string
	title   string
	quiz    *api.Quiz
	err     error
}

type quizValidatedMsg struct {
	quizID string
	result *api.QuizResult
	err    error
}

type documentsMsg struct {
	docs []api.Document
	err  error
}

type docDeletedMsg struct {
	filename string
	err      error
}

type uploadedMsg struct {
	result *api.UploadResult
	err    error
}

func (m *Model) fetchLessons(subj string) tea.Cmd {
	if _, ok := m.lessonsCache[subj]; ok {
		// A fetch that resolved while this view was inactive may have
		// left the flag set.
		m.lessonsLoading = false
		return nil
	}
	m.lessonsLoading = true
	m.lessonsErr = ""
	client := m.client
	return func() tea.Msg {
		lessons, err := client.Lessons(context.Background(), subj)
		return lessonsMsg{subject: subj, lessons: lessons, err: err}
	}
}

func (m *Model) fetchLessonDetail(subj, title string) tea.Cmd {
	m.lessonDetail = nil
	m.lessonLoading = true
	m.lessonErr = ""
	client := m.client
	return func() tea.Msg {
		detail, err := client.LessonDetail(context.Background(), subj, title)
		return lessonDetailMsg{subject: subj, title: title, detail: detail, err: err}
	}
}

func (m *Model) fetchDocuments() tea.Cmd {
	m.docsLoading = true
	m.docsErr = ""
	m.docCursor = 0
	m.confirmDoc = ""
	client := m.client
	return func() tea.Msg {
		docs, err := client.MyDocuments(context.Background())
		return documentsMsg{docs: docs, err: err}
	}
}

package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cahier-numerique/cahier/internal/export"
	"github.com/cahier-numerique/cahier/internal/nav"
	"github.com/cahier-numerique/cahier/internal/store"
	"github.com/cahier-numerique/cahier/internal/subject"
)

func (m *Model) handleLessonKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.params()
	switch key.String() {
	case "f":
		if m.lessonDetail != nil {
			m.toggleFavoriteDetail()
		}
		return m, nil
	case "g":
		return m, m.navigate(nav.ViewQuizSetup, nav.Params{Subject: p.Subject, Lesson: p.Lesson})
	case "e":
		return m, m.explainInChat(p.Lesson)
	case "x":
		if m.lessonDetail != nil {
			m.exportLesson()
		}
		return m, nil
	case "r":
		if m.lessonErr != "" {
			return m, m.fetchLessonDetail(p.Subject, p.Lesson)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(key)
	return m, cmd
}

func (m *Model) handleLessonDetailResult(msg lessonDetailMsg) tea.Cmd {
	// Only the lesson this view is still showing may touch the state.
	p := m.params()
	if m.view() != nav.ViewLesson || p.Subject != msg.subject || p.Lesson != msg.title {
		return nil
	}
	m.lessonLoading = false
	if msg.err != nil {
		m.lessonErr = "Impossible de charger la leçon. Appuie sur r pour réessayer, ou échap pour revenir."
		return nil
	}
	m.lessonDetail = msg.detail
	m.viewport.SetContent(m.renderMarkdown(msg.detail.FullContent))
	m.viewport.GotoTop()
	return nil
}

// exportLesson writes the loaded lesson as a standalone HTML page into
// the configured export directory.
func (m *Model) exportLesson() {
	path, err := export.NewGenerator(m.cfg.Export.Dir).Write(m.lessonDetail)
	if err != nil {
		m.statusMsg = "export impossible"
		return
	}
	m.statusMsg = "exporté vers " + path
}

func (m *Model) toggleFavoriteDetail() {
	d := m.lessonDetail
	favs, added, err := m.db.ToggleFavorite(store.Favorite{
		Title:        d.Title,
		Subject:      d.Subject,
		Summary:      d.Summary,
		Level:        d.Level,
		URL:          d.URL,
		SectionCount: d.SectionCount,
	})
	if err != nil {
		m.statusMsg = "favori non enregistré"
		return
	}
	m.favorites = favs
	if added {
		m.statusMsg = "ajouté aux favoris ⭐"
	} else {
		m.statusMsg = "retiré des favoris"
	}
}

func (m *Model) viewLesson() string {
	p := m.params()
	var b strings.Builder

	star := ""
	if m.isFavorite(p.Subject, p.Lesson) {
		star = " ⭐"
	}
	b.WriteString(titleStyle.Render(subject.Icon(p.Subject)+" "+p.Lesson+star) + "\n\n")

	switch {
	case m.lessonLoading:
		b.WriteString(m.spinner.View() + " Chargement de la leçon...\n")
	case m.lessonErr != "":
		b.WriteString(errorStyle.Render(m.lessonErr) + "\n")
	case m.lessonDetail != nil:
		b.WriteString(m.viewport.View())
	}
	return b.String()
}

func (m *Model) lessonFooter() string {
	return helpStyle.Render("↑/↓ défiler · f favori · g quiz · e expliquer · x exporter · échap retour")
}

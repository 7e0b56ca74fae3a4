package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cahier-numerique/cahier/internal/nav"
)

// View rebuilds the whole screen from state: header with the canonical
// URL, the active view's body, then its footer. Nothing from a prior
// view survives a render.
func (m *Model) View() string {
	if !m.ready {
		return "chargement..."
	}

	var b strings.Builder
	b.WriteString(m.viewHeader() + "\n\n")

	switch m.view() {
	case nav.ViewChat:
		b.WriteString(m.viewChat())
	case nav.ViewLibrary:
		b.WriteString(m.viewLibrary())
	case nav.ViewFavorites:
		b.WriteString(m.viewFavorites())
	case nav.ViewMyDocuments:
		b.WriteString(m.viewDocuments())
	case nav.ViewLesson:
		b.WriteString(m.viewLesson())
	case nav.ViewQuizSetup:
		b.WriteString(m.viewQuizSetup())
	case nav.ViewQuizActive:
		b.WriteString(m.viewQuizActive())
	case nav.ViewQuizResults:
		b.WriteString(m.viewQuizResults())
	}

	b.WriteString("\n\n" + m.viewFooter())
	if m.statusMsg != "" {
		b.WriteString("\n" + noticeStyle.Render(m.statusMsg))
	}
	return b.String()
}

// viewHeader shows the four top-level tabs and the canonical fragment
// for the current entry, which doubles as a shareable deep link.
func (m *Model) viewHeader() string {
	tabs := []struct {
		view  nav.View
		label string
	}{
		{nav.ViewChat, "💬 Chat"},
		{nav.ViewLibrary, "📚 Bibliothèque"},
		{nav.ViewFavorites, "⭐ Favoris"},
		{nav.ViewMyDocuments, "📄 Documents"},
	}

	var parts []string
	active := topViewOf(m.view())
	for _, t := range tabs {
		if t.view == active {
			parts = append(parts, activeTab.Render(t.label))
		} else {
			parts = append(parts, tabStyle.Render(t.label))
		}
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	return row + "  " + mutedStyle.Render(m.router.URL())
}

// topViewOf maps nested views onto their owning tab.
func topViewOf(v nav.View) nav.View {
	switch v {
	case nav.ViewLesson, nav.ViewQuizSetup, nav.ViewQuizActive, nav.ViewQuizResults:
		return nav.ViewLibrary
	default:
		return v
	}
}

func (m *Model) viewFooter() string {
	switch m.view() {
	case nav.ViewChat:
		return m.chatFooter()
	case nav.ViewLibrary:
		return m.libraryFooter()
	case nav.ViewFavorites:
		return m.favoritesFooter()
	case nav.ViewMyDocuments:
		return m.documentsFooter()
	case nav.ViewLesson:
		return m.lessonFooter()
	default:
		return m.quizFooter()
	}
}

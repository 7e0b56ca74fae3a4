package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cahier-numerique/cahier/internal/api"
	"github.com/cahier-numerique/cahier/internal/nav"
	"github.com/cahier-numerique/cahier/internal/store"
	"github.com/cahier-numerique/cahier/internal/subject"
)

// pageSize is how many lesson cards each "load more" reveals.
const pageSize = 50

// filterLessons returns the lessons whose title or summary contains
// the query, case- and accent-insensitively. An empty query returns
// the input unchanged. The input slice is never modified.
func filterLessons(lessons []api.Lesson, query string) []api.Lesson {
	q := subject.Fold(strings.TrimSpace(query))
	if q == "" {
		return lessons
	}
	var out []api.Lesson
	for _, l := range lessons {
		if strings.Contains(subject.Fold(l.Title), q) || strings.Contains(subject.Fold(l.Summary), q) {
			out = append(out, l)
		}
	}
	return out
}

// visibleLessons applies the pagination window to a filtered list and
// reports whether more remain beyond it.
func visibleLessons(filtered []api.Lesson, count int) ([]api.Lesson, bool) {
	if count >= len(filtered) {
		return filtered, false
	}
	return filtered[:count], true
}

func (m *Model) handleLibraryKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	subj := m.params().Subject

	// Subject grid.
	if subj == "" {
		all := subject.All()
		switch key.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(all)-1 {
				m.cursor++
			}
		case "enter":
			return m, m.navigate(nav.ViewLibrary, nav.Params{Subject: all[m.cursor].ID})
		}
		return m, nil
	}

	// Search input owns the keys while focused; edits reset pagination.
	if m.searching {
		switch key.Type {
		case tea.KeyEnter:
			m.searching = false
			m.searchInput.Blur()
			return m, nil
		}
		before := m.searchInput.Value()
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(key)
		if m.searchInput.Value() != before {
			m.visibleCount = pageSize
			m.cursor = 0
		}
		return m, cmd
	}

	filtered := filterLessons(m.lessonsCache[subj], m.searchInput.Value())
	visible, hasMore := visibleLessons(filtered, m.visibleCount)

	switch key.String() {
	case "/":
		m.searching = true
		m.searchInput.Focus()
		return m, nil
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	case "m":
		if hasMore {
			m.visibleCount += pageSize
		}
	case "enter":
		if m.cursor < len(visible) {
			l := visible[m.cursor]
			return m, m.navigate(nav.ViewLesson, nav.Params{Subject: l.Subject, Lesson: l.Title})
		}
	case "f":
		if m.cursor < len(visible) {
			m.toggleFavoriteLesson(visible[m.cursor])
		}
	case "e":
		if m.cursor < len(visible) {
			return m, m.explainInChat(visible[m.cursor].Title)
		}
	case "g":
		if m.cursor < len(visible) {
			l := visible[m.cursor]
			return m, m.navigate(nav.ViewQuizSetup, nav.Params{Subject: l.Subject, Lesson: l.Title})
		}
	case "r":
		// Manual retry after a failed fetch; a success would have
		// committed the cache and made this a no-op.
		if m.lessonsErr != "" {
			m.lessonsErr = ""
			delete(m.lessonsCache, subj)
			return m, m.fetchLessons(subj)
		}
	}
	return m, nil
}

func (m *Model) handleLessonsResult(msg lessonsMsg) tea.Cmd {
	if msg.err == nil {
		// The cache commits on success regardless of the active view
		// and is never invalidated afterwards.
		m.lessonsCache[msg.subject] = msg.lessons
	}

	// UI state only changes if this subject's library is still showing.
	if m.view() != nav.ViewLibrary || m.params().Subject != msg.subject {
		return nil
	}
	m.lessonsLoading = false
	if msg.err != nil {
		m.lessonsErr = "Impossible de charger les leçons. Appuie sur r pour réessayer."
	}
	return nil
}

// toggleFavoriteLesson flips the bookmark for one lesson and refreshes
// the in-memory favorites projection.
func (m *Model) toggleFavoriteLesson(l api.Lesson) {
	favs, added, err := m.db.ToggleFavorite(store.Favorite{
		Title:        l.Title,
		Subject:      l.Subject,
		Summary:      l.Summary,
		Level:        l.Level,
		SectionCount: l.SectionCount,
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

func (m *Model) viewLibrary() string {
	subj := m.params().Subject
	if subj == "" {
		return m.viewSubjectGrid()
	}

	var b strings.Builder
	s, _ := subject.Get(subj)
	b.WriteString(titleStyle.Render(s.Icon+" "+s.Name) + "\n\n")

	if m.lessonsLoading {
		b.WriteString(m.spinner.View() + " Chargement des leçons...\n")
		return b.String()
	}
	if m.lessonsErr != "" {
		b.WriteString(errorStyle.Render(m.lessonsErr) + "\n")
		return b.String()
	}

	lessons := m.lessonsCache[subj]
	filtered := filterLessons(lessons, m.searchInput.Value())
	visible, hasMore := visibleLessons(filtered, m.visibleCount)

	if m.searching || m.searchInput.Value() != "" {
		b.WriteString(m.searchInput.View() + "\n\n")
	}

	if len(filtered) == 0 {
		if m.searchInput.Value() != "" {
			b.WriteString(mutedStyle.Render("Aucune leçon ne correspond à ta recherche.") + "\n")
		} else {
			b.WriteString(mutedStyle.Render("Aucune leçon disponible pour cette matière.") + "\n")
		}
		return b.String()
	}

	for i, l := range visible {
		b.WriteString(m.renderLessonCard(l, i == m.cursor))
	}

	if hasMore {
		b.WriteString("\n" + mutedStyle.Render(fmt.Sprintf("%d / %d leçons · m pour en voir plus", len(visible), len(filtered))))
	}
	return b.String()
}

func (m *Model) viewSubjectGrid() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("📚 Bibliothèque") + "\n\n")
	for i, s := range subject.All() {
		line := fmt.Sprintf("%s %s", s.Icon, s.Name)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("› "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	return b.String()
}

func (m *Model) renderLessonCard(l api.Lesson, selected bool) string {
	star := " "
	if m.isFavorite(l.Subject, l.Title) {
		star = "⭐"
	}
	line := fmt.Sprintf("%s %s  %s", star, l.Title, mutedStyle.Render(l.Level))
	if selected {
		line = selectedStyle.Render("› " + line)
		if l.Summary != "" {
			line += "\n" + summaryStyle.Render(l.Summary)
		}
	} else {
		line = "  " + line
	}
	return line + "\n"
}

func (m *Model) libraryFooter() string {
	if m.params().Subject == "" {
		return helpStyle.Render("↑/↓ choisir · entrée ouvrir · tab changer de vue · échap retour")
	}
	return helpStyle.Render("entrée ouvrir · f favori · e expliquer · g quiz · / rechercher · m plus · échap retour")
}

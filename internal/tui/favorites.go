package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cahier-numerique/cahier/internal/nav"
	"github.com/cahier-numerique/cahier/internal/store"
	"github.com/cahier-numerique/cahier/internal/subject"
)

// isFavorite checks the in-memory projection, which mirrors the store.
func (m *Model) isFavorite(subj, title string) bool {
	for _, f := range m.favorites {
		if f.Subject == subj && f.Title == title {
			return true
		}
	}
	return false
}

func (m *Model) handleFavoritesKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.favorites)-1 {
			m.cursor++
		}
	case "enter":
		if m.cursor < len(m.favorites) {
			f := m.favorites[m.cursor]
			return m, m.navigate(nav.ViewLesson, nav.Params{Subject: f.Subject, Lesson: f.Title})
		}
	case "f":
		if m.cursor < len(m.favorites) {
			f := m.favorites[m.cursor]
			favs, _, err := m.db.ToggleFavorite(store.Favorite{Subject: f.Subject, Title: f.Title})
			if err != nil {
				m.statusMsg = "favori non enregistré"
				return m, nil
			}
			m.favorites = favs
			if m.cursor >= len(m.favorites) && m.cursor > 0 {
				m.cursor--
			}
		}
	case "g":
		if m.cursor < len(m.favorites) {
			f := m.favorites[m.cursor]
			return m, m.navigate(nav.ViewQuizSetup, nav.Params{Subject: f.Subject, Lesson: f.Title})
		}
	case "b":
		return m, m.navigate(nav.ViewLibrary, nav.Params{})
	}
	return m, nil
}

func (m *Model) viewFavorites() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("⭐ Mes favoris") + "\n\n")

	if len(m.favorites) == 0 {
		b.WriteString(mutedStyle.Render("Aucun favori pour l'instant.") + "\n")
		b.WriteString(mutedStyle.Render("Appuie sur b pour explorer la bibliothèque.") + "\n")
		return b.String()
	}

	// The store keeps the list newest-first.
	for i, f := range m.favorites {
		line := fmt.Sprintf("%s %s  %s", subject.Icon(f.Subject), f.Title, mutedStyle.Render(subject.DisplayName(f.Subject)))
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("› "+line) + "\n")
			if f.Summary != "" {
				b.WriteString(summaryStyle.Render(f.Summary) + "\n")
			}
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	return b.String()
}

func (m *Model) favoritesFooter() string {
	return helpStyle.Render("entrée ouvrir · f retirer · g quiz · b bibliothèque · échap retour")
}

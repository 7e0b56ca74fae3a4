package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cahier-numerique/cahier/internal/api"
	"github.com/cahier-numerique/cahier/internal/config"
	"github.com/cahier-numerique/cahier/internal/nav"
	"github.com/cahier-numerique/cahier/internal/store"
)

// Run mounts the application and blocks until the user quits.
// fragment is an optional deep link ("#library/svt").
func Run(cfg *config.Config, client *api.Client, db *store.DB, fragment string) error {
	m := New(cfg, client, db, nav.ParseFragment(fragment))
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

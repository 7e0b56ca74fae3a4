package tui

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

var (
	mdOnce     sync.Once
	mdRenderer *glamour.TermRenderer
)

// renderMarkdown renders lesson and answer markdown for the terminal.
// Falls back to the raw text if the renderer cannot be built.
func (m *Model) renderMarkdown(text string) string {
	mdOnce.Do(func() {
		opts := []glamour.TermRendererOption{glamour.WithWordWrap(m.contentWidth())}
		switch m.cfg.UI.GlamourStyle {
		case "", "auto":
			opts = append(opts, glamour.WithAutoStyle())
		default:
			opts = append(opts, glamour.WithStandardStyle(m.cfg.UI.GlamourStyle))
		}
		r, err := glamour.NewTermRenderer(opts...)
		if err == nil {
			mdRenderer = r
		}
	})
	if mdRenderer == nil {
		return text
	}
	out, err := mdRenderer.Render(text)
	if err != nil {
		return text
	}
	return out
}

func (m *Model) contentWidth() int {
	if m.width > 8 {
		return m.width - 6
	}
	return 80
}

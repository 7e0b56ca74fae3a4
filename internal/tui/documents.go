package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cahier-numerique/cahier/internal/nav"
)

func (m *Model) handleDocumentsKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Delete confirmation takes over the keys entirely.
	if m.confirmDoc != "" {
		switch key.String() {
		case "y", "o":
			filename := m.confirmDoc
			m.confirmDoc = ""
			return m, m.deleteDocument(filename)
		case "n":
			m.confirmDoc = ""
		}
		return m, nil
	}

	// Upload path entry.
	if m.uploadMode {
		if key.Type == tea.KeyEnter {
			path := strings.TrimSpace(m.uploadInput.Value())
			m.uploadMode = false
			m.uploadInput.Blur()
			m.uploadInput.SetValue("")
			if path == "" {
				return m, nil
			}
			return m, m.uploadDocument(path)
		}
		var cmd tea.Cmd
		m.uploadInput, cmd = m.uploadInput.Update(key)
		return m, cmd
	}

	switch key.String() {
	case "up", "k":
		if m.docCursor > 0 {
			m.docCursor--
		}
	case "down", "j":
		if m.docCursor < len(m.documents)-1 {
			m.docCursor++
		}
	case "u":
		if !m.uploadingDoc {
			m.uploadMode = true
			m.uploadInput.Focus()
		}
	case "d":
		if m.docCursor < len(m.documents) {
			m.confirmDoc = m.documents[m.docCursor].Filename
		}
	case "r":
		return m, m.fetchDocuments()
	}
	return m, nil
}

func (m *Model) uploadDocument(path string) tea.Cmd {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		m.uploadNotice = "Seuls les fichiers .pdf sont acceptés."
		return nil
	}
	m.uploadingDoc = true
	m.uploadNotice = ""
	client := m.client
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return uploadedMsg{err: err}
		}
		defer f.Close()
		res, err := client.UploadPDF(context.Background(), path, f)
		return uploadedMsg{result: res, err: err}
	}
}

func (m *Model) deleteDocument(filename string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		err := client.DeleteDocument(context.Background(), filename)
		return docDeletedMsg{filename: filename, err: err}
	}
}

func (m *Model) handleDocumentsResult(msg documentsMsg) tea.Cmd {
	if m.view() != nav.ViewMyDocuments {
		return nil
	}
	m.docsLoading = false
	if msg.err != nil {
		m.docsErr = "Impossible de charger tes documents. Appuie sur r pour réessayer."
		return nil
	}
	m.documents = msg.docs
	if m.docCursor >= len(m.documents) {
		m.docCursor = 0
	}
	return nil
}

func (m *Model) handleDocDeleted(msg docDeletedMsg) tea.Cmd {
	if m.view() != nav.ViewMyDocuments {
		return nil
	}
	if msg.err != nil {
		m.docsErr = "Suppression impossible."
		return nil
	}
	m.statusMsg = msg.filename + " supprimé"
	return m.fetchDocuments()
}

func (m *Model) handleUploaded(msg uploadedMsg) tea.Cmd {
	m.uploadingDoc = false
	if m.view() != nav.ViewMyDocuments {
		return nil
	}
	if msg.err != nil {
		m.uploadNotice = "Échec de l'envoi du document."
		return nil
	}
	m.uploadNotice = fmt.Sprintf("%s analysé : %d pages, %d extraits.",
		msg.result.Filename, msg.result.PageCount, msg.result.ChunkCount)
	return m.fetchDocuments()
}

func (m *Model) viewDocuments() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("📄 Mes documents") + "\n\n")

	if m.uploadMode {
		b.WriteString("Chemin du PDF à envoyer :\n" + m.uploadInput.View() + "\n\n")
	}
	if m.uploadingDoc {
		b.WriteString(m.spinner.View() + " Analyse du document en cours...\n\n")
	}
	if m.uploadNotice != "" {
		b.WriteString(noticeStyle.Render(m.uploadNotice) + "\n\n")
	}

	if m.docsLoading {
		b.WriteString(m.spinner.View() + " Chargement...\n")
		return b.String()
	}
	if m.docsErr != "" {
		b.WriteString(errorStyle.Render(m.docsErr) + "\n")
		return b.String()
	}

	if len(m.documents) == 0 {
		b.WriteString(mutedStyle.Render("Aucun document. Appuie sur u pour envoyer un PDF de tes cours.") + "\n")
		return b.String()
	}

	for i, d := range m.documents {
		line := fmt.Sprintf("%s  %s", d.Filename, mutedStyle.Render(formatSize(d.Size)))
		if i == m.docCursor {
			b.WriteString(selectedStyle.Render("› "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}

	if m.confirmDoc != "" {
		b.WriteString("\n" + errorStyle.Render("Supprimer "+m.confirmDoc+" ? (o/n)") + "\n")
	}
	return b.String()
}

func (m *Model) documentsFooter() string {
	return helpStyle.Render("u envoyer un pdf · d supprimer · r actualiser · échap retour")
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f Mo", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f Ko", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d o", n)
	}
}

package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/cahier-numerique/cahier/internal/api"
	"github.com/cahier-numerique/cahier/internal/nav"
	"github.com/cahier-numerique/cahier/internal/subject"
)

// apologyMessage is shown when a send fails. It is rendered in place
// of an answer but never appended to the chat history.
const apologyMessage = "Désolé, une erreur s'est produite. 😕 Vérifie que le serveur est bien lancé et réessaie !"

// ChatTurn is one entry in the session transcript.
type ChatTurn struct {
	Role     string // "user" or "bot"
	Text     string
	Sources  []api.Source
	Detected string // detected subject, bot turns only
	Subject  string // subject the question was pinned to, if any
}

// sourceScopes cycles with ctrl+s. "both" queries lessons and personal
// documents together.
var sourceScopes = []string{"both", "lessons", "documents"}

func (m *Model) handleChatKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	// A pending disambiguation takes the digit keys before the input.
	if len(m.disambiguate) > 0 {
		if n := digit(key); n >= 1 && n <= len(m.disambiguate) {
			picked := m.disambiguate[n-1]
			m.disambiguate = nil
			// Re-issue the same question pinned to the picked subject,
			// without appending a second user turn.
			return m, m.issueChat(m.lastQuestion(), picked)
		}
	}

	switch key.Type {
	case tea.KeyEnter:
		question := strings.TrimSpace(m.chatInput.Value())
		// Empty input and in-flight sends are both rejected.
		if question == "" || m.sending {
			return m, nil
		}
		m.chatInput.SetValue("")
		return m, m.sendChat(question, "")
	case tea.KeyCtrlS:
		m.sourceScope = nextScope(m.sourceScope)
		m.savePreferences()
		return m, nil
	case tea.KeyCtrlN:
		m.level = nextLevel(m.level)
		m.savePreferences()
		return m, nil
	}

	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(key)
	return m, cmd
}

// sendChat appends the user turn optimistically and issues one request.
// pinned, when set, skips subject detection on the backend.
func (m *Model) sendChat(question, pinned string) tea.Cmd {
	if question == "" || m.sending {
		return nil
	}
	m.chatHistory = append(m.chatHistory, ChatTurn{Role: "user", Text: question, Subject: pinned})
	return m.issueChat(question, pinned)
}

// issueChat enters the sending state and fires one backend call.
func (m *Model) issueChat(question, pinned string) tea.Cmd {
	if question == "" || m.sending {
		return nil
	}
	m.sending = true
	m.sendErr = ""
	m.disambiguate = nil
	m.pendingTurnID = uuid.NewString()

	client := m.client
	req := api.ChatRequest{
		Question: question,
		Level:    m.level,
		Subject:  pinned,
		Source:   m.sourceScope,
	}
	turnID := m.pendingTurnID
	return func() tea.Msg {
		resp, err := client.Chat(context.Background(), req)
		return chatResultMsg{turnID: turnID, resp: resp, err: err}
	}
}

func (m *Model) handleChatResult(msg chatResultMsg) tea.Cmd {
	// Stale guard: a result for a superseded send is dropped outright.
	if msg.turnID != m.pendingTurnID {
		return nil
	}
	m.sending = false
	m.pendingTurnID = ""

	if msg.err != nil {
		m.sendErr = apologyMessage
		return nil
	}

	if msg.resp.Ambiguous && len(msg.resp.CandidateSubjects) >= 2 {
		m.disambiguate = msg.resp.CandidateSubjects
		return nil
	}

	m.chatHistory = append(m.chatHistory, ChatTurn{
		Role:     "bot",
		Text:     msg.resp.Answer,
		Sources:  msg.resp.Sources,
		Detected: msg.resp.DetectedSubject,
	})
	return nil
}

// lastQuestion returns the text of the most recent user turn.
func (m *Model) lastQuestion() string {
	for i := len(m.chatHistory) - 1; i >= 0; i-- {
		if m.chatHistory[i].Role == "user" {
			return m.chatHistory[i].Text
		}
	}
	return ""
}

// explainInChat jumps to the chat view with a pre-filled question.
func (m *Model) explainInChat(title string) tea.Cmd {
	m.chatInput.SetValue("Explique-moi la leçon \"" + title + "\"")
	return m.navigate(nav.ViewChat, nav.Params{})
}

func (m *Model) viewChat() string {
	var b strings.Builder

	if len(m.chatHistory) == 0 && !m.sending {
		b.WriteString(mutedStyle.Render("Pose une question sur n'importe quelle matière, je trouve la leçon qui y répond."))
		b.WriteString("\n")
	}

	for _, turn := range m.chatHistory {
		if turn.Role == "user" {
			b.WriteString(userTurnStyle.Render("Toi : " + turn.Text))
		} else {
			b.WriteString(botTurnStyle.Render(m.renderMarkdown(turn.Text)))
			if turn.Detected != "" {
				b.WriteString("\n" + mutedStyle.Render(subject.Icon(turn.Detected)+" "+subject.DisplayName(turn.Detected)))
			}
			for _, src := range turn.Sources {
				b.WriteString("\n" + sourceStyle.Render("  • "+src.Title))
			}
		}
		b.WriteString("\n\n")
	}

	if m.sending {
		b.WriteString(m.spinner.View() + " Je réfléchis...\n")
	}

	if m.sendErr != "" {
		b.WriteString(errorStyle.Render(m.sendErr) + "\n")
	}

	if len(m.disambiguate) > 0 {
		b.WriteString("De quelle matière parles-tu ?\n")
		for i, s := range m.disambiguate {
			b.WriteString(fmt.Sprintf("  [%d] %s %s\n", i+1, subject.Icon(s), subject.DisplayName(s)))
		}
	}

	return b.String()
}

func (m *Model) chatFooter() string {
	scope := "sources : " + scopeLabel(m.sourceScope)
	level := "niveau : " + m.level
	return m.chatInput.View() + "\n" +
		helpStyle.Render("entrée envoyer · ctrl+s "+scope+" · ctrl+n "+level)
}

func scopeLabel(scope string) string {
	switch scope {
	case "lessons":
		return "leçons"
	case "documents":
		return "mes documents"
	default:
		return "les deux"
	}
}

func nextScope(scope string) string {
	for i, s := range sourceScopes {
		if s == scope {
			return sourceScopes[(i+1)%len(sourceScopes)]
		}
	}
	return sourceScopes[0]
}

func nextLevel(level string) string {
	for i, l := range subject.Levels {
		if l == level {
			return subject.Levels[(i+1)%len(subject.Levels)]
		}
	}
	return subject.DefaultLevel
}

func digit(key tea.KeyMsg) int {
	s := key.String()
	if len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		return int(s[0] - '0')
	}
	return 0
}

func (m *Model) savePreferences() {
	prefs := m.db.Preferences()
	prefs.Level = m.level
	prefs.Source = m.sourceScope
	if err := m.db.SavePreferences(prefs); err != nil {
		m.statusMsg = "préférences non enregistrées"
	}
}

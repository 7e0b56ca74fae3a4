// Package tui is the terminal application: one model owning the whole
// application state, re-rendering the visible view from state on every
// update.
package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cahier-numerique/cahier/internal/api"
	"github.com/cahier-numerique/cahier/internal/config"
	"github.com/cahier-numerique/cahier/internal/nav"
	"github.com/cahier-numerique/cahier/internal/store"
)

// Model is the bubbletea model for the whole application.
type Model struct {
	cfg    *config.Config
	client *api.Client
	db     *store.DB
	router *nav.Router

	width  int
	height int

	spinner  spinner.Model
	viewport viewport.Model
	ready    bool

	// Chat state. History is append-only and session-scoped; a failed
	// send surfaces through sendErr, never as a history turn.
	chatInput     textinput.Model
	chatHistory   []ChatTurn
	sending       bool
	pendingTurnID string
	sendErr       string
	disambiguate  []string
	level         string
	sourceScope   string

	// Library state. lessonsCache commits on success only and is never
	// invalidated within a session.
	lessonsCache   map[string][]api.Lesson
	lessonsLoading bool
	lessonsErr     string
	searchInput    textinput.Model
	searching      bool
	visibleCount   int
	cursor         int

	// Lesson detail state.
	lessonDetail  *api.LessonDetail
	lessonLoading bool
	lessonErr     string

	// Favorites, kept in sync with the store on every toggle.
	favorites []store.Favorite

	// My-documents state, fetched fresh on every view entry.
	documents    []api.Document
	docsLoading  bool
	docsErr      string
	docCursor    int
	confirmDoc   string // filename pending delete confirmation
	uploadingDoc bool
	uploadInput  textinput.Model
	uploadMode   bool
	uploadNotice string

	// Quiz session state, discarded on navigation away.
	quiz *quizSession

	statusMsg string
}

// New builds the application model positioned at the given start entry.
func New(cfg *config.Config, client *api.Client, db *store.DB, start nav.Entry) *Model {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = spinnerStyle

	chatInput := textinput.New()
	chatInput.Placeholder = "Pose ta question..."
	chatInput.CharLimit = 500
	chatInput.Focus()

	searchInput := textinput.New()
	searchInput.Placeholder = "Rechercher une leçon..."
	searchInput.CharLimit = 100

	uploadInput := textinput.New()
	uploadInput.Placeholder = "/chemin/vers/cours.pdf"
	uploadInput.CharLimit = 300

	prefs := db.Preferences()
	level := prefs.Level
	if level == "" {
		level = cfg.Backend.Level
	}
	sourceScope := prefs.Source
	if sourceScope == "" {
		sourceScope = "both"
	}

	m := &Model{
		cfg:          cfg,
		client:       client,
		db:           db,
		router:       nav.New(start),
		spinner:      spin,
		chatInput:    chatInput,
		searchInput:  searchInput,
		uploadInput:  uploadInput,
		level:        level,
		sourceScope:  sourceScope,
		lessonsCache: map[string][]api.Lesson{},
		favorites:    db.Favorites(),
		visibleCount: pageSize,
	}
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.enterView(m.router.Current()))
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, msg.Height-8)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = msg.Height - 8
		}
		m.chatInput.Width = msg.Width - 10
		m.searchInput.Width = msg.Width - 20
		return m, nil

	case spinner.TickMsg:
		if m.sending || m.lessonsLoading || m.lessonLoading || m.docsLoading ||
			m.uploadingDoc || (m.quiz != nil && (m.quiz.generating || m.quiz.submitting)) {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case chatResultMsg:
		return m, m.handleChatResult(msg)
	case lessonsMsg:
		return m, m.handleLessonsResult(msg)
	case lessonDetailMsg:
		return m, m.handleLessonDetailResult(msg)
	case quizGeneratedMsg:
		return m, m.handleQuizGenerated(msg)
	case quizValidatedMsg:
		return m, m.handleQuizValidated(msg)
	case documentsMsg:
		return m, m.handleDocumentsResult(msg)
	case docDeletedMsg:
		return m, m.handleDocDeleted(msg)
	case uploadedMsg:
		return m, m.handleUploaded(msg)
	}
	return m, nil
}

func (m *Model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyTab:
		// Cycle through the four top-level views.
		return m, m.navigate(nextTopView(m.view()), nav.Params{})
	case tea.KeyEsc:
		return m.handleEsc()
	}

	switch m.view() {
	case nav.ViewChat:
		return m.handleChatKey(key)
	case nav.ViewLibrary:
		return m.handleLibraryKey(key)
	case nav.ViewFavorites:
		return m.handleFavoritesKey(key)
	case nav.ViewMyDocuments:
		return m.handleDocumentsKey(key)
	case nav.ViewLesson:
		return m.handleLessonKey(key)
	case nav.ViewQuizSetup:
		return m.handleQuizSetupKey(key)
	case nav.ViewQuizActive:
		return m.handleQuizActiveKey(key)
	case nav.ViewQuizResults:
		return m.handleQuizResultsKey(key)
	}
	return m, nil
}

// handleEsc backs out of transient input modes first, then pops history.
func (m *Model) handleEsc() (tea.Model, tea.Cmd) {
	switch {
	case m.searching:
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	case m.uploadMode:
		m.uploadMode = false
		m.uploadInput.Blur()
		return m, nil
	case m.confirmDoc != "":
		m.confirmDoc = ""
		return m, nil
	case m.view() == nav.ViewQuizActive && m.quiz != nil && m.quiz.quiz != nil:
		// Quitting a running quiz needs confirmation.
		m.quiz.confirmQuit = true
		return m, nil
	case len(m.disambiguate) > 0:
		m.disambiguate = nil
		return m, nil
	}
	return m.back()
}

func (m *Model) view() nav.View {
	return m.router.Current().View
}

func (m *Model) params() nav.Params {
	return m.router.Current().Params
}

// navigate pushes a history entry and runs the entered view's fetch
// hook. All view changes funnel through here or back().
func (m *Model) navigate(view nav.View, p nav.Params) tea.Cmd {
	entry := m.router.NavigateTo(view, p)
	return m.enterView(entry)
}

func (m *Model) back() (tea.Model, tea.Cmd) {
	entry, ok := m.router.Back()
	if !ok {
		return m, nil
	}
	return m, m.enterView(entry)
}

// enterView resets view-scoped transient state and starts whatever
// fetch the entered view needs. The quiz session survives only across
// the three quiz views.
func (m *Model) enterView(entry nav.Entry) tea.Cmd {
	m.statusMsg = ""
	m.searching = false
	m.searchInput.Blur()
	m.cursor = 0

	if !isQuizView(entry.View) {
		m.quiz = nil
	}

	switch entry.View {
	case nav.ViewChat:
		m.chatInput.Focus()
		return textinput.Blink
	case nav.ViewLibrary:
		m.searchInput.SetValue("")
		m.visibleCount = pageSize
		if entry.Params.Subject != "" {
			return m.fetchLessons(entry.Params.Subject)
		}
	case nav.ViewLesson:
		return m.fetchLessonDetail(entry.Params.Subject, entry.Params.Lesson)
	case nav.ViewMyDocuments:
		// Always refetched, never cached.
		return m.fetchDocuments()
	case nav.ViewQuizSetup:
		if m.quiz == nil {
			m.quiz = newQuizSession(entry.Params.Subject, entry.Params.Lesson)
		}
	}
	return nil
}

func isQuizView(v nav.View) bool {
	return v == nav.ViewQuizSetup || v == nav.ViewQuizActive || v == nav.ViewQuizResults
}

// nextTopView cycles chat -> library -> favorites -> my-documents.
func nextTopView(v nav.View) nav.View {
	switch v {
	case nav.ViewChat:
		return nav.ViewLibrary
	case nav.ViewLibrary:
		return nav.ViewFavorites
	case nav.ViewFavorites:
		return nav.ViewMyDocuments
	default:
		return nav.ViewChat
	}
}

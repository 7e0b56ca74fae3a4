package api

// Wire types for the tutoring backend. Field names follow the
// backend's French snake_case JSON conventions.

// ChatRequest is the body for POST /api/chat/auto.
type ChatRequest struct {
	Question string `json:"question"`
	Level    string `json:"niveau,omitempty"`
	Subject  string `json:"matiere,omitempty"` // pins the answer to one subject
	Source   string `json:"source,omitempty"`  // "lessons", "documents" or "both"
}

// Source is one cited document in a chat answer.
type Source struct {
	Title   string `json:"titre"`
	URL     string `json:"url,omitempty"`
	Subject string `json:"matiere,omitempty"`
}

// ChatResponse is the answer to a chat question. When the backend
// cannot settle on a single subject it sets Ambiguous and lists the
// candidate subjects instead of answering.
type ChatResponse struct {
	Answer            string   `json:"answer"`
	Sources           []Source `json:"sources"`
	SourceCount       int      `json:"nb_sources"`
	DetectedLevel     string   `json:"detected_level,omitempty"`
	DetectedSubject   string   `json:"detected_subject,omitempty"`
	Ambiguous         bool     `json:"ambiguous,omitempty"`
	CandidateSubjects []string `json:"candidate_subjects,omitempty"`
}

// Lesson is one lesson summary from GET /api/lessons/{subject}.
// Identity is (Subject, Title).
type Lesson struct {
	Title        string `json:"titre"`
	Subject      string `json:"matiere"`
	Level        string `json:"niveau"`
	Summary      string `json:"resume"`
	SectionCount int    `json:"nb_sections"`
}

type lessonListResponse struct {
	Lessons []Lesson `json:"lessons"`
}

// LessonDetail is the full lesson from GET /api/lessons/{subject}/detail.
type LessonDetail struct {
	Lesson
	FullContent string `json:"contenu_complet"`
	Source      string `json:"source,omitempty"`
	URL         string `json:"url,omitempty"`
}

// QuizRequest is the body for POST /api/quiz/generate.
type QuizRequest struct {
	Subject       string `json:"matiere"`
	Title         string `json:"titre"`
	QuestionCount int    `json:"nb_questions"`
	Level         string `json:"niveau"`
}

// Question is one multiple-choice question with exactly four options.
// CorrectIndex is the 0-based index of the right option.
type Question struct {
	ID           int      `json:"id"`
	Prompt       string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_answer"`
	Explanation  string   `json:"explanation"`
}

// Quiz is a generated quiz tied to one lesson. Transient: held in
// memory for the duration of a quiz session, never persisted whole.
type Quiz struct {
	ID            string     `json:"quiz_id"`
	Title         string     `json:"titre"`
	Subject       string     `json:"matiere"`
	Level         string     `json:"niveau"`
	QuestionCount int        `json:"nb_questions"`
	Questions     []Question `json:"questions"`
	CreatedAt     string     `json:"created_at"`
}

// ValidateRequest is the body for POST /api/quiz/validate. Answers
// holds one chosen option index per question, in question order.
type ValidateRequest struct {
	QuizID    string     `json:"quiz_id"`
	Questions []Question `json:"questions"`
	Answers   []int      `json:"answers"`
}

// QuestionResult is the per-question breakdown in a validation result.
type QuestionResult struct {
	QuestionID    int    `json:"question_id"`
	UserAnswer    int    `json:"user_answer"`
	CorrectAnswer int    `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
	Explanation   string `json:"explanation"`
}

// QuizResult is the scored outcome of a submitted quiz.
// PerformanceTier is one of "Excellent", "Bien", "Moyen", "À revoir".
type QuizResult struct {
	Score           int              `json:"score"`
	Total           int              `json:"total"`
	Percentage      float64          `json:"percentage"`
	PerformanceTier string           `json:"performance_level"`
	Results         []QuestionResult `json:"results"`
}

// UploadResult is the backend's answer to a PDF upload.
type UploadResult struct {
	Message    string `json:"message"`
	Filename   string `json:"filename"`
	PageCount  int    `json:"nb_pages"`
	ChunkCount int    `json:"nb_chunks"`
}

// Document is one previously uploaded personal document.
type Document struct {
	Filename   string `json:"filename"`
	Size       int64  `json:"size"`
	UploadedAt string `json:"uploaded_at"`
}

type documentListResponse struct {
	Documents []Document `json:"documents"`
}

// Health is the GET /health response.
type Health struct {
	Status      string `json:"status"`
	LessonCount int    `json:"nb_lessons,omitempty"`
}

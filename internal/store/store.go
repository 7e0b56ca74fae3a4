package store

import (
	"encoding/json"
	"log"
	"time"
)

const (
	entryFavorites   = "favorites"
	entryQuizHistory = "quiz_history"
	entryPreferences = "preferences"
)

// maxQuizHistory bounds the quiz history; the oldest completions are
// evicted first once the cap is reached.
const maxQuizHistory = 50

// Favorite is one bookmarked lesson. Uniqueness is per (Subject, Title).
type Favorite struct {
	Title        string    `json:"title"`
	Subject      string    `json:"subject"`
	Summary      string    `json:"summary,omitempty"`
	Level        string    `json:"level,omitempty"`
	URL          string    `json:"url,omitempty"`
	SectionCount int       `json:"section_count,omitempty"`
	AddedAt      time.Time `json:"added_at"`
}

// QuizRecord summarizes one completed quiz.
type QuizRecord struct {
	Subject         string    `json:"subject"`
	Title           string    `json:"title"`
	Score           int       `json:"score"`
	Total           int       `json:"total"`
	Percentage      float64   `json:"percentage"`
	PerformanceTier string    `json:"performance_tier"`
	CompletedAt     time.Time `json:"completed_at"`
}

// Preferences are the user's sticky settings.
type Preferences struct {
	Theme   string `json:"theme,omitempty"`
	Level   string `json:"level,omitempty"`
	Source  string `json:"source,omitempty"`
	Backend string `json:"backend,omitempty"`
}

// Favorites loads the favorites list, newest first. Corrupt data is
// discarded and replaced by the empty default.
func (d *DB) Favorites() []Favorite {
	raw := d.getRaw(entryFavorites)
	if raw == "" {
		return nil
	}
	var favs []Favorite
	if err := json.Unmarshal([]byte(raw), &favs); err != nil {
		log.Printf("store: discarding corrupt favorites: %v", err)
		return nil
	}
	return favs
}

// SaveFavorites replaces the persisted favorites list.
func (d *DB) SaveFavorites(favs []Favorite) error {
	return d.putJSON(entryFavorites, favs)
}

// ToggleFavorite adds the lesson if absent and removes it if present,
// persisting the result. Additions go to the front (newest first). It
// returns the updated list and whether the lesson is now a favorite.
func (d *DB) ToggleFavorite(fav Favorite) ([]Favorite, bool, error) {
	favs := d.Favorites()

	for i, f := range favs {
		if f.Subject == fav.Subject && f.Title == fav.Title {
			favs = append(favs[:i], favs[i+1:]...)
			if err := d.SaveFavorites(favs); err != nil {
				return nil, false, err
			}
			return favs, false, nil
		}
	}

	if fav.AddedAt.IsZero() {
		fav.AddedAt = time.Now()
	}
	favs = append([]Favorite{fav}, favs...)
	if err := d.SaveFavorites(favs); err != nil {
		return nil, false, err
	}
	return favs, true, nil
}

// IsFavorite reports whether the (subject, title) pair is bookmarked.
func (d *DB) IsFavorite(subject, title string) bool {
	for _, f := range d.Favorites() {
		if f.Subject == subject && f.Title == title {
			return true
		}
	}
	return false
}

// QuizHistory loads the completed-quiz log, newest first.
func (d *DB) QuizHistory() []QuizRecord {
	raw := d.getRaw(entryQuizHistory)
	if raw == "" {
		return nil
	}
	var recs []QuizRecord
	if err := json.Unmarshal([]byte(raw), &recs); err != nil {
		log.Printf("store: discarding corrupt quiz history: %v", err)
		return nil
	}
	return recs
}

// AppendQuizRecord prepends one completed quiz and persists the log,
// evicting the oldest records beyond the cap.
func (d *DB) AppendQuizRecord(rec QuizRecord) ([]QuizRecord, error) {
	if rec.CompletedAt.IsZero() {
		rec.CompletedAt = time.Now()
	}
	recs := append([]QuizRecord{rec}, d.QuizHistory()...)
	if len(recs) > maxQuizHistory {
		recs = recs[:maxQuizHistory]
	}
	if err := d.putJSON(entryQuizHistory, recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// Preferences loads the user preferences, empty on corruption.
func (d *DB) Preferences() Preferences {
	raw := d.getRaw(entryPreferences)
	if raw == "" {
		return Preferences{}
	}
	var p Preferences
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		log.Printf("store: discarding corrupt preferences: %v", err)
		return Preferences{}
	}
	return p
}

// SavePreferences persists the user preferences.
func (d *DB) SavePreferences(p Preferences) error {
	return d.putJSON(entryPreferences, p)
}

func (d *DB) putJSON(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return d.putRaw(name, string(data))
}

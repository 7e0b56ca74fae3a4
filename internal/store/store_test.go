package store

import (
	"fmt"
	"testing"
	"time"
)

func setupDB(t *testing.T) *DB {
	t.Helper()
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("opening in-memory db: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestToggleFavoriteRoundTrip(t *testing.T) {
	d := setupDB(t)

	fav := Favorite{Subject: "mathematiques", Title: "Pythagore", Level: "4eme"}

	favs, added, err := d.ToggleFavorite(fav)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !added || len(favs) != 1 {
		t.Fatalf("after add: added=%v len=%d", added, len(favs))
	}
	if !d.IsFavorite("mathematiques", "Pythagore") {
		t.Error("IsFavorite = false after add")
	}

	favs, added, err = d.ToggleFavorite(fav)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if added || len(favs) != 0 {
		t.Errorf("after remove: added=%v len=%d, want false/0", added, len(favs))
	}
	if d.IsFavorite("mathematiques", "Pythagore") {
		t.Error("IsFavorite = true after remove")
	}
}

func TestToggleFavoriteUniquePerSubjectTitle(t *testing.T) {
	d := setupDB(t)

	// Same title under two subjects is two distinct favorites.
	d.ToggleFavorite(Favorite{Subject: "svt", Title: "L'énergie"})
	d.ToggleFavorite(Favorite{Subject: "physique_chimie", Title: "L'énergie"})

	favs := d.Favorites()
	if len(favs) != 2 {
		t.Fatalf("len = %d, want 2", len(favs))
	}
	// Newest first.
	if favs[0].Subject != "physique_chimie" {
		t.Errorf("first favorite = %+v, want the newest", favs[0])
	}
}

func TestFavoritesPersistAcrossLoads(t *testing.T) {
	d := setupDB(t)

	d.ToggleFavorite(Favorite{Subject: "svt", Title: "Les séismes"})

	favs := d.Favorites()
	if len(favs) != 1 || favs[0].Title != "Les séismes" {
		t.Errorf("reloaded favorites = %+v", favs)
	}
	if favs[0].AddedAt.IsZero() {
		t.Error("AddedAt not stamped on toggle")
	}
}

func TestCorruptFavoritesDegradeToEmpty(t *testing.T) {
	d := setupDB(t)

	if err := d.putRaw(entryFavorites, "{not json"); err != nil {
		t.Fatalf("seeding corrupt entry: %v", err)
	}
	if favs := d.Favorites(); favs != nil {
		t.Errorf("Favorites() = %v, want nil on corrupt data", favs)
	}

	// The store stays writable after corruption.
	if _, _, err := d.ToggleFavorite(Favorite{Subject: "svt", Title: "X"}); err != nil {
		t.Fatalf("toggle after corruption: %v", err)
	}
	if len(d.Favorites()) != 1 {
		t.Error("favorite not written after corruption recovery")
	}
}

func TestQuizHistoryFIFOCap(t *testing.T) {
	d := setupDB(t)

	for i := 0; i < 60; i++ {
		_, err := d.AppendQuizRecord(QuizRecord{
			Subject:     "svt",
			Title:       fmt.Sprintf("Leçon %d", i),
			Score:       3,
			Total:       5,
			CompletedAt: time.Date(2026, 1, 1, 0, i, 0, 0, time.UTC),
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	recs := d.QuizHistory()
	if len(recs) != 50 {
		t.Fatalf("len = %d, want 50", len(recs))
	}
	// Newest kept, oldest evicted.
	if recs[0].Title != "Leçon 59" {
		t.Errorf("newest = %q, want Leçon 59", recs[0].Title)
	}
	if recs[49].Title != "Leçon 10" {
		t.Errorf("oldest kept = %q, want Leçon 10", recs[49].Title)
	}
}

func TestCorruptQuizHistoryDegradesToEmpty(t *testing.T) {
	d := setupDB(t)

	if err := d.putRaw(entryQuizHistory, `42`); err != nil {
		t.Fatalf("seeding corrupt entry: %v", err)
	}
	if recs := d.QuizHistory(); recs != nil {
		t.Errorf("QuizHistory() = %v, want nil", recs)
	}
}

func TestPreferences(t *testing.T) {
	d := setupDB(t)

	if p := d.Preferences(); p != (Preferences{}) {
		t.Errorf("initial preferences = %+v, want zero", p)
	}

	want := Preferences{Theme: "dark", Level: "4eme", Source: "both"}
	if err := d.SavePreferences(want); err != nil {
		t.Fatalf("SavePreferences: %v", err)
	}
	if got := d.Preferences(); got != want {
		t.Errorf("Preferences() = %+v, want %+v", got, want)
	}
}

func TestOpenCreatesFile(t *testing.T) {
	path := t.TempDir() + "/state/cahier.db"
	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	if err := d.SavePreferences(Preferences{Theme: "light"}); err != nil {
		t.Fatalf("SavePreferences: %v", err)
	}
}

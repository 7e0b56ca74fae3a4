// Package subject holds the fixed tables for the eight school subjects
// and the school-level identifiers used throughout the client.
package subject

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Subject describes one of the eight known school subjects.
type Subject struct {
	ID        string // wire identifier, e.g. "histoire_geo"
	Name      string // full display name, e.g. "Histoire-Géographie"
	ShortName string // compact display name, e.g. "Histoire-Géo"
	Icon      string // emoji shown next to the subject
	Color     string // accent color (hex) for cards and exports
}

var subjects = map[string]Subject{
	"mathematiques":   {ID: "mathematiques", Name: "Mathématiques", ShortName: "Maths", Icon: "📐", Color: "#4f8cff"},
	"francais":        {ID: "francais", Name: "Français", ShortName: "Français", Icon: "✍️", Color: "#ff6b6b"},
	"histoire_geo":    {ID: "histoire_geo", Name: "Histoire-Géographie", ShortName: "Histoire-Géo", Icon: "🗺️", Color: "#f0a541"},
	"svt":             {ID: "svt", Name: "SVT", ShortName: "SVT", Icon: "🔬", Color: "#3ecf8e"},
	"physique_chimie": {ID: "physique_chimie", Name: "Physique-Chimie", ShortName: "Physique-Chimie", Icon: "⚗️", Color: "#a78bfa"},
	"technologie":     {ID: "technologie", Name: "Technologie", ShortName: "Techno", Icon: "⚙️", Color: "#8d99ae"},
	"anglais":         {ID: "anglais", Name: "Anglais", ShortName: "Anglais", Icon: "🔤", Color: "#48bfe3"},
	"espagnol":        {ID: "espagnol", Name: "Espagnol", ShortName: "Espagnol", Icon: "🗣️", Color: "#e07a5f"},
}

// order fixes the display order of the subject grid.
var order = []string{
	"mathematiques",
	"francais",
	"histoire_geo",
	"svt",
	"physique_chimie",
	"technologie",
	"anglais",
	"espagnol",
}

// Levels are the recognized school levels. DefaultLevel covers the
// whole collège range when the user has not picked one.
var Levels = []string{"6eme", "5eme", "4eme", "3eme", "college"}

const DefaultLevel = "college"

// All returns the eight subjects in display order.
func All() []Subject {
	out := make([]Subject, 0, len(order))
	for _, id := range order {
		out = append(out, subjects[id])
	}
	return out
}

// Get looks up a subject by its wire identifier.
func Get(id string) (Subject, bool) {
	s, ok := subjects[id]
	return s, ok
}

// Known reports whether id names one of the eight subjects.
func Known(id string) bool {
	_, ok := subjects[id]
	return ok
}

// Icon returns the emoji for a subject id, or a generic book for
// anything unknown.
func Icon(id string) string {
	if s, ok := subjects[id]; ok {
		return s.Icon
	}
	return "📖"
}

// DisplayName returns the full display name for a subject id, falling
// back to the id itself.
func DisplayName(id string) string {
	if s, ok := subjects[id]; ok {
		return s.Name
	}
	return id
}

// validLevels is the set of recognized level values.
var validLevels = map[string]bool{
	"6eme": true, "5eme": true, "4eme": true, "3eme": true, "college": true,
}

// ValidLevel reports whether level is a recognized school level.
func ValidLevel(level string) bool {
	return validLevels[level]
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases s and strips diacritics, so "Géométrie" and
// "geometrie" compare equal. Used by the library search.
func Fold(s string) string {
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(out)
}

// Package nav implements the view router: the mapping between the
// application's navigable state, its hash-fragment encoding, and an
// explicit history stack with back-restoration.
package nav

import (
	"net/url"
	"strings"
)

// View identifies one of the eight application views.
type View string

const (
	ViewChat        View = "chat"
	ViewLibrary     View = "library"
	ViewFavorites   View = "favorites"
	ViewMyDocuments View = "my-documents"
	ViewLesson      View = "lesson"
	ViewQuizSetup   View = "quiz-setup"
	ViewQuizActive  View = "quiz-active"
	ViewQuizResults View = "quiz-results"
)

// Valid reports whether v is a member of the closed view set.
func (v View) Valid() bool {
	switch v {
	case ViewChat, ViewLibrary, ViewFavorites, ViewMyDocuments,
		ViewLesson, ViewQuizSetup, ViewQuizActive, ViewQuizResults:
		return true
	}
	return false
}

// Params are the navigation parameters a view can carry. Empty fields
// are "not specified" and merge semantics apply (see Router.NavigateTo).
type Params struct {
	Subject string
	Lesson  string
}

// Entry is one history record: the (view, params) pair restored on back.
type Entry struct {
	View   View
	Params Params
}

// BuildURL computes the canonical fragment for a view.
// chat maps to the bare root; the library with a subject and the lesson
// detail view embed their parameters; everything else, including the
// library root and the quiz views, uses the generic "/#view" form.
func BuildURL(view View, p Params) string {
	switch {
	case view == ViewChat:
		return "/"
	case view == ViewLibrary && p.Subject != "":
		return "/#library/" + p.Subject
	case view == ViewLesson && p.Subject != "" && p.Lesson != "":
		return "/#lesson/" + p.Subject + "/" + url.PathEscape(p.Lesson)
	default:
		return "/#" + string(view)
	}
}

// ParseFragment decodes a startup deep link ("#library/svt",
// "#lesson/svt/Les%20s%C3%A9ismes", "#favorites", "#my-documents").
// Anything unrecognized falls back to the chat view.
func ParseFragment(fragment string) Entry {
	frag := strings.TrimPrefix(strings.TrimPrefix(fragment, "/"), "#")
	if frag == "" {
		return Entry{View: ViewChat}
	}

	parts := strings.SplitN(frag, "/", 3)
	switch parts[0] {
	case "library":
		if len(parts) >= 2 && parts[1] != "" {
			return Entry{View: ViewLibrary, Params: Params{Subject: parts[1]}}
		}
		return Entry{View: ViewLibrary}
	case "lesson":
		if len(parts) == 3 && parts[1] != "" && parts[2] != "" {
			title, err := url.PathUnescape(parts[2])
			if err != nil {
				return Entry{View: ViewChat}
			}
			return Entry{View: ViewLesson, Params: Params{Subject: parts[1], Lesson: title}}
		}
	case "favorites":
		return Entry{View: ViewFavorites}
	case "my-documents":
		return Entry{View: ViewMyDocuments}
	}
	return Entry{View: ViewChat}
}

// Router owns the current (view, params) pair and the history stack.
// Every NavigateTo pushes exactly one entry; Back pops one and restores
// the prior pair. The initial entry is the base the stack unwinds to
// and is not itself a pushed entry. The zero value is not usable; use New.
type Router struct {
	base    Entry
	current Entry
	history []Entry
}

// New returns a router positioned at the given starting entry,
// matching a page load that lands on a deep link.
func New(start Entry) *Router {
	if !start.View.Valid() {
		start = Entry{View: ViewChat}
	}
	return &Router{base: start, current: start}
}

// Current returns the active (view, params) pair.
func (r *Router) Current() Entry {
	return r.current
}

// URL returns the canonical fragment for the active entry.
func (r *Router) URL() string {
	return BuildURL(r.current.View, r.current.Params)
}

// HistoryLen returns the number of history entries pushed so far.
func (r *Router) HistoryLen() int {
	return len(r.history)
}

// NavigateTo merges params into the current state, makes view active
// and pushes one history entry. Merge rules: a non-empty param always
// wins; entering the library without a subject clears both the subject
// and lesson selection (library root); entering a lesson view requires
// both and replaces both; the lesson selection never survives a subject
// change.
func (r *Router) NavigateTo(view View, p Params) Entry {
	next := merge(r.current, view, p)
	r.current = next
	r.history = append(r.history, next)
	return next
}

// Back pops the current entry and restores the immediately prior pair.
// It reports false at the bottom of the stack, where there is nothing
// to return to.
func (r *Router) Back() (Entry, bool) {
	if len(r.history) == 0 {
		return r.current, false
	}
	r.history = r.history[:len(r.history)-1]
	if len(r.history) == 0 {
		r.current = r.base
	} else {
		r.current = r.history[len(r.history)-1]
	}
	return r.current, true
}

func merge(cur Entry, view View, p Params) Entry {
	next := Entry{View: view, Params: cur.Params}

	switch view {
	case ViewLibrary:
		// Library root means no selection at all.
		next.Params.Subject = p.Subject
		next.Params.Lesson = ""
	case ViewLesson:
		next.Params.Subject = p.Subject
		next.Params.Lesson = p.Lesson
	default:
		if p.Subject != "" {
			next.Params.Subject = p.Subject
			next.Params.Lesson = ""
		}
		if p.Lesson != "" {
			next.Params.Lesson = p.Lesson
		}
	}
	return next
}

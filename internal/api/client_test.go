package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestChatPinsSubject(t *testing.T) {
	var got ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat/auto" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		json.NewEncoder(w).Encode(ChatResponse{
			Answer:      "Le théorème de Pythagore...",
			Sources:     []Source{{Title: "Pythagore", Subject: "mathematiques"}},
			SourceCount: 1,
		})
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL)
	resp, err := c.Chat(context.Background(), ChatRequest{
		Question: "C'est quoi Pythagore ?",
		Level:    "college",
		Subject:  "mathematiques",
	})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if got.Subject != "mathematiques" {
		t.Errorf("request matiere = %q, want mathematiques", got.Subject)
	}
	if resp.SourceCount != 1 || len(resp.Sources) != 1 {
		t.Errorf("sources = %d/%d, want 1/1", resp.SourceCount, len(resp.Sources))
	}
}

func TestChatAmbiguous(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ChatResponse{
			Ambiguous:         true,
			CandidateSubjects: []string{"svt", "physique_chimie"},
		})
	}))
	t.Cleanup(srv.Close)

	resp, err := New(srv.URL).Chat(context.Background(), ChatRequest{Question: "énergie"})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if !resp.Ambiguous || len(resp.CandidateSubjects) != 2 {
		t.Errorf("resp = %+v, want 2 candidate subjects", resp)
	}
}

func TestLessonsDecodesWireNames(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/lessons/svt" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"lessons":[{"titre":"Les séismes","matiere":"svt","niveau":"4eme","resume":"Origine des séismes","nb_sections":6}]}`))
	}))
	t.Cleanup(srv.Close)

	lessons, err := New(srv.URL).Lessons(context.Background(), "svt")
	if err != nil {
		t.Fatalf("Lessons: %v", err)
	}
	if len(lessons) != 1 {
		t.Fatalf("got %d lessons, want 1", len(lessons))
	}
	l := lessons[0]
	if l.Title != "Les séismes" || l.Level != "4eme" || l.SectionCount != 6 {
		t.Errorf("lesson = %+v", l)
	}
}

func TestLessonDetailEncodesTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("titre"); got != "Les séismes" {
			t.Errorf("titre = %q", got)
		}
		w.Write([]byte(`{"titre":"Les séismes","matiere":"svt","niveau":"4eme","contenu_complet":"# Les séismes\n..."}`))
	}))
	t.Cleanup(srv.Close)

	d, err := New(srv.URL).LessonDetail(context.Background(), "svt", "Les séismes")
	if err != nil {
		t.Fatalf("LessonDetail: %v", err)
	}
	if !strings.HasPrefix(d.FullContent, "# Les séismes") {
		t.Errorf("content = %q", d.FullContent)
	}
}

func TestValidateQuiz(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ValidateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding: %v", err)
		}
		if len(req.Answers) != 3 {
			t.Errorf("answers = %v", req.Answers)
		}
		json.NewEncoder(w).Encode(QuizResult{
			Score: 2, Total: 3, Percentage: 66.7, PerformanceTier: "Bien",
			Results: []QuestionResult{
				{QuestionID: 1, UserAnswer: 0, CorrectAnswer: 0, IsCorrect: true},
				{QuestionID: 2, UserAnswer: 1, CorrectAnswer: 1, IsCorrect: true},
				{QuestionID: 3, UserAnswer: 2, CorrectAnswer: 3, IsCorrect: false},
			},
		})
	}))
	t.Cleanup(srv.Close)

	res, err := New(srv.URL).ValidateQuiz(context.Background(), ValidateRequest{
		QuizID:  "q1",
		Answers: []int{0, 1, 2},
	})
	if err != nil {
		t.Fatalf("ValidateQuiz: %v", err)
	}
	if res.PerformanceTier != "Bien" || res.Score != 2 {
		t.Errorf("result = %+v", res)
	}
}

func TestUploadPDFRejectsNonPDF(t *testing.T) {
	c := New("http://unused.invalid")
	_, err := c.UploadPDF(context.Background(), "notes.txt", strings.NewReader("x"))
	if err == nil {
		t.Fatal("expected an error for a non-pdf filename")
	}
}

func TestUploadPDFMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parsing multipart: %v", err)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer f.Close()
		if hdr.Filename != "cours.pdf" {
			t.Errorf("filename = %q", hdr.Filename)
		}
		json.NewEncoder(w).Encode(UploadResult{Filename: "cours.pdf", PageCount: 12, ChunkCount: 40})
	}))
	t.Cleanup(srv.Close)

	res, err := New(srv.URL).UploadPDF(context.Background(), "/tmp/cours.pdf", strings.NewReader("%PDF-1.4"))
	if err != nil {
		t.Fatalf("UploadPDF: %v", err)
	}
	if res.PageCount != 12 || res.ChunkCount != 40 {
		t.Errorf("result = %+v", res)
	}
}

func TestDeleteDocument(t *testing.T) {
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.EscapedPath(), r.Method
		w.Write([]byte(`{"message":"supprimé"}`))
	}))
	t.Cleanup(srv.Close)

	if err := New(srv.URL).DeleteDocument(context.Background(), "mon cours.pdf"); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}
	if gotMethod != http.MethodDelete {
		t.Errorf("method = %q", gotMethod)
	}
	if gotPath != "/api/my-documents/mon%20cours.pdf" {
		t.Errorf("path = %q", gotPath)
	}
}

func TestNonSuccessStatusIsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Leçon 'X' non trouvée pour svt"}`))
	}))
	t.Cleanup(srv.Close)

	_, err := New(srv.URL).LessonDetail(context.Background(), "svt", "X")
	if err == nil {
		t.Fatal("expected an error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error %v is not *APIError", err)
	}
	if apiErr.StatusCode != http.StatusNotFound || apiErr.Detail == "" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

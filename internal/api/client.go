// Package api is the typed gateway to the tutoring backend HTTP API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
)

// APIError is a non-success response from the backend, carrying the
// HTTP status and the backend's detail message when one was provided.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}

// Client talks to one backend instance. No timeout is set on the
// underlying http.Client; callers cancel through the context.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the backend at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{},
	}
}

// Chat asks a question with automatic subject detection. Setting
// req.Subject pins the answer to that subject and skips detection.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var resp ChatResponse
	if err := c.postJSON(ctx, "/api/chat/auto", req, &resp); err != nil {
		return nil, fmt.Errorf("chat request: %w", err)
	}
	return &resp, nil
}

// Lessons fetches the lesson summaries for one subject.
func (c *Client) Lessons(ctx context.Context, subject string) ([]Lesson, error) {
	var resp lessonListResponse
	if err := c.getJSON(ctx, "/api/lessons/"+url.PathEscape(subject), &resp); err != nil {
		return nil, fmt.Errorf("listing lessons for %s: %w", subject, err)
	}
	return resp.Lessons, nil
}

// LessonDetail fetches the full content of one lesson.
func (c *Client) LessonDetail(ctx context.Context, subject, title string) (*LessonDetail, error) {
	path := "/api/lessons/" + url.PathEscape(subject) + "/detail?titre=" + url.QueryEscape(title)
	var resp LessonDetail
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("fetching lesson %q: %w", title, err)
	}
	return &resp, nil
}

// GenerateQuiz asks the backend to build a quiz from one lesson. This
// is the slowest call in the system; it is never retried automatically.
func (c *Client) GenerateQuiz(ctx context.Context, req QuizRequest) (*Quiz, error) {
	var resp Quiz
	if err := c.postJSON(ctx, "/api/quiz/generate", req, &resp); err != nil {
		return nil, fmt.Errorf("generating quiz: %w", err)
	}
	return &resp, nil
}

// ValidateQuiz scores a completed answer sheet in one call.
func (c *Client) ValidateQuiz(ctx context.Context, req ValidateRequest) (*QuizResult, error) {
	var resp QuizResult
	if err := c.postJSON(ctx, "/api/quiz/validate", req, &resp); err != nil {
		return nil, fmt.Errorf("validating quiz: %w", err)
	}
	return &resp, nil
}

// UploadPDF sends one PDF to the personal-documents collection.
func (c *Client) UploadPDF(ctx context.Context, filename string, r io.Reader) (*UploadResult, error) {
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return nil, fmt.Errorf("uploading %s: only .pdf files are accepted", filename)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("building upload form: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("finalizing upload form: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload-pdf", &body)
	if err != nil {
		return nil, fmt.Errorf("creating upload request: %w", err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	var resp UploadResult
	if err := c.do(httpReq, &resp); err != nil {
		return nil, fmt.Errorf("uploading %s: %w", filename, err)
	}
	return &resp, nil
}

// MyDocuments lists the uploaded personal documents, newest first.
func (c *Client) MyDocuments(ctx context.Context) ([]Document, error) {
	var resp documentListResponse
	if err := c.getJSON(ctx, "/api/my-documents", &resp); err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	return resp.Documents, nil
}

// DeleteDocument removes one uploaded document by filename.
func (c *Client) DeleteDocument(ctx context.Context, filename string) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		c.baseURL+"/api/my-documents/"+url.PathEscape(filename), nil)
	if err != nil {
		return fmt.Errorf("creating delete request: %w", err)
	}
	if err := c.do(httpReq, nil); err != nil {
		return fmt.Errorf("deleting %s: %w", filename, err)
	}
	return nil
}

// Health pings the backend.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var resp Health
	if err := c.getJSON(ctx, "/health", &resp); err != nil {
		return nil, fmt.Errorf("health check: %w", err)
	}
	return &resp, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(httpReq, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshalling request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	return c.do(httpReq, out)
}

// errorBody is the FastAPI error envelope.
type errorBody struct {
	Detail string `json:"detail"`
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.Unmarshal(respBody, &eb)
		return &APIError{StatusCode: resp.StatusCode, Detail: eb.Detail}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshalling response: %w", err)
	}
	return nil
}

package export

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Serve exposes the export directory over HTTP for local preview.
// Blocks until the listener fails.
func Serve(dir string, port int) error {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Exported-page index for the preview landing page.
	r.Get("/api/pages", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		pages, err := listPages(dir)
		if err != nil {
			http.Error(w, `{"error":"listing exports failed"}`, http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string][]string{"pages": pages})
	})

	r.Handle("/*", http.FileServer(http.Dir(dir)))

	fmt.Printf("Serving exported lessons from %s at http://localhost:%d\n", dir, port)
	fmt.Println("Press Ctrl+C to stop.")
	return http.ListenAndServe(fmt.Sprintf(":%d", port), r)
}

func listPages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var pages []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".html") {
			pages = append(pages, filepath.ToSlash(e.Name()))
		}
	}
	return pages, nil
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/cahier-numerique/cahier/internal/api"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <glob>...",
	Short: "Upload course PDFs to your personal documents",
	Long: `Uploads one or more PDF files to the backend's personal-documents
collection so the chat can answer from your own courses. Arguments are
glob patterns ('notes/**/*.pdf'); only .pdf files are sent.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := api.New(cfg.Backend.URL)

	paths, err := expandPatterns(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no .pdf files match the given patterns")
	}

	var pages, chunks, failed int
	for _, path := range paths {
		res, err := uploadOne(cmd.Context(), client, path)
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "  %s: %v\n", path, err)
			continue
		}
		pages += res.PageCount
		chunks += res.ChunkCount
		if verbose {
			fmt.Printf("  %s: %d pages, %d chunks\n", filepath.Base(path), res.PageCount, res.ChunkCount)
		}
	}

	fmt.Printf("Uploaded %d document(s): %d pages, %d chunks indexed.\n", len(paths)-failed, pages, chunks)
	if failed > 0 {
		return fmt.Errorf("%d upload(s) failed", failed)
	}
	return nil
}

// expandPatterns resolves glob patterns to a deduplicated list of .pdf
// paths. A pattern that names a plain file passes through unchanged.
func expandPatterns(patterns []string) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if matches == nil {
			if _, statErr := os.Stat(pattern); statErr == nil {
				matches = []string{pattern}
			}
		}
		for _, m := range matches {
			if !strings.EqualFold(filepath.Ext(m), ".pdf") || seen[m] {
				continue
			}
			seen[m] = true
			out = append(out, m)
		}
	}
	return out, nil
}

// uploadOne streams a single file with a progress bar on the read side.
func uploadOne(ctx context.Context, client *api.Client, path string) (*api.UploadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	bar := progressbar.DefaultBytes(info.Size(), filepath.Base(path))
	reader := progressbar.NewReader(f, bar)
	return client.UploadPDF(ctx, path, &reader)
}

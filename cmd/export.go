package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cahier-numerique/cahier/internal/api"
	"github.com/cahier-numerique/cahier/internal/export"
	"github.com/cahier-numerique/cahier/internal/subject"
)

var exportCmd = &cobra.Command{
	Use:   "export <subject> <title>",
	Short: "Export a lesson as a standalone HTML page",
	Long: `Fetches one lesson from the backend and writes it as a printable,
self-contained HTML page. With --serve, a local preview server is
started on the export directory afterwards.`,
	Args: cobra.ExactArgs(2),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().Bool("serve", false, "serve the export directory after writing")
	exportCmd.Flags().Int("port", 0, "preview server port (defaults to export.port)")
	exportCmd.Flags().String("output", "", "override the export directory")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	subj, title := args[0], args[1]
	if !subject.Known(subj) {
		return fmt.Errorf("unknown subject %q: expected one of the eight subject identifiers, e.g. svt or mathematiques", subj)
	}

	lesson, err := api.New(cfg.Backend.URL).LessonDetail(cmd.Context(), subj, title)
	if err != nil {
		return err
	}

	outDir, _ := cmd.Flags().GetString("output")
	if outDir == "" {
		outDir = cfg.Export.Dir
	}

	path, err := export.NewGenerator(outDir).Write(lesson)
	if err != nil {
		return err
	}
	fmt.Printf("Exported %s\n", path)

	if serve, _ := cmd.Flags().GetBool("serve"); serve {
		port, _ := cmd.Flags().GetInt("port")
		if port == 0 {
			port = cfg.Export.Port
		}
		return export.Serve(outDir, port)
	}
	return nil
}

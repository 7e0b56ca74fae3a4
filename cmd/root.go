package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cahier-numerique/cahier/internal/api"
	"github.com/cahier-numerique/cahier/internal/store"
	"github.com/cahier-numerique/cahier/internal/tui"
)

var (
	cfgFile    string
	backendURL string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "cahier",
	Short: "Terminal client for the Cahier Numérique tutoring backend",
	Long: `Cahier is a terminal companion for collège students: ask questions
across eight school subjects, browse and search the lesson library,
bookmark favorites, upload your own course PDFs and quiz yourself on
any lesson.`,
	RunE: runApp,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", defaultConfigPath(), "config file path")
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", "", "backend URL override")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.Flags().String("open", "", "deep link to open at startup, e.g. '#library/svt'")
}

func runApp(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := store.Open(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("opening local state: %w", err)
	}
	defer db.Close()

	fragment, _ := cmd.Flags().GetString("open")
	return tui.Run(cfg, api.New(cfg.Backend.URL), db, fragment)
}

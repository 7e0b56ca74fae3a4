package cmd

import (
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/cahier-numerique/cahier/internal/api"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "List your uploaded personal documents",
	RunE:  runDocsList,
}

var docsRmCmd = &cobra.Command{
	Use:   "rm <filename>",
	Short: "Delete an uploaded document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocsRm,
}

func init() {
	docsCmd.AddCommand(docsRmCmd)
	docsRmCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(docsCmd)
}

func runDocsList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	docs, err := api.New(cfg.Backend.URL).MyDocuments(cmd.Context())
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Println("No documents uploaded yet. Use `cahier upload` to add some.")
		return nil
	}
	for _, d := range docs {
		fmt.Printf("%-50s %10d  %s\n", d.Filename, d.Size, d.UploadedAt)
	}
	return nil
}

func runDocsRm(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	filename := args[0]

	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		prompt := promptui.Prompt{
			Label:     fmt.Sprintf("Delete %s", filename),
			IsConfirm: true,
		}
		if _, err := prompt.Run(); err != nil {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := api.New(cfg.Backend.URL).DeleteDocument(cmd.Context(), filename); err != nil {
		return err
	}
	fmt.Printf("Deleted %s.\n", filename)
	return nil
}

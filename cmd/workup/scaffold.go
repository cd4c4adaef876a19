package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/steveyegge/workup/internal/scaffold"
	"github.com/steveyegge/workup/internal/setup"
	"github.com/steveyegge/workup/internal/tasks"
)

var (
	scaffoldDescription  string
	scaffoldDeliverables string
	scaffoldLanguage     string
	scaffoldName         string
	scaffoldOut          string
)

var scaffoldCmd = &cobra.Command{
	Use:   "scaffold [file]",
	Short: "Build a starter-code archive from task assignments",
	Long: `Read "Member: Task" lines from a file (or stdin) and write a zip with
docs/ (description, deliverables, one task summary per member) and code/
(one starter file per member plus a dependency manifest).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(cmd, args)
		if err != nil {
			return err
		}

		language := scaffoldLanguage
		if language == "" {
			language = cfg.Language
		}

		data, err := scaffold.Scaffold(tasks.Parse(text), scaffoldDescription, scaffoldDeliverables, scaffold.Options{
			Language:    language,
			ProjectName: scaffoldName,
		})
		if err != nil {
			return err
		}

		path := scaffoldOut
		if path == "" {
			path = setup.ArchiveFile
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("writing archive: %w", err)
		}
		success(cmd.OutOrStdout(), "Wrote %s (%d bytes)", path, len(data))
		return nil
	},
}

func init() {
	scaffoldCmd.Flags().StringVarP(&scaffoldDescription, "description", "d", "", "Project description")
	scaffoldCmd.Flags().StringVar(&scaffoldDeliverables, "deliverables", "", "Expected deliverables")
	scaffoldCmd.Flags().StringVarP(&scaffoldLanguage, "language", "l", "", "Starter-code language (python, javascript)")
	scaffoldCmd.Flags().StringVar(&scaffoldName, "name", "", "Project name used in the manifest")
	scaffoldCmd.Flags().StringVarP(&scaffoldOut, "out", "o", "", "Output file (default project_structure.zip)")
	rootCmd.AddCommand(scaffoldCmd)
}

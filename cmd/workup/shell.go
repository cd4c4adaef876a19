package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/steveyegge/workup/internal/session"
	"github.com/steveyegge/workup/internal/setup"
	"github.com/steveyegge/workup/internal/shell"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start the interactive shell",
	Long: `Start an interactive shell to enter the project description and team,
run setup, review the results, save artifacts and leave feedback.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		gw, err := newGateway(cmd.Context())
		if err != nil {
			return err
		}

		state := session.New()
		state.Language = cfg.Language

		sh, err := shell.New(&shell.Config{
			State:     state,
			Runner:    setup.NewRunner(gw, logger),
			Logger:    logger,
			Usage:     usage,
			Out:       cmd.OutOrStdout(),
			OutputDir: cfg.OutputDir,
			WorkDir:   os.TempDir(),
		})
		if err != nil {
			return fmt.Errorf("failed to create shell: %w", err)
		}
		return sh.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

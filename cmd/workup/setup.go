package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/steveyegge/workup/internal/setup"
	"github.com/steveyegge/workup/internal/team"
)

var (
	setupDescription     string
	setupDescriptionFile string
	setupDeliverables    string
	setupTeamFile        string
	setupMembers         []string
	setupLanguage        string
	setupOutDir          string
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Run the full project setup",
	Long: `Ask the model for task assignments, a project workflow and name ideas,
then write flowchart.png, project_structure.zip and project_table.csv.

Team members come from --team-file (blocks separated by "---", first line
is the name, the rest is expertise) and/or repeated --member "Name: expertise".`,
	Example: `  workup setup --description "A task tracker" \
    --member "Alice: databases" --member "Bob: web services"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		description, err := textFlag(setupDescription, setupDescriptionFile)
		if err != nil {
			return err
		}

		var members []team.Member
		if setupTeamFile != "" {
			data, err := os.ReadFile(setupTeamFile)
			if err != nil {
				return fmt.Errorf("reading team file: %w", err)
			}
			members = team.ParseRoster(string(data))
		}
		members = append(members, team.ParseMembers(setupMembers)...)

		language := setupLanguage
		if language == "" {
			language = cfg.Language
		}
		outDir := setupOutDir
		if outDir == "" {
			outDir = cfg.OutputDir
		}

		in := setup.Input{
			Description:  strings.TrimSpace(description),
			Deliverables: setupDeliverables,
			Members:      members,
			Language:     language,
		}
		// Report missing input before building a client that may need an API key.
		if err := team.Validate(in.Description, in.Members); err != nil {
			return err
		}

		gw, err := newGateway(cmd.Context())
		if err != nil {
			return err
		}

		res, err := setup.NewRunner(gw, logger).Run(cmd.Context(), in)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		fmt.Fprintf(out, "\n%s\n%s\n", cyan("Task Assignments"), res.Assignments)
		fmt.Fprintf(out, "\n%s\n%s\n", cyan("Project Workflow"), res.Workflow)
		fmt.Fprintf(out, "\n%s\n%s\n", cyan("Project Name Ideas"), res.Names)
		fmt.Fprintf(out, "\n%s\n%s\n\n", cyan("Project Table"), team.RenderTable(res.Table))

		if res.FlowchartErr != nil {
			warn(out, "%s", setup.Describe("flowchart", res.FlowchartErr))
		}
		if res.ArchiveErr != nil {
			warn(out, "%s", setup.Describe("project structure", res.ArchiveErr))
		}

		written, err := setup.WriteFiles(res, outDir)
		if err != nil {
			return err
		}
		for _, path := range written {
			success(out, "Wrote %s", path)
		}
		fmt.Fprintf(out, "Usage: %s\n", usage.Stats())
		return nil
	},
}

func init() {
	setupCmd.Flags().StringVarP(&setupDescription, "description", "d", "", "Project description")
	setupCmd.Flags().StringVar(&setupDescriptionFile, "description-file", "", "Read the project description from a file")
	setupCmd.Flags().StringVar(&setupDeliverables, "deliverables", "", "Expected deliverables")
	setupCmd.Flags().StringVarP(&setupTeamFile, "team-file", "t", "", "Team expertise file")
	setupCmd.Flags().StringArrayVarP(&setupMembers, "member", "m", nil, `Team member as "Name: expertise" (repeatable)`)
	setupCmd.Flags().StringVarP(&setupLanguage, "language", "l", "", "Starter-code language (python, javascript)")
	setupCmd.Flags().StringVarP(&setupOutDir, "out", "o", "", "Output directory (default from config)")
	setupCmd.MarkFlagsMutuallyExclusive("description", "description-file")
	rootCmd.AddCommand(setupCmd)
}

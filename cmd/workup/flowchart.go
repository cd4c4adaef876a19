package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/steveyegge/workup/internal/flowchart"
	"github.com/steveyegge/workup/internal/tasks"
)

var (
	flowchartOut    string
	flowchartFormat string
)

var flowchartCmd = &cobra.Command{
	Use:   "flowchart [file]",
	Short: "Draw a flowchart from task assignments",
	Long: `Read "Member: Task" lines from a file (or stdin) and draw the chain
Project Start -> member -> ... -> Project End as a PNG image or Graphviz DOT.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(cmd, args)
		if err != nil {
			return err
		}

		g, err := flowchart.Build(tasks.Parse(text))
		if err != nil {
			return err
		}
		data, err := flowchart.Encode(g, flowchartFormat)
		if err != nil {
			return err
		}

		path := flowchartOut
		if path == "" {
			path = "flowchart." + flowchartFormat
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("writing flowchart: %w", err)
		}
		success(cmd.OutOrStdout(), "Wrote %s (%d nodes)", path, len(g.Nodes))
		return nil
	},
}

func init() {
	flowchartCmd.Flags().StringVarP(&flowchartOut, "out", "o", "", "Output file (default flowchart.<format>)")
	flowchartCmd.Flags().StringVarP(&flowchartFormat, "format", "f", flowchart.FormatPNG, "Output format: png or dot")
	rootCmd.AddCommand(flowchartCmd)
}

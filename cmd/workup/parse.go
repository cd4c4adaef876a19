package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/steveyegge/workup/internal/tasks"
	"github.com/steveyegge/workup/internal/team"
)

var parseCSV bool

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse task assignments into a table",
	Long: `Read "Member: Task" lines from a file (or stdin) and print the parsed
assignments. Lines without a colon are ignored; a repeated member keeps its
first position and takes the last task.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(cmd, args)
		if err != nil {
			return err
		}

		l := tasks.Parse(text)
		rows := team.Rows(nil, l)
		out := cmd.OutOrStdout()

		if parseCSV {
			return team.WriteCSV(out, rows)
		}
		if l.Empty() {
			warn(out, "No tasks found")
			return nil
		}
		fmt.Fprintln(out, team.RenderTable(rows))
		return nil
	},
}

func init() {
	parseCmd.Flags().BoolVar(&parseCSV, "csv", false, "Write CSV instead of a table")
	rootCmd.AddCommand(parseCmd)
}

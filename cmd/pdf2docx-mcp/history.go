package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdf2docx-mcp/internal/journal"
	"github.com/pdiddy/pdf2docx-mcp/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent launcher runs from the journal",
	Long: `History lists recent launch and setup runs with their step outcomes:
which interpreter was found, whether the environment was created or
reused, how the dependency install went, and how the worker exited.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 10, "number of runs to show")
	historyCmd.Flags().String("format", "text", "output format: text or yaml")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	format, _ := cmd.Flags().GetString("format")

	cfg := launcherConfig()
	p, err := derivePaths(cfg)
	if err != nil {
		return err
	}

	j, err := journal.Open(p.JournalDB)
	if err != nil {
		return err
	}
	defer j.Close()

	runs, err := j.Recent(context.Background(), limit)
	if err != nil {
		return err
	}

	switch format {
	case "yaml":
		data, err := yaml.Marshal(runs)
		if err != nil {
			return fmt.Errorf("encoding history: %w", err)
		}
		os.Stdout.Write(data)
	case "text":
		if len(runs) == 0 {
			fmt.Println("No runs recorded.")
			return nil
		}
		renderRuns(os.Stdout, runs)
	default:
		return fmt.Errorf("unknown format %q (want text or yaml)", format)
	}
	return nil
}

func renderRuns(w io.Writer, runs []types.RunRecord) {
	table := tablewriter.NewWriter(w)
	table.Header("Run", "Mode", "Started", "Step", "Status", "Detail")
	for _, run := range runs {
		first := true
		for _, s := range run.Steps {
			runCol, modeCol, startCol := "", "", ""
			if first {
				runCol = strconv.FormatInt(run.ID, 10)
				modeCol = string(run.Mode)
				startCol = run.StartedAt.Local().Format("2006-01-02 15:04:05")
				first = false
			}
			table.Append(runCol, modeCol, startCol, string(s.Step), string(s.Status), truncate(s.Detail, 60))
		}
	}
	table.Render()

	fmt.Fprintf(w, "\nTotal runs shown: %d\n", len(runs))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

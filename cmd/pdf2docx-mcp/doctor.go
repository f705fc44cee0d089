package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdf2docx-mcp/internal/diagnose"
	"github.com/pdiddy/pdf2docx-mcp/internal/procutil"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the host for everything a launch needs",
	Long: `Doctor probes the host without changing anything: the system Python,
the worker files, the provisioned environment, and the package index.
Failed checks mean a launch would not succeed; warnings are resolved
automatically by the next launch.

The report goes to stdout. Exit code is 0 when no check failed.`,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().String("format", "text", "output format: text or yaml")
	doctorCmd.Flags().Duration("timeout", 10*time.Second, "overall probe timeout")

	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	cfg := launcherConfig()
	p, err := derivePaths(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client := &http.Client{Timeout: timeout}
	rep := diagnose.Run(ctx, procutil.OSRunner{}, client, cfg.Candidates, cfg.PipIndexURL, p)

	switch format {
	case "yaml":
		data, err := yaml.Marshal(rep)
		if err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		os.Stdout.Write(data)
	case "text":
		renderReport(os.Stdout, rep)
	default:
		return fmt.Errorf("unknown format %q (want text or yaml)", format)
	}

	if !rep.Healthy() {
		return fmt.Errorf("%d check(s) failed", rep.FailCount())
	}
	return nil
}

func renderReport(w io.Writer, rep diagnose.Report) {
	table := tablewriter.NewWriter(w)
	table.Header("Check", "Status", "Detail")
	for _, c := range rep.Checks {
		table.Append(c.Name, strings.ToUpper(string(c.Status)), c.Detail)
	}
	table.Render()

	fmt.Fprintf(w, "\nhost: %s/%s, %d cpus, %d MB free of %d MB\n",
		rep.Host.OS, rep.Host.Arch, rep.Host.CPUs, rep.Host.MemoryFreeMB, rep.Host.MemoryTotalMB)
}

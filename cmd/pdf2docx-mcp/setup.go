package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf2docx-mcp/internal/procutil"
	"github.com/pdiddy/pdf2docx-mcp/internal/pyenv"
	"github.com/pdiddy/pdf2docx-mcp/pkg/types"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Provision the Python environment ahead of first launch",
	Long: `Setup runs the same provisioning steps as a launch (interpreter
discovery, environment creation, dependency install) but never fails:
problems are reported on stderr and the exit code is always 0. Package
install hooks run it so a host without Python still installs cleanly;
anything unfinished is retried on the next launch.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	r := procutil.OSRunner{}
	cfg := launcherConfig()
	p, err := derivePaths(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		fmt.Fprintln(os.Stderr, "setup incomplete; provisioning will be retried on first launch")
		return nil
	}

	rec := types.RunRecord{Mode: types.ModeSetup, StartedAt: time.Now().UTC()}
	out, _ := pyenv.Provision(r, cfg.Candidates, p, cfg.PipIndexURL, pyenv.PolicyBestEffort, os.Stderr)
	rec.Steps = out.Steps
	recordRun(p, rec)

	if out.Failed() {
		fmt.Fprintln(os.Stderr, "setup incomplete; provisioning will be retried on first launch")
	} else {
		fmt.Fprintln(os.Stderr, "environment ready")
	}
	return nil
}

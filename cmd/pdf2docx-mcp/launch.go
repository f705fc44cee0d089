package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdf2docx-mcp/internal/journal"
	"github.com/pdiddy/pdf2docx-mcp/internal/procutil"
	"github.com/pdiddy/pdf2docx-mcp/internal/pyenv"
	"github.com/pdiddy/pdf2docx-mcp/internal/worker"
	"github.com/pdiddy/pdf2docx-mcp/pkg/types"
)

// exitStatus carries the worker's exit code through cobra's error path
// so main can relay it verbatim.
type exitStatus struct {
	code int
}

func (e exitStatus) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// runLaunch provisions strictly, then hands the session to the worker.
// Any provisioning failure aborts with exit code 1; once the worker
// runs, its exit code becomes ours.
func runLaunch(cmd *cobra.Command, args []string) error {
	r := procutil.OSRunner{}
	cfg := launcherConfig()
	p, err := derivePaths(cfg)
	if err != nil {
		return err
	}

	rec := types.RunRecord{Mode: types.ModeLaunch, StartedAt: time.Now().UTC()}
	out, err := pyenv.Provision(r, cfg.Candidates, p, cfg.PipIndexURL, pyenv.PolicyStrict, os.Stderr)
	rec.Steps = out.Steps
	runID := recordRun(p, rec)
	if err != nil {
		return err
	}

	start := time.Now()
	code, err := worker.Supervise(r, p)
	if err != nil {
		recordStep(p, runID, types.StepRecord{
			Step: types.StepSpawn, Status: types.StepFailed,
			Detail: err.Error(), Duration: time.Since(start),
		})
		return err
	}
	recordStep(p, runID, types.StepRecord{
		Step: types.StepSpawn, Status: types.StepOK,
		Detail: fmt.Sprintf("worker exited with code %d", code), Duration: time.Since(start),
	})

	if code != 0 {
		return exitStatus{code: code}
	}
	return nil
}

// launcherConfig reads the viper keys every subcommand shares.
func launcherConfig() types.LauncherConfig {
	return types.LauncherConfig{
		InstallRoot: viper.GetString("install_root"),
		EnvDir:      viper.GetString("env_dir"),
		Candidates:  viper.GetStringSlice("candidates"),
		PipIndexURL: viper.GetString("pip_index_url"),
	}
}

func derivePaths(cfg types.LauncherConfig) (types.Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return types.Paths{}, fmt.Errorf("resolving home directory: %w", err)
	}
	exe, err := os.Executable()
	if err != nil {
		return types.Paths{}, fmt.Errorf("resolving executable path: %w", err)
	}
	return types.DerivePaths(cfg, home, filepath.Dir(exe)), nil
}

// recordRun appends a run to the journal and returns its ID. Journal
// trouble must never block a launch, so it degrades to a warning.
func recordRun(p types.Paths, rec types.RunRecord) int64 {
	j, err := journal.Open(p.JournalDB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: journal unavailable: %v\n", err)
		return 0
	}
	defer j.Close()

	id, err := j.AppendRun(context.Background(), rec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: journal write failed: %v\n", err)
		return 0
	}
	return id
}

// recordStep appends a late step to an already recorded run. A zero
// runID means the run itself was never recorded.
func recordStep(p types.Paths, runID int64, step types.StepRecord) {
	if runID == 0 {
		return
	}
	j, err := journal.Open(p.JournalDB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: journal unavailable: %v\n", err)
		return
	}
	defer j.Close()

	if err := j.AppendStep(context.Background(), runID, step); err != nil {
		fmt.Fprintf(os.Stderr, "warning: journal write failed: %v\n", err)
	}
}

package journal

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pdiddy/pdf2docx-mcp/pkg/types"
)

// --- test helpers ---

func testJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "launcher.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func sampleRun(mode types.RunMode) types.RunRecord {
	return types.RunRecord{
		Mode:      mode,
		StartedAt: time.Now().UTC(),
		Steps: []types.StepRecord{
			{Step: types.StepDiscover, Status: types.StepOK, Detail: "Python 3.12.1 at /usr/bin/python3", Duration: 40 * time.Millisecond},
			{Step: types.StepEnv, Status: types.StepOK, Detail: "already present", Duration: 2 * time.Millisecond},
			{Step: types.StepDeps, Status: types.StepOK, Detail: "pdf2docx already importable", Duration: 180 * time.Millisecond},
		},
	}
}

// --- schema tests ---

func TestOpenCreatesSchema(t *testing.T) {
	j := testJournal(t)

	for _, table := range []string{"runs", "steps"} {
		var count int
		err := j.db.QueryRow(
			`SELECT count(*) FROM sqlite_master WHERE type='table' AND name = ?`, table,
		).Scan(&count)
		if err != nil {
			t.Fatalf("checking table %s: %v", table, err)
		}
		if count == 0 {
			t.Errorf("table %s does not exist", table)
		}
	}
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "nested", "launcher.db")

	j, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer j.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("database file not created at %s", path)
	}
}

// --- append and read-back tests ---

func TestAppendRunRoundTrip(t *testing.T) {
	j := testJournal(t)
	ctx := context.Background()

	want := sampleRun(types.ModeLaunch)
	runID, err := j.AppendRun(ctx, want)
	if err != nil {
		t.Fatalf("AppendRun: %v", err)
	}
	if runID == 0 {
		t.Error("AppendRun returned zero run ID")
	}

	runs, err := j.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}

	got := runs[0]
	if got.ID != runID {
		t.Errorf("ID = %d, want %d", got.ID, runID)
	}
	if got.Mode != types.ModeLaunch {
		t.Errorf("Mode = %q, want %q", got.Mode, types.ModeLaunch)
	}
	if !got.StartedAt.Equal(want.StartedAt) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, want.StartedAt)
	}
	if len(got.Steps) != len(want.Steps) {
		t.Fatalf("got %d steps, want %d", len(got.Steps), len(want.Steps))
	}
	for i, step := range got.Steps {
		if step != want.Steps[i] {
			t.Errorf("step %d = %+v, want %+v", i, step, want.Steps[i])
		}
	}
}

func TestAppendStepExtendsRun(t *testing.T) {
	j := testJournal(t)
	ctx := context.Background()

	runID, err := j.AppendRun(ctx, sampleRun(types.ModeLaunch))
	if err != nil {
		t.Fatal(err)
	}

	spawn := types.StepRecord{
		Step: types.StepSpawn, Status: types.StepOK,
		Detail: "worker exited with code 0", Duration: 90 * time.Second,
	}
	if err := j.AppendStep(ctx, runID, spawn); err != nil {
		t.Fatalf("AppendStep: %v", err)
	}

	runs, err := j.Recent(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	steps := runs[0].Steps
	if len(steps) != 4 {
		t.Fatalf("got %d steps, want 4", len(steps))
	}
	if steps[3] != spawn {
		t.Errorf("last step = %+v, want the appended spawn record", steps[3])
	}
}

func TestRecentNewestFirst(t *testing.T) {
	j := testJournal(t)
	ctx := context.Background()

	var ids []int64
	for _, mode := range []types.RunMode{types.ModeSetup, types.ModeLaunch, types.ModeLaunch} {
		id, err := j.AppendRun(ctx, sampleRun(mode))
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, id)
	}

	runs, err := j.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 {
		t.Fatalf("got %d runs, want 3", len(runs))
	}
	for i, run := range runs {
		wantID := ids[len(ids)-1-i]
		if run.ID != wantID {
			t.Errorf("run %d has ID %d, want %d (newest first)", i, run.ID, wantID)
		}
	}
	if runs[2].Mode != types.ModeSetup {
		t.Errorf("oldest run mode = %q, want %q", runs[2].Mode, types.ModeSetup)
	}
}

func TestRecentRespectsLimit(t *testing.T) {
	j := testJournal(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := j.AppendRun(ctx, sampleRun(types.ModeLaunch)); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := j.Recent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Errorf("got %d runs, want 2", len(runs))
	}
}

func TestRecentEmptyJournal(t *testing.T) {
	j := testJournal(t)

	runs, err := j.Recent(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Errorf("got %d runs from empty journal, want 0", len(runs))
	}
}

// --- persistence tests ---

func TestReopenPreservesRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "launcher.db")
	ctx := context.Background()

	j, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	failed := types.RunRecord{
		Mode:      types.ModeSetup,
		StartedAt: time.Now().UTC(),
		Steps: []types.StepRecord{
			{Step: types.StepDiscover, Status: types.StepFailed, Detail: "no suitable Python interpreter found"},
			{Step: types.StepEnv, Status: types.StepSkipped},
			{Step: types.StepDeps, Status: types.StepSkipped},
		},
	}
	if _, err := j.AppendRun(ctx, failed); err != nil {
		t.Fatal(err)
	}
	if err := j.Close(); err != nil {
		t.Fatal(err)
	}

	j2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer j2.Close()

	runs, err := j2.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs after reopen, want 1", len(runs))
	}
	if runs[0].Steps[0].Status != types.StepFailed {
		t.Errorf("discover status = %q, want %q", runs[0].Steps[0].Status, types.StepFailed)
	}
	if runs[0].Steps[1].Status != types.StepSkipped {
		t.Errorf("env status = %q, want %q", runs[0].Steps[1].Status, types.StepSkipped)
	}
}

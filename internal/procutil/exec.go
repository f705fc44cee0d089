// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package procutil runs external commands behind a replaceable Runner
// so callers branch on explicit results instead of exec internals.
// Implements: prd001-bootstrap R1.2-R1.4 (child process results);
//
//	docs/ARCHITECTURE § Process Execution.
package procutil

import (
	"errors"
	"io"
	"os"
	"os/exec"
)

// Result is the outcome of one child process. Exactly one of three
// variants holds: SpawnErr is set when the process never started;
// otherwise Code carries the exit code (negative when the process was
// terminated without one, e.g. by a signal), and zero means success.
type Result struct {
	// Output is the combined stdout and stderr of captured runs. Empty
	// for piped and attached runs, whose output goes elsewhere.
	Output string

	// Code is the exit code. Meaningful only when SpawnErr is nil.
	Code int

	// SpawnErr is the reason the process could not be started.
	SpawnErr error
}

// OK reports whether the process started and exited zero.
func (r Result) OK() bool {
	return r.SpawnErr == nil && r.Code == 0
}

// Runner abstracts child process execution for the provisioning and
// supervision paths. The production implementation is OSRunner; tests
// substitute mocks.
type Runner interface {
	// LookPath resolves bin against PATH.
	LookPath(bin string) (string, error)

	// RunSilent runs bin without surfacing output to the user. The
	// combined output is captured in the Result for inspection.
	RunSilent(bin string, args ...string) Result

	// RunPiped runs bin with combined output streamed to w as the
	// process produces it.
	RunPiped(w io.Writer, bin string, args ...string) Result

	// RunAttached runs bin with the parent's standard streams attached
	// directly and env as the full child environment. The child owns
	// stdin/stdout/stderr until it exits.
	RunAttached(env []string, bin string, args ...string) Result
}

// OSRunner is the production Runner backed by os/exec.
type OSRunner struct{}

func (OSRunner) LookPath(bin string) (string, error) {
	return exec.LookPath(bin)
}

func (OSRunner) RunSilent(bin string, args ...string) Result {
	out, err := exec.Command(bin, args...).CombinedOutput()
	return resultFrom(string(out), err)
}

func (OSRunner) RunPiped(w io.Writer, bin string, args ...string) Result {
	cmd := exec.Command(bin, args...)
	cmd.Stdout = w
	cmd.Stderr = w
	return resultFrom("", cmd.Run())
}

func (OSRunner) RunAttached(env []string, bin string, args ...string) Result {
	cmd := exec.Command(bin, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = env
	return resultFrom("", cmd.Run())
}

// resultFrom converts an os/exec error into a Result variant: nil means
// success, *exec.ExitError means the process ran and exited non-zero
// (or died to a signal, Code -1), anything else is a spawn failure.
func resultFrom(output string, err error) Result {
	if err == nil {
		return Result{Output: output}
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return Result{Output: output, Code: exitErr.ExitCode()}
	}
	return Result{Output: output, SpawnErr: err}
}

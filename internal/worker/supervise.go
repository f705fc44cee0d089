// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package worker spawns the Python conversion process and relays its
// lifecycle to the caller.
// Implements: prd002-supervision (R1-R3);
//
//	docs/ARCHITECTURE § Supervision.
package worker

import (
	"fmt"
	"os"
	"strings"

	"github.com/pdiddy/pdf2docx-mcp/internal/procutil"
	"github.com/pdiddy/pdf2docx-mcp/pkg/types"
)

// pythonPathVar makes the worker's own source tree importable.
const pythonPathVar = "PYTHONPATH"

// Supervise starts the worker script under the environment interpreter
// with the parent's standard streams attached directly, and blocks
// until it exits. The supervisor is a transparent relay: it never reads
// or transforms the worker's traffic, and the returned code mirrors the
// worker's exit code verbatim. A worker terminated without an explicit
// code (by a signal) maps to 0. A non-nil error means the worker never
// started.
func Supervise(r procutil.Runner, p types.Paths) (int, error) {
	env := overrideEnv(os.Environ(), pythonPathVar, p.WorkerDir)

	res := r.RunAttached(env, p.EnvPython, p.WorkerScript)
	if res.SpawnErr != nil {
		return 0, fmt.Errorf("starting worker %s: %w", p.WorkerScript, res.SpawnErr)
	}
	if res.Code < 0 {
		return 0, nil
	}
	return res.Code, nil
}

// overrideEnv returns base with name set to value, dropping any
// inherited entry for name so the child sees exactly one.
func overrideEnv(base []string, name, value string) []string {
	out := make([]string, 0, len(base)+1)
	prefix := name + "="
	for _, kv := range base {
		if !strings.HasPrefix(kv, prefix) {
			out = append(out, kv)
		}
	}
	return append(out, prefix+value)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pyenv discovers a system Python and provisions the isolated
// environment the conversion worker runs in.
// Implements: prd001-bootstrap (R1-R4);
//
//	docs/ARCHITECTURE § Bootstrap.
package pyenv

import (
	"fmt"
	"strings"

	"github.com/pdiddy/pdf2docx-mcp/internal/procutil"
)

// pythonSig is the marker every supported interpreter prints for a
// version query.
const pythonSig = "Python 3."

// ImportTarget is the module whose importability marks the worker's
// dependencies as satisfied.
const ImportTarget = "pdf2docx"

// DefaultCandidates is the interpreter probe order: version-qualified
// names newest first, generic names last.
var DefaultCandidates = []string{
	"python3.13",
	"python3.12",
	"python3.11",
	"python3.10",
	"python3",
	"python",
}

// Interpreter is a system Python that answered a version probe.
type Interpreter struct {
	// Command is the candidate name that was probed (e.g. "python3").
	Command string

	// Path is the absolute binary path resolved from PATH.
	Path string

	// Version is the trimmed probe output (e.g. "Python 3.12.4").
	Version string
}

// NotFoundError reports that no candidate interpreter answered its
// probe. The message carries install guidance for the user.
type NotFoundError struct {
	Candidates []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf(
		"no usable Python 3 interpreter found (probed: %s); install Python 3.10 or newer from https://www.python.org/downloads/ or your system package manager",
		strings.Join(e.Candidates, ", "),
	)
}

// ProbeVersion runs a version query against the binary at path and
// returns the trimmed output when it answers like a Python 3
// interpreter.
func ProbeVersion(r procutil.Runner, path string) (string, bool) {
	res := r.RunSilent(path, "--version")
	if !res.OK() || !strings.Contains(res.Output, pythonSig) {
		return "", false
	}
	return strings.TrimSpace(res.Output), true
}

// Discover probes candidates in order with a version query and returns
// the first whose output carries the Python 3 signature. Probing is
// sequential and stops at the first success; a candidate that is
// missing from PATH, exits non-zero, or prints something unexpected is
// passed over without comment. Empty candidates means DefaultCandidates.
func Discover(r procutil.Runner, candidates []string) (Interpreter, error) {
	if len(candidates) == 0 {
		candidates = DefaultCandidates
	}

	for _, cand := range candidates {
		path, err := r.LookPath(cand)
		if err != nil {
			continue
		}
		version, ok := ProbeVersion(r, path)
		if !ok {
			continue
		}
		return Interpreter{
			Command: cand,
			Path:    path,
			Version: version,
		}, nil
	}

	return Interpreter{}, &NotFoundError{Candidates: candidates}
}

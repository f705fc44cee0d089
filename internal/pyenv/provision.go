// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pyenv

import (
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/pdf2docx-mcp/internal/procutil"
	"github.com/pdiddy/pdf2docx-mcp/pkg/types"
)

// Policy selects how provisioning failures propagate.
type Policy int

const (
	// PolicyStrict propagates the first failure to the caller. The
	// launcher uses it: it must not proceed without a working
	// environment.
	PolicyStrict Policy = iota

	// PolicyBestEffort downgrades every failure to a warning on the
	// progress writer and returns a nil error. The setup hook uses it:
	// provisioning problems are left for the next launch to retry.
	PolicyBestEffort
)

// provisionSteps is the fixed step order; a failure marks the remainder
// skipped.
var provisionSteps = []types.Step{types.StepDiscover, types.StepEnv, types.StepDeps}

// Outcome reports what Provision did, step by step, for journaling and
// for the setup hook's summary.
type Outcome struct {
	// Interp is the discovered system interpreter. Zero when discovery
	// failed.
	Interp Interpreter

	// Steps holds one record per provisioning step in execution order.
	Steps []types.StepRecord
}

// Failed reports whether any provisioning step failed.
func (o Outcome) Failed() bool {
	for _, s := range o.Steps {
		if s.Status == types.StepFailed {
			return true
		}
	}
	return false
}

func (o *Outcome) ok(step types.Step, detail string, start time.Time) {
	o.Steps = append(o.Steps, types.StepRecord{
		Step:     step,
		Status:   types.StepOK,
		Detail:   detail,
		Duration: time.Since(start),
	})
}

// fail records the failed step and marks every later step skipped.
func (o *Outcome) fail(step types.Step, err error, start time.Time) {
	o.Steps = append(o.Steps, types.StepRecord{
		Step:     step,
		Status:   types.StepFailed,
		Detail:   err.Error(),
		Duration: time.Since(start),
	})
	seen := false
	for _, s := range provisionSteps {
		if s == step {
			seen = true
			continue
		}
		if seen {
			o.Steps = append(o.Steps, types.StepRecord{Step: s, Status: types.StepSkipped})
		}
	}
}

// Provision runs the full sequence: discover a system interpreter,
// ensure the virtual environment, ensure dependencies. Each step is
// idempotent, so running it on every invocation is cheap after the
// first. Under PolicyBestEffort the returned error is always nil and
// failures appear only in the Outcome and as warnings on w.
func Provision(r procutil.Runner, candidates []string, p types.Paths, indexURL string, policy Policy, w io.Writer) (Outcome, error) {
	var out Outcome

	start := time.Now()
	interp, err := Discover(r, candidates)
	if err != nil {
		out.fail(types.StepDiscover, err, start)
		if policy == PolicyBestEffort {
			fmt.Fprintf(w, "warning: %v\n", err)
			return out, nil
		}
		return out, err
	}
	out.Interp = interp
	out.ok(types.StepDiscover, fmt.Sprintf("%s at %s", interp.Version, interp.Path), start)

	start = time.Now()
	created, err := EnsureEnv(r, interp, p, w)
	if err != nil {
		out.fail(types.StepEnv, err, start)
		if policy == PolicyBestEffort {
			fmt.Fprintf(w, "warning: %v\n", err)
			return out, nil
		}
		return out, err
	}
	detail := "already present"
	if created {
		detail = "created " + p.EnvDir
	}
	out.ok(types.StepEnv, detail, start)

	start = time.Now()
	installed, err := EnsureDeps(r, p, indexURL, w)
	if err != nil {
		out.fail(types.StepDeps, err, start)
		if policy == PolicyBestEffort {
			fmt.Fprintf(w, "warning: %v\n", err)
			return out, nil
		}
		return out, err
	}
	detail = ImportTarget + " already importable"
	if installed {
		detail = "installed from " + p.Manifest
	}
	out.ok(types.StepDeps, detail, start)

	return out, nil
}

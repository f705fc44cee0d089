// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pyenv

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/pdf2docx-mcp/internal/procutil"
	"github.com/pdiddy/pdf2docx-mcp/pkg/types"
)

// EnsureEnv guarantees a virtual environment exists at p.EnvDir,
// creating it with the system interpreter when the environment's own
// interpreter binary is missing. Presence of p.EnvPython is the only
// readiness signal; an existing environment is never validated or
// rebuilt (R2.2). Creation output streams to w. The created return
// reports whether this call built a new environment.
func EnsureEnv(r procutil.Runner, sys Interpreter, p types.Paths, w io.Writer) (created bool, err error) {
	if _, err := os.Stat(p.EnvPython); err == nil {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(p.LockFile), 0o755); err != nil {
		return false, fmt.Errorf("creating state directory: %w", err)
	}
	release, err := acquireLock(p.LockFile)
	if err != nil {
		return false, err
	}
	defer release()

	// A concurrent launcher may have built the environment while we
	// waited on the lock.
	if _, err := os.Stat(p.EnvPython); err == nil {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(p.EnvDir), 0o755); err != nil {
		return false, fmt.Errorf("creating environment parent: %w", err)
	}

	fmt.Fprintf(w, "creating environment: %s\n", p.EnvDir)
	res := r.RunPiped(w, sys.Path, "-m", "venv", p.EnvDir)
	if res.SpawnErr != nil {
		return false, fmt.Errorf("creating environment: %w", res.SpawnErr)
	}
	if res.Code != 0 {
		return false, fmt.Errorf("creating environment: %s -m venv exited with code %d", sys.Command, res.Code)
	}
	return true, nil
}

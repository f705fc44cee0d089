// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pyenv

import (
	"fmt"
	"io"

	"github.com/pdiddy/pdf2docx-mcp/internal/procutil"
	"github.com/pdiddy/pdf2docx-mcp/pkg/types"
)

// EnsureDeps guarantees the conversion library is importable from the
// environment interpreter, installing the manifest with pip when it is
// not. A failing import probe is treated uniformly as "not installed",
// whatever the underlying cause (R3.2); versions are never checked.
// Installer output streams to w. The installed return reports whether
// an installation ran.
func EnsureDeps(r procutil.Runner, p types.Paths, indexURL string, w io.Writer) (installed bool, err error) {
	if res := r.RunSilent(p.EnvPython, "-c", "import "+ImportTarget); res.OK() {
		return false, nil
	}

	fmt.Fprintf(w, "installing dependencies: %s\n", p.Manifest)
	args := []string{"-m", "pip", "install", "-r", p.Manifest}
	if indexURL != "" {
		args = append(args, "--index-url", indexURL)
	}

	res := r.RunPiped(w, p.EnvPython, args...)
	if res.SpawnErr != nil {
		return false, fmt.Errorf("installing dependencies: %w", res.SpawnErr)
	}
	if res.Code != 0 {
		fmt.Fprintf(w, "dependency install failed; run manually: %s -m pip install -r %s\n", p.EnvPython, p.Manifest)
		return false, fmt.Errorf("installing dependencies: pip exited with code %d", res.Code)
	}
	return true, nil
}

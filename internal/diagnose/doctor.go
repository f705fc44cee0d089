// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package diagnose inspects the host for everything a launch needs and
// reports per-check results without changing any state.
// Implements: prd003-diagnostics (R1-R5);
//
//	docs/ARCHITECTURE § Diagnostics.
package diagnose

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/pdiddy/pdf2docx-mcp/internal/httputil"
	"github.com/pdiddy/pdf2docx-mcp/internal/procutil"
	"github.com/pdiddy/pdf2docx-mcp/internal/pyenv"
	"github.com/pdiddy/pdf2docx-mcp/pkg/types"
)

// defaultIndexURL is probed when no pip index override is configured.
const defaultIndexURL = "https://pypi.org/simple/"

// CheckStatus grades a single diagnostic check.
type CheckStatus string

const (
	// CheckOK means the prerequisite is satisfied.
	CheckOK CheckStatus = "ok"

	// CheckWarn means launch can proceed; provisioning or the network
	// will resolve it.
	CheckWarn CheckStatus = "warn"

	// CheckFail means launch would fail until the operator intervenes.
	CheckFail CheckStatus = "fail"
)

// Check is one diagnostic result.
type Check struct {
	Name   string      `json:"name" yaml:"name"`
	Status CheckStatus `json:"status" yaml:"status"`
	Detail string      `json:"detail" yaml:"detail"`
}

// HostInfo carries the machine facts printed alongside the checks.
type HostInfo struct {
	OS            string `json:"os" yaml:"os"`
	Arch          string `json:"arch" yaml:"arch"`
	CPUs          int    `json:"cpus" yaml:"cpus"`
	MemoryTotalMB uint64 `json:"memory_total_mb" yaml:"memory_total_mb"`
	MemoryFreeMB  uint64 `json:"memory_free_mb" yaml:"memory_free_mb"`
}

// Report is the full doctor output.
type Report struct {
	Checks []Check  `json:"checks" yaml:"checks"`
	Host   HostInfo `json:"host" yaml:"host"`
}

// Healthy reports whether no check failed. Warnings do not count
// against health (R4.2).
func (r Report) Healthy() bool {
	return r.FailCount() == 0
}

// FailCount returns the number of failed checks.
func (r Report) FailCount() int {
	n := 0
	for _, c := range r.Checks {
		if c.Status == CheckFail {
			n++
		}
	}
	return n
}

func (r *Report) add(name string, status CheckStatus, detail string) {
	r.Checks = append(r.Checks, Check{Name: name, Status: status, Detail: detail})
}

func (r *Report) addStat(name, path string) {
	if _, err := os.Stat(path); err != nil {
		r.add(name, CheckFail, "missing: "+path)
		return
	}
	r.add(name, CheckOK, path)
}

// Run performs every check and returns the report. Checks run in a
// fixed order so output is stable across invocations (R1.1-R1.6).
func Run(ctx context.Context, r procutil.Runner, client *http.Client, candidates []string, indexURL string, p types.Paths) Report {
	var rep Report

	if interp, err := pyenv.Discover(r, candidates); err != nil {
		rep.add("interpreter", CheckFail, err.Error())
	} else {
		rep.add("interpreter", CheckOK, fmt.Sprintf("%s at %s", interp.Version, interp.Path))
	}

	rep.addStat("worker script", p.WorkerScript)
	rep.addStat("dependency manifest", p.Manifest)

	// The environment is created lazily, so absence is only a warning.
	// A present but unresponsive interpreter is damage the launcher
	// will not repair on its own (R2.3).
	envReady := false
	if _, err := os.Stat(p.EnvPython); err != nil {
		rep.add("environment", CheckWarn, "not created yet; created on first launch")
	} else if version, ok := pyenv.ProbeVersion(r, p.EnvPython); ok {
		envReady = true
		rep.add("environment", CheckOK, fmt.Sprintf("%s at %s", version, p.EnvDir))
	} else {
		rep.add("environment", CheckFail,
			fmt.Sprintf("interpreter at %s is unresponsive; delete %s and relaunch", p.EnvPython, p.EnvDir))
	}

	if !envReady {
		rep.add("conversion library", CheckWarn, "skipped; environment not ready")
	} else if res := r.RunSilent(p.EnvPython, "-c", "import "+pyenv.ImportTarget); res.OK() {
		rep.add("conversion library", CheckOK, pyenv.ImportTarget+" importable")
	} else {
		rep.add("conversion library", CheckWarn, pyenv.ImportTarget+" not importable; installed on next launch")
	}

	url := indexURL
	if url == "" {
		url = defaultIndexURL
	}
	if err := httputil.CheckReachable(ctx, client, url); err != nil {
		rep.add("package index", CheckWarn, err.Error())
	} else {
		rep.add("package index", CheckOK, url+" reachable")
	}

	rep.Host = hostInfo()
	return rep
}

func hostInfo() HostInfo {
	info := HostInfo{OS: runtime.GOOS, Arch: runtime.GOARCH}
	if n, err := cpu.Counts(true); err == nil {
		info.CPUs = n
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		info.MemoryTotalMB = vm.Total / (1 << 20)
		info.MemoryFreeMB = vm.Available / (1 << 20)
	}
	return info
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"path/filepath"
	"runtime"
)

const (
	// stateDirName is the per-user directory holding the environment,
	// lock file, and run journal.
	stateDirName = ".pdf2docx-mcp"
	envDirName   = "venv"
	workerDir    = "python"
	workerScript = "mcp_server.py"
	manifestFile = "requirements.txt"
	journalFile  = "launcher.db"
)

// Paths holds every filesystem location the launcher touches, computed
// once at process start and threaded as a parameter so nothing reads
// path state from globals.
type Paths struct {
	// InstallRoot is the directory the worker tree ships in, normally
	// the directory containing the launcher executable.
	InstallRoot string `json:"install_root" yaml:"install_root"`

	// WorkerDir is the worker's source directory under InstallRoot. It
	// is exported to the worker process as PYTHONPATH.
	WorkerDir string `json:"worker_dir" yaml:"worker_dir"`

	// WorkerScript is the long-running worker entry point.
	WorkerScript string `json:"worker_script" yaml:"worker_script"`

	// Manifest is the dependency manifest handed to pip. Its contents
	// are opaque to the launcher.
	Manifest string `json:"manifest" yaml:"manifest"`

	// EnvDir is the virtual environment directory, stable across
	// invocations so provisioning happens once per user.
	EnvDir string `json:"env_dir" yaml:"env_dir"`

	// EnvPython is the interpreter binary inside EnvDir. Its presence
	// is the sole signal that the environment exists.
	EnvPython string `json:"env_python" yaml:"env_python"`

	// LockFile guards first-run environment creation against
	// concurrent launches.
	LockFile string `json:"lock_file" yaml:"lock_file"`

	// JournalDB is the SQLite run journal. Advisory: launches proceed
	// when it is unavailable.
	JournalDB string `json:"journal_db" yaml:"journal_db"`
}

// DerivePaths computes all launcher paths from the configuration, the
// user's home directory, and the launcher executable's directory.
func DerivePaths(cfg LauncherConfig, home, exeDir string) Paths {
	installRoot := cfg.InstallRoot
	if installRoot == "" {
		installRoot = exeDir
	}

	stateDir := filepath.Join(home, stateDirName)
	envDir := cfg.EnvDir
	if envDir == "" {
		envDir = filepath.Join(stateDir, envDirName)
	}

	wd := filepath.Join(installRoot, workerDir)
	return Paths{
		InstallRoot:  installRoot,
		WorkerDir:    wd,
		WorkerScript: filepath.Join(wd, workerScript),
		Manifest:     filepath.Join(wd, manifestFile),
		EnvDir:       envDir,
		EnvPython:    envInterpreter(envDir),
		LockFile:     envDir + ".lock",
		JournalDB:    filepath.Join(stateDir, journalFile),
	}
}

// envInterpreter returns the interpreter path inside a virtual
// environment. Windows environments place binaries under Scripts\;
// everything else uses bin/.
func envInterpreter(envDir string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(envDir, "Scripts", "python.exe")
	}
	return filepath.Join(envDir, "bin", "python")
}

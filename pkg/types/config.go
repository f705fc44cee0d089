package types

// LauncherConfig holds user-tunable launcher settings. Every field is
// optional; zero values reproduce the stock behavior.
type LauncherConfig struct {
	// InstallRoot overrides the worker tree location. By default the
	// worker script and manifest are resolved relative to the directory
	// containing the launcher executable.
	InstallRoot string `json:"install_root,omitempty" yaml:"install_root,omitempty"`

	// EnvDir overrides the virtual environment directory
	// (default: ~/.pdf2docx-mcp/venv).
	EnvDir string `json:"env_dir,omitempty" yaml:"env_dir,omitempty"`

	// Candidates overrides the interpreter probe order. Empty means the
	// built-in order: newest version-qualified names first.
	Candidates []string `json:"candidates,omitempty" yaml:"candidates,omitempty"`

	// PipIndexURL is passed to pip as --index-url during dependency
	// installation. Empty means pip's default index.
	PipIndexURL string `json:"pip_index_url,omitempty" yaml:"pip_index_url,omitempty"`
}

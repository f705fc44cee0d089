// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pdf2docx-mcp launcher.
// Implements: prd001-bootstrap, prd002-supervision, prd003-diagnostics,
//             prd004-journal (CLI surface).
// See docs/ARCHITECTURE § Launcher Interface, § Project Structure.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command. A bare invocation is a launch: the MCP
// host runs the binary with no arguments and owns stdin/stdout, so
// everything the launcher itself says goes to stderr.
var rootCmd = &cobra.Command{
	Use:   "pdf2docx-mcp",
	Short: "Launcher for the pdf2docx MCP conversion worker",
	Long: `pdf2docx-mcp provisions a Python environment and runs the pdf2docx MCP
server inside it. Invoked with no arguments it finds a system Python,
creates the environment on first use, installs the worker's dependencies,
and hands stdin/stdout to the worker for the MCP session. Its exit code
is the worker's exit code.

Subcommands cover everything else: setup provisions ahead of time, doctor
inspects the host, history shows past runs.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runLaunch,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pdf2docx-mcp.yaml or ~/.config/pdf2docx-mcp/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pdf2docx-mcp")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pdf2docx-mcp"))
		}
	}

	viper.SetEnvPrefix("PDF2DOCX_MCP")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var st exitStatus
		if errors.As(err, &st) {
			os.Exit(st.code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

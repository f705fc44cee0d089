package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of pdf2docx-mcp",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pdf2docx-mcp %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

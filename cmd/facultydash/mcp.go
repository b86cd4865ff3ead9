package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/joeaphiboon/faculty-comparison/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the dataset to MCP clients over stdio.",
	RunE: func(_ *cobra.Command, _ []string) error {
		// stdout carries the protocol, so logs go to stderr.
		a, err := setup(os.Stderr)
		if err != nil {
			return err
		}
		defer a.close()
		return mcp.StartMCPServer(context.Background(), a.cache, a.catalog, version)
	},
}

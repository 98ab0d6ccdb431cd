package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quizdeck/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

By default, the server communicates over stdio using JSON-RPC.
Use --port to start an HTTP server instead.

Tools:
  list_questions  Questions from a source, filtered by category and difficulty

Resources:
  quizdeck://settings  The configured source and filters

Examples:
  # Stdio mode (default)
  quizdeck mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  quizdeck mcp serve --port 8080`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	if newDataSource == nil {
		return errNotConfigured
	}

	ds := newDataSource(false)
	defer ds.Close()

	server, err := mcp.NewServer(&mcp.Ports{
		Questions: ds,
		Settings:  settingsService,
	})
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xvierd/focus/internal/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol (MCP) server for integration with AI assistants.
The server exposes tools to drive the timer, read statistics, set goals,
edit settings and fetch today's historical events.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// stdout carries the protocol; everything else goes to stderr.
		stderr := cmd.ErrOrStderr()
		fmt.Fprintln(stderr, "🚀 Starting MCP server...")
		fmt.Fprintln(stderr, "   The server will communicate via stdio")
		fmt.Fprintln(stderr, "   Press Ctrl+C to stop")

		ctx, stop := setupSignalHandler()
		defer stop()

		server := mcp.NewServer(app.state)
		if err := server.Start(ctx); err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

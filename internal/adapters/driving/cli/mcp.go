package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/rulebot/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start a Model Context Protocol server exposing the rule manual to AI assistants.

Tools:
  retrieve - relevant rule passages for a query
  ask      - a cited answer to a question

Resources:
  rulebot://index        - index build information
  rulebot://rules/{id}   - the full text of one rule

By default the server speaks JSON-RPC over stdio. Use --port to serve
over HTTP instead, for example to test with MCP Inspector.

Examples:
  rulebot mcp serve
  rulebot mcp serve --port 8080`,
	Args: cobra.NoArgs,
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

	server, err := mcp.NewServer(&mcp.Ports{
		Retriever: retrieverService,
		Answerer:  answerService,
		Rules:     ruleBook,
	})
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}

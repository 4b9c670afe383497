package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	autobotmcp "github.com/gorewood/autobot/internal/mcp"
)

// newServeCmd creates the serve command for running as an MCP server.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run as MCP server (stdio transport)",
		Long: `Run autobot as a Model Context Protocol (MCP) server over stdio.

This exposes the spec store to any MCP-capable agent environment (Claude
Code, Cursor, Windsurf, Gemini CLI, etc). Commands that run an AI tool are
not exposed.

Configure in your agent's MCP settings:
  {
    "mcpServers": {
      "autobot": {
        "command": "autobot",
        "args": ["serve"]
      }
    }
  }

Available tools: list_specs, show_spec, create_spec, dryrun, list_adapters, list_runs`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := newApp(cmd, withHistory())
			defer a.close()

			deps := autobotmcp.Deps{Engine: a.engine, Adapters: a.adapters}
			if a.history != nil {
				deps.Runs = a.history
			}
			server := autobotmcp.NewServer(buildVersion(), deps)
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}

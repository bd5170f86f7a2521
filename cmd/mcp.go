package cmd

import (
	"github.com/huangsam/heatwatch/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the heatwatch MCP server",
	Long:  `Launch an MCP server on stdio that lets AI agents query statistics and record readings via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Logs go to stderr so stdio stays reserved for the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		svc, cleanup, err := buildService(rootCtx, cfg)
		if err != nil {
			return err
		}
		defer cleanup()
		return mcp.StartMCPServer(rootCtx, svc)
	},
}

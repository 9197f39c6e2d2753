/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/josephgoksu/streakwing/internal/logger"
	streakmcp "github.com/josephgoksu/streakwing/internal/mcp"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start an MCP server exposing streak tools over stdio",
	Long: `Start a Model Context Protocol server so AI assistants can list, save,
update and delete streaks and trigger today's registration.

stdout carries JSON-RPC only; logs go to stderr.

The server runs until the client disconnects.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) error {
			logger.SetTrigger("mcp")
			handlers := streakmcp.NewHandlers(a.svc, a.store)
			server := streakmcp.NewServer(handlers, version, a.logger)

			a.logger.Info("mcp server starting")
			if err := server.Run(cmd.Context(), mcpsdk.NewStdioTransport()); err != nil {
				return fmt.Errorf("MCP server failed: %w", err)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	globalConfig "ytmcp/config"
	uiMCP "ytmcp/ui/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the YouTube MCP server over stdio",
	Long: `Start the MCP (Model Context Protocol) server on standard input/output.
This is the transport MCP clients such as Claude Desktop expect.`,
	Run: mcpServer,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func mcpServer(_ *cobra.Command, _ []string) {
	healthUsecase.SetMode("stdio")

	// stdout carries the protocol; anything chatty must go to stderr.
	logrus.SetOutput(os.Stderr)

	server := uiMCP.NewServer(dispatcher, globalConfig.Global.App.Version)

	logrus.Info("[MCP] Starting stdio server")
	if err := server.ServeStdio(); err != nil {
		logrus.Fatalf("[MCP] Server stopped: %v", err)
	}
}

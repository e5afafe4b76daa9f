package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Otachiking/Chatbot-RAG/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can ask questions
about ingested documents and ingest local files.

Tools:
  ask          answer a question, optionally grounded in a document
  ingest_file  index a local PDF or image

Resources:
  ragbot://documents            ingested documents
  ragbot://documents/{fileId}   one document

By default the server communicates over stdio. Use --port to serve the
streamable HTTP transport instead.

Examples:
  ragbot mcp serve
  ragbot mcp serve --port 8081`,
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

	svc, err := loadServices(cmd)
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Query:     svc.Query,
		Ingest:    svc.Ingest,
		Documents: svc.Documents,
	})
	if err != nil {
		return err
	}

	if svc.Background != nil {
		go svc.Background(cmd.Context())
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}

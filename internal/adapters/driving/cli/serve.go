package cli

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/Otachiking/Chatbot-RAG/internal/adapters/driving/httpapi"
	"github.com/Otachiking/Chatbot-RAG/internal/logger"
)

var (
	serveAddr        string
	serveCORSOrigins []string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serves the HTTP API:

  GET  /              application info
  GET  /api/health    liveness check
  POST /api/upload    ingest a multipart "file" (PDF or image)
  POST /api/query     answer a question
  GET  /api/documents list ingested documents
  GET  /metrics       Prometheus metrics

Prompt templates in the prompt directory are reloaded when edited.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (default from RAGBOT_HTTP_ADDR or :8000)")
	serveCmd.Flags().StringSliceVar(&serveCORSOrigins, "cors-origin", nil, "allowed CORS origins (default any)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	svc, err := loadServices(cmd)
	if err != nil {
		return err
	}
	if svc.Ingest == nil || svc.Query == nil {
		return errors.New("ingest and query services are required")
	}

	addr := serveAddr
	if addr == "" {
		addr = settings.Server.Addr
	}

	if !logger.IsVerbose() {
		gin.SetMode(gin.ReleaseMode)
	}

	server, err := httpapi.NewServer(&httpapi.Ports{
		Ingest:    svc.Ingest,
		Query:     svc.Query,
		Documents: svc.Documents,
	}, httpapi.Config{
		Addr:         addr,
		Version:      version,
		AllowOrigins: serveCORSOrigins,
		Metrics:      svc.Metrics,
	})
	if err != nil {
		return err
	}

	if svc.Background != nil {
		go svc.Background(cmd.Context())
	}

	cmd.Printf("ragbot %s listening on %s\n", version, addr)
	return server.Run(cmd.Context())
}

// Command ragbot answers questions about ingested documents.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Otachiking/Chatbot-RAG/internal/adapters/driving/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cli.Execute(ctx, build); err != nil {
		cancel()
		os.Exit(1)
	}
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Otachiking/Chatbot-RAG/internal/adapters/driven/ai"
	"github.com/Otachiking/Chatbot-RAG/internal/adapters/driven/extract"
	"github.com/Otachiking/Chatbot-RAG/internal/config"
	"github.com/Otachiking/Chatbot-RAG/internal/core/domain"
)

// Availability checks used by check. Replaced in tests.
var (
	checkProviders = func(s *domain.AppSettings) []ai.ProviderStatus {
		return ai.NewConfigValidator().Check(s)
	}
	checkTools = extract.CheckAvailable
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check configuration, providers and extraction tools",
	Long: `Prints the resolved configuration, pings the configured embedding and LLM
providers, and reports which text extraction tools are installed.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cmd.Println(titleStyle.Render("Configuration"))
	cmd.Printf("  Vector store:   %s (%s)\n", settings.Storage.VectorStore, settings.Storage.DataDir)
	cmd.Printf("  Query log:      %s\n", config.QueryLogPath(settings.Log))
	cmd.Printf("  Language:       %s\n", settings.RAG.Language)
	cmd.Printf("  Chunking:       %d chars, %d overlap\n", settings.Chunk.Size, settings.Chunk.Overlap)
	cmd.Printf("  Retrieval:      top %d (broad %d), threshold %.2f\n",
		settings.RAG.TopK, settings.RAG.BroadTopK, settings.RAG.SimilarityThreshold)
	cmd.Println()

	failed := 0
	cmd.Println(titleStyle.Render("Providers"))
	for _, st := range checkProviders(settings) {
		label := fmt.Sprintf("%-9s %s (%s)", st.Role, st.Provider, st.Model)
		switch {
		case !st.Configured:
			failed++
			cmd.Printf("  %s %s %s\n", statusMark(false), label, warningStyle.Render("not configured"))
		case st.Err != nil:
			failed++
			cmd.Printf("  %s %s %s\n", statusMark(false), label, errorStyle.Render(st.Err.Error()))
		default:
			cmd.Printf("  %s %s\n", statusMark(true), label)
		}
	}
	cmd.Println()

	tools := checkTools()
	cmd.Println(titleStyle.Render("Extraction tools"))
	cmd.Printf("  %s PDF text (%s)\n", statusMark(tools.PDFText), extract.ToolPDFToText)
	cmd.Printf("  %s Image OCR (%s)\n", statusMark(tools.OCR), extract.ToolTesseract)
	cmd.Printf("  %s Scanned PDF OCR (%s + %s)\n", statusMark(tools.PDFOCR), extract.ToolPDFToPPM, extract.ToolTesseract)
	if !tools.PDFText || !tools.PDFOCR {
		cmd.Println()
		cmd.Println(mutedStyle.Render(extract.InstallInstructions()))
	}

	if failed > 0 {
		return fmt.Errorf("%d provider check(s) failed", failed)
	}
	return nil
}

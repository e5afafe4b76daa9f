package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Otachiking/Chatbot-RAG/internal/core/domain"
)

var ingestJSON bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Index PDF or image files",
	Long: `Extracts text from each file (OCR for images and scanned pages), splits it
into overlapping chunks, embeds them and stores them for grounded questions.
Prints the file ID to pass to "ragbot ask --file-id".`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	svc, err := loadServices(cmd)
	if err != nil {
		return err
	}
	if svc.Ingest == nil {
		return fmt.Errorf("ingest service not configured")
	}

	results := make([]*domain.IngestionResult, 0, len(args))
	for _, path := range args {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		result, err := svc.Ingest.Ingest(cmd.Context(), filepath.Base(path), content)
		if err != nil {
			return fmt.Errorf("ingesting %s: %w", path, err)
		}
		results = append(results, result)

		if !ingestJSON {
			printIngestion(cmd, result)
		}
	}

	if ingestJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
	}
	return nil
}

func printIngestion(cmd *cobra.Command, r *domain.IngestionResult) {
	cmd.Printf("%s %s\n", statusMark(true), titleStyle.Render(r.Filename))
	cmd.Printf("  File ID: %s\n", r.FileID)
	cmd.Printf("  Type:    %s\n", r.Type)
	cmd.Printf("  Pages:   %d\n", r.PageCount)
	cmd.Printf("  Chunks:  %d\n", r.ChunksIndexed)
	if len(r.DegradedPages) > 0 {
		pages := make([]string, len(r.DegradedPages))
		for i, p := range r.DegradedPages {
			pages[i] = fmt.Sprint(p)
		}
		cmd.Println(warningStyle.Render("  Extraction failed for pages: " + strings.Join(pages, ", ")))
	}
	if len(r.RecommendedActions) > 0 {
		cmd.Println(mutedStyle.Render("  Try: " + strings.Join(r.RecommendedActions, ", ")))
	}
	cmd.Println()
}

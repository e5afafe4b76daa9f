package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Otachiking/Chatbot-RAG/internal/core/domain"
)

var documentsJSON bool

var documentsCmd = &cobra.Command{
	Use:     "documents",
	Aliases: []string{"docs"},
	Short:   "List ingested documents",
	Args:    cobra.NoArgs,
	RunE:    runDocuments,
}

func init() {
	documentsCmd.Flags().BoolVar(&documentsJSON, "json", false, "output documents as JSON")
	rootCmd.AddCommand(documentsCmd)
}

func runDocuments(cmd *cobra.Command, _ []string) error {
	svc, err := loadServices(cmd)
	if err != nil {
		return err
	}
	if svc.Documents == nil {
		return errors.New("document service not configured")
	}

	docs, err := svc.Documents.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if documentsJSON {
		if docs == nil {
			docs = []domain.Document{}
		}
		data, err := json.MarshalIndent(docs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal documents: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(docs) == 0 {
		cmd.Println("No documents ingested yet.")
		return nil
	}

	rows := make([][]string, len(docs))
	for i := range docs {
		d := &docs[i]
		rows[i] = []string{
			d.FileID,
			d.Filename,
			string(d.Type),
			fmt.Sprint(d.PageCount),
			fmt.Sprint(d.ChunkCount),
			d.CreatedAt.Local().Format("2006-01-02 15:04"),
		}
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers("FILE ID", "FILENAME", "TYPE", "PAGES", "CHUNKS", "INGESTED").
		Rows(rows...)
	cmd.Println(t.String())
	cmd.Printf("\nTotal: %d documents\n", len(docs))
	return nil
}

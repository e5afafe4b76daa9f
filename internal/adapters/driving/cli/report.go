package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Otachiking/Chatbot-RAG/internal/core/domain"
)

var (
	reportGroundTruth string
	reportK           int
	reportJSON        bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarise latency and retrieval precision from the query log",
	Long: `Averages retrieval, generation and total latency over successful queries
in the query log. With --ground-truth, also computes precision@K of the
retrieved pages against a JSON file of the form:

  {"queries": [{"query": "...", "expected_pages": [3, 5]}]}`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&reportGroundTruth, "ground-truth", "g", "", "ground-truth JSON file for precision@K")
	reportCmd.Flags().IntVarP(&reportK, "k", "k", domain.DefaultTopK, "cut-off for precision@K")
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(reportCmd)
}

type reportOutput struct {
	Latency   *domain.LatencyReport   `json:"latency"`
	Precision *domain.PrecisionReport `json:"precision,omitempty"`
}

func runReport(cmd *cobra.Command, _ []string) error {
	svc, err := loadServices(cmd)
	if err != nil {
		return err
	}
	if svc.Report == nil {
		return errors.New("report service not configured")
	}

	var out reportOutput
	out.Latency, err = svc.Report.Latency(cmd.Context())
	if err != nil {
		return fmt.Errorf("latency report: %w", err)
	}

	if reportGroundTruth != "" {
		truth, err := readGroundTruth(reportGroundTruth)
		if err != nil {
			return err
		}
		out.Precision, err = svc.Report.Precision(cmd.Context(), truth, reportK)
		if err != nil {
			return fmt.Errorf("precision report: %w", err)
		}
	}

	if reportJSON {
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printLatency(cmd, out.Latency)
	if out.Precision != nil {
		printPrecision(cmd, out.Precision)
	}
	return nil
}

func readGroundTruth(path string) (domain.GroundTruth, error) {
	var truth domain.GroundTruth
	data, err := os.ReadFile(path)
	if err != nil {
		return truth, fmt.Errorf("reading ground truth: %w", err)
	}
	if err := json.Unmarshal(data, &truth); err != nil {
		return truth, fmt.Errorf("%w: parsing ground truth %s: %v", domain.ErrInvalidInput, path, err)
	}
	return truth, nil
}

func printLatency(cmd *cobra.Command, r *domain.LatencyReport) {
	cmd.Println(titleStyle.Render("Average latency"))
	cmd.Printf("  Queries:        %d (%d successful)\n", r.TotalQueries, r.SuccessfulQueries)
	if r.SuccessfulQueries == 0 {
		cmd.Println(mutedStyle.Render("  No successful queries logged yet."))
	} else {
		cmd.Printf("  Retrieval:      %.2f ms\n", r.AvgRetrievalMS)
		cmd.Printf("  Generation:     %.2f ms\n", r.AvgGenerationMS)
		cmd.Printf("  Total:          %.2f ms\n", r.AvgTotalMS)
	}
	cmd.Printf("  Low confidence: %d\n", r.LowConfidenceQueries)
	cmd.Printf("  Fallbacks:      %d\n", r.FallbackQueries)
	cmd.Println()
}

func printPrecision(cmd *cobra.Command, r *domain.PrecisionReport) {
	cmd.Println(titleStyle.Render(fmt.Sprintf("Precision@%d", r.K)))
	if r.Evaluated == 0 {
		cmd.Println(mutedStyle.Render("  No ground-truth query matched a logged grounded query."))
		cmd.Println()
		return
	}
	for _, res := range r.Results {
		cmd.Printf("  %.2f  %s %s\n", res.Precision, res.Query,
			mutedStyle.Render(fmt.Sprintf("(%d/%d relevant)", res.Relevant, res.Retrieved)))
	}
	cmd.Printf("  Mean: %.2f over %d queries\n", r.MeanPrecision, r.Evaluated)
	cmd.Println()
}

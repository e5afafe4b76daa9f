package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Otachiking/Chatbot-RAG/internal/core/domain"
)

var (
	askFileID string
	askRAG    bool
	askType   string
	askJSON   bool
)

// stdin is replaced in tests.
var stdin io.Reader = os.Stdin

// stdinIsTerminal reports whether stdin is interactive. Replaced in tests.
var stdinIsTerminal = func() bool {
	f, ok := stdin.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question",
	Long: `Answers a question from general knowledge, or grounded in an ingested
document when --file-id and --rag are given. Grounded answers cite pages;
low-confidence retrievals fall back to a general answer.

The question may be piped on stdin instead of passed as an argument.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askFileID, "file-id", "f", "", "document to ground the answer in")
	askCmd.Flags().BoolVar(&askRAG, "rag", false, "answer from the document (requires --file-id)")
	askCmd.Flags().StringVarP(&askType, "type", "t", "freeform", "query type: freeform, summarize or quiz")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the response as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question, err := readQuestion(args)
	if err != nil {
		return err
	}

	queryType, err := domain.ParseQueryType(askType)
	if err != nil {
		return err
	}

	svc, err := loadServices(cmd)
	if err != nil {
		return err
	}
	if svc.Query == nil {
		return errors.New("query service not configured")
	}

	resp, err := svc.Query.HandleQuery(cmd.Context(), domain.QueryRequest{
		Query:  question,
		FileID: askFileID,
		UseRAG: askRAG,
		Type:   queryType,
	})
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if askJSON {
		if resp.Sources == nil {
			resp.Sources = []domain.Source{}
		}
		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal response: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printAnswer(cmd, resp)
	return nil
}

// readQuestion takes the question from args, or from piped stdin.
func readQuestion(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if stdinIsTerminal() {
		return "", errors.New("a question is required")
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("reading question from stdin: %w", err)
	}
	question := strings.TrimSpace(string(data))
	if question == "" {
		return "", errors.New("a question is required")
	}
	return question, nil
}

func printAnswer(cmd *cobra.Command, resp *domain.QueryResponse) {
	cmd.Println(answerStyle.Render(resp.Answer))

	if len(resp.Sources) > 0 {
		cmd.Println(titleStyle.Render("Sources"))
		for _, src := range resp.Sources {
			cmd.Printf("  %s, page %d\n", src.File, src.Page)
		}
	}
	if resp.RequestID != "" {
		cmd.Println(mutedStyle.Render("request " + resp.RequestID))
	}
}

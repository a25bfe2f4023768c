package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/halcyon-sec/attackrag/internal/core/domain"
)

var (
	queryTopK int
	queryJSON bool
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Run a one-shot similarity search",
	Long: `Embeds the query text and prints the nearest indexed documents with
their distances, without involving the chat model. Useful for checking
what context the assistant would retrieve for a question.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0,
		"number of results (default from config)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	k := queryTopK
	if k <= 0 {
		k = appConfig.Retrieval.TopK
	}

	docs, err := retrievalService.Search(cmd.Context(), args[0], k)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		return outputQueryJSON(cmd, docs)
	}
	return outputQueryText(cmd, docs)
}

func outputQueryJSON(cmd *cobra.Command, docs []domain.RetrievedDocument) error {
	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputQueryText(cmd *cobra.Command, docs []domain.RetrievedDocument) error {
	if len(docs) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	for i := range docs {
		meta := docs[i].Meta
		cmd.Printf("Result %d: %s (%s)  distance=%.4f\n",
			i+1, meta.Name, meta.MitreID, docs[i].Distance)
		if meta.URL != "" {
			cmd.Println(mutedStyle.Render(meta.URL))
		}
		cmd.Println(docs[i].Document)
		cmd.Println()
	}
	return nil
}

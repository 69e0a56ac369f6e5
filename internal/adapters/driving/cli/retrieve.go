package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/rulebot/internal/core/domain"
)

var (
	retrieveCandidates int
	retrieveJSON       bool
)

var retrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Show the rule passages relevant to a query",
	Long: `Runs retrieval without generation: the query is enriched with rule
keywords, the nearest passages are fetched from the index and re-ranked.
Falls back to keyword matching when the index or embeddings are unavailable.`,
	Args: cobra.ExactArgs(1),
	RunE: runRetrieve,
}

func init() {
	retrieveCmd.Flags().IntVarP(&retrieveCandidates, "candidates", "k", 0, "nearest-neighbour pool size (0 = configured default)")
	retrieveCmd.Flags().BoolVar(&retrieveJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(retrieveCmd)
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	if retrieverService == nil {
		return notConfigured("retrieval")
	}

	results, err := retrieverService.Retrieve(cmd.Context(), args[0], retrieveCandidates)
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}

	if retrieveJSON {
		return outputRetrieveJSON(cmd, results)
	}
	outputRetrieveTable(cmd, results)
	return nil
}

func outputRetrieveJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	if results == nil {
		results = []domain.SearchResult{}
	}
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputRetrieveTable(cmd *cobra.Command, results []domain.SearchResult) {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		r := results[i]
		cmd.Printf("  [%d] %s (page %d)\n", i+1, r.RuleID, r.PageNumber)
		if len(r.MatchedKeywords) > 0 {
			cmd.Printf("      Matched: %v\n", r.MatchedKeywords)
		}
		cmd.Printf("      %s\n", snippet(r.Content, 160))
		cmd.Println()
	}
}

// snippet returns the first n runes of s on one line.
func snippet(s string, n int) string {
	runes := []rune(s)
	for i, r := range runes {
		if r == '\n' || r == '\r' {
			runes[i] = ' '
		}
	}
	if len(runes) <= n {
		return string(runes)
	}
	return string(runes[:n]) + "..."
}

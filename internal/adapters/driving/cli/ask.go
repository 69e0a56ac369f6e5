package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/rulebot/internal/core/domain"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer one question about the rules",
	Long: `Retrieves the relevant rule passages and asks the language model to
answer from them. When generation keeps failing, a fixed answer built from
the retrieved passages is printed instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if answerService == nil {
		return notConfigured("answer")
	}

	answer := answerService.Answer(cmd.Context(), args[0], nil)
	printAnswer(cmd, answer)
	return nil
}

func printAnswer(cmd *cobra.Command, answer domain.Answer) {
	cmd.Println(answer.Text)

	if sources := sourceList(answer.Sources); sources != "" {
		cmd.Println()
		cmd.Printf("Sources: %s\n", sources)
	}
	if answer.State != domain.AnswerSucceeded && answer.Err != nil {
		cmd.PrintErrf("(%s: %v)\n", answer.State, answer.Err)
	}
}

// sourceList renders the distinct rule/page pairs of results.
func sourceList(results []domain.SearchResult) string {
	seen := make(map[string]bool, len(results))
	parts := make([]string, 0, len(results))
	for _, r := range results {
		ref := fmt.Sprintf("%s p.%d", r.RuleID, r.PageNumber)
		if seen[ref] {
			continue
		}
		seen[ref] = true
		parts = append(parts, ref)
	}
	return strings.Join(parts, ", ")
}

package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/rulebot/internal/adapters/driving/tui"
	"github.com/custodia-labs/rulebot/internal/core/domain"
)

var chatPlain bool

// isTerminal reports whether stdout is an interactive terminal.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive rules chat",
	Long: `Starts a conversation about the rule manual. Earlier questions and
answers are sent along with each new question so follow-ups work.

On a terminal the full-screen chat is used; otherwise, or with --plain,
questions are read line by line from standard input.

Controls:
  Enter    - Ask
  Ctrl+L   - New chat
  F1       - Toggle help
  Ctrl+C   - Quit`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

// exitWords end a plain chat session.
var exitWords = map[string]bool{"exit": true, "quit": true, "çıkış": true}

func init() {
	chatCmd.Flags().BoolVar(&chatPlain, "plain", false, "use the line-based chat even on a terminal")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if answerService == nil {
		return notConfigured("answer")
	}

	if chatPlain || !isTerminal() {
		return runPlainChat(cmd, cmd.InOrStdin())
	}
	return runTUI(cmd)
}

func runTUI(cmd *cobra.Command) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in chat: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	app, err := tui.NewApp(&tui.Ports{Answerer: answerService})
	if err != nil {
		return fmt.Errorf("failed to create chat: %w", err)
	}
	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat error: %w", err)
	}
	return nil
}

func runPlainChat(cmd *cobra.Command, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	var history []domain.Turn

	cmd.Println("rulebot chat. Type 'exit' to quit.")
	for {
		cmd.Print("> ")
		if !scanner.Scan() {
			cmd.Println()
			return scanner.Err()
		}

		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if exitWords[strings.ToLower(question)] {
			return nil
		}

		answer := answerService.Answer(cmd.Context(), question, history)
		printAnswer(cmd, answer)
		cmd.Println()

		history = append(history, domain.Turn{User: question, Model: answer.Text})
	}
}

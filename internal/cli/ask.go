package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gbyperovo-dot/dental-clinic-bot/internal/models"
	"github.com/gbyperovo-dot/dental-clinic-bot/internal/session"
	"github.com/gbyperovo-dot/dental-clinic-bot/internal/suggest"
)

var askNoSave bool

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask one question and print the answer",
	Long: `Ask one question through the same pipeline the chat uses and print
the answer to stdout. The exchange is appended to the persisted history
unless --no-save is given.

Examples:
  clinic-chat ask "what are your opening hours?"
  clinic-chat ask --no-save "vr prices"`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askNoSave, "no-save", false, "do not persist this exchange")
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	hist := session.HistoryStore(st)
	if askNoSave {
		hist = nil
	}
	suggester := suggest.New(apiClient, logger)
	sess := session.New(apiClient, hist, nil, suggester, userID(), logger)

	res := sess.Submit(ctx, args[0])
	if res == nil {
		return fmt.Errorf("question must not be empty")
	}

	fmt.Println(res.Answer.Text)
	if label := res.Answer.Source.Label(); label != "" {
		fmt.Printf("(%s)\n", label)
	}

	if len(res.Suggestions) > 0 {
		fmt.Println("\nYou might also ask:")
		for _, s := range res.Suggestions {
			fmt.Printf("  - %s\n", s.Text)
		}
	}

	if res.Answer.Source == models.SourceError {
		return fmt.Errorf("the answering service could not be reached")
	}
	return nil
}

package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gbyperovo-dot/dental-clinic-bot/internal/session"
	"github.com/gbyperovo-dot/dental-clinic-bot/internal/suggest"
	"github.com/gbyperovo-dot/dental-clinic-bot/internal/tui"
	"github.com/gbyperovo-dot/dental-clinic-bot/internal/voice"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start the interactive chat",
	Long: `Start the interactive chat session.

Persisted history is replayed first, then every question goes to the
answering service. With speech credentials configured and a recorder on
PATH, ctrl+r captures a spoken question; answers are read aloud when a
synthesis binary exists.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("chat needs an interactive terminal; use 'clinic-chat ask' instead")
	}

	ctx := context.Background()
	vio := voice.Detect(ctx, cfg, logger)
	defer vio.Close()

	suggester := suggest.New(apiClient, logger)
	sess := session.New(apiClient, st, vio, suggester, userID(), logger)

	return tui.Run(sess, apiClient, suggester, vio, logger)
}

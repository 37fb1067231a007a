package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gbyperovo-dot/dental-clinic-bot/internal/markdown"
	"github.com/gbyperovo-dot/dental-clinic-bot/internal/models"
	"github.com/gbyperovo-dot/dental-clinic-bot/internal/render"
)

var (
	historyFormat string
	historyOutput string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or export the persisted chat history",
	Long: `Show the persisted chat history, or export it.

Formats: text (default), json, html.

Examples:
  clinic-chat history
  clinic-chat history --format json
  clinic-chat history --format html -o transcript.html`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Erase the persisted chat history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := st.Clear(); err != nil {
			return err
		}
		fmt.Println("History cleared.")
		return nil
	},
}

func init() {
	historyCmd.Flags().StringVar(&historyFormat, "format", "text", "output format: text, json, html")
	historyCmd.Flags().StringVarP(&historyOutput, "output", "o", "", "write output to file")
	historyCmd.AddCommand(historyClearCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	history := st.LoadHistory()
	if len(history) == 0 {
		fmt.Println("No history yet.")
		return nil
	}

	var out string
	switch historyFormat {
	case "text":
		out = render.New(render.DefaultTheme, false).RenderHistory(history)
	case "json":
		data, err := json.MarshalIndent(history, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal history: %w", err)
		}
		out = string(data) + "\n"
	case "html":
		html, err := markdown.ToHTML(historyMarkdown(history))
		if err != nil {
			return err
		}
		out = html
	default:
		return fmt.Errorf("unknown format %q (want text, json or html)", historyFormat)
	}

	if historyOutput != "" {
		if err := os.WriteFile(historyOutput, []byte(out), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Printf("Wrote %s\n", historyOutput)
		return nil
	}
	fmt.Print(out)
	return nil
}

// historyMarkdown lays the transcript out as a markdown document; bot
// answers keep their own markup so the HTML export renders it.
func historyMarkdown(history []models.Exchange) string {
	var b strings.Builder
	for _, ex := range history {
		speaker := "Bot"
		if ex.IsUser {
			speaker = "You"
		}
		fmt.Fprintf(&b, "**%s** · %s\n\n", speaker, ex.Timestamp.Format("2006-01-02 15:04"))
		b.WriteString(ex.Text)
		b.WriteString("\n\n")
		if label := ex.Source.Label(); label != "" {
			fmt.Fprintf(&b, "*source: %s*\n\n", label)
		}
		b.WriteString("---\n\n")
	}
	return b.String()
}

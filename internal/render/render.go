// Package render converts exchanges to displayed text and back.
package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gbyperovo-dot/dental-clinic-bot/internal/models"
)

// sourcePrefix labels a bot answer's provenance line. Parse relies on it.
const sourcePrefix = "source: "

// Theme holds the color scheme for rendered exchanges.
type Theme struct {
	User    lipgloss.Color
	Bot     lipgloss.Color
	Source  lipgloss.Color
	Error   lipgloss.Color
	Code    lipgloss.Color
	Pending lipgloss.Color
	Hint    lipgloss.Color
}

// DefaultTheme provides default colors.
var DefaultTheme = Theme{
	User:    lipgloss.Color("#5FAFD7"), // light blue
	Bot:     lipgloss.Color("#00D787"), // green
	Source:  lipgloss.Color("#6C6C6C"), // dim gray
	Error:   lipgloss.Color("#FF005F"), // red
	Code:    lipgloss.Color("#AFAF87"), // khaki
	Pending: lipgloss.Color("#FFAF00"), // amber
	Hint:    lipgloss.Color("#6C6C6C"), // dim gray
}

var (
	boldRe   = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicRe = regexp.MustCompile(`\*([^*]+)\*`)
	codeRe   = regexp.MustCompile("`([^`]+)`")
	fenceRe  = regexp.MustCompile("(?m)^```[^\\n]*$")
)

// Renderer turns exchanges into terminal text. With color disabled the
// output is the plain structural form that Parse understands.
type Renderer struct {
	theme Theme
	color bool
}

// New creates a renderer. Color should be off for exports and tests.
func New(theme Theme, color bool) *Renderer {
	return &Renderer{theme: theme, color: color}
}

// Render formats one exchange as a display block. User turns get no
// source line; bot turns with a source get a labeled provenance line.
func (r *Renderer) Render(ex models.Exchange) string {
	var b strings.Builder

	speaker := "Bot"
	style := lipgloss.NewStyle().Foreground(r.theme.Bot).Bold(true)
	if ex.IsUser {
		speaker = "You"
		style = lipgloss.NewStyle().Foreground(r.theme.User).Bold(true)
	}

	header := speaker
	if !ex.Timestamp.IsZero() {
		header = fmt.Sprintf("%s · %s", speaker, ex.Timestamp.Format("15:04"))
	}
	if r.color {
		header = style.Render(header)
	}
	b.WriteString(header)
	b.WriteString("\n")

	text := ex.Text
	if r.color {
		text = r.formatText(text)
		if ex.Source == models.SourceError {
			text = lipgloss.NewStyle().Foreground(r.theme.Error).Render(ex.Text)
		}
	}
	for _, line := range strings.Split(text, "\n") {
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteString("\n")
	}

	if !ex.IsUser && ex.Source != models.SourceNone {
		label := sourcePrefix + ex.Source.Label()
		if r.color {
			label = lipgloss.NewStyle().Foreground(r.theme.Source).Italic(true).Render(label)
		}
		b.WriteString("  ")
		b.WriteString(label)
		b.WriteString("\n")
	}

	return b.String()
}

// RenderHistory formats a whole transcript.
func (r *Renderer) RenderHistory(history []models.Exchange) string {
	var b strings.Builder
	for _, ex := range history {
		b.WriteString(r.Render(ex))
		b.WriteString("\n")
	}
	return b.String()
}

// formatText applies the supported markup subset using terminal styles.
// Anything outside the subset stays literal.
func (r *Renderer) formatText(s string) string {
	s = fenceRe.ReplaceAllString(s, "")
	s = boldRe.ReplaceAllStringFunc(s, func(m string) string {
		return lipgloss.NewStyle().Bold(true).Render(boldRe.FindStringSubmatch(m)[1])
	})
	s = italicRe.ReplaceAllStringFunc(s, func(m string) string {
		return lipgloss.NewStyle().Italic(true).Render(italicRe.FindStringSubmatch(m)[1])
	})
	s = codeRe.ReplaceAllStringFunc(s, func(m string) string {
		return lipgloss.NewStyle().Foreground(r.theme.Code).Render(codeRe.FindStringSubmatch(m)[1])
	})
	return strings.Trim(s, "\n")
}

// Parse is the inverse of a plain Render: it reconstructs an exchange
// from its display block. Used for history reconciliation and export
// checks. The timestamp is not recovered.
func Parse(block string) (models.Exchange, bool) {
	lines := strings.Split(strings.TrimRight(block, "\n"), "\n")
	if len(lines) < 2 {
		return models.Exchange{}, false
	}

	var ex models.Exchange
	switch {
	case strings.HasPrefix(lines[0], "You"):
		ex.IsUser = true
	case strings.HasPrefix(lines[0], "Bot"):
		ex.IsUser = false
	default:
		return models.Exchange{}, false
	}

	var text []string
	for _, line := range lines[1:] {
		line = strings.TrimPrefix(line, "  ")
		if !ex.IsUser && strings.HasPrefix(line, sourcePrefix) {
			ex.Source = sourceFromLabel(strings.TrimPrefix(line, sourcePrefix))
			continue
		}
		text = append(text, line)
	}
	ex.Text = strings.Join(text, "\n")
	if ex.Text == "" {
		return models.Exchange{}, false
	}
	return ex, true
}

func sourceFromLabel(label string) models.Source {
	for _, s := range []models.Source{models.SourceKnowledgeBase, models.SourceGenerative, models.SourceError} {
		if s.Label() == label {
			return s
		}
	}
	return models.SourceNone
}

// Package tui implements the interactive chat screen on bubbletea.
// Every user gesture becomes a typed command fed into the session
// orchestrator; the blocking work runs in tea commands and re-enters
// the update loop as typed messages, so session state is only ever
// mutated from Update.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/gbyperovo-dot/dental-clinic-bot/internal/api"
	"github.com/gbyperovo-dot/dental-clinic-bot/internal/models"
	"github.com/gbyperovo-dot/dental-clinic-bot/internal/render"
	"github.com/gbyperovo-dot/dental-clinic-bot/internal/session"
	"github.com/gbyperovo-dot/dental-clinic-bot/internal/suggest"
	"github.com/gbyperovo-dot/dental-clinic-bot/internal/voice"
)

// answerMsg carries the outcome of one /ask request, keyed to its turn.
type answerMsg struct {
	id  uuid.UUID
	ans *api.Answer
	err error
}

// suggestionsMsg carries fetched follow-up prompts.
type suggestionsMsg struct {
	items []api.Suggestion
}

// menuMsg carries the remote menu.
type menuMsg struct {
	items []api.MenuItem
	err   error
}

// transcriptMsg carries one recognized utterance.
type transcriptMsg struct {
	text string
	err  error
}

// Model is the bubbletea model for the chat screen.
type Model struct {
	session   *session.Session
	client    *api.Client
	suggester *suggest.Coordinator
	voice     *voice.IO
	renderer  *render.Renderer
	theme     render.Theme
	log       *slog.Logger

	input textinput.Model
	spin  spinner.Model

	menu        []api.MenuItem
	showMenu    bool
	suggestions []api.Suggestion

	// topics holds the menu-provided fallback topic per pending turn.
	topics map[uuid.UUID]string
	// feedback remembers which history entries were already rated.
	feedback map[int]int

	listening bool
	alert     string
	quitting  bool
}

// New creates the chat model.
func New(sess *session.Session, client *api.Client, suggester *suggest.Coordinator, vio *voice.IO, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}

	input := textinput.New()
	input.Placeholder = "Ask a question…"
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return Model{
		session:   sess,
		client:    client,
		suggester: suggester,
		voice:     vio,
		renderer:  render.New(render.DefaultTheme, true),
		theme:     render.DefaultTheme,
		log:       logger,
		input:     input,
		spin:      spin,
		showMenu:  true,
		topics:    make(map[uuid.UUID]string),
		feedback:  make(map[int]int),
	}
}

// Init loads the remote menu and starts the input cursor.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadMenuCmd())
}

// Update handles messages and returns the updated model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if len(m.session.Pending()) == 0 && !m.listening {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case answerMsg:
		return m.handleAnswer(msg)

	case suggestionsMsg:
		m.suggestions = msg.items
		return m, nil

	case menuMsg:
		if msg.err != nil {
			// A failed menu fetch hides the surface, chat stays usable.
			m.log.Warn("menu fetch failed", "error", msg.err)
			m.menu = nil
			m.showMenu = false
			return m, nil
		}
		m.menu = msg.items
		m.showMenu = len(m.menu) > 0
		return m, nil

	case transcriptMsg:
		m.listening = false
		if msg.err != nil {
			m.alert = fmt.Sprintf("Voice input failed: %v", msg.err)
			return m, nil
		}
		if msg.text == "" {
			// No speech recognized: drop silently.
			return m, nil
		}
		return m.dispatch(session.VoiceTranscript{Text: msg.text})
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit

	case "enter":
		text := m.input.Value()
		m.input.SetValue("")
		return m.dispatch(session.SubmitTyped{Text: text})

	case "ctrl+r":
		return m.startListening()

	case "ctrl+g":
		return m.rateLastAnswer(1)

	case "ctrl+b":
		return m.rateLastAnswer(0)

	default:
		// Bare digits pick a suggestion or menu entry, but only while
		// the input is empty so numbers can still be typed.
		if m.input.Value() == "" && len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if updated, cmd, ok := m.pick(int(key[0] - '1')); ok {
				return updated, cmd
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// dispatch funnels a typed command into the orchestrator: append the
// user exchange, register the pending placeholder, and fire the request.
func (m Model) dispatch(c session.Command) (tea.Model, tea.Cmd) {
	turn, ok := m.session.Begin(c.Question())
	if !ok {
		return m, nil
	}

	m.alert = ""
	m.suggestions = nil
	m.showMenu = false
	if mc, isMenu := c.(session.ClickMenu); isMenu && mc.Topic != "" {
		m.topics[turn.ID] = mc.Topic
	}

	return m, tea.Batch(m.spin.Tick, m.askCmd(turn))
}

func (m Model) handleAnswer(msg answerMsg) (tea.Model, tea.Cmd) {
	topic := m.topics[msg.id]
	delete(m.topics, msg.id)

	if msg.err != nil {
		m.session.ResolveFailure(msg.id, msg.err)
		return m, nil
	}

	ex := m.session.ResolveSuccess(msg.id, msg.ans)
	if ex.Source == models.SourceError {
		return m, nil
	}
	if msg.ans.Topic != "" {
		topic = msg.ans.Topic
	}
	if topic == "" {
		return m, nil
	}
	return m, m.suggestCmd(topic)
}

func (m Model) startListening() (tea.Model, tea.Cmd) {
	if m.voice == nil || !m.voice.CanListen() || m.listening {
		return m, nil
	}
	m.listening = true
	m.alert = ""
	return m, tea.Batch(m.spin.Tick, m.listenCmd())
}

// pick resolves a digit press against the visible suggestion or menu
// list.
func (m Model) pick(idx int) (tea.Model, tea.Cmd, bool) {
	if len(m.suggestions) > 0 {
		if idx >= len(m.suggestions) {
			return m, nil, false
		}
		updated, cmd := m.dispatch(session.ClickSuggestion{Text: m.suggestions[idx].Question})
		return updated, cmd, true
	}
	if m.showMenu {
		if idx >= len(m.menu) {
			return m, nil, false
		}
		item := m.menu[idx]
		updated, cmd := m.dispatch(session.ClickMenu{Text: item.Question, Topic: item.SuggestionTopic})
		return updated, cmd, true
	}
	return m, nil, false
}

// rateLastAnswer records feedback for the newest rateable bot answer.
// A second vote on the same answer is ignored.
func (m Model) rateLastAnswer(rating int) (tea.Model, tea.Cmd) {
	history := m.session.History()
	botIdx := -1
	for i := len(history) - 1; i >= 0; i-- {
		if !history[i].IsUser && history[i].Source != models.SourceError {
			botIdx = i
			break
		}
	}
	if botIdx < 0 {
		return m, nil
	}
	if _, rated := m.feedback[botIdx]; rated {
		return m, nil
	}
	m.feedback[botIdx] = rating

	// The rated question is the user turn preceding the answer.
	question := ""
	for i := botIdx - 1; i >= 0; i-- {
		if history[i].IsUser {
			question = history[i].Text
			break
		}
	}
	if question == "" {
		return m, nil
	}
	return m, m.feedbackCmd(question, rating)
}

func (m Model) askCmd(turn session.PendingTurn) tea.Cmd {
	return func() tea.Msg {
		ans, err := m.client.Ask(context.Background(), turn.Question, m.session.UserID())
		return answerMsg{id: turn.ID, ans: ans, err: err}
	}
}

func (m Model) suggestCmd(topic string) tea.Cmd {
	return func() tea.Msg {
		return suggestionsMsg{items: m.suggester.Fetch(context.Background(), topic)}
	}
}

func (m Model) loadMenuCmd() tea.Cmd {
	return func() tea.Msg {
		items, err := m.client.MenuDisplay(context.Background())
		return menuMsg{items: items, err: err}
	}
}

func (m Model) listenCmd() tea.Cmd {
	return func() tea.Msg {
		text, err := m.voice.Capture(context.Background())
		return transcriptMsg{text: text, err: err}
	}
}

// feedbackCmd posts the rating best-effort; failures are logged only.
func (m Model) feedbackCmd(question string, rating int) tea.Cmd {
	return func() tea.Msg {
		if err := m.client.SendFeedback(context.Background(), question, rating); err != nil {
			m.log.Warn("feedback submission failed", "error", err)
		}
		return nil
	}
}

// View renders the chat screen.
func (m Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}

	hintStyle := lipgloss.NewStyle().Foreground(m.theme.Hint).Italic(true)
	pendingStyle := lipgloss.NewStyle().Foreground(m.theme.Pending)
	errorStyle := lipgloss.NewStyle().Foreground(m.theme.Error).Bold(true)

	var b strings.Builder
	b.WriteString(m.renderer.RenderHistory(m.session.History()))

	for range m.session.Pending() {
		b.WriteString(pendingStyle.Render(m.spin.View() + " thinking…"))
		b.WriteString("\n")
	}
	if m.listening {
		b.WriteString(pendingStyle.Render(m.spin.View() + " ● listening…"))
		b.WriteString("\n")
	}

	if len(m.suggestions) > 0 {
		b.WriteString(hintStyle.Render("You might also ask:"))
		b.WriteString("\n")
		for i, s := range m.suggestions {
			b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, s.Text))
		}
	} else if m.showMenu && len(m.menu) > 0 {
		b.WriteString(hintStyle.Render("Popular topics:"))
		b.WriteString("\n")
		for i, item := range m.menu {
			b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, item.Text))
		}
		b.WriteString(hintStyle.Render("Booking: " + m.client.BookingURL()))
		b.WriteString("\n")
	}

	if m.alert != "" {
		b.WriteString(errorStyle.Render(m.alert))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(hintStyle.Render(m.hints()))
	b.WriteString("\n")

	return tea.NewView(b.String())
}

func (m Model) hints() string {
	parts := []string{"enter send"}
	if m.voice != nil && m.voice.CanListen() {
		parts = append(parts, "ctrl+r voice")
	}
	parts = append(parts, "ctrl+g/ctrl+b rate", "1-9 pick", "ctrl+c quit")
	return strings.Join(parts, " · ")
}

// Run starts the interactive chat program.
func Run(sess *session.Session, client *api.Client, suggester *suggest.Coordinator, vio *voice.IO, logger *slog.Logger) error {
	p := tea.NewProgram(New(sess, client, suggester, vio, logger))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat UI error: %w", err)
	}
	return nil
}

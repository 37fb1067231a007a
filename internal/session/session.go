// Package session owns the ordered exchange history and sequences each
// user turn through send, pending, and resolved or failed states.
package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gbyperovo-dot/dental-clinic-bot/internal/api"
	"github.com/gbyperovo-dot/dental-clinic-bot/internal/models"
)

// ErrorAnswer is the fixed user-visible text appended when a request
// fails in transport.
const ErrorAnswer = "Sorry, something went wrong while answering. Please try again."

// Asker issues one outbound question to the answering service.
type Asker interface {
	Ask(ctx context.Context, question, userID string) (*api.Answer, error)
}

// Speaker plays back an answer. Implementations are fire-and-forget.
type Speaker interface {
	Speak(text string)
}

// Suggester fetches follow-up prompts for a topic; failures yield nil.
type Suggester interface {
	Fetch(ctx context.Context, topic string) []api.Suggestion
}

// HistoryStore persists the full history snapshot.
type HistoryStore interface {
	SaveHistory(history []models.Exchange) error
	LoadHistory() []models.Exchange
}

// PendingTurn is one in-flight request. Each turn is keyed by its own
// id, so resolving one never touches another turn's placeholder.
type PendingTurn struct {
	ID        uuid.UUID
	Question  string
	StartedAt time.Time
}

// Session is the message-lifecycle orchestrator. It is confined to a
// single event loop: the TUI mutates it only from Update, the one-shot
// CLI path runs it synchronously. All state changes go through
// AppendExchange, Begin, ResolveSuccess and ResolveFailure.
type Session struct {
	asker     Asker
	store     HistoryStore
	speaker   Speaker
	suggester Suggester
	log       *slog.Logger
	userID    string

	history []models.Exchange
	pending []PendingTurn
}

// New creates a session and replays persisted history before any new
// interaction. Corrupt or missing history loads as empty.
func New(asker Asker, store HistoryStore, speaker Speaker, suggester Suggester, userID string, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		asker:     asker,
		store:     store,
		speaker:   speaker,
		suggester: suggester,
		log:       logger,
		userID:    userID,
	}
	if store != nil {
		s.history = store.LoadHistory()
	}
	return s
}

// UserID returns the session-scoped identifier sent with every request.
func (s *Session) UserID() string { return s.userID }

// History returns a copy of the ordered exchange sequence.
func (s *Session) History() []models.Exchange {
	out := make([]models.Exchange, len(s.history))
	copy(out, s.history)
	return out
}

// Pending returns a copy of the in-flight turns, oldest first.
func (s *Session) Pending() []PendingTurn {
	out := make([]PendingTurn, len(s.pending))
	copy(out, s.pending)
	return out
}

// AppendExchange appends one exchange to the history. Empty text is
// rejected silently: no persisted exchange may be blank.
func (s *Session) AppendExchange(ex models.Exchange) {
	if ex.Text == "" {
		return
	}
	s.history = append(s.history, ex)
}

// Begin starts a turn for the given text: it appends the user exchange
// and registers a pending placeholder. Returns false for empty or
// whitespace-only input, in which case nothing changes.
func (s *Session) Begin(text string) (PendingTurn, bool) {
	text = trim(text)
	if text == "" {
		return PendingTurn{}, false
	}

	s.AppendExchange(models.NewUserExchange(text))
	turn := PendingTurn{ID: uuid.New(), Question: text, StartedAt: time.Now()}
	s.pending = append(s.pending, turn)
	return turn, true
}

// ResolveSuccess completes the turn: its placeholder is removed, the
// bot exchange is appended with the mapped source, playback is
// triggered, and the full snapshot is persisted.
// An empty answer body counts as malformed and takes the failure path.
func (s *Session) ResolveSuccess(id uuid.UUID, ans *api.Answer) models.Exchange {
	if ans == nil || ans.Answer == "" {
		return s.ResolveFailure(id, errEmptyAnswer)
	}

	s.removePending(id)
	ex := models.NewBotExchange(ans.Answer, mapSource(ans.Source))
	s.AppendExchange(ex)

	if s.speaker != nil {
		s.speaker.Speak(ans.Answer)
	}
	s.persist()
	return ex
}

// ResolveFailure completes the turn with the fixed error exchange. The
// session stays usable: the next Begin must work.
func (s *Session) ResolveFailure(id uuid.UUID, err error) models.Exchange {
	s.removePending(id)
	s.log.Warn("ask failed", "error", err)

	ex := models.NewBotExchange(ErrorAnswer, models.SourceError)
	s.AppendExchange(ex)
	s.persist()
	return ex
}

// Result is the outcome of a synchronous Submit.
type Result struct {
	Answer      models.Exchange
	Suggestions []api.Suggestion
}

// Submit runs a full turn synchronously: begin, ask, resolve, and fetch
// suggestions when the answer carries a topic. Returns nil for empty
// input. It never fails outward; a transport failure produces the fixed
// error exchange.
func (s *Session) Submit(ctx context.Context, text string) *Result {
	turn, ok := s.Begin(text)
	if !ok {
		return nil
	}

	ans, err := s.asker.Ask(ctx, turn.Question, s.userID)
	if err != nil {
		return &Result{Answer: s.ResolveFailure(turn.ID, err)}
	}

	ex := s.ResolveSuccess(turn.ID, ans)
	res := &Result{Answer: ex}
	if ex.Source != models.SourceError && ans.Topic != "" && s.suggester != nil {
		res.Suggestions = s.suggester.Fetch(ctx, ans.Topic)
	}
	return res
}

// persist writes the full snapshot; write failures are logged, never
// surfaced.
func (s *Session) persist() {
	if s.store == nil {
		return
	}
	if err := s.store.SaveHistory(s.History()); err != nil {
		s.log.Warn("failed to persist history", "error", err)
	}
}

func (s *Session) removePending(id uuid.UUID) {
	for i, turn := range s.pending {
		if turn.ID == id {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return
		}
	}
}

// mapSource folds the service's provenance tag into the local enum:
// the knowledge-base tag is kept, everything else counts as generative.
func mapSource(src string) models.Source {
	if src == string(models.SourceKnowledgeBase) {
		return models.SourceKnowledgeBase
	}
	return models.SourceGenerative
}

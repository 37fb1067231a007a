package session

import (
	"errors"
	"strings"
)

var errEmptyAnswer = errors.New("empty answer body")

// Command is a typed user gesture. Every gesture funnels into the same
// Begin/Submit pipeline; the variants only differ in how the question
// and suggestion topic are sourced.
type Command interface {
	Question() string
}

// SubmitTyped is a direct keyboard submission from the input field.
type SubmitTyped struct {
	Text string
}

func (c SubmitTyped) Question() string { return c.Text }

// ClickSuggestion submits the question behind a follow-up prompt.
type ClickSuggestion struct {
	Text string
}

func (c ClickSuggestion) Question() string { return c.Text }

// ClickMenu submits a menu item's question. Topic seeds the suggestion
// fetch when the answer itself carries none.
type ClickMenu struct {
	Text  string
	Topic string
}

func (c ClickMenu) Question() string { return c.Text }

// VoiceTranscript submits a recognized utterance.
type VoiceTranscript struct {
	Text string
}

func (c VoiceTranscript) Question() string { return c.Text }

func trim(s string) string { return strings.TrimSpace(s) }

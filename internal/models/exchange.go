// Package models defines the chat domain types shared across packages.
package models

import "time"

// Source tags the provenance of a bot answer.
type Source string

const (
	// SourceNone is used for user exchanges, which carry no provenance.
	SourceNone Source = ""
	// SourceKnowledgeBase marks answers served from the curated knowledge base.
	SourceKnowledgeBase Source = "knowledge_base"
	// SourceGenerative marks answers produced by the generative backend.
	SourceGenerative Source = "generative"
	// SourceError marks the fixed fallback appended when a request fails.
	SourceError Source = "error"
)

// Label returns the human-readable form shown next to a bot answer.
func (s Source) Label() string {
	switch s {
	case SourceKnowledgeBase:
		return "From knowledge base"
	case SourceGenerative:
		return "AI generated"
	case SourceError:
		return "Error"
	default:
		return ""
	}
}

// Exchange is one recorded chat turn, either the user's question or the
// bot's answer. Persisted exchanges always have non-empty Text, and user
// exchanges always have SourceNone.
type Exchange struct {
	Text      string    `json:"text"`
	IsUser    bool      `json:"is_user"`
	Source    Source    `json:"source,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewUserExchange builds a user turn stamped with the current time.
func NewUserExchange(text string) Exchange {
	return Exchange{Text: text, IsUser: true, Timestamp: time.Now()}
}

// NewBotExchange builds a bot turn stamped with the current time.
func NewBotExchange(text string, source Source) Exchange {
	return Exchange{Text: text, Source: source, Timestamp: time.Now()}
}

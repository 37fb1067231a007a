// Package markdown handles the small markup subset the answering service
// uses in its replies: strip for speech output, HTML for transcript export.
package markdown

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
)

var (
	imageRe  = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	linkRe   = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	boldRe   = regexp.MustCompile(`\*\*([^*]+)\*\*|__([^_]+)__`)
	// The underscore variant is anchored to word boundaries so the
	// underscores inside snake_case identifiers stay literal.
	italicRe = regexp.MustCompile(`\*([^*]+)\*|\b_([^_]+)_\b`)
	strikeRe = regexp.MustCompile(`~~([^~]+)~~`)
	codeRe   = regexp.MustCompile("`([^`]+)`")
	fenceRe  = regexp.MustCompile("(?m)^```[^\\n]*$")
	spaceRe  = regexp.MustCompile(`\s+`)
)

// Strip removes markup so the text can be handed to speech synthesis or
// compared as plain prose. Images disappear entirely, links keep their
// label, fence markers go but the code itself stays, and whitespace is
// collapsed to single spaces.
func Strip(s string) string {
	s = imageRe.ReplaceAllString(s, "")
	s = linkRe.ReplaceAllString(s, "$1")
	s = fenceRe.ReplaceAllString(s, "")
	s = boldRe.ReplaceAllString(s, "$1$2")
	s = italicRe.ReplaceAllString(s, "$1$2")
	s = strikeRe.ReplaceAllString(s, "$1")
	s = codeRe.ReplaceAllString(s, "$1")
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// ToHTML converts a markdown document to an HTML fragment.
func ToHTML(s string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(s), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}

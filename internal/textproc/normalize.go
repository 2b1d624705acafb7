// Package textproc provides text normalization for résumés and job
// descriptions: markup stripping, tokenization, and skill extraction against
// the vocabulary whitelist.
package textproc

import (
	"regexp"
	"strings"

	"github.com/ananya/resumatch/internal/types"
	"github.com/ananya/resumatch/internal/vocab"
)

var (
	tagPattern  = regexp.MustCompile(`<[^>]+>`)
	wordPattern = regexp.MustCompile(`\b[a-z][a-z0-9+#.]{2,}\b`)
)

// Normalizer turns free text into a Document. It never fails: malformed input
// yields an empty token set.
type Normalizer struct {
	vocab *vocab.Vocabulary
}

// NewNormalizer creates a Normalizer backed by the given vocabulary.
func NewNormalizer(v *vocab.Vocabulary) *Normalizer {
	return &Normalizer{vocab: v}
}

// Normalize strips markup, lower-cases, tokenizes on word boundaries (tokens
// of 3+ characters), filters stopwords, and extracts a frequency table of
// tokens that appear in the skill vocabulary.
func (n *Normalizer) Normalize(text string) *types.Document {
	doc := &types.Document{
		RawText:         text,
		ExtractedSkills: make(map[string]int),
	}

	cleaned := strings.ToLower(StripTags(text))

	for _, token := range wordPattern.FindAllString(cleaned, -1) {
		if n.vocab.IsStopword(token) {
			continue
		}
		doc.Tokens = append(doc.Tokens, token)
		if n.vocab.IsSkill(token) {
			doc.ExtractedSkills[token]++
		}
	}

	// Multi-word vocabulary skills never survive tokenization, so scan for
	// them as substrings of the cleaned text.
	for skill := range n.vocab.Skills() {
		if !strings.Contains(skill, " ") {
			continue
		}
		if count := strings.Count(cleaned, skill); count > 0 {
			doc.ExtractedSkills[skill] += count
		}
	}

	return doc
}

// StripTags replaces markup tags with spaces and collapses runs of
// whitespace. Normalize applies it before tokenization.
func StripTags(text string) string {
	cleaned := tagPattern.ReplaceAllString(text, " ")
	return strings.Join(strings.Fields(cleaned), " ")
}

package types

// Document is the normalized representation of a resume or job description:
// the original text plus the token stream and the vocabulary-filtered skill
// frequency table derived from it.
type Document struct {
	RawText         string         `json:"raw_text"`
	Tokens          []string       `json:"tokens"`
	ExtractedSkills map[string]int `json:"extracted_skills"`
}

// HasToken reports whether the token appears in the document's token stream.
func (d *Document) HasToken(token string) bool {
	for _, t := range d.Tokens {
		if t == token {
			return true
		}
	}
	return false
}

// SkillSet returns the extracted skills as a set.
func (d *Document) SkillSet() map[string]bool {
	set := make(map[string]bool, len(d.ExtractedSkills))
	for skill := range d.ExtractedSkills {
		set[skill] = true
	}
	return set
}

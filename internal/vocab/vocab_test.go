package vocab

import (
	"testing"

	"github.com/ananya/resumatch/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestIsSkill(t *testing.T) {
	v := New()

	tests := []struct {
		name     string
		keyword  string
		expected bool
	}{
		{"known language", "python", true},
		{"case insensitive", "Python", true},
		{"whitespace trimmed", "  docker  ", true},
		{"multi-word skill", "machine learning", true},
		{"noise term", "synergy", false},
		{"boilerplate", "requirements", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, v.IsSkill(tt.keyword))
		})
	}
}

func TestIsStopword(t *testing.T) {
	v := New()

	assert.True(t, v.IsStopword("experience"))
	assert.True(t, v.IsStopword("looking"))
	assert.False(t, v.IsStopword("python"))
}

func TestIsRelevantCourse(t *testing.T) {
	v := New()

	tests := []struct {
		name     string
		title    string
		expected bool
	}{
		{"programming course", "Programming, Data Structures and Algorithms Using Python", true},
		{"ml course", "Introduction to Machine Learning", true},
		{"irrelevant domain", "Turbomachinery Aerodynamics for Aerospace Engineers", false},
		{"exclusion wins over inclusion", "Data Acquisition for Power Plant Operation", false},
		{"no keyword match", "Introduction to Philosophy", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, v.IsRelevantCourse(tt.title))
		})
	}
}

func TestFilterSkillRecords(t *testing.T) {
	v := New()

	records := []types.SkillRecord{
		{Keyword: "python", Frequency: 80},
		{Keyword: "synergy", Frequency: 70},
		{Keyword: "kubernetes", Frequency: 60},
		{Keyword: "stakeholder", Frequency: 55},
		{Keyword: "docker", Frequency: 40},
	}

	filtered := v.FilterSkillRecords(records)

	assert.Equal(t, []types.SkillRecord{
		{Keyword: "python", Frequency: 80},
		{Keyword: "kubernetes", Frequency: 60},
		{Keyword: "docker", Frequency: 40},
	}, filtered)
}

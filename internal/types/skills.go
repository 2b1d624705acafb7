package types

// SkillRecord represents one market- or JD-demanded skill with a frequency
// weight. Collections of SkillRecords form a target skill set; consumers
// treat it as ranked by frequency after sorting.
type SkillRecord struct {
	Keyword   string `json:"keyword"`
	Frequency int    `json:"count"`
}

// Severity classifies how urgent a skill gap is.
type Severity string

// Severity values produced by the gap detector.
const (
	// SeverityCritical marks gaps in skills whose market importance exceeds
	// the configured threshold.
	SeverityCritical Severity = "Critical"
	// SeverityRecommended marks gaps in lower-importance skills.
	SeverityRecommended Severity = "Recommended"
	// SeverityUnknown marks skills whose semantic check failed; the detector
	// fails safe and reports them as gaps.
	SeverityUnknown Severity = "Unknown"
)

// SkillGap is a market-required skill not evidenced in a résumé.
type SkillGap struct {
	Skill      string   `json:"skill"`
	Importance int      `json:"importance"`
	Severity   Severity `json:"severity"`
}

// MatchResult is the output of the similarity scorer.
type MatchResult struct {
	OverallScore  float64  `json:"overall_score"`
	MatchedSkills []string `json:"matched_skills"`
}

// SkillRadarEntry compares résumé evidence against market demand for one skill.
type SkillRadarEntry struct {
	Skill       string `json:"skill"`
	UserScore   int    `json:"userScore"`
	MarketScore int    `json:"marketScore"`
}

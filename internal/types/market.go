package types

// Job is one job posting from the market data provider.
type Job struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	Location    string   `json:"location,omitempty"`
	Salary      string   `json:"salary,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Date        string   `json:"date,omitempty"`
}

// MarketSnapshot is the ranked view of skill demand for a role, built from a
// corpus of live job postings.
type MarketSnapshot struct {
	Role             string        `json:"role"`
	Jobs             []Job         `json:"jobs"`
	MarketSkills     []string      `json:"market_skills"`
	SkillFrequencies []SkillRecord `json:"skill_frequencies"`
}

// JobMatch is a job recommendation with a relevance score.
type JobMatch struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Company    string `json:"company"`
	URL        string `json:"url"`
	Location   string `json:"location,omitempty"`
	MatchScore int    `json:"match_score"`
}

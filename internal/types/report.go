package types

// AnalysisReport is the final payload produced by the workflow. Shape
// invariants hold even under total upstream failure: the role, score, skill
// radar, roadmap, and jobs fields are always populated, degraded in content
// rather than absent.
type AnalysisReport struct {
	DetectedRole        string            `json:"detected_role"`
	MatchScore          int               `json:"match_score"`
	MatchScoreReasoning string            `json:"match_score_reasoning,omitempty"`
	SkillRadar          []SkillRadarEntry `json:"skill_radar"`
	Roadmap             []RoadmapItem     `json:"roadmap"`
	RecommendedJobs     []JobMatch        `json:"recommended_jobs"`
	Error               string            `json:"error,omitempty"`
}

// GapSkills returns the radar skills with weak résumé evidence.
func (r *AnalysisReport) GapSkills() []string {
	var gaps []string
	for _, entry := range r.SkillRadar {
		if entry.UserScore <= 5 {
			gaps = append(gaps, entry.Skill)
		}
	}
	return gaps
}

// Strengths returns the radar skills with strong résumé evidence.
func (r *AnalysisReport) Strengths() []string {
	var strengths []string
	for _, entry := range r.SkillRadar {
		if entry.UserScore > 5 {
			strengths = append(strengths, entry.Skill)
		}
	}
	return strengths
}

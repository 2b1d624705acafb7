package types

// AnalysisState is the single record threaded through the analysis workflow.
// Each stage reads the state and extends it additively; fields are only added
// or overwritten, never deleted. One state exists per analysis request and is
// never shared across requests.
type AnalysisState struct {
	ResumeText       string
	DetectedRole     string
	SkillGaps        []SkillGap
	RetrievedContext string
	FinalResult      *AnalysisReport
}

// GapNames returns the skill names of the detected gaps in order.
func (s *AnalysisState) GapNames() []string {
	names := make([]string, len(s.SkillGaps))
	for i, gap := range s.SkillGaps {
		names[i] = gap.Skill
	}
	return names
}

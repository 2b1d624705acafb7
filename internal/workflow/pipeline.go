// Package workflow runs the three-stage resume analysis pipeline:
// Analyze extracts the target role and skill gaps, Retrieve collects
// supporting context per gap, and Synthesize produces the final report.
// Every stage degrades instead of failing; callers always receive a
// structurally complete report.
package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/ananya/resumatch/internal/courses"
	"github.com/ananya/resumatch/internal/events"
	"github.com/ananya/resumatch/internal/gaps"
	"github.com/ananya/resumatch/internal/llm"
	"github.com/ananya/resumatch/internal/prompts"
	"github.com/ananya/resumatch/internal/retrieval"
	"github.com/ananya/resumatch/internal/roadmap"
	"github.com/ananya/resumatch/internal/schemas"
	"github.com/ananya/resumatch/internal/similarity"
	"github.com/ananya/resumatch/internal/types"
)

const (
	// DefaultRole is assumed when role extraction fails.
	DefaultRole = "Software Engineer"
	// resumePromptLimit caps how much resume text is sent to the model.
	resumePromptLimit = 3000
	// maxMarketJobs bounds how many postings are pulled per analysis.
	maxMarketJobs = 15
	// maxLiveJobs bounds how many postings are quoted in the prompt.
	maxLiveJobs = 5
)

// defaultGapSkills seed the pipeline when role extraction fails.
var defaultGapSkills = []string{"Python", "Data Structures", "System Design"}

// MarketProvider supplies live job market data for a role.
type MarketProvider interface {
	FetchByRole(ctx context.Context, role string, maxJobs int) (*types.MarketSnapshot, error)
}

// Deps holds the collaborators of a Pipeline. Client is required; the
// rest may be nil, in which case the corresponding stage degrades to its
// fallback output.
type Deps struct {
	Client    llm.Client
	Retriever retrieval.Retriever
	Market    MarketProvider
	Detector  *gaps.Detector
	Builder   *roadmap.Builder
	Catalog   *courses.Catalog
	Scorer    *similarity.Scorer
	Policy    llm.Policy
}

// Pipeline orchestrates one analysis run per call. It is safe for
// concurrent use; each run owns its own state and event channel.
type Pipeline struct {
	deps   Deps
	policy llm.Policy
}

// NewPipeline builds a pipeline. A zero Policy is replaced with
// DefaultPolicy.
func NewPipeline(deps Deps) *Pipeline {
	policy := deps.Policy
	if policy.MaxAttempts == 0 {
		policy = llm.DefaultPolicy()
	}
	return &Pipeline{deps: deps, policy: policy}
}

// Run executes the full pipeline and returns the final report. It never
// returns nil. Progress is published to ch, which may be nil; the caller
// owns terminal delivery (Finish/Fail) on the channel.
func (p *Pipeline) Run(ctx context.Context, resumeText string, ch *events.Channel) *types.AnalysisReport {
	state := &types.AnalysisState{ResumeText: resumeText}

	ch.Node("analyze", "running")
	ch.Log("[INFO] Starting resume analysis...")
	snapshot := p.analyze(ctx, state, ch)
	ch.Node("analyze", "complete")

	ch.Node("retrieve", "running")
	ch.Log("[INFO] Retrieving relevant courses...")
	p.retrieve(ctx, state, ch)
	ch.Node("retrieve", "complete")

	ch.Node("synthesize", "running")
	ch.Log("[INFO] Starting roadmap synthesis...")
	p.synthesize(ctx, state, snapshot, ch)
	ch.Node("synthesize", "complete")

	return state.FinalResult
}

// extraction is the model's answer to the role/gap extraction prompt.
type extraction struct {
	Role string   `json:"role"`
	Gaps []string `json:"gaps"`
}

// analyze extracts the target role and skill gaps. The returned market
// snapshot is reused by synthesize; it is never nil.
func (p *Pipeline) analyze(ctx context.Context, state *types.AnalysisState, ch *events.Channel) *types.MarketSnapshot {
	role := DefaultRole
	gapNames := defaultGapSkills

	extracted, err := p.extractRoleGaps(ctx, state.ResumeText)
	if err != nil {
		log.Printf("role extraction failed, using defaults: %v", err)
		ch.Log(fmt.Sprintf("[ERROR] Analysis failed: %v", err))
	} else {
		role = extracted.Role
		gapNames = extracted.Gaps
		ch.Log(fmt.Sprintf("[INFO] Role identified: %s", role))
		ch.Log(fmt.Sprintf("[INFO] Skill gaps detected: %s", strings.Join(gapNames, ", ")))
	}

	snapshot := p.fetchMarket(ctx, role, ch)

	state.DetectedRole = role
	state.SkillGaps = p.detectGaps(ctx, state.ResumeText, gapNames, snapshot)
	return snapshot
}

func (p *Pipeline) extractRoleGaps(ctx context.Context, resumeText string) (*extraction, error) {
	template, err := prompts.Get("analysis.json", "extract-role-gaps")
	if err != nil {
		return nil, err
	}
	prompt := prompts.Format(template, map[string]string{
		"ResumeText": truncate(resumeText, resumePromptLimit),
	})

	raw, err := p.deps.Client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, err
	}
	if err := schemas.ValidateExtraction(raw); err != nil {
		return nil, err
	}

	var out extraction
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("failed to parse extraction response: %w", err)
	}
	return &out, nil
}

// fetchMarket pulls live job data for the role. Failures never abort the
// analysis: the provider fills its snapshot with the generic skill list
// even on feed errors, so the degraded snapshot is still used.
func (p *Pipeline) fetchMarket(ctx context.Context, role string, ch *events.Channel) *types.MarketSnapshot {
	if p.deps.Market == nil {
		return &types.MarketSnapshot{Role: role}
	}

	ch.Log(fmt.Sprintf("[INFO] Fetching live job market data for: %s", role))
	snapshot, err := p.deps.Market.FetchByRole(ctx, role, maxMarketJobs)
	if err != nil {
		log.Printf("market fetch degraded for %q: %v", role, err)
		ch.Log(fmt.Sprintf("[ERROR] Market fetch failed: %v", err))
	}
	if snapshot == nil {
		return &types.MarketSnapshot{Role: role}
	}
	ch.Log(fmt.Sprintf("[INFO] Found %d live jobs and %d market skills", len(snapshot.Jobs), len(snapshot.MarketSkills)))
	return snapshot
}

// detectGaps runs the gap detector against the market's ranked skill
// demand. When no market targets or detector are available, the model's
// extracted gap names are promoted directly.
func (p *Pipeline) detectGaps(ctx context.Context, resumeText string, gapNames []string, snapshot *types.MarketSnapshot) []types.SkillGap {
	if p.deps.Detector != nil && len(snapshot.SkillFrequencies) > 0 {
		detected := p.deps.Detector.FindGaps(ctx, resumeText, snapshot.SkillFrequencies)
		if len(detected) > 0 {
			return detected
		}
	}
	return promoteGapNames(gapNames)
}

// promoteGapNames turns bare skill names into typed gaps with descending
// synthetic importance.
func promoteGapNames(names []string) []types.SkillGap {
	out := make([]types.SkillGap, 0, len(names))
	importance := 60
	for _, name := range names {
		severity := types.SeverityRecommended
		if importance > 50 {
			severity = types.SeverityCritical
		}
		out = append(out, types.SkillGap{Skill: name, Importance: importance, Severity: severity})
		if importance > 10 {
			importance -= 5
		}
	}
	return out
}

// retrieve collects supporting context for every gap. Each lookup is
// isolated: a failure or empty answer yields a placeholder section so
// one bad query cannot abort the batch.
func (p *Pipeline) retrieve(ctx context.Context, state *types.AnalysisState, ch *events.Channel) {
	sections := make([]string, 0, len(state.SkillGaps))
	for i, gap := range state.SkillGaps {
		body := "No results found."
		if p.deps.Retriever != nil {
			query := fmt.Sprintf("%s %s", gap.Skill, state.DetectedRole)
			snippets, err := p.deps.Retriever.Retrieve(ctx, query, retrieval.DefaultTopK)
			if err != nil {
				log.Printf("retrieval failed for %q: %v", gap.Skill, err)
				ch.Log(fmt.Sprintf("[ERROR] Failed to fetch %s: %v", gap.Skill, err))
			} else if len(snippets) > 0 {
				body = strings.Join(snippets, "\n")
				ch.Log(fmt.Sprintf("[INFO] Found resources for %s (%d/%d)", gap.Skill, i+1, len(state.SkillGaps)))
			}
		}
		sections = append(sections, fmt.Sprintf("### Resources for %s:\n%s", gap.Skill, body))
	}

	state.RetrievedContext = strings.Join(sections, "\n\n")
	ch.Log(fmt.Sprintf("[INFO] Retrieved %d resource sections", len(sections)))
}

// synthesisPayload mirrors the report schema, tolerating fractional
// scores from the model.
type synthesisPayload struct {
	DetectedRole        string                  `json:"detected_role"`
	MatchScore          float64                 `json:"match_score"`
	MatchScoreReasoning string                  `json:"match_score_reasoning"`
	SkillRadar          []types.SkillRadarEntry `json:"skill_radar"`
	Roadmap             []types.RoadmapItem     `json:"roadmap"`
	RecommendedJobs     []types.JobMatch        `json:"recommended_jobs"`
}

// synthesize produces the final report. The model call is retried for
// rate-limit-shaped failures only; on exhaustion a complete fallback
// report is substituted. This stage never leaves FinalResult nil.
func (p *Pipeline) synthesize(ctx context.Context, state *types.AnalysisState, snapshot *types.MarketSnapshot, ch *events.Channel) {
	prompt, err := p.synthesisPrompt(state, snapshot)
	if err == nil {
		var raw string
		raw, err = p.policy.Do(ctx, func(ctx context.Context) (string, error) {
			out, genErr := p.deps.Client.GenerateJSON(ctx, prompt, llm.TierStandard)
			if genErr != nil {
				return "", genErr
			}
			if valErr := schemas.ValidateSynthesis(out); valErr != nil {
				return "", valErr
			}
			return out, nil
		})
		if err == nil {
			var payload synthesisPayload
			if err = json.Unmarshal([]byte(raw), &payload); err == nil {
				state.FinalResult = p.buildReport(state, &payload, ch)
				ch.Log("[SUCCESS] Roadmap synthesis complete!")
				return
			}
		}
	}

	log.Printf("synthesis failed, generating fallback result: %v", err)
	ch.Log(fmt.Sprintf("[ERROR] Synthesis failed: %v", err))
	state.FinalResult = p.fallbackReport(ctx, state, snapshot, err)
}

func (p *Pipeline) synthesisPrompt(state *types.AnalysisState, snapshot *types.MarketSnapshot) (string, error) {
	template, err := prompts.Get("analysis.json", "synthesize-roadmap")
	if err != nil {
		return "", err
	}

	marketSkills, _ := json.Marshal(snapshot.MarketSkills)
	gapNames, _ := json.Marshal(state.GapNames())

	var liveJobs strings.Builder
	for i, job := range snapshot.Jobs {
		if i >= maxLiveJobs {
			break
		}
		fmt.Fprintf(&liveJobs, "\n[LIVE_JOB] Title: %s, Company: %s, URL: %s", job.Title, job.Company, job.URL)
	}

	return prompts.Format(template, map[string]string{
		"RetrievedContext": state.RetrievedContext,
		"Role":             state.DetectedRole,
		"MarketSkills":     string(marketSkills),
		"LiveJobs":         liveJobs.String(),
		"ResumeText":       truncate(state.ResumeText, resumePromptLimit),
		"SkillGaps":        string(gapNames),
	}), nil
}

// buildReport finalizes a successful synthesis, patching empty roadmap
// or job lists with deterministic fallbacks.
func (p *Pipeline) buildReport(state *types.AnalysisState, payload *synthesisPayload, ch *events.Channel) *types.AnalysisReport {
	report := &types.AnalysisReport{
		DetectedRole:        payload.DetectedRole,
		MatchScore:          int(math.Round(payload.MatchScore)),
		MatchScoreReasoning: payload.MatchScoreReasoning,
		SkillRadar:          payload.SkillRadar,
		Roadmap:             payload.Roadmap,
		RecommendedJobs:     payload.RecommendedJobs,
	}
	if report.DetectedRole == "" {
		report.DetectedRole = state.DetectedRole
	}

	if len(report.Roadmap) == 0 {
		ch.Log("[INFO] Generating fallback course recommendations...")
		report.Roadmap = p.catalogOrFallbackRoadmap(state)
	}
	if len(report.RecommendedJobs) == 0 {
		ch.Log("[INFO] Generating fallback job recommendations...")
		report.RecommendedJobs = FallbackJobs(report.DetectedRole)
	}
	return report
}

// catalogOrFallbackRoadmap prefers the catalog-driven builder and falls
// back to the built-in course templates when the catalog has nothing.
func (p *Pipeline) catalogOrFallbackRoadmap(state *types.AnalysisState) []types.RoadmapItem {
	if p.deps.Builder != nil && p.deps.Catalog != nil {
		built := p.deps.Builder.Build(state.SkillGaps, p.deps.Catalog.Courses())
		if len(built) > 0 {
			return built
		}
	}
	return FallbackRoadmap(state.GapNames())
}

// fallbackReport assembles a structurally complete result from internal
// defaults plus whatever gaps were already known. When the scorer is
// wired, the match score is computed from the resume against the market
// skill demand instead of the neutral default.
func (p *Pipeline) fallbackReport(ctx context.Context, state *types.AnalysisState, snapshot *types.MarketSnapshot, cause error) *types.AnalysisReport {
	role := state.DetectedRole
	if role == "" {
		role = DefaultRole
	}

	report := &types.AnalysisReport{
		DetectedRole:    role,
		MatchScore:      p.fallbackScore(ctx, state, snapshot),
		SkillRadar:      fallbackRadar(state.SkillGaps),
		Roadmap:         p.catalogOrFallbackRoadmap(state),
		RecommendedJobs: FallbackJobs(role),
	}
	if cause != nil {
		report.Error = cause.Error()
	}
	return report
}

// neutralMatchScore is reported when no real score can be computed.
const neutralMatchScore = 50

// fallbackScore compares the resume against the market skill demand with
// the similarity scorer. A missing scorer, empty market, or failed
// embedding yields the neutral default.
func (p *Pipeline) fallbackScore(ctx context.Context, state *types.AnalysisState, snapshot *types.MarketSnapshot) int {
	if p.deps.Scorer == nil || snapshot == nil || len(snapshot.MarketSkills) == 0 || state.ResumeText == "" {
		return neutralMatchScore
	}

	resume := &types.Document{RawText: state.ResumeText}
	market := &types.Document{RawText: "Skills required: " + strings.Join(snapshot.MarketSkills, ", ")}
	result := p.deps.Scorer.Score(ctx, resume, market)
	if result.OverallScore <= 0 {
		return neutralMatchScore
	}
	return int(math.Round(result.OverallScore))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

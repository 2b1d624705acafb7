package workflow

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ananya/resumatch/internal/events"
	"github.com/ananya/resumatch/internal/llm"
	"github.com/ananya/resumatch/internal/similarity"
	"github.com/ananya/resumatch/internal/types"
)

const extractionResponse = `{"role": "Backend Developer", "gaps": ["Kubernetes", "Terraform", "Kafka"]}`

const synthesisResponse = `{
	"detected_role": "Backend Developer",
	"match_score": 62,
	"match_score_reasoning": "Matched 5 of 8 market skills.",
	"skill_radar": [
		{"skill": "docker", "userScore": 6, "marketScore": 10},
		{"skill": "kubernetes", "userScore": 2, "marketScore": 10},
		{"skill": "terraform", "userScore": 2, "marketScore": 7},
		{"skill": "kafka", "userScore": 1, "marketScore": 7},
		{"skill": "go", "userScore": 8, "marketScore": 9},
		{"skill": "sql", "userScore": 7, "marketScore": 8}
	],
	"roadmap": [
		{"month": 1, "skill": "kubernetes", "course_title": "Kubernetes Crash Course", "course_url": "https://courses.example/k8s", "thumbnail": "t", "description": "d", "status": "Recommended"},
		{"month": 2, "skill": "terraform", "course_title": "Terraform in Practice", "course_url": "https://courses.example/tf", "thumbnail": "t", "description": "d", "status": "Recommended"},
		{"month": 3, "skill": "kafka", "course_title": "Kafka Fundamentals", "course_url": "https://courses.example/kafka", "thumbnail": "t", "description": "d", "status": "Recommended"},
		{"month": 4, "skill": "docker", "course_title": "Docker Deep Dive", "course_url": "https://courses.example/docker", "thumbnail": "t", "description": "d", "status": "Bonus"},
		{"month": 5, "skill": "go", "course_title": "Advanced Go", "course_url": "https://courses.example/go", "thumbnail": "t", "description": "d", "status": "Bonus"},
		{"month": 6, "skill": "sql", "course_title": "Advanced SQL", "course_url": "https://courses.example/sql", "thumbnail": "t", "description": "d", "status": "Bonus"}
	],
	"recommended_jobs": [
		{"title": "Backend Developer", "company": "Acme", "url": "https://example.com/job", "match_score": 70}
	]
}`

// scriptedLLM replays canned responses in call order and records the
// prompts it was given.
type scriptedLLM struct {
	responses []string
	errs      []error
	prompts   []string
	calls     int
}

func (f *scriptedLLM) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return f.GenerateJSON(ctx, prompt, tier)
}

func (f *scriptedLLM) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.prompts = append(f.prompts, prompt)
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return "", errors.New("no scripted response")
}

func (f *scriptedLLM) Close() error { return nil }

// mapRetriever answers queries by substring match and can fail for
// selected skills.
type mapRetriever struct {
	snippets map[string][]string
	failFor  map[string]bool
	calls    int
}

func (r *mapRetriever) Retrieve(_ context.Context, query string, _ int) ([]string, error) {
	r.calls++
	for key, fail := range r.failFor {
		if fail && strings.Contains(strings.ToLower(query), strings.ToLower(key)) {
			return nil, errors.New("lookup exploded")
		}
	}
	for key, docs := range r.snippets {
		if strings.Contains(strings.ToLower(query), strings.ToLower(key)) {
			return docs, nil
		}
	}
	return nil, nil
}

type fakeMarket struct {
	snapshot *types.MarketSnapshot
	err      error
}

func (m *fakeMarket) FetchByRole(_ context.Context, role string, _ int) (*types.MarketSnapshot, error) {
	if m.snapshot == nil && m.err == nil {
		return &types.MarketSnapshot{Role: role}, nil
	}
	return m.snapshot, m.err
}

func fastPolicy() llm.Policy {
	return llm.Policy{
		MaxAttempts: 3,
		Backoff:     []time.Duration{time.Millisecond, time.Millisecond},
		Retryable:   llm.IsRateLimited,
	}
}

func TestRun_HappyPath(t *testing.T) {
	client := &scriptedLLM{responses: []string{extractionResponse, synthesisResponse}}
	retriever := &mapRetriever{snippets: map[string][]string{
		"kubernetes": {"Kubernetes Crash Course https://courses.example/k8s"},
	}}
	market := &fakeMarket{snapshot: &types.MarketSnapshot{
		Role:         "Backend Developer",
		MarketSkills: []string{"docker", "kubernetes"},
		Jobs: []types.Job{
			{Title: "Backend Developer", Company: "Acme", URL: "https://example.com/job"},
		},
	}}

	p := NewPipeline(Deps{Client: client, Retriever: retriever, Market: market, Policy: fastPolicy()})
	report := p.Run(context.Background(), "Go developer with Docker experience.", nil)

	require.NotNil(t, report)
	assert.Equal(t, "Backend Developer", report.DetectedRole)
	assert.Equal(t, 62, report.MatchScore)
	assert.Empty(t, report.Error)
	assert.NotEmpty(t, report.Roadmap)
	assert.NotEmpty(t, report.RecommendedJobs)
}

func TestRun_AnalyzeFailureUsesDefaults(t *testing.T) {
	client := &scriptedLLM{
		responses: []string{"", synthesisResponse},
		errs:      []error{errors.New("model unavailable"), nil},
	}

	p := NewPipeline(Deps{Client: client, Market: &fakeMarket{}, Policy: fastPolicy()})
	report := p.Run(context.Background(), "resume", nil)

	require.NotNil(t, report)
	assert.NotEmpty(t, report.Roadmap)
}

func TestRun_FeedErrorStillUsesDegradedSnapshot(t *testing.T) {
	client := &scriptedLLM{responses: []string{extractionResponse, synthesisResponse}}
	market := &fakeMarket{
		snapshot: &types.MarketSnapshot{
			Role:         "Backend Developer",
			MarketSkills: []string{"python", "sql", "docker", "kubernetes", "aws", "linux"},
			SkillFrequencies: []types.SkillRecord{
				{Keyword: "python", Frequency: 1},
			},
		},
		err: errors.New("market feed unavailable: status 500"),
	}

	p := NewPipeline(Deps{Client: client, Market: market, Policy: fastPolicy()})
	report := p.Run(context.Background(), "Go developer with Docker experience.", nil)

	require.NotNil(t, report)
	assert.Empty(t, report.Error)

	// The generic skill list from the degraded snapshot reaches synthesis.
	require.Len(t, client.prompts, 2)
	assert.Contains(t, client.prompts[1], "python")
	assert.Contains(t, client.prompts[1], "linux")
}

func TestAnalyze_DefaultGapsOnBadJSON(t *testing.T) {
	client := &scriptedLLM{responses: []string{`{"nonsense": true}`}}
	p := NewPipeline(Deps{Client: client, Policy: fastPolicy()})

	state := &types.AnalysisState{ResumeText: "resume"}
	p.analyze(context.Background(), state, nil)

	assert.Equal(t, DefaultRole, state.DetectedRole)
	assert.Equal(t, defaultGapSkills, state.GapNames())
	for _, gap := range state.SkillGaps {
		assert.NotEmpty(t, gap.Severity)
	}
}

func TestRetrieve_IsolatesPerGapFailures(t *testing.T) {
	retriever := &mapRetriever{
		snippets: map[string][]string{
			"terraform":  {"Terraform course"},
			"kafka":      {"Kafka course"},
			"postgres":   {"Postgres course"},
			"prometheus": {"Prometheus course"},
		},
		failFor: map[string]bool{"kubernetes": true},
	}

	p := NewPipeline(Deps{Client: &scriptedLLM{}, Retriever: retriever, Policy: fastPolicy()})
	state := &types.AnalysisState{
		DetectedRole: "SRE",
		SkillGaps: []types.SkillGap{
			{Skill: "terraform"}, {Skill: "kubernetes"}, {Skill: "kafka"},
			{Skill: "postgres"}, {Skill: "prometheus"},
		},
	}
	p.retrieve(context.Background(), state, nil)

	sections := strings.Split(state.RetrievedContext, "\n\n")
	require.Len(t, sections, 5)
	assert.Equal(t, 5, retriever.calls)
	assert.Contains(t, state.RetrievedContext, "### Resources for kubernetes:\nNo results found.")
	assert.Contains(t, state.RetrievedContext, "Terraform course")
}

func TestSynthesize_RetriesRateLimitThenSucceeds(t *testing.T) {
	rateLimit := errors.New("googleapi: Error 429: quota exceeded")
	client := &scriptedLLM{
		responses: []string{extractionResponse, "", synthesisResponse},
		errs:      []error{nil, rateLimit, nil},
	}

	p := NewPipeline(Deps{Client: client, Market: &fakeMarket{}, Policy: fastPolicy()})
	report := p.Run(context.Background(), "resume", nil)

	require.NotNil(t, report)
	assert.Empty(t, report.Error)
	assert.Equal(t, 3, client.calls)
}

func TestSynthesize_ExhaustedRetriesYieldCompleteFallback(t *testing.T) {
	rateLimit := errors.New("googleapi: Error 429: resource exhausted")
	client := &scriptedLLM{
		responses: []string{extractionResponse, "", "", ""},
		errs:      []error{nil, rateLimit, rateLimit, rateLimit},
	}

	p := NewPipeline(Deps{Client: client, Market: &fakeMarket{}, Policy: fastPolicy()})
	report := p.Run(context.Background(), "resume", nil)

	require.NotNil(t, report)
	assert.NotEmpty(t, report.Error)
	assert.Contains(t, report.Error, "429")
	assert.Len(t, report.Roadmap, 6)
	assert.Len(t, report.SkillRadar, 6)
	assert.Len(t, report.RecommendedJobs, 3)
	assert.Equal(t, "Backend Developer", report.DetectedRole)
	assert.Equal(t, 4, client.calls)
}

// halfMatchEmbedder returns orthogonal-ish fixed vectors so the scorer
// yields a deterministic non-neutral score.
type halfMatchEmbedder struct{}

func (halfMatchEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if strings.Contains(text, "Skills required:") {
		return []float32{1, 0}, nil
	}
	return []float32{1, 1}, nil
}

func TestSynthesize_FallbackScoresResumeAgainstMarket(t *testing.T) {
	rateLimit := errors.New("googleapi: Error 429: resource exhausted")
	client := &scriptedLLM{
		responses: []string{extractionResponse, "", "", ""},
		errs:      []error{nil, rateLimit, rateLimit, rateLimit},
	}
	market := &fakeMarket{snapshot: &types.MarketSnapshot{
		Role:         "Backend Developer",
		MarketSkills: []string{"docker", "kubernetes"},
	}}

	p := NewPipeline(Deps{
		Client: client,
		Market: market,
		Scorer: similarity.NewScorer(halfMatchEmbedder{}),
		Policy: fastPolicy(),
	})
	report := p.Run(context.Background(), "Go developer with Docker experience.", nil)

	require.NotNil(t, report)
	assert.NotEmpty(t, report.Error)
	// cos([1,1],[1,0]) = 0.7071..., scaled to 0-100 and rounded.
	assert.Equal(t, 71, report.MatchScore)
}

func TestSynthesize_FallbackScoreNeutralWithoutScorer(t *testing.T) {
	client := &scriptedLLM{
		responses: []string{extractionResponse, ""},
		errs:      []error{nil, errors.New("invalid request")},
	}

	p := NewPipeline(Deps{Client: client, Market: &fakeMarket{}, Policy: fastPolicy()})
	report := p.Run(context.Background(), "resume", nil)

	require.NotNil(t, report)
	assert.Equal(t, 50, report.MatchScore)
}

func TestSynthesize_ShortListsRejectedAsFallback(t *testing.T) {
	short := `{
		"detected_role": "Backend Developer",
		"match_score": 40,
		"skill_radar": [
			{"skill": "docker", "userScore": 3, "marketScore": 10},
			{"skill": "kubernetes", "userScore": 2, "marketScore": 9}
		],
		"roadmap": [
			{"month": 1, "skill": "docker", "course_title": "Docker Basics", "course_url": "https://example.com/docker", "status": "Recommended"}
		],
		"recommended_jobs": []
	}`
	client := &scriptedLLM{responses: []string{extractionResponse, short}}

	p := NewPipeline(Deps{Client: client, Market: &fakeMarket{}, Policy: fastPolicy()})
	report := p.Run(context.Background(), "resume", nil)

	require.NotNil(t, report)
	assert.NotEmpty(t, report.Error)
	assert.Len(t, report.SkillRadar, 6)
	assert.Len(t, report.Roadmap, 6)
	assert.Len(t, report.RecommendedJobs, 3)
	// Shape violations are not rate-limit-shaped, so no retries happen.
	assert.Equal(t, 2, client.calls)
}

func TestSynthesize_NonRetryableFailsImmediately(t *testing.T) {
	client := &scriptedLLM{
		responses: []string{extractionResponse, ""},
		errs:      []error{nil, errors.New("invalid request")},
	}

	p := NewPipeline(Deps{Client: client, Market: &fakeMarket{}, Policy: fastPolicy()})
	report := p.Run(context.Background(), "resume", nil)

	require.NotNil(t, report)
	assert.NotEmpty(t, report.Error)
	assert.Equal(t, 2, client.calls)
}

func TestSynthesize_EmptyRoadmapPatchedWithFallback(t *testing.T) {
	sparse := `{
		"detected_role": "Backend Developer",
		"match_score": 40,
		"skill_radar": [
			{"skill": "docker", "userScore": 3, "marketScore": 10},
			{"skill": "kubernetes", "userScore": 2, "marketScore": 9},
			{"skill": "terraform", "userScore": 2, "marketScore": 7},
			{"skill": "kafka", "userScore": 1, "marketScore": 7},
			{"skill": "go", "userScore": 8, "marketScore": 9},
			{"skill": "sql", "userScore": 7, "marketScore": 8}
		],
		"roadmap": [],
		"recommended_jobs": []
	}`
	client := &scriptedLLM{responses: []string{extractionResponse, sparse}}

	p := NewPipeline(Deps{Client: client, Market: &fakeMarket{}, Policy: fastPolicy()})
	report := p.Run(context.Background(), "resume", nil)

	require.NotNil(t, report)
	assert.Empty(t, report.Error)
	assert.Len(t, report.Roadmap, 6)
	assert.Len(t, report.RecommendedJobs, 3)
}

func TestRun_PublishesNodeEventsInOrder(t *testing.T) {
	client := &scriptedLLM{responses: []string{extractionResponse, synthesisResponse}}
	p := NewPipeline(Deps{Client: client, Market: &fakeMarket{}, Policy: fastPolicy()})

	ch := events.NewChannel(events.DefaultBuffer)
	go func() {
		report := p.Run(context.Background(), "resume", ch)
		ch.Finish(report)
	}()

	var nodes []string
	var sawResult, sawDone bool
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, ch.Drain(ctx, func(ev events.Event) error {
		switch ev.Type {
		case events.TypeNode:
			status := ev.Data.(events.NodeStatus)
			if status.Status == "running" {
				nodes = append(nodes, status.Node)
			}
		case events.TypeResult:
			sawResult = true
			assert.False(t, sawDone)
		case events.TypeDone:
			sawDone = true
			assert.True(t, sawResult)
		}
		return nil
	}))

	assert.Equal(t, []string{"analyze", "retrieve", "synthesize"}, nodes)
	assert.True(t, sawDone)
}

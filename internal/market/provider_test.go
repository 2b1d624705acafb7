package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ananya/resumatch/internal/vocab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `[
	{"legal": "API terms"},
	{"id": 1, "position": "Software Engineer", "company": "Acme",
	 "description": "<p>Build services with <b>Python</b> and Docker. Python required.</p>",
	 "url": "https://jobs.example/1", "tags": ["python", "docker"], "location": "Remote"},
	{"id": 2, "position": "Senior Software Engineer", "company": "Globex",
	 "description": "Kubernetes and Python at scale.",
	 "url": "https://jobs.example/2", "tags": ["kubernetes"]},
	{"id": 3, "position": "Marketing Manager", "company": "Initech",
	 "description": "Manage campaigns.", "url": "https://jobs.example/3"}
]`

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewProvider(vocab.New(), &Options{FeedURL: srv.URL})
}

func TestFetchByRole_FiltersAndRanks(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(sampleFeed))
	})

	snapshot, err := p.FetchByRole(context.Background(), "Software Engineer", 15)
	require.NoError(t, err)

	require.Len(t, snapshot.Jobs, 2, "marketing job filtered out by role")
	assert.Equal(t, "Software Engineer", snapshot.Jobs[0].Title)
	assert.NotContains(t, snapshot.Jobs[0].Description, "<p>", "HTML stripped")

	// python appears most often across titles, descriptions, and tags.
	require.NotEmpty(t, snapshot.SkillFrequencies)
	assert.Equal(t, "python", snapshot.SkillFrequencies[0].Keyword)
	assert.Contains(t, snapshot.MarketSkills, "docker")
	assert.Contains(t, snapshot.MarketSkills, "kubernetes")
}

func TestFetchByRole_MaxJobs(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(sampleFeed))
	})

	snapshot, err := p.FetchByRole(context.Background(), "Software Engineer", 1)
	require.NoError(t, err)
	assert.Len(t, snapshot.Jobs, 1)
}

func TestFetchByRole_NoRoleMatchFallsBackToWholeFeed(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(sampleFeed))
	})

	snapshot, err := p.FetchByRole(context.Background(), "Quant Researcher", 15)
	require.NoError(t, err)
	assert.NotEmpty(t, snapshot.Jobs)
	assert.NotEmpty(t, snapshot.MarketSkills)
}

func TestFetchByRole_FeedDownYieldsFallbackSkills(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	snapshot, err := p.FetchByRole(context.Background(), "Software Engineer", 15)

	assert.Error(t, err, "feed failure is reported")
	require.NotNil(t, snapshot, "but a usable snapshot is still returned")
	assert.Equal(t, FallbackSkills(), snapshot.MarketSkills)
	assert.Len(t, snapshot.SkillFrequencies, 6)
	assert.Empty(t, snapshot.Jobs)
}

func TestFetchByRole_EmptyFeedYieldsFallbackSkills(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"legal": "API terms"}]`))
	})

	snapshot, err := p.FetchByRole(context.Background(), "Software Engineer", 15)
	require.NoError(t, err)
	assert.Equal(t, FallbackSkills(), snapshot.MarketSkills)
}

func TestFetchByRole_MalformedFeed(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"not": "a list"}`))
	})

	snapshot, err := p.FetchByRole(context.Background(), "Software Engineer", 15)
	assert.Error(t, err)
	assert.Equal(t, FallbackSkills(), snapshot.MarketSkills)
}

// Package market provides the labor-market data provider: it fetches live job
// postings from a remote job feed, filters them by role, and derives a ranked
// skill-frequency table from the posting text.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ananya/resumatch/internal/types"
	"github.com/ananya/resumatch/internal/vocab"
)

const (
	// DefaultFeedURL is the public remote-jobs JSON feed.
	DefaultFeedURL = "https://remoteok.com/api"
	// DefaultTimeout is the feed request timeout.
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent identifies the client to the feed.
	DefaultUserAgent = "Mozilla/5.0 (compatible; ResuMatch/1.0)"
	// topKeywords caps the skill-frequency table.
	topKeywords = 50
)

var wordPattern = regexp.MustCompile(`\b[a-zA-Z]{3,}\b`)

// fallbackSkills is the fixed generic skill list used when the feed returns
// nothing usable for a role.
var fallbackSkills = []string{"python", "sql", "docker", "kubernetes", "aws", "linux"}

// feedJob mirrors one entry of the remote feed.
type feedJob struct {
	ID          json.Number `json:"id"`
	Position    string      `json:"position"`
	Company     string      `json:"company"`
	Description string      `json:"description"`
	URL         string      `json:"url"`
	Location    string      `json:"location"`
	Salary      string      `json:"salary"`
	Tags        []string    `json:"tags"`
	Date        string      `json:"date"`
}

// Provider fetches and ranks market data. It is safe for concurrent use.
type Provider struct {
	feedURL string
	client  *http.Client
	vocab   *vocab.Vocabulary
}

// Options configures a Provider.
type Options struct {
	FeedURL string
	Timeout time.Duration
}

// NewProvider creates a market data provider.
func NewProvider(v *vocab.Vocabulary, opts *Options) *Provider {
	feedURL := DefaultFeedURL
	timeout := DefaultTimeout
	if opts != nil {
		if opts.FeedURL != "" {
			feedURL = opts.FeedURL
		}
		if opts.Timeout > 0 {
			timeout = opts.Timeout
		}
	}
	return &Provider{
		feedURL: feedURL,
		client:  &http.Client{Timeout: timeout},
		vocab:   v,
	}
}

// FetchByRole returns jobs matching the role plus the ranked market-skill
// signal derived from their text. An unreachable feed or an empty result is
// not an error for callers: the snapshot falls back to a fixed generic skill
// list so the analysis pipeline always has a target skill set.
func (p *Provider) FetchByRole(ctx context.Context, role string, maxJobs int) (*types.MarketSnapshot, error) {
	snapshot := &types.MarketSnapshot{Role: role}

	jobs, err := p.fetchFeed(ctx)
	if err != nil {
		p.applyFallback(snapshot)
		return snapshot, fmt.Errorf("market feed unavailable: %w", err)
	}

	matched := filterByRole(jobs, role)
	if len(matched) == 0 {
		// No role-specific jobs; rank skills across the whole feed instead.
		matched = jobs
	}
	if len(matched) == 0 {
		p.applyFallback(snapshot)
		return snapshot, nil
	}

	if maxJobs > 0 && len(matched) > maxJobs {
		matched = matched[:maxJobs]
	}

	for _, job := range matched {
		snapshot.Jobs = append(snapshot.Jobs, types.Job{
			ID:          job.ID.String(),
			Title:       job.Position,
			Company:     job.Company,
			Description: stripHTML(job.Description),
			URL:         job.URL,
			Location:    job.Location,
			Salary:      job.Salary,
			Tags:        job.Tags,
			Date:        job.Date,
		})
	}

	snapshot.SkillFrequencies = p.rankSkills(snapshot.Jobs)
	for _, rec := range snapshot.SkillFrequencies {
		snapshot.MarketSkills = append(snapshot.MarketSkills, rec.Keyword)
	}
	if len(snapshot.MarketSkills) == 0 {
		p.applyFallback(snapshot)
	}

	return snapshot, nil
}

// fetchFeed retrieves and decodes the job feed.
func (p *Provider) fetchFeed(ctx context.Context) ([]feedJob, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", DefaultUserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed body: %w", err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode feed: %w", err)
	}

	// The feed prefixes the job list with a metadata object; keep only
	// entries that look like job postings.
	jobs := make([]feedJob, 0, len(raw))
	for _, entry := range raw {
		var job feedJob
		if err := json.Unmarshal(entry, &job); err != nil {
			continue
		}
		if job.Position != "" && job.Description != "" {
			jobs = append(jobs, job)
		}
	}
	return jobs, nil
}

// filterByRole keeps jobs whose title contains every word of the role.
func filterByRole(jobs []feedJob, role string) []feedJob {
	words := strings.Fields(strings.ToLower(role))
	if len(words) == 0 {
		return jobs
	}

	var matched []feedJob
	for _, job := range jobs {
		title := strings.ToLower(job.Position)
		all := true
		for _, word := range words {
			if !strings.Contains(title, word) {
				all = false
				break
			}
		}
		if all {
			matched = append(matched, job)
		}
	}
	return matched
}

// rankSkills counts vocabulary skills across titles, descriptions, and tags,
// returning the top keywords by frequency.
func (p *Provider) rankSkills(jobs []types.Job) []types.SkillRecord {
	counts := make(map[string]int)
	for _, job := range jobs {
		text := strings.ToLower(job.Title + " " + job.Description + " " + strings.Join(job.Tags, " "))
		for _, word := range wordPattern.FindAllString(text, -1) {
			if p.vocab.IsStopword(word) || !p.vocab.IsSkill(word) {
				continue
			}
			counts[word]++
		}
	}

	records := make([]types.SkillRecord, 0, len(counts))
	for keyword, count := range counts {
		records = append(records, types.SkillRecord{Keyword: keyword, Frequency: count})
	}
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Frequency != records[j].Frequency {
			return records[i].Frequency > records[j].Frequency
		}
		return records[i].Keyword < records[j].Keyword
	})
	if len(records) > topKeywords {
		records = records[:topKeywords]
	}
	return records
}

// applyFallback fills the snapshot with the fixed generic skill list.
func (p *Provider) applyFallback(snapshot *types.MarketSnapshot) {
	snapshot.MarketSkills = append([]string(nil), fallbackSkills...)
	snapshot.SkillFrequencies = nil
	for i, skill := range fallbackSkills {
		snapshot.SkillFrequencies = append(snapshot.SkillFrequencies, types.SkillRecord{
			Keyword: skill,
			// Descending synthetic weights so severity classification still
			// has a gradient under fallback.
			Frequency: 60 - i*5,
		})
	}
}

// stripHTML extracts plain text from an HTML fragment, collapsing whitespace.
func stripHTML(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.Join(strings.Fields(html), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// FallbackSkills returns the generic skill list used when the feed is empty.
func FallbackSkills() []string {
	return append([]string(nil), fallbackSkills...)
}

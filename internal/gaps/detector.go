// Package gaps provides the semantic skill-gap detector: it decides which
// market-required skills a résumé does not evidence.
package gaps

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ananya/resumatch/internal/similarity"
	"github.com/ananya/resumatch/internal/textproc"
	"github.com/ananya/resumatch/internal/types"
	"github.com/ananya/resumatch/internal/vocab"
)

// Config holds the tunable thresholds of the detector. The semantic threshold
// compares a short synthetic phrase against a full document, so its
// calibration is uncertain; it is kept configurable rather than fixed.
type Config struct {
	// SemanticThreshold is the cosine similarity above which a skill counts
	// as known even without an exact match.
	SemanticThreshold float64
	// CriticalImportance is the market frequency above which a gap is
	// classified Critical rather than Recommended.
	CriticalImportance int
}

// DefaultConfig returns the default detector thresholds.
func DefaultConfig() Config {
	return Config{
		SemanticThreshold:  0.85,
		CriticalImportance: 50,
	}
}

// Detector finds skills in a target list that a résumé does not evidence.
type Detector struct {
	config     Config
	embedder   similarity.Embedder
	normalizer *textproc.Normalizer
	vocab      *vocab.Vocabulary
}

// NewDetector creates a Detector. The embedder backs the semantic fallback
// check; the normalizer supplies the token stream for exact matching; the
// vocabulary gates which targets are considered at all.
func NewDetector(config Config, embedder similarity.Embedder, normalizer *textproc.Normalizer, v *vocab.Vocabulary) *Detector {
	return &Detector{
		config:     config,
		embedder:   embedder,
		normalizer: normalizer,
		vocab:      v,
	}
}

// FindGaps returns the target skills not evidenced in the résumé, sorted
// descending by importance. Ties keep original target-list order. A skill
// appears at most once per analysis. Targets outside the skill vocabulary
// are dropped before matching, so noise keywords never surface as gaps.
//
// Per target skill, in order: an exact case-insensitive match in the résumé
// text or token stream marks the skill known; otherwise a semantic check
// compares the résumé against a synthetic phrase for the skill, and a
// similarity above the threshold marks it known. If the semantic check itself
// fails, the skill is recorded as a gap with Unknown severity: over-reporting
// gaps is preferred to silently hiding them.
func (d *Detector) FindGaps(ctx context.Context, resumeText string, targets []types.SkillRecord) []types.SkillGap {
	doc := d.normalizer.Normalize(resumeText)
	haystack := strings.ToLower(resumeText) + " " + strings.Join(doc.Tokens, " ")

	var gaps []types.SkillGap
	seen := make(map[string]bool)

	for _, target := range d.vocab.FilterSkillRecords(targets) {
		skill := strings.ToLower(strings.TrimSpace(target.Keyword))
		if skill == "" || seen[skill] {
			continue
		}
		seen[skill] = true

		if strings.Contains(haystack, skill) {
			continue
		}

		known, err := d.semanticallyKnown(ctx, resumeText, skill)
		if err != nil {
			gaps = append(gaps, types.SkillGap{
				Skill:      skill,
				Importance: target.Frequency,
				Severity:   types.SeverityUnknown,
			})
			continue
		}
		if known {
			continue
		}

		gaps = append(gaps, types.SkillGap{
			Skill:      skill,
			Importance: target.Frequency,
			Severity:   d.classify(target.Frequency),
		})
	}

	sort.SliceStable(gaps, func(i, j int) bool {
		return gaps[i].Importance > gaps[j].Importance
	})
	return gaps
}

// semanticallyKnown embeds the résumé and a short synthetic phrase for the
// skill and compares them with cosine similarity.
func (d *Detector) semanticallyKnown(ctx context.Context, resumeText, skill string) (bool, error) {
	phrase := fmt.Sprintf("experience with %s and related technologies", skill)

	resumeVec, err := d.embedder.Embed(ctx, resumeText)
	if err != nil {
		return false, fmt.Errorf("embedding résumé: %w", err)
	}
	skillVec, err := d.embedder.Embed(ctx, phrase)
	if err != nil {
		return false, fmt.Errorf("embedding skill phrase: %w", err)
	}

	return similarity.Cosine(resumeVec, skillVec) > d.config.SemanticThreshold, nil
}

func (d *Detector) classify(importance int) types.Severity {
	if importance > d.config.CriticalImportance {
		return types.SeverityCritical
	}
	return types.SeverityRecommended
}

// Package roadmap provides the roadmap synthesizer: it maps an ordered list
// of skill gaps onto available courses, producing a fixed-length curriculum.
package roadmap

import (
	"fmt"
	"net/url"

	"github.com/ananya/resumatch/internal/courses"
	"github.com/ananya/resumatch/internal/types"
	"github.com/ananya/resumatch/internal/vocab"
)

// Months is the fixed curriculum length.
const Months = 6

// placeholderThumbnail is used for synthesized placeholder items.
const placeholderThumbnail = "https://i.ytimg.com/vi/default/hqdefault.jpg"

// Builder assembles learning roadmaps from a course catalog.
type Builder struct {
	vocab *vocab.Vocabulary
}

// NewBuilder creates a Builder that filters catalogs against the vocabulary's
// course keyword lists.
func NewBuilder(v *vocab.Vocabulary) *Builder {
	return &Builder{vocab: v}
}

// Build returns a roadmap of exactly Months items, one per month with
// strictly increasing month numbers, unless the filtered catalog is empty, in
// which case it returns an empty roadmap. No two items share a course URL
// except synthesized placeholder entries.
//
// The first Months gaps (in detector output order) are matched against course
// titles by case-insensitive substring. Remaining months are filled with
// unused catalog courses marked Bonus, then with keyword-search placeholders
// if the catalog runs out, so the roadmap is never partially populated.
func (b *Builder) Build(skillGaps []types.SkillGap, catalog []types.Course) []types.RoadmapItem {
	relevant := b.filterCatalog(catalog)
	if len(relevant) == 0 {
		return nil
	}

	items := make([]types.RoadmapItem, 0, Months)
	usedURLs := make(map[string]bool)
	var unmatched []types.SkillGap

	searchable := courses.FromCourses(relevant, nil)

	limit := len(skillGaps)
	if limit > Months {
		limit = Months
	}

	for _, gap := range skillGaps[:limit] {
		course, ok := firstUnused(searchable.Search(gap.Skill), usedURLs)
		if !ok {
			unmatched = append(unmatched, gap)
			continue
		}
		usedURLs[course.URL] = true
		items = append(items, types.RoadmapItem{
			Month:       len(items) + 1,
			Skill:       gap.Skill,
			CourseTitle: course.Title,
			CourseURL:   course.URL,
			Thumbnail:   course.Thumbnail,
			Description: fmt.Sprintf("Learn %s to bridge your skill gap.", gap.Skill),
			Status:      types.StatusRecommended,
		})
	}

	// Fill remaining months with unused courses.
	for _, course := range relevant {
		if len(items) >= Months {
			break
		}
		if usedURLs[course.URL] {
			continue
		}
		usedURLs[course.URL] = true
		items = append(items, types.RoadmapItem{
			Month:       len(items) + 1,
			Skill:       "Advanced CS Skills",
			CourseTitle: course.Title,
			CourseURL:   course.URL,
			Thumbnail:   course.Thumbnail,
			Description: "Recommended course to strengthen your computer science fundamentals.",
			Status:      types.StatusBonus,
		})
	}

	// Catalog exhausted: synthesize keyword-search placeholders so every
	// claimed month has content.
	for len(items) < Months {
		skill := "Software Engineering"
		if len(unmatched) > 0 {
			skill = unmatched[0].Skill
			unmatched = unmatched[1:]
		}
		items = append(items, placeholderItem(len(items)+1, skill))
	}

	return items
}

// filterCatalog keeps only domain-relevant courses; exclusion keywords win
// over inclusion keywords.
func (b *Builder) filterCatalog(catalog []types.Course) []types.Course {
	relevant := make([]types.Course, 0, len(catalog))
	for _, course := range catalog {
		if b.vocab.IsRelevantCourse(course.Title) {
			relevant = append(relevant, course)
		}
	}
	return relevant
}

// firstUnused picks the first search hit whose URL has not been claimed by
// an earlier month.
func firstUnused(matches []types.Course, used map[string]bool) (types.Course, bool) {
	for _, course := range matches {
		if used[course.URL] {
			continue
		}
		return course, true
	}
	return types.Course{}, false
}

// placeholderItem points at a keyword search rather than a dead entry.
func placeholderItem(month int, skill string) types.RoadmapItem {
	return types.RoadmapItem{
		Month:       month,
		Skill:       skill,
		CourseTitle: fmt.Sprintf("Learn %s - Online Course", skill),
		CourseURL:   "https://www.youtube.com/results?search_query=" + url.QueryEscape(skill+" course"),
		Thumbnail:   placeholderThumbnail,
		Description: fmt.Sprintf("Search for courses on %s.", skill),
		Status:      types.StatusRecommended,
	}
}

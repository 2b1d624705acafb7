// Package courses loads and queries the course catalog used to build
// learning roadmaps.
package courses

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ananya/resumatch/internal/types"
	"github.com/ananya/resumatch/internal/vocab"
)

// Catalog is an in-memory course catalog pre-filtered to relevant entries.
type Catalog struct {
	courses []types.Course
}

// Load reads a JSON catalog file and keeps only entries that look like
// genuine tech courses. A missing or empty catalog is not an error;
// downstream consumers tolerate an empty course list.
func Load(path string, v *vocab.Vocabulary) (*Catalog, error) {
	if path == "" {
		return &Catalog{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Catalog{}, nil
		}
		return nil, fmt.Errorf("failed to read course catalog %s: %w", path, err)
	}

	var raw []types.Course
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse course catalog %s: %w", path, err)
	}

	return FromCourses(raw, v), nil
}

// FromCourses builds a catalog from an already decoded course list,
// applying the same relevance filter as Load.
func FromCourses(raw []types.Course, v *vocab.Vocabulary) *Catalog {
	kept := make([]types.Course, 0, len(raw))
	for _, c := range raw {
		if c.Title == "" || c.URL == "" {
			continue
		}
		if v != nil && !v.IsRelevantCourse(c.Title) {
			continue
		}
		kept = append(kept, c)
	}
	return &Catalog{courses: kept}
}

// Courses returns the filtered catalog entries in load order.
func (c *Catalog) Courses() []types.Course {
	return c.courses
}

// Len reports the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.courses)
}

// Search returns courses whose title contains the query, case
// insensitively. Zero results is a valid outcome.
func (c *Catalog) Search(query string) []types.Course {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	var matches []types.Course
	for _, course := range c.courses {
		if strings.Contains(strings.ToLower(course.Title), query) {
			matches = append(matches, course)
		}
	}
	return matches
}

package workflow

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/ananya/resumatch/internal/roadmap"
	"github.com/ananya/resumatch/internal/types"
)

// fallbackCourse is a built-in curriculum entry used when neither the
// model nor the catalog can supply a course.
type fallbackCourse struct {
	skill       string
	title       string
	url         string
	thumbnail   string
	description string
}

var fallbackCourses = []fallbackCourse{
	{
		skill:       "Python Programming",
		title:       "Programming, Data Structures and Algorithms Using Python",
		url:         "https://www.youtube.com/playlist?list=PLJ5C_6qdAvBHYz8B2jZ1Xz9b-lZqL8RYH",
		thumbnail:   "https://i.ytimg.com/vi/1FxCsoPRQVY/hqdefault.jpg",
		description: "Python fundamentals, data structures, and algorithms",
	},
	{
		skill:       "Machine Learning",
		title:       "Machine Learning Foundations",
		url:         "https://www.youtube.com/playlist?list=PLJ5C_6qdAvBG2kj4D6X7KuQ-cZ6j9qSU3",
		thumbnail:   "https://i.ytimg.com/vi/ml_found/hqdefault.jpg",
		description: "Comprehensive introductory machine learning course",
	},
	{
		skill:       "Data Structures",
		title:       "Data Structures and Algorithms",
		url:         "https://www.youtube.com/playlist?list=PLDN4rrl48XKpZkf03iYFl-O29szjTrs_O",
		thumbnail:   "https://i.ytimg.com/vi/0IAPZzGSbME/hqdefault.jpg",
		description: "Complete DSA course with practical implementations",
	},
	{
		skill:       "Cloud Computing",
		title:       "Cloud Computing Fundamentals",
		url:         "https://www.youtube.com/playlist?list=PLJ5C_6qdAvBHBPQo_-YCe8fYCfHzH7Wgz",
		thumbnail:   "https://i.ytimg.com/vi/cloud_fund/hqdefault.jpg",
		description: "Cloud concepts across AWS, Azure, and GCP",
	},
	{
		skill:       "DevOps",
		title:       "DevOps and Software Engineering",
		url:         "https://www.youtube.com/playlist?list=PLJ5C_6qdAvBHDevOpsIntro",
		thumbnail:   "https://i.ytimg.com/vi/devops_intro/hqdefault.jpg",
		description: "CI/CD pipelines, containerization, and deployment practices",
	},
	{
		skill:       "Software Testing",
		title:       "Software Testing in Practice",
		url:         "https://www.youtube.com/playlist?list=PLJ5C_6qdAvBHTestingIntro",
		thumbnail:   "https://i.ytimg.com/vi/testing_intro/hqdefault.jpg",
		description: "Testing methodologies and automation practices",
	},
}

// fallbackJobTemplates seed job recommendations when no live postings
// survive synthesis.
var fallbackJobTemplates = []struct {
	title   string
	company string
	score   int
}{
	{title: "Software Engineer", company: "Tech Company", score: 75},
	{title: "Full Stack Developer", company: "Startup Inc", score: 70},
	{title: "ML Engineer", company: "AI Solutions", score: 72},
}

// FallbackRoadmap builds a deterministic six-month roadmap from the gap
// list and the built-in course templates. Months beyond the gap list are
// filled from unused templates, so the result always has exactly
// roadmap.Months entries.
func FallbackRoadmap(gapNames []string) []types.RoadmapItem {
	items := make([]types.RoadmapItem, 0, roadmap.Months)
	usedURLs := make(map[string]bool)

	for _, gap := range gapNames {
		if len(items) == roadmap.Months {
			break
		}
		items = append(items, fallbackItem(len(items)+1, gap, usedURLs))
	}

	for _, course := range fallbackCourses {
		if len(items) == roadmap.Months {
			break
		}
		if usedURLs[course.url] {
			continue
		}
		usedURLs[course.url] = true
		items = append(items, types.RoadmapItem{
			Month:       len(items) + 1,
			Skill:       course.skill,
			CourseTitle: course.title,
			CourseURL:   course.url,
			Thumbnail:   course.thumbnail,
			Description: course.description,
			Status:      types.StatusBonus,
		})
	}
	return items
}

// radarEntries is the fixed skill-radar length of a report.
const radarEntries = 6

// genericRadarSkills pad the fallback radar when fewer gaps are known.
var genericRadarSkills = []string{"python", "sql", "docker", "kubernetes", "aws", "linux"}

// fallbackRadar builds a radar of exactly radarEntries entries: one per
// known gap, padded from the generic skill list.
func fallbackRadar(gaps []types.SkillGap) []types.SkillRadarEntry {
	radar := make([]types.SkillRadarEntry, 0, radarEntries)
	seen := make(map[string]bool)

	for _, gap := range gaps {
		if len(radar) == radarEntries {
			break
		}
		seen[strings.ToLower(gap.Skill)] = true
		radar = append(radar, types.SkillRadarEntry{Skill: gap.Skill, UserScore: 3, MarketScore: 10})
	}

	for _, skill := range genericRadarSkills {
		if len(radar) == radarEntries {
			break
		}
		if seen[skill] {
			continue
		}
		seen[skill] = true
		radar = append(radar, types.SkillRadarEntry{Skill: skill, UserScore: 5, MarketScore: 8})
	}
	return radar
}

// fallbackItem matches one gap against the built-in templates, falling
// back to a keyword search link.
func fallbackItem(month int, gap string, usedURLs map[string]bool) types.RoadmapItem {
	gapLower := strings.ToLower(gap)
	for _, course := range fallbackCourses {
		if usedURLs[course.url] {
			continue
		}
		skillLower := strings.ToLower(course.skill)
		if strings.Contains(gapLower, skillLower) || strings.Contains(skillLower, gapLower) {
			usedURLs[course.url] = true
			return types.RoadmapItem{
				Month:       month,
				Skill:       gap,
				CourseTitle: course.title,
				CourseURL:   course.url,
				Thumbnail:   course.thumbnail,
				Description: course.description,
				Status:      types.StatusRecommended,
			}
		}
	}

	return types.RoadmapItem{
		Month:       month,
		Skill:       gap,
		CourseTitle: fmt.Sprintf("Learn %s - Online Course", gap),
		CourseURL:   "https://www.youtube.com/results?search_query=" + url.QueryEscape(gap+" course"),
		Thumbnail:   "https://i.ytimg.com/vi/default/hqdefault.jpg",
		Description: fmt.Sprintf("Curated video courses on %s", gap),
		Status:      types.StatusRecommended,
	}
}

// FallbackJobs returns three generic job recommendations titled after
// the detected role.
func FallbackJobs(role string) []types.JobMatch {
	jobs := make([]types.JobMatch, 0, len(fallbackJobTemplates))
	for _, template := range fallbackJobTemplates {
		title := template.title
		if role != "" {
			title = role
		}
		jobs = append(jobs, types.JobMatch{
			ID:         uuid.NewString()[:8],
			Title:      title,
			Company:    template.company,
			URL:        "https://remoteok.com/remote-jobs",
			MatchScore: template.score,
		})
	}
	return jobs
}

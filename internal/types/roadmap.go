package types

// RoadmapStatus distinguishes gap-driven recommendations from filler courses.
type RoadmapStatus string

// RoadmapStatus values.
const (
	// StatusRecommended marks an item chosen to close a detected gap.
	StatusRecommended RoadmapStatus = "Recommended"
	// StatusBonus marks a filler item added to keep the roadmap at full length.
	StatusBonus RoadmapStatus = "Bonus"
)

// RoadmapItem is one month of the learning roadmap.
type RoadmapItem struct {
	Month       int           `json:"month"`
	Skill       string        `json:"skill"`
	CourseTitle string        `json:"course_title"`
	CourseURL   string        `json:"course_url"`
	Thumbnail   string        `json:"thumbnail"`
	Description string        `json:"description"`
	Status      RoadmapStatus `json:"status"`
}

// Course is one entry of the course catalog.
type Course struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Thumbnail   string `json:"thumbnail"`
	Description string `json:"description,omitempty"`
}

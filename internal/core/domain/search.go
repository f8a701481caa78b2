package domain

import "fmt"

// SearchResult is a single retrieved passage with its provenance.
// Results are ephemeral: produced per query, never persisted.
type SearchResult struct {
	// Content is the stored chunk text.
	Content string

	// CourseTitle identifies the originating course.
	CourseTitle string

	// LessonNumber identifies the originating lesson, nil for
	// course-level chunks.
	LessonNumber *int

	// Distance is the similarity distance (0 = identical). Results are
	// returned in ascending distance order.
	Distance float32
}

// Header renders the result's provenance as a context header, e.g.
// "[Intro to RAG - Lesson 2]".
func (r SearchResult) Header() string {
	if r.LessonNumber != nil {
		return fmt.Sprintf("[%s - Lesson %d]", r.CourseTitle, *r.LessonNumber)
	}
	return fmt.Sprintf("[%s]", r.CourseTitle)
}

// Source is a display-ready citation pointing at the course or lesson a
// retrieved passage came from. The link is optional.
type Source struct {
	Label string `json:"label"`
	Link  string `json:"link,omitempty"`
}

// Answer is the result of one orchestrated query: the synthesised
// answer text, the citations collected from tool execution, and the
// session the exchange was recorded under.
type Answer struct {
	Text      string   `json:"answer"`
	Sources   []Source `json:"sources"`
	SessionID string   `json:"session_id"`
}

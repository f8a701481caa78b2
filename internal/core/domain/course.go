package domain

import "fmt"

// Lesson is a single lesson within a course.
// Lessons are immutable once parsed from a transcript.
type Lesson struct {
	// Number is the lesson number, unique within the course.
	// Numbers define lesson order but need not be contiguous.
	Number int

	// Title is the human-readable lesson title.
	Title string

	// Link is an optional URL for the lesson.
	Link string
}

// Course represents a parsed course transcript.
// The title is the external identifier: courses are keyed by title in
// the catalog and chunks reference their course by title.
type Course struct {
	// Title uniquely identifies the course.
	Title string

	// Link is an optional URL for the course page.
	Link string

	// Instructor is the course instructor's name.
	Instructor string

	// Lessons are the course lessons in order of appearance.
	Lessons []Lesson
}

// IsEmpty reports whether the course carries no usable metadata.
// The parser returns an empty course when a document has no title header.
func (c *Course) IsEmpty() bool {
	return c == nil || c.Title == ""
}

// CourseChunk is a bounded, overlapping slice of lesson text prepared
// for embedding and retrieval. Chunks are write-once: a re-ingested
// course replaces its chunks wholesale.
type CourseChunk struct {
	// Content is the chunk text, including any context prefix added
	// during parsing so the chunk is self-describing in isolation.
	Content string

	// CourseTitle is the title of the originating course.
	CourseTitle string

	// LessonNumber is the originating lesson, or nil when the chunk
	// was produced from course-level text outside any lesson.
	LessonNumber *int

	// Index is the chunk's sequence number within the course.
	// It increases monotonically across lessons and is unique per course.
	Index int
}

// ID returns the chunk's external identifier, composed from the course
// title and the sequence index.
func (c CourseChunk) ID() string {
	return fmt.Sprintf("%s_%d", c.CourseTitle, c.Index)
}

// CourseAnalytics summarises the course catalog.
type CourseAnalytics struct {
	TotalCourses int      `json:"total_courses"`
	CourseTitles []string `json:"course_titles"`
}

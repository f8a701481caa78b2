// Package transcript parses structured course transcripts into course
// metadata and content chunks.
//
// The expected format is three optional header lines at the top of the
// document ("Course Title:", "Course Link:", "Course Instructor:"),
// followed by lesson blocks each starting with a "Lesson N: Title"
// marker, optionally followed by a "Lesson Link:" line, and free-text
// lesson body until the next marker or end of file.
package transcript

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/studyhall-labs/studyhall-cli/internal/chunker"
	"github.com/studyhall-labs/studyhall-cli/internal/core/domain"
)

// Header line prefixes.
const (
	titlePrefix      = "Course Title:"
	linkPrefix       = "Course Link:"
	instructorPrefix = "Course Instructor:"
	lessonLinkPrefix = "Lesson Link:"
)

var lessonMarker = regexp.MustCompile(`^Lesson\s+(\d+):\s*(.*)$`)

// Parser turns raw transcript text into a course and its chunks.
type Parser struct {
	chunker *chunker.Chunker
}

// NewParser creates a parser that hands lesson bodies to the given
// chunker.
func NewParser(c *chunker.Chunker) *Parser {
	return &Parser{chunker: c}
}

// Parse extracts course metadata and chunked lesson content from raw
// transcript text. A document without a title header fails softly: the
// returned course is empty and no chunks are produced.
//
// Chunk sequence indices increase monotonically across lessons. The
// first chunk of each lesson is prefixed with "Lesson N content:" for
// retrieval clarity, and the very first chunk of the course carries the
// compound "Course {title} Lesson {N} content:" prefix so it is
// self-describing out of context.
func (p *Parser) Parse(raw string) (*domain.Course, []domain.CourseChunk) {
	lines := strings.Split(raw, "\n")

	course := &domain.Course{}
	body := p.parseHeader(course, lines)

	if course.Title == "" {
		return &domain.Course{}, nil
	}

	var chunks []domain.CourseChunk
	index := 0

	appendChunks := func(text string, lessonNumber *int) {
		for i, chunk := range p.chunker.Split(text) {
			if i == 0 && lessonNumber != nil {
				if index == 0 {
					chunk = fmt.Sprintf("Course %s Lesson %d content: %s", course.Title, *lessonNumber, chunk)
				} else {
					chunk = fmt.Sprintf("Lesson %d content: %s", *lessonNumber, chunk)
				}
			}
			chunks = append(chunks, domain.CourseChunk{
				Content:      chunk,
				CourseTitle:  course.Title,
				LessonNumber: lessonNumber,
				Index:        index,
			})
			index++
		}
	}

	var currentLesson *domain.Lesson
	var bodyLines []string

	flush := func() {
		text := strings.TrimSpace(strings.Join(bodyLines, "\n"))
		bodyLines = nil
		if currentLesson == nil {
			// Text before any lesson marker: only chunked when the
			// document has no lessons at all, handled after the loop.
			return
		}
		lesson := *currentLesson
		course.Lessons = append(course.Lessons, lesson)
		if text != "" {
			appendChunks(text, &lesson.Number)
		}
	}

	for i := 0; i < len(body); i++ {
		line := body[i]

		if m := lessonMarker.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			flush()
			number, _ := strconv.Atoi(m[1])
			currentLesson = &domain.Lesson{Number: number, Title: strings.TrimSpace(m[2])}

			// An optional lesson link line immediately follows the marker.
			if i+1 < len(body) {
				if link, ok := cutPrefix(body[i+1], lessonLinkPrefix); ok {
					currentLesson.Link = link
					i++
				}
			}
			continue
		}

		bodyLines = append(bodyLines, line)
	}

	if currentLesson != nil {
		flush()
	} else {
		// No lesson markers: chunk the whole remaining document as
		// course-level content without a lesson number.
		text := strings.TrimSpace(strings.Join(bodyLines, "\n"))
		if text != "" {
			for _, chunk := range p.chunker.Split(text) {
				chunks = append(chunks, domain.CourseChunk{
					Content:     chunk,
					CourseTitle: course.Title,
					Index:       index,
				})
				index++
			}
		}
	}

	return course, chunks
}

// parseHeader consumes the optional header lines at the top of the
// document, filling in course metadata, and returns the remaining lines.
func (p *Parser) parseHeader(course *domain.Course, lines []string) []string {
	i := 0
	for ; i < len(lines) && i < 3; i++ {
		line := lines[i]
		if v, ok := cutPrefix(line, titlePrefix); ok {
			course.Title = v
		} else if v, ok := cutPrefix(line, linkPrefix); ok {
			course.Link = v
		} else if v, ok := cutPrefix(line, instructorPrefix); ok {
			course.Instructor = v
		} else {
			break
		}
	}
	return lines[i:]
}

// cutPrefix matches a header label at the start of a line and returns
// the trimmed value after it.
func cutPrefix(line, prefix string) (string, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(line), prefix)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/studyhall-labs/studyhall-cli/internal/core/domain"
	"github.com/studyhall-labs/studyhall-cli/internal/core/ports/driven"
	"github.com/studyhall-labs/studyhall-cli/internal/logger"
)

// Collection names in the similarity engine.
const (
	// CatalogCollection holds one record per course, keyed by title.
	CatalogCollection = "course_catalog"

	// ContentCollection holds one record per chunk, keyed by
	// "{course_title}_{chunk_index}".
	ContentCollection = "course_content"
)

// Catalog metadata keys.
const (
	metaTitle       = "title"
	metaInstructor  = "instructor"
	metaCourseLink  = "course_link"
	metaLessonCount = "lesson_count"
	metaLessons     = "lessons_json"
)

// Content metadata keys.
const (
	metaCourseTitle  = "course_title"
	metaLessonNumber = "lesson_number"
	metaChunkIndex   = "chunk_index"
)

// DefaultMaxResults is the default search result limit.
const DefaultMaxResults = 5

// CourseStore is the semantic store over the similarity engine. It
// wraps two logical collections: the course catalog (for catalog-level
// lookups and fuzzy course-name resolution) and the content chunks (for
// passage-level similarity search).
type CourseStore struct {
	engine         driven.SimilarityEngine
	maxResults     int
	matchThreshold float32
}

// StoreOption configures a CourseStore.
type StoreOption func(*CourseStore)

// WithMaxResults sets the default search result limit.
func WithMaxResults(n int) StoreOption {
	return func(s *CourseStore) {
		if n > 0 {
			s.maxResults = n
		}
	}
}

// WithMatchThreshold sets the minimum similarity (0-1) a catalog entry
// must reach to resolve a fuzzy course name. Zero keeps best-guess
// resolution: the nearest title always matches.
func WithMatchThreshold(t float32) StoreOption {
	return func(s *CourseStore) {
		if t >= 0 && t <= 1 {
			s.matchThreshold = t
		}
	}
}

// NewCourseStore creates a semantic store backed by the given engine.
func NewCourseStore(engine driven.SimilarityEngine, opts ...StoreOption) *CourseStore {
	s := &CourseStore{
		engine:     engine,
		maxResults: DefaultMaxResults,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddCourse upserts course metadata into the catalog, keyed by title.
func (s *CourseStore) AddCourse(ctx context.Context, course *domain.Course) error {
	if course.IsEmpty() {
		return fmt.Errorf("add course: %w", domain.ErrInvalidInput)
	}

	lessons, err := json.Marshal(course.Lessons)
	if err != nil {
		return fmt.Errorf("encode lessons: %w", err)
	}

	record := driven.Record{
		ID:      course.Title,
		Content: course.Title,
		Metadata: map[string]string{
			metaTitle:       course.Title,
			metaInstructor:  course.Instructor,
			metaCourseLink:  course.Link,
			metaLessonCount: strconv.Itoa(len(course.Lessons)),
			metaLessons:     string(lessons),
		},
	}

	if err := s.engine.Upsert(ctx, CatalogCollection, []driven.Record{record}); err != nil {
		return fmt.Errorf("add course %q: %w", course.Title, err)
	}

	logger.Debug("Catalog upsert: %q (%d lessons)", course.Title, len(course.Lessons))
	return nil
}

// AddChunks upserts content chunks in one batch.
func (s *CourseStore) AddChunks(ctx context.Context, chunks []domain.CourseChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	records := make([]driven.Record, len(chunks))
	for i, chunk := range chunks {
		metadata := map[string]string{
			metaCourseTitle: chunk.CourseTitle,
			metaChunkIndex:  strconv.Itoa(chunk.Index),
		}
		if chunk.LessonNumber != nil {
			metadata[metaLessonNumber] = strconv.Itoa(*chunk.LessonNumber)
		}
		records[i] = driven.Record{
			ID:       chunk.ID(),
			Content:  chunk.Content,
			Metadata: metadata,
		}
	}

	if err := s.engine.Upsert(ctx, ContentCollection, records); err != nil {
		return fmt.Errorf("add chunks: %w", err)
	}

	logger.Debug("Content upsert: %d chunks", len(records))
	return nil
}

// Search performs similarity search against course content, optionally
// narrowed to a fuzzily-resolved course and/or a lesson number.
//
// An unresolvable course name returns a *domain.CourseNotFoundError,
// distinct from an empty-but-valid result set. Engine failures are
// wrapped so the caller can render them as search failure text.
func (s *CourseStore) Search(
	ctx context.Context, query, courseName string, lessonNumber *int, limit int,
) ([]domain.SearchResult, error) {
	if limit <= 0 {
		limit = s.maxResults
	}

	where := make(map[string]string)
	if courseName != "" {
		resolved, err := s.ResolveCourseName(ctx, courseName)
		if err != nil {
			return nil, err
		}
		where[metaCourseTitle] = resolved
	}
	if lessonNumber != nil {
		where[metaLessonNumber] = strconv.Itoa(*lessonNumber)
	}
	if len(where) == 0 {
		where = nil
	}

	hits, err := s.engine.Query(ctx, ContentCollection, query, where, limit)
	if err != nil {
		return nil, fmt.Errorf("search error: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		result := domain.SearchResult{
			Content:     hit.Content,
			CourseTitle: hit.Metadata[metaCourseTitle],
			Distance:    1 - hit.Similarity,
		}
		if raw, ok := hit.Metadata[metaLessonNumber]; ok {
			if n, err := strconv.Atoi(raw); err == nil {
				result.LessonNumber = &n
			}
		}
		results = append(results, result)
	}

	return results, nil
}

// ResolveCourseName resolves a partial or misspelled course name to the
// nearest catalog title. With a zero match threshold the top match is
// returned unconditionally; an empty catalog or a best match below the
// threshold yields a *domain.CourseNotFoundError.
func (s *CourseStore) ResolveCourseName(ctx context.Context, name string) (string, error) {
	hits, err := s.engine.Query(ctx, CatalogCollection, name, nil, 1)
	if err != nil {
		return "", fmt.Errorf("resolve course name: %w", err)
	}
	if len(hits) == 0 || hits[0].Similarity < s.matchThreshold {
		return "", &domain.CourseNotFoundError{Name: name}
	}

	title := hits[0].Metadata[metaTitle]
	if title == "" {
		title = hits[0].ID
	}
	logger.Debug("Resolved course name %q -> %q", name, title)
	return title, nil
}

// GetCourse returns the catalog entry for an exact course title.
func (s *CourseStore) GetCourse(ctx context.Context, title string) (*domain.Course, error) {
	record, err := s.engine.Get(ctx, CatalogCollection, title)
	if err != nil {
		return nil, fmt.Errorf("get course %q: %w", title, err)
	}

	course := &domain.Course{
		Title:      record.Metadata[metaTitle],
		Instructor: record.Metadata[metaInstructor],
		Link:       record.Metadata[metaCourseLink],
	}
	if raw := record.Metadata[metaLessons]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &course.Lessons); err != nil {
			return nil, fmt.Errorf("decode lessons for %q: %w", title, err)
		}
	}
	return course, nil
}

// CourseLink returns the course page link for an exact title, or empty
// when unknown.
func (s *CourseStore) CourseLink(ctx context.Context, title string) string {
	course, err := s.GetCourse(ctx, title)
	if err != nil {
		return ""
	}
	return course.Link
}

// LessonLink returns the link for a specific lesson, or empty when
// unknown.
func (s *CourseStore) LessonLink(ctx context.Context, title string, lesson int) string {
	course, err := s.GetCourse(ctx, title)
	if err != nil {
		return ""
	}
	for _, l := range course.Lessons {
		if l.Number == lesson {
			return l.Link
		}
	}
	return ""
}

// DeleteCourse removes a course's catalog entry and all of its content
// chunks. Used before re-ingesting a changed transcript.
func (s *CourseStore) DeleteCourse(ctx context.Context, title string) error {
	if err := s.engine.Delete(ctx, ContentCollection, map[string]string{metaCourseTitle: title}); err != nil {
		return fmt.Errorf("delete content for %q: %w", title, err)
	}
	if err := s.engine.Delete(ctx, CatalogCollection, nil, title); err != nil {
		return fmt.Errorf("delete catalog entry %q: %w", title, err)
	}
	logger.Info("Deleted course %q", title)
	return nil
}

// Clear wipes both collections.
func (s *CourseStore) Clear(ctx context.Context) error {
	if err := s.engine.Reset(ctx); err != nil {
		return fmt.Errorf("clear store: %w", err)
	}
	logger.Info("Cleared course catalog and content")
	return nil
}

// ListCourseTitles returns all catalog titles.
func (s *CourseStore) ListCourseTitles(ctx context.Context) ([]string, error) {
	titles, err := s.engine.ListIDs(ctx, CatalogCollection)
	if err != nil {
		return nil, fmt.Errorf("list course titles: %w", err)
	}
	return titles, nil
}

// CourseCount returns the number of courses in the catalog.
func (s *CourseStore) CourseCount(ctx context.Context) (int, error) {
	count, err := s.engine.Count(ctx, CatalogCollection)
	if err != nil {
		return 0, fmt.Errorf("course count: %w", err)
	}
	return count, nil
}

// MaxResults returns the store's default search result limit.
func (s *CourseStore) MaxResults() int { return s.maxResults }

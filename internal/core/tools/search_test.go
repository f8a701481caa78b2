package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhall-labs/studyhall-cli/internal/core/domain"
)

// mockContentStore is a hand-written mock of CourseContentStore.
type mockContentStore struct {
	results []domain.SearchResult
	err     error

	lastQuery  string
	lastCourse string
	lastLesson *int
}

func (m *mockContentStore) Search(_ context.Context, query, courseName string, lessonNumber *int, _ int) ([]domain.SearchResult, error) {
	m.lastQuery = query
	m.lastCourse = courseName
	m.lastLesson = lessonNumber
	return m.results, m.err
}

func (m *mockContentStore) CourseLink(_ context.Context, title string) string {
	return "https://example.com/courses/" + title
}

func (m *mockContentStore) LessonLink(_ context.Context, title string, lesson int) string {
	if lesson == 1 {
		return "https://example.com/courses/" + title + "/lesson/1"
	}
	return ""
}

func intPtr(n int) *int { return &n }

func TestCourseSearchTool_FormatsResultsWithHeaders(t *testing.T) {
	store := &mockContentStore{
		results: []domain.SearchResult{
			{Content: "Vectors encode meaning.", CourseTitle: "Intro to RAG", LessonNumber: intPtr(1)},
			{Content: "Chunking splits text.", CourseTitle: "Intro to RAG", LessonNumber: intPtr(2)},
		},
	}
	tool := NewCourseSearchTool(store)

	out, err := tool.Execute(context.Background(), map[string]any{"query": "embeddings"})
	require.NoError(t, err)
	assert.Equal(t,
		"[Intro to RAG - Lesson 1]\nVectors encode meaning.\n\n[Intro to RAG - Lesson 2]\nChunking splits text.",
		out)
	assert.Equal(t, "embeddings", store.lastQuery)
}

func TestCourseSearchTool_PassesFilters(t *testing.T) {
	store := &mockContentStore{}
	tool := NewCourseSearchTool(store)

	// lesson_number arrives as float64 from JSON decoding
	_, err := tool.Execute(context.Background(), map[string]any{
		"query":         "embeddings",
		"course_name":   "MCP",
		"lesson_number": float64(3),
	})
	require.NoError(t, err)
	assert.Equal(t, "MCP", store.lastCourse)
	require.NotNil(t, store.lastLesson)
	assert.Equal(t, 3, *store.lastLesson)
}

func TestCourseSearchTool_MissingQueryAbortsExecution(t *testing.T) {
	tool := NewCourseSearchTool(&mockContentStore{})

	_, err := tool.Execute(context.Background(), map[string]any{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = tool.Execute(context.Background(), map[string]any{"query": "   "})
	require.Error(t, err)
}

func TestCourseSearchTool_MalformedFilterAbortsExecution(t *testing.T) {
	tool := NewCourseSearchTool(&mockContentStore{})

	_, err := tool.Execute(context.Background(), map[string]any{
		"query":       "x",
		"course_name": 42,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = tool.Execute(context.Background(), map[string]any{
		"query":         "x",
		"lesson_number": "three",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestCourseSearchTool_EmptyResultMessages(t *testing.T) {
	tests := []struct {
		name  string
		input map[string]any
		want  string
	}{
		{
			name:  "no filters",
			input: map[string]any{"query": "x"},
			want:  "No relevant content found.",
		},
		{
			name:  "course filter",
			input: map[string]any{"query": "x", "course_name": "MCP"},
			want:  "No relevant content found in course 'MCP'.",
		},
		{
			name:  "lesson filter",
			input: map[string]any{"query": "x", "lesson_number": float64(4)},
			want:  "No relevant content found in lesson 4.",
		},
		{
			name:  "both filters",
			input: map[string]any{"query": "x", "course_name": "MCP", "lesson_number": float64(4)},
			want:  "No relevant content found in course 'MCP' in lesson 4.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool := NewCourseSearchTool(&mockContentStore{})
			out, err := tool.Execute(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestCourseSearchTool_StoreErrorBecomesToolText(t *testing.T) {
	store := &mockContentStore{err: &domain.CourseNotFoundError{Name: "Quantum Baking"}}
	tool := NewCourseSearchTool(store)

	out, err := tool.Execute(context.Background(), map[string]any{"query": "x", "course_name": "Quantum Baking"})
	require.NoError(t, err)
	assert.Equal(t, "No course found matching 'Quantum Baking'", out)
}

func TestCourseSearchTool_RecordsDeduplicatedSources(t *testing.T) {
	store := &mockContentStore{
		results: []domain.SearchResult{
			{Content: "a", CourseTitle: "Intro to RAG", LessonNumber: intPtr(1)},
			{Content: "b", CourseTitle: "Intro to RAG", LessonNumber: intPtr(1)},
			{Content: "c", CourseTitle: "Intro to RAG"},
		},
	}
	tool := NewCourseSearchTool(store)

	_, err := tool.Execute(context.Background(), map[string]any{"query": "x"})
	require.NoError(t, err)

	sources := tool.LastSources()
	require.Len(t, sources, 2)
	assert.Equal(t, "Intro to RAG - Lesson 1", sources[0].Label)
	assert.Equal(t, "https://example.com/courses/Intro to RAG/lesson/1", sources[0].Link)
	assert.Equal(t, "Intro to RAG", sources[1].Label)
	assert.Equal(t, "https://example.com/courses/Intro to RAG", sources[1].Link)

	tool.ResetSources()
	assert.Empty(t, tool.LastSources())
}

func TestCourseSearchTool_SourcesReplacedByNextExecution(t *testing.T) {
	store := &mockContentStore{
		results: []domain.SearchResult{
			{Content: "a", CourseTitle: "First Course", LessonNumber: intPtr(1)},
		},
	}
	tool := NewCourseSearchTool(store)

	_, err := tool.Execute(context.Background(), map[string]any{"query": "x"})
	require.NoError(t, err)
	require.Len(t, tool.LastSources(), 1)

	store.results = []domain.SearchResult{
		{Content: "b", CourseTitle: "Second Course", LessonNumber: intPtr(2)},
	}
	_, err = tool.Execute(context.Background(), map[string]any{"query": "y"})
	require.NoError(t, err)

	sources := tool.LastSources()
	require.Len(t, sources, 1)
	assert.Equal(t, "Second Course - Lesson 2", sources[0].Label)
}

package tools

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/studyhall-labs/studyhall-cli/internal/core/domain"
	"github.com/studyhall-labs/studyhall-cli/internal/core/ports/driven"
	"github.com/studyhall-labs/studyhall-cli/internal/logger"
)

// SearchToolName is the name the search capability is advertised under.
const SearchToolName = "search_course_content"

// Ensure the search tool satisfies both interfaces.
var (
	_ Tool           = (*CourseSearchTool)(nil)
	_ SourceRecorder = (*CourseSearchTool)(nil)
)

// CourseSearchTool searches course content with fuzzy course name
// matching and optional lesson filtering. It records the citations of
// its last execution as a side channel: the completion service only
// sees the formatted text, so provenance reaches the final answer
// through this slot.
type CourseSearchTool struct {
	store CourseContentStore

	mu          sync.Mutex
	lastSources []domain.Source
}

// CourseContentStore is the subset of the semantic store the search
// tool depends on.
type CourseContentStore interface {
	Search(ctx context.Context, query, courseName string, lessonNumber *int, limit int) ([]domain.SearchResult, error)
	CourseLink(ctx context.Context, title string) string
	LessonLink(ctx context.Context, title string, lesson int) string
}

// NewCourseSearchTool creates the search tool over the given store.
func NewCourseSearchTool(store CourseContentStore) *CourseSearchTool {
	return &CourseSearchTool{store: store}
}

// Definition returns the search tool's capability schema.
func (t *CourseSearchTool) Definition() driven.ToolDefinition {
	return driven.ToolDefinition{
		Name:        SearchToolName,
		Description: "Search course materials with smart course name matching and lesson filtering",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "What to search for in the course content",
				},
				"course_name": map[string]any{
					"type":        "string",
					"description": "Course title (partial matches work, e.g. 'MCP', 'Introduction')",
				},
				"lesson_number": map[string]any{
					"type":        "integer",
					"description": "Specific lesson number to search within (e.g. 1, 2, 3)",
				},
			},
			"required": []string{"query"},
		},
	}
}

// Execute runs the search and formats the ranked results with their
// provenance headers. Store-level failures (unreachable engine,
// unresolvable course) are returned as user-facing text, not errors, so
// the model can relay them. Malformed arguments are errors and abort
// the query.
func (t *CourseSearchTool) Execute(ctx context.Context, input map[string]any) (string, error) {
	query, ok := input["query"].(string)
	if !ok || strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("search tool: %w: missing query", domain.ErrInvalidInput)
	}

	courseName, err := optionalString(input, "course_name")
	if err != nil {
		return "", fmt.Errorf("search tool: %w", err)
	}
	lessonNumber, err := optionalInt(input, "lesson_number")
	if err != nil {
		return "", fmt.Errorf("search tool: %w", err)
	}

	logger.Debug("Search tool: query=%q course=%q lesson=%v", query, courseName, lessonNumber)

	results, err := t.store.Search(ctx, query, courseName, lessonNumber, 0)
	if err != nil {
		// Surfaced verbatim as tool output so the model sees a clean
		// failure message instead of an opaque fault.
		return err.Error(), nil
	}

	if len(results) == 0 {
		return t.emptyMessage(courseName, lessonNumber), nil
	}

	return t.formatResults(ctx, results), nil
}

// emptyMessage renders the deterministic no-results message,
// parameterised by whatever filters were applied.
func (t *CourseSearchTool) emptyMessage(courseName string, lessonNumber *int) string {
	var filters string
	if courseName != "" {
		filters += fmt.Sprintf(" in course '%s'", courseName)
	}
	if lessonNumber != nil {
		filters += fmt.Sprintf(" in lesson %d", *lessonNumber)
	}
	return fmt.Sprintf("No relevant content found%s.", filters)
}

// formatResults renders ranked results as provenance-headed passages
// and records deduplicated citations in the last-sources slot.
func (t *CourseSearchTool) formatResults(ctx context.Context, results []domain.SearchResult) string {
	formatted := make([]string, 0, len(results))
	var sources []domain.Source
	seen := make(map[string]bool)

	for _, result := range results {
		formatted = append(formatted, result.Header()+"\n"+result.Content)

		source := t.sourceFor(ctx, result)
		if !seen[source.Label] {
			seen[source.Label] = true
			sources = append(sources, source)
		}
	}

	t.mu.Lock()
	t.lastSources = sources
	t.mu.Unlock()

	return strings.Join(formatted, "\n\n")
}

// sourceFor builds the citation for one result, attaching the lesson
// link when known, falling back to the course link.
func (t *CourseSearchTool) sourceFor(ctx context.Context, result domain.SearchResult) domain.Source {
	if result.LessonNumber != nil {
		return domain.Source{
			Label: fmt.Sprintf("%s - Lesson %d", result.CourseTitle, *result.LessonNumber),
			Link:  t.store.LessonLink(ctx, result.CourseTitle, *result.LessonNumber),
		}
	}
	return domain.Source{
		Label: result.CourseTitle,
		Link:  t.store.CourseLink(ctx, result.CourseTitle),
	}
}

// LastSources returns the citations recorded by the last execution.
func (t *CourseSearchTool) LastSources() []domain.Source {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]domain.Source, len(t.lastSources))
	copy(out, t.lastSources)
	return out
}

// ResetSources clears the recorded citations.
func (t *CourseSearchTool) ResetSources() {
	t.mu.Lock()
	t.lastSources = nil
	t.mu.Unlock()
}

// optionalString extracts an optional string argument.
func optionalString(input map[string]any, key string) (string, error) {
	raw, ok := input[key]
	if !ok || raw == nil {
		return "", nil
	}
	value, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string", domain.ErrInvalidInput, key)
	}
	return value, nil
}

// optionalInt extracts an optional integer argument. JSON numbers
// decode as float64.
func optionalInt(input map[string]any, key string) (*int, error) {
	raw, ok := input[key]
	if !ok || raw == nil {
		return nil, nil
	}
	switch v := raw.(type) {
	case float64:
		n := int(v)
		return &n, nil
	case int:
		n := v
		return &n, nil
	default:
		return nil, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
	}
}

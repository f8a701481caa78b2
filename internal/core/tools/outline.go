package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/studyhall-labs/studyhall-cli/internal/core/domain"
	"github.com/studyhall-labs/studyhall-cli/internal/core/ports/driven"
)

// OutlineToolName is the name the outline capability is advertised under.
const OutlineToolName = "get_course_outline"

var _ Tool = (*CourseOutlineTool)(nil)

// CourseCatalogStore is the subset of the semantic store the outline
// tool depends on.
type CourseCatalogStore interface {
	ResolveCourseName(ctx context.Context, name string) (string, error)
	GetCourse(ctx context.Context, title string) (*domain.Course, error)
}

// CourseOutlineTool renders a course's structure: title, link,
// instructor, and the complete numbered lesson list.
type CourseOutlineTool struct {
	store CourseCatalogStore
}

// NewCourseOutlineTool creates the outline tool over the given store.
func NewCourseOutlineTool(store CourseCatalogStore) *CourseOutlineTool {
	return &CourseOutlineTool{store: store}
}

// Definition returns the outline tool's capability schema.
func (t *CourseOutlineTool) Definition() driven.ToolDefinition {
	return driven.ToolDefinition{
		Name:        OutlineToolName,
		Description: "Get the complete outline of a course including title, link, and all lessons with numbers and titles",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"course_title": map[string]any{
					"type":        "string",
					"description": "Full or partial course title (e.g., 'MCP', 'Introduction to RAG')",
				},
			},
			"required": []string{"course_title"},
		},
	}
}

// Execute resolves the course name and formats its outline. Resolution
// failures are returned as user-facing text so the model can relay them.
func (t *CourseOutlineTool) Execute(ctx context.Context, input map[string]any) (string, error) {
	name, ok := input["course_title"].(string)
	if !ok || strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("outline tool: %w: missing course_title", domain.ErrInvalidInput)
	}

	title, err := t.store.ResolveCourseName(ctx, name)
	if err != nil {
		return err.Error(), nil
	}

	course, err := t.store.GetCourse(ctx, title)
	if err != nil {
		return fmt.Sprintf("Course metadata not found for '%s'", title), nil
	}

	lines := []string{
		fmt.Sprintf("Course: %s", course.Title),
		fmt.Sprintf("Instructor: %s", course.Instructor),
		fmt.Sprintf("Course Link: %s", course.Link),
	}

	if len(course.Lessons) == 0 {
		lines = append(lines, "", "No lesson information available.")
		return strings.Join(lines, "\n"), nil
	}

	lines = append(lines, "", "Lessons:")
	for _, lesson := range course.Lessons {
		lines = append(lines, fmt.Sprintf("  Lesson %d: %s", lesson.Number, lesson.Title))
	}

	return strings.Join(lines, "\n"), nil
}

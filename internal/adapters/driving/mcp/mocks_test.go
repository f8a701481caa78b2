package mcp

import (
	"context"

	"github.com/studyhall-labs/studyhall-cli/internal/core/domain"
)

// mockQueryService is a mock implementation of driving.QueryService.
type mockQueryService struct {
	answer    *domain.Answer
	analytics *domain.CourseAnalytics
	err       error

	lastQuery     string
	lastSessionID string
}

func (m *mockQueryService) Query(_ context.Context, query, sessionID string) (*domain.Answer, error) {
	m.lastQuery = query
	m.lastSessionID = sessionID
	return m.answer, m.err
}

func (m *mockQueryService) Analytics(_ context.Context) (*domain.CourseAnalytics, error) {
	return m.analytics, m.err
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	course  *domain.Course
	courses int
	chunks  int
	err     error

	lastPath  string
	lastClear bool
}

func (m *mockIngestService) AddCourseDocument(_ context.Context, path string) (*domain.Course, int, error) {
	m.lastPath = path
	return m.course, m.chunks, m.err
}

func (m *mockIngestService) AddCourseFolder(_ context.Context, dir string, clear bool) (int, int, error) {
	m.lastPath = dir
	m.lastClear = clear
	return m.courses, m.chunks, m.err
}

func (m *mockIngestService) Watch(_ context.Context, _ string) error {
	return m.err
}

package cli

import (
	"context"

	"github.com/studyhall-labs/studyhall-cli/internal/core/domain"
	"github.com/studyhall-labs/studyhall-cli/internal/core/ports/driven"
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

// listEngine is a minimal SimilarityEngine for catalog listings.
type listEngine struct {
	ids map[string][]string
}

func (e *listEngine) Upsert(_ context.Context, _ string, _ []driven.Record) error { return nil }

func (e *listEngine) Query(_ context.Context, _, _ string, _ map[string]string, _ int) ([]driven.Hit, error) {
	return nil, nil
}

func (e *listEngine) Get(_ context.Context, collection, id string) (*driven.Record, error) {
	return nil, domain.ErrNotFound
}

func (e *listEngine) Delete(_ context.Context, _ string, _ map[string]string, _ ...string) error {
	return nil
}

func (e *listEngine) ListIDs(_ context.Context, collection string) ([]string, error) {
	return e.ids[collection], nil
}

func (e *listEngine) Count(_ context.Context, collection string) (int, error) {
	return len(e.ids[collection]), nil
}

func (e *listEngine) Reset(_ context.Context) error { return nil }

func (e *listEngine) Close() error { return nil }

package mcp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhall-labs/studyhall-cli/internal/core/domain"
)

func TestServer_handleAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("returns answer with sources", func(t *testing.T) {
		mockQuery := &mockQueryService{
			answer: &domain.Answer{
				Text: "Embeddings encode meaning as vectors.",
				Sources: []domain.Source{
					{Label: "Intro to RAG - Lesson 1", Link: "https://example.com/rag/1"},
				},
				SessionID: "session-1",
			},
		}

		ports := &Ports{Query: mockQuery}
		server, err := NewServer(ports)
		require.NoError(t, err)

		input := AskInput{Query: "What are embeddings?"}
		_, output, err := server.handleAsk(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, "Embeddings encode meaning as vectors.", output.Answer)
		assert.Equal(t, "session-1", output.SessionID)
		require.Len(t, output.Sources, 1)
		assert.Equal(t, "Intro to RAG - Lesson 1", output.Sources[0].Label)
		assert.Equal(t, "https://example.com/rag/1", output.Sources[0].Link)
	})

	t.Run("passes session id through", func(t *testing.T) {
		mockQuery := &mockQueryService{
			answer: &domain.Answer{Text: "ok", SessionID: "session-2"},
		}
		ports := &Ports{Query: mockQuery}
		server, err := NewServer(ports)
		require.NoError(t, err)

		input := AskInput{Query: "follow-up", SessionID: "session-2"}
		_, output, err := server.handleAsk(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, "session-2", mockQuery.lastSessionID)
		assert.Equal(t, "session-2", output.SessionID)
	})

	t.Run("returns error on query failure", func(t *testing.T) {
		mockQuery := &mockQueryService{
			err: errors.New("completion unreachable"),
		}
		ports := &Ports{Query: mockQuery}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, _, err = server.handleAsk(ctx, nil, AskInput{Query: "test"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "completion unreachable")
	})
}

func TestServer_handleCatalog(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the course catalog", func(t *testing.T) {
		mockQuery := &mockQueryService{
			analytics: &domain.CourseAnalytics{
				TotalCourses: 2,
				CourseTitles: []string{"Intro to RAG", "MCP Basics"},
			},
		}
		ports := &Ports{Query: mockQuery}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, output, err := server.handleCatalog(ctx, nil, CatalogInput{})
		require.NoError(t, err)
		assert.Equal(t, 2, output.TotalCourses)
		assert.Equal(t, []string{"Intro to RAG", "MCP Basics"}, output.CourseTitles)
	})

	t.Run("returns error on analytics failure", func(t *testing.T) {
		mockQuery := &mockQueryService{err: errors.New("store unavailable")}
		ports := &Ports{Query: mockQuery}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, _, err = server.handleCatalog(ctx, nil, CatalogInput{})
		require.Error(t, err)
	})
}

func TestServer_handleIngest(t *testing.T) {
	ctx := context.Background()

	t.Run("file path ingests a single document", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "course.txt")
		require.NoError(t, os.WriteFile(path, []byte("Course Title: X\n"), 0o644))

		mockIngest := &mockIngestService{
			course: &domain.Course{Title: "X"},
			chunks: 4,
		}
		ports := &Ports{Query: &mockQueryService{}, Ingest: mockIngest}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, output, err := server.handleIngest(ctx, nil, IngestInput{Path: path})
		require.NoError(t, err)
		assert.Equal(t, 1, output.Courses)
		assert.Equal(t, 4, output.Chunks)
		assert.Equal(t, path, mockIngest.lastPath)
	})

	t.Run("folder path ingests the folder", func(t *testing.T) {
		dir := t.TempDir()

		mockIngest := &mockIngestService{courses: 3, chunks: 42}
		ports := &Ports{Query: &mockQueryService{}, Ingest: mockIngest}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, output, err := server.handleIngest(ctx, nil, IngestInput{Path: dir, Clear: true})
		require.NoError(t, err)
		assert.Equal(t, 3, output.Courses)
		assert.Equal(t, 42, output.Chunks)
		assert.Equal(t, dir, mockIngest.lastPath)
		assert.True(t, mockIngest.lastClear)
	})

	t.Run("returns error on ingest failure", func(t *testing.T) {
		mockIngest := &mockIngestService{err: errors.New("unreadable")}
		ports := &Ports{Query: &mockQueryService{}, Ingest: mockIngest}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, _, err = server.handleIngest(ctx, nil, IngestInput{Path: "/nonexistent/file.txt"})
		require.Error(t, err)
	})
}


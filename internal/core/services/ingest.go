package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/studyhall-labs/studyhall-cli/internal/core/domain"
	"github.com/studyhall-labs/studyhall-cli/internal/core/ports/driving"
	"github.com/studyhall-labs/studyhall-cli/internal/logger"
	"github.com/studyhall-labs/studyhall-cli/internal/transcript"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// transcriptExtensions are the file extensions treated as transcripts
// during folder ingestion.
var transcriptExtensions = map[string]bool{
	".txt": true,
	".md":  true,
}

// IngestService parses course transcripts and loads them into the
// semantic store.
type IngestService struct {
	parser *transcript.Parser
	store  *CourseStore
}

// NewIngestService creates an ingest service.
func NewIngestService(parser *transcript.Parser, store *CourseStore) *IngestService {
	return &IngestService{parser: parser, store: store}
}

// AddCourseDocument parses and stores a single transcript file. An
// existing course with the same title is deleted first so its chunks
// are superseded wholesale.
func (s *IngestService) AddCourseDocument(ctx context.Context, path string) (*domain.Course, int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", path, err)
	}

	course, chunks := s.parser.Parse(string(raw))
	if course.IsEmpty() {
		return nil, 0, fmt.Errorf("%s: %w", path, domain.ErrNoDocument)
	}

	existing, err := s.store.ListCourseTitles(ctx)
	if err != nil {
		return nil, 0, err
	}
	for _, title := range existing {
		if title == course.Title {
			logger.Info("Replacing course %q", course.Title)
			if err := s.store.DeleteCourse(ctx, course.Title); err != nil {
				return nil, 0, err
			}
			break
		}
	}

	if err := s.store.AddCourse(ctx, course); err != nil {
		return nil, 0, err
	}
	if err := s.store.AddChunks(ctx, chunks); err != nil {
		return nil, 0, err
	}

	logger.Info("Ingested course %q: %d chunks", course.Title, len(chunks))
	return course, len(chunks), nil
}

// AddCourseFolder ingests every transcript in dir. Courses already in
// the catalog are skipped, making folder ingestion idempotent. Files
// that fail to parse are skipped with a warning, never failing the
// batch.
func (s *IngestService) AddCourseFolder(ctx context.Context, dir string, clear bool) (int, int, error) {
	if clear {
		if err := s.store.Clear(ctx); err != nil {
			return 0, 0, err
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, 0, fmt.Errorf("read folder %s: %w", dir, err)
	}

	existing, err := s.store.ListCourseTitles(ctx)
	if err != nil {
		return 0, 0, err
	}
	seen := make(map[string]bool, len(existing))
	for _, title := range existing {
		seen[title] = true
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !transcriptExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)

	courses, totalChunks := 0, 0
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("Skipping %s: %v", path, err)
			continue
		}

		course, chunks := s.parser.Parse(string(raw))
		if course.IsEmpty() {
			logger.Warn("Skipping %s: no course title header", path)
			continue
		}
		if seen[course.Title] {
			logger.Debug("Course %q already ingested, skipping %s", course.Title, path)
			continue
		}

		if err := s.store.AddCourse(ctx, course); err != nil {
			return courses, totalChunks, err
		}
		if err := s.store.AddChunks(ctx, chunks); err != nil {
			return courses, totalChunks, err
		}

		seen[course.Title] = true
		courses++
		totalChunks += len(chunks)
		logger.Info("Ingested %s as %q: %d chunks", filepath.Base(path), course.Title, len(chunks))
	}

	return courses, totalChunks, nil
}

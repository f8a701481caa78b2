package driving

import (
	"context"

	"github.com/studyhall-labs/studyhall-cli/internal/core/domain"
)

// IngestService loads course transcripts into the semantic store.
type IngestService interface {
	// AddCourseDocument parses and stores a single transcript file.
	// An already-ingested course with the same title is replaced
	// wholesale. Returns the parsed course and the number of chunks
	// stored.
	AddCourseDocument(ctx context.Context, path string) (*domain.Course, int, error)

	// AddCourseFolder ingests every transcript in a directory, skipping
	// courses already present in the catalog. Files that fail to parse
	// are skipped with a warning. When clear is true both collections
	// are wiped first. Returns the number of courses and chunks added.
	AddCourseFolder(ctx context.Context, dir string, clear bool) (int, int, error)

	// Watch re-ingests transcripts as they are created or rewritten in
	// the directory. Blocks until the context is cancelled.
	Watch(ctx context.Context, dir string) error
}

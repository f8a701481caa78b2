package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStoreUnavailable indicates the similarity-search engine could
	// not be reached. Surfaced to the user as search failure text, never
	// propagated into the completion call.
	ErrStoreUnavailable = errors.New("search engine unavailable")

	// ErrUnknownTool indicates the model requested a tool that is not
	// registered. Treated as fatal for the query.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrNoDocument indicates a transcript had no course title header.
	// Ingestion skips such files and continues.
	ErrNoDocument = errors.New("document has no course title header")
)

// CourseNotFoundError reports that a fuzzy course-name filter could not
// be resolved against the catalog. It is distinct from an empty result
// set so the caller can correct the filter.
type CourseNotFoundError struct {
	// Name is the course name as the user supplied it.
	Name string
}

func (e *CourseNotFoundError) Error() string {
	return fmt.Sprintf("No course found matching '%s'", e.Name)
}

// IsCourseNotFound reports whether err is a CourseNotFoundError.
func IsCourseNotFound(err error) bool {
	var cnf *CourseNotFoundError
	return errors.As(err, &cnf)
}

package driving

import (
	"context"

	"github.com/studyhall-labs/studyhall-cli/internal/core/domain"
)

// QueryService answers natural-language questions about the ingested
// course corpus.
type QueryService interface {
	// Query runs one retrieval-augmented completion round for the given
	// question. An empty sessionID mints a new session; the returned
	// Answer carries the session id to reuse for follow-up questions.
	Query(ctx context.Context, query, sessionID string) (*domain.Answer, error)

	// Analytics returns catalog statistics.
	Analytics(ctx context.Context) (*domain.CourseAnalytics, error)
}

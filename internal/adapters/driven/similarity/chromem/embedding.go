package chromem

import (
	"context"

	chromemgo "github.com/philippgille/chromem-go"
	"golang.org/x/time/rate"
)

// NewOpenAIEmbedding builds the embedding function for the configured
// model. A non-empty baseURL selects an OpenAI-compatible endpoint
// (proxy or self-hosted server).
func NewOpenAIEmbedding(apiKey, model, baseURL string) chromemgo.EmbeddingFunc {
	if baseURL != "" {
		normalized := true
		return chromemgo.NewEmbeddingFuncOpenAICompat(baseURL, apiKey, model, &normalized)
	}
	return chromemgo.NewEmbeddingFuncOpenAI(apiKey, chromemgo.EmbeddingModelOpenAI(model))
}

// RateLimited wraps an embedding function with a requests-per-second
// cap. Bulk ingestion embeds every chunk, so an unthrottled run can
// trip provider limits. A non-positive rps returns fn unchanged.
func RateLimited(fn chromemgo.EmbeddingFunc, rps float64) chromemgo.EmbeddingFunc {
	if rps <= 0 {
		return fn
	}

	limiter := rate.NewLimiter(rate.Limit(rps), 1)
	return func(ctx context.Context, text string) ([]float32, error) {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}
		return fn(ctx, text)
	}
}

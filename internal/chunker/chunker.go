// Package chunker splits text into fixed-size, overlapping chunks that
// respect sentence boundaries where possible.
package chunker

import (
	"strings"
	"unicode/utf8"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 800

// DefaultOverlap is the default number of overlapping characters.
const DefaultOverlap = 100

// Chunker splits text into bounded, overlapping chunks.
type Chunker struct {
	size    int
	overlap int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.size = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a chunker with the given options.
// Overlap is clamped below the chunk size so chunking always makes
// forward progress.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		size:    DefaultChunkSize,
		overlap: DefaultOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.overlap >= c.size {
		c.overlap = c.size / 4
	}

	return c
}

// Size returns the configured chunk size in characters.
func (c *Chunker) Size() int { return c.size }

// Overlap returns the configured overlap in characters.
func (c *Chunker) Overlap() int { return c.overlap }

// Split breaks text into chunks of at most the configured size.
// Each chunk after the first starts overlap characters before the end
// of the previous chunk, measured in original character positions.
// Splitting prefers breaking after sentence-terminating punctuation
// followed by whitespace; a hard cut is used only when the window holds
// no sentence boundary. Empty or whitespace-only input produces no
// chunks; input shorter than one chunk produces exactly one.
func (c *Chunker) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	n := len(text)
	estimated := n/(c.size-c.overlap) + 1
	chunks := make([]string, 0, estimated)

	start := 0
	for start < n {
		end := start + c.size
		if end >= n {
			end = n
		} else if cut := lastSentenceBoundary(text[start:end]); cut > 0 {
			end = start + cut
		} else {
			// Hard cut: back up so a multi-byte rune is never split.
			for end > start && !utf8.RuneStart(text[end]) {
				end--
			}
			if end == start {
				_, w := utf8.DecodeRuneInString(text[start:])
				end = start + w
			}
		}

		if chunk := strings.TrimSpace(text[start:end]); chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end >= n {
			break
		}

		next := end - c.overlap
		for next > start && !utf8.RuneStart(text[next]) {
			next--
		}
		if next <= start {
			// Overlap would repeat the whole window; skip it instead.
			next = end
		}
		start = next
	}

	return chunks
}

// lastSentenceBoundary returns the offset just after the final
// sentence-terminating punctuation (followed by whitespace) in window,
// or 0 when no boundary exists.
func lastSentenceBoundary(window string) int {
	for i := len(window) - 1; i > 0; i-- {
		if isSpace(window[i]) && isTerminator(window[i-1]) {
			return i
		}
	}
	return 0
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\n' || b == '\t' || b == '\r'
}

func isTerminator(b byte) bool {
	return b == '.' || b == '!' || b == '?'
}

package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	c := New()

	assert.Equal(t, DefaultChunkSize, c.Size())
	assert.Equal(t, DefaultOverlap, c.Overlap())
}

func TestNew_ClampsOverlap(t *testing.T) {
	c := New(WithChunkSize(100), WithOverlap(200))

	assert.Less(t, c.Overlap(), c.Size())
	assert.Equal(t, 25, c.Overlap())
}

func TestNew_IgnoresInvalidOptions(t *testing.T) {
	c := New(WithChunkSize(0), WithOverlap(-5))

	assert.Equal(t, DefaultChunkSize, c.Size())
	assert.Equal(t, DefaultOverlap, c.Overlap())
}

func TestSplit_EmptyInput(t *testing.T) {
	c := New()

	assert.Nil(t, c.Split(""))
	assert.Nil(t, c.Split("   \n\t  "))
}

func TestSplit_ShortInputSingleChunk(t *testing.T) {
	c := New(WithChunkSize(800), WithOverlap(100))
	text := "A single short sentence."

	chunks := c.Split(text)

	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0])
}

func TestSplit_BreaksAtSentenceBoundary(t *testing.T) {
	c := New(WithChunkSize(40), WithOverlap(0))
	text := "First sentence here. Second sentence follows after it."

	chunks := c.Split(text)

	require.GreaterOrEqual(t, len(chunks), 2)
	assert.Equal(t, "First sentence here.", chunks[0])
	assert.True(t, strings.HasPrefix(chunks[1], "Second sentence"))
}

func TestSplit_HardCutWithoutBoundary(t *testing.T) {
	c := New(WithChunkSize(10), WithOverlap(0))
	text := strings.Repeat("x", 25)

	chunks := c.Split(text)

	require.Len(t, chunks, 3)
	assert.Equal(t, strings.Repeat("x", 10), chunks[0])
	assert.Equal(t, strings.Repeat("x", 10), chunks[1])
	assert.Equal(t, strings.Repeat("x", 5), chunks[2])
}

func TestSplit_HardCutKeepsRunesIntact(t *testing.T) {
	c := New(WithChunkSize(10), WithOverlap(2))
	// 3-byte runes with no sentence boundary, so a byte-offset cut
	// would land mid-rune.
	text := strings.Repeat("日本語", 8)

	chunks := c.Split(text)

	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.True(t, utf8.ValidString(chunk), "chunk %q splits a rune", chunk)
	}
	assert.True(t, strings.HasSuffix(chunks[len(chunks)-1], "語"))
}

func TestSplit_OverlapCarriesTrailingText(t *testing.T) {
	c := New(WithChunkSize(20), WithOverlap(5))
	text := strings.Repeat("a", 50)

	chunks := c.Split(text)

	require.GreaterOrEqual(t, len(chunks), 2)
	// Each chunk after the first restarts 5 characters before the end of
	// the previous window.
	assert.Equal(t, strings.Repeat("a", 20), chunks[0])
	assert.Equal(t, strings.Repeat("a", 20), chunks[1])
}

func TestSplit_Deterministic(t *testing.T) {
	c := New(WithChunkSize(60), WithOverlap(15))
	text := "One sentence. Two sentences here. Three longer sentences follow now. Four is the last one."

	first := c.Split(text)
	second := c.Split(text)

	assert.Equal(t, first, second)
}

func TestSplit_RoundTripModuloWhitespace(t *testing.T) {
	// Concatenating chunk spans minus overlaps must reconstruct the
	// original text up to whitespace normalisation at boundary cuts.
	c := New(WithChunkSize(50), WithOverlap(0))
	text := "Alpha beta gamma. Delta epsilon zeta eta. Theta iota kappa lambda. Mu nu xi omicron pi rho."

	chunks := c.Split(text)
	joined := strings.Join(chunks, " ")

	assert.Equal(t, strings.Join(strings.Fields(text), " "), strings.Join(strings.Fields(joined), " "))
}

func TestSplit_LongLessonProducesTwoChunks(t *testing.T) {
	// 1500 characters at size 800 / overlap 100: the first chunk covers
	// [0,800), the second restarts at 700 and covers the rest.
	c := New(WithChunkSize(800), WithOverlap(100))
	text := strings.Repeat("retrieval", 167)[:1500]

	chunks := c.Split(text)

	require.Len(t, chunks, 2)
	assert.Len(t, chunks[0], 800)
	assert.Len(t, chunks[1], 800)
	assert.Equal(t, text[700:750], chunks[1][:50])
}

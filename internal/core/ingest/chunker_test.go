package ingest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkShortTextSingleChunk(t *testing.T) {
	c := NewChunker(1000, 200)

	got := c.Chunk("  hello   world\nthis is\ta short\ntext  ")

	require.Len(t, got, 1)
	assert.Equal(t, "hello world this is a short text", got[0])
}

func TestChunkEmptyInput(t *testing.T) {
	c := NewChunker(1000, 200)

	assert.Empty(t, c.Chunk(""))
	assert.Empty(t, c.Chunk("   \n\t  "))
}

func TestChunkOverlapIsWordCount(t *testing.T) {
	// 40 five-letter words with a 25-character budget force several chunks.
	words := make([]string, 40)
	for i := range words {
		words[i] = fmt.Sprintf("w%04d", i)
	}
	c := NewChunker(25, 2)

	chunks := c.Chunk(strings.Join(words, " "))
	require.Greater(t, len(chunks), 1)

	for i := 1; i < len(chunks); i++ {
		prev := strings.Fields(chunks[i-1])
		cur := strings.Fields(chunks[i])
		tail := prev[len(prev)-2:]
		require.GreaterOrEqual(t, len(cur), 2)
		assert.Equal(t, tail, cur[:2], "chunk %d must start with the last 2 words of chunk %d", i, i-1)
	}
}

func TestChunkOverlapShrinksToWholeChunk(t *testing.T) {
	c := NewChunker(10, 200)

	chunks := c.Chunk("aaaa bbbb cccc")

	require.Len(t, chunks, 2)
	assert.Equal(t, "aaaa bbbb", chunks[0])
	// Overlap exceeds the closed chunk's word count, so the whole chunk
	// seeds the next one.
	assert.Equal(t, "aaaa bbbb cccc", chunks[1])
}

func TestChunkRespectsCharacterBudget(t *testing.T) {
	words := make([]string, 200)
	for i := range words {
		words[i] = fmt.Sprintf("word%03d", i)
	}
	c := NewChunker(100, 0)

	chunks := c.Chunk(strings.Join(words, " "))
	require.Greater(t, len(chunks), 1)

	// Every chunk except a possible oversized trailing word stays within
	// the budget counting one separator per word.
	for _, ch := range chunks {
		total := 0
		for _, w := range strings.Fields(ch) {
			total += len(w) + 1
		}
		assert.LessOrEqual(t, total, 100)
	}

	// No word lost or duplicated beyond the configured zero overlap.
	var rejoined []string
	for _, ch := range chunks {
		rejoined = append(rejoined, strings.Fields(ch)...)
	}
	assert.Equal(t, words, rejoined)
}

func TestNewChunkerDefaults(t *testing.T) {
	c := NewChunker(0, -1)
	assert.Equal(t, DefaultChunkSize, c.ChunkSize)
	assert.Equal(t, DefaultChunkOverlap, c.ChunkOverlap)
}

package ingest

import "strings"

// Defaults for the chunking parameters.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// Chunker splits extracted text into overlapping bounded-length segments.
//
// ChunkSize is a character budget; ChunkOverlap is a WORD count carried over
// from the end of each closed chunk into the next. The units differ:
// changing the overlap to characters shifts every chunk boundary.
type Chunker struct {
	ChunkSize    int
	ChunkOverlap int
}

// NewChunker returns a Chunker with the given size and overlap. A size of
// zero or less and a negative overlap fall back to the defaults; a zero
// overlap is honoured.
func NewChunker(chunkSize, chunkOverlap int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap < 0 {
		chunkOverlap = DefaultChunkOverlap
	}
	return &Chunker{ChunkSize: chunkSize, ChunkOverlap: chunkOverlap}
}

// Chunk tokenizes text on whitespace and greedily accumulates words while the
// running length (word lengths plus one separator each) stays within the
// character budget. When the next word would overflow, the current chunk is
// closed and the next one is seeded with the last ChunkOverlap words of it;
// if the closed chunk has fewer words than that, the whole chunk carries
// over. A trailing chunk is emitted for any unflushed words. Empty input
// yields an empty sequence.
func (c *Chunker) Chunk(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	var current []string
	length := 0

	for _, word := range words {
		if length+len(word)+1 <= c.ChunkSize {
			current = append(current, word)
			length += len(word) + 1
			continue
		}

		chunks = append(chunks, strings.Join(current, " "))

		keep := c.ChunkOverlap
		if keep > len(current) {
			keep = len(current)
		}
		current = append(current[len(current)-keep:len(current):len(current)], word)
		length = 0
		for _, w := range current {
			length += len(w) + 1
		}
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}

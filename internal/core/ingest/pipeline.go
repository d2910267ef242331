package ingest

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/studypal-app/studypal/internal/core"
	"github.com/studypal-app/studypal/internal/models"
)

// embedWorkers bounds how many embedding batches are in flight at once.
const embedWorkers = 4

// TextExtractor is the extraction surface the pipeline needs; satisfied by
// extract.Extractor.
type TextExtractor interface {
	ExtractBytes(data []byte, ext string) (string, error)
}

// Pipeline orchestrates extraction, chunking, embedding and the batch write
// into the chunk store for one uploaded document.
type Pipeline struct {
	extractor TextExtractor
	chunker   *Chunker
	embedder  core.EmbeddingProvider
	store     core.ChunkStore
	batchSize int
	log       zerolog.Logger
}

// NewPipeline wires an ingestion pipeline. batchSize caps how many chunk
// texts go to the embedding provider per request.
func NewPipeline(ex TextExtractor, chunker *Chunker, embedder core.EmbeddingProvider, store core.ChunkStore, batchSize int, log zerolog.Logger) *Pipeline {
	if batchSize <= 0 {
		batchSize = 16
	}
	return &Pipeline{
		extractor: ex,
		chunker:   chunker,
		embedder:  embedder,
		store:     store,
		batchSize: batchSize,
		log:       log,
	}
}

// ChunkID builds the deterministic identifier for one chunk:
// {owner}_{semester}_{subject}_{basename}_{index}. The owner component comes
// first so that two users uploading the same file never collide.
func ChunkID(meta models.ChunkMetadata, filename string, index int) string {
	return fmt.Sprintf("%s_%d_%s_%s_%d", meta.UserID, meta.Semester, meta.Subject, filepath.Base(filename), index)
}

// Ingest extracts text from data, chunks it, tags every chunk with meta,
// embeds the chunks and writes them into the chunk store in a single batch.
// The returned error wraps one of the core sentinel failures so callers can
// distinguish causes; the HTTP boundary collapses it to a success flag.
//
// The chunk store write is transactional, so a failed ingest leaves no
// partial rows. The caller records the Document row only after Ingest
// returns nil.
func (p *Pipeline) Ingest(ctx context.Context, filename string, data []byte, meta models.ChunkMetadata) error {
	text, err := p.extractor.ExtractBytes(data, filepath.Ext(filename))
	if err != nil {
		p.log.Error().Err(err).Str("file", filename).Msg("ingest: extraction failed")
		return err
	}

	chunks := p.chunker.Chunk(text)
	if len(chunks) == 0 {
		p.log.Warn().Str("file", filename).Msg("ingest: no text extracted, nothing stored")
		return nil
	}

	ids := make([]string, len(chunks))
	metadatas := make([]models.ChunkMetadata, len(chunks))
	for i := range chunks {
		ids[i] = ChunkID(meta, filename, i)
		metadatas[i] = meta
	}

	embeddings, err := p.embedAll(ctx, chunks)
	if err != nil {
		p.log.Error().Err(err).Str("file", filename).Msg("ingest: embedding failed")
		return fmt.Errorf("%w: %v", core.ErrGeneration, err)
	}

	if err := p.store.Add(ctx, chunks, metadatas, ids, embeddings); err != nil {
		p.log.Error().Err(err).Str("file", filename).Msg("ingest: chunk store write failed")
		return fmt.Errorf("%w: %v", core.ErrStorage, err)
	}

	p.log.Info().Str("file", filename).Int("chunks", len(chunks)).Msg("ingest: document stored")
	return nil
}

// embedAll embeds texts in batches with bounded parallelism, preserving
// order: embeddings[i] corresponds to texts[i].
func (p *Pipeline) embedAll(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(embedWorkers)

	for start := 0; start < len(texts); start += p.batchSize {
		end := start + p.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		start, end := start, end
		g.Go(func() error {
			vecs, err := p.embedder.EmbedTexts(gctx, texts[start:end])
			if err != nil {
				return err
			}
			if len(vecs) != end-start {
				return fmt.Errorf("embed size mismatch: got %d want %d", len(vecs), end-start)
			}
			copy(out[start:end], vecs)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Package rag answers questions from a user's own documents: retrieve the
// most relevant stored chunks for a scope, assemble them into a grounded
// prompt and run the generative model.
package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/studypal-app/studypal/internal/core"
	"github.com/studypal-app/studypal/internal/models"
)

// FallbackAnswer is returned whenever retrieval or generation fails; the
// caller never sees a raw error.
const FallbackAnswer = "Sorry, I encountered an error processing your request."

// DefaultTopK is the number of chunks retrieved per question.
const DefaultTopK = 4

const systemPrompt = "Use the following pieces of context to answer the question at the end. " +
	"If you don't know the answer, just say that you don't know, don't try to make up an answer. " +
	"Always provide the source document(s) you used to answer the question."

// Result is the outcome of one query.
type Result struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

// Engine runs retrieval-augmented queries against a chunk store. An Engine
// is immutable after construction; changing model settings means building a
// new Engine, never mutating one shared by in-flight requests.
type Engine struct {
	store    core.ChunkStore
	embedder core.EmbeddingProvider
	llm      core.LLMProvider
	topK     int
	log      zerolog.Logger
}

// NewEngine builds a query engine. topK <= 0 falls back to DefaultTopK.
func NewEngine(store core.ChunkStore, embedder core.EmbeddingProvider, llm core.LLMProvider, topK int, log zerolog.Logger) *Engine {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Engine{store: store, embedder: embedder, llm: llm, topK: topK, log: log}
}

// Query answers question from chunks matching scope. It always returns a
// usable Result: on any failure the answer is FallbackAnswer with no
// sources, and the typed cause is returned alongside for internal callers.
func (e *Engine) Query(ctx context.Context, question string, scope models.QueryScope) (Result, error) {
	res, err := e.query(ctx, question, scope)
	if err != nil {
		e.log.Error().Err(err).Str("user_id", scope.UserID).Msg("query failed")
		return Result{Answer: FallbackAnswer, Sources: []string{}}, err
	}
	return res, nil
}

func (e *Engine) query(ctx context.Context, question string, scope models.QueryScope) (Result, error) {
	vecs, err := e.embedder.EmbedTexts(ctx, []string{question})
	if err != nil || len(vecs) == 0 {
		return Result{}, fmt.Errorf("%w: embed question: %v", core.ErrGeneration, err)
	}

	chunks, err := e.store.Retrieve(ctx, vecs[0], scope, e.topK)
	if err != nil {
		return Result{}, fmt.Errorf("%w: retrieve: %v", core.ErrStorage, err)
	}

	answer, err := e.llm.Generate(ctx, systemPrompt, buildPrompt(question, chunks))
	if err != nil {
		return Result{}, fmt.Errorf("%w: generate: %v", core.ErrGeneration, err)
	}

	return Result{Answer: answer, Sources: sourceTitles(chunks)}, nil
}

// buildPrompt assembles the retrieved chunk texts and the question into the
// fixed template. With no retrieved chunks the context block is empty and
// the model is expected to answer that it doesn't know.
func buildPrompt(question string, chunks []models.RetrievedChunk) string {
	var sb strings.Builder
	for _, ch := range chunks {
		sb.WriteString("Source: ")
		sb.WriteString(ch.Metadata.Title)
		sb.WriteString("\n")
		sb.WriteString(ch.Content)
		sb.WriteString("\n---\n")
	}
	return fmt.Sprintf("%s\nQuestion: %s\nAnswer:", sb.String(), question)
}

// sourceTitles returns the distinct document titles behind the retrieved
// chunks. Order is unspecified.
func sourceTitles(chunks []models.RetrievedChunk) []string {
	seen := make(map[string]struct{}, len(chunks))
	titles := make([]string, 0, len(chunks))
	for _, ch := range chunks {
		if _, ok := seen[ch.Metadata.Title]; ok {
			continue
		}
		seen[ch.Metadata.Title] = struct{}{}
		titles = append(titles, ch.Metadata.Title)
	}
	return titles
}

package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/studypal-app/studypal/internal/config"
	"github.com/studypal-app/studypal/internal/core"
	db "github.com/studypal-app/studypal/internal/core/database"
	"github.com/studypal-app/studypal/internal/core/extract"
	"github.com/studypal-app/studypal/internal/core/ingest"
	"github.com/studypal-app/studypal/internal/core/llm"
	"github.com/studypal-app/studypal/internal/core/objectstore"
	"github.com/studypal-app/studypal/internal/core/rag"
	"github.com/studypal-app/studypal/internal/core/vectorstore"
)

type App struct {
	DBClient   *db.DatabaseClient
	ChunkStore core.ChunkStore
	Pipeline   *ingest.Pipeline
	Engines    *rag.Holder
	Server     *Server
	log        zerolog.Logger
}

func NewApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	dbClient, err := db.NewDatabaseClient(appCtx, cfg)
	if err != nil {
		return nil, err
	}
	log.Info().Msg("database initialized and ready")

	chunkStore := vectorstore.NewStore(dbClient.DB())

	objClient, err := objectstore.NewS3Client(appCtx, cfg)
	if err != nil {
		return nil, err
	}
	log.Info().Msg("object storage client ready")

	embedder, err := llm.NewGeminiEmbedder(appCtx, cfg.AIAPIKey, cfg.EmbedModel)
	if err != nil {
		return nil, fmt.Errorf("couldn't initialize the embedder: %w", err)
	}

	generator, err := llm.NewGeminiLLM(appCtx, cfg.AIAPIKey, cfg.GenModel)
	if err != nil {
		return nil, fmt.Errorf("couldn't initialize the generator: %w", err)
	}

	extractor := extract.NewExtractor()
	chunker := ingest.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	pipeline := ingest.NewPipeline(extractor, chunker, embedder, chunkStore, cfg.EmbedBatch, log)

	engines := rag.NewHolder(rag.NewEngine(chunkStore, embedder, generator, cfg.RetrieveK, log))

	// Admin model updates build a new engine against fresh provider clients
	// and publish it; nothing shared by running requests is mutated.
	buildEngine := func(ctx context.Context, genModel, embedModel string) (*rag.Engine, error) {
		emb, err := llm.NewGeminiEmbedder(ctx, cfg.AIAPIKey, embedModel)
		if err != nil {
			return nil, err
		}
		gen, err := llm.NewGeminiLLM(ctx, cfg.AIAPIKey, genModel)
		if err != nil {
			return nil, err
		}
		return rag.NewEngine(chunkStore, emb, gen, cfg.RetrieveK, log), nil
	}

	server := NewServer(cfg, dbClient, objClient, pipeline, engines, buildEngine, log)

	return &App{
		DBClient:   dbClient,
		ChunkStore: chunkStore,
		Pipeline:   pipeline,
		Engines:    engines,
		Server:     server,
		log:        log,
	}, nil
}

func (a *App) Close() {
	if a.DBClient != nil {
		_ = a.DBClient.Close()
	}
}

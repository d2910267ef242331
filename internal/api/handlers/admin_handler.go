package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/studypal-app/studypal/internal/core/rag"
)

// EngineBuilder constructs a query engine for the given model names.
type EngineBuilder func(ctx context.Context, genModel, embedModel string) (*rag.Engine, error)

// AdminHandler swaps model configuration at runtime. Each update builds a
// fresh engine and publishes it through the holder; nothing shared by
// concurrent requests is mutated.
type AdminHandler struct {
	engines *rag.Holder
	build   EngineBuilder
	log     zerolog.Logger
}

func NewAdminHandler(engines *rag.Holder, build EngineBuilder, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{engines: engines, build: build, log: log}
}

type modelConfigRequest struct {
	GenModel   string `json:"gen_model"`
	EmbedModel string `json:"embedding_model"`
}

func (h *AdminHandler) UpdateModel(w http.ResponseWriter, r *http.Request) {
	var req modelConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if req.GenModel == "" || req.EmbedModel == "" {
		http.Error(w, "gen_model and embedding_model are required", http.StatusBadRequest)
		return
	}

	engine, err := h.build(r.Context(), req.GenModel, req.EmbedModel)
	if err != nil {
		h.log.Error().Err(err).Str("gen_model", req.GenModel).Str("embed_model", req.EmbedModel).Msg("model update failed")
		http.Error(w, "could not initialize model configuration", http.StatusInternalServerError)
		return
	}

	h.engines.Set(engine)
	h.log.Info().Str("gen_model", req.GenModel).Str("embed_model", req.EmbedModel).Msg("model configuration updated")
	writeJSON(w, map[string]string{"message": "Model configuration updated successfully"})
}

package handlers

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	middleware "github.com/studypal-app/studypal/internal/api/middlewares"
	"github.com/studypal-app/studypal/internal/models"
	"github.com/studypal-app/studypal/internal/services"
)

const maxUploadBytes = 52 << 20 // 52 MB

// Ingestor is the ingestion surface the upload handler needs; satisfied by
// ingest.Pipeline.
type Ingestor interface {
	Ingest(ctx context.Context, filename string, data []byte, meta models.ChunkMetadata) error
}

type DocumentHandler struct {
	docs     *services.DocumentService
	pipeline Ingestor
	log      zerolog.Logger
}

func NewDocumentHandler(docs *services.DocumentService, pipeline Ingestor, log zerolog.Logger) *DocumentHandler {
	return &DocumentHandler{docs: docs, pipeline: pipeline, log: log}
}

type uploadResponse struct {
	Filename string `json:"filename"`
	Success  bool   `json:"success"`
}

// UploadDocument ingests an uploaded file into the chunk store and records
// the document row. The document is only recorded after the chunk batch has
// landed, so a failed ingest leaves nothing behind.
func (h *DocumentHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart body", http.StatusBadRequest)
		return
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "user_id not found in context", http.StatusUnauthorized)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "invalid file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "could not read file", http.StatusBadRequest)
		return
	}

	semester := 1
	if v := r.FormValue("semester"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, "semester must be a positive integer", http.StatusBadRequest)
			return
		}
		semester = n
	}
	subject := r.FormValue("subject")
	if subject == "" {
		subject = "General"
	}

	// Strip any path components from the client-supplied name.
	filename := filepath.Base(header.Filename)
	docID := uuid.NewString()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	storageURL, err := h.docs.StoreOriginal(r.Context(), userID, docID, filename, contentType, data)
	if err != nil {
		h.log.Error().Err(err).Str("file", filename).Msg("upload: object storage failed")
		http.Error(w, "Failed to process document", http.StatusInternalServerError)
		return
	}

	meta := models.ChunkMetadata{
		UserID:   userID,
		Semester: semester,
		Subject:  subject,
		Title:    filename,
	}
	if err := h.pipeline.Ingest(r.Context(), filename, data, meta); err != nil {
		http.Error(w, "Failed to process document", http.StatusInternalServerError)
		return
	}

	doc := &models.Document{
		ID:         docID,
		UserID:     userID,
		Title:      filename,
		Semester:   semester,
		Subject:    subject,
		StorageURL: storageURL,
	}
	if err := h.docs.Create(r.Context(), doc); err != nil {
		h.log.Error().Err(err).Str("doc_id", docID).Msg("upload: document row insert failed")
		http.Error(w, "Failed to store document metadata", http.StatusInternalServerError)
		return
	}

	writeJSON(w, uploadResponse{Filename: filename, Success: true})
}

func (h *DocumentHandler) GetDocuments(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "user_id not found in context", http.StatusUnauthorized)
		return
	}

	documents, err := h.docs.ListByUser(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if documents == nil {
		documents = []models.Document{}
	}

	writeJSON(w, documents)
}

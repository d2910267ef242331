package services

import (
	"context"
	"path"
	"strings"

	"github.com/studypal-app/studypal/internal/core"
	"github.com/studypal-app/studypal/internal/models"
)

type DocumentService struct {
	db      core.DbClient
	storage core.ObjectClient
	bucket  string
}

func NewDocumentService(db core.DbClient, storage core.ObjectClient, bucket string) *DocumentService {
	return &DocumentService{db: db, storage: storage, bucket: bucket}
}

// StoreOriginal uploads the raw file to object storage and returns its URL.
func (s *DocumentService) StoreOriginal(ctx context.Context, userID, docID, filename, contentType string, data []byte) (string, error) {
	key := s.objectKey(userID, docID, filename)
	return s.storage.UploadFile(ctx, s.bucket, key, data, contentType)
}

// Create records the document row. Call this only after the chunk store
// batch has landed, so a failed ingest leaves no document behind.
func (s *DocumentService) Create(ctx context.Context, doc *models.Document) error {
	return s.db.CreateDocument(ctx, doc)
}

func (s *DocumentService) Get(ctx context.Context, id string) (*models.Document, error) {
	return s.db.GetDocumentByID(ctx, id)
}

func (s *DocumentService) ListByUser(ctx context.Context, userID string) ([]models.Document, error) {
	return s.db.ListDocumentsByUser(ctx, userID)
}

// objectKey creates a consistent S3 key layout.
func (s *DocumentService) objectKey(userID, docID, filename string) string {
	filename = strings.TrimSpace(filename)
	filename = strings.ReplaceAll(filename, " ", "_")
	return path.Join("users", userID, "documents", docID, filename)
}

package core

import (
	"context"
	"io"

	"github.com/studypal-app/studypal/internal/models"
)

// DbClient defines all relational persistence operations the services need.
// It abstracts Postgres so higher layers never depend on a specific DB.
type DbClient interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	CreateDocument(ctx context.Context, doc *models.Document) error
	GetDocumentByID(ctx context.Context, id string) (*models.Document, error)
	ListDocumentsByUser(ctx context.Context, userID string) ([]models.Document, error)

	Close() error
}

// ChunkStore is the persistent associative index from chunk identifier to
// (text, embedding, metadata). Add writes one document's chunks in a single
// transaction: all rows land or none do. Retrieve runs nearest-neighbour
// search restricted to chunks whose metadata exactly matches the scope.
type ChunkStore interface {
	Add(ctx context.Context, texts []string, metadatas []models.ChunkMetadata, ids []string, embeddings [][]float32) error
	Retrieve(ctx context.Context, queryVec []float32, scope models.QueryScope, k int) ([]models.RetrievedChunk, error)
}

// ObjectClient defines interactions with S3 or any object storage.
type ObjectClient interface {
	UploadFile(ctx context.Context, bucket, key string, data []byte, contentType string) (url string, err error)
	DeleteFile(ctx context.Context, bucket, key string) error
	GetFile(ctx context.Context, bucket, key string) ([]byte, error)

	GetObjectReader(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

package models

import (
	"time"
)

// User represents an authenticated user of the system.
type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Document represents a user-uploaded study document. Documents are created
// on upload and never mutated; there is no delete or re-upload path.
type Document struct {
	ID         string    `db:"id" json:"id"`
	UserID     string    `db:"user_id" json:"user_id"`
	Title      string    `db:"title" json:"title"`
	Semester   int       `db:"semester" json:"semester"`
	Subject    string    `db:"subject" json:"subject"`
	StorageURL string    `db:"storage_url" json:"storage_url"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// ChunkMetadata is the ownership and classification record attached to every
// chunk written into the chunk store. All chunks of one document carry an
// identical metadata record.
type ChunkMetadata struct {
	UserID   string `json:"user_id"`
	Semester int    `json:"semester"`
	Subject  string `json:"subject"`
	Title    string `json:"title"`
}

// RetrievedChunk is one similarity-ranked chunk returned by the chunk store.
type RetrievedChunk struct {
	ID       string
	Content  string
	Metadata ChunkMetadata
	Distance float64
}

// QueryScope restricts which chunks are eligible for retrieval. UserID is
// always required; Semester and Subject narrow the scope only when set.
// Semester is a pointer so that an explicit value is distinguishable from
// "not provided" without relying on zero-value checks.
type QueryScope struct {
	UserID   string
	Semester *int
	Subject  string
}

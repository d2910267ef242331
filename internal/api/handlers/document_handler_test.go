package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studypal-app/studypal/internal/models"
	"github.com/studypal-app/studypal/internal/services"
)

const testBucket = "studypal-test"

func newDocumentHandler(db *fakeDbClient, storage *fakeObjectClient, ingestor *fakeIngestor) *DocumentHandler {
	docs := services.NewDocumentService(db, storage, testBucket)
	return NewDocumentHandler(docs, ingestor, zerolog.Nop())
}

func doUpload(t *testing.T, h *DocumentHandler, userID, filename string, content []byte, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType, err := multipartUpload(filename, content, fields)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/documents/upload", body)
	req.Header.Set("Content-Type", contentType)
	if userID != "" {
		req = authedRequest(req, userID)
	}
	rec := httptest.NewRecorder()
	h.UploadDocument(rec, req)
	return rec
}

func TestUploadDocumentSuccess(t *testing.T) {
	db := newFakeDbClient()
	storage := &fakeObjectClient{}
	ingestor := &fakeIngestor{}
	h := newDocumentHandler(db, storage, ingestor)

	content := []byte("photosynthesis converts light into chemical energy")
	rec := doUpload(t, h, "user-1", "plants.txt", content, map[string]string{
		"semester": "2",
		"subject":  "Biology",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp uploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "plants.txt", resp.Filename)
	assert.True(t, resp.Success)

	// Original file landed in object storage under the owner's prefix.
	assert.Equal(t, testBucket, storage.gotBucket)
	assert.True(t, strings.HasPrefix(storage.gotKey, "users/user-1/documents/"))
	assert.True(t, strings.HasSuffix(storage.gotKey, "/plants.txt"))
	assert.Equal(t, content, storage.gotData)

	// Ingestion saw the file bytes and the scope metadata.
	assert.Equal(t, "plants.txt", ingestor.gotFilename)
	assert.Equal(t, content, ingestor.gotData)
	assert.Equal(t, models.ChunkMetadata{
		UserID: "user-1", Semester: 2, Subject: "Biology", Title: "plants.txt",
	}, ingestor.gotMeta)

	// The document row was recorded with the storage URL.
	require.Len(t, db.documents, 1)
	doc := db.documents[0]
	assert.Equal(t, "user-1", doc.UserID)
	assert.Equal(t, "plants.txt", doc.Title)
	assert.Equal(t, 2, doc.Semester)
	assert.Equal(t, "Biology", doc.Subject)
	assert.Contains(t, doc.StorageURL, storage.gotKey)
}

func TestUploadDocumentDefaults(t *testing.T) {
	db := newFakeDbClient()
	ingestor := &fakeIngestor{}
	h := newDocumentHandler(db, &fakeObjectClient{}, ingestor)

	rec := doUpload(t, h, "user-1", "notes.txt", []byte("text"), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, ingestor.gotMeta.Semester)
	assert.Equal(t, "General", ingestor.gotMeta.Subject)
}

func TestUploadDocumentStripsClientPath(t *testing.T) {
	ingestor := &fakeIngestor{}
	h := newDocumentHandler(newFakeDbClient(), &fakeObjectClient{}, ingestor)

	rec := doUpload(t, h, "user-1", "../../etc/notes.txt", []byte("text"), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "notes.txt", ingestor.gotFilename)
}

func TestUploadDocumentInvalidSemester(t *testing.T) {
	h := newDocumentHandler(newFakeDbClient(), &fakeObjectClient{}, &fakeIngestor{})

	for _, v := range []string{"0", "-3", "abc"} {
		rec := doUpload(t, h, "user-1", "notes.txt", []byte("text"), map[string]string{"semester": v})
		assert.Equal(t, http.StatusBadRequest, rec.Code, "semester %q must be rejected", v)
	}
}

func TestUploadDocumentUnauthenticated(t *testing.T) {
	h := newDocumentHandler(newFakeDbClient(), &fakeObjectClient{}, &fakeIngestor{})

	rec := doUpload(t, h, "", "notes.txt", []byte("text"), nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUploadDocumentIngestFailureLeavesNoDocument(t *testing.T) {
	db := newFakeDbClient()
	ingestor := &fakeIngestor{err: errors.New("embedding provider down")}
	h := newDocumentHandler(db, &fakeObjectClient{}, ingestor)

	rec := doUpload(t, h, "user-1", "notes.txt", []byte("text"), nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, db.documents)
}

func TestUploadDocumentStorageFailure(t *testing.T) {
	db := newFakeDbClient()
	ingestor := &fakeIngestor{}
	h := newDocumentHandler(db, &fakeObjectClient{uploadErr: errors.New("bucket gone")}, ingestor)

	rec := doUpload(t, h, "user-1", "notes.txt", []byte("text"), nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Zero(t, ingestor.calls)
	assert.Empty(t, db.documents)
}

func TestGetDocuments(t *testing.T) {
	db := newFakeDbClient()
	db.documents = []models.Document{
		{ID: "d1", UserID: "user-1", Title: "a.pdf"},
		{ID: "d2", UserID: "user-2", Title: "b.pdf"},
	}
	h := newDocumentHandler(db, &fakeObjectClient{}, &fakeIngestor{})

	req := authedRequest(httptest.NewRequest(http.MethodGet, "/api/documents", nil), "user-1")
	rec := httptest.NewRecorder()
	h.GetDocuments(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var docs []models.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, "d1", docs[0].ID)
}

func TestGetDocumentsEmptyListNotNull(t *testing.T) {
	h := newDocumentHandler(newFakeDbClient(), &fakeObjectClient{}, &fakeIngestor{})

	req := authedRequest(httptest.NewRequest(http.MethodGet, "/api/documents", nil), "user-1")
	rec := httptest.NewRecorder()
	h.GetDocuments(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
}

package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"

	middleware "github.com/studypal-app/studypal/internal/api/middlewares"
	"github.com/studypal-app/studypal/internal/models"
)

// fakeDbClient is an in-memory core.DbClient for handler tests.
type fakeDbClient struct {
	usersByEmail map[string]*models.User
	documents    []models.Document

	createUserErr error
	createDocErr  error
	listErr       error
}

func newFakeDbClient() *fakeDbClient {
	return &fakeDbClient{usersByEmail: make(map[string]*models.User)}
}

func (f *fakeDbClient) CreateUser(ctx context.Context, user *models.User) error {
	if f.createUserErr != nil {
		return f.createUserErr
	}
	if _, ok := f.usersByEmail[user.Email]; ok {
		return errors.New("duplicate email")
	}
	f.usersByEmail[user.Email] = user
	return nil
}

func (f *fakeDbClient) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.usersByEmail[email], nil
}

func (f *fakeDbClient) CreateDocument(ctx context.Context, doc *models.Document) error {
	if f.createDocErr != nil {
		return f.createDocErr
	}
	f.documents = append(f.documents, *doc)
	return nil
}

func (f *fakeDbClient) GetDocumentByID(ctx context.Context, id string) (*models.Document, error) {
	for i := range f.documents {
		if f.documents[i].ID == id {
			return &f.documents[i], nil
		}
	}
	return nil, nil
}

func (f *fakeDbClient) ListDocumentsByUser(ctx context.Context, userID string) ([]models.Document, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.Document
	for _, d := range f.documents {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDbClient) Close() error { return nil }

// fakeObjectClient records uploads instead of talking to S3.
type fakeObjectClient struct {
	uploadErr error

	gotBucket      string
	gotKey         string
	gotContentType string
	gotData        []byte
}

func (f *fakeObjectClient) UploadFile(ctx context.Context, bucket, key string, data []byte, contentType string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.gotBucket = bucket
	f.gotKey = key
	f.gotContentType = contentType
	f.gotData = data
	return "https://" + bucket + ".s3.us-east-2.amazonaws.com/" + key, nil
}

func (f *fakeObjectClient) DeleteFile(ctx context.Context, bucket, key string) error { return nil }

func (f *fakeObjectClient) GetFile(ctx context.Context, bucket, key string) ([]byte, error) {
	return f.gotData, nil
}

func (f *fakeObjectClient) GetObjectReader(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.gotData)), nil
}

// fakeIngestor records the ingest call the upload handler makes.
type fakeIngestor struct {
	err error

	gotFilename string
	gotData     []byte
	gotMeta     models.ChunkMetadata
	calls       int
}

func (f *fakeIngestor) Ingest(ctx context.Context, filename string, data []byte, meta models.ChunkMetadata) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.gotFilename = filename
	f.gotData = data
	f.gotMeta = meta
	return nil
}

// authedRequest attaches a user id the way the token middleware would.
func authedRequest(r *http.Request, userID string) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.UserIDKey, userID)
	return r.WithContext(ctx)
}

// multipartUpload builds a multipart body with one file part plus form fields.
func multipartUpload(filename string, content []byte, fields map[string]string) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(content); err != nil {
		return nil, "", err
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

func doJSON(h http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studypal-app/studypal/internal/core"
)

func TestExtractBytesPlainText(t *testing.T) {
	e := NewExtractor()

	got, err := e.ExtractBytes([]byte("hello\nworld\n"), ".txt")

	require.NoError(t, err)
	assert.Equal(t, "hello\nworld\n", got)
}

func TestExtractBytesExtensionCaseInsensitive(t *testing.T) {
	e := NewExtractor()

	got, err := e.ExtractBytes([]byte("upper case ext"), ".TXT")

	require.NoError(t, err)
	assert.Equal(t, "upper case ext", got)
}

func TestExtractBytesInvalidPDF(t *testing.T) {
	e := NewExtractor()

	_, err := e.ExtractBytes([]byte("this is not a pdf"), ".pdf")

	assert.ErrorIs(t, err, core.ErrExtraction)
}

func TestExtractBytesInvalidDocx(t *testing.T) {
	e := NewExtractor()

	_, err := e.ExtractBytes([]byte("not a zip archive"), ".docx")

	assert.ErrorIs(t, err, core.ErrExtraction)
}

func TestExtractReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("from disk"), 0o644))

	e := NewExtractor()
	got, err := e.Extract(path)

	require.NoError(t, err)
	assert.Equal(t, "from disk", got)
}

func TestExtractMissingFile(t *testing.T) {
	e := NewExtractor()

	_, err := e.Extract(filepath.Join(t.TempDir(), "missing.txt"))

	assert.ErrorIs(t, err, core.ErrExtraction)
}

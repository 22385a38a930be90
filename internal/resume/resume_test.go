package resume

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTextPlain(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cv.txt")
	require.NoError(t, os.WriteFile(path, []byte("  Jane  Doe\n\n\nGo developer  \n"), 0o600))

	text, err := LoadText(path)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nGo developer", text)
}

func TestLoadTextMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadText(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
}

func TestParseDocx(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<w:document><w:body><w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p><w:p><w:r><w:t>Skills:</w:t><w:tab/><w:t>Go, R&amp;D</w:t></w:r></w:p></w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	text, err := Parse("cv.docx", buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nSkills: Go, R&D", text)
}

func TestParseRejectsUnknownFormats(t *testing.T) {
	t.Parallel()

	_, err := Parse("cv.odt", []byte("x"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Parse("cv.pdf", []byte("not a pdf"))
	assert.Error(t, err)
}

func TestExtractSkills(t *testing.T) {
	t.Parallel()

	text := "Built REST API services in Go and C++; some JavaScript, Google Cloud (GCP), PostgreSQL."
	assert.Equal(t, []string{"javascript", "c++", "go", "gcp", "postgresql", "rest api"}, ExtractSkills(text))
	assert.Empty(t, ExtractSkills("nothing to see"))
}

func TestParseSkills(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"python", "sql"}, ParseSkills(" python, ,sql "))
	assert.Empty(t, ParseSkills(""))
}

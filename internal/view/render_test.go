package view

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/landing/internal/requestinfo"
)

var testFS = fstest.MapFS{
	"templates/page.html":  {Data: []byte(`{{ define "page" }}<p>{{ .Name }} on {{ device .Info }}</p>{{ template "badge" . }}{{ end }}`)},
	"templates/badge.html": {Data: []byte(`{{ define "badge" }}<b>{{ .Name }}</b>{{ end }}`)},
}

func TestRenderEmbedded(t *testing.T) {
	e, err := New(testFS, "")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	err = e.Render(rec, http.StatusOK, "page", map[string]any{
		"Name": "<Ada>",
		"Info": &requestinfo.RequestInfo{UA: requestinfo.UA{Device: "Mobile"}},
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "<p>&lt;Ada&gt; on Mobile</p><b>&lt;Ada&gt;</b>", rec.Body.String())
}

func TestRenderNilInfo(t *testing.T) {
	e, err := New(testFS, "")
	require.NoError(t, err)

	out, err := e.RenderToString("page", map[string]any{"Name": "x", "Info": (*requestinfo.RequestInfo)(nil)})
	require.NoError(t, err)
	assert.Contains(t, string(out), "on Other")
}

func TestDiskOverride(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "web", "templates")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "badge.html"),
		[]byte(`{{ define "badge" }}<i>custom</i>{{ end }}`), 0o644))

	e, err := New(testFS, root)
	require.NoError(t, err)

	out, err := e.RenderToString("page", map[string]any{"Name": "x"})
	require.NoError(t, err)
	assert.Contains(t, string(out), "<i>custom</i>")
}

func TestRenderUnknownTemplate(t *testing.T) {
	e, err := New(testFS, "")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	assert.Error(t, e.Render(rec, http.StatusOK, "missing", nil))
	assert.Equal(t, 0, rec.Body.Len())
}

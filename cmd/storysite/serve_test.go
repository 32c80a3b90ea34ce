package cmd

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPreviewHandlerServesSite(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "en", "stories", "a"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>home</h1>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en", "stories", "a", "index.html"), []byte("<h1>a</h1>"), 0644))

	handler := newPreviewHandler(dir, false, zap.NewNop())

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{"/", http.StatusOK, "<h1>home</h1>"},
		{"/en/stories/a/", http.StatusOK, "<h1>a</h1>"},
		{"/en/stories/missing/", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.status, rec.Code)
			if tt.body != "" {
				assert.Contains(t, rec.Body.String(), tt.body)
			}
		})
	}
}

func TestDisplayAddr(t *testing.T) {
	assert.Equal(t, "localhost:8080", displayAddr(":8080"))
	assert.Equal(t, "0.0.0.0:9000", displayAddr("0.0.0.0:9000"))
}

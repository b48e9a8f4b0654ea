package rest

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct {
	paths map[string]string
}

func (v stubVerifier) Verify(token string) (string, error) {
	if path, ok := v.paths[token]; ok {
		return path, nil
	}
	return "", errors.New("token invalid")
}

func TestServeFileWithValidToken(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "artifact.mp3")
	require.NoError(t, os.WriteFile(path, []byte("mp3-bytes"), 0o644))

	app := fiber.New()
	InitRestFiles(app, stubVerifier{paths: map[string]string{"good-token": path}})

	req := httptest.NewRequest(http.MethodGet, "/files/good-token", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "mp3-bytes", string(body))
}

func TestServeFileRejectionsAreUniform(t *testing.T) {
	dir := t.TempDir()
	app := fiber.New()
	InitRestFiles(app, stubVerifier{paths: map[string]string{
		"gone-token": filepath.Join(dir, "deleted.mp3"),
	}})

	// Invalid token and valid token for a missing file produce the same
	// response.
	for _, token := range []string{"bad-token", "gone-token"} {
		req := httptest.NewRequest(http.MethodGet, "/files/"+token, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode, token)
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)
		assert.Equal(t, "File not found or token expired", string(body), token)
	}
}

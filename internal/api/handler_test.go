package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurihiro0119/git-fetcher/internal/domain"
	"github.com/kurihiro0119/git-fetcher/internal/logging"
	"github.com/kurihiro0119/git-fetcher/internal/storage/sqlite"
	"github.com/kurihiro0119/git-fetcher/internal/storage/storagetest"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := sqlite.NewSQLiteStorage(filepath.Join(t.TempDir(), "repositories.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.Insert(context.Background(), storagetest.Repo("octocat", "hello-world", storagetest.Lang("Go"))))
	require.NoError(t, store.Insert(context.Background(), storagetest.Repo("octocat", "spoon-knife", nil)))

	return SetupRoutes(NewHandler(store), logging.Discard())
}

func TestHealthCheck(t *testing.T) {
	router := setupRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestListRepositories(t *testing.T) {
	router := setupRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/owners/octocat/repos", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []*domain.Repository `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	assert.Equal(t, "hello-world", body.Data[0].Name)
	assert.Equal(t, "Go", body.Data[0].GetLanguage())
	assert.Nil(t, body.Data[1].Language)
}

func TestListRepositories_UnknownOwner(t *testing.T) {
	router := setupRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/owners/nobody/repos", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":{"code":"NOT_FOUND","message":"owner nobody not found"}}`, w.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	router := setupRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/v1/owners/octocat/repos", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

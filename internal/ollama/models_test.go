package ollama_test

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"localai/internal/ollama"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListModels(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/tags", r.URL.Path)

		writeJSON(t, w, map[string]any{
			"models": []map[string]any{
				{
					"name":        "codellama:latest",
					"size":        3825819519,
					"modified_at": "2024-01-02T15:04:05.123456789Z",
					"digest":      "8fdf8f752f6e",
				},
				{"name": "llama3:8b"},
				{"name": "empty:latest", "size": 0},
			},
		})
	})

	models, err := client.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 3)

	assert.Equal(t, "codellama:latest", models[0].Name)
	require.NotNil(t, models[0].Size)
	assert.Equal(t, int64(3825819519), *models[0].Size)
	assert.Equal(t, "8fdf8f752f6e", models[0].Digest)
	modified, ok := models[0].Modified()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 2, 15, 4, 5, 123456789, time.UTC), modified)

	assert.Equal(t, ollama.Model{Name: "llama3:8b"}, models[1])
	_, ok = models[1].Modified()
	assert.False(t, ok)

	require.NotNil(t, models[2].Size, "a reported zero size is kept")
	assert.Zero(t, *models[2].Size)
}

func TestListModels_MissingModelsField(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{})
	})

	models, err := client.ListModels(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, models)
	assert.Empty(t, models)
}

func TestListModels_StatusError(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	models, err := client.ListModels(context.Background())
	assert.Nil(t, models)
	assert.ErrorIs(t, err, ollama.ErrListModelsFailed)
	assert.Equal(t, "Failed to fetch models from Ollama", err.Error())
}

func TestListModels_MalformedBody(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"models": "nope"}`)
	})

	_, err := client.ListModels(context.Background())
	assert.ErrorIs(t, err, ollama.ErrListModelsFailed)
}

func TestListModels_FollowsUpdatedBaseURL(t *testing.T) {
	srv, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"models": []map[string]any{{"name": "a"}}})
	})

	stale := closedServerURL(t)
	client.UpdateConfig(ollama.ConfigUpdate{BaseURL: &stale})
	_, err := client.ListModels(context.Background())
	require.ErrorIs(t, err, ollama.ErrListModelsFailed)

	fresh := srv.URL + "/"
	client.UpdateConfig(ollama.ConfigUpdate{BaseURL: &fresh})
	models, err := client.ListModels(context.Background())
	require.NoError(t, err)
	assert.Len(t, models, 1)
}

func TestModelModified_InvalidTimestamp(t *testing.T) {
	_, ok := ollama.Model{Name: "x", ModifiedAt: "yesterday"}.Modified()
	assert.False(t, ok)
}

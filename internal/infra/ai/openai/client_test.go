package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/herbalens/internal/domain/ai"
	domain "github.com/bryanwahyu/herbalens/internal/domain/analysis"
	"github.com/bryanwahyu/herbalens/internal/domain/plants"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := plants.NewCatalog(plants.Builtin())
	require.NoError(t, err)
	return NewClient("test-key", "", srv.URL+"/v1", c)
}

func completion(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   defaultModel,
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	}
}

func TestClassifyMapsReplyOntoCatalog(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completion(`{"plant_id":"peppermint","confidence":93,"health_status":"warning","diseases":["Rust"]}`))
	})

	res, err := c.Classify(context.Background(), domain.Image{Name: "mint.jpg", ContentType: "image/jpeg", Bytes: []byte("jpg")})
	require.NoError(t, err)
	assert.Equal(t, "peppermint", res.ID)
	assert.Equal(t, "Peppermint", res.Name)
	assert.Equal(t, 93, res.Confidence)
	assert.Equal(t, domain.HealthWarning, res.HealthStatus)
	assert.Equal(t, []string{"Rust"}, res.Diseases)
	assert.NoError(t, res.Validate())

	assert.Equal(t, defaultModel, got["model"])
	raw, _ := json.Marshal(got["messages"])
	assert.True(t, strings.Contains(string(raw), "data:image/jpeg;base64,"), "image sent as data url")
}

func TestClassifyUnknownPlant(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completion(`{"plant_id":"cactus","confidence":50,"health_status":"healthy"}`))
	})
	_, err := c.Classify(context.Background(), domain.Image{ContentType: "image/png"})
	assert.ErrorIs(t, err, ai.ErrUnknownPlant)
}

func TestClassifyQuota(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota","type":"insufficient_quota","code":"insufficient_quota"}}`))
	})
	_, err := c.Classify(context.Background(), domain.Image{ContentType: "image/png"})
	assert.ErrorIs(t, err, ai.ErrQuotaExceeded)
}

func TestClassifyEmptyChoices(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[]}`))
	})
	_, err := c.Classify(context.Background(), domain.Image{ContentType: "image/png"})
	assert.ErrorIs(t, err, ai.ErrEmptyResponse)
}

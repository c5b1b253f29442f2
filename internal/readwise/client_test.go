package readwise

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/zotero-readwise/internal/entities"
)

func testClient(server *httptest.Server) *Client {
	client := NewClient("test-token")
	client.httpClient = server.Client()
	client.highlightsURL = server.URL + "/highlights/"
	client.authURL = server.URL + "/auth/"
	return client
}

func TestClient_ValidateToken(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantErr    error
	}{
		{name: "valid token", statusCode: http.StatusNoContent},
		{name: "invalid token", statusCode: http.StatusUnauthorized, wantErr: ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "Token test-token", r.Header.Get("Authorization"))
				w.WriteHeader(tt.statusCode)
			}))
			defer server.Close()

			err := testClient(server).ValidateToken(context.Background())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestClient_CreateHighlights(t *testing.T) {
	t.Run("posts highlights as one batch", func(t *testing.T) {
		var received map[string][]Highlight
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "Token test-token", r.Header.Get("Authorization"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		highlights := []Highlight{
			{Text: "first"},
			{Text: "second", Title: "On Testing"},
		}
		err := testClient(server).CreateHighlights(context.Background(), highlights)
		require.NoError(t, err)

		require.Len(t, received["highlights"], 2)
		assert.Equal(t, "first", received["highlights"][0].Text)
		assert.Equal(t, "On Testing", received["highlights"][1].Title)
	})

	t.Run("non-success status rejects the whole batch", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"detail":"something broke"}`))
		}))
		defer server.Close()

		err := testClient(server).CreateHighlights(context.Background(), []Highlight{{Text: "first"}})

		var uploadErr *UploadError
		require.ErrorAs(t, err, &uploadErr)
		assert.Equal(t, http.StatusInternalServerError, uploadErr.StatusCode)
		assert.JSONEq(t, `{"detail":"something broke"}`, string(uploadErr.Body))
	})
}

func TestClient_Push(t *testing.T) {
	t.Run("oversized item is skipped and recorded, the rest uploads", func(t *testing.T) {
		var received map[string][]Highlight
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		oversized := entities.Item{Key: "BIG1", Text: strings.Repeat("a", 8191), Title: "On Testing"}
		ok := entities.Item{Key: "OK1", Text: "short"}

		result, err := testClient(server).Push(context.Background(), []entities.Item{oversized, ok})
		require.NoError(t, err)

		assert.Equal(t, 1, result.Uploaded)
		require.Len(t, result.Failed, 1)
		assert.Equal(t, "BIG1", result.Failed[0]["key"])
		require.Len(t, received["highlights"], 1)
		assert.Equal(t, "short", received["highlights"][0].Text)
	})

	t.Run("no network call when nothing maps", func(t *testing.T) {
		requests := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		oversized := entities.Item{Key: "BIG1", Text: strings.Repeat("a", 9000)}

		result, err := testClient(server).Push(context.Background(), []entities.Item{oversized})
		require.NoError(t, err)

		assert.Zero(t, result.Uploaded)
		assert.Len(t, result.Failed, 1)
		assert.Zero(t, requests)
	})

	t.Run("rejected upload propagates the upload error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"detail":"invalid"}`))
		}))
		defer server.Close()

		_, err := testClient(server).Push(context.Background(), []entities.Item{{Key: "OK1", Text: "short"}})

		var uploadErr *UploadError
		require.ErrorAs(t, err, &uploadErr)
		assert.Equal(t, http.StatusBadRequest, uploadErr.StatusCode)
	})
}

package weaviate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"

	"github.com/anchorage-ai/vecsync/domain/document"
)

// fakeEmbedder returns a constant vector per text.
type fakeEmbedder struct{}

func (fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 2, 3}
	}
	return out, nil
}

// newTestClient points a weaviate client at the handler, serving the /v1/meta
// probe the client issues on startup.
func newTestClient(t *testing.T, handler http.HandlerFunc) *weaviate.Client {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/meta" {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"version": "1.33.0"}`))
			return
		}
		handler(w, r)
	}))
	t.Cleanup(ts.Close)

	client, err := weaviate.NewClient(weaviate.Config{
		Host:   ts.Listener.Addr().String(),
		Scheme: "http",
	})
	require.NoError(t, err)
	return client
}

func TestStore_AddDocuments(t *testing.T) {
	var batch struct {
		Objects []struct {
			Class      string            `json:"class"`
			ID         string            `json:"id"`
			Properties map[string]any    `json:"properties"`
			Vector     []float32         `json:"vector"`
		} `json:"objects"`
	}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/batch/objects", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&batch))

		resp := make([]map[string]any, len(batch.Objects))
		for i, obj := range batch.Objects {
			resp[i] = map[string]any{
				"class":  obj.Class,
				"id":     obj.ID,
				"result": map[string]any{"status": "SUCCESS"},
			}
		}
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(resp)
	})

	store := NewStore(client, "TestDoc", fakeEmbedder{}, nil)
	docs := []document.Document{
		document.New("hello", map[string]string{document.MetaSource: "a.txt", document.MetaTitle: "A"}),
	}

	err := store.AddDocuments(context.Background(), docs, []string{"uid-1"})
	require.NoError(t, err)

	require.Len(t, batch.Objects, 1)
	obj := batch.Objects[0]
	assert.Equal(t, "TestDoc", obj.Class)
	assert.Equal(t, objectID("uid-1").String(), obj.ID)
	assert.Equal(t, "uid-1", obj.Properties["uid"])
	assert.Equal(t, "hello", obj.Properties["content"])
	assert.Equal(t, "a.txt", obj.Properties["source"])
	assert.Equal(t, []float32{1, 2, 3}, obj.Vector)
}

func TestStore_AddDocuments_ReportsObjectError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[{"id": "x", "result": {"errors": {"error": [{"message": "boom"}]}}}]`))
	})

	store := NewStore(client, "TestDoc", fakeEmbedder{}, nil)
	err := store.AddDocuments(context.Background(), []document.Document{document.New("x", nil)}, []string{"uid-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestStore_Delete(t *testing.T) {
	var deleted []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		parts := strings.Split(r.URL.Path, "/")
		deleted = append(deleted, parts[len(parts)-1])
		w.WriteHeader(http.StatusNoContent)
	})

	store := NewStore(client, "TestDoc", nil, nil)
	require.NoError(t, store.Delete(context.Background(), []string{"uid-1", "uid-2"}))

	assert.Equal(t, []string{
		objectID("uid-1").String(),
		objectID("uid-2").String(),
	}, deleted)
}

func TestStore_Delete_IgnoresMissing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	store := NewStore(client, "TestDoc", nil, nil)
	assert.NoError(t, store.Delete(context.Background(), []string{"uid-gone"}))
}

func TestStore_EnsureClass_CreatesWhenMissing(t *testing.T) {
	created := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/v1/schema/TestDoc":
			w.WriteHeader(http.StatusNotFound)
		case r.Method == http.MethodPost && r.URL.Path == "/v1/schema":
			var class map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&class))
			assert.Equal(t, "TestDoc", class["class"])
			assert.Equal(t, "none", class["vectorizer"])
			created = true
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"class": "TestDoc"}`))
		default:
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})

	store := NewStore(client, "TestDoc", fakeEmbedder{}, nil)
	require.NoError(t, store.EnsureClass(context.Background()))
	assert.True(t, created)
}

func TestStore_EnsureClass_SkipsExisting(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"class": "TestDoc"}`))
	})

	store := NewStore(client, "TestDoc", nil, nil)
	require.NoError(t, store.EnsureClass(context.Background()))
}

func TestObjectID_Deterministic(t *testing.T) {
	assert.Equal(t, objectID("abc"), objectID("abc"))
	assert.NotEqual(t, objectID("abc"), objectID("abd"))
}

package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/spaceboard/internal/domain/entity"
)

type recorded struct {
	Method string
	Path   string
	Body   map[string]any
}

// fakeES answers like a cluster and records what it was asked.
func fakeES(t *testing.T, reply string) (*elasticsearch.Client, *[]recorded) {
	t.Helper()
	var (
		mu   sync.Mutex
		reqs []recorded
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		rec := recorded{Method: r.Method, Path: r.URL.Path}
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &rec.Body)
		}
		mu.Lock()
		reqs = append(reqs, rec)
		mu.Unlock()
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return es, &reqs
}

func TestIssueIndexWritesDocument(t *testing.T) {
	es, reqs := fakeES(t, `{"result":"created"}`)
	idx := NewIssueIndex(es, "issues")

	err := idx.IndexIssue(context.Background(), &entity.Issue{
		ID: "abc", IssueID: "ET-001", Title: "Login broken", SpaceID: "s1", Status: entity.StatusToDo,
	})
	require.NoError(t, err)
	require.Len(t, *reqs, 1)
	got := (*reqs)[0]
	assert.Equal(t, http.MethodPut, got.Method)
	assert.Equal(t, "/issues/_doc/abc", got.Path)
	assert.Equal(t, "ET-001", got.Body["issue_id"])
	assert.Equal(t, "s1", got.Body["space_id"])
	assert.Equal(t, "To Do", got.Body["status"])
}

func TestSearchIssueIDsScopesToSpaces(t *testing.T) {
	es, reqs := fakeES(t, `{"hits":{"hits":[{"_id":"a"},{"_id":"b"}]}}`)
	idx := NewIssueIndex(es, "issues")

	ids, err := idx.SearchIssueIDs(context.Background(), "login", []string{"s1", "s2"}, 20)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	require.Len(t, *reqs, 1)
	assert.True(t, strings.HasSuffix((*reqs)[0].Path, "/issues/_search"))
	body, _ := json.Marshal((*reqs)[0].Body)
	assert.Contains(t, string(body), `"terms":{"space_id":["s1","s2"]}`)
	assert.Contains(t, string(body), `"query":"login"`)
}

func TestRemoveIssueIgnoresMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"result":"not_found"}`)
	}))
	defer srv.Close()
	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	assert.NoError(t, NewIssueIndex(es, "issues").RemoveIssue(context.Background(), "gone"))
}

func TestSearchUsersReturnsSources(t *testing.T) {
	es, _ := fakeES(t, `{"hits":{"hits":[{"_id":"u1","_source":{"name":"Alice","email":"alice@example.com"}}]}}`)

	out, err := NewUserIndex(es, "users").SearchUsers(context.Background(), "ali", 10)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Alice", out[0]["name"])
}

package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/placement-portal/internal/domain/entity"
)

func newTestIndex(t *testing.T, h http.HandlerFunc) *JobIndex {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewJobIndex(es, "jobs")
}

func TestIndexSendsDocument(t *testing.T) {
	var (
		gotPath string
		gotDoc  map[string]any
	)
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotDoc)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})

	job := entity.Job{
		ID:          "job-1",
		Title:       "Backend Intern",
		Description: "Go services",
		Eligibility: entity.Eligibility{Branches: []entity.Branch{entity.BranchCSE, entity.BranchAI}},
		JobType:     entity.JobTypeInternship,
		Status:      entity.JobOpen,
		Deadline:    time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, idx.Index(context.Background(), job, "Acme"))
	assert.Equal(t, "/jobs/_doc/job-1", gotPath)
	assert.Equal(t, "Backend Intern", gotDoc["title"])
	assert.Equal(t, "Acme", gotDoc["company_name"])
	assert.Equal(t, []any{"CSE", "AI"}, gotDoc["branches"])
	assert.Equal(t, "2026-12-01T00:00:00Z", gotDoc["deadline"])
}

func TestSearchReturnsIDsInOrder(t *testing.T) {
	var query map[string]any
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &query)
		_, _ = w.Write([]byte(`{"hits":{"hits":[{"_id":"b"},{"_id":"a"}]}}`))
	})

	ids, err := idx.Search(context.Background(), "golang", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, ids)
	assert.EqualValues(t, 5, query["size"])
	mm := query["query"].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "golang", mm["query"])
}

func TestSearchSurfacesErrorStatus(t *testing.T) {
	idx := newTestIndex(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	})
	_, err := idx.Search(context.Background(), "x", 5)
	assert.Error(t, err)
}

func TestDisabled(t *testing.T) {
	var d Disabled
	assert.NoError(t, d.Index(context.Background(), entity.Job{}, ""))
	ids, err := d.Search(context.Background(), "x", 10)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

// Package search keeps an Elasticsearch index of job postings.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/placement-portal/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

// JobIndex indexes and searches jobs in one Elasticsearch index.
type JobIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewJobIndex(es *elasticsearch.Client, index string) *JobIndex {
	return &JobIndex{es: es, index: index}
}

type jobDoc struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	CompanyName string   `json:"company_name"`
	Branches    []string `json:"branches"`
	JobType     string   `json:"job_type"`
	Location    string   `json:"location"`
	Status      string   `json:"status"`
	Deadline    string   `json:"deadline"`
	UpdatedAt   string   `json:"updated_at"`
}

// Index upserts the document for j.
func (x *JobIndex) Index(ctx context.Context, j entity.Job, company string) error {
	doc := jobDoc{
		ID:          j.ID,
		Title:       j.Title,
		Description: j.Description,
		CompanyName: company,
		JobType:     string(j.JobType),
		Location:    j.Location,
		Status:      string(j.Status),
		Deadline:    j.Deadline.UTC().Format(time.RFC3339),
		UpdatedAt:   j.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	for _, b := range j.Eligibility.Branches {
		doc.Branches = append(doc.Branches, string(b))
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.index, DocumentID: j.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("index job %s: %s", j.ID, res.Status())
	}
	return nil
}

// Search runs a multi_match over title, description and company and returns
// matching job ids by relevance.
func (x *JobIndex) Search(ctx context.Context, q string, size int) ([]string, error) {
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^3", "company_name^2", "description"},
			},
		},
		"size":    size,
		"_source": false,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.es.Search(
		x.es.Search.WithContext(c),
		x.es.Search.WithIndex(x.index),
		x.es.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("search jobs: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}

// Disabled is used when SEARCH_ENABLED is false. Indexing is a no-op and
// searches match nothing.
type Disabled struct{}

func (Disabled) Index(context.Context, entity.Job, string) error { return nil }

func (Disabled) Search(context.Context, string, int) ([]string, error) { return []string{}, nil }

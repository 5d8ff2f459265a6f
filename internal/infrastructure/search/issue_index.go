package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/spaceboard/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

// issueMapping keeps scoping fields as exact-match keywords.
var issueMapping = map[string]any{
	"mappings": map[string]any{
		"properties": map[string]any{
			"issue_id":    map[string]any{"type": "text", "fields": map[string]any{"raw": map[string]any{"type": "keyword"}}},
			"title":       map[string]any{"type": "text"},
			"description": map[string]any{"type": "text"},
			"space_id":    map[string]any{"type": "keyword"},
			"project_id":  map[string]any{"type": "keyword"},
			"status":      map[string]any{"type": "keyword"},
			"priority":    map[string]any{"type": "keyword"},
			"assignee_id": map[string]any{"type": "keyword"},
			"updated_at":  map[string]any{"type": "date"},
		},
	},
}

// IssueIndex stores issues in Elasticsearch for keyword search.
type IssueIndex struct {
	ES    *elasticsearch.Client
	Index string
}

func NewIssueIndex(es *elasticsearch.Client, index string) *IssueIndex {
	return &IssueIndex{ES: es, Index: index}
}

// EnsureIndex creates the index with its mapping when missing.
func (x *IssueIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := esapi.IndicesExistsRequest{Index: []string{x.Index}}.Do(c, x.ES)
	if err != nil {
		return err
	}
	_ = res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}
	body, _ := json.Marshal(issueMapping)
	res, err = esapi.IndicesCreateRequest{Index: x.Index, Body: bytes.NewReader(body)}.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	// 400 means another process created it first.
	if res.IsError() && res.StatusCode != 400 {
		return fmt.Errorf("create index %s: %s", x.Index, res.Status())
	}
	return nil
}

func issueDocument(i *entity.Issue) map[string]any {
	return map[string]any{
		"id":          i.ID,
		"issue_id":    i.IssueID,
		"title":       i.Title,
		"description": i.Description,
		"space_id":    i.SpaceID,
		"project_id":  i.ProjectID,
		"status":      string(i.Status),
		"priority":    string(i.Priority),
		"assignee_id": i.AssigneeID,
		"updated_at":  i.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func (x *IssueIndex) IndexIssue(ctx context.Context, i *entity.Issue) error {
	body, err := json.Marshal(issueDocument(i))
	if err != nil {
		return err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := esapi.IndexRequest{Index: x.Index, DocumentID: i.ID, Body: bytes.NewReader(body), Refresh: "false"}.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("index issue %s: %s", i.IssueID, res.Status())
	}
	return nil
}

func (x *IssueIndex) RemoveIssue(ctx context.Context, id string) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := esapi.DeleteRequest{Index: x.Index, DocumentID: id}.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("remove issue %s: %s", id, res.Status())
	}
	return nil
}

// issueQuery matches the keyword against id, title and description, scoped
// to the given spaces.
func issueQuery(keyword string, spaceIDs []string, size int) map[string]any {
	return map[string]any{
		"_source": false,
		"size":    size,
		"query": map[string]any{
			"bool": map[string]any{
				"must": []any{
					map[string]any{
						"multi_match": map[string]any{
							"query":     keyword,
							"fields":    []string{"issue_id^3", "title^2", "description"},
							"fuzziness": "AUTO",
						},
					},
				},
				"filter": []any{
					map[string]any{"terms": map[string]any{"space_id": spaceIDs}},
				},
			},
		},
	}
}

// SearchIssueIDs returns matching issue ids ordered by relevance.
func (x *IssueIndex) SearchIssueIDs(ctx context.Context, keyword string, spaceIDs []string, size int) ([]string, error) {
	body, err := json.Marshal(issueQuery(keyword, spaceIDs, size))
	if err != nil {
		return nil, err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := x.ES.Search(
		x.ES.Search.WithContext(c),
		x.ES.Search.WithIndex(x.Index),
		x.ES.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("search issues: %s", res.Status())
	}

	hits, err := decodeHits(res)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}

type hit struct {
	ID     string         `json:"_id"`
	Source map[string]any `json:"_source"`
}

func decodeHits(res *esapi.Response) ([]hit, error) {
	var parsed struct {
		Hits struct {
			Hits []hit `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	return parsed.Hits.Hits, nil
}

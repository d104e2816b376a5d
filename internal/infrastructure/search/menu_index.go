// Package search mirrors the menu catalogue into Elasticsearch.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/yunusemrekoyun/fast-food-app/internal/domain/entity"
	"github.com/yunusemrekoyun/fast-food-app/internal/domain/repository"
)

const requestTimeout = 3 * time.Second

type MenuIndex struct {
	ES        *elasticsearch.Client
	IndexName string
}

func NewMenuIndex(es *elasticsearch.Client, index string) *MenuIndex {
	return &MenuIndex{ES: es, IndexName: index}
}

type menuDoc struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"image_url"`
	Description string    `json:"description"`
	Calories    int       `json:"calories"`
	Protein     int       `json:"protein"`
	Rating      float64   `json:"rating"`
	Type        string    `json:"type"`
	CategoryID  string    `json:"category_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func toDoc(m entity.MenuItem) menuDoc {
	return menuDoc{
		ID: m.ID, Name: m.Name, Price: m.Price, ImageURL: m.ImageURL, Description: m.Description,
		Calories: m.Calories, Protein: m.Protein, Rating: m.Rating, Type: m.Type,
		CategoryID: m.CategoryID, CreatedAt: m.CreatedAt,
	}
}

func (d menuDoc) entity() entity.MenuItem {
	return entity.MenuItem{
		ID: d.ID, Name: d.Name, Price: d.Price, ImageURL: d.ImageURL, Description: d.Description,
		Calories: d.Calories, Protein: d.Protein, Rating: d.Rating, Type: d.Type,
		CategoryID: d.CategoryID, CreatedAt: d.CreatedAt,
	}
}

const menuMapping = `{
  "mappings": {
    "properties": {
      "id":          {"type": "keyword"},
      "name":        {"type": "text"},
      "description": {"type": "text"},
      "category_id": {"type": "keyword"},
      "type":        {"type": "keyword"},
      "price":       {"type": "double"},
      "rating":      {"type": "double"},
      "created_at":  {"type": "date"}
    }
  }
}`

// EnsureIndex creates the index with its mapping if it does not exist yet.
func (x *MenuIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := esapi.IndicesExistsRequest{Index: []string{x.IndexName}}.Do(c, x.ES)
	if err != nil {
		return err
	}
	_ = res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}

	res, err = esapi.IndicesCreateRequest{Index: x.IndexName, Body: strings.NewReader(menuMapping)}.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && !strings.Contains(readAll(res.Body), "resource_already_exists_exception") {
		return fmt.Errorf("create index %s: %s", x.IndexName, res.Status())
	}
	return nil
}

func (x *MenuIndex) Index(ctx context.Context, item entity.MenuItem) error {
	b, err := json.Marshal(toDoc(item))
	if err != nil {
		return err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req := esapi.IndexRequest{Index: x.IndexName, DocumentID: item.ID, Body: bytes.NewReader(b), Refresh: "false"}
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("index menu item %s: %s", item.ID, res.Status())
	}
	return nil
}

// Search runs a multi_match on name and description, optionally filtered by
// category.
func (x *MenuIndex) Search(ctx context.Context, f repository.MenuFilter) ([]entity.MenuItem, error) {
	b, err := json.Marshal(buildQuery(f))
	if err != nil {
		return nil, err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.ES.Search(
		x.ES.Search.WithContext(c),
		x.ES.Search.WithIndex(x.IndexName),
		x.ES.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("search %s: %s", x.IndexName, res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source menuDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]entity.MenuItem, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source.entity())
	}
	return out, nil
}

func buildQuery(f repository.MenuFilter) map[string]any {
	boolQ := map[string]any{
		"must": []any{
			map[string]any{
				"multi_match": map[string]any{
					"query":     f.Query,
					"fields":    []string{"name^2", "description"},
					"fuzziness": "AUTO",
				},
			},
		},
	}
	if f.CategoryID != "" {
		boolQ["filter"] = []any{
			map[string]any{"term": map[string]any{"category_id": f.CategoryID}},
		}
	}
	q := map[string]any{"query": map[string]any{"bool": boolQ}}
	if f.Limit > 0 {
		q["size"] = f.Limit
	}
	return q
}

func readAll(r io.Reader) string {
	b, _ := io.ReadAll(r)
	return string(b)
}

var _ repository.MenuSearcher = (*MenuIndex)(nil)

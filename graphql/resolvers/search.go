package resolvers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/elastic/go-elasticsearch/v8"

	gqlmodels "cavina.GO/graphql/models"
)

var (
	searchServiceInstance *SearchService
	searchServiceOnce     sync.Once
)

// GetSearchService returns singleton SearchService.
func GetSearchService() *SearchService {
	searchServiceOnce.Do(func() {
		searchServiceInstance = NewSearchService()
	})
	return searchServiceInstance
}

type SearchService struct {
	client *elasticsearch.Client
	index  string
}

func NewSearchService() *SearchService {
	host := os.Getenv("ELASTICSEARCH_HOST")
	if host == "" {
		host = "http://localhost:9200"
	}
	index := os.Getenv("ELASTICSEARCH_INDEX")
	if index == "" {
		index = "cavina_products"
	}

	cfg := elasticsearch.Config{
		Addresses: []string{host},
	}
	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return &SearchService{index: index}
	}

	return &SearchService{
		client: client,
		index:  index,
	}
}

// SearchProducts (resolver) delegates to SearchService and hydrates the hits
// from the catalog.
func (r *QueryResolver) SearchProducts(ctx context.Context, query string, pageSize, currentPage int) (*gqlmodels.ProductSearchResult, error) {
	ids, total, err := r.searchService().Search(ctx, query, pageSize, currentPage)
	if err != nil {
		return nil, err
	}
	products := make([]*gqlmodels.Product, 0, len(ids))
	for _, id := range ids {
		p, err := r.catalog.FindProductByID(id)
		if err != nil {
			continue
		}
		gp, err := r.toProduct(p)
		if err != nil {
			return nil, err
		}
		products = append(products, gp)
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if currentPage <= 0 {
		currentPage = 1
	}
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	return &gqlmodels.ProductSearchResult{
		Items:      products,
		TotalCount: int32(total),
		PageInfo: &gqlmodels.PageInfo{
			PageSize:    int32(pageSize),
			CurrentPage: int32(currentPage),
			TotalPages:  int32(totalPages),
		},
	}, nil
}

// Search queries the product index and returns matching product ids with the
// total hit count.
func (s *SearchService) Search(ctx context.Context, query string, pageSize, currentPage int) ([]uint, int, error) {
	if s.client == nil {
		return nil, 0, fmt.Errorf("elasticsearch not configured")
	}

	ps := pageSize
	if ps <= 0 {
		ps = 20
	}
	cp := currentPage
	if cp <= 0 {
		cp = 1
	}
	from := (cp - 1) * ps

	body := map[string]interface{}{
		"from": from,
		"size": ps,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"name^3", "sku^2", "primary_category"},
			},
		},
	}
	bodyBytes, _ := json.Marshal(body)

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(bodyBytes)),
	)
	if err != nil {
		return nil, 0, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, 0, fmt.Errorf("elasticsearch error: %s", res.String())
	}

	var esResp struct {
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source map[string]interface{} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&esResp); err != nil {
		return nil, 0, err
	}

	var ids []uint
	for _, hit := range esResp.Hits.Hits {
		if id, ok := hit.Source["id"].(float64); ok {
			ids = append(ids, uint(id))
		}
	}
	return ids, esResp.Hits.Total.Value, nil
}

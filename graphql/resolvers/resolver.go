package resolvers

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	catalogRepo "cavina.GO/model/repository/catalog"
	stockRepo "cavina.GO/model/repository/stock"

	"cavina.GO/graphql"
	gqlregistry "cavina.GO/graphql/registry"
)

func init() {
	gqlregistry.RegisterQueryResolverFactory(func(db interface{}) interface{} {
		return NewQueryResolver(db.(*gorm.DB))
	})
}

// QueryResolver is the single resolver for all Query fields.
// Methods live in product.go, stock.go, search.go.
// New Query fields: use RegisterSchemaExtension + add method on QueryResolver,
// or use _extension for fully dynamic resolvers.
type QueryResolver struct {
	db      *gorm.DB
	catalog *catalogRepo.CatalogRepository
	stocks  *stockRepo.StockRepository
}

func NewQueryResolver(db *gorm.DB) *QueryResolver {
	return &QueryResolver{
		db:      db,
		catalog: catalogRepo.NewCatalogRepository(db),
		stocks:  stockRepo.NewStockRepository(db),
	}
}

func (r *QueryResolver) locationID(ctx context.Context) uint {
	return graphql.LocationIDFromContext(ctx)
}

func (r *QueryResolver) searchService() *SearchService {
	return GetSearchService()
}

// Extension dispatches to registered custom resolvers.
func (r *QueryResolver) Extension(ctx context.Context, name string, rawArgs *string) (*string, error) {
	m := make(map[string]interface{})
	if rawArgs != nil && *rawArgs != "" {
		_ = json.Unmarshal([]byte(*rawArgs), &m)
	}
	out, err := gqlregistry.Resolve(ctx, name, m)
	if err != nil {
		return nil, err
	}
	b, _ := json.Marshal(out)
	s := string(b)
	return &s, nil
}

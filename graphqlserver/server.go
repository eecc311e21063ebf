package graphqlserver

import (
	"context"

	gql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"gorm.io/gorm"

	"cavina.GO/graphql"
	gqlmodels "cavina.GO/graphql/models"
	"cavina.GO/graphql/resolvers"
)

// RootResolver is the root for graphql-go. It adapts schema argument structs
// onto the resolvers package.
type RootResolver struct {
	DB *gorm.DB
}

func (r *RootResolver) query() *resolvers.QueryResolver {
	return resolvers.NewQueryResolver(r.DB)
}

// ProductArgs matches the product query arguments.
type ProductArgs struct {
	Sku *string
	ID  *int32
}

func (r *RootResolver) Product(ctx context.Context, args ProductArgs) (*gqlmodels.Product, error) {
	return r.query().Product(ctx, args.Sku, args.ID)
}

// ProductsArgs matches the products query arguments (defaults in schema: pageSize=20, currentPage=1).
type ProductsArgs struct {
	PageSize    int32
	CurrentPage int32
}

func (r *RootResolver) Products(ctx context.Context, args ProductsArgs) (*gqlmodels.ProductSearchResult, error) {
	return r.query().Products(ctx, int(args.PageSize), int(args.CurrentPage))
}

func (r *RootResolver) Units(ctx context.Context) ([]*gqlmodels.Unit, error) {
	return r.query().Units(ctx)
}

func (r *RootResolver) Locations(ctx context.Context) ([]*gqlmodels.Location, error) {
	return r.query().Locations(ctx)
}

// StockArgs matches the stock query arguments.
type StockArgs struct {
	LocationID int32
	ProductID  int32
}

func (r *RootResolver) Stock(ctx context.Context, args StockArgs) (*gqlmodels.StockLevel, error) {
	return r.query().Stock(ctx, args.LocationID, args.ProductID)
}

// LocationStockArgs matches the locationStock query arguments.
type LocationStockArgs struct {
	LocationID int32
}

func (r *RootResolver) LocationStock(ctx context.Context, args LocationStockArgs) ([]*gqlmodels.StockLevel, error) {
	return r.query().LocationStock(ctx, args.LocationID)
}

// SearchProductsArgs matches the searchProducts query arguments.
type SearchProductsArgs struct {
	Query       string
	PageSize    int32
	CurrentPage int32
}

func (r *RootResolver) SearchProducts(ctx context.Context, args SearchProductsArgs) (*gqlmodels.ProductSearchResult, error) {
	return r.query().SearchProducts(ctx, args.Query, int(args.PageSize), int(args.CurrentPage))
}

// ExtensionArgs for _extension(name, args).
type ExtensionArgs struct {
	Name string
	Args *string
}

func (r *RootResolver) Extension(ctx context.Context, args ExtensionArgs) (*string, error) {
	return r.query().Extension(ctx, args.Name, args.Args)
}

// NewSchema parses the schema and returns a graphql-go Schema.
func NewSchema(db *gorm.DB) (*gql.Schema, error) {
	return gql.ParseSchema(graphql.Schema(), &RootResolver{DB: db}, gql.UseFieldResolvers())
}

// Handler returns an http.Handler for GraphQL (relay format).
func Handler(schema *gql.Schema) *relay.Handler {
	return &relay.Handler{Schema: schema}
}

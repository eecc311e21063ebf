package graphqltest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	graphqlAPI "cavina.GO/api/graphql"
	"cavina.GO/graphqlserver"
	catalogEntity "cavina.GO/model/entity/catalog"
	stockEntity "cavina.GO/model/entity/stock"
	catalogRepo "cavina.GO/model/repository/catalog"
)

func newGraphQLServer(t *testing.T) (*echo.Echo, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&catalogEntity.Unit{},
		&catalogEntity.UnitConversion{},
		&catalogEntity.ProductUnit{},
		&catalogEntity.ProductType{},
		&catalogEntity.Product{},
		&catalogEntity.CompositeComponent{},
		&stockEntity.Location{},
		&stockEntity.Stock{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	catalog := catalogRepo.NewCatalogRepository(db)
	catalog.InvalidateUnitCache()
	t.Cleanup(catalog.InvalidateUnitCache)

	one := decimal.NewFromInt(1)
	glassRatio := decimal.RequireFromString("0.2")
	simple := catalogEntity.ProductType{Name: "simple"}
	recipe := catalogEntity.ProductType{Name: "recipe", IsComposite: true}
	for _, row := range []interface{}{
		&catalogEntity.Unit{Code: "bottle", Description: "Bottle", RatioToBase: one},
		&catalogEntity.Unit{Code: "glass", Description: "Glass pour", RatioToBase: glassRatio, DiscreteStep: &glassRatio},
		&simple, &recipe,
	} {
		if err := db.Create(row).Error; err != nil {
			t.Fatalf("seed %T: %v", row, err)
		}
	}
	merlot := catalogEntity.Product{Name: "Merlot", SKU: "WINE-MERLOT", ProductTypeID: simple.ID, BaseUnitCode: "bottle", IsActive: true}
	if err := db.Create(&merlot).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	bar := stockEntity.Location{Name: "Bar", Kind: "bar", IsActive: true}
	if err := db.Create(&bar).Error; err != nil {
		t.Fatalf("seed location: %v", err)
	}
	if err := db.Create(&stockEntity.Stock{LocationID: bar.ID, ProductID: merlot.ID, Quantity: decimal.NewFromInt(10), UnitCode: "bottle"}).Error; err != nil {
		t.Fatalf("seed stock: %v", err)
	}

	schema, err := graphqlserver.NewSchema(db)
	if err != nil {
		t.Fatalf("parse schema: %v", err)
	}
	e := echo.New()
	graphqlAPI.RegisterGraphQLRoutesWithSchema(e, schema)
	return e, db
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func query(t *testing.T, e *echo.Echo, q string) json.RawMessage {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"query": q})
	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp gqlResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Errors) > 0 {
		t.Fatalf("graphql errors: %+v", resp.Errors)
	}
	return resp.Data
}

func TestGraphQL_ProductBySKU(t *testing.T) {
	e, _ := newGraphQLServer(t)

	data := query(t, e, `{ product(sku: "WINE-MERLOT") { name sku baseUnitCode } }`)
	var out struct {
		Product struct {
			Name         string `json:"name"`
			Sku          string `json:"sku"`
			BaseUnitCode string `json:"baseUnitCode"`
		} `json:"product"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Product.Name != "Merlot" || out.Product.BaseUnitCode != "bottle" {
		t.Errorf("product = %+v", out.Product)
	}
}

func TestGraphQL_Units(t *testing.T) {
	e, _ := newGraphQLServer(t)

	data := query(t, e, `{ units { code ratioToBase discreteStep } }`)
	var out struct {
		Units []struct {
			Code         string  `json:"code"`
			RatioToBase  string  `json:"ratioToBase"`
			DiscreteStep *string `json:"discreteStep"`
		} `json:"units"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out.Units) != 2 {
		t.Fatalf("units = %d, want 2", len(out.Units))
	}
	byCode := map[string]*string{}
	for _, u := range out.Units {
		byCode[u.Code] = u.DiscreteStep
	}
	if byCode["bottle"] != nil {
		t.Error("bottle should have no discrete step")
	}
	if step, ok := byCode["glass"]; !ok || step == nil || *step != "0.2" {
		t.Errorf("glass discrete step = %v, want 0.2", step)
	}
}

func TestGraphQL_StockLevel(t *testing.T) {
	e, _ := newGraphQLServer(t)

	data := query(t, e, `{ stock(locationId: 1, productId: 1) { quantity unitCode } }`)
	var out struct {
		Stock *struct {
			Quantity string `json:"quantity"`
			UnitCode string `json:"unitCode"`
		} `json:"stock"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Stock == nil {
		t.Fatal("stock is null")
	}
	if out.Stock.Quantity != "10" || out.Stock.UnitCode != "bottle" {
		t.Errorf("stock = %+v", out.Stock)
	}
}

func TestGraphQL_LocationStock(t *testing.T) {
	e, _ := newGraphQLServer(t)

	data := query(t, e, `{ locationStock(locationId: 1) { productId quantity } }`)
	var out struct {
		LocationStock []struct {
			ProductID int32  `json:"productId"`
			Quantity  string `json:"quantity"`
		} `json:"locationStock"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out.LocationStock) != 1 {
		t.Fatalf("rows = %d, want 1", len(out.LocationStock))
	}
}

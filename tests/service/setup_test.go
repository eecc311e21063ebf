package servicetest

import (
	"fmt"
	"io"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	catalogEntity "cavina.GO/model/entity/catalog"
	salesEntity "cavina.GO/model/entity/sales"
	stockEntity "cavina.GO/model/entity/stock"
	catalogRepo "cavina.GO/model/repository/catalog"
	salesRepo "cavina.GO/model/repository/sales"
	stockRepo "cavina.GO/model/repository/stock"
	salesService "cavina.GO/service/sales"
	stockService "cavina.GO/service/stock"
	"cavina.GO/service/units"
)

// fixture is the little bar every service test runs against: Merlot sold by
// the glass, a Sandwich recipe eating bread and butter.
type fixture struct {
	db       *gorm.DB
	catalog  *catalogRepo.CatalogRepository
	stocks   *stockRepo.StockRepository
	events   *salesRepo.SalesRepository
	ledger   *stockService.Ledger
	sales    *salesService.Service
	terminal *salesEntity.Terminal

	bar      stockEntity.Location
	merlot   catalogEntity.Product
	bread    catalogEntity.Product
	butter   catalogEntity.Product
	sandwich catalogEntity.Product
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func newFixture(t *testing.T) *fixture {
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
		&stockEntity.Adjustment{},
		&stockEntity.Transfer{},
		&stockEntity.InventorySnapshot{},
		&salesEntity.Terminal{},
		&salesEntity.SaleEvent{},
		&salesEntity.SaleLine{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	f := &fixture{db: db}

	glassRatio := dec(t, "0.2")
	tenth := dec(t, "0.1")
	one := decimal.NewFromInt(1)
	mustCreate(t, db,
		&catalogEntity.Unit{Code: "piece", Description: "Single item", RatioToBase: one},
		&catalogEntity.Unit{Code: "bottle", Description: "Bottle", RatioToBase: one},
		&catalogEntity.Unit{Code: "glass", Description: "Glass pour", RatioToBase: glassRatio, DiscreteStep: &glassRatio},
		&catalogEntity.Unit{Code: "loaf", Description: "Bread loaf", RatioToBase: one, DiscreteStep: &tenth},
		&catalogEntity.Unit{Code: "jar", Description: "Butter jar", RatioToBase: one, DiscreteStep: &tenth},
		&catalogEntity.UnitConversion{FromUnit: "glass", ToUnit: "bottle", Ratio: glassRatio},
	)

	simple := catalogEntity.ProductType{Name: "simple"}
	recipe := catalogEntity.ProductType{Name: "recipe", IsComposite: true}
	mustCreate(t, db, &simple, &recipe)

	f.merlot = catalogEntity.Product{Name: "Merlot", SKU: "WINE-MERLOT", ProductTypeID: simple.ID, BaseUnitCode: "bottle", IsActive: true}
	f.bread = catalogEntity.Product{Name: "Bread", SKU: "BREAD-SD", ProductTypeID: simple.ID, BaseUnitCode: "loaf", IsActive: true}
	f.butter = catalogEntity.Product{Name: "Butter", SKU: "DAIRY-BUTTER", ProductTypeID: simple.ID, BaseUnitCode: "jar", IsActive: true}
	f.sandwich = catalogEntity.Product{Name: "Sandwich", SKU: "FOOD-SANDWICH", ProductTypeID: recipe.ID, BaseUnitCode: "piece", IsActive: true}
	mustCreate(t, db, &f.merlot, &f.bread, &f.butter, &f.sandwich)

	mustCreate(t, db,
		&catalogEntity.CompositeComponent{ParentProductID: f.sandwich.ID, ComponentProductID: f.bread.ID, Quantity: tenth, UnitCode: "loaf"},
		&catalogEntity.CompositeComponent{ParentProductID: f.sandwich.ID, ComponentProductID: f.butter.ID, Quantity: tenth, UnitCode: "jar"},
	)

	f.bar = stockEntity.Location{Name: "Bar", Kind: "bar", IsActive: true}
	mustCreate(t, db, &f.bar)
	mustCreate(t, db,
		&stockEntity.Stock{LocationID: f.bar.ID, ProductID: f.merlot.ID, Quantity: decimal.NewFromInt(10), UnitCode: "bottle"},
		&stockEntity.Stock{LocationID: f.bar.ID, ProductID: f.bread.ID, Quantity: decimal.NewFromInt(2), UnitCode: "loaf"},
		&stockEntity.Stock{LocationID: f.bar.ID, ProductID: f.butter.ID, Quantity: decimal.NewFromInt(1), UnitCode: "jar"},
	)

	f.terminal = &salesEntity.Terminal{TerminalID: "bar-01", LocationID: f.bar.ID, Secret: "test-secret", Status: "active"}
	mustCreate(t, db, f.terminal)

	log := quietLogger()
	f.catalog = catalogRepo.NewCatalogRepository(db)
	f.catalog.InvalidateUnitCache()
	t.Cleanup(f.catalog.InvalidateUnitCache)
	f.stocks = stockRepo.NewStockRepository(db)
	f.events = salesRepo.NewSalesRepository(db)
	converter := units.NewConverterForSource("global", f.catalog)
	f.ledger = stockService.NewLedger(f.stocks, f.catalog, converter, log)
	expander := salesService.NewExpander(f.catalog)
	f.sales = salesService.NewService(db, f.events, expander, f.ledger, nil, log)
	return f
}

func mustCreate(t *testing.T, db *gorm.DB, rows ...interface{}) {
	t.Helper()
	for _, row := range rows {
		if err := db.Create(row).Error; err != nil {
			t.Fatalf("create %T: %v", row, err)
		}
	}
}

// event builds a raw single-line sale payload the way a terminal would send it.
func event(eventID string, productID uint, qty, unitCode string) []byte {
	return []byte(fmt.Sprintf(
		`{"event_id":%q,"lines":[{"product_id":%d,"quantity":%q,"unit_code":%q,"currency":"USD","price":"6.50"}]}`,
		eventID, productID, qty, unitCode))
}

func (f *fixture) stockOf(t *testing.T, productID uint) decimal.Decimal {
	t.Helper()
	row, err := f.stocks.Get(f.bar.ID, productID)
	if err != nil {
		t.Fatalf("stock lookup: %v", err)
	}
	if row == nil {
		t.Fatalf("no stock row for product %d", productID)
	}
	return row.Quantity
}

func decodeEvent(t *testing.T, raw []byte) *salesService.EventInput {
	t.Helper()
	input, err := salesService.DecodeEvent(raw)
	if err != nil {
		t.Fatalf("decode event: %v", err)
	}
	return input
}

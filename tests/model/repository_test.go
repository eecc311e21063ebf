package modeltest

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"cavina.GO/core/apperr"
	entity "cavina.GO/model/entity"
	catalogEntity "cavina.GO/model/entity/catalog"
	salesEntity "cavina.GO/model/entity/sales"
	stockEntity "cavina.GO/model/entity/stock"
	catalogRepo "cavina.GO/model/repository/catalog"
	salesRepo "cavina.GO/model/repository/sales"
	stockRepo "cavina.GO/model/repository/stock"
)

func testDB(t *testing.T) *gorm.DB {
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
		&catalogEntity.PriceList{},
		&stockEntity.Location{},
		&stockEntity.Stock{},
		&salesEntity.Terminal{},
		&salesEntity.SaleEvent{},
		&salesEntity.SaleLine{},
		&entity.OauthToken{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newCatalogRepo(t *testing.T, db *gorm.DB) *catalogRepo.CatalogRepository {
	t.Helper()
	repo := catalogRepo.NewCatalogRepository(db)
	repo.InvalidateUnitCache()
	t.Cleanup(repo.InvalidateUnitCache)
	return repo
}

func seedProduct(t *testing.T, db *gorm.DB, sku, baseUnit string, composite bool) *catalogEntity.Product {
	t.Helper()
	typeName := "simple-" + sku
	pt := catalogEntity.ProductType{Name: typeName, IsComposite: composite}
	if err := db.Create(&pt).Error; err != nil {
		t.Fatalf("create type: %v", err)
	}
	p := catalogEntity.Product{Name: sku, SKU: sku, ProductTypeID: pt.ID, BaseUnitCode: baseUnit, IsActive: true}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	p.ProductType = &pt
	return &p
}

func TestCatalogRepository_FindProduct(t *testing.T) {
	db := testDB(t)
	repo := newCatalogRepo(t, db)
	p := seedProduct(t, db, "WINE-1", "bottle", false)

	found, err := repo.FindProductByID(p.ID)
	if err != nil {
		t.Fatalf("FindProductByID: %v", err)
	}
	if found.SKU != "WINE-1" {
		t.Errorf("SKU = %q, want WINE-1", found.SKU)
	}
	if found.IsComposite() {
		t.Error("simple product reported composite")
	}

	bySKU, err := repo.FindProductBySKU("WINE-1")
	if err != nil {
		t.Fatalf("FindProductBySKU: %v", err)
	}
	if bySKU.ID != p.ID {
		t.Errorf("ID = %d, want %d", bySKU.ID, p.ID)
	}

	if _, err := repo.FindProductByID(9999); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("missing product error = %v, want not-found", err)
	}
}

func TestCatalogRepository_ConversionRatio(t *testing.T) {
	db := testDB(t)
	repo := newCatalogRepo(t, db)
	ratio := decimal.RequireFromString("0.2")
	if err := db.Create(&catalogEntity.UnitConversion{FromUnit: "glass", ToUnit: "bottle", Ratio: ratio}).Error; err != nil {
		t.Fatalf("create conversion: %v", err)
	}

	got, ok, err := repo.ConversionRatio("glass", "bottle")
	if err != nil || !ok {
		t.Fatalf("ConversionRatio: ok=%v err=%v", ok, err)
	}
	if !got.Equal(ratio) {
		t.Errorf("ratio = %s, want 0.2", got)
	}

	_, ok, err = repo.ConversionRatio("glass", "keg")
	if err != nil {
		t.Fatalf("ConversionRatio missing pair: %v", err)
	}
	if ok {
		t.Error("found ratio for unknown pair")
	}
}

func TestCatalogRepository_CreateComponent_RejectsCycle(t *testing.T) {
	db := testDB(t)
	repo := newCatalogRepo(t, db)
	a := seedProduct(t, db, "COMP-A", "piece", true)
	b := seedProduct(t, db, "COMP-B", "piece", true)

	one := decimal.NewFromInt(1)
	err := repo.CreateComponent(&catalogEntity.CompositeComponent{
		ParentProductID: a.ID, ComponentProductID: b.ID, Quantity: one, UnitCode: "piece",
	})
	if err != nil {
		t.Fatalf("CreateComponent a->b: %v", err)
	}

	err = repo.CreateComponent(&catalogEntity.CompositeComponent{
		ParentProductID: b.ID, ComponentProductID: a.ID, Quantity: one, UnitCode: "piece",
	})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("cycle error = %v, want validation", err)
	}

	err = repo.CreateComponent(&catalogEntity.CompositeComponent{
		ParentProductID: a.ID, ComponentProductID: a.ID, Quantity: one, UnitCode: "piece",
	})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("self-cycle error = %v, want validation", err)
	}
}

func TestCatalogRepository_DeleteProduct_RefusedWhileReferenced(t *testing.T) {
	db := testDB(t)
	repo := newCatalogRepo(t, db)
	parent := seedProduct(t, db, "DEL-PARENT", "piece", true)
	child := seedProduct(t, db, "DEL-CHILD", "piece", false)

	err := repo.CreateComponent(&catalogEntity.CompositeComponent{
		ParentProductID: parent.ID, ComponentProductID: child.ID,
		Quantity: decimal.NewFromInt(1), UnitCode: "piece",
	})
	if err != nil {
		t.Fatalf("CreateComponent: %v", err)
	}

	if err := repo.DeleteProduct(child.ID); !apperr.IsKind(err, apperr.KindConflict) {
		t.Errorf("delete referenced error = %v, want conflict", err)
	}
	if err := repo.DeleteProduct(parent.ID); err != nil {
		t.Errorf("delete parent: %v", err)
	}
}

func TestStockRepository_FirstOrCreateLocked(t *testing.T) {
	db := testDB(t)
	repo := stockRepo.NewStockRepository(db)

	row, err := repo.FirstOrCreateLocked(db, 1, 2, "bottle")
	if err != nil {
		t.Fatalf("FirstOrCreateLocked: %v", err)
	}
	if !row.Quantity.IsZero() {
		t.Errorf("new row quantity = %s, want 0", row.Quantity)
	}

	row.Quantity = decimal.NewFromInt(7)
	if err := repo.Save(db, row); err != nil {
		t.Fatalf("Save: %v", err)
	}

	again, err := repo.FirstOrCreateLocked(db, 1, 2, "bottle")
	if err != nil {
		t.Fatalf("second FirstOrCreateLocked: %v", err)
	}
	if !again.Quantity.Equal(decimal.NewFromInt(7)) {
		t.Errorf("quantity = %s, want 7", again.Quantity)
	}

	got, err := repo.Get(1, 99)
	if err != nil {
		t.Fatalf("Get untracked: %v", err)
	}
	if got != nil {
		t.Error("Get returned row for untracked product")
	}
}

func TestSalesRepository_EventLifecycle(t *testing.T) {
	db := testDB(t)
	repo := salesRepo.NewSalesRepository(db)

	missing, err := repo.FindEventByEventID(db, "never-seen")
	if err != nil {
		t.Fatalf("FindEventByEventID: %v", err)
	}
	if missing != nil {
		t.Fatal("found event that was never ingested")
	}

	ev := &salesEntity.SaleEvent{EventID: "evt-1", TerminalID: 1, LocationID: 1, Status: salesEntity.StatusPending}
	if err := repo.CreateEvent(db, ev); err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	lines := []salesEntity.SaleLine{
		{SaleEventID: ev.ID, ProductID: 1, Quantity: decimal.NewFromInt(2), UnitCode: "glass", Currency: "USD"},
	}
	if err := repo.CreateLines(db, lines); err != nil {
		t.Fatalf("CreateLines: %v", err)
	}

	got, err := repo.LinesOf(db, ev.ID)
	if err != nil {
		t.Fatalf("LinesOf: %v", err)
	}
	if len(got) != 1 || !got[0].Quantity.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("lines = %+v, want one line of 2", got)
	}
}

func TestSalesRepository_CreateEvent_DuplicateIsIdempotencyError(t *testing.T) {
	db := testDB(t)
	repo := salesRepo.NewSalesRepository(db)

	if err := repo.CreateEvent(db, &salesEntity.SaleEvent{EventID: "evt-race", TerminalID: 1, LocationID: 1, Status: salesEntity.StatusPending}); err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	// A second writer that got past the existence check still loses with the
	// right error kind, not a raw driver error.
	err := repo.CreateEvent(db, &salesEntity.SaleEvent{EventID: "evt-race", TerminalID: 1, LocationID: 1, Status: salesEntity.StatusPending})
	if !apperr.IsKind(err, apperr.KindIdempotency) {
		t.Fatalf("duplicate insert error = %v, want idempotency violation", err)
	}
}

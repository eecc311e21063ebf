package stock

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	stockEntity "cavina.GO/model/entity/stock"
)

// StockRepository owns the stock, adjustment, transfer and snapshot tables.
// All quantity mutations must go through the ledger, which uses the locked
// accessors here.
type StockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) *StockRepository {
	return &StockRepository{db: db}
}

// FirstOrCreateLocked returns the stock row for (location, product), holding
// an exclusive row lock for the rest of the transaction. Missing rows are
// created with zero quantity in the given unit.
func (r *StockRepository) FirstOrCreateLocked(tx *gorm.DB, locationID, productID uint, unitCode string) (*stockEntity.Stock, error) {
	row := stockEntity.Stock{
		LocationID: locationID,
		ProductID:  productID,
		UnitCode:   unitCode,
	}
	res := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("location_id = ? AND product_id = ?", locationID, productID).
		FirstOrCreate(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	return &row, nil
}

// Exists reports whether a stock row is tracked for (location, product).
func (r *StockRepository) Exists(tx *gorm.DB, locationID, productID uint) (bool, error) {
	var count int64
	err := tx.Model(&stockEntity.Stock{}).
		Where("location_id = ? AND product_id = ?", locationID, productID).
		Count(&count).Error
	return count > 0, err
}

// Save persists an updated stock row.
func (r *StockRepository) Save(tx *gorm.DB, row *stockEntity.Stock) error {
	return tx.Save(row).Error
}

// Get returns the stock row for (location, product), or nil when untracked.
func (r *StockRepository) Get(locationID, productID uint) (*stockEntity.Stock, error) {
	var row stockEntity.Stock
	err := r.db.Where("location_id = ? AND product_id = ?", locationID, productID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ByLocation returns all stock rows at a location ordered by product.
func (r *StockRepository) ByLocation(locationID uint) ([]stockEntity.Stock, error) {
	var rows []stockEntity.Stock
	err := r.db.Where("location_id = ?", locationID).Order("product_id").Find(&rows).Error
	return rows, err
}

// FindLocationByID returns a location or nil when absent.
func (r *StockRepository) FindLocationByID(id uint) (*stockEntity.Location, error) {
	var loc stockEntity.Location
	err := r.db.First(&loc, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

// FindLocationByName returns a location by exact name, or nil when absent.
func (r *StockRepository) FindLocationByName(name string) (*stockEntity.Location, error) {
	var loc stockEntity.Location
	err := r.db.Where("name = ?", name).First(&loc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

// ActiveLocations returns all active locations.
func (r *StockRepository) ActiveLocations() ([]stockEntity.Location, error) {
	var locs []stockEntity.Location
	err := r.db.Where("is_active = ?", true).Order("id").Find(&locs).Error
	return locs, err
}

// CreateAdjustment writes the audit row for a manual correction.
func (r *StockRepository) CreateAdjustment(tx *gorm.DB, adj *stockEntity.Adjustment) error {
	return tx.Create(adj).Error
}

// CreateTransfer writes the audit row for a location-to-location move.
func (r *StockRepository) CreateTransfer(tx *gorm.DB, tr *stockEntity.Transfer) error {
	return tx.Create(tr).Error
}

// CreateSnapshot persists an inventory snapshot.
func (r *StockRepository) CreateSnapshot(snap *stockEntity.InventorySnapshot) error {
	return r.db.Create(snap).Error
}

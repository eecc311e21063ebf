package stock

import (
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"cavina.GO/core/apperr"
	stockEntity "cavina.GO/model/entity/stock"
	catalogRepo "cavina.GO/model/repository/catalog"
	stockRepo "cavina.GO/model/repository/stock"
	"cavina.GO/service/units"
)

// Ledger is the sole writer gate for stock quantities. Every mutation —
// sale, restock, manual correction, transfer — funnels through Adjust,
// which holds the row lock for the read-modify-write and enforces the
// non-negativity invariant before anything is persisted.
type Ledger struct {
	stocks    *stockRepo.StockRepository
	catalog   *catalogRepo.CatalogRepository
	converter *units.Converter
	log       *logrus.Logger
}

func NewLedger(stocks *stockRepo.StockRepository, catalog *catalogRepo.CatalogRepository, converter *units.Converter, log *logrus.Logger) *Ledger {
	return &Ledger{stocks: stocks, catalog: catalog, converter: converter, log: log}
}

// Adjust applies a delta (negative for sales, positive for restocks — one
// symmetric path) to the stock of (location, product), converting the delta
// to the product's base unit first. The updated row is returned; a delta
// that would drive the quantity negative fails without mutating.
func (l *Ledger) Adjust(tx *gorm.DB, locationID, productID uint, delta decimal.Decimal, unitCode string) (*stockEntity.Stock, error) {
	converter := l.converter.WithTx(tx)
	product, err := l.catalog.WithTx(tx).FindProductByID(productID)
	if err != nil {
		return nil, err
	}
	deltaBase, err := converter.ToBase(productID, unitCode, delta, product.BaseUnitCode)
	if err != nil {
		return nil, err
	}
	row, err := l.stocks.FirstOrCreateLocked(tx, locationID, productID, product.BaseUnitCode)
	if err != nil {
		return nil, err
	}
	newQty := row.Quantity.Add(deltaBase)
	if newQty.IsNegative() {
		return nil, apperr.InsufficientStock(
			"insufficient stock for product %d at location %d: have %s, delta %s %s",
			productID, locationID, row.Quantity.String(), delta.String(), unitCode)
	}
	normalized, err := converter.Normalize(product.BaseUnitCode, newQty)
	if err != nil {
		return nil, err
	}
	row.Quantity = normalized
	if err := l.stocks.Save(tx, row); err != nil {
		return nil, err
	}
	return row, nil
}

// AdjustIfTracked applies a delta only when a stock row already exists for
// (location, product). Used for composite self-stock: a composite that is
// not stock-tracked simply expands into its components.
func (l *Ledger) AdjustIfTracked(tx *gorm.DB, locationID, productID uint, delta decimal.Decimal, unitCode string) (bool, error) {
	tracked, err := l.stocks.Exists(tx, locationID, productID)
	if err != nil {
		return false, err
	}
	if !tracked {
		return false, nil
	}
	if _, err := l.Adjust(tx, locationID, productID, delta, unitCode); err != nil {
		return false, err
	}
	return true, nil
}

// ManualAdjust is the administrative correction path: the same Adjust
// invariant plus an audit row, in one transaction.
func (l *Ledger) ManualAdjust(db *gorm.DB, locationID, productID uint, delta decimal.Decimal, unitCode, reason string) (*stockEntity.Stock, error) {
	var row *stockEntity.Stock
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		row, err = l.Adjust(tx, locationID, productID, delta, unitCode)
		if err != nil {
			return err
		}
		return l.stocks.CreateAdjustment(tx, &stockEntity.Adjustment{
			LocationID: locationID,
			ProductID:  productID,
			Delta:      delta,
			UnitCode:   unitCode,
			Reason:     reason,
		})
	})
	if err != nil {
		return nil, err
	}
	l.log.WithFields(logrus.Fields{
		"location_id": locationID,
		"product_id":  productID,
		"delta":       delta.String(),
		"unit":        unitCode,
	}).Info("stock_adjusted")
	return row, nil
}

// Transfer moves quantity between two locations: out at the source, in at
// the destination, all-or-nothing. The source leg runs first so an
// insufficient source balance aborts before anything moves.
func (l *Ledger) Transfer(db *gorm.DB, fromLocationID, toLocationID, productID uint, qty decimal.Decimal, unitCode string) error {
	if !qty.IsPositive() {
		return apperr.Validation("transfer quantity must be positive, got %s", qty.String())
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := l.Adjust(tx, fromLocationID, productID, qty.Neg(), unitCode); err != nil {
			return err
		}
		if _, err := l.Adjust(tx, toLocationID, productID, qty, unitCode); err != nil {
			return err
		}
		return l.stocks.CreateTransfer(tx, &stockEntity.Transfer{
			FromLocationID: fromLocationID,
			ToLocationID:   toLocationID,
			ProductID:      productID,
			Quantity:       qty,
			UnitCode:       unitCode,
		})
	})
	if err != nil {
		return err
	}
	l.log.WithFields(logrus.Fields{
		"from_location": fromLocationID,
		"to_location":   toLocationID,
		"product_id":    productID,
		"quantity":      qty.String(),
	}).Info("stock_transferred")
	return nil
}

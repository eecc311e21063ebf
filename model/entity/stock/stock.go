package stock

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Location represents the location table: a physical or logical
// stock-holding site.
type Location struct {
	ID       uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	Name     string `gorm:"column:name;type:varchar(128);not null;uniqueIndex" json:"name"`
	Kind     string `gorm:"column:kind;type:varchar(64);not null" json:"kind"`
	IsActive bool   `gorm:"column:is_active;not null;default:1" json:"is_active"`
}

func (Location) TableName() string {
	return "location"
}

// Stock represents the stock table: the authoritative quantity per
// (location, product), denominated in the product's base unit. Quantity is
// kept non-negative by the ledger, not only the DB check.
type Stock struct {
	ID         uint            `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	LocationID uint            `gorm:"column:location_id;not null;uniqueIndex:uq_stock_location_product" json:"location_id"`
	ProductID  uint            `gorm:"column:product_id;not null;uniqueIndex:uq_stock_location_product" json:"product_id"`
	Quantity   decimal.Decimal `gorm:"column:quantity;type:decimal(18,6);not null;default:0" json:"quantity"`
	UnitCode   string          `gorm:"column:unit_code;type:varchar(32);not null" json:"unit_code"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Stock) TableName() string {
	return "stock"
}

// Adjustment is the audit row written alongside every manual correction.
type Adjustment struct {
	ID         uint            `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	LocationID uint            `gorm:"column:location_id;not null;index" json:"location_id"`
	ProductID  uint            `gorm:"column:product_id;not null;index" json:"product_id"`
	Delta      decimal.Decimal `gorm:"column:delta;type:decimal(18,6);not null" json:"delta"`
	UnitCode   string          `gorm:"column:unit_code;type:varchar(32);not null" json:"unit_code"`
	Reason     string          `gorm:"column:reason;type:varchar(255)" json:"reason"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Adjustment) TableName() string {
	return "adjustment"
}

// Transfer records a stock movement between two locations. Both legs go
// through the ledger in one transaction.
type Transfer struct {
	ID             uint            `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	FromLocationID uint            `gorm:"column:from_location_id;not null;index" json:"from_location_id"`
	ToLocationID   uint            `gorm:"column:to_location_id;not null;index" json:"to_location_id"`
	ProductID      uint            `gorm:"column:product_id;not null;index" json:"product_id"`
	Quantity       decimal.Decimal `gorm:"column:quantity;type:decimal(18,6);not null" json:"quantity"`
	UnitCode       string          `gorm:"column:unit_code;type:varchar(32);not null" json:"unit_code"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Transfer) TableName() string {
	return "transfer"
}

// InventorySnapshot is a frozen view of a location's stock, written by the
// nightly cron job and the snapshot command.
type InventorySnapshot struct {
	ID            uint           `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	LocationID    uint           `gorm:"column:location_id;not null;index" json:"location_id"`
	CorrelationID string         `gorm:"column:correlation_id;type:varchar(64);index" json:"correlation_id"`
	TakenAt       time.Time      `gorm:"column:taken_at;autoCreateTime" json:"taken_at"`
	Data          datatypes.JSON `gorm:"column:data" json:"data"`
}

func (InventorySnapshot) TableName() string {
	return "inventory_snapshot"
}

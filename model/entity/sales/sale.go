package sales

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Terminal represents the terminal table: an authenticated point-of-sale
// identity attached to a location. Secret is the HMAC key material.
type Terminal struct {
	ID         uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	TerminalID string    `gorm:"column:terminal_id;type:varchar(64);not null;uniqueIndex" json:"terminal_id"`
	LocationID uint      `gorm:"column:location_id;not null;index" json:"location_id"`
	Secret     string    `gorm:"column:secret;type:varchar(255);not null" json:"-"`
	Status     string    `gorm:"column:status;type:varchar(32);not null;default:'active'" json:"status"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Terminal) TableName() string {
	return "terminal"
}

// SaleEvent statuses. pending -> confirmed is the only transition.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
)

// SaleEvent represents the sale_event table. EventID is the caller-supplied
// idempotency key; Payload keeps the original request lines verbatim for
// audit, independent of later expansion or unit conversion.
type SaleEvent struct {
	ID          uint           `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	EventID     string         `gorm:"column:event_id;type:varchar(128);not null;uniqueIndex" json:"event_id"`
	TerminalID  uint           `gorm:"column:terminal_id;not null;index" json:"terminal_id"`
	LocationID  uint           `gorm:"column:location_id;not null;index" json:"location_id"`
	Payload     datatypes.JSON `gorm:"column:payload" json:"payload"`
	Status      string         `gorm:"column:status;type:varchar(16);not null;default:'pending'" json:"status"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	ConfirmedAt *time.Time     `gorm:"column:confirmed_at" json:"confirmed_at,omitempty"`
}

func (SaleEvent) TableName() string {
	return "sale_event"
}

// SaleLine represents the sale_line table: one normalized row per sold line,
// created together with its SaleEvent.
type SaleLine struct {
	ID          uint            `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	SaleEventID uint            `gorm:"column:sale_event_id;not null;index" json:"sale_event_id"`
	ProductID   uint            `gorm:"column:product_id;not null;index" json:"product_id"`
	Quantity    decimal.Decimal `gorm:"column:quantity;type:decimal(18,6);not null" json:"quantity"`
	UnitCode    string          `gorm:"column:unit_code;type:varchar(32);not null" json:"unit_code"`
	Currency    string          `gorm:"column:currency;type:varchar(3);not null;default:'USD'" json:"currency"`
	Price       decimal.Decimal `gorm:"column:price;type:decimal(18,2);not null;default:0" json:"price"`
}

func (SaleLine) TableName() string {
	return "sale_line"
}

package catalog

import "github.com/shopspring/decimal"

// PriceList represents the price_list table: price per location, product and
// selling unit.
type PriceList struct {
	ID         uint            `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	LocationID uint            `gorm:"column:location_id;not null;uniqueIndex:uq_price_loc_prod_unit" json:"location_id"`
	ProductID  uint            `gorm:"column:product_id;not null;uniqueIndex:uq_price_loc_prod_unit" json:"product_id"`
	UnitCode   string          `gorm:"column:unit_code;type:varchar(32);not null;uniqueIndex:uq_price_loc_prod_unit" json:"unit_code"`
	Currency   string          `gorm:"column:currency;type:varchar(3);not null;default:'USD'" json:"currency"`
	Amount     decimal.Decimal `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
}

func (PriceList) TableName() string {
	return "price_list"
}

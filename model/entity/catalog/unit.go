package catalog

import "github.com/shopspring/decimal"

// Unit represents the unit table. RatioToBase is the multiplier to the
// implicit global base unit; DiscreteStep, when set, is the smallest
// increment quantities in this unit may take.
type Unit struct {
	ID           uint             `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	Code         string           `gorm:"column:code;type:varchar(32);not null;uniqueIndex" json:"code"`
	Description  string           `gorm:"column:description;type:varchar(255);not null" json:"description"`
	RatioToBase  decimal.Decimal  `gorm:"column:ratio_to_base;type:decimal(18,6);not null;default:1" json:"ratio_to_base"`
	DiscreteStep *decimal.Decimal `gorm:"column:discrete_step;type:decimal(10,6)" json:"discrete_step,omitempty"`
}

func (Unit) TableName() string {
	return "unit"
}

// UnitConversion represents the unit_conversion table: explicit pairwise
// ratios, unique per (from, to). Consulted before unit ratios when the
// global conversion source is active.
type UnitConversion struct {
	ID       uint            `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	FromUnit string          `gorm:"column:from_unit;type:varchar(32);not null;uniqueIndex:uq_unit_conversion_pair" json:"from_unit"`
	ToUnit   string          `gorm:"column:to_unit;type:varchar(32);not null;uniqueIndex:uq_unit_conversion_pair" json:"to_unit"`
	Ratio    decimal.Decimal `gorm:"column:ratio;type:decimal(18,6);not null" json:"ratio"`
}

func (UnitConversion) TableName() string {
	return "unit_conversion"
}

// ProductUnit represents the product_unit table: product-scoped conversion
// ratios that supersede the global table when the product conversion source
// is active.
type ProductUnit struct {
	ID           uint             `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	ProductID    uint             `gorm:"column:product_id;not null;uniqueIndex:uq_product_unit" json:"product_id"`
	UnitCode     string           `gorm:"column:unit_code;type:varchar(32);not null;uniqueIndex:uq_product_unit" json:"unit_code"`
	RatioToBase  decimal.Decimal  `gorm:"column:ratio_to_base;type:decimal(18,6);not null" json:"ratio_to_base"`
	DiscreteStep *decimal.Decimal `gorm:"column:discrete_step;type:decimal(10,6)" json:"discrete_step,omitempty"`
}

func (ProductUnit) TableName() string {
	return "product_unit"
}

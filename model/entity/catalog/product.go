package catalog

import "github.com/shopspring/decimal"

// ProductType represents the product_type table.
type ProductType struct {
	ID          uint    `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	Name        string  `gorm:"column:name;type:varchar(100);not null;uniqueIndex" json:"name"`
	Description *string `gorm:"column:description;type:varchar(255)" json:"description,omitempty"`
	IsComposite bool    `gorm:"column:is_composite;not null;default:0" json:"is_composite"`
}

func (ProductType) TableName() string {
	return "product_type"
}

// Product represents the product table.
type Product struct {
	ID              uint             `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	Name            string           `gorm:"column:name;type:varchar(255);not null" json:"name"`
	SKU             string           `gorm:"column:sku;type:varchar(64);not null;uniqueIndex" json:"sku"`
	PrimaryCategory string           `gorm:"column:primary_category;type:varchar(64)" json:"primary_category"`
	ProductTypeID   uint             `gorm:"column:product_type_id;not null;index" json:"product_type_id"`
	BaseUnitCode    string           `gorm:"column:base_unit_code;type:varchar(32);not null" json:"base_unit_code"`
	UnitCost        *decimal.Decimal `gorm:"column:unit_cost;type:decimal(18,2)" json:"unit_cost,omitempty"`
	TaxFlags        *string          `gorm:"column:tax_flags;type:varchar(128)" json:"tax_flags,omitempty"`
	IsActive        bool             `gorm:"column:is_active;not null;default:1" json:"is_active"`

	ProductType *ProductType `gorm:"foreignKey:ProductTypeID" json:"product_type,omitempty"`
}

func (Product) TableName() string {
	return "product"
}

// IsComposite reads through the owned product type. A stored copy of this
// flag on product drifted out of sync once and was removed by migration;
// the relation stays the single source of truth.
func (p *Product) IsComposite() bool {
	return p.ProductType != nil && p.ProductType.IsComposite
}

// ProductCategory represents secondary category tags for a product.
type ProductCategory struct {
	ID        uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	ProductID uint   `gorm:"column:product_id;not null;uniqueIndex:uq_product_category" json:"product_id"`
	Category  string `gorm:"column:category;type:varchar(64);not null;uniqueIndex:uq_product_category" json:"category"`
}

func (ProductCategory) TableName() string {
	return "product_category"
}

// CompositeComponent represents the composite_component table: the
// bill-of-materials of a composite product. Quantity is the amount of the
// component consumed per one unit of the parent, in UnitCode.
type CompositeComponent struct {
	ID                  uint            `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	ParentProductID     uint            `gorm:"column:parent_product_id;not null;uniqueIndex:uq_component_pair" json:"parent_product_id"`
	ComponentProductID  uint            `gorm:"column:component_product_id;not null;uniqueIndex:uq_component_pair" json:"component_product_id"`
	Quantity            decimal.Decimal `gorm:"column:quantity;type:decimal(18,6);not null" json:"quantity"`
	UnitCode            string          `gorm:"column:unit_code;type:varchar(32);not null" json:"unit_code"`
	SubstitutionAllowed bool            `gorm:"column:substitution_allowed;not null;default:0" json:"substitution_allowed"`
	Rounding            *string         `gorm:"column:rounding;type:varchar(32)" json:"rounding,omitempty"`
}

func (CompositeComponent) TableName() string {
	return "composite_component"
}

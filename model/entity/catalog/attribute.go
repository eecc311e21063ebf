package catalog

// ProductAttribute represents the product_attribute table: typed attribute
// definitions bound to a product type.
type ProductAttribute struct {
	ID            uint    `gorm:"column:id;primaryKey;autoIncrement" json:"id,omitempty"`
	ProductTypeID uint    `gorm:"column:product_type_id;not null;uniqueIndex:uq_productattr_type_code" json:"product_type_id"`
	Name          string  `gorm:"column:name;type:varchar(128);not null" json:"name"`
	Code          string  `gorm:"column:code;type:varchar(64);not null;uniqueIndex:uq_productattr_type_code" json:"code"`
	DataType      string  `gorm:"column:data_type;type:varchar(16);not null" json:"data_type"`
	UnitCode      *string `gorm:"column:unit_code;type:varchar(32)" json:"unit_code,omitempty"`
	IsRequired    bool    `gorm:"column:is_required;not null;default:0" json:"is_required"`
	SortOrder     int     `gorm:"column:sort_order;not null;default:1" json:"sort_order"`
}

func (ProductAttribute) TableName() string {
	return "product_attribute"
}

// Valid data types for ProductAttribute.DataType.
const (
	AttrTypeNumber  = "number"
	AttrTypeBoolean = "boolean"
	AttrTypeString  = "string"
)

// ProductAttributeValue represents the product_attribute_value table: one
// typed value per (product, attribute), stored in the column matching the
// attribute's data type.
type ProductAttributeValue struct {
	ProductID          uint     `gorm:"column:product_id;primaryKey" json:"product_id"`
	ProductAttributeID uint     `gorm:"column:product_attribute_id;primaryKey" json:"product_attribute_id"`
	ValueNumber        *float64 `gorm:"column:value_number;type:decimal(16,6)" json:"value_number,omitempty"`
	ValueBoolean       *bool    `gorm:"column:value_boolean" json:"value_boolean,omitempty"`
	ValueString        *string  `gorm:"column:value_string;type:varchar(3000)" json:"value_string,omitempty"`
}

func (ProductAttributeValue) TableName() string {
	return "product_attribute_value"
}

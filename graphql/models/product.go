package models

// Product is the GraphQL view of a catalog product.
type Product struct {
	ID              int32        `json:"id"`
	Name            string       `json:"name"`
	SKU             string       `json:"sku"`
	PrimaryCategory *string      `json:"primary_category"`
	BaseUnitCode    string       `json:"base_unit_code"`
	IsComposite     bool         `json:"is_composite"`
	IsActive        bool         `json:"is_active"`
	Components      *[]*Component `json:"components"`
}

// Component is one recipe line of a composite product.
type Component struct {
	ProductID           int32  `json:"product_id"`
	Quantity            string `json:"quantity"`
	UnitCode            string `json:"unit_code"`
	SubstitutionAllowed bool   `json:"substitution_allowed"`
}

// Unit is the GraphQL view of a measurement unit.
type Unit struct {
	Code         string  `json:"code"`
	Description  *string `json:"description"`
	RatioToBase  string  `json:"ratio_to_base"`
	DiscreteStep *string `json:"discrete_step"`
}

// ProductSearchResult is a paginated product listing.
type ProductSearchResult struct {
	Items      []*Product `json:"items"`
	TotalCount int32      `json:"total_count"`
	PageInfo   *PageInfo  `json:"page_info"`
}

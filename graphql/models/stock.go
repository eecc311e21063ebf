package models

// Location is the GraphQL view of a stock location.
type Location struct {
	ID       int32  `json:"id"`
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	IsActive bool   `json:"is_active"`
}

// StockLevel is the tracked quantity of one product at one location.
type StockLevel struct {
	LocationID int32  `json:"location_id"`
	ProductID  int32  `json:"product_id"`
	Quantity   string `json:"quantity"`
	UnitCode   string `json:"unit_code"`
}

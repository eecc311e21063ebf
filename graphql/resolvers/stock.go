package resolvers

import (
	"context"

	stockEntity "cavina.GO/model/entity/stock"

	gqlmodels "cavina.GO/graphql/models"
)

// Locations resolves all active stock locations.
func (r *QueryResolver) Locations(ctx context.Context) ([]*gqlmodels.Location, error) {
	locations, err := r.stocks.ActiveLocations()
	if err != nil {
		return nil, err
	}
	out := make([]*gqlmodels.Location, 0, len(locations))
	for i := range locations {
		out = append(out, toLocation(&locations[i]))
	}
	return out, nil
}

// Stock resolves the tracked quantity of one product at one location; nil
// when untracked.
func (r *QueryResolver) Stock(ctx context.Context, locationID, productID int32) (*gqlmodels.StockLevel, error) {
	row, err := r.stocks.Get(uint(locationID), uint(productID))
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	return toStockLevel(row), nil
}

// LocationStock resolves all tracked quantities at a location.
func (r *QueryResolver) LocationStock(ctx context.Context, locationID int32) ([]*gqlmodels.StockLevel, error) {
	rows, err := r.stocks.ByLocation(uint(locationID))
	if err != nil {
		return nil, err
	}
	out := make([]*gqlmodels.StockLevel, 0, len(rows))
	for i := range rows {
		out = append(out, toStockLevel(&rows[i]))
	}
	return out, nil
}

func toLocation(l *stockEntity.Location) *gqlmodels.Location {
	return &gqlmodels.Location{
		ID:       int32(l.ID),
		Name:     l.Name,
		Kind:     l.Kind,
		IsActive: l.IsActive,
	}
}

func toStockLevel(s *stockEntity.Stock) *gqlmodels.StockLevel {
	return &gqlmodels.StockLevel{
		LocationID: int32(s.LocationID),
		ProductID:  int32(s.ProductID),
		Quantity:   s.Quantity.String(),
		UnitCode:   s.UnitCode,
	}
}

package resolvers

import (
	"context"

	catalogEntity "cavina.GO/model/entity/catalog"

	gqlmodels "cavina.GO/graphql/models"
)

// Product resolves a single product by sku or id; sku wins when both are set.
func (r *QueryResolver) Product(ctx context.Context, sku *string, id *int32) (*gqlmodels.Product, error) {
	var product *catalogEntity.Product
	var err error
	switch {
	case sku != nil && *sku != "":
		product, err = r.catalog.FindProductBySKU(*sku)
	case id != nil:
		product, err = r.catalog.FindProductByID(uint(*id))
	default:
		return nil, nil
	}
	if err != nil {
		return nil, nil
	}
	return r.toProduct(product)
}

// Products resolves a paginated product listing.
func (r *QueryResolver) Products(ctx context.Context, pageSize, currentPage int) (*gqlmodels.ProductSearchResult, error) {
	if pageSize <= 0 {
		pageSize = 20
	}
	if currentPage <= 0 {
		currentPage = 1
	}
	items, total, err := r.catalog.ListProducts(pageSize, (currentPage-1)*pageSize)
	if err != nil {
		return nil, err
	}
	out := make([]*gqlmodels.Product, 0, len(items))
	for i := range items {
		p, err := r.toProduct(&items[i])
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	totalPages := (int(total) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	return &gqlmodels.ProductSearchResult{
		Items:      out,
		TotalCount: int32(total),
		PageInfo: &gqlmodels.PageInfo{
			PageSize:    int32(pageSize),
			CurrentPage: int32(currentPage),
			TotalPages:  int32(totalPages),
		},
	}, nil
}

// Units resolves the full unit list.
func (r *QueryResolver) Units(ctx context.Context) ([]*gqlmodels.Unit, error) {
	units, err := r.catalog.ListUnits()
	if err != nil {
		return nil, err
	}
	out := make([]*gqlmodels.Unit, 0, len(units))
	for i := range units {
		out = append(out, toUnit(&units[i]))
	}
	return out, nil
}

func (r *QueryResolver) toProduct(p *catalogEntity.Product) (*gqlmodels.Product, error) {
	out := &gqlmodels.Product{
		ID:           int32(p.ID),
		Name:         p.Name,
		SKU:          p.SKU,
		BaseUnitCode: p.BaseUnitCode,
		IsComposite:  p.IsComposite(),
		IsActive:     p.IsActive,
	}
	if p.PrimaryCategory != "" {
		cat := p.PrimaryCategory
		out.PrimaryCategory = &cat
	}
	if p.IsComposite() {
		components, err := r.catalog.ComponentsOf(p.ID)
		if err != nil {
			return nil, err
		}
		list := make([]*gqlmodels.Component, 0, len(components))
		for _, c := range components {
			list = append(list, &gqlmodels.Component{
				ProductID:           int32(c.ComponentProductID),
				Quantity:            c.Quantity.String(),
				UnitCode:            c.UnitCode,
				SubstitutionAllowed: c.SubstitutionAllowed,
			})
		}
		out.Components = &list
	}
	return out, nil
}

func toUnit(u *catalogEntity.Unit) *gqlmodels.Unit {
	out := &gqlmodels.Unit{
		Code:        u.Code,
		RatioToBase: u.RatioToBase.String(),
	}
	if u.Description != "" {
		desc := u.Description
		out.Description = &desc
	}
	if u.DiscreteStep != nil {
		step := u.DiscreteStep.String()
		out.DiscreteStep = &step
	}
	return out
}

package catalog

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"cavina.GO/core/apperr"
	"cavina.GO/core/cache"
	catalogEntity "cavina.GO/model/entity/catalog"
)

// Cache tags for catalog reference data. Write operations invalidate by tag.
const (
	cacheTagUnits    = "catalog:units"
	cacheTTLSeconds  = 300
	cacheKeyUnit     = "unit"
	cacheKeyConvPair = "conv"
)

// CatalogRepository reads the product/unit reference data the core consumes.
// Units and conversion ratios are read-mostly and cached in-process.
type CatalogRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db, cache: cache.GetInstance()}
}

// WithTx returns a repository whose reads run on tx. Callers inside a
// transaction must use this so reference lookups see the transaction's
// connection, not a second pooled one.
func (r *CatalogRepository) WithTx(tx *gorm.DB) *CatalogRepository {
	if tx == nil {
		return r
	}
	return &CatalogRepository{db: tx, cache: r.cache}
}

// FindProductByID returns a product with its type preloaded.
func (r *CatalogRepository) FindProductByID(id uint) (*catalogEntity.Product, error) {
	var p catalogEntity.Product
	err := r.db.Preload("ProductType").First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("product %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindProductBySKU returns a product by SKU with its type preloaded.
func (r *CatalogRepository) FindProductBySKU(sku string) (*catalogEntity.Product, error) {
	var p catalogEntity.Product
	err := r.db.Preload("ProductType").Where("sku = ?", sku).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("product sku %q not found", sku)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProducts returns a page of active products and the total count.
func (r *CatalogRepository) ListProducts(limit, offset int) ([]catalogEntity.Product, int64, error) {
	var total int64
	if err := r.db.Model(&catalogEntity.Product{}).Where("is_active = ?", true).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []catalogEntity.Product
	err := r.db.Preload("ProductType").
		Where("is_active = ?", true).
		Order("id").
		Limit(limit).Offset(offset).
		Find(&items).Error
	return items, total, err
}

// ComponentsOf returns the bill-of-materials rows of a composite parent,
// ordered for deterministic expansion.
func (r *CatalogRepository) ComponentsOf(parentID uint) ([]catalogEntity.CompositeComponent, error) {
	var comps []catalogEntity.CompositeComponent
	err := r.db.Where("parent_product_id = ?", parentID).Order("id").Find(&comps).Error
	return comps, err
}

// UnitByCode returns a unit by its code, or nil when absent. Cached.
func (r *CatalogRepository) UnitByCode(code string) (*catalogEntity.Unit, error) {
	if v, ok := r.cache.GetN(cacheKeyUnit, code); ok {
		u := v.(catalogEntity.Unit)
		return &u, nil
	}
	var u catalogEntity.Unit
	err := r.db.Where("code = ?", code).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.cache.SetN([]interface{}{cacheKeyUnit, code}, u, cacheTTLSeconds, []string{cacheTagUnits})
	return &u, nil
}

// ListUnits returns all units ordered by code.
func (r *CatalogRepository) ListUnits() ([]catalogEntity.Unit, error) {
	var units []catalogEntity.Unit
	err := r.db.Order("code").Find(&units).Error
	return units, err
}

// ConversionRatio returns the explicit pairwise ratio from one unit to
// another. The bool reports whether an entry exists. Cached.
func (r *CatalogRepository) ConversionRatio(from, to string) (decimal.Decimal, bool, error) {
	if v, ok := r.cache.GetN(cacheKeyConvPair, from, to); ok {
		return v.(decimal.Decimal), true, nil
	}
	var conv catalogEntity.UnitConversion
	err := r.db.Where("from_unit = ? AND to_unit = ?", from, to).First(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, err
	}
	r.cache.SetN([]interface{}{cacheKeyConvPair, from, to}, conv.Ratio, cacheTTLSeconds, []string{cacheTagUnits})
	return conv.Ratio, true, nil
}

// ProductUnit returns the product-scoped unit row for (product, unit), or
// nil when absent.
func (r *CatalogRepository) ProductUnit(productID uint, unitCode string) (*catalogEntity.ProductUnit, error) {
	var pu catalogEntity.ProductUnit
	err := r.db.Where("product_id = ? AND unit_code = ?", productID, unitCode).First(&pu).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pu, nil
}

// CreateComponent inserts a bill-of-materials row after checking that both
// products exist and that the new edge keeps the component graph acyclic.
func (r *CatalogRepository) CreateComponent(comp *catalogEntity.CompositeComponent) error {
	if _, err := r.FindProductByID(comp.ParentProductID); err != nil {
		return err
	}
	if _, err := r.FindProductByID(comp.ComponentProductID); err != nil {
		return err
	}
	reachable, err := r.reachable(comp.ComponentProductID, comp.ParentProductID)
	if err != nil {
		return err
	}
	if reachable {
		return apperr.Validation("component %d would create a cycle through product %d",
			comp.ComponentProductID, comp.ParentProductID)
	}
	return r.db.Create(comp).Error
}

// reachable walks the component graph depth-first and reports whether target
// can be reached from start.
func (r *CatalogRepository) reachable(start, target uint) (bool, error) {
	if start == target {
		return true, nil
	}
	visited := map[uint]bool{start: true}
	stack := []uint{start}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		comps, err := r.ComponentsOf(current)
		if err != nil {
			return false, err
		}
		for _, c := range comps {
			if c.ComponentProductID == target {
				return true, nil
			}
			if !visited[c.ComponentProductID] {
				visited[c.ComponentProductID] = true
				stack = append(stack, c.ComponentProductID)
			}
		}
	}
	return false, nil
}

// DeleteProduct removes a product unless a composite still references it as
// a component. Silent cascade would corrupt recipes.
func (r *CatalogRepository) DeleteProduct(id uint) error {
	var refs int64
	if err := r.db.Model(&catalogEntity.CompositeComponent{}).
		Where("component_product_id = ?", id).Count(&refs).Error; err != nil {
		return err
	}
	if refs > 0 {
		return apperr.Conflict("product %d is referenced by %d composite component(s)", id, refs)
	}
	res := r.db.Delete(&catalogEntity.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("product %d not found", id)
	}
	return nil
}

// PriceFor returns the price-list entry for (location, product, unit), or
// nil when no price is defined.
func (r *CatalogRepository) PriceFor(locationID, productID uint, unitCode string) (*catalogEntity.PriceList, error) {
	var price catalogEntity.PriceList
	err := r.db.Where("location_id = ? AND product_id = ? AND unit_code = ?", locationID, productID, unitCode).
		First(&price).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &price, nil
}

// LowestPriceFor returns the cheapest price across units for (location,
// product), or nil when none is defined.
func (r *CatalogRepository) LowestPriceFor(locationID, productID uint) (*catalogEntity.PriceList, error) {
	var price catalogEntity.PriceList
	err := r.db.Where("location_id = ? AND product_id = ?", locationID, productID).
		Order("amount asc").First(&price).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &price, nil
}

// AttributeView is one resolved attribute on a product: the definition
// joined with its typed value.
type AttributeView struct {
	Code         string   `json:"code"`
	Name         string   `json:"name"`
	DataType     string   `json:"data_type"`
	UnitCode     *string  `json:"unit_code,omitempty"`
	ValueNumber  *float64 `json:"value_number,omitempty"`
	ValueBoolean *bool    `json:"value_boolean,omitempty"`
	ValueString  *string  `json:"value_string,omitempty"`
}

// AttributesOf returns a product's attribute values joined with their
// definitions, ordered by the definition's sort order.
func (r *CatalogRepository) AttributesOf(productID uint) ([]AttributeView, error) {
	var out []AttributeView
	err := r.db.Model(&catalogEntity.ProductAttributeValue{}).
		Select("product_attribute.code, product_attribute.name, product_attribute.data_type, product_attribute.unit_code, product_attribute_value.value_number, product_attribute_value.value_boolean, product_attribute_value.value_string").
		Joins("JOIN product_attribute ON product_attribute.id = product_attribute_value.product_attribute_id").
		Where("product_attribute_value.product_id = ?", productID).
		Order("product_attribute.sort_order asc").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// InvalidateUnitCache drops cached unit and ratio entries. Called by catalog
// write paths.
func (r *CatalogRepository) InvalidateUnitCache() {
	r.cache.DeleteByTag(cacheTagUnits)
}

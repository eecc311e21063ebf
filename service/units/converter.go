package units

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"cavina.GO/core/apperr"
	catalogRepo "cavina.GO/model/repository/catalog"
)

// RatioSource resolves the multiplier that converts a quantity in fromUnit
// into toUnit for a given product. Implementations must fail loudly when no
// ratio is configured — assuming 1:1 is the worst silent failure a stock
// ledger can have.
type RatioSource interface {
	Ratio(productID uint, fromUnit, toUnit string) (decimal.Decimal, error)
}

// GlobalRatioSource resolves ratios from the unit_conversion table first and
// falls back to dividing the two units' ratios to the implicit base.
type GlobalRatioSource struct {
	catalog *catalogRepo.CatalogRepository
}

func NewGlobalRatioSource(repo *catalogRepo.CatalogRepository) *GlobalRatioSource {
	return &GlobalRatioSource{catalog: repo}
}

func (s *GlobalRatioSource) Ratio(_ uint, fromUnit, toUnit string) (decimal.Decimal, error) {
	ratio, ok, err := s.catalog.ConversionRatio(fromUnit, toUnit)
	if err != nil {
		return decimal.Zero, err
	}
	if ok {
		return ratio, nil
	}
	// Inverse entry works too: to->from with ratio r means from->to is 1/r.
	inverse, ok, err := s.catalog.ConversionRatio(toUnit, fromUnit)
	if err != nil {
		return decimal.Zero, err
	}
	if ok && !inverse.IsZero() {
		return decimal.New(1, 0).Div(inverse), nil
	}
	from, err := s.catalog.UnitByCode(fromUnit)
	if err != nil {
		return decimal.Zero, err
	}
	to, err := s.catalog.UnitByCode(toUnit)
	if err != nil {
		return decimal.Zero, err
	}
	if from != nil && to != nil && !from.RatioToBase.IsZero() && !to.RatioToBase.IsZero() {
		return from.RatioToBase.Div(to.RatioToBase), nil
	}
	return decimal.Zero, apperr.Validation("no conversion from unit %q to unit %q", fromUnit, toUnit)
}

// ProductRatioSource resolves ratios from product_unit rows: each row states
// the unit's ratio to that product's base unit.
type ProductRatioSource struct {
	catalog *catalogRepo.CatalogRepository
}

func NewProductRatioSource(repo *catalogRepo.CatalogRepository) *ProductRatioSource {
	return &ProductRatioSource{catalog: repo}
}

func (s *ProductRatioSource) Ratio(productID uint, fromUnit, toUnit string) (decimal.Decimal, error) {
	from, err := s.catalog.ProductUnit(productID, fromUnit)
	if err != nil {
		return decimal.Zero, err
	}
	if from == nil {
		return decimal.Zero, apperr.Validation("product %d has no ratio for unit %q (target unit %q)", productID, fromUnit, toUnit)
	}
	// toUnit is the product's base unit unless it has its own row.
	to, err := s.catalog.ProductUnit(productID, toUnit)
	if err != nil {
		return decimal.Zero, err
	}
	if to == nil {
		return from.RatioToBase, nil
	}
	if to.RatioToBase.IsZero() {
		return decimal.Zero, apperr.Validation("product %d has zero ratio for unit %q", productID, toUnit)
	}
	return from.RatioToBase.Div(to.RatioToBase), nil
}

// Converter converts quantities between units and normalizes them to a
// unit's discrete step. All math is decimal; floats never enter the ledger.
type Converter struct {
	source     RatioSource
	sourceName string
	catalog    *catalogRepo.CatalogRepository
}

// NewConverterForSource selects the ratio source by name ("global" or
// "product"); unknown names fall back to global.
func NewConverterForSource(name string, repo *catalogRepo.CatalogRepository) *Converter {
	var source RatioSource
	switch name {
	case "product":
		source = NewProductRatioSource(repo)
	default:
		source = NewGlobalRatioSource(repo)
	}
	return &Converter{source: source, sourceName: name, catalog: repo}
}

// WithTx returns a Converter whose catalog lookups run on tx.
func (c *Converter) WithTx(tx *gorm.DB) *Converter {
	if tx == nil {
		return c
	}
	return NewConverterForSource(c.sourceName, c.catalog.WithTx(tx))
}

// ToBase converts a quantity in unitCode to the product's base unit.
// Identity when the units match; otherwise a configured ratio is required.
func (c *Converter) ToBase(productID uint, unitCode string, qty decimal.Decimal, baseUnit string) (decimal.Decimal, error) {
	if unitCode == baseUnit {
		return qty, nil
	}
	ratio, err := c.source.Ratio(productID, unitCode, baseUnit)
	if err != nil {
		return decimal.Zero, err
	}
	return qty.Mul(ratio), nil
}

// Normalize rounds a quantity to the nearest multiple of the unit's discrete
// step (half away from zero). Units without a step, and unknown units, pass
// through unchanged.
func (c *Converter) Normalize(unitCode string, qty decimal.Decimal) (decimal.Decimal, error) {
	unit, err := c.catalog.UnitByCode(unitCode)
	if err != nil {
		return decimal.Zero, err
	}
	if unit == nil || unit.DiscreteStep == nil || unit.DiscreteStep.IsZero() {
		return qty, nil
	}
	step := *unit.DiscreteStep
	return qty.Div(step).Round(0).Mul(step), nil
}

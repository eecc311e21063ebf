package sales

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"cavina.GO/core/apperr"
	catalogRepo "cavina.GO/model/repository/catalog"
)

// Delta is one stock movement produced by expanding a sold line: always a
// positive quantity in the unit the recipe (or the line itself) names.
type Delta struct {
	ProductID uint
	Quantity  decimal.Decimal
	UnitCode  string
}

// Expander turns a sold product into the set of stock deltas it implies.
// Simple products map to themselves; composite products expand through
// their recipe, recursively, so a composite made of composites bottoms out
// at simple components.
type Expander struct {
	catalog *catalogRepo.CatalogRepository
}

func NewExpander(catalog *catalogRepo.CatalogRepository) *Expander {
	return &Expander{catalog: catalog}
}

// Expand returns the component deltas for qty of product sold in unitCode.
// For a simple product the result is a single self-delta. For a composite
// the result covers components only; whether the composite's own stock
// moves is the caller's decision. Catalog reads run on tx so expansion
// inside a transaction sees the transaction's connection.
func (e *Expander) Expand(tx *gorm.DB, productID uint, qty decimal.Decimal, unitCode string) ([]Delta, error) {
	catalog := e.catalog.WithTx(tx)
	product, err := catalog.FindProductByID(productID)
	if err != nil {
		return nil, err
	}
	if !product.IsComposite() {
		return []Delta{{ProductID: productID, Quantity: qty, UnitCode: unitCode}}, nil
	}
	visited := map[uint]bool{}
	acc := newAccumulator()
	if err := e.expand(catalog, productID, qty, visited, acc); err != nil {
		return nil, err
	}
	return acc.deltas(), nil
}

func (e *Expander) expand(catalog *catalogRepo.CatalogRepository, productID uint, qty decimal.Decimal, visited map[uint]bool, acc *accumulator) error {
	if visited[productID] {
		return apperr.Validation("composite recipe cycle detected at product %d", productID)
	}
	visited[productID] = true
	defer delete(visited, productID)

	components, err := catalog.ComponentsOf(productID)
	if err != nil {
		return err
	}
	if len(components) == 0 {
		return apperr.Validation("composite product %d has no components", productID)
	}
	for _, comp := range components {
		child, err := catalog.FindProductByID(comp.ComponentProductID)
		if err != nil {
			return err
		}
		need := comp.Quantity.Mul(qty)
		if child.IsComposite() {
			if err := e.expand(catalog, child.ID, need, visited, acc); err != nil {
				return err
			}
			continue
		}
		acc.add(child.ID, need, comp.UnitCode)
	}
	return nil
}

// accumulator merges deltas by (product, unit) while preserving first-seen
// order, so repeated components across recipe branches collapse into one
// movement and the output stays deterministic.
type accumulator struct {
	order []deltaKey
	sums  map[deltaKey]decimal.Decimal
}

type deltaKey struct {
	productID uint
	unitCode  string
}

func newAccumulator() *accumulator {
	return &accumulator{sums: map[deltaKey]decimal.Decimal{}}
}

func (a *accumulator) add(productID uint, qty decimal.Decimal, unitCode string) {
	key := deltaKey{productID: productID, unitCode: unitCode}
	if existing, ok := a.sums[key]; ok {
		a.sums[key] = existing.Add(qty)
		return
	}
	a.order = append(a.order, key)
	a.sums[key] = qty
}

func (a *accumulator) deltas() []Delta {
	out := make([]Delta, 0, len(a.order))
	for _, key := range a.order {
		out = append(out, Delta{ProductID: key.productID, Quantity: a.sums[key], UnitCode: key.unitCode})
	}
	return out
}

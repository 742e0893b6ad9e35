// internal/catalog/store.go

// Package catalog holds the product records and price tables used by the
// matching and pricing steps. A Store is loaded once per run and is read-only
// afterwards, so it may be shared across workflows without locking.
package catalog

import (
	"sort"

	"rfp-bid-engine/internal/models"
)

// AttributeVocabulary is the fixed set of attribute keys shared between
// requirement extraction and product records. Scoring only ever considers
// these keys.
var AttributeVocabulary = []string{
	"conductor_size_sqmm",
	"cores",
	"conductor_material",
	"insulation",
	"voltage_rating",
	"armour_type",
}

// ProductRecord is one catalog entry. Attribute values are stored normalized
// (trimmed, lower-cased) so equality checks are plain string comparisons.
type ProductRecord struct {
	SKU        string            `json:"sku"`
	Attributes map[string]string `json:"attributes"`
}

// Store aggregates the four catalog tables, all keyed by sku.
type Store struct {
	products     []ProductRecord
	unitPrices   map[string]models.Money
	testPrices   map[string]models.Money
	productTests map[string][]string
}

// NewStore assembles a Store from already-loaded tables. Product order is
// normalized to ascending sku so downstream ranking is reproducible
// regardless of load order.
func NewStore(
	products []ProductRecord,
	unitPrices map[string]models.Money,
	testPrices map[string]models.Money,
	productTests map[string][]string,
) *Store {
	sorted := make([]ProductRecord, len(products))
	copy(sorted, products)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].SKU < sorted[j].SKU })

	if unitPrices == nil {
		unitPrices = map[string]models.Money{}
	}
	if testPrices == nil {
		testPrices = map[string]models.Money{}
	}
	if productTests == nil {
		productTests = map[string][]string{}
	}

	for sku, tests := range productTests {
		t := make([]string, len(tests))
		copy(t, tests)
		sort.Strings(t)
		productTests[sku] = t
	}

	return &Store{
		products:     sorted,
		unitPrices:   unitPrices,
		testPrices:   testPrices,
		productTests: productTests,
	}
}

// Products returns the catalog entries in ascending sku order.
func (s *Store) Products() []ProductRecord {
	return s.products
}

// UnitPrice looks up the unit price for a sku.
func (s *Store) UnitPrice(sku string) (models.Money, bool) {
	p, ok := s.unitPrices[sku]
	return p, ok
}

// TestPrice looks up the price of a named test.
func (s *Store) TestPrice(name string) (models.Money, bool) {
	p, ok := s.testPrices[name]
	return p, ok
}

// TestsFor returns the applicable test names for a sku, sorted ascending.
func (s *Store) TestsFor(sku string) []string {
	return s.productTests[sku]
}

// Size returns the number of catalog products.
func (s *Store) Size() int {
	return len(s.products)
}

package sorting

import (
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/matst80/inventory-card/pkg/translations"
	"github.com/matst80/inventory-card/pkg/types"
)

// noExpirySentinel sorts items without an expiry date after every real date.
const noExpirySentinel = "9999-12-31"

// Sorter orders item collections by a named method. Name, category and
// location comparisons are case-insensitive, trimmed and natural, so
// "item2" sorts before "item10".
type Sorter struct {
	mu       sync.Mutex
	collator *collate.Collator
}

func NewSorter() *Sorter {
	return &Sorter{
		collator: collate.New(language.Und, collate.Numeric, collate.Loose),
	}
}

// SortItems returns an ordered copy of items. Unknown methods keep the input
// order.
func (s *Sorter) SortItems(items []types.InventoryItem, method string, tree types.TranslationData) []types.InventoryItem {
	sorted := slices.Clone(items)

	switch method {
	case types.SortByName:
		s.sortBy(sorted, func(a, b *types.InventoryItem) int {
			return s.compareNames(a.Name, b.Name)
		})
	case types.SortByCategory:
		uncategorized := translations.Localize(tree, "common.uncategorized", nil, "Uncategorized")
		s.sortBy(sorted, func(a, b *types.InventoryItem) int {
			if c := s.compareText(orDefault(a.Category, uncategorized), orDefault(b.Category, uncategorized)); c != 0 {
				return c
			}
			return s.compareNames(a.Name, b.Name)
		})
	case types.SortByLocation:
		noLocation := translations.Localize(tree, "common.no_location", nil, "No Location")
		s.sortBy(sorted, func(a, b *types.InventoryItem) int {
			if c := s.compareText(orDefault(a.Location, noLocation), orDefault(b.Location, noLocation)); c != 0 {
				return c
			}
			return s.compareNames(a.Name, b.Name)
		})
	case types.SortByQuantity:
		s.sortBy(sorted, func(a, b *types.InventoryItem) int {
			if a.Quantity != b.Quantity {
				if a.Quantity > b.Quantity {
					return -1
				}
				return 1
			}
			return s.compareNames(a.Name, b.Name)
		})
	case types.SortByQuantityLow:
		s.sortBy(sorted, func(a, b *types.InventoryItem) int {
			if a.Quantity != b.Quantity {
				if a.Quantity < b.Quantity {
					return -1
				}
				return 1
			}
			return s.compareNames(a.Name, b.Name)
		})
	case types.SortByExpiry:
		s.sortBy(sorted, func(a, b *types.InventoryItem) int {
			if c := strings.Compare(orDefault(a.ExpiryDate, noExpirySentinel), orDefault(b.ExpiryDate, noExpirySentinel)); c != 0 {
				return c
			}
			return s.compareNames(a.Name, b.Name)
		})
	case types.SortZeroLast:
		s.sortBy(sorted, func(a, b *types.InventoryItem) int {
			aStocked := a.Quantity > 0
			bStocked := b.Quantity > 0
			if aStocked != bStocked {
				if aStocked {
					return -1
				}
				return 1
			}
			return s.compareNames(a.Name, b.Name)
		})
	}

	return sorted
}

func (s *Sorter) sortBy(items []types.InventoryItem, cmp func(a, b *types.InventoryItem) int) {
	slices.SortStableFunc(items, func(a, b types.InventoryItem) int {
		return cmp(&a, &b)
	})
}

func (s *Sorter) compareNames(a, b string) int {
	return s.compareText(a, b)
}

// compareText runs the collator under a lock, collators keep internal
// buffers and are not safe for concurrent use.
func (s *Sorter) compareText(a, b string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collator.CompareString(strings.TrimSpace(a), strings.TrimSpace(b))
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

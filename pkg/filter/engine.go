package filter

import (
	"slices"
	"strings"
	"time"

	"github.com/matst80/inventory-card/pkg/types"
)

const dateLayout = "2006-01-02"

// Engine evaluates filter criteria against item collections. The clock is
// injectable so expiry classification is deterministic in tests.
type Engine struct {
	Now func() time.Time
}

func NewEngine() *Engine {
	return &Engine{Now: time.Now}
}

// FilterItems returns the items passing every active criterion. The input is
// never mutated, an empty criteria set yields a copy of the full input.
func (e *Engine) FilterItems(items []types.InventoryItem, filters types.FilterState) []types.InventoryItem {
	if filters.IsEmpty() {
		return slices.Clone(items)
	}

	today := truncateToDay(e.now())
	result := make([]types.InventoryItem, 0, len(items))
	for _, item := range items {
		if filters.SearchText != "" && !matchesTextSearch(&item, filters.SearchText) {
			continue
		}
		if len(filters.Category) > 0 && !slices.Contains(filters.Category, item.Category) {
			continue
		}
		if len(filters.Location) > 0 && !slices.Contains(filters.Location, item.Location) {
			continue
		}
		if len(filters.Quantity) > 0 && !matchesQuantityFilter(&item, filters.Quantity) {
			continue
		}
		if len(filters.Expiry) > 0 && !matchesExpiryFilter(&item, filters.Expiry, today) {
			continue
		}
		result = append(result, item)
	}
	return result
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func matchesTextSearch(item *types.InventoryItem, searchText string) bool {
	search := strings.ToLower(searchText)
	return strings.Contains(strings.ToLower(item.Name), search) ||
		strings.Contains(strings.ToLower(item.Category), search) ||
		strings.Contains(strings.ToLower(item.Unit), search) ||
		strings.Contains(strings.ToLower(item.Location), search)
}

func matchesQuantityFilter(item *types.InventoryItem, values []string) bool {
	for _, value := range values {
		switch value {
		case types.QuantityZero:
			if item.Quantity == 0 {
				return true
			}
		case types.QuantityNonZero:
			if item.Quantity > 0 {
				return true
			}
		default:
			// Unknown values pass to keep stale saved filters harmless.
			return true
		}
	}
	return false
}

func matchesExpiryFilter(item *types.InventoryItem, values []string, today time.Time) bool {
	for _, value := range values {
		switch value {
		case types.ExpiryNone:
			if item.ExpiryDate == "" {
				return true
			}
		case types.ExpiryExpired:
			if expiryClass(item, today) == types.ExpiryExpired {
				return true
			}
		case types.ExpirySoon:
			if expiryClass(item, today) == types.ExpirySoon {
				return true
			}
		case types.ExpiryFuture:
			if expiryClass(item, today) == types.ExpiryFuture {
				return true
			}
		default:
			return true
		}
	}
	return false
}

// expiryClass buckets an item's expiry date relative to today. Items without
// stock never classify, nor do unparseable dates.
func expiryClass(item *types.InventoryItem, today time.Time) string {
	if item.ExpiryDate == "" || item.Quantity <= 0 {
		return ""
	}
	expiry, err := time.Parse(dateLayout, item.ExpiryDate)
	if err != nil {
		return ""
	}
	expiry = truncateToDay(expiry)
	threshold := today.AddDate(0, 0, item.AlertDays())

	switch {
	case expiry.Before(today):
		return types.ExpiryExpired
	case expiry.After(threshold):
		return types.ExpiryFuture
	default:
		return types.ExpirySoon
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

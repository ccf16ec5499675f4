package render

import (
	"fmt"

	"github.com/matst80/inventory-card/pkg/translations"
	"github.com/matst80/inventory-card/pkg/types"
)

// IndicatorState is the filter-indicator UI state derived from the current
// criteria: active-filter badges, the advanced-toggle label and whether the
// toggle and clear button should be highlighted.
type IndicatorState struct {
	HasActiveFilters bool     `json:"hasActiveFilters"`
	ToggleLabel      string   `json:"toggleLabel"`
	Highlight        bool     `json:"highlight"`
	Badges           []string `json:"badges"`
}

// Indicators computes the indicator state for a filter state.
func Indicators(filters types.FilterState, tree types.TranslationData) IndicatorState {
	active := filters.HasActiveFilters()

	label := translations.Localize(tree, "filters.filters", nil, "Filters")
	if filters.ShowAdvanced {
		label = translations.Localize(tree, "filters.hide_filters", nil, "Hide Filters")
	}
	if active {
		label += " ●"
	}

	return IndicatorState{
		HasActiveFilters: active,
		ToggleLabel:      label,
		Highlight:        active,
		Badges:           filterBadges(filters, tree),
	}
}

func filterBadges(filters types.FilterState, tree types.TranslationData) []string {
	badges := []string{}

	if filters.SearchText != "" {
		label := translations.Localize(tree, "filters.search", nil, "Search")
		badges = append(badges, fmt.Sprintf("%s: %q", label, filters.SearchText))
	}
	badges = append(badges, filters.Category...)
	badges = append(badges, filters.Location...)
	for _, value := range filters.Quantity {
		switch value {
		case types.QuantityZero:
			badges = append(badges, translations.Localize(tree, "filters.out_of_stock", nil, "Out of Stock"))
		case types.QuantityNonZero:
			badges = append(badges, translations.Localize(tree, "filters.in_stock", nil, "In Stock"))
		default:
			badges = append(badges, value)
		}
	}
	for _, value := range filters.Expiry {
		switch value {
		case types.ExpiryNone:
			badges = append(badges, translations.Localize(tree, "filters.no_expiry", nil, "No Expiry"))
		case types.ExpiryExpired:
			badges = append(badges, translations.Localize(tree, "filters.expired", nil, "Expired"))
		case types.ExpirySoon:
			badges = append(badges, translations.Localize(tree, "filters.expiring_soon", nil, "Expiring Soon"))
		case types.ExpiryFuture:
			badges = append(badges, translations.Localize(tree, "filters.expiring_later", nil, "Expiring Later"))
		default:
			badges = append(badges, value)
		}
	}

	return badges
}

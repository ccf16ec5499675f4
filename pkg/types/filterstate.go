package types

// Sort methods selectable for the item list.
const (
	SortByName        = "name"
	SortByCategory    = "category"
	SortByLocation    = "location"
	SortByQuantity    = "quantity"
	SortByQuantityLow = "quantity_low"
	SortByExpiry      = "expiry"
	SortZeroLast      = "zero_last"
)

// DefaultSortMethod is applied when neither the card config nor the stored
// filter state selects one.
const DefaultSortMethod = SortByName

// Quantity filter values.
const (
	QuantityZero    = "zero"
	QuantityNonZero = "nonzero"
)

// Expiry filter values.
const (
	ExpiryNone    = "none"
	ExpiryExpired = "expired"
	ExpirySoon    = "soon"
	ExpiryFuture  = "future"
)

// FilterState holds the persisted per-entity filter criteria. The multi
// select fields are always slices, legacy persisted blobs that stored a
// single string are upgraded on load by NormalizeFilterState.
type FilterState struct {
	Category     []string `json:"category" schema:"category"`
	Location     []string `json:"location" schema:"location"`
	Quantity     []string `json:"quantity" schema:"quantity"`
	Expiry       []string `json:"expiry" schema:"expiry"`
	SearchText   string   `json:"searchText" schema:"searchText"`
	ShowAdvanced bool     `json:"showAdvanced" schema:"showAdvanced"`
	SortMethod   string   `json:"sortMethod" schema:"sortMethod"`
}

// DefaultFilterState returns the all-empty state used for entities without
// saved filters.
func DefaultFilterState() FilterState {
	return FilterState{
		Category:   []string{},
		Location:   []string{},
		Quantity:   []string{},
		Expiry:     []string{},
		SortMethod: DefaultSortMethod,
	}
}

// HasActiveFilters reports whether any criterion besides the sort method is
// set.
func (f *FilterState) HasActiveFilters() bool {
	return f.SearchText != "" ||
		len(f.Category) > 0 ||
		len(f.Location) > 0 ||
		len(f.Quantity) > 0 ||
		len(f.Expiry) > 0
}

// IsEmpty reports whether the state carries no criteria at all, including no
// sort method. Filtering treats an empty state as the identity filter.
func (f *FilterState) IsEmpty() bool {
	return !f.HasActiveFilters() && f.SortMethod == "" && !f.ShowAdvanced
}

// NormalizeFilterState upgrades a decoded filter blob of unknown shape to the
// current FilterState layout. Scalar values for the multi-select criteria
// become one-element slices (empty when the scalar itself was empty), values
// that are neither scalar nor list become empty slices.
func NormalizeFilterState(raw map[string]any) FilterState {
	state := FilterState{
		Category: normalizeValues(raw["category"]),
		Location: normalizeValues(raw["location"]),
		Quantity: normalizeValues(raw["quantity"]),
		Expiry:   normalizeValues(raw["expiry"]),
	}
	if s, ok := raw["searchText"].(string); ok {
		state.SearchText = s
	}
	if b, ok := raw["showAdvanced"].(bool); ok {
		state.ShowAdvanced = b
	}
	if s, ok := raw["sortMethod"].(string); ok && s != "" {
		state.SortMethod = s
	} else {
		state.SortMethod = DefaultSortMethod
	}
	return state
}

func normalizeValues(value any) []string {
	switch v := value.(type) {
	case string:
		if v == "" {
			return []string{}
		}
		return []string{v}
	case []string:
		return v
	case []any:
		result := make([]string, 0, len(v))
		for _, entry := range v {
			if s, ok := entry.(string); ok {
				result = append(result, s)
			}
		}
		return result
	default:
		return []string{}
	}
}

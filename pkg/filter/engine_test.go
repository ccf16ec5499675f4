package filter

import (
	"testing"
	"time"

	"github.com/matst80/inventory-card/pkg/types"
)

var testToday = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

func testEngine() *Engine {
	return &Engine{Now: func() time.Time {
		// mid-day clock, classification truncates to midnight
		return testToday.Add(13 * time.Hour)
	}}
}

func day(offset int) string {
	return testToday.AddDate(0, 0, offset).Format("2006-01-02")
}

func names(items []types.InventoryItem) []string {
	result := make([]string, len(items))
	for i, item := range items {
		result[i] = item.Name
	}
	return result
}

func sameNames(a []types.InventoryItem, expected ...string) bool {
	got := names(a)
	if len(got) != len(expected) {
		return false
	}
	for i := range got {
		if got[i] != expected[i] {
			return false
		}
	}
	return true
}

func TestFilterItems_EmptyFiltersReturnsCopy(t *testing.T) {
	items := []types.InventoryItem{{Name: "Milk"}, {Name: "Eggs"}}
	result := testEngine().FilterItems(items, types.FilterState{})

	if !sameNames(result, "Milk", "Eggs") {
		t.Errorf("Expected identity filter, got %v", names(result))
	}
	result[0].Name = "changed"
	if items[0].Name != "Milk" {
		t.Error("Expected input to stay untouched")
	}
}

func TestFilterItems_TextSearchAcrossFields(t *testing.T) {
	items := []types.InventoryItem{
		{Name: "Whole Milk"},
		{Name: "Flour", Category: "Baking"},
		{Name: "Batteries", Location: "Garage"},
		{Name: "Rice", Unit: "kg"},
		{Name: "Soap"},
	}

	state := types.DefaultFilterState()
	state.SearchText = "KG"
	if result := testEngine().FilterItems(items, state); !sameNames(result, "Rice") {
		t.Errorf("Expected unit match, got %v", names(result))
	}

	state.SearchText = "gara"
	if result := testEngine().FilterItems(items, state); !sameNames(result, "Batteries") {
		t.Errorf("Expected location match, got %v", names(result))
	}

	state.SearchText = "missing"
	if result := testEngine().FilterItems(items, state); len(result) != 0 {
		t.Errorf("Expected no matches, got %v", names(result))
	}
}

func TestFilterItems_CategoryAndLocationMembership(t *testing.T) {
	items := []types.InventoryItem{
		{Name: "Milk", Category: "Dairy", Location: "Fridge"},
		{Name: "Nails", Location: "Garage"},
		{Name: "Cheese", Category: "Dairy"},
	}

	state := types.DefaultFilterState()
	state.Category = []string{"Dairy"}
	if result := testEngine().FilterItems(items, state); !sameNames(result, "Milk", "Cheese") {
		t.Errorf("Expected dairy items, got %v", names(result))
	}

	// empty string selects items without a category
	state = types.DefaultFilterState()
	state.Category = []string{""}
	if result := testEngine().FilterItems(items, state); !sameNames(result, "Nails") {
		t.Errorf("Expected uncategorized items, got %v", names(result))
	}

	state = types.DefaultFilterState()
	state.Category = []string{"Dairy"}
	state.Location = []string{"Fridge"}
	if result := testEngine().FilterItems(items, state); !sameNames(result, "Milk") {
		t.Errorf("Expected criteria to combine with AND, got %v", names(result))
	}
}

func TestFilterItems_QuantityBuckets(t *testing.T) {
	items := []types.InventoryItem{
		{Name: "Empty", Quantity: 0},
		{Name: "Stocked", Quantity: 3},
	}

	state := types.DefaultFilterState()
	state.Quantity = []string{types.QuantityZero}
	if result := testEngine().FilterItems(items, state); !sameNames(result, "Empty") {
		t.Errorf("Expected zero bucket, got %v", names(result))
	}

	state.Quantity = []string{types.QuantityNonZero}
	if result := testEngine().FilterItems(items, state); !sameNames(result, "Stocked") {
		t.Errorf("Expected nonzero bucket, got %v", names(result))
	}

	state.Quantity = []string{types.QuantityZero, types.QuantityNonZero}
	if result := testEngine().FilterItems(items, state); len(result) != 2 {
		t.Errorf("Expected OR within criterion, got %v", names(result))
	}

	state.Quantity = []string{"bogus"}
	if result := testEngine().FilterItems(items, state); len(result) != 2 {
		t.Errorf("Expected unknown value to pass everything, got %v", names(result))
	}
}

func TestFilterItems_ExpiryClassification(t *testing.T) {
	items := []types.InventoryItem{
		{Name: "NoDate", Quantity: 1},
		{Name: "Old", Quantity: 1, ExpiryDate: day(-2)},
		{Name: "Soon", Quantity: 5, ExpiryDate: day(3)},
		{Name: "Edge", Quantity: 1, ExpiryDate: day(7)},
		{Name: "Far", Quantity: 1, ExpiryDate: day(8)},
		{Name: "OutOfStock", Quantity: 0, ExpiryDate: day(-2)},
	}
	engine := testEngine()

	cases := []struct {
		value    string
		expected []string
	}{
		{types.ExpiryNone, []string{"NoDate"}},
		{types.ExpiryExpired, []string{"Old"}},
		{types.ExpirySoon, []string{"Soon", "Edge"}},
		{types.ExpiryFuture, []string{"Far"}},
	}
	for _, tc := range cases {
		state := types.DefaultFilterState()
		state.Expiry = []string{tc.value}
		result := engine.FilterItems(items, state)
		if !sameNames(result, tc.expected...) {
			t.Errorf("Expiry %q: expected %v, got %v", tc.value, tc.expected, names(result))
		}
	}
}

func TestFilterItems_SoonRespectsItemAlertWindow(t *testing.T) {
	items := []types.InventoryItem{
		{Name: "ShortWindow", Quantity: 1, ExpiryDate: day(5), ExpiryAlertDays: 3},
		{Name: "DefaultWindow", Quantity: 1, ExpiryDate: day(5)},
	}

	state := types.DefaultFilterState()
	state.Expiry = []string{types.ExpirySoon}
	if result := testEngine().FilterItems(items, state); !sameNames(result, "DefaultWindow") {
		t.Errorf("Expected per-item alert window to apply, got %v", names(result))
	}

	state.Expiry = []string{types.ExpiryFuture}
	if result := testEngine().FilterItems(items, state); !sameNames(result, "ShortWindow") {
		t.Errorf("Expected short window item beyond threshold, got %v", names(result))
	}
}

func TestFilterItems_ZeroQuantityNeverClassifies(t *testing.T) {
	item := types.InventoryItem{Name: "Soup", Quantity: 0, ExpiryDate: day(3)}
	engine := testEngine()

	for _, value := range []string{types.ExpiryExpired, types.ExpirySoon, types.ExpiryFuture} {
		state := types.DefaultFilterState()
		state.Expiry = []string{value}
		if result := engine.FilterItems([]types.InventoryItem{item}, state); len(result) != 0 {
			t.Errorf("Expected no %q match for zero quantity item", value)
		}
	}
}

func TestFilterItems_UnparseableDateMatchesNothing(t *testing.T) {
	item := types.InventoryItem{Name: "Mystery", Quantity: 2, ExpiryDate: "not-a-date"}
	engine := testEngine()

	for _, value := range []string{types.ExpiryNone, types.ExpiryExpired, types.ExpirySoon, types.ExpiryFuture} {
		state := types.DefaultFilterState()
		state.Expiry = []string{value}
		if result := engine.FilterItems([]types.InventoryItem{item}, state); len(result) != 0 {
			t.Errorf("Expected no %q match for unparseable date", value)
		}
	}
}

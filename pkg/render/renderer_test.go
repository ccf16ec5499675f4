package render

import (
	"strings"
	"testing"

	"github.com/matst80/inventory-card/pkg/types"
)

func testView() *CardView {
	filters := types.DefaultFilterState()
	filters.SearchText = "mi"
	return &CardView{
		EntityId:     "sensor.pantry",
		FriendlyName: "Pantry",
		Items: []types.InventoryItem{
			{Name: "Milk", Quantity: 2, Unit: "l", Category: "Dairy"},
			{Name: "Mints", Quantity: 0},
		},
		Filters:    filters,
		SortMethod: types.SortByName,
		Indicators: Indicators(filters, nil),
	}
}

func TestHTMLRenderer_CardOutput(t *testing.T) {
	renderer := NewHTMLRenderer()

	if _, ok := renderer.Output(); ok {
		t.Error("Expected no output before first render")
	}
	if err := renderer.RenderCard(testView()); err != nil {
		t.Fatalf("RenderCard failed: %v", err)
	}

	output, ok := renderer.Output()
	if !ok {
		t.Fatal("Expected output after render")
	}
	html := string(output)
	for _, want := range []string{"Pantry", "Milk", "2 l", "Dairy", "out-of-stock", "search-input"} {
		if !strings.Contains(html, want) {
			t.Errorf("Expected output to contain %q:\n%s", want, html)
		}
	}
	if strings.Index(html, "Milk") > strings.Index(html, "Mints") {
		t.Error("Expected items rendered in view order")
	}
}

func TestHTMLRenderer_EscapesItemText(t *testing.T) {
	renderer := NewHTMLRenderer()
	view := testView()
	view.Items[0].Name = `<script>alert(1)</script>`

	if err := renderer.RenderCard(view); err != nil {
		t.Fatalf("RenderCard failed: %v", err)
	}
	output, _ := renderer.Output()
	if strings.Contains(string(output), "<script>") {
		t.Error("Expected item text to be escaped")
	}
}

func TestHTMLRenderer_ErrorCard(t *testing.T) {
	renderer := NewHTMLRenderer()

	renderer.RenderError(`entity <b>sensor.x</b> not found`)

	output, ok := renderer.Output()
	if !ok {
		t.Fatal("Expected error output")
	}
	html := string(output)
	if !strings.Contains(html, "error-message") {
		t.Errorf("Expected an error card, got:\n%s", html)
	}
	if strings.Contains(html, "<b>") {
		t.Error("Expected error message to be sanitized")
	}
}

func TestHTMLRenderer_PartialItemUpdate(t *testing.T) {
	renderer := NewHTMLRenderer()
	view := testView()
	if err := renderer.RenderCard(view); err != nil {
		t.Fatalf("RenderCard failed: %v", err)
	}

	view.Items = []types.InventoryItem{{Name: "Replaced", Quantity: 1}}
	if err := renderer.RenderItemList(view); err != nil {
		t.Fatalf("RenderItemList failed: %v", err)
	}

	output, _ := renderer.Output()
	html := string(output)
	if !strings.Contains(html, "Replaced") || strings.Contains(html, "Milk") {
		t.Errorf("Expected only the item region replaced:\n%s", html)
	}
	if !strings.Contains(html, "Pantry") {
		t.Error("Expected card chrome to survive a partial update")
	}
}

func TestHTMLRenderer_PartialUpdateAfterErrorKeepsErrorCard(t *testing.T) {
	renderer := NewHTMLRenderer()
	if err := renderer.RenderCard(testView()); err != nil {
		t.Fatalf("RenderCard failed: %v", err)
	}
	renderer.RenderError("entity sensor.pantry not found")

	if err := renderer.RenderItemList(testView()); err != nil {
		t.Fatalf("RenderItemList failed: %v", err)
	}

	output, _ := renderer.Output()
	html := string(output)
	if !strings.Contains(html, "error-message") {
		t.Errorf("Expected the error card to stay in place:\n%s", html)
	}
	if strings.Contains(html, "item-list") {
		t.Errorf("Expected no item list spliced into the error card:\n%s", html)
	}
}

func TestIndicators_ToggleAndBadges(t *testing.T) {
	state := types.DefaultFilterState()
	indicators := Indicators(state, nil)
	if indicators.HasActiveFilters || indicators.Highlight || len(indicators.Badges) != 0 {
		t.Errorf("Expected idle indicators, got %+v", indicators)
	}
	if indicators.ToggleLabel != "Filters" {
		t.Errorf("Expected plain toggle label, got %q", indicators.ToggleLabel)
	}

	state.Category = []string{"Dairy"}
	state.Quantity = []string{types.QuantityZero}
	state.SearchText = "mi"
	state.ShowAdvanced = true
	indicators = Indicators(state, nil)
	if !indicators.HasActiveFilters || !indicators.Highlight {
		t.Error("Expected active indicators")
	}
	if indicators.ToggleLabel != "Hide Filters ●" {
		t.Errorf("Expected marked hide label, got %q", indicators.ToggleLabel)
	}
	if len(indicators.Badges) != 3 {
		t.Errorf("Expected badges for search, category and quantity, got %v", indicators.Badges)
	}
}

func TestIndicators_LocalizedLabels(t *testing.T) {
	tree := types.TranslationData{
		"filters": map[string]any{"filters": "Filtres", "out_of_stock": "Épuisé"},
	}
	state := types.DefaultFilterState()
	state.Quantity = []string{types.QuantityZero}

	indicators := Indicators(state, tree)
	if indicators.ToggleLabel != "Filtres ●" {
		t.Errorf("Expected localized toggle label, got %q", indicators.ToggleLabel)
	}
	if len(indicators.Badges) != 1 || indicators.Badges[0] != "Épuisé" {
		t.Errorf("Expected localized badge, got %v", indicators.Badges)
	}
}

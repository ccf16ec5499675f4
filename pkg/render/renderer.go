package render

import (
	"bytes"
	"html/template"
	"sync"

	"github.com/matst80/inventory-card/pkg/translations"
	"github.com/matst80/inventory-card/pkg/types"
)

// CardView is everything the presentation layer needs to materialize one
// card: the filtered and sorted items plus UI state and metadata.
type CardView struct {
	EntityId     string
	FriendlyName string
	Items        []types.InventoryItem
	Filters      types.FilterState
	SortMethod   string
	Minimal      bool
	Indicators   IndicatorState
	Translations types.TranslationData
	ClickAction  *types.ItemClickAction
}

// Renderer materializes card views. RenderError replaces the current output
// with an error card and must not fail.
type Renderer interface {
	RenderCard(view *CardView) error
	RenderError(message string)
}

// ItemListRenderer is the optional partial-update path: replace only the
// item-list region, leaving the card chrome untouched.
type ItemListRenderer interface {
	RenderItemList(view *CardView) error
}

// EventWiring re-attaches interaction listeners after the output was
// replaced.
type EventWiring interface {
	SetupEventListeners() error
}

// WiringFunc adapts a function to EventWiring.
type WiringFunc func() error

func (f WiringFunc) SetupEventListeners() error { return f() }

var cardTemplate = template.Must(template.New("card").Parse(`<ha-card class="inventory-card{{if .Minimal}} minimal{{end}}">
  <div class="card-header">
    <h2>{{.Title}}</h2>
    <span class="item-count">{{len .View.Items}}</span>
  </div>
  <div class="search-row">
    <input id="search-input" type="text" value="{{.View.Filters.SearchText}}" placeholder="{{.SearchLabel}}">
    <button id="advanced-search-toggle"{{if .View.Indicators.Highlight}} class="has-active-filters"{{end}}>{{.View.Indicators.ToggleLabel}}</button>
    <button id="clear-filters"{{if .View.Indicators.HasActiveFilters}} class="has-active-filters"{{end}}>{{.ClearLabel}}</button>
  </div>
  {{if .View.Indicators.Badges}}<div id="active-filters"><ul id="active-filters-list">
    {{range .View.Indicators.Badges}}<li class="filter-badge">{{.}}</li>{{end}}
  </ul></div>{{end}}
  <div class="items-container">{{template "items" .}}</div>
</ha-card>
`))

var itemListTemplate = template.Must(cardTemplate.New("items").Parse(`{{if .View.Items}}<ul class="item-list">
  {{range .View.Items}}<li class="item-row{{if le .Quantity 0.0}} out-of-stock{{end}}">
    <span class="item-name">{{.Name}}</span>
    <span class="item-quantity">{{.Quantity}}{{if .Unit}} {{.Unit}}{{end}}</span>
    {{if not $.Minimal}}
    {{if .Category}}<span class="item-category">{{.Category}}</span>{{end}}
    {{if .Location}}<span class="item-location">{{.Location}}</span>{{end}}
    {{if .ExpiryDate}}<span class="item-expiry">{{.ExpiryDate}}</span>{{end}}
    {{end}}
  </li>{{end}}
</ul>{{else}}<div class="empty-list">{{.EmptyLabel}}</div>{{end}}`))

var errorTemplate = template.Must(template.New("error").Parse(`<ha-card>
  <div class="card-content">
    <div class="error-message"><p><strong>{{.Label}}:</strong> {{.Message}}</p></div>
  </div>
</ha-card>
`))

type cardTemplateData struct {
	View        *CardView
	Minimal     bool
	Title       string
	SearchLabel string
	ClearLabel  string
	EmptyLabel  string
}

// HTMLRenderer renders a card to HTML and keeps the latest output so the
// HTTP layer can serve it. html/template escapes all item and filter text.
type HTMLRenderer struct {
	mu     sync.RWMutex
	output []byte
	items  []byte
}

func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{}
}

func (r *HTMLRenderer) RenderCard(view *CardView) error {
	data := templateData(view)

	var buf bytes.Buffer
	if err := cardTemplate.Execute(&buf, data); err != nil {
		return err
	}
	var itemsBuf bytes.Buffer
	if err := itemListTemplate.Execute(&itemsBuf, data); err != nil {
		return err
	}

	r.mu.Lock()
	r.output = buf.Bytes()
	r.items = itemsBuf.Bytes()
	r.mu.Unlock()
	return nil
}

func (r *HTMLRenderer) RenderItemList(view *CardView) error {
	var buf bytes.Buffer
	if err := itemListTemplate.Execute(&buf, templateData(view)); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.output == nil || r.items == nil {
		// No patchable item region: nothing was rendered yet, or the last
		// output is an error card. The next full render picks the items up.
		return nil
	}
	r.output = bytes.Replace(r.output, r.items, buf.Bytes(), 1)
	r.items = buf.Bytes()
	return nil
}

func (r *HTMLRenderer) RenderError(message string) {
	var buf bytes.Buffer
	if err := errorTemplate.Execute(&buf, struct {
		Label   string
		Message string
	}{Label: "Error", Message: message}); err != nil {
		// template is static, execution over strings cannot realistically fail
		buf.Reset()
		buf.WriteString("<ha-card><div class=\"error-message\">" + template.HTMLEscapeString(message) + "</div></ha-card>")
	}

	r.mu.Lock()
	r.output = buf.Bytes()
	r.items = nil
	r.mu.Unlock()
}

// Output returns the latest rendered card, or false when nothing was
// rendered yet.
func (r *HTMLRenderer) Output() ([]byte, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.output == nil {
		return nil, false
	}
	return r.output, true
}

func templateData(view *CardView) *cardTemplateData {
	title := view.FriendlyName
	if title == "" {
		title = view.EntityId
	}
	return &cardTemplateData{
		View:        view,
		Minimal:     view.Minimal,
		Title:       title,
		SearchLabel: translations.Localize(view.Translations, "filters.search_placeholder", nil, "Search items..."),
		ClearLabel:  translations.Localize(view.Translations, "filters.clear", nil, "Clear"),
		EmptyLabel:  translations.Localize(view.Translations, "items.empty", nil, "No items"),
	}
}

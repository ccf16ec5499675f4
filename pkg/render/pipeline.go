package render

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matst80/inventory-card/pkg/filter"
	"github.com/matst80/inventory-card/pkg/sorting"
	"github.com/matst80/inventory-card/pkg/tracking"
	"github.com/matst80/inventory-card/pkg/translations"
	"github.com/matst80/inventory-card/pkg/types"
)

const (
	// RenderDebounceDelay coalesces rapid state changes into one render.
	RenderDebounceDelay = 100 * time.Millisecond
	// RefreshAfterSaveDelay is the one-shot delay after an item save.
	RefreshAfterSaveDelay = 50 * time.Millisecond
	// SearchDebounceDelay is the quiet interval on the search-input path.
	SearchDebounceDelay = 300 * time.Millisecond
)

var (
	rendersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_card_renders_total",
		Help: "The total number of full card renders",
	})
	renderErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_card_render_errors_total",
		Help: "The total number of renders that ended in an error card",
	})
	partialRendersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_card_partial_renders_total",
		Help: "The total number of item-list-only renders",
	})
)

// StateProvider is the card's view of the host platform state machine.
type StateProvider interface {
	Get(entityId string) (*types.EntityState, bool)
}

// ValidateItems sanitizes the raw item collection before filtering. Item
// schema validation itself belongs to the host integration.
type ValidateItems func([]types.InventoryItem) []types.InventoryItem

// Services bundles the collaborators one card render needs.
type Services struct {
	Filters  *filter.Store
	Engine   *filter.Engine
	Sorter   *sorting.Sorter
	Renderer Renderer
	Events   EventWiring
	Tracker  tracking.Tracker
}

func (s *Services) complete() bool {
	return s != nil && s.Filters != nil && s.Engine != nil && s.Sorter != nil &&
		s.Renderer != nil && s.Events != nil && s.Tracker != nil
}

// Pipeline drives the fetch-state, filter, sort, render cycle for a single
// card. It never lets an error escape to its caller: every failure path ends
// in a rendered error card.
type Pipeline struct {
	config   *types.CardConfig
	states   StateProvider
	services *Services
	manager  *translations.Manager
	validate ValidateItems

	mu           sync.RWMutex
	translations types.TranslationData

	languageGen atomic.Uint64
	debounce    *Debounce
	search      *Debounce
}

// NewPipeline wires a pipeline with non-optional dependencies. The
// translation manager may be nil, localization then always uses fallbacks.
func NewPipeline(config *types.CardConfig, states StateProvider, services *Services, manager *translations.Manager, validate ValidateItems) (*Pipeline, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if states == nil {
		return nil, fmt.Errorf("missing state provider")
	}
	if !services.complete() {
		return nil, fmt.Errorf("incomplete service bundle")
	}
	if validate == nil {
		validate = func(items []types.InventoryItem) []types.InventoryItem { return items }
	}
	return &Pipeline{
		config:   config,
		states:   states,
		services: services,
		manager:  manager,
		validate: validate,
		debounce: NewDebounce(RenderDebounceDelay),
		search:   NewDebounce(SearchDebounceDelay),
	}, nil
}

// EntityId returns the entity this pipeline renders.
func (p *Pipeline) EntityId() string {
	return p.config.Entity
}

// Translations returns the currently applied translation tree.
func (p *Pipeline) Translations() types.TranslationData {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.translations
}

// Render runs one full pipeline cycle.
func (p *Pipeline) Render(ctx context.Context) {
	if p == nil || p.config == nil || p.states == nil || p.services == nil || p.services.Renderer == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("Error rendering card for %s: %v", p.config.Entity, r)
			p.renderError(p.localize("errors.render_error", nil, "An error occurred while rendering the card"))
		}
	}()

	entityId := p.config.Entity
	entityState, ok := p.states.Get(entityId)
	if !ok {
		p.renderError(p.localize("errors.entity_not_found",
			map[string]any{"entity": entityId},
			fmt.Sprintf("Entity %s not found. Please check your configuration.", entityId)))
		return
	}

	svc := p.services
	if !svc.complete() {
		p.renderError(p.localize("errors.initialization_failed", nil, "Failed to initialize card components"))
		return
	}
	currentFilters := svc.Filters.GetCurrentFilters(ctx, entityId)
	sortMethod := p.effectiveSortMethod(currentFilters)
	tree := p.Translations()

	allItems := p.validate(entityState.Items())
	filteredItems := svc.Engine.FilterItems(allItems, currentFilters)
	sortedItems := svc.Sorter.SortItems(filteredItems, sortMethod, tree)

	view := &CardView{
		EntityId:     entityId,
		FriendlyName: entityState.Attributes.FriendlyName,
		Items:        sortedItems,
		Filters:      currentFilters,
		SortMethod:   sortMethod,
		Minimal:      p.config.Minimal,
		Indicators:   Indicators(currentFilters, tree),
		Translations: tree,
		ClickAction:  p.config.ItemClickAction,
	}
	if err := svc.Renderer.RenderCard(view); err != nil {
		log.Printf("Error rendering card for %s: %v", entityId, err)
		p.renderError(p.localize("errors.render_error", nil, "An error occurred while rendering the card"))
		return
	}

	// The output was replaced, rewire the interaction listeners.
	if err := svc.Events.SetupEventListeners(); err != nil {
		log.Printf("Error attaching event listeners for %s: %v", entityId, err)
	}

	svc.Tracker.TrackUserInteraction(entityId)
	rendersTotal.Inc()
}

// DebouncedRender coalesces rapid external triggers, the render fires once
// after the quiet interval using the state at that time. While a user
// interaction is in flight the render is deferred, not dropped: it retries
// after another quiet interval until the interaction window has passed.
func (p *Pipeline) DebouncedRender(ctx context.Context) {
	p.debounce.Trigger(func() { p.renderUnlessInteracting(ctx) })
}

func (p *Pipeline) renderUnlessInteracting(ctx context.Context) {
	if p.services != nil && p.services.Tracker != nil &&
		p.services.Tracker.InteractionInFlight(p.config.Entity) {
		p.debounce.Trigger(func() { p.renderUnlessInteracting(ctx) })
		return
	}
	p.Render(ctx)
}

// RefreshAfterSave fires one render after a short fixed delay. It is not
// debounced against other calls.
func (p *Pipeline) RefreshAfterSave(ctx context.Context) {
	time.AfterFunc(RefreshAfterSaveDelay, func() { p.Render(ctx) })
}

// UpdateItemsOnly refreshes only the item-list region. Renderers without a
// partial path get a full render instead.
func (p *Pipeline) UpdateItemsOnly(ctx context.Context) {
	itemRenderer, ok := p.services.Renderer.(ItemListRenderer)
	if !ok {
		p.Render(ctx)
		return
	}

	entityId := p.config.Entity
	entityState, ok := p.states.Get(entityId)
	if !ok {
		return
	}

	svc := p.services
	currentFilters := svc.Filters.GetCurrentFilters(ctx, entityId)
	sortMethod := p.effectiveSortMethod(currentFilters)
	tree := p.Translations()

	filteredItems := svc.Engine.FilterItems(p.validate(entityState.Items()), currentFilters)
	view := &CardView{
		EntityId:     entityId,
		Items:        svc.Sorter.SortItems(filteredItems, sortMethod, tree),
		Filters:      currentFilters,
		SortMethod:   sortMethod,
		Minimal:      p.config.Minimal,
		Indicators:   Indicators(currentFilters, tree),
		Translations: tree,
	}
	if err := itemRenderer.RenderItemList(view); err != nil {
		log.Printf("Error updating item list for %s: %v", entityId, err)
		return
	}
	partialRendersTotal.Inc()
}

// SetSearchText stores the search text after the input quiet interval and
// triggers a render. Each keystroke restarts the interval.
func (p *Pipeline) SetSearchText(ctx context.Context, text string) {
	p.search.Trigger(func() {
		entityId := p.config.Entity
		filters := p.services.Filters.GetCurrentFilters(ctx, entityId)
		filters.SearchText = text
		if err := p.services.Filters.SaveFilters(ctx, entityId, filters); err != nil {
			log.Printf("Error saving search text for %s: %v", entityId, err)
		}
		p.Render(ctx)
	})
}

// SetLanguage loads the translation tree for a language in the background
// and re-renders once it applies. A load superseded by a newer language
// switch is discarded.
func (p *Pipeline) SetLanguage(ctx context.Context, language string) {
	if p.manager == nil {
		return
	}
	if language == "" {
		language = "en"
	}
	generation := p.languageGen.Add(1)
	go func() {
		tree := p.manager.LoadTranslations(ctx, language)
		if p.languageGen.Load() != generation {
			return
		}
		p.mu.Lock()
		p.translations = tree
		p.mu.Unlock()
		p.Render(ctx)
	}()
}

// LoadTranslations fetches and applies a language synchronously, used on the
// initial render.
func (p *Pipeline) LoadTranslations(ctx context.Context, language string) {
	if p.manager == nil {
		return
	}
	if language == "" {
		language = "en"
	}
	generation := p.languageGen.Add(1)
	tree := p.manager.LoadTranslations(ctx, language)
	if p.languageGen.Load() != generation {
		return
	}
	p.mu.Lock()
	p.translations = tree
	p.mu.Unlock()
}

// Cleanup cancels pending timers.
func (p *Pipeline) Cleanup() {
	p.debounce.Cancel()
	p.search.Cancel()
}

// FlushPending runs any pending debounced work immediately.
func (p *Pipeline) FlushPending() {
	p.debounce.Flush()
	p.search.Flush()
}

func (p *Pipeline) effectiveSortMethod(filters types.FilterState) string {
	if p.config.SortMethod != "" {
		return p.config.SortMethod
	}
	if filters.SortMethod != "" {
		return filters.SortMethod
	}
	return types.DefaultSortMethod
}

func (p *Pipeline) renderError(message string) {
	renderErrorsTotal.Inc()
	p.services.Renderer.RenderError(message)
}

func (p *Pipeline) localize(key string, params map[string]any, fallback string) string {
	return translations.Localize(p.Translations(), key, params, fallback)
}

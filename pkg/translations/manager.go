package translations

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/sync/singleflight"

	"github.com/matst80/inventory-card/pkg/types"
)

// CardName is the id the card is published under, translation files live
// below paths derived from it.
const CardName = "simple-inventory-card-custom"

// Fetcher loads the translation document at one candidate location.
type Fetcher interface {
	Fetch(ctx context.Context, path string) (types.TranslationData, error)
}

// Manager owns the per-language translation cache. Concurrent loads for the
// same language share one fetch sequence, completed loads are cached for the
// manager's lifetime or until Clear.
type Manager struct {
	cardName string
	fetcher  Fetcher

	mu          sync.Mutex
	cache       map[string]types.TranslationData
	generations map[string]uint64
	group       singleflight.Group
}

func NewManager(fetcher Fetcher) *Manager {
	return &Manager{
		cardName:    CardName,
		fetcher:     fetcher,
		cache:       make(map[string]types.TranslationData),
		generations: make(map[string]uint64),
	}
}

// LoadTranslations returns the translation tree for a language. Every
// failure path ends in a usable tree: unreachable sources fall back to "en"
// (one hop), then to an empty tree.
func (m *Manager) LoadTranslations(ctx context.Context, language string) types.TranslationData {
	key := m.cacheKey(language)

	m.mu.Lock()
	if tree, ok := m.cache[key]; ok {
		m.mu.Unlock()
		return tree
	}
	m.generations[language]++
	generation := m.generations[language]
	m.mu.Unlock()

	result, _, _ := m.group.Do(key, func() (any, error) {
		m.mu.Lock()
		if tree, ok := m.cache[key]; ok {
			m.mu.Unlock()
			return tree, nil
		}
		m.mu.Unlock()
		return m.loadChain(ctx, language), nil
	})
	tree := result.(types.TranslationData)

	m.mu.Lock()
	// A Clear or newer load for this language supersedes ours, keep the
	// tree for this caller but do not cache it.
	if m.generations[language] == generation {
		m.cache[key] = tree
	}
	m.mu.Unlock()

	return tree
}

// Clear drops all cached trees, pending loads are superseded.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache = make(map[string]types.TranslationData)
	for language := range m.generations {
		m.generations[language]++
	}
}

func (m *Manager) loadChain(ctx context.Context, language string) types.TranslationData {
	for _, path := range m.candidatePaths(language) {
		tree, err := m.fetcher.Fetch(ctx, path)
		if err != nil {
			log.Printf("Failed to load translations from %s: %v", path, err)
			continue
		}
		return tree
	}

	if language != "en" {
		return m.LoadTranslations(ctx, "en")
	}
	return types.TranslationData{}
}

// candidatePaths lists the source locations in priority order: the packaged
// community path, then the secondary hosting path, each with and without the
// translations subdirectory.
func (m *Manager) candidatePaths(language string) []string {
	return []string{
		fmt.Sprintf("/local/community/%s/translations/%s.json", m.cardName, language),
		fmt.Sprintf("/hacsfiles/%s/translations/%s.json", m.cardName, language),
		fmt.Sprintf("/local/community/%s/%s.json", m.cardName, language),
		fmt.Sprintf("/hacsfiles/%s/%s.json", m.cardName, language),
	}
}

func (m *Manager) cacheKey(language string) string {
	return m.cardName + "-" + language
}

// HTTPFetcher fetches translation documents from the host platform over
// HTTP, retrying transient failures.
type HTTPFetcher struct {
	BaseUrl string
	client  *retryablehttp.Client
}

func NewHTTPFetcher(baseUrl string) *HTTPFetcher {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.Logger = nil
	return &HTTPFetcher{BaseUrl: baseUrl, client: client}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, path string) (types.TranslationData, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, f.BaseUrl+path, nil)
	if err != nil {
		return nil, err
	}

	res, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", res.StatusCode)
	}

	tree := types.TranslationData{}
	if err := json.NewDecoder(res.Body).Decode(&tree); err != nil {
		return nil, fmt.Errorf("translation document is not an object: %w", err)
	}
	return tree, nil
}

package aggregator

import (
	"context"
	"sync"

	"github.com/newsdeck/newsdeck/model"
	"github.com/newsdeck/newsdeck/provider"
	Logger "github.com/newsdeck/newsdeck/utils/log"
)

// ArticleStore is the slice of storage the orchestrator needs: idempotent
// upsert keyed by the article's url.
type ArticleStore interface {
	UpsertByUrl(article *model.Article) error
}

// QueryCache memoizes read-through query results. Optional.
type QueryCache interface {
	Get(source provider.Source, q provider.Query) ([]model.Article, bool)
	Set(source provider.Source, q provider.Query, articles []model.Article)
}

// Aggregator fans out to provider adapters and either persists the
// normalized results (bulk path) or hands them back to the caller (query
// paths).
type Aggregator struct {
	registry *provider.Registry
	store    ArticleStore
	cache    QueryCache
}

func New(registry *provider.Registry, store ArticleStore) *Aggregator {
	return &Aggregator{registry: registry, store: store}
}

// WithCache enables the optional read-through cache on the query path.
func (a *Aggregator) WithCache(cache QueryCache) *Aggregator {
	a.cache = cache
	return a
}

// FetchSummary reports what one bulk run persisted. Individual articles are
// never returned on this path.
type FetchSummary struct {
	Stored    int                     `json:"stored"`
	Failed    int                     `json:"failed"`
	PerSource map[provider.Source]int `json:"per_source"`
}

// AggregateAndStore queries every registered provider with default
// parameters and upserts each normalized article keyed by url. Providers
// run concurrently and are isolated from each other: one provider failing,
// or one item refusing to store, never aborts the sibling work. Bad items
// are logged and skipped.
func (a *Aggregator) AggregateAndStore(ctx context.Context) (*FetchSummary, error) {
	summary := &FetchSummary{PerSource: make(map[provider.Source]int)}

	var wg sync.WaitGroup
	var mu sync.Mutex
	for _, adapter := range a.registry.All() {
		wg.Add(1)
		go func(adapter provider.Adapter) {
			defer wg.Done()

			articles, err := adapter.Search(ctx, provider.Query{})
			if err != nil {
				Logger.Log.Error("bulk fetch failed for source ", adapter.Source(), ": ", err)
				mu.Lock()
				summary.PerSource[adapter.Source()] = 0
				mu.Unlock()
				return
			}

			stored, failed := 0, 0
			for i := range articles {
				article := articles[i]
				if err := a.store.UpsertByUrl(&article); err != nil {
					Logger.Log.Warn("skipping article from ", adapter.Source(), ": ", err)
					failed++
					continue
				}
				stored++
			}
			mu.Lock()
			summary.Stored += stored
			summary.Failed += failed
			summary.PerSource[adapter.Source()] = stored
			mu.Unlock()
		}(adapter)
	}
	wg.Wait()

	return summary, nil
}

// QueryProvider routes one query to exactly one provider and returns the
// normalized list without persisting anything. An unknown discriminator is
// rejected before any network call.
func (a *Aggregator) QueryProvider(ctx context.Context, source string, q provider.Query) ([]model.Article, error) {
	src, err := provider.ParseSource(source)
	if err != nil {
		return nil, err
	}
	adapter, err := a.registry.Get(src)
	if err != nil {
		return nil, err
	}

	if a.cache != nil {
		if articles, ok := a.cache.Get(src, q); ok {
			return articles, nil
		}
	}
	articles, err := adapter.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	if a.cache != nil {
		a.cache.Set(src, q, articles)
	}
	return articles, nil
}

// QueryProviderById routes a single-article lookup to one provider. Zero
// provider results surface as provider.ErrNotFound.
func (a *Aggregator) QueryProviderById(ctx context.Context, source string, id string) (*model.Article, error) {
	src, err := provider.ParseSource(source)
	if err != nil {
		return nil, err
	}
	adapter, err := a.registry.Get(src)
	if err != nil {
		return nil, err
	}
	return adapter.Lookup(ctx, id)
}

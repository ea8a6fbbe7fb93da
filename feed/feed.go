package feed

import (
	"context"
	"strings"
	"sync"

	"github.com/newsdeck/newsdeck/model"
	"github.com/newsdeck/newsdeck/provider"
)

const DefaultPerPage = 10

// PreferenceStore is the slice of storage the builder needs.
type PreferenceStore interface {
	GetByUserId(userId string) (*model.UserPreference, error)
}

// ProviderQuerier is the single-source query mode of the orchestrator.
type ProviderQuerier interface {
	QueryProvider(ctx context.Context, source string, q provider.Query) ([]model.Article, error)
}

// Builder assembles the personalized feed: it reads the user's saved
// preferences, queries each selected source, concatenates the result lists
// in the order the user listed the sources and paginates the merged list.
// The merge is intentionally not deduplicated across providers, only
// storage dedupes by url.
type Builder struct {
	prefs   PreferenceStore
	querier ProviderQuerier
}

func NewBuilder(prefs PreferenceStore, querier ProviderQuerier) *Builder {
	return &Builder{prefs: prefs, querier: querier}
}

type PagedArticles struct {
	Data        []model.Article `json:"data"`
	Total       int             `json:"total"`
	PerPage     int             `json:"per_page"`
	CurrentPage int             `json:"current_page"`
}

// BuildFeed builds one page of the personalized feed. Total always reflects
// the full concatenated count, not the page size.
func (b *Builder) BuildFeed(ctx context.Context, userId string, page, perPage int) (*PagedArticles, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}

	pref, err := b.prefs.GetByUserId(userId)
	if err != nil {
		return nil, err
	}

	sources, err := model.DecodeList(pref.NewsSources)
	if err != nil {
		return nil, provider.NewClientInputError("stored news sources are malformed")
	}
	if len(sources) == 0 {
		return nil, provider.NewClientInputError("no news sources selected, update preferences first")
	}
	// Validate every discriminator up front so a single bad entry never
	// triggers any provider call.
	for _, s := range sources {
		if _, err := provider.ParseSource(s); err != nil {
			return nil, err
		}
	}

	categories, err := model.DecodeList(pref.Categories)
	if err != nil {
		return nil, provider.NewClientInputError("stored categories are malformed")
	}
	authors, err := model.DecodeList(pref.Authors)
	if err != nil {
		return nil, provider.NewClientInputError("stored authors are malformed")
	}
	q := provider.Query{
		Category: strings.Join(categories, ","),
		Author:   strings.Join(authors, ","),
	}

	// Providers are queried concurrently but the merged order only depends
	// on the preference's source order, never on completion time.
	results := make([][]model.Article, len(sources))
	errs := make([]error, len(sources))
	var wg sync.WaitGroup
	for i, source := range sources {
		wg.Add(1)
		go func(i int, source string) {
			defer wg.Done()
			results[i], errs[i] = b.querier.QueryProvider(ctx, source, q)
		}(i, source)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	merged := make([]model.Article, 0)
	for _, list := range results {
		merged = append(merged, list...)
	}

	total := len(merged)
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	return &PagedArticles{
		Data:        merged[start:end],
		Total:       total,
		PerPage:     perPage,
		CurrentPage: page,
	}, nil
}

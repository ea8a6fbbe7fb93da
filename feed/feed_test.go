package feed

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/newsdeck/newsdeck/model"
	"github.com/newsdeck/newsdeck/provider"
	"github.com/newsdeck/newsdeck/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

type fakePreferenceStore struct {
	pref *model.UserPreference
	err  error
}

func (f *fakePreferenceStore) GetByUserId(userId string) (*model.UserPreference, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.pref, nil
}

type recordedQuery struct {
	source string
	query  provider.Query
}

// fakeQuerier returns a per-source canned list and records every call.
type fakeQuerier struct {
	mu      sync.Mutex
	results map[string][]model.Article
	errs    map[string]error
	calls   []recordedQuery
}

func (f *fakeQuerier) QueryProvider(ctx context.Context, source string, q provider.Query) ([]model.Article, error) {
	if _, err := provider.ParseSource(source); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.calls = append(f.calls, recordedQuery{source: source, query: q})
	f.mu.Unlock()
	if err := f.errs[source]; err != nil {
		return nil, err
	}
	return f.results[source], nil
}

func prefWith(sources, categories, authors []string) *model.UserPreference {
	return &model.UserPreference{
		UserId:      "user_1",
		NewsSources: model.EncodeList(sources),
		Categories:  model.EncodeList(categories),
		Authors:     model.EncodeList(authors),
	}
}

func articleList(source string, n int) []model.Article {
	articles := make([]model.Article, 0, n)
	for i := 0; i < n; i++ {
		articles = append(articles, model.Article{
			Source: source,
			Url:    fmt.Sprintf("https://%s.example.com/%d", source, i),
		})
	}
	return articles
}

func TestBuildFeedPagination(t *testing.T) {
	// 25 articles across two sources, page 2 of 10 must be items 11-20 of
	// the concatenated list with the full total.
	querier := &fakeQuerier{results: map[string][]model.Article{
		"newsapi":  articleList("newsapi", 15),
		"guardian": articleList("guardian", 10),
	}}
	builder := NewBuilder(&fakePreferenceStore{pref: prefWith([]string{"newsapi", "guardian"}, nil, nil)}, querier)

	paged, err := builder.BuildFeed(context.Background(), "user_1", 2, 10)
	require.NoError(t, err)
	assert.Equal(t, 25, paged.Total)
	assert.Equal(t, 10, paged.PerPage)
	assert.Equal(t, 2, paged.CurrentPage)
	require.Len(t, paged.Data, 10)
	// items 11-15 are the newsapi tail, 16-20 the guardian head
	assert.Equal(t, "https://newsapi.example.com/10", paged.Data[0].Url)
	assert.Equal(t, "https://guardian.example.com/0", paged.Data[5].Url)
}

func TestBuildFeedDefaults(t *testing.T) {
	querier := &fakeQuerier{results: map[string][]model.Article{
		"newsapi": articleList("newsapi", 12),
	}}
	builder := NewBuilder(&fakePreferenceStore{pref: prefWith([]string{"newsapi"}, nil, nil)}, querier)

	paged, err := builder.BuildFeed(context.Background(), "user_1", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, paged.CurrentPage)
	assert.Equal(t, DefaultPerPage, paged.PerPage)
	assert.Len(t, paged.Data, DefaultPerPage)
	assert.Equal(t, 12, paged.Total)
}

func TestBuildFeedPageBeyondEnd(t *testing.T) {
	querier := &fakeQuerier{results: map[string][]model.Article{
		"newsapi": articleList("newsapi", 3),
	}}
	builder := NewBuilder(&fakePreferenceStore{pref: prefWith([]string{"newsapi"}, nil, nil)}, querier)

	paged, err := builder.BuildFeed(context.Background(), "user_1", 5, 10)
	require.NoError(t, err)
	assert.Empty(t, paged.Data)
	assert.Equal(t, 3, paged.Total)
}

func TestBuildFeedRequiresSources(t *testing.T) {
	querier := &fakeQuerier{}

	t.Run("empty news_sources fails even with categories set", func(t *testing.T) {
		builder := NewBuilder(&fakePreferenceStore{pref: prefWith([]string{}, []string{"tech"}, []string{"jane"})}, querier)
		_, err := builder.BuildFeed(context.Background(), "user_1", 1, 10)
		require.Error(t, err)
		_, ok := err.(*provider.ClientInputError)
		assert.True(t, ok)
		assert.Empty(t, querier.calls)
	})

	t.Run("null news_sources fails the same way", func(t *testing.T) {
		pref := prefWith(nil, nil, nil)
		pref.NewsSources = datatypes.JSON(nil)
		builder := NewBuilder(&fakePreferenceStore{pref: pref}, querier)
		_, err := builder.BuildFeed(context.Background(), "user_1", 1, 10)
		require.Error(t, err)
		_, ok := err.(*provider.ClientInputError)
		assert.True(t, ok)
	})

	t.Run("malformed stored payload is a client input error", func(t *testing.T) {
		pref := prefWith(nil, nil, nil)
		pref.NewsSources = datatypes.JSON(`"not a list"`)
		builder := NewBuilder(&fakePreferenceStore{pref: pref}, querier)
		_, err := builder.BuildFeed(context.Background(), "user_1", 1, 10)
		require.Error(t, err)
		_, ok := err.(*provider.ClientInputError)
		assert.True(t, ok)
	})

	t.Run("unknown stored discriminator aborts before any call", func(t *testing.T) {
		local := &fakeQuerier{}
		builder := NewBuilder(&fakePreferenceStore{pref: prefWith([]string{"newsapi", "bogus"}, nil, nil)}, local)
		_, err := builder.BuildFeed(context.Background(), "user_1", 1, 10)
		require.Error(t, err)
		_, ok := err.(*provider.ClientInputError)
		assert.True(t, ok)
		assert.Empty(t, local.calls)
	})
}

func TestBuildFeedMissingPreference(t *testing.T) {
	builder := NewBuilder(&fakePreferenceStore{err: store.ErrPreferenceNotFound}, &fakeQuerier{})
	_, err := builder.BuildFeed(context.Background(), "user_1", 1, 10)
	assert.Equal(t, store.ErrPreferenceNotFound, err)
}

func TestBuildFeedEndToEnd(t *testing.T) {
	// preferences {sources: [newsapi, guardian], categories: [tech],
	// authors: []} query both providers with category "tech" and
	// concatenate newsapi's results before guardian's.
	querier := &fakeQuerier{results: map[string][]model.Article{
		"newsapi":  articleList("newsapi", 2),
		"guardian": articleList("guardian", 2),
	}}
	builder := NewBuilder(&fakePreferenceStore{pref: prefWith([]string{"newsapi", "guardian"}, []string{"tech"}, nil)}, querier)

	paged, err := builder.BuildFeed(context.Background(), "user_1", 1, 10)
	require.NoError(t, err)
	require.Len(t, paged.Data, 4)
	assert.Equal(t, "newsapi", paged.Data[0].Source)
	assert.Equal(t, "newsapi", paged.Data[1].Source)
	assert.Equal(t, "guardian", paged.Data[2].Source)
	assert.Equal(t, "guardian", paged.Data[3].Source)

	require.Len(t, querier.calls, 2)
	for _, call := range querier.calls {
		assert.Equal(t, "tech", call.query.Category)
		assert.Equal(t, "", call.query.Author)
	}
}

func TestBuildFeedJoinsMultiValueFilters(t *testing.T) {
	querier := &fakeQuerier{results: map[string][]model.Article{"newsapi": {}}}
	builder := NewBuilder(&fakePreferenceStore{
		pref: prefWith([]string{"newsapi"}, []string{"tech", "science"}, []string{"jane", "john"}),
	}, querier)

	_, err := builder.BuildFeed(context.Background(), "user_1", 1, 10)
	require.NoError(t, err)
	require.Len(t, querier.calls, 1)
	assert.Equal(t, "tech,science", querier.calls[0].query.Category)
	assert.Equal(t, "jane,john", querier.calls[0].query.Author)
}

func TestBuildFeedSurfacesProviderFailure(t *testing.T) {
	providerErr := &provider.ProviderError{Source: provider.SourceGuardian, Reason: provider.ReasonStatus, StatusCode: 500}
	querier := &fakeQuerier{
		results: map[string][]model.Article{"newsapi": articleList("newsapi", 1)},
		errs:    map[string]error{"guardian": providerErr},
	}
	builder := NewBuilder(&fakePreferenceStore{pref: prefWith([]string{"newsapi", "guardian"}, nil, nil)}, querier)

	_, err := builder.BuildFeed(context.Background(), "user_1", 1, 10)
	assert.Equal(t, providerErr, err)
}

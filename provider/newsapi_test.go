package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/newsdeck/newsdeck/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNewsAPI(ts *httptest.Server) *NewsAPIProvider {
	return &NewsAPIProvider{
		Client:   NewHttpClientWithTimeout(2 * time.Second),
		ApiKey:   "test-key",
		Endpoint: ts.URL,
	}
}

func TestNewsAPIBuildParams(t *testing.T) {
	p := &NewsAPIProvider{ApiKey: "test-key"}

	t.Run("unset optional fields are omitted entirely", func(t *testing.T) {
		params := p.BuildParams(Query{Keyword: "bitcoin"})
		assert.Equal(t, "bitcoin", params.Get("q"))
		assert.False(t, params.Has("authors"))
		assert.False(t, params.Has("from"))
		assert.False(t, params.Has("page"))
		assert.False(t, params.Has("pageSize"))
		assert.Equal(t, "test-key", params.Get("apiKey"))
	})

	t.Run("category becomes the keyword when no keyword given", func(t *testing.T) {
		params := p.BuildParams(Query{Category: "business"})
		assert.Equal(t, "business", params.Get("q"))
	})

	t.Run("empty query falls back to the default keyword", func(t *testing.T) {
		params := p.BuildParams(Query{})
		assert.Equal(t, "technology", params.Get("q"))
	})

	t.Run("all fields translate", func(t *testing.T) {
		from := time.Date(2021, 11, 5, 0, 0, 0, 0, time.UTC)
		params := p.BuildParams(Query{Keyword: "ai", Author: "jane,john", From: from, Page: 2, PageSize: 25})
		assert.Equal(t, "ai", params.Get("q"))
		assert.Equal(t, "jane,john", params.Get("authors"))
		assert.Equal(t, "2021-11-05", params.Get("from"))
		assert.Equal(t, "2", params.Get("page"))
		assert.Equal(t, "25", params.Get("pageSize"))
	})
}

func TestNormalizeNewsAPIArticle(t *testing.T) {
	t.Run("full item maps every field", func(t *testing.T) {
		item := NewsAPIArticle{
			Author:      "Jane Doe",
			Title:       "Go 2 released",
			Description: "finally",
			Url:         "https://example.com/go2",
			UrlToImage:  "https://example.com/go2.png",
			PublishedAt: "2021-11-05T10:55:28Z",
			Content:     "body",
		}
		article := NormalizeNewsAPIArticle(item)
		assert.Equal(t, "NewsAPI", article.Source)
		assert.Equal(t, "Go 2 released", article.Title)
		assert.Equal(t, "finally", article.Description)
		assert.Equal(t, "body", article.Content)
		assert.Equal(t, "Jane Doe", article.Author)
		assert.Equal(t, model.DefaultCategory, article.Category)
		assert.Equal(t, "https://example.com/go2", article.Url)
		assert.Equal(t, "https://example.com/go2.png", article.UrlToImage)
		require.NotNil(t, article.PublishedAt)
		assert.Equal(t, 2021, article.PublishedAt.Year())
	})

	t.Run("item missing every optional field normalizes to defaults", func(t *testing.T) {
		article := NormalizeNewsAPIArticle(NewsAPIArticle{Url: "https://example.com/a"})
		assert.Equal(t, "", article.Title)
		assert.Equal(t, "", article.Description)
		assert.Equal(t, "", article.Content)
		assert.Equal(t, "", article.Author)
		assert.Equal(t, "", article.UrlToImage)
		assert.Equal(t, model.DefaultCategory, article.Category)
		assert.Nil(t, article.PublishedAt)
	})
}

func TestNewsAPISearch(t *testing.T) {
	t.Run("decodes and normalizes the article list", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "golang", r.URL.Query().Get("q"))
			w.Write([]byte(`{"status":"ok","totalResults":1,"articles":[
				{"title":"hello","url":"https://example.com/hello","publishedAt":"2021-11-05T10:55:28Z"}]}`))
		}))
		defer ts.Close()

		articles, err := newTestNewsAPI(ts).Search(context.Background(), Query{Keyword: "golang"})
		require.NoError(t, err)
		require.Len(t, articles, 1)
		assert.Equal(t, "hello", articles[0].Title)
		assert.Equal(t, "NewsAPI", articles[0].Source)
	})

	t.Run("empty result list is not an error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":"ok","totalResults":0,"articles":[]}`))
		}))
		defer ts.Close()

		articles, err := newTestNewsAPI(ts).Search(context.Background(), Query{})
		require.NoError(t, err)
		assert.Empty(t, articles)
	})

	t.Run("non-2xx is a provider error carrying status and body", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"status":"error","code":"rateLimited"}`))
		}))
		defer ts.Close()

		_, err := newTestNewsAPI(ts).Search(context.Background(), Query{})
		require.Error(t, err)
		providerErr, ok := err.(*ProviderError)
		require.True(t, ok)
		assert.Equal(t, ReasonStatus, providerErr.Reason)
		assert.Equal(t, http.StatusTooManyRequests, providerErr.StatusCode)
		assert.Contains(t, providerErr.Body, "rateLimited")
	})

	t.Run("malformed json is a decode provider error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>definitely not json</html>`))
		}))
		defer ts.Close()

		_, err := newTestNewsAPI(ts).Search(context.Background(), Query{})
		require.Error(t, err)
		providerErr, ok := err.(*ProviderError)
		require.True(t, ok)
		assert.Equal(t, ReasonDecode, providerErr.Reason)
	})
}

func TestNewsAPILookup(t *testing.T) {
	t.Run("first match wins", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "some-opaque-id", r.URL.Query().Get("q"))
			w.Write([]byte(`{"status":"ok","totalResults":2,"articles":[
				{"title":"first","url":"https://example.com/1"},
				{"title":"second","url":"https://example.com/2"}]}`))
		}))
		defer ts.Close()

		article, err := newTestNewsAPI(ts).Lookup(context.Background(), "some-opaque-id")
		require.NoError(t, err)
		assert.Equal(t, "first", article.Title)
	})

	t.Run("zero results is not found", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":"ok","totalResults":0,"articles":[]}`))
		}))
		defer ts.Close()

		_, err := newTestNewsAPI(ts).Lookup(context.Background(), "nothing")
		assert.Equal(t, ErrNotFound, err)
	})
}

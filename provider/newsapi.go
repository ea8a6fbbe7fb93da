package provider

import (
	"context"
	"net/url"
	"strconv"

	"github.com/newsdeck/newsdeck/model"
)

const (
	newsAPIEndpoint = "https://newsapi.org/v2/everything"
	newsAPIName     = "NewsAPI"

	// NewsAPI rejects a query without any q, so an unfiltered request falls
	// back to this keyword.
	newsAPIDefaultKeyword = "technology"
)

// Should construct with ProviderBuilder.
type NewsAPIProvider struct {
	Client   HttpClient
	ApiKey   string
	Endpoint string
}

// Generated with tool: https://mholt.github.io/json-to-go/
type NewsAPIResponse struct {
	Status       string           `json:"status"`
	TotalResults int              `json:"totalResults"`
	Articles     []NewsAPIArticle `json:"articles"`
}

type NewsAPIArticle struct {
	Source struct {
		Id   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Url         string `json:"url"`
	UrlToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

func (p *NewsAPIProvider) Source() Source {
	return SourceNewsAPI
}

func (p *NewsAPIProvider) DisplayName() string {
	return newsAPIName
}

func (p *NewsAPIProvider) endpoint() string {
	if p.Endpoint != "" {
		return p.Endpoint
	}
	return newsAPIEndpoint
}

// BuildParams translates the generic query intent into NewsAPI's
// vocabulary: one free-text q plus a separate authors field. Category has
// no dedicated parameter here, it becomes the search keyword.
func (p *NewsAPIProvider) BuildParams(q Query) url.Values {
	keyword := q.Keyword
	if keyword == "" {
		keyword = q.Category
	}
	if keyword == "" {
		keyword = newsAPIDefaultKeyword
	}

	params := url.Values{}
	params.Set("q", keyword)
	if q.Author != "" {
		params.Set("authors", q.Author)
	}
	if !q.From.IsZero() {
		params.Set("from", q.From.Format("2006-01-02"))
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		params.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	params.Set("apiKey", p.ApiKey)
	return params
}

func (p *NewsAPIProvider) Search(ctx context.Context, q Query) ([]model.Article, error) {
	resp := &NewsAPIResponse{}
	if err := p.Client.GetJSON(ctx, SourceNewsAPI, p.endpoint(), p.BuildParams(q), resp); err != nil {
		return nil, err
	}
	articles := make([]model.Article, 0, len(resp.Articles))
	for _, item := range resp.Articles {
		articles = append(articles, NormalizeNewsAPIArticle(item))
	}
	return articles, nil
}

// Lookup searches with the opaque id as the query term and returns the
// first match. NewsAPI has no direct fetch-by-id endpoint.
func (p *NewsAPIProvider) Lookup(ctx context.Context, id string) (*model.Article, error) {
	articles, err := p.Search(ctx, Query{Keyword: id})
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return nil, ErrNotFound
	}
	return &articles[0], nil
}

// NormalizeNewsAPIArticle maps one raw NewsAPI item into the canonical
// Article. Pure, no I/O. NewsAPI exposes no section, so the category is
// always the default.
func NormalizeNewsAPIArticle(item NewsAPIArticle) model.Article {
	return model.Article{
		Source:      newsAPIName,
		Title:       item.Title,
		Description: item.Description,
		Content:     item.Content,
		Author:      item.Author,
		Category:    model.DefaultCategory,
		PublishedAt: parseTime(item.PublishedAt),
		Url:         item.Url,
		UrlToImage:  item.UrlToImage,
	}
}

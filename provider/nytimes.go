package provider

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/newsdeck/newsdeck/model"
)

const (
	nyTimesEndpoint = "https://api.nytimes.com/svc/search/v2/articlesearch.json"
	nyTimesName     = "New York Times"

	// Multimedia urls in article-search responses are relative to the main
	// site.
	nyTimesImagePrefix = "https://www.nytimes.com/"
)

// Should construct with ProviderBuilder.
type NYTimesProvider struct {
	Client   HttpClient
	ApiKey   string
	Endpoint string
}

type NYTimesResponse struct {
	Status   string `json:"status"`
	Response struct {
		Docs []NYTimesDoc `json:"docs"`
		Meta struct {
			Hits int `json:"hits"`
		} `json:"meta"`
	} `json:"response"`
}

type NYTimesDoc struct {
	Abstract      string `json:"abstract"`
	WebUrl        string `json:"web_url"`
	Snippet       string `json:"snippet"`
	LeadParagraph string `json:"lead_paragraph"`
	Multimedia    []struct {
		Url string `json:"url"`
	} `json:"multimedia"`
	Headline struct {
		Main string `json:"main"`
	} `json:"headline"`
	PubDate     string `json:"pub_date"`
	SectionName string `json:"section_name"`
	Byline      struct {
		Original string `json:"original"`
	} `json:"byline"`
}

func (p *NYTimesProvider) Source() Source {
	return SourceNYTimes
}

func (p *NYTimesProvider) DisplayName() string {
	return nyTimesName
}

func (p *NYTimesProvider) endpoint() string {
	if p.Endpoint != "" {
		return p.Endpoint
	}
	return nyTimesEndpoint
}

// BuildParams translates the generic query intent into article-search
// vocabulary: free-text q, a boolean fq filter over section/byline, and
// begin_date in YYYYMMDD.
func (p *NYTimesProvider) BuildParams(q Query) url.Values {
	params := url.Values{}
	if q.Keyword != "" {
		params.Set("q", q.Keyword)
	}
	var filters []string
	if q.Category != "" {
		filters = append(filters, fmt.Sprintf("section_name:(%q)", q.Category))
	}
	if q.Author != "" {
		filters = append(filters, fmt.Sprintf("byline:(%q)", q.Author))
	}
	if len(filters) > 0 {
		params.Set("fq", strings.Join(filters, " AND "))
	}
	if !q.From.IsZero() {
		params.Set("begin_date", q.From.Format("20060102"))
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	params.Set("api-key", p.ApiKey)
	return params
}

func (p *NYTimesProvider) Search(ctx context.Context, q Query) ([]model.Article, error) {
	resp := &NYTimesResponse{}
	if err := p.Client.GetJSON(ctx, SourceNYTimes, p.endpoint(), p.BuildParams(q), resp); err != nil {
		return nil, err
	}
	articles := make([]model.Article, 0, len(resp.Response.Docs))
	for _, doc := range resp.Response.Docs {
		articles = append(articles, NormalizeNYTimesDoc(doc))
	}
	return articles, nil
}

// Lookup searches with the opaque id as the query term and returns the
// first match, article-search has no direct fetch-by-id endpoint.
func (p *NYTimesProvider) Lookup(ctx context.Context, id string) (*model.Article, error) {
	articles, err := p.Search(ctx, Query{Keyword: id})
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return nil, ErrNotFound
	}
	return &articles[0], nil
}

// NormalizeNYTimesDoc maps one raw article-search doc into the canonical
// Article. Pure, no I/O. The first multimedia entry wins, relative paths
// get the site prefix.
func NormalizeNYTimesDoc(doc NYTimesDoc) model.Article {
	category := doc.SectionName
	if category == "" {
		category = model.DefaultCategory
	}
	image := ""
	if len(doc.Multimedia) > 0 && doc.Multimedia[0].Url != "" {
		image = doc.Multimedia[0].Url
		if !strings.HasPrefix(image, "http") {
			image = nyTimesImagePrefix + image
		}
	}
	return model.Article{
		Source:      nyTimesName,
		Title:       doc.Headline.Main,
		Description: doc.Abstract,
		Content:     doc.LeadParagraph,
		Author:      doc.Byline.Original,
		Category:    category,
		PublishedAt: parseTime(doc.PubDate),
		Url:         doc.WebUrl,
		UrlToImage:  image,
	}
}

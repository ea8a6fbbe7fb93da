package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
	"github.com/newsdeck/newsdeck/aggregator"
	"github.com/newsdeck/newsdeck/feed"
	"github.com/newsdeck/newsdeck/model"
	"github.com/newsdeck/newsdeck/provider"
	"github.com/newsdeck/newsdeck/store"
)

// ArticleService is the orchestrator surface the HTTP layer consumes.
type ArticleService interface {
	AggregateAndStore(ctx context.Context) (*aggregator.FetchSummary, error)
	QueryProvider(ctx context.Context, source string, q provider.Query) ([]model.Article, error)
	QueryProviderById(ctx context.Context, source string, id string) (*model.Article, error)
}

type FeedService interface {
	BuildFeed(ctx context.Context, userId string, page, perPage int) (*feed.PagedArticles, error)
}

type PreferenceService interface {
	GetByUserId(userId string) (*model.UserPreference, error)
	Upsert(userId string, sources, categories, authors []string) (*model.UserPreference, error)
}

type Handler struct {
	Articles    ArticleService
	Feed        FeedService
	Preferences PreferenceService
}

func NewHandler(articles ArticleService, feedService FeedService, preferences PreferenceService) *Handler {
	return &Handler{Articles: articles, Feed: feedService, Preferences: preferences}
}

// abortWithError maps the error taxonomy onto HTTP statuses. Every failure
// body is a JSON object with a human readable message plus a diagnostic
// error string, never a stack trace.
func abortWithError(c *gin.Context, err error) {
	var clientErr *provider.ClientInputError
	var providerErr *provider.ProviderError
	switch {
	case errors.As(err, &clientErr):
		c.JSON(http.StatusBadRequest, gin.H{"message": clientErr.Message, "error": ""})
	case errors.Is(err, store.ErrPreferenceNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"message": "no preferences saved for this user", "error": err.Error()})
	case errors.Is(err, provider.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "article not found", "error": ""})
	case errors.As(err, &providerErr):
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to fetch articles from provider", "error": providerErr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error", "error": err.Error()})
	}
}

func queryFromContext(c *gin.Context) (provider.Query, error) {
	q := provider.Query{
		Keyword:  c.Query("keyword"),
		Category: c.Query("category"),
		Author:   c.Query("author"),
	}
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return q, provider.NewClientInputError("invalid from date %q, expected YYYY-MM-DD", raw)
		}
		q.From = from
	}
	q.Page = intQuery(c, "page", 0)
	q.PageSize = intQuery(c, "pagesize", intQuery(c, "page_size", 0))
	return q, nil
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

// GetArticles handles GET /articles, the read-through single-provider
// query. Nothing on this path is persisted.
func (h *Handler) GetArticles(c *gin.Context) {
	q, err := queryFromContext(c)
	if err != nil {
		abortWithError(c, err)
		return
	}
	articles, err := h.Articles.QueryProvider(c.Request.Context(), c.Query("source"), q)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": articles, "total": len(articles)})
}

// GetArticleById handles GET /articles/:id.
func (h *Handler) GetArticleById(c *gin.Context) {
	article, err := h.Articles.QueryProviderById(c.Request.Context(), c.Query("source"), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": article})
}

// FetchArticles handles GET /articles/fetch, the bulk fetch-and-persist
// trigger. It returns a summary, not the articles themselves.
func (h *Handler) FetchArticles(c *gin.Context) {
	summary, err := h.Articles.AggregateAndStore(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "fetch completed", "summary": summary})
}

// GetPersonalizedFeed handles GET /user/personalized-feed.
func (h *Handler) GetPersonalizedFeed(c *gin.Context) {
	userId, ok := authenticatedUser(c)
	if !ok {
		return
	}
	page := intQuery(c, "page", 1)
	perPage := intQuery(c, "per_page", feed.DefaultPerPage)
	paged, err := h.Feed.BuildFeed(c.Request.Context(), userId, page, perPage)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, paged)
}

type preferenceRequest struct {
	NewsSources []string `json:"news_sources"`
	Categories  []string `json:"categories"`
	Authors     []string `json:"authors"`
}

type preferenceResponse struct {
	UserId    string    `json:"user_id"`
	Sources   []string  `json:"news_sources"`
	Cats      []string  `json:"categories"`
	Writers   []string  `json:"authors"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newPreferenceResponse(pref *model.UserPreference) (*preferenceResponse, error) {
	resp := &preferenceResponse{}
	if err := copier.Copy(resp, pref); err != nil {
		return nil, err
	}
	// The list fields are stored json-encoded and need explicit decoding.
	var err error
	if resp.Sources, err = model.DecodeList(pref.NewsSources); err != nil {
		return nil, err
	}
	if resp.Cats, err = model.DecodeList(pref.Categories); err != nil {
		return nil, err
	}
	if resp.Writers, err = model.DecodeList(pref.Authors); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetPreferences handles GET /user/preferences.
func (h *Handler) GetPreferences(c *gin.Context) {
	userId, ok := authenticatedUser(c)
	if !ok {
		return
	}
	pref, err := h.Preferences.GetByUserId(userId)
	if err != nil {
		abortWithError(c, err)
		return
	}
	resp, err := newPreferenceResponse(pref)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SavePreferences handles POST /user/preferences. Source discriminators are
// validated on the way in so the feed path never reads garbage it could
// have rejected here.
func (h *Handler) SavePreferences(c *gin.Context) {
	userId, ok := authenticatedUser(c)
	if !ok {
		return
	}
	var req preferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, provider.NewClientInputError("invalid preference payload: %s", err.Error()))
		return
	}
	for _, source := range req.NewsSources {
		if _, err := provider.ParseSource(source); err != nil {
			abortWithError(c, err)
			return
		}
	}
	pref, err := h.Preferences.Upsert(userId, req.NewsSources, req.Categories, req.Authors)
	if err != nil {
		abortWithError(c, err)
		return
	}
	resp, err := newPreferenceResponse(pref)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// authenticatedUser reads the user id the auth middleware stored in the
// "sub" header. The core trusts this identity and performs no further
// authorization checks.
func authenticatedUser(c *gin.Context) (string, bool) {
	userId := c.Request.Header.Get("sub")
	if userId == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "missing authenticated user", "error": ""})
		return "", false
	}
	return userId, true
}

package store

import (
	"github.com/google/uuid"
	"github.com/newsdeck/newsdeck/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// articleUpdateColumns are the non-key columns refreshed when a fetched
// article collides with an existing row, last write wins.
var articleUpdateColumns = []string{
	"source", "title", "description", "content", "author",
	"category", "published_at", "url_to_image", "updated_at",
}

type ArticleStore struct {
	db *gorm.DB
}

func NewArticleStore(db *gorm.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

// UpsertByUrl inserts the article or, when a row with the same url already
// exists, overwrites its non-key fields. Safe under concurrent calls, the
// conflict resolution happens inside postgres.
func (s *ArticleStore) UpsertByUrl(article *model.Article) error {
	if article.Url == "" {
		return errors.New("cannot upsert article without url")
	}
	if article.Id == "" {
		article.Id = uuid.New().String()
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "url"}},
		DoUpdates: clause.AssignmentColumns(articleUpdateColumns),
	}).Create(article).Error
	return errors.Wrap(err, "fail to upsert article")
}

// CountArticles returns the number of stored articles.
func (s *ArticleStore) CountArticles() (int64, error) {
	var count int64
	err := s.db.Model(&model.Article{}).Count(&count).Error
	return count, errors.Wrap(err, "fail to count articles")
}

// GetByUrl loads one article by its natural key.
func (s *ArticleStore) GetByUrl(url string) (*model.Article, error) {
	var article model.Article
	if err := s.db.Where("url = ?", url).First(&article).Error; err != nil {
		return nil, errors.Wrap(err, "fail to load article by url")
	}
	return &article, nil
}

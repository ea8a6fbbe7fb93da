package store

import (
	"errors"

	"github.com/google/uuid"
	"github.com/newsdeck/newsdeck/model"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrPreferenceNotFound distinguishes "user never saved preferences" from
// any real storage failure. The feed builder maps it to a client-facing
// error.
var ErrPreferenceNotFound = errors.New("user preference not found")

var preferenceUpdateColumns = []string{
	"news_sources", "categories", "authors", "updated_at",
}

type PreferenceStore struct {
	db *gorm.DB
}

func NewPreferenceStore(db *gorm.DB) *PreferenceStore {
	return &PreferenceStore{db: db}
}

func (s *PreferenceStore) GetByUserId(userId string) (*model.UserPreference, error) {
	var pref model.UserPreference
	err := s.db.Where("user_id = ?", userId).First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPreferenceNotFound
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "fail to load user preference")
	}
	return &pref, nil
}

// Upsert stores the user's preference lists, one row per user. Nil lists
// are stored as empty lists so reads never have to special-case them.
func (s *PreferenceStore) Upsert(userId string, sources, categories, authors []string) (*model.UserPreference, error) {
	pref := model.UserPreference{
		Id:          uuid.New().String(),
		UserId:      userId,
		NewsSources: model.EncodeList(sources),
		Categories:  model.EncodeList(categories),
		Authors:     model.EncodeList(authors),
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns(preferenceUpdateColumns),
	}).Create(&pref).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "fail to upsert user preference")
	}
	return s.GetByUserId(userId)
}

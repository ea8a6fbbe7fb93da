package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

/*

UserPreference holds one user's personalized feed settings.

UserId: the authenticated user this preference belongs to, one row per user
NewsSources: json-encoded list of provider discriminators ("newsapi", ...)
Categories: json-encoded list of category filters
Authors: json-encoded list of author filters

An absent or empty list means "no filter on that dimension", except
NewsSources: the personalized feed is undefined without at least one source.
*/

type UserPreference struct {
	Id          string         `gorm:"primaryKey" json:"-"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	UserId      string         `gorm:"uniqueIndex;not null" json:"user_id"`
	NewsSources datatypes.JSON `json:"news_sources"`
	Categories  datatypes.JSON `json:"categories"`
	Authors     datatypes.JSON `json:"authors"`
}

// DecodeList decodes one of the json-encoded preference lists. A null or
// empty payload decodes to an empty list rather than an error.
func DecodeList(payload datatypes.JSON) ([]string, error) {
	if len(payload) == 0 {
		return []string{}, nil
	}
	var list []string
	if err := json.Unmarshal(payload, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// EncodeList is the inverse of DecodeList, nil encodes as an empty list.
func EncodeList(list []string) datatypes.JSON {
	if list == nil {
		list = []string{}
	}
	payload, _ := json.Marshal(list)
	return datatypes.JSON(payload)
}

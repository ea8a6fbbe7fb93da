package model

import "time"

/*

Article is one normalized piece of news fetched from an external provider.

Id: primary key
CreatedAt: time when entity is created, managed by gorm
UpdatedAt: time when entity is last upserted, managed by gorm

Source: display name of the provider, for example "NewsAPI", "Guardian",
		"New York Times". Free text in storage, callers supply it.
Title: article headline in plain text, empty if the provider omits it
Description: short summary, empty-string default
Content: body or snippet, empty-string default
Author: empty-string default when the provider has no authorship
Category: provider section when available, "General" otherwise
PublishedAt: normalized publication time, nil when the provider exposes no
		parseable date. Never defaulted to now.

Url: unique natural key. Re-fetching the same article, from the same or a
		different provider, updates the existing row instead of duplicating it.
UrlToImage: first usable media url, empty-string default
*/

type Article struct {
	Id          string     `gorm:"primaryKey" json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Source      string     `json:"source"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Content     string     `json:"content"`
	Author      string     `json:"author"`
	Category    string     `json:"category"`
	PublishedAt *time.Time `json:"published_at"`
	Url         string     `gorm:"uniqueIndex;not null" json:"url"`
	UrlToImage  string     `json:"url_to_image"`
}

// DefaultCategory is substituted whenever a provider has no section or
// category field for an item.
const DefaultCategory = "General"

// Package content holds the article domain: the records owned by the store,
// the identifier resolution used by lookups, and the service that tracks
// view counts and ranks articles by popularity.
package content

import "time"

// Media is an uploaded file referenced by articles, authors and categories.
type Media struct {
	ID              int64  `json:"id"`
	URL             string `json:"url"`
	AlternativeText string `json:"alternativeText,omitempty"`
	Width           int    `json:"width,omitempty"`
	Height          int    `json:"height,omitempty"`
	Mime            string `json:"mime,omitempty"`
}

// Author writes articles.
type Author struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar *Media `json:"avatar,omitempty"`
}

// Category groups articles.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	Image       *Media `json:"image,omitempty"`
}

// Article is the core record. A nil PublishedAt marks a draft.
type Article struct {
	ID          int64      `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Content     string     `json:"content"`
	Views       int64      `json:"views"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	Author   *Author   `json:"author,omitempty"`
	Category *Category `json:"category,omitempty"`
	Image    *Media    `json:"image,omitempty"`
	Blocks   []Block   `json:"blocks,omitempty"`
}

// Published reports whether the article has a publish timestamp.
func (a *Article) Published() bool {
	return a.PublishedAt != nil
}

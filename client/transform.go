package client

import (
	"time"

	"github.com/eringen/pressroom/wire"
)

// Defaults substituted when a relation or field is missing.
const (
	DefaultAuthorName   = "Daniel Alvarez"
	DefaultCategoryName = "General"
	DefaultAvatarURL    = "/default-avatar.png"
	DefaultImageURL     = ""
)

// Image is a resolved media reference.
type Image struct {
	URL string `json:"url"`
}

// DisplayArticle is the flat, presentation-ready form of an article.
type DisplayArticle struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Content     string       `json:"content"`
	Slug        string       `json:"slug"`
	Author      string       `json:"author"`
	Category    string       `json:"category"`
	PublishedAt time.Time    `json:"publishedAt"`
	Views       int64        `json:"views"`
	Image       Image        `json:"image"`
	AuthorImage Image        `json:"authorImage"`
	Blocks      []wire.Block `json:"blocks,omitempty"`
}

type DisplayCategory struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Image       Image  `json:"image"`
}

type DisplayAuthor struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar Image  `json:"avatar"`
}

// TransformArticle flattens one wire article. Missing author, category,
// image or avatar fall back to the Default* constants, and a draft uses its
// creation time as the effective publish date.
func TransformArticle(e wire.Entity[wire.ArticleAttributes]) DisplayArticle {
	attrs := e.Attributes
	d := DisplayArticle{
		ID:          e.ID,
		Title:       attrs.Title,
		Description: attrs.Description,
		Content:     attrs.Content,
		Slug:        attrs.Slug,
		Author:      DefaultAuthorName,
		Category:    DefaultCategoryName,
		PublishedAt: attrs.CreatedAt,
		Views:       attrs.Views,
		Image:       Image{URL: mediaURL(attrs.Image, DefaultImageURL)},
		AuthorImage: Image{URL: DefaultAvatarURL},
		Blocks:      attrs.Blocks,
	}
	if attrs.PublishedAt != nil {
		d.PublishedAt = *attrs.PublishedAt
	}
	if author, ok := attrs.Author.Attributes(); ok {
		d.Author = orDefault(author.Name, DefaultAuthorName)
		d.AuthorImage.URL = mediaURL(author.Avatar, DefaultAvatarURL)
	}
	if cat, ok := attrs.Category.Attributes(); ok {
		d.Category = orDefault(cat.Name, DefaultCategoryName)
	}
	return d
}

// TransformArticles flattens es, preserving order.
func TransformArticles(es []wire.Entity[wire.ArticleAttributes]) []DisplayArticle {
	out := make([]DisplayArticle, 0, len(es))
	for _, e := range es {
		out = append(out, TransformArticle(e))
	}
	return out
}

func TransformCategory(e wire.Entity[wire.CategoryAttributes]) DisplayCategory {
	return DisplayCategory{
		ID:          e.ID,
		Name:        e.Attributes.Name,
		Slug:        e.Attributes.Slug,
		Description: e.Attributes.Description,
		Color:       e.Attributes.Color,
		Image:       Image{URL: mediaURL(e.Attributes.Image, DefaultImageURL)},
	}
}

func TransformAuthor(e wire.Entity[wire.AuthorAttributes]) DisplayAuthor {
	return DisplayAuthor{
		ID:     e.ID,
		Name:   e.Attributes.Name,
		Email:  e.Attributes.Email,
		Avatar: Image{URL: mediaURL(e.Attributes.Avatar, DefaultAvatarURL)},
	}
}

func mediaURL(r *wire.Relation[wire.MediaAttributes], fallback string) string {
	if m, ok := r.Attributes(); ok {
		return orDefault(m.URL, fallback)
	}
	return fallback
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

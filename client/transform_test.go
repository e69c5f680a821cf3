package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/eringen/pressroom/wire"
)

func TestTransformArticleFull(t *testing.T) {
	published := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	e := wire.Entity[wire.ArticleAttributes]{
		ID: 3,
		Attributes: wire.ArticleAttributes{
			Title:       "Hello",
			Slug:        "hello",
			Description: "desc",
			Content:     "body",
			Views:       9,
			PublishedAt: &published,
			CreatedAt:   published.Add(-time.Hour),
			Author: wire.Related(1, wire.AuthorAttributes{
				Name:   "Ada",
				Avatar: wire.Related(5, wire.MediaAttributes{URL: "/uploads/ada.png"}),
			}),
			Category: wire.Related(2, wire.CategoryAttributes{Name: "Frontend"}),
			Image:    wire.Related(6, wire.MediaAttributes{URL: "/uploads/cover.png"}),
		},
	}

	got := TransformArticle(e)
	assert.Equal(t, DisplayArticle{
		ID:          3,
		Title:       "Hello",
		Description: "desc",
		Content:     "body",
		Slug:        "hello",
		Author:      "Ada",
		Category:    "Frontend",
		PublishedAt: published,
		Views:       9,
		Image:       Image{URL: "/uploads/cover.png"},
		AuthorImage: Image{URL: "/uploads/ada.png"},
	}, got)
}

func TestTransformArticleDefaults(t *testing.T) {
	created := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)
	e := wire.Entity[wire.ArticleAttributes]{
		ID: 1,
		Attributes: wire.ArticleAttributes{
			Title:     "Draft",
			CreatedAt: created,
			Author:    wire.Empty[wire.AuthorAttributes](),
		},
	}

	got := TransformArticle(e)
	assert.Equal(t, DefaultAuthorName, got.Author)
	assert.Equal(t, DefaultCategoryName, got.Category)
	assert.Equal(t, DefaultAvatarURL, got.AuthorImage.URL)
	assert.Equal(t, "", got.Image.URL)
	assert.Equal(t, created, got.PublishedAt)
}

func TestTransformArticleAuthorWithoutAvatar(t *testing.T) {
	e := wire.Entity[wire.ArticleAttributes]{
		Attributes: wire.ArticleAttributes{
			Author:   wire.Related(1, wire.AuthorAttributes{Name: "Ada", Avatar: wire.Empty[wire.MediaAttributes]()}),
			Category: wire.Related(1, wire.CategoryAttributes{Name: ""}),
		},
	}

	got := TransformArticle(e)
	assert.Equal(t, "Ada", got.Author)
	assert.Equal(t, DefaultAvatarURL, got.AuthorImage.URL)
	assert.Equal(t, DefaultCategoryName, got.Category)
}

func TestTransformArticlesPreservesOrder(t *testing.T) {
	es := []wire.Entity[wire.ArticleAttributes]{
		{ID: 3, Attributes: wire.ArticleAttributes{Title: "c"}},
		{ID: 1, Attributes: wire.ArticleAttributes{Title: "a"}},
		{ID: 2, Attributes: wire.ArticleAttributes{Title: "b"}},
	}
	got := TransformArticles(es)
	if assert.Len(t, got, 3) {
		assert.Equal(t, []int64{3, 1, 2}, []int64{got[0].ID, got[1].ID, got[2].ID})
	}
	assert.Empty(t, TransformArticles(nil))
}

func TestTransformCategoryAndAuthor(t *testing.T) {
	cat := TransformCategory(wire.Entity[wire.CategoryAttributes]{
		ID:         4,
		Attributes: wire.CategoryAttributes{Name: "Go", Slug: "go", Color: "#00ADD8"},
	})
	assert.Equal(t, DisplayCategory{ID: 4, Name: "Go", Slug: "go", Color: "#00ADD8"}, cat)

	author := TransformAuthor(wire.Entity[wire.AuthorAttributes]{
		ID:         2,
		Attributes: wire.AuthorAttributes{Name: "Grace", Email: "grace@example.com"},
	})
	assert.Equal(t, DefaultAvatarURL, author.Avatar.URL)
	assert.Equal(t, "grace@example.com", author.Email)
}

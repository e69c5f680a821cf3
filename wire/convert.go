package wire

import "github.com/eringen/pressroom/content"

// Block is a dynamic-zone entry; it travels unchanged.
type Block = content.Block

func FromMedia(m *content.Media) *Relation[MediaAttributes] {
	if m == nil {
		return Empty[MediaAttributes]()
	}
	return Related(m.ID, MediaAttributes{
		URL:             m.URL,
		AlternativeText: m.AlternativeText,
		Width:           m.Width,
		Height:          m.Height,
		Mime:            m.Mime,
	})
}

func FromAuthor(a content.Author) Entity[AuthorAttributes] {
	return Entity[AuthorAttributes]{
		ID: a.ID,
		Attributes: AuthorAttributes{
			Name:   a.Name,
			Email:  a.Email,
			Avatar: FromMedia(a.Avatar),
		},
	}
}

func FromCategory(c content.Category) Entity[CategoryAttributes] {
	return Entity[CategoryAttributes]{
		ID: c.ID,
		Attributes: CategoryAttributes{
			Name:        c.Name,
			Slug:        c.Slug,
			Description: c.Description,
			Color:       c.Color,
			Image:       FromMedia(c.Image),
		},
	}
}

// FromArticle converts a stored article into its wire entity. Missing
// relations are emitted as {"data": null}.
func FromArticle(a content.Article) Entity[ArticleAttributes] {
	attrs := ArticleAttributes{
		Title:       a.Title,
		Slug:        a.Slug,
		Description: a.Description,
		Content:     a.Content,
		Views:       a.Views,
		PublishedAt: a.PublishedAt,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
		Author:      Empty[AuthorAttributes](),
		Category:    Empty[CategoryAttributes](),
		Image:       FromMedia(a.Image),
		Blocks:      a.Blocks,
	}
	if a.Author != nil {
		e := FromAuthor(*a.Author)
		attrs.Author = &Relation[AuthorAttributes]{Data: &e}
	}
	if a.Category != nil {
		e := FromCategory(*a.Category)
		attrs.Category = &Relation[CategoryAttributes]{Data: &e}
	}
	return Entity[ArticleAttributes]{ID: a.ID, Attributes: attrs}
}

func FromArticles(as []content.Article) []Entity[ArticleAttributes] {
	out := make([]Entity[ArticleAttributes], 0, len(as))
	for _, a := range as {
		out = append(out, FromArticle(a))
	}
	return out
}

func FromCategories(cs []content.Category) []Entity[CategoryAttributes] {
	out := make([]Entity[CategoryAttributes], 0, len(cs))
	for _, c := range cs {
		out = append(out, FromCategory(c))
	}
	return out
}

func FromAuthors(as []content.Author) []Entity[AuthorAttributes] {
	out := make([]Entity[AuthorAttributes], 0, len(as))
	for _, a := range as {
		out = append(out, FromAuthor(a))
	}
	return out
}

// Single wraps one entity in a response body.
func Single[T any](e Entity[T]) Response[T] {
	return Response[T]{Data: &e}
}

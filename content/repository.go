package content

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested article does not exist.
var ErrNotFound = errors.New("article not found")

// Repository is the storage contract behind Service. Finders populate the
// author (with avatar), image and category relations and return ErrNotFound
// when nothing matches.
type Repository interface {
	FindByID(ctx context.Context, id int64) (*Article, error)
	FindBySlug(ctx context.Context, slug string) (*Article, error)

	// SetViews overwrites the stored counter with views.
	SetViews(ctx context.Context, id int64, views int64) error
	// IncrementViews adds one to the stored counter (NULL counts as 0) in a
	// single statement and returns the new value.
	IncrementViews(ctx context.Context, id int64) (int64, error)

	// ListPopular returns published articles ordered by views then publish
	// date, both descending.
	ListPopular(ctx context.Context, limit int) ([]Article, error)
	// ListArticles returns one page of articles matching q and the total
	// number of matches.
	ListArticles(ctx context.Context, q ListQuery) ([]Article, int, error)

	ListCategories(ctx context.Context) ([]Category, error)
	ListAuthors(ctx context.Context) ([]Author, error)
}

// Seeder writes fixture records. IDs of zero are assigned by the store and
// written back into the passed values.
type Seeder interface {
	SaveAuthor(ctx context.Context, a *Author) error
	SaveCategory(ctx context.Context, c *Category) error
	SaveArticle(ctx context.Context, a *Article) error
}

// ListQuery selects a page of articles for the collection endpoint.
type ListQuery struct {
	Page          int
	PageSize      int
	Slug          string
	Category      string // matches category slug or name
	IncludeDrafts bool
}

// Offset returns the row offset of the page.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

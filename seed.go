package pressroom

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/eringen/pressroom/content"
	"github.com/eringen/pressroom/logging"
)

// Fixtures is the seed file format. Articles reference their author and
// category by ID, e.g. {"author": {"id": 1}}.
type Fixtures struct {
	Authors    []content.Author   `json:"authors"`
	Categories []content.Category `json:"categories"`
	Articles   []content.Article  `json:"articles"`
}

// ReadFixtures decodes a seed file.
func ReadFixtures(r io.Reader) (*Fixtures, error) {
	var fx Fixtures
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&fx); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	return &fx, nil
}

// Seed writes authors, then categories, then articles. Articles without a
// slug get one derived from the title. Assigned IDs are written back into
// fx.
func Seed(ctx context.Context, s content.Seeder, fx *Fixtures) error {
	for i := range fx.Authors {
		if err := s.SaveAuthor(ctx, &fx.Authors[i]); err != nil {
			return fmt.Errorf("seed author %q: %w", fx.Authors[i].Name, err)
		}
	}
	for i := range fx.Categories {
		c := &fx.Categories[i]
		if c.Slug == "" {
			c.Slug = Slugify(c.Name)
		}
		if err := s.SaveCategory(ctx, c); err != nil {
			return fmt.Errorf("seed category %q: %w", c.Name, err)
		}
	}
	for i := range fx.Articles {
		a := &fx.Articles[i]
		if a.Slug == "" {
			a.Slug = Slugify(a.Title)
		}
		if err := s.SaveArticle(ctx, a); err != nil {
			return fmt.Errorf("seed article %q: %w", a.Slug, err)
		}
	}
	logging.Info(ctx).
		Int("authors", len(fx.Authors)).
		Int("categories", len(fx.Categories)).
		Int("articles", len(fx.Articles)).
		Msg("seeded fixtures")
	return nil
}

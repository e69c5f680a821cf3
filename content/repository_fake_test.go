package content

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// fakeRepo is an in-memory Repository that records the calls it receives.
type fakeRepo struct {
	mu       sync.Mutex
	articles map[int64]*Article

	findByID   int
	findBySlug int
	setViews   int
	increments int

	failIncrement error
	failFind      error
	lastLimit     int
}

func newFakeRepo(articles ...Article) *fakeRepo {
	r := &fakeRepo{articles: make(map[int64]*Article)}
	for i := range articles {
		a := articles[i]
		r.articles[a.ID] = &a
	}
	return r
}

func (r *fakeRepo) FindByID(_ context.Context, id int64) (*Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findByID++
	if r.failFind != nil {
		return nil, r.failFind
	}
	a, ok := r.articles[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeRepo) FindBySlug(_ context.Context, slug string) (*Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findBySlug++
	if r.failFind != nil {
		return nil, r.failFind
	}
	for _, a := range r.articles {
		if a.Slug == slug {
			cp := *a
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) SetViews(_ context.Context, id int64, views int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.setViews++
	a, ok := r.articles[id]
	if !ok {
		return ErrNotFound
	}
	a.Views = views
	return nil
}

func (r *fakeRepo) IncrementViews(_ context.Context, id int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.increments++
	if r.failIncrement != nil {
		return 0, r.failIncrement
	}
	a, ok := r.articles[id]
	if !ok {
		return 0, ErrNotFound
	}
	a.Views++
	return a.Views, nil
}

func (r *fakeRepo) ListPopular(_ context.Context, limit int) ([]Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastLimit = limit
	var out []Article
	for _, a := range r.articles {
		if a.Published() {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Views != out[j].Views {
			return out[i].Views > out[j].Views
		}
		return out[i].PublishedAt.After(*out[j].PublishedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeRepo) ListArticles(_ context.Context, q ListQuery) ([]Article, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Article
	for _, a := range r.articles {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (r *fakeRepo) ListCategories(context.Context) ([]Category, error) {
	return nil, errors.New("categories unavailable")
}

func (r *fakeRepo) ListAuthors(context.Context) ([]Author, error) {
	return []Author{{ID: 1, Name: "Ada"}}, nil
}

func (r *fakeRepo) views(id int64) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.articles[id].Views
}

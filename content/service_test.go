package content

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func sampleRepo() *fakeRepo {
	return newFakeRepo(
		Article{ID: 1, Slug: "hello-world", Title: "Hello World", Views: 5, PublishedAt: date("2024-01-10")},
		Article{ID: 2, Slug: "go-tips", Title: "Go Tips", Views: 12, PublishedAt: date("2024-02-01")},
		Article{ID: 3, Slug: "draft", Title: "Draft", Views: 50},
		Article{ID: 4, Slug: "2024", Title: "Numeric Slug", Views: 0, PublishedAt: date("2024-03-01")},
	)
}

func TestLookupByIDIncrementsOnce(t *testing.T) {
	repo := sampleRepo()
	svc := NewService(repo)

	a, err := svc.Lookup(context.Background(), "1")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if a.Views != 6 {
		t.Errorf("expected returned views 6, got %d", a.Views)
	}
	if got := repo.views(1); got != 6 {
		t.Errorf("expected stored views 6, got %d", got)
	}
	if repo.findByID != 1 || repo.findBySlug != 0 {
		t.Errorf("expected one ID lookup, got id=%d slug=%d", repo.findByID, repo.findBySlug)
	}
	if repo.increments != 1 {
		t.Errorf("expected one increment, got %d", repo.increments)
	}
}

func TestLookupBySlug(t *testing.T) {
	repo := sampleRepo()
	svc := NewService(repo)

	a, err := svc.Lookup(context.Background(), "go-tips")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if a.ID != 2 || a.Views != 13 {
		t.Errorf("unexpected article %d with %d views", a.ID, a.Views)
	}
	if repo.findBySlug != 1 || repo.findByID != 0 {
		t.Errorf("expected one slug lookup, got id=%d slug=%d", repo.findByID, repo.findBySlug)
	}
}

func TestLookupNumericStringIsAlwaysAnID(t *testing.T) {
	repo := sampleRepo()
	svc := NewService(repo)

	// Article 4 has slug "2024" but the identifier parses as an integer.
	_, err := svc.Lookup(context.Background(), "2024")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if repo.findBySlug != 0 {
		t.Errorf("slug lookup must not be attempted, got %d", repo.findBySlug)
	}
}

func TestLookupSequentialCountsUp(t *testing.T) {
	repo := sampleRepo()
	svc := NewService(repo)
	ctx := context.Background()

	first, err := svc.Lookup(ctx, "hello-world")
	if err != nil {
		t.Fatalf("first Lookup failed: %v", err)
	}
	second, err := svc.Lookup(ctx, "1")
	if err != nil {
		t.Fatalf("second Lookup failed: %v", err)
	}
	if first.Views != 6 || second.Views != 7 {
		t.Errorf("expected 6 then 7, got %d then %d", first.Views, second.Views)
	}
}

func TestLookupNotFoundHasNoSideEffects(t *testing.T) {
	repo := sampleRepo()
	svc := NewService(repo)

	for _, raw := range []string{"999", "no-such-article"} {
		_, err := svc.Lookup(context.Background(), raw)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("%q: expected ErrNotFound, got %v", raw, err)
		}
	}
	if repo.increments != 0 || repo.setViews != 0 {
		t.Errorf("expected no writes, got increments=%d setViews=%d", repo.increments, repo.setViews)
	}
}

func TestLookupIncrementFailure(t *testing.T) {
	repo := sampleRepo()
	repo.failIncrement = errors.New("disk full")
	svc := NewService(repo)

	_, err := svc.Lookup(context.Background(), "1")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrNotFound) {
		t.Errorf("storage failure must not look like not found: %v", err)
	}
	if !errors.Is(err, repo.failIncrement) {
		t.Errorf("expected wrapped storage error, got %v", err)
	}
}

func TestLookupFindFailureIsWrapped(t *testing.T) {
	repo := sampleRepo()
	repo.failFind = errors.New("connection reset")
	svc := NewService(repo)

	_, err := svc.Lookup(context.Background(), "hello-world")
	if !errors.Is(err, repo.failFind) {
		t.Fatalf("expected wrapped find error, got %v", err)
	}
	if repo.increments != 0 {
		t.Errorf("expected no increment, got %d", repo.increments)
	}
}

func TestLookupSnapshotMode(t *testing.T) {
	repo := sampleRepo()
	svc := NewService(repo, WithIncrementMode(IncrementSnapshot))

	a, err := svc.Lookup(context.Background(), "1")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if a.Views != 6 || repo.views(1) != 6 {
		t.Errorf("expected 6 views, got returned=%d stored=%d", a.Views, repo.views(1))
	}
	if repo.setViews != 1 || repo.increments != 0 {
		t.Errorf("expected snapshot write, got setViews=%d increments=%d", repo.setViews, repo.increments)
	}
}

func TestLookupAtomicUnderConcurrency(t *testing.T) {
	repo := sampleRepo()
	svc := NewService(repo)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Lookup(context.Background(), "2"); err != nil {
				t.Errorf("Lookup failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := repo.views(2); got != 32 {
		t.Errorf("expected 32 views, got %d", got)
	}
}

func TestLookupRunsViewHook(t *testing.T) {
	repo := sampleRepo()
	var seen []int64
	svc := NewService(repo, WithViewHook(func(_ context.Context, a *Article) {
		seen = append(seen, a.ID)
	}))

	if _, err := svc.Lookup(context.Background(), "go-tips"); err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if _, err := svc.Lookup(context.Background(), "missing"); err == nil {
		t.Fatal("expected error")
	}
	if len(seen) != 1 || seen[0] != 2 {
		t.Errorf("expected hook for article 2 only, got %v", seen)
	}
}

func TestResolveDoesNotIncrement(t *testing.T) {
	repo := sampleRepo()
	svc := NewService(repo)

	a, err := svc.Resolve(context.Background(), "hello-world")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if a.Views != 5 || repo.increments != 0 {
		t.Errorf("expected untouched counter, got views=%d increments=%d", a.Views, repo.increments)
	}
}

func TestMostPopular(t *testing.T) {
	repo := sampleRepo()
	svc := NewService(repo)

	got, err := svc.MostPopular(context.Background(), 2)
	if err != nil {
		t.Fatalf("MostPopular failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(got))
	}
	if got[0].ID != 2 || got[1].ID != 1 {
		t.Errorf("unexpected order: %d, %d", got[0].ID, got[1].ID)
	}
	for _, a := range got {
		if !a.Published() {
			t.Errorf("draft %d returned", a.ID)
		}
	}
}

func TestMostPopularNormalisesLimit(t *testing.T) {
	repo := sampleRepo()
	svc := NewService(repo)

	tests := []struct {
		in   int
		want int
	}{
		{0, DefaultLimit},
		{-3, DefaultLimit},
		{5, 5},
		{1000, MaxLimit},
	}
	for _, tt := range tests {
		if _, err := svc.MostPopular(context.Background(), tt.in); err != nil {
			t.Fatalf("MostPopular(%d) failed: %v", tt.in, err)
		}
		if repo.lastLimit != tt.want {
			t.Errorf("MostPopular(%d): repository saw limit %d, want %d", tt.in, repo.lastLimit, tt.want)
		}
	}
}

func TestListAppliesDefaults(t *testing.T) {
	svc := NewService(sampleRepo())

	articles, total, err := svc.List(context.Background(), ListQuery{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 4 || len(articles) != 4 {
		t.Errorf("expected 4 articles, got %d (total %d)", len(articles), total)
	}
}

func TestCategoriesErrorIsWrapped(t *testing.T) {
	svc := NewService(sampleRepo())

	if _, err := svc.Categories(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	authors, err := svc.Authors(context.Background())
	if err != nil || len(authors) != 1 {
		t.Errorf("unexpected authors result: %v %v", authors, err)
	}
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", DefaultLimit},
		{"5", 5},
		{" 7 ", 7},
		{"abc", DefaultLimit},
		{"0", DefaultLimit},
		{"-2", DefaultLimit},
		{"3.5", DefaultLimit},
		{"100", 100},
		{"101", MaxLimit},
	}
	for _, tt := range tests {
		if got := ParseLimit(tt.in); got != tt.want {
			t.Errorf("ParseLimit(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		page, size         string
		wantPage, wantSize int
	}{
		{"", "", 1, 25},
		{"2", "10", 2, 10},
		{"0", "-1", 1, 25},
		{"x", "500", 1, MaxPageSize},
	}
	for _, tt := range tests {
		p, s := ParsePagination(tt.page, tt.size)
		if p != tt.wantPage || s != tt.wantSize {
			t.Errorf("ParsePagination(%q, %q) = %d, %d; want %d, %d", tt.page, tt.size, p, s, tt.wantPage, tt.wantSize)
		}
	}
}

func TestParseIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		kind IdentifierKind
		id   int64
		slug string
	}{
		{"42", ByID, 42, ""},
		{" 7 ", ByID, 7, ""},
		{"-1", ByID, -1, ""},
		{"hello-world", BySlug, 0, "hello-world"},
		{"12abc", BySlug, 0, "12abc"},
		{"", BySlug, 0, ""},
	}
	for _, tt := range tests {
		got := ParseIdentifier(tt.in)
		if got.Kind != tt.kind || got.ID != tt.id || got.Slug != tt.slug {
			t.Errorf("ParseIdentifier(%q) = %+v", tt.in, got)
		}
	}
}

func TestParseIncrementMode(t *testing.T) {
	for in, want := range map[string]IncrementMode{
		"":         IncrementAtomic,
		"atomic":   IncrementAtomic,
		"Snapshot": IncrementSnapshot,
	} {
		got, err := ParseIncrementMode(in)
		if err != nil || got != want {
			t.Errorf("ParseIncrementMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseIncrementMode("eventual"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

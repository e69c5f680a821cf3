package content

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/eringen/pressroom/logging"
)

// Limits applied to the popularity query and the collection listing.
const (
	DefaultLimit    = 10
	MaxLimit        = 100
	DefaultPage     = 1
	DefaultPageSize = 25
	MaxPageSize     = 100
)

// IncrementMode selects how Lookup bumps the view counter.
type IncrementMode string

const (
	// IncrementAtomic issues a single update-returning statement.
	IncrementAtomic IncrementMode = "atomic"
	// IncrementSnapshot writes back the counter read by the lookup plus one.
	// Concurrent lookups of the same article may lose updates.
	IncrementSnapshot IncrementMode = "snapshot"
)

// ParseIncrementMode accepts "atomic", "snapshot" or "" (atomic).
func ParseIncrementMode(s string) (IncrementMode, error) {
	switch IncrementMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", IncrementAtomic:
		return IncrementAtomic, nil
	case IncrementSnapshot:
		return IncrementSnapshot, nil
	}
	return "", fmt.Errorf("unknown view increment mode %q", s)
}

// ParseLimit reads a result-count limit. Anything that is not a positive
// integer yields DefaultLimit; values above MaxLimit are clamped.
func ParseLimit(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return DefaultLimit
	}
	if n > MaxLimit {
		return MaxLimit
	}
	return n
}

// ParsePagination reads page and page size, substituting defaults for
// malformed or out-of-range input.
func ParsePagination(page, pageSize string) (int, int) {
	p, err := strconv.Atoi(strings.TrimSpace(page))
	if err != nil || p < 1 {
		p = DefaultPage
	}
	ps, err := strconv.Atoi(strings.TrimSpace(pageSize))
	if err != nil || ps < 1 {
		ps = DefaultPageSize
	}
	if ps > MaxPageSize {
		ps = MaxPageSize
	}
	return p, ps
}

var tracer = otel.Tracer("github.com/eringen/pressroom/content")

// ViewHook is called after a lookup has persisted its increment.
type ViewHook func(ctx context.Context, a *Article)

// Service implements article lookup with view tracking and the popularity
// ranking on top of a Repository.
type Service struct {
	repo   Repository
	mode   IncrementMode
	onView ViewHook
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithIncrementMode selects the view increment strategy.
func WithIncrementMode(m IncrementMode) ServiceOption {
	return func(s *Service) {
		s.mode = m
	}
}

// WithViewHook registers fn to run after every successful lookup.
func WithViewHook(fn ViewHook) ServiceOption {
	return func(s *Service) {
		s.onView = fn
	}
}

// NewService creates a Service backed by repo.
func NewService(repo Repository, opts ...ServiceOption) *Service {
	s := &Service{repo: repo, mode: IncrementAtomic}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mode returns the configured increment strategy.
func (s *Service) Mode() IncrementMode {
	return s.mode
}

// Resolve finds the article referenced by raw without touching its counter.
func (s *Service) Resolve(ctx context.Context, raw string) (*Article, error) {
	ctx, span := tracer.Start(ctx, "article.resolve")
	defer span.End()

	a, err := s.resolve(ctx, span, raw)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	return a, nil
}

// Lookup finds the article referenced by raw, increments its view counter
// exactly once and returns it carrying the incremented count. A missing
// article yields ErrNotFound and no write.
func (s *Service) Lookup(ctx context.Context, raw string) (*Article, error) {
	ctx, span := tracer.Start(ctx, "article.lookup")
	defer span.End()

	a, err := s.resolve(ctx, span, raw)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	switch s.mode {
	case IncrementSnapshot:
		next := a.Views + 1
		if err := s.repo.SetViews(ctx, a.ID, next); err != nil {
			err = fmt.Errorf("set views of article %d: %w", a.ID, err)
			recordError(span, err)
			return nil, err
		}
		a.Views = next
	default:
		views, err := s.repo.IncrementViews(ctx, a.ID)
		if err != nil {
			err = fmt.Errorf("increment views of article %d: %w", a.ID, err)
			recordError(span, err)
			return nil, err
		}
		a.Views = views
	}

	span.SetAttributes(attribute.Int64("article.views", a.Views))

	logging.Debug(ctx).
		Int64("article_id", a.ID).
		Str("slug", a.Slug).
		Int64("views", a.Views).
		Msg("article viewed")

	if s.onView != nil {
		s.onView(ctx, a)
	}
	return a, nil
}

func (s *Service) resolve(ctx context.Context, span trace.Span, raw string) (*Article, error) {
	ident := ParseIdentifier(raw)
	span.SetAttributes(
		attribute.String("article.identifier", raw),
		attribute.String("article.identifier_kind", ident.Kind.String()),
	)

	a, err := ident.find(ctx, s.repo)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find article by %s %q: %w", ident.Kind, ident, err)
	}

	span.SetAttributes(
		attribute.Int64("article.id", a.ID),
		attribute.String("article.slug", a.Slug),
	)
	return a, nil
}

// MostPopular returns at most limit published articles ranked by views, most
// recently published first among equal counts. Limits outside 1..MaxLimit
// are normalised the same way ParseLimit does.
func (s *Service) MostPopular(ctx context.Context, limit int) ([]Article, error) {
	ctx, span := tracer.Start(ctx, "article.most_popular")
	defer span.End()

	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	span.SetAttributes(attribute.Int("query.limit", limit))

	articles, err := s.repo.ListPopular(ctx, limit)
	if err != nil {
		err = fmt.Errorf("list most popular articles: %w", err)
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(articles)))
	logging.Debug(ctx).
		Array("articles", popularSummary(articles)).
		Msg("most popular articles fetched")

	return articles, nil
}

// List returns one page of the collection and the total match count.
func (s *Service) List(ctx context.Context, q ListQuery) ([]Article, int, error) {
	ctx, span := tracer.Start(ctx, "article.list")
	defer span.End()

	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.PageSize < 1 || q.PageSize > MaxPageSize {
		q.PageSize = DefaultPageSize
	}
	span.SetAttributes(
		attribute.Int("pagination.page", q.Page),
		attribute.Int("pagination.page_size", q.PageSize),
	)
	if q.Slug != "" {
		span.SetAttributes(attribute.String("filter.slug", q.Slug))
	}
	if q.Category != "" {
		span.SetAttributes(attribute.String("filter.category", q.Category))
	}

	articles, total, err := s.repo.ListArticles(ctx, q)
	if err != nil {
		err = fmt.Errorf("list articles: %w", err)
		recordError(span, err)
		return nil, 0, err
	}
	span.SetAttributes(attribute.Int("result.total_count", total))
	return articles, total, nil
}

func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	ctx, span := tracer.Start(ctx, "category.list")
	defer span.End()

	cats, err := s.repo.ListCategories(ctx)
	if err != nil {
		err = fmt.Errorf("list categories: %w", err)
		recordError(span, err)
		return nil, err
	}
	return cats, nil
}

func (s *Service) Authors(ctx context.Context) ([]Author, error) {
	ctx, span := tracer.Start(ctx, "author.list")
	defer span.End()

	authors, err := s.repo.ListAuthors(ctx)
	if err != nil {
		err = fmt.Errorf("list authors: %w", err)
		recordError(span, err)
		return nil, err
	}
	return authors, nil
}

func recordError(span trace.Span, err error) {
	if errors.Is(err, ErrNotFound) {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

type popularSummary []Article

func (p popularSummary) MarshalZerologArray(arr *zerolog.Array) {
	for _, a := range p {
		arr.Str(fmt.Sprintf("%s: %d views", a.Title, a.Views))
	}
}

package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/eringen/pressroom/content"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS authors (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		avatar JSONB
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		color TEXT NOT NULL DEFAULT '',
		image JSONB
	)`,
	`CREATE TABLE IF NOT EXISTS articles (
		id BIGSERIAL PRIMARY KEY,
		slug TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL DEFAULT '',
		views BIGINT,
		published_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		author_id BIGINT REFERENCES authors(id) ON DELETE SET NULL,
		category_id BIGINT REFERENCES categories(id) ON DELETE SET NULL,
		image JSONB,
		blocks JSONB NOT NULL DEFAULT '[]'
	)`,
	`CREATE INDEX IF NOT EXISTS idx_articles_popular
		ON articles (views DESC NULLS LAST, published_at DESC)
		WHERE published_at IS NOT NULL`,
}

// Store implements content.Repository and content.Seeder on PostgreSQL.
type Store struct {
	db DBTX
}

// New wraps db. Call EnsureSchema before first use on an empty database.
func New(db DBTX) *Store {
	return &Store{db: db}
}

// Ping checks the connection when the underlying handle supports it.
func (s *Store) Ping(ctx context.Context) error {
	if p, ok := s.db.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}

// EnsureSchema creates the tables and indexes if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

const articleColumns = `
	a.id, a.slug, a.title, a.description, a.content, COALESCE(a.views, 0),
	a.published_at, a.created_at, a.updated_at, a.image, a.blocks,
	au.id, COALESCE(au.name, ''), COALESCE(au.email, ''), au.avatar,
	c.id, COALESCE(c.name, ''), COALESCE(c.slug, ''), COALESCE(c.description, ''), COALESCE(c.color, ''), c.image`

const articleFrom = `
	FROM articles a
	LEFT JOIN authors au ON au.id = a.author_id
	LEFT JOIN categories c ON c.id = a.category_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (*content.Article, error) {
	var (
		a                                   content.Article
		image, blocks, avatar, catImage     []byte
		authorID, categoryID                *int64
		authorName, authorEmail             string
		catName, catSlug, catDesc, catColor string
	)
	err := row.Scan(
		&a.ID, &a.Slug, &a.Title, &a.Description, &a.Content, &a.Views,
		&a.PublishedAt, &a.CreatedAt, &a.UpdatedAt, &image, &blocks,
		&authorID, &authorName, &authorEmail, &avatar,
		&categoryID, &catName, &catSlug, &catDesc, &catColor, &catImage,
	)
	if err != nil {
		return nil, err
	}

	if a.Image, err = decodeMedia(image); err != nil {
		return nil, fmt.Errorf("article %d image: %w", a.ID, err)
	}
	if len(blocks) > 0 {
		if err := json.Unmarshal(blocks, &a.Blocks); err != nil {
			return nil, fmt.Errorf("article %d blocks: %w", a.ID, err)
		}
	}
	if authorID != nil {
		a.Author = &content.Author{ID: *authorID, Name: authorName, Email: authorEmail}
		if a.Author.Avatar, err = decodeMedia(avatar); err != nil {
			return nil, fmt.Errorf("author %d avatar: %w", *authorID, err)
		}
	}
	if categoryID != nil {
		a.Category = &content.Category{
			ID:          *categoryID,
			Name:        catName,
			Slug:        catSlug,
			Description: catDesc,
			Color:       catColor,
		}
		if a.Category.Image, err = decodeMedia(catImage); err != nil {
			return nil, fmt.Errorf("category %d image: %w", *categoryID, err)
		}
	}
	return &a, nil
}

func (s *Store) findOne(ctx context.Context, where string, arg any) (*content.Article, error) {
	row := s.db.QueryRow(ctx, `SELECT `+articleColumns+articleFrom+` WHERE `+where, arg)
	a, err := scanArticle(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, content.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Store) FindByID(ctx context.Context, id int64) (*content.Article, error) {
	return s.findOne(ctx, `a.id = $1`, id)
}

func (s *Store) FindBySlug(ctx context.Context, slug string) (*content.Article, error) {
	return s.findOne(ctx, `a.slug = $1`, slug)
}

func (s *Store) SetViews(ctx context.Context, id int64, views int64) error {
	tag, err := s.db.Exec(ctx, `UPDATE articles SET views = $2 WHERE id = $1`, id, views)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return content.ErrNotFound
	}
	return nil
}

func (s *Store) IncrementViews(ctx context.Context, id int64) (int64, error) {
	var views int64
	err := s.db.QueryRow(ctx,
		`UPDATE articles SET views = COALESCE(views, 0) + 1 WHERE id = $1 RETURNING views`, id,
	).Scan(&views)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, content.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return views, nil
}

func (s *Store) ListPopular(ctx context.Context, limit int) ([]content.Article, error) {
	rows, err := s.db.Query(ctx, `SELECT `+articleColumns+articleFrom+`
		WHERE a.published_at IS NOT NULL
		ORDER BY COALESCE(a.views, 0) DESC, a.published_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return collectArticles(rows)
}

const listFilter = `
	WHERE ($1 OR a.published_at IS NOT NULL)
	AND ($2 = '' OR a.slug = $2)
	AND ($3 = '' OR c.slug = $3 OR c.name = $3)`

func (s *Store) ListArticles(ctx context.Context, q content.ListQuery) ([]content.Article, int, error) {
	var total int
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM articles a LEFT JOIN categories c ON c.id = a.category_id`+listFilter,
		q.IncludeDrafts, q.Slug, q.Category,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count articles: %w", err)
	}

	rows, err := s.db.Query(ctx, `SELECT `+articleColumns+articleFrom+listFilter+`
		ORDER BY a.published_at DESC NULLS LAST, a.id DESC
		LIMIT $4 OFFSET $5`,
		q.IncludeDrafts, q.Slug, q.Category, q.PageSize, q.Offset())
	if err != nil {
		return nil, 0, err
	}
	articles, err := collectArticles(rows)
	if err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

func collectArticles(rows pgx.Rows) ([]content.Article, error) {
	defer rows.Close()

	var out []content.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]content.Category, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, slug, description, color, image FROM categories ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []content.Category
	for rows.Next() {
		var (
			c     content.Category
			image []byte
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Color, &image); err != nil {
			return nil, err
		}
		if c.Image, err = decodeMedia(image); err != nil {
			return nil, fmt.Errorf("category %d image: %w", c.ID, err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) ListAuthors(ctx context.Context) ([]content.Author, error) {
	rows, err := s.db.Query(ctx, `SELECT id, name, email, avatar FROM authors ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []content.Author
	for rows.Next() {
		var (
			a      content.Author
			avatar []byte
		)
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &avatar); err != nil {
			return nil, err
		}
		if a.Avatar, err = decodeMedia(avatar); err != nil {
			return nil, fmt.Errorf("author %d avatar: %w", a.ID, err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// SaveAuthor inserts a, or replaces the row with the same non-zero ID.
func (s *Store) SaveAuthor(ctx context.Context, a *content.Author) error {
	avatar, err := encodeMedia(a.Avatar)
	if err != nil {
		return err
	}
	if a.ID == 0 {
		return s.db.QueryRow(ctx,
			`INSERT INTO authors (name, email, avatar) VALUES ($1, $2, $3) RETURNING id`,
			a.Name, a.Email, avatar,
		).Scan(&a.ID)
	}
	if _, err := s.db.Exec(ctx, `INSERT INTO authors (id, name, email, avatar) VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, email = EXCLUDED.email, avatar = EXCLUDED.avatar`,
		a.ID, a.Name, a.Email, avatar); err != nil {
		return err
	}
	return s.syncSequence(ctx, "authors")
}

// SaveCategory inserts c, or replaces the row with the same non-zero ID.
func (s *Store) SaveCategory(ctx context.Context, c *content.Category) error {
	image, err := encodeMedia(c.Image)
	if err != nil {
		return err
	}
	if c.ID == 0 {
		return s.db.QueryRow(ctx,
			`INSERT INTO categories (name, slug, description, color, image) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			c.Name, c.Slug, c.Description, c.Color, image,
		).Scan(&c.ID)
	}
	if _, err := s.db.Exec(ctx, `INSERT INTO categories (id, name, slug, description, color, image) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, slug = EXCLUDED.slug,
			description = EXCLUDED.description, color = EXCLUDED.color, image = EXCLUDED.image`,
		c.ID, c.Name, c.Slug, c.Description, c.Color, image); err != nil {
		return err
	}
	return s.syncSequence(ctx, "categories")
}

// SaveArticle inserts a, or replaces the row with the same non-zero ID.
// Zero timestamps are set to the current time. Views are stored as given;
// nil relations are stored as NULL.
func (s *Store) SaveArticle(ctx context.Context, a *content.Article) error {
	image, err := encodeMedia(a.Image)
	if err != nil {
		return err
	}
	blocks := []byte("[]")
	if len(a.Blocks) > 0 {
		if blocks, err = json.Marshal(a.Blocks); err != nil {
			return fmt.Errorf("encode blocks: %w", err)
		}
	}
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = a.CreatedAt
	}
	var authorID, categoryID *int64
	if a.Author != nil {
		authorID = &a.Author.ID
	}
	if a.Category != nil {
		categoryID = &a.Category.ID
	}

	args := []any{a.Slug, a.Title, a.Description, a.Content, a.Views, a.PublishedAt,
		a.CreatedAt, a.UpdatedAt, authorID, categoryID, image, blocks}

	if a.ID == 0 {
		return s.db.QueryRow(ctx, `INSERT INTO articles
			(slug, title, description, content, views, published_at, created_at, updated_at, author_id, category_id, image, blocks)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`,
			args...,
		).Scan(&a.ID)
	}

	if _, err := s.db.Exec(ctx, `INSERT INTO articles
		(slug, title, description, content, views, published_at, created_at, updated_at, author_id, category_id, image, blocks, id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET slug = EXCLUDED.slug, title = EXCLUDED.title,
			description = EXCLUDED.description, content = EXCLUDED.content, views = EXCLUDED.views,
			published_at = EXCLUDED.published_at, updated_at = EXCLUDED.updated_at,
			author_id = EXCLUDED.author_id, category_id = EXCLUDED.category_id,
			image = EXCLUDED.image, blocks = EXCLUDED.blocks`,
		append(args, a.ID)...); err != nil {
		return err
	}
	return s.syncSequence(ctx, "articles")
}

// syncSequence moves the serial sequence of table past explicitly inserted IDs.
func (s *Store) syncSequence(ctx context.Context, table string) error {
	_, err := s.db.Exec(ctx, `SELECT setval(pg_get_serial_sequence('`+table+`', 'id'), (SELECT COALESCE(MAX(id), 1) FROM `+table+`))`)
	if err != nil {
		return fmt.Errorf("sync %s id sequence: %w", table, err)
	}
	return nil
}

func decodeMedia(raw []byte) (*content.Media, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var m content.Media
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func encodeMedia(m *content.Media) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode media: %w", err)
	}
	return b, nil
}

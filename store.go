package pressroom

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/eringen/pressroom/content"
)

// timeLayout is how timestamps are stored. Fixed width UTC so that text
// ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000Z"

// Store wraps a SQLite database and implements content.Repository and
// content.Seeder.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	// Per-connection pragmas go in the DSN so every pooled connection gets
	// them; concurrent view increments wait on the busy timeout.
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS authors (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    email TEXT NOT NULL DEFAULT '',
    avatar TEXT
);
CREATE TABLE IF NOT EXISTS categories (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    slug TEXT NOT NULL UNIQUE,
    description TEXT NOT NULL DEFAULT '',
    color TEXT NOT NULL DEFAULT '',
    image TEXT
);
CREATE TABLE IF NOT EXISTS articles (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    slug TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    content TEXT NOT NULL DEFAULT '',
    views INTEGER,
    published_at TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    author_id INTEGER REFERENCES authors(id) ON DELETE SET NULL,
    category_id INTEGER REFERENCES categories(id) ON DELETE SET NULL,
    image TEXT,
    blocks TEXT NOT NULL DEFAULT '[]'
);
CREATE INDEX IF NOT EXISTS idx_articles_published ON articles (published_at);
`)
	return err
}

const articleSelect = `SELECT
	a.id, a.slug, a.title, a.description, a.content, COALESCE(a.views, 0),
	a.published_at, a.created_at, a.updated_at, a.image, a.blocks,
	au.id, COALESCE(au.name, ''), COALESCE(au.email, ''), au.avatar,
	c.id, COALESCE(c.name, ''), COALESCE(c.slug, ''), COALESCE(c.description, ''), COALESCE(c.color, ''), c.image
FROM articles a
LEFT JOIN authors au ON au.id = a.author_id
LEFT JOIN categories c ON c.id = a.category_id`

type scanner interface {
	Scan(dest ...any) error
}

func scanArticle(row scanner) (*content.Article, error) {
	var (
		a                                   content.Article
		published, image, avatar, catImage  sql.NullString
		created, updated, blocks            string
		authorID, categoryID                sql.NullInt64
		authorName, authorEmail             string
		catName, catSlug, catDesc, catColor string
	)
	err := row.Scan(
		&a.ID, &a.Slug, &a.Title, &a.Description, &a.Content, &a.Views,
		&published, &created, &updated, &image, &blocks,
		&authorID, &authorName, &authorEmail, &avatar,
		&categoryID, &catName, &catSlug, &catDesc, &catColor, &catImage,
	)
	if err != nil {
		return nil, err
	}

	if published.Valid {
		t, err := parseTime(published.String)
		if err != nil {
			return nil, fmt.Errorf("article %d published_at: %w", a.ID, err)
		}
		a.PublishedAt = &t
	}
	if a.CreatedAt, err = parseTime(created); err != nil {
		return nil, fmt.Errorf("article %d created_at: %w", a.ID, err)
	}
	if a.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, fmt.Errorf("article %d updated_at: %w", a.ID, err)
	}
	if a.Image, err = decodeMedia(image); err != nil {
		return nil, fmt.Errorf("article %d image: %w", a.ID, err)
	}
	if blocks != "" {
		if err := json.Unmarshal([]byte(blocks), &a.Blocks); err != nil {
			return nil, fmt.Errorf("article %d blocks: %w", a.ID, err)
		}
	}
	if authorID.Valid {
		a.Author = &content.Author{ID: authorID.Int64, Name: authorName, Email: authorEmail}
		if a.Author.Avatar, err = decodeMedia(avatar); err != nil {
			return nil, fmt.Errorf("author %d avatar: %w", authorID.Int64, err)
		}
	}
	if categoryID.Valid {
		a.Category = &content.Category{
			ID:          categoryID.Int64,
			Name:        catName,
			Slug:        catSlug,
			Description: catDesc,
			Color:       catColor,
		}
		if a.Category.Image, err = decodeMedia(catImage); err != nil {
			return nil, fmt.Errorf("category %d image: %w", categoryID.Int64, err)
		}
	}
	return &a, nil
}

func (s *Store) findOne(ctx context.Context, where string, arg any) (*content.Article, error) {
	a, err := scanArticle(s.db.QueryRowContext(ctx, articleSelect+` WHERE `+where, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, content.ErrNotFound
	}
	return a, err
}

// FindByID returns the article with the given ID, or content.ErrNotFound.
func (s *Store) FindByID(ctx context.Context, id int64) (*content.Article, error) {
	return s.findOne(ctx, `a.id = ?`, id)
}

// FindBySlug returns the article with the given slug, or content.ErrNotFound.
func (s *Store) FindBySlug(ctx context.Context, slug string) (*content.Article, error) {
	return s.findOne(ctx, `a.slug = ?`, slug)
}

// SetViews overwrites the view counter of an article.
func (s *Store) SetViews(ctx context.Context, id int64, views int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE articles SET views = ? WHERE id = ?`, views, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return content.ErrNotFound
	}
	return nil
}

// IncrementViews adds one to the view counter in a single statement.
func (s *Store) IncrementViews(ctx context.Context, id int64) (int64, error) {
	var views int64
	err := s.db.QueryRowContext(ctx,
		`UPDATE articles SET views = COALESCE(views, 0) + 1 WHERE id = ? RETURNING views`, id,
	).Scan(&views)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, content.ErrNotFound
	}
	return views, err
}

// ListPopular returns up to limit published articles by views, newest first
// among ties.
func (s *Store) ListPopular(ctx context.Context, limit int) ([]content.Article, error) {
	rows, err := s.db.QueryContext(ctx, articleSelect+`
WHERE a.published_at IS NOT NULL
ORDER BY COALESCE(a.views, 0) DESC, a.published_at DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	return collectArticles(rows)
}

const listWhere = `
WHERE (?1 OR a.published_at IS NOT NULL)
AND (?2 = '' OR a.slug = ?2)
AND (?3 = '' OR c.slug = ?3 OR c.name = ?3)`

// ListArticles returns one page of articles matching q, newest first, and
// the total number of matches.
func (s *Store) ListArticles(ctx context.Context, q content.ListQuery) ([]content.Article, int, error) {
	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM articles a LEFT JOIN categories c ON c.id = a.category_id`+listWhere,
		q.IncludeDrafts, q.Slug, q.Category,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count articles: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, articleSelect+listWhere+`
ORDER BY a.published_at DESC, a.id DESC
LIMIT ?4 OFFSET ?5`,
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

func collectArticles(rows *sql.Rows) ([]content.Article, error) {
	defer rows.Close()

	var articles []content.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return articles, nil
}

// ListCategories returns every category in ID order.
func (s *Store) ListCategories(ctx context.Context) ([]content.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, slug, description, color, image FROM categories ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []content.Category
	for rows.Next() {
		var c content.Category
		var image sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Color, &image); err != nil {
			return nil, err
		}
		if c.Image, err = decodeMedia(image); err != nil {
			return nil, fmt.Errorf("category %d image: %w", c.ID, err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// ListAuthors returns every author in ID order.
func (s *Store) ListAuthors(ctx context.Context) ([]content.Author, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, email, avatar FROM authors ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var authors []content.Author
	for rows.Next() {
		var a content.Author
		var avatar sql.NullString
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &avatar); err != nil {
			return nil, err
		}
		if a.Avatar, err = decodeMedia(avatar); err != nil {
			return nil, fmt.Errorf("author %d avatar: %w", a.ID, err)
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

// SaveAuthor upserts an author. A zero ID is assigned by the database.
func (s *Store) SaveAuthor(ctx context.Context, a *content.Author) error {
	avatar, err := encodeMedia(a.Avatar)
	if err != nil {
		return err
	}
	return s.db.QueryRowContext(ctx, `INSERT INTO authors (id, name, email, avatar) VALUES (NULLIF(?, 0), ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET name = excluded.name, email = excluded.email, avatar = excluded.avatar
RETURNING id`, a.ID, a.Name, a.Email, avatar).Scan(&a.ID)
}

// SaveCategory upserts a category. A zero ID is assigned by the database.
func (s *Store) SaveCategory(ctx context.Context, c *content.Category) error {
	image, err := encodeMedia(c.Image)
	if err != nil {
		return err
	}
	return s.db.QueryRowContext(ctx, `INSERT INTO categories (id, name, slug, description, color, image) VALUES (NULLIF(?, 0), ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET name = excluded.name, slug = excluded.slug, description = excluded.description,
    color = excluded.color, image = excluded.image
RETURNING id`, c.ID, c.Name, c.Slug, c.Description, c.Color, image).Scan(&c.ID)
}

// SaveArticle upserts an article. A zero ID is assigned by the database and
// zero timestamps are set to the current time.
func (s *Store) SaveArticle(ctx context.Context, a *content.Article) error {
	image, err := encodeMedia(a.Image)
	if err != nil {
		return err
	}
	blocks := "[]"
	if len(a.Blocks) > 0 {
		b, err := json.Marshal(a.Blocks)
		if err != nil {
			return fmt.Errorf("encode blocks: %w", err)
		}
		blocks = string(b)
	}
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = a.CreatedAt
	}
	var published sql.NullString
	if a.PublishedAt != nil {
		published = sql.NullString{String: formatTime(*a.PublishedAt), Valid: true}
	}
	var authorID, categoryID sql.NullInt64
	if a.Author != nil {
		authorID = sql.NullInt64{Int64: a.Author.ID, Valid: true}
	}
	if a.Category != nil {
		categoryID = sql.NullInt64{Int64: a.Category.ID, Valid: true}
	}

	return s.db.QueryRowContext(ctx, `INSERT INTO articles
    (id, slug, title, description, content, views, published_at, created_at, updated_at, author_id, category_id, image, blocks)
VALUES (NULLIF(?, 0), ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET slug = excluded.slug, title = excluded.title, description = excluded.description,
    content = excluded.content, views = excluded.views, published_at = excluded.published_at,
    updated_at = excluded.updated_at, author_id = excluded.author_id, category_id = excluded.category_id,
    image = excluded.image, blocks = excluded.blocks
RETURNING id`,
		a.ID, a.Slug, a.Title, a.Description, a.Content, a.Views, published,
		formatTime(a.CreatedAt), formatTime(a.UpdatedAt), authorID, categoryID, image, blocks,
	).Scan(&a.ID)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(timeLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

func decodeMedia(raw sql.NullString) (*content.Media, error) {
	if !raw.Valid || raw.String == "" || raw.String == "null" {
		return nil, nil
	}
	var m content.Media
	if err := json.Unmarshal([]byte(raw.String), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func encodeMedia(m *content.Media) (sql.NullString, error) {
	if m == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encode media: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

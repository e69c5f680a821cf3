// Package wire defines the nested JSON envelope shared by the HTTP API and
// its client: every entity is {id, attributes} and every relation is
// {data: entity|null}.
package wire

import "time"

// Entity is one record on the wire.
type Entity[T any] struct {
	ID         int64 `json:"id"`
	Attributes T     `json:"attributes"`
}

// Relation wraps a to-one relation. A nil Data means the relation is empty.
type Relation[T any] struct {
	Data *Entity[T] `json:"data"`
}

// Attributes returns the related attributes and whether the relation is
// present. It is safe to call on a nil *Relation.
func (r *Relation[T]) Attributes() (T, bool) {
	var zero T
	if r == nil || r.Data == nil {
		return zero, false
	}
	return r.Data.Attributes, true
}

// ID returns the related record ID, or 0 when the relation is absent.
func (r *Relation[T]) ID() int64 {
	if r == nil || r.Data == nil {
		return 0
	}
	return r.Data.ID
}

// Related builds a populated relation.
func Related[T any](id int64, attrs T) *Relation[T] {
	return &Relation[T]{Data: &Entity[T]{ID: id, Attributes: attrs}}
}

// Empty builds a relation whose data is null.
func Empty[T any]() *Relation[T] {
	return &Relation[T]{}
}

// Response carries a single entity.
type Response[T any] struct {
	Data *Entity[T] `json:"data"`
	Meta struct{}   `json:"meta"`
}

// ListResponse carries a collection and its pagination metadata.
type ListResponse[T any] struct {
	Data []Entity[T] `json:"data"`
	Meta Meta        `json:"meta"`
}

// Meta is the metadata block of list responses.
type Meta struct {
	Pagination *Pagination `json:"pagination,omitempty"`
}

type Pagination struct {
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	PageCount int `json:"pageCount"`
	Total     int `json:"total"`
}

// NewPagination computes the page count for total rows split into pages of
// pageSize.
func NewPagination(page, pageSize, total int) *Pagination {
	count := 0
	if pageSize > 0 {
		count = (total + pageSize - 1) / pageSize
	}
	return &Pagination{Page: page, PageSize: pageSize, PageCount: count, Total: total}
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

type MediaAttributes struct {
	URL             string `json:"url"`
	AlternativeText string `json:"alternativeText,omitempty"`
	Width           int    `json:"width,omitempty"`
	Height          int    `json:"height,omitempty"`
	Mime            string `json:"mime,omitempty"`
}

type AuthorAttributes struct {
	Name   string                     `json:"name"`
	Email  string                     `json:"email"`
	Avatar *Relation[MediaAttributes] `json:"avatar,omitempty"`
}

type CategoryAttributes struct {
	Name        string                     `json:"name"`
	Slug        string                     `json:"slug"`
	Description string                     `json:"description"`
	Color       string                     `json:"color,omitempty"`
	Image       *Relation[MediaAttributes] `json:"image,omitempty"`
}

// ArticleAttributes mirrors content.Article. PublishedAt is null for drafts.
type ArticleAttributes struct {
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	Content     string     `json:"content"`
	Views       int64      `json:"views"`
	PublishedAt *time.Time `json:"publishedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	Author   *Relation[AuthorAttributes]   `json:"author,omitempty"`
	Category *Relation[CategoryAttributes] `json:"category,omitempty"`
	Image    *Relation[MediaAttributes]    `json:"image,omitempty"`
	Blocks   []Block                       `json:"blocks,omitempty"`
}

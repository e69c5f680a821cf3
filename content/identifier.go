package content

import (
	"context"
	"strconv"
	"strings"
)

// IdentifierKind tells how an Identifier is resolved.
type IdentifierKind int

const (
	ByID IdentifierKind = iota
	BySlug
)

func (k IdentifierKind) String() string {
	if k == ByID {
		return "id"
	}
	return "slug"
}

// Identifier is a parsed article reference: either a numeric ID or a slug.
type Identifier struct {
	Kind IdentifierKind
	ID   int64
	Slug string
}

// ParseIdentifier classifies raw once. Base-10 integers (surrounding spaces
// ignored) become ID identifiers; everything else is treated as a slug.
func ParseIdentifier(raw string) Identifier {
	if id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64); err == nil {
		return Identifier{Kind: ByID, ID: id}
	}
	return Identifier{Kind: BySlug, Slug: raw}
}

func (i Identifier) String() string {
	if i.Kind == ByID {
		return strconv.FormatInt(i.ID, 10)
	}
	return i.Slug
}

// find dispatches to the lookup strategy matching the identifier kind.
func (i Identifier) find(ctx context.Context, r Repository) (*Article, error) {
	if i.Kind == ByID {
		return r.FindByID(ctx, i.ID)
	}
	return r.FindBySlug(ctx, i.Slug)
}

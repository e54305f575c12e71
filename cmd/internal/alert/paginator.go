package alert

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Page limit bounds for the alert feed.
const (
	MinLimit     = 1
	MaxLimit     = 100
	DefaultLimit = 10
)

// Page is one slice of the alert feed.
//
// NextCursor is the id of the last item on the page; nil means the feed is
// exhausted. Items is never nil so the JSON shape stays a list.
type Page struct {
	Items      []Alert `json:"items"`
	NextCursor *string `json:"nextCursor"`
}

// Paginator walks the alert feed newest-first using keyset cursors.
//
// A cursor is an opaque alert id. Listing resolves it to that alert's
// creation time and continues strictly before it, so pages stay stable as
// new alerts arrive at the head. There is no hidden offset: each page costs
// one point lookup plus one range scan.
type Paginator struct {
	store Store
}

// NewPaginator constructs a Paginator over the given store.
func NewPaginator(store Store) *Paginator {
	return &Paginator{store: store}
}

// List returns one page of alerts.
//
// limit must be within [MinLimit, MaxLimit]; out-of-range values return
// ErrInvalidLimit. An empty cursor starts at the newest alert; a cursor
// naming a missing alert returns ErrInvalidCursor.
func (p *Paginator) List(ctx context.Context, limit int, cursor string) (Page, error) {
	const op = "alert.List"

	if limit < MinLimit || limit > MaxLimit {
		return Page{}, fmt.Errorf("%s: %w", op, ErrInvalidLimit)
	}

	var before *time.Time
	if cursor != "" {
		anchor, err := p.store.GetByID(ctx, cursor)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return Page{}, fmt.Errorf("%s: %w", op, ErrInvalidCursor)
			}
			return Page{}, fmt.Errorf("%s: %w", op, err)
		}
		t := anchor.CreatedAt
		before = &t
	}

	// Fetch one extra row to learn whether another page exists without a
	// second query.
	rows, err := p.store.ListBefore(ctx, before, limit+1)
	if err != nil {
		return Page{}, fmt.Errorf("%s: %w", op, err)
	}

	page := Page{Items: rows}
	if len(rows) > limit {
		page.Items = rows[:limit]
		next := page.Items[limit-1].ID
		page.NextCursor = &next
	}
	if page.Items == nil {
		page.Items = []Alert{}
	}
	return page, nil
}

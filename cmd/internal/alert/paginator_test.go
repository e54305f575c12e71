package alert

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func seedAlerts(t *testing.T, store Store, n int) []Alert {
	t.Helper()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	out := make([]Alert, 0, n)
	for i := 0; i < n; i++ {
		a, err := store.Create(context.Background(), CreateAlertInput{
			ID:        fmt.Sprintf("alert-%03d", i),
			Country:   "Germany",
			City:      "Berlin",
			VisaType:  VisaTourist,
			Status:    StatusActive,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		out = append(out, a)
	}
	return out
}

func TestListWalksWholeFeed(t *testing.T) {
	store := NewMemoryStore()
	seedAlerts(t, store, 25)
	p := NewPaginator(store)

	var (
		cursor string
		seen   []Alert
		sizes  []int
	)
	for {
		page, err := p.List(context.Background(), 10, cursor)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		sizes = append(sizes, len(page.Items))
		seen = append(seen, page.Items...)
		if page.NextCursor == nil {
			break
		}
		if *page.NextCursor != page.Items[len(page.Items)-1].ID {
			t.Fatalf("cursor %q is not the last item id", *page.NextCursor)
		}
		cursor = *page.NextCursor
	}

	if len(sizes) != 3 || sizes[0] != 10 || sizes[1] != 10 || sizes[2] != 5 {
		t.Fatalf("page sizes = %v", sizes)
	}
	if len(seen) != 25 {
		t.Fatalf("walked %d items", len(seen))
	}
	for i := 1; i < len(seen); i++ {
		if seen[i].CreatedAt.After(seen[i-1].CreatedAt) {
			t.Fatalf("feed not newest-first at index %d", i)
		}
	}
	// No row repeated or skipped across pages.
	ids := make(map[string]bool, len(seen))
	for _, a := range seen {
		if ids[a.ID] {
			t.Fatalf("alert %s appeared twice", a.ID)
		}
		ids[a.ID] = true
	}
}

func TestListExactMultiple(t *testing.T) {
	store := NewMemoryStore()
	seedAlerts(t, store, 20)
	p := NewPaginator(store)

	page, err := p.List(context.Background(), 10, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.NextCursor == nil {
		t.Fatalf("expected a second page")
	}

	page, err = p.List(context.Background(), 10, *page.NextCursor)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Items) != 10 || page.NextCursor != nil {
		t.Fatalf("last page: items=%d cursor=%v", len(page.Items), page.NextCursor)
	}
}

func TestListLimitBounds(t *testing.T) {
	p := NewPaginator(NewMemoryStore())

	for _, limit := range []int{0, -1, 101} {
		if _, err := p.List(context.Background(), limit, ""); !errors.Is(err, ErrInvalidLimit) {
			t.Fatalf("limit %d: err = %v", limit, err)
		}
	}
	for _, limit := range []int{1, 100} {
		if _, err := p.List(context.Background(), limit, ""); err != nil {
			t.Fatalf("limit %d: err = %v", limit, err)
		}
	}
}

func TestListUnknownCursor(t *testing.T) {
	store := NewMemoryStore()
	seedAlerts(t, store, 3)
	p := NewPaginator(store)

	if _, err := p.List(context.Background(), 10, "no-such-alert"); !errors.Is(err, ErrInvalidCursor) {
		t.Fatalf("err = %v", err)
	}
}

func TestListEmptyFeed(t *testing.T) {
	p := NewPaginator(NewMemoryStore())

	page, err := p.List(context.Background(), 10, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Items == nil || len(page.Items) != 0 || page.NextCursor != nil {
		t.Fatalf("page = %+v", page)
	}
}

func TestListStableUnderHeadInserts(t *testing.T) {
	store := NewMemoryStore()
	seedAlerts(t, store, 15)
	p := NewPaginator(store)

	page1, err := p.List(context.Background(), 10, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	// A newer alert arriving between page fetches must not shift page two.
	if _, err := store.Create(context.Background(), CreateAlertInput{
		ID: "alert-new", Country: "France", City: "Paris",
		VisaType: VisaBusiness, Status: StatusActive,
		CreatedAt: time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	page2, err := p.List(context.Background(), 10, *page1.NextCursor)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page2.Items) != 5 {
		t.Fatalf("page two has %d items", len(page2.Items))
	}
	for _, a := range page2.Items {
		if a.ID == "alert-new" {
			t.Fatalf("head insert leaked into page two")
		}
	}
}

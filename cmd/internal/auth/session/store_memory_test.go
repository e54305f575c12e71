package session

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStorePutGetDelete(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	if err := st.Put(ctx, "tok-1", "user-1", time.Hour); err != nil {
		t.Fatalf("Put: %v", err)
	}

	userID, err := st.Get(ctx, "tok-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if userID != "user-1" {
		t.Fatalf("expected user-1, got %q", userID)
	}

	if err := st.Delete(ctx, "tok-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := st.Get(ctx, "tok-1"); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}

	// Deleting an absent key is a no-op.
	if err := st.Delete(ctx, "tok-1"); err != nil {
		t.Fatalf("Delete absent: %v", err)
	}
}

func TestMemoryStoreTTL(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	base := time.Now()
	st.now = func() time.Time { return base }

	if err := st.Put(ctx, "tok-1", "user-1", time.Minute); err != nil {
		t.Fatalf("Put: %v", err)
	}

	st.now = func() time.Time { return base.Add(2 * time.Minute) }
	if _, err := st.Get(ctx, "tok-1"); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound after TTL, got %v", err)
	}

	ok, err := st.CompareAndDelete(ctx, "tok-1", "user-1")
	if err != nil {
		t.Fatalf("CompareAndDelete: %v", err)
	}
	if ok {
		t.Fatalf("expected CompareAndDelete to miss on expired record")
	}
}

func TestMemoryStoreCompareAndDelete(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	if err := st.Put(ctx, "tok-1", "user-1", time.Hour); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// Wrong owner: no delete.
	ok, err := st.CompareAndDelete(ctx, "tok-1", "user-2")
	if err != nil {
		t.Fatalf("CompareAndDelete: %v", err)
	}
	if ok {
		t.Fatalf("expected mismatch to leave the record")
	}
	if _, err := st.Get(ctx, "tok-1"); err != nil {
		t.Fatalf("record should survive a mismatched delete: %v", err)
	}

	// Matching owner: deleted exactly once.
	ok, err = st.CompareAndDelete(ctx, "tok-1", "user-1")
	if err != nil {
		t.Fatalf("CompareAndDelete: %v", err)
	}
	if !ok {
		t.Fatalf("expected delete to happen")
	}
	ok, err = st.CompareAndDelete(ctx, "tok-1", "user-1")
	if err != nil {
		t.Fatalf("CompareAndDelete: %v", err)
	}
	if ok {
		t.Fatalf("second delete must miss")
	}
}

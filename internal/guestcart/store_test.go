package guestcart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"dancehub-storefront/internal/domain"
	"dancehub-storefront/internal/kv"
	"dancehub-storefront/internal/notify"
)

type recordingNotifier struct {
	titles     []string
	severities []notify.Severity
}

func (n *recordingNotifier) Display(title, _ string, severity notify.Severity) {
	n.titles = append(n.titles, title)
	n.severities = append(n.severities, severity)
}

type failingKV struct {
	inner   kv.Store
	failSet bool
	failGet bool
}

func (f *failingKV) Get(ctx context.Context, key string) (string, error) {
	if f.failGet {
		return "", fmt.Errorf("%w: down", domain.ErrStorageUnavailable)
	}
	return f.inner.Get(ctx, key)
}

func (f *failingKV) Set(ctx context.Context, key, value string) error {
	if f.failSet {
		return fmt.Errorf("%w: down", domain.ErrStorageUnavailable)
	}
	return f.inner.Set(ctx, key, value)
}

func (f *failingKV) Remove(ctx context.Context, key string) error {
	return f.inner.Remove(ctx, key)
}

func strPtr(v string) *string {
	return &v
}

func newTestStore() (*Store, kv.Store, *recordingNotifier) {
	backend := kv.NewMemory()
	notifier := &recordingNotifier{}
	return New(backend, notifier, nil, ""), backend, notifier
}

func TestAddItemMergesSameLine(t *testing.T) {
	store, _, _ := newTestStore()
	ctx := context.Background()

	store.AddItem(ctx, "g1", domain.CartItem{
		ItemID: 42, Type: domain.ItemTypeResource, Title: "Ballet Basics", Price: "10.00", Quantity: 1,
	})
	store.AddItem(ctx, "g1", domain.CartItem{
		ItemID: 42, Type: domain.ItemTypeResource, Title: "Ballet Basics", Price: "10.00", Quantity: 2,
	})

	items := store.Load(ctx, "g1")
	if len(items) != 1 {
		t.Fatalf("expected a single merged line, got %d", len(items))
	}
	if items[0].Quantity != 3 {
		t.Fatalf("expected merged quantity 3, got %d", items[0].Quantity)
	}
	if got := store.ItemCount(ctx, "g1"); got != 3 {
		t.Fatalf("itemCount = %d, want 3", got)
	}
	if got := store.Total(ctx, "g1"); got != 30.0 {
		t.Fatalf("total = %v, want 30.00", got)
	}
}

func TestAddItemDistinctLinesKeepOrder(t *testing.T) {
	store, _, _ := newTestStore()
	ctx := context.Background()

	store.AddItem(ctx, "g1", domain.CartItem{ItemID: 1, Title: "Jazz Warmups", Price: "5.50", Quantity: 1})
	store.AddItem(ctx, "g1", domain.CartItem{ItemID: 2, Title: "Tap Drills", Price: "8.00", Quantity: 2})

	items := store.Load(ctx, "g1")
	if len(items) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(items))
	}
	if items[0].ItemID != 1 || items[1].ItemID != 2 {
		t.Fatalf("insertion order not preserved: %+v", items)
	}
	if items[0].ID == items[1].ID {
		t.Fatal("synthetic ids must be unique within a cart")
	}
}

func TestAddItemSubstitutesPlaceholderImage(t *testing.T) {
	store, _, _ := newTestStore()
	ctx := context.Background()

	added := store.AddItem(ctx, "g1", domain.CartItem{ItemID: 7, Title: "Salsa Steps", Price: "4.00", Quantity: 1})
	if added.ImageURL == nil || *added.ImageURL != "/images/resources/7/thumbnail.png" {
		t.Fatalf("expected placeholder image, got %v", added.ImageURL)
	}

	withImage := store.AddItem(ctx, "g1", domain.CartItem{
		ItemID: 8, Title: "Swing Combos", Price: "4.00", Quantity: 1, ImageURL: strPtr("https://cdn.example.com/swing.png"),
	})
	if withImage.ImageURL == nil || *withImage.ImageURL != "https://cdn.example.com/swing.png" {
		t.Fatalf("supplied image must be kept, got %v", withImage.ImageURL)
	}
}

func TestUpdateQuantityBelowOneRemoves(t *testing.T) {
	store, _, _ := newTestStore()
	ctx := context.Background()

	added := store.AddItem(ctx, "g1", domain.CartItem{ItemID: 7, Title: "Salsa Steps", Price: "4.00", Quantity: 2})

	store.UpdateQuantity(ctx, "g1", added.ID, 0)
	if items := store.Load(ctx, "g1"); len(items) != 0 {
		t.Fatalf("quantity 0 must remove the line, got %+v", items)
	}

	added = store.AddItem(ctx, "g1", domain.CartItem{ItemID: 7, Title: "Salsa Steps", Price: "4.00", Quantity: 2})
	store.UpdateQuantity(ctx, "g1", added.ID, -3)
	if items := store.Load(ctx, "g1"); len(items) != 0 {
		t.Fatalf("negative quantity must remove the line, got %+v", items)
	}
}

func TestUpdateQuantitySetsVerbatim(t *testing.T) {
	store, _, _ := newTestStore()
	ctx := context.Background()

	added := store.AddItem(ctx, "g1", domain.CartItem{ItemID: 7, Title: "Salsa Steps", Price: "4.00", Quantity: 2})
	store.UpdateQuantity(ctx, "g1", added.ID, 5)

	items := store.Load(ctx, "g1")
	if len(items) != 1 || items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %+v", items)
	}
}

func TestRemoveAbsentIDIsNoOp(t *testing.T) {
	store, _, _ := newTestStore()
	ctx := context.Background()

	store.AddItem(ctx, "g1", domain.CartItem{ItemID: 7, Title: "Salsa Steps", Price: "4.00", Quantity: 1})
	store.RemoveItem(ctx, "g1", 999999)
	if items := store.Load(ctx, "g1"); len(items) != 1 {
		t.Fatalf("removing an absent id must not change the cart, got %+v", items)
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	backend := kv.NewMemory()
	ctx := context.Background()

	first := New(backend, &recordingNotifier{}, nil, "")
	a := first.AddItem(ctx, "g1", domain.CartItem{ItemID: 1, Title: "Jazz Warmups", Price: "5.50", Quantity: 1})
	b := first.AddItem(ctx, "g1", domain.CartItem{ItemID: 2, Title: "Tap Drills", Price: "8.00", Quantity: 2})

	// A fresh store over the same backend must see the identical sequence.
	second := New(backend, &recordingNotifier{}, nil, "")
	items := second.Load(ctx, "g1")
	if len(items) != 2 {
		t.Fatalf("expected 2 persisted lines, got %d", len(items))
	}
	if items[0].ID != a.ID || items[1].ID != b.ID {
		t.Fatalf("ids changed across reload: %+v", items)
	}
	if items[0].Price != "5.50" || items[1].Quantity != 2 {
		t.Fatalf("line contents changed across reload: %+v", items)
	}
}

func TestClearRemovesStorageKey(t *testing.T) {
	backend := kv.NewMemory()
	store := New(backend, &recordingNotifier{}, nil, "")
	ctx := context.Background()

	store.AddItem(ctx, "g1", domain.CartItem{ItemID: 1, Title: "Jazz Warmups", Price: "5.50", Quantity: 1})
	store.Clear(ctx, "g1")

	if items := store.Load(ctx, "g1"); len(items) != 0 {
		t.Fatalf("expected empty cart after clear, got %+v", items)
	}
	if _, err := backend.Get(ctx, "guest_cart:g1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected storage key removed, got %v", err)
	}
}

func TestMalformedBlobResetsToEmpty(t *testing.T) {
	backend := kv.NewMemory()
	ctx := context.Background()
	if err := backend.Set(ctx, "guest_cart:g1", "{not json"); err != nil {
		t.Fatal(err)
	}

	store := New(backend, &recordingNotifier{}, nil, "")
	if items := store.Load(ctx, "g1"); len(items) != 0 {
		t.Fatalf("corrupt blob must load as empty, got %+v", items)
	}

	// The next mutation overwrites the corrupt record with valid state.
	store.AddItem(ctx, "g1", domain.CartItem{ItemID: 1, Title: "Jazz Warmups", Price: "5.50", Quantity: 1})
	raw, err := backend.Get(ctx, "guest_cart:g1")
	if err != nil {
		t.Fatal(err)
	}
	var items []domain.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		t.Fatalf("blob still corrupt after save: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 line in rewritten blob, got %d", len(items))
	}
}

func TestLoadReflectsBackendWrites(t *testing.T) {
	backend := kv.NewMemory()
	store := New(backend, &recordingNotifier{}, nil, "")
	ctx := context.Background()

	added := store.AddItem(ctx, "g1", domain.CartItem{ItemID: 1, Title: "Jazz Warmups", Price: "5.50", Quantity: 1})

	// Another writer rewrites the record; the store serves the backend's
	// state, never a stale in-process copy.
	rewritten := []domain.CartItem{{ID: added.ID, Type: domain.ItemTypeResource, ItemID: 1, Title: "Jazz Warmups", Price: "5.50", Quantity: 9}}
	raw, err := json.Marshal(rewritten)
	if err != nil {
		t.Fatal(err)
	}
	if err := backend.Set(ctx, "guest_cart:g1", string(raw)); err != nil {
		t.Fatal(err)
	}

	items := store.Load(ctx, "g1")
	if len(items) != 1 || items[0].Quantity != 9 {
		t.Fatalf("expected backend state to be served, got %+v", items)
	}
	if got := store.ItemCount(ctx, "g1"); got != 9 {
		t.Fatalf("itemCount = %d, want 9", got)
	}
}

func TestLoadFailureDegradesToMemory(t *testing.T) {
	backend := &failingKV{inner: kv.NewMemory(), failGet: true}
	notifier := &recordingNotifier{}
	store := New(backend, notifier, nil, "")
	ctx := context.Background()

	store.AddItem(ctx, "g1", domain.CartItem{ItemID: 1, Title: "Jazz Warmups", Price: "5.50", Quantity: 1})

	if len(notifier.titles) != 1 || notifier.severities[0] != notify.SeverityWarning {
		t.Fatalf("expected a single warning notification, got %v", notifier.titles)
	}
	if got := store.ItemCount(ctx, "g1"); got != 1 {
		t.Fatalf("in-memory cart lost the mutation, itemCount = %d", got)
	}
}

func TestClearReleasesDegradedState(t *testing.T) {
	backend := &failingKV{inner: kv.NewMemory(), failSet: true}
	notifier := &recordingNotifier{}
	store := New(backend, notifier, nil, "")
	ctx := context.Background()

	store.AddItem(ctx, "g1", domain.CartItem{ItemID: 1, Title: "Jazz Warmups", Price: "5.50", Quantity: 1})
	if len(notifier.titles) != 1 {
		t.Fatalf("expected degrade warning, got %v", notifier.titles)
	}

	// Once the backend recovers, clearing drops the memory-only state and
	// later mutations persist again.
	backend.failSet = false
	store.Clear(ctx, "g1")

	store.AddItem(ctx, "g1", domain.CartItem{ItemID: 2, Title: "Tap Drills", Price: "8.00", Quantity: 1})
	if _, err := backend.inner.Get(ctx, "guest_cart:g1"); err != nil {
		t.Fatalf("expected cart persisted after recovery, got %v", err)
	}
	if len(notifier.titles) != 1 {
		t.Fatalf("expected no further warnings after recovery, got %v", notifier.titles)
	}
}

func TestStorageFailureDegradesToMemory(t *testing.T) {
	backend := &failingKV{inner: kv.NewMemory(), failSet: true}
	notifier := &recordingNotifier{}
	store := New(backend, notifier, nil, "")
	ctx := context.Background()

	store.AddItem(ctx, "g1", domain.CartItem{ItemID: 1, Title: "Jazz Warmups", Price: "5.50", Quantity: 1})

	if len(notifier.titles) != 1 || notifier.severities[0] != notify.SeverityWarning {
		t.Fatalf("expected a single warning notification, got %v", notifier.titles)
	}

	// The mutation survives in memory and later ops warn no further.
	store.AddItem(ctx, "g1", domain.CartItem{ItemID: 2, Title: "Tap Drills", Price: "8.00", Quantity: 1})
	if got := store.ItemCount(ctx, "g1"); got != 2 {
		t.Fatalf("in-memory cart lost mutations, itemCount = %d", got)
	}
	if len(notifier.titles) != 1 {
		t.Fatalf("expected exactly one warning per failure, got %d", len(notifier.titles))
	}
}

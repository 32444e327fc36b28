package reconcile

import (
	"context"
	"errors"
	"testing"

	"dancehub-storefront/internal/domain"
	"dancehub-storefront/internal/notify"
	"dancehub-storefront/internal/remotecart"
)

type stubGuestStore struct {
	items      []domain.CartItem
	loadCalls  int
	clearCalls int
}

func (s *stubGuestStore) Load(_ context.Context, _ string) []domain.CartItem {
	s.loadCalls++
	return s.items
}

func (s *stubGuestStore) Clear(_ context.Context, _ string) {
	s.clearCalls++
	s.items = nil
}

type stubRemoteCart struct {
	added []remotecart.AddItemInput
	errOn map[int64]error
}

func (s *stubRemoteCart) AddItem(_ context.Context, _ string, in remotecart.AddItemInput) (domain.CartItem, error) {
	s.added = append(s.added, in)
	if err, ok := s.errOn[in.ItemID]; ok {
		return domain.CartItem{}, err
	}
	return domain.CartItem{ID: 500 + in.ItemID, ItemID: in.ItemID, Quantity: in.Quantity}, nil
}

type stubNotifier struct {
	titles     []string
	severities []notify.Severity
}

func (n *stubNotifier) Display(title, _ string, severity notify.Severity) {
	n.titles = append(n.titles, title)
	n.severities = append(n.severities, severity)
}

func twoItems() []domain.CartItem {
	return []domain.CartItem{
		{ID: 1, Type: domain.ItemTypeResource, ItemID: 42, Title: "Ballet Basics", Price: "10.00", Quantity: 1},
		{ID: 2, Type: domain.ItemTypeResource, ItemID: 7, Title: "Salsa Steps", Price: "4.00", Quantity: 2},
	}
}

func TestSweepTransfersAndClears(t *testing.T) {
	guest := &stubGuestStore{items: twoItems()}
	remote := &stubRemoteCart{}
	notifier := &stubNotifier{}
	engine := New(guest, remote, notifier, nil)

	result, err := engine.Sweep(context.Background(), "cust-1", "g1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Attempted != 2 || result.Failed != 0 || !result.Cleared {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(remote.added) != 2 {
		t.Fatalf("expected 2 sequential requests, got %d", len(remote.added))
	}
	// Insertion order must be preserved.
	if remote.added[0].ItemID != 42 || remote.added[1].ItemID != 7 {
		t.Fatalf("requests out of order: %+v", remote.added)
	}
	if guest.clearCalls != 1 {
		t.Fatal("guest cart must be cleared after a fully successful sweep")
	}
	if len(notifier.titles) != 1 || notifier.severities[0] != notify.SeveritySuccess {
		t.Fatalf("expected success notification, got %v", notifier.titles)
	}
}

func TestSweepPartialFailureLeavesGuestCartIntact(t *testing.T) {
	guest := &stubGuestStore{items: twoItems()}
	remote := &stubRemoteCart{errOn: map[int64]error{7: errors.New("network error")}}
	notifier := &stubNotifier{}
	engine := New(guest, remote, notifier, nil)

	result, err := engine.Sweep(context.Background(), "cust-1", "g1")
	if err == nil {
		t.Fatal("expected sweep error")
	}
	if result.Attempted != 2 || result.Failed != 1 || result.Cleared {
		t.Fatalf("unexpected result: %+v", result)
	}
	// The failing item must not stop the remaining requests.
	if len(remote.added) != 2 {
		t.Fatalf("all items must be attempted, got %d requests", len(remote.added))
	}
	if guest.clearCalls != 0 {
		t.Fatal("guest cart must be left intact after a partial failure")
	}
	if len(notifier.titles) != 1 || notifier.severities[0] != notify.SeverityError {
		t.Fatalf("expected failure notification, got %v", notifier.titles)
	}
}

func TestSweepEmptyGuestCartIsNoOp(t *testing.T) {
	guest := &stubGuestStore{}
	remote := &stubRemoteCart{}
	notifier := &stubNotifier{}
	engine := New(guest, remote, notifier, nil)

	result, err := engine.Sweep(context.Background(), "cust-1", "g1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Attempted != 0 || len(remote.added) != 0 || len(notifier.titles) != 0 {
		t.Fatal("empty guest cart must not trigger any requests or notifications")
	}
}

func TestSweepRunsAtMostOncePerBatch(t *testing.T) {
	guest := &stubGuestStore{items: twoItems()}
	remote := &stubRemoteCart{}
	engine := New(guest, remote, &stubNotifier{}, nil)

	if _, err := engine.Sweep(context.Background(), "cust-1", "g1"); err != nil {
		t.Fatalf("first sweep: %v", err)
	}
	if _, err := engine.Sweep(context.Background(), "cust-1", "g1"); err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	// The second run sees an empty cart and issues nothing.
	if len(remote.added) != 2 {
		t.Fatalf("expected one batch of 2 requests total, got %d", len(remote.added))
	}
	if guest.clearCalls != 1 {
		t.Fatalf("expected a single clear, got %d", guest.clearCalls)
	}
}

func TestSweepWithoutSessionIsIdle(t *testing.T) {
	guest := &stubGuestStore{items: twoItems()}
	remote := &stubRemoteCart{}
	engine := New(guest, remote, &stubNotifier{}, nil)

	if _, err := engine.Sweep(context.Background(), "", "g1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := engine.Sweep(context.Background(), "cust-1", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(remote.added) != 0 {
		t.Fatal("sweep must not fire without both a customer and a guest id")
	}
}

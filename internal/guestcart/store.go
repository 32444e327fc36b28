// Package guestcart persists anonymous shopping carts across sessions,
// keyed by guest id, on top of the kv storage contract.
package guestcart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"log"
	"strconv"
	"sync"
	"time"

	"dancehub-storefront/internal/domain"
	"dancehub-storefront/internal/kv"
	"dancehub-storefront/internal/notify"
)

const keyPrefix = "guest_cart:"

const lockStripes = 64

// Store owns guest cart mutations. The kv backend is the authority: every
// operation reads the persisted blob, so nothing is cached for healthy
// guests and memory stays bounded regardless of traffic. A failing backend
// degrades the affected cart to memory-only for the rest of the session
// after warning the user once, it never fails the mutation.
//
// Locking is striped by guest id: ordering is guaranteed per guest record,
// and a slow backend call stalls only guests sharing the stripe, not the
// whole process.
type Store struct {
	kv              kv.Store
	notifier        notify.Notifier
	logger          *log.Logger
	placeholderHost string

	stripes [lockStripes]sync.Mutex

	mu       sync.Mutex
	degraded map[string][]domain.CartItem
}

func New(kvStore kv.Store, notifier notify.Notifier, logger *log.Logger, placeholderHost string) *Store {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Store{
		kv:              kvStore,
		notifier:        notifier,
		logger:          logger,
		placeholderHost: placeholderHost,
		degraded:        make(map[string][]domain.CartItem),
	}
}

func (s *Store) stripe(guestID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(guestID))
	return &s.stripes[h.Sum32()%lockStripes]
}

// Load returns the guest's cart items in insertion order. Absent or corrupt
// persisted state yields an empty cart, never an error.
func (s *Store) Load(ctx context.Context, guestID string) []domain.CartItem {
	mu := s.stripe(guestID)
	mu.Lock()
	defer mu.Unlock()
	return copyItems(s.load(ctx, guestID))
}

// AddItem appends the item or, when a line with the same (itemId, type)
// already exists, adds the incoming quantity to it. Items without an image
// get a deterministic placeholder derived from the item id. The returned
// item reflects the stored state, id included.
func (s *Store) AddItem(ctx context.Context, guestID string, item domain.CartItem) domain.CartItem {
	mu := s.stripe(guestID)
	mu.Lock()
	defer mu.Unlock()

	if item.Type == "" {
		item.Type = domain.ItemTypeResource
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	items := s.load(ctx, guestID)
	for i := range items {
		if items[i].SameLine(item) {
			items[i].Quantity += item.Quantity
			s.save(ctx, guestID, items)
			return items[i]
		}
	}

	if item.ID == 0 {
		item.ID = syntheticID(items)
	}
	if item.ImageURL == nil {
		placeholder := s.placeholderImage(item.ItemID)
		item.ImageURL = &placeholder
	}
	items = append(items, item)
	s.save(ctx, guestID, items)
	return item
}

// RemoveItem deletes the line with the given id. Absent ids are a no-op.
func (s *Store) RemoveItem(ctx context.Context, guestID string, id int64) {
	mu := s.stripe(guestID)
	mu.Lock()
	defer mu.Unlock()

	items := s.load(ctx, guestID)
	kept := items[:0]
	for _, it := range items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	if len(kept) == len(items) {
		return
	}
	s.save(ctx, guestID, kept)
}

// UpdateQuantity sets the line's quantity verbatim. A quantity below one is
// a removal, not an error.
func (s *Store) UpdateQuantity(ctx context.Context, guestID string, id int64, quantity int) {
	if quantity < 1 {
		s.RemoveItem(ctx, guestID, id)
		return
	}

	mu := s.stripe(guestID)
	mu.Lock()
	defer mu.Unlock()

	items := s.load(ctx, guestID)
	for i := range items {
		if items[i].ID == id {
			items[i].Quantity = quantity
			s.save(ctx, guestID, items)
			return
		}
	}
}

// Clear removes the guest's cart entirely: the storage key is deleted, not
// overwritten with an empty blob.
func (s *Store) Clear(ctx context.Context, guestID string) {
	mu := s.stripe(guestID)
	mu.Lock()
	defer mu.Unlock()

	if s.clearDegraded(guestID) {
		return
	}
	if err := s.kv.Remove(ctx, keyPrefix+guestID); err != nil {
		s.degrade(guestID, nil, err)
	}
}

// ItemCount returns the sum of line quantities.
func (s *Store) ItemCount(ctx context.Context, guestID string) int {
	mu := s.stripe(guestID)
	mu.Lock()
	defer mu.Unlock()

	total := 0
	for _, it := range s.load(ctx, guestID) {
		total += it.Quantity
	}
	return total
}

// Total returns the sum of price*quantity over all lines. Prices are the
// decimal strings captured at add time; unparseable ones count as zero.
func (s *Store) Total(ctx context.Context, guestID string) float64 {
	mu := s.stripe(guestID)
	mu.Lock()
	defer mu.Unlock()

	var total float64
	for _, it := range s.load(ctx, guestID) {
		price, err := strconv.ParseFloat(it.Price, 64)
		if err != nil {
			s.logger.Printf("guest cart: unparseable price %q on item %d", it.Price, it.ID)
			continue
		}
		total += price * float64(it.Quantity)
	}
	return total
}

// load must be called with the guest's stripe held. Healthy guests read the
// backend every time; only degraded guests are served from memory.
func (s *Store) load(ctx context.Context, guestID string) []domain.CartItem {
	if items, ok := s.degradedItems(guestID); ok {
		return items
	}

	raw, err := s.kv.Get(ctx, keyPrefix+guestID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		s.degrade(guestID, nil, err)
		return nil
	}

	var items []domain.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		// Corrupt blob: start empty, the next save overwrites it.
		s.logger.Printf("guest cart: discarding malformed blob for guest %s: %v", guestID, err)
		return nil
	}
	return items
}

// save must be called with the guest's stripe held. A failing write keeps
// the mutated items in memory so the mutation is never lost.
func (s *Store) save(ctx context.Context, guestID string, items []domain.CartItem) {
	if s.saveDegraded(guestID, items) {
		return
	}

	raw, err := json.Marshal(items)
	if err != nil {
		s.logger.Printf("guest cart: marshal for guest %s: %v", guestID, err)
		return
	}
	if err := s.kv.Set(ctx, keyPrefix+guestID, string(raw)); err != nil {
		s.degrade(guestID, items, err)
	}
}

func (s *Store) degradedItems(guestID string) ([]domain.CartItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, ok := s.degraded[guestID]
	return items, ok
}

// saveDegraded updates the in-memory cart when the guest is already
// degraded and reports whether it did.
func (s *Store) saveDegraded(guestID string, items []domain.CartItem) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.degraded[guestID]; !ok {
		return false
	}
	s.degraded[guestID] = items
	return true
}

// clearDegraded drops the degraded entry and reports whether one existed.
// Clearing is the one mutation that frees the memory-only state.
func (s *Store) clearDegraded(guestID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.degraded[guestID]; !ok {
		return false
	}
	delete(s.degraded, guestID)
	return true
}

func (s *Store) degrade(guestID string, items []domain.CartItem, err error) {
	s.logger.Printf("guest cart: storage unavailable for guest %s: %v", guestID, err)

	s.mu.Lock()
	_, already := s.degraded[guestID]
	s.degraded[guestID] = items
	s.mu.Unlock()

	if already || s.notifier == nil {
		return
	}
	s.notifier.Display(
		"Cart not saved",
		"We couldn't save your cart. It will be kept for this session only.",
		notify.SeverityWarning,
	)
}

func (s *Store) placeholderImage(itemID int64) string {
	return fmt.Sprintf("%s/images/resources/%d/thumbnail.png", s.placeholderHost, itemID)
}

// syntheticID returns a millisecond-timestamp id, bumped past any existing
// line so rapid adds within the same millisecond stay unique.
func syntheticID(items []domain.CartItem) int64 {
	id := time.Now().UnixMilli()
	for _, it := range items {
		if it.ID >= id {
			id = it.ID + 1
		}
	}
	return id
}

func copyItems(items []domain.CartItem) []domain.CartItem {
	if items == nil {
		return nil
	}
	out := make([]domain.CartItem, len(items))
	copy(out, items)
	return out
}

// Package cart presents one cart interface regardless of authentication
// state, routing each operation to the guest store or the remote cart.
package cart

import (
	"context"
	"io"
	"log"
	"strconv"
	"time"

	"dancehub-storefront/internal/domain"
	"dancehub-storefront/internal/notify"
	"dancehub-storefront/internal/remotecart"
)

type guestStore interface {
	Load(ctx context.Context, guestID string) []domain.CartItem
	AddItem(ctx context.Context, guestID string, item domain.CartItem) domain.CartItem
	RemoveItem(ctx context.Context, guestID string, id int64)
	UpdateQuantity(ctx context.Context, guestID string, id int64, quantity int)
	Clear(ctx context.Context, guestID string)
	ItemCount(ctx context.Context, guestID string) int
	Total(ctx context.Context, guestID string) float64
}

type remoteCart interface {
	Items(ctx context.Context, customerID string) ([]domain.CartItem, error)
	AddItem(ctx context.Context, customerID string, in remotecart.AddItemInput) (domain.CartItem, error)
	UpdateQuantity(ctx context.Context, customerID string, itemID int64, quantity int) error
	RemoveItem(ctx context.Context, customerID string, itemID int64) error
	Clear(ctx context.Context, customerID string) error
}

// Service is the unified cart facade. Which backing store is consulted is
// decided solely by session shape; merging the two at the login boundary is
// the reconciliation engine's job, not this one's.
type Service struct {
	guest    guestStore
	remote   remoteCart
	notifier notify.Notifier
	logger   *log.Logger
	now      func() time.Time
}

func New(guest guestStore, remote remoteCart, notifier notify.Notifier, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		guest:    guest,
		remote:   remote,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// AddInput is an add-to-cart request in the normalized item shape.
type AddInput struct {
	Type     string  `json:"type"`
	ItemID   int64   `json:"itemId"`
	Title    string  `json:"title"`
	Price    string  `json:"price"`
	Quantity int     `json:"quantity"`
	ImageURL *string `json:"imageUrl"`
}

// AddItem adds a line to the caller's active cart. For authenticated
// sessions the item carries a synthetic timestamp id for optimistic display
// until the remote cart responds; the server-assigned id then replaces it.
func (s *Service) AddItem(ctx context.Context, sess domain.Session, in AddInput) (domain.CartItem, error) {
	if in.Type == "" {
		in.Type = domain.ItemTypeResource
	}
	if in.Quantity < 1 {
		in.Quantity = 1
	}

	if !sess.Authenticated() {
		return s.guest.AddItem(ctx, sess.GuestID, domain.CartItem{
			Type:     in.Type,
			ItemID:   in.ItemID,
			Title:    in.Title,
			Price:    in.Price,
			Quantity: in.Quantity,
			ImageURL: in.ImageURL,
		}), nil
	}

	item := domain.CartItem{
		ID:       s.now().UnixMilli(),
		Type:     in.Type,
		ItemID:   in.ItemID,
		Title:    in.Title,
		Price:    in.Price,
		Quantity: in.Quantity,
		ImageURL: in.ImageURL,
	}
	created, err := s.remote.AddItem(ctx, sess.CustomerID, remotecart.AddItemInput{
		ItemType: in.Type,
		ItemID:   in.ItemID,
		Title:    in.Title,
		Price:    in.Price,
		Quantity: in.Quantity,
		ImageURL: in.ImageURL,
	})
	if err != nil {
		s.logger.Printf("cart: remote add customer=%s item=%d: %v", sess.CustomerID, in.ItemID, err)
		s.notifier.Display("Could not add to cart", in.Title+" was not added. Please try again.", notify.SeverityError)
		return domain.CartItem{}, err
	}
	if created.ID != 0 {
		// The synthetic id is display-only and never authoritative.
		item = created
	}
	return item, nil
}

// Items returns the active cart's lines in the normalized shape.
func (s *Service) Items(ctx context.Context, sess domain.Session) ([]domain.CartItem, error) {
	if !sess.Authenticated() {
		return s.guest.Load(ctx, sess.GuestID), nil
	}
	items, err := s.remote.Items(ctx, sess.CustomerID)
	if err != nil {
		s.logger.Printf("cart: remote items customer=%s: %v", sess.CustomerID, err)
		return nil, err
	}
	return items, nil
}

// RemoveItem deletes a line from the active cart.
func (s *Service) RemoveItem(ctx context.Context, sess domain.Session, id int64) error {
	if !sess.Authenticated() {
		s.guest.RemoveItem(ctx, sess.GuestID, id)
		return nil
	}
	if err := s.remote.RemoveItem(ctx, sess.CustomerID, id); err != nil {
		s.notifier.Display("Could not update cart", "The item could not be removed. Please try again.", notify.SeverityError)
		return err
	}
	return nil
}

// UpdateQuantity sets a line's quantity; below one it removes the line.
func (s *Service) UpdateQuantity(ctx context.Context, sess domain.Session, id int64, quantity int) error {
	if quantity < 1 {
		return s.RemoveItem(ctx, sess, id)
	}
	if !sess.Authenticated() {
		s.guest.UpdateQuantity(ctx, sess.GuestID, id, quantity)
		return nil
	}
	if err := s.remote.UpdateQuantity(ctx, sess.CustomerID, id, quantity); err != nil {
		s.notifier.Display("Could not update cart", "The quantity change was not saved. Please try again.", notify.SeverityError)
		return err
	}
	return nil
}

// Clear empties the active cart.
func (s *Service) Clear(ctx context.Context, sess domain.Session) error {
	if !sess.Authenticated() {
		s.guest.Clear(ctx, sess.GuestID)
		return nil
	}
	if err := s.remote.Clear(ctx, sess.CustomerID); err != nil {
		s.notifier.Display("Could not update cart", "The cart could not be cleared. Please try again.", notify.SeverityError)
		return err
	}
	return nil
}

// Summary reports the derived itemCount and total of the active cart.
func (s *Service) Summary(ctx context.Context, sess domain.Session) (int, float64, error) {
	if !sess.Authenticated() {
		return s.guest.ItemCount(ctx, sess.GuestID), s.guest.Total(ctx, sess.GuestID), nil
	}
	items, err := s.remote.Items(ctx, sess.CustomerID)
	if err != nil {
		return 0, 0, err
	}
	count := 0
	var total float64
	for _, it := range items {
		count += it.Quantity
		price, err := strconv.ParseFloat(it.Price, 64)
		if err != nil {
			s.logger.Printf("cart: unparseable price %q on item %d", it.Price, it.ID)
			continue
		}
		total += price * float64(it.Quantity)
	}
	return count, total, nil
}

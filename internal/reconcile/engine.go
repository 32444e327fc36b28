// Package reconcile drains a guest cart into the authenticated customer's
// remote cart at the login boundary.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"dancehub-storefront/internal/domain"
	"dancehub-storefront/internal/notify"
	"dancehub-storefront/internal/remotecart"
)

type guestStore interface {
	Load(ctx context.Context, guestID string) []domain.CartItem
	Clear(ctx context.Context, guestID string)
}

type remoteCart interface {
	AddItem(ctx context.Context, customerID string, in remotecart.AddItemInput) (domain.CartItem, error)
}

// Engine runs the one-time guest-to-customer cart transfer. The guard is
// the guest cart itself: after a successful sweep it is empty, so running
// the sweep again is a no-op. A logout followed by new guest activity
// re-arms it for the new batch.
type Engine struct {
	guest    guestStore
	remote   remoteCart
	notifier notify.Notifier
	logger   *log.Logger
}

func New(guest guestStore, remote remoteCart, notifier notify.Notifier, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Engine{
		guest:    guest,
		remote:   remote,
		notifier: notifier,
		logger:   logger,
	}
}

// Result reports what a sweep did.
type Result struct {
	Attempted int  `json:"attempted"`
	Failed    int  `json:"failed"`
	Cleared   bool `json:"cleared"`
}

// Sweep transfers every guest line to the customer's remote cart, one
// request per item in insertion order. Every item is attempted even after
// failures. The guest cart is cleared only when the whole sweep succeeded;
// any failure leaves it intact so the user can retry.
func (e *Engine) Sweep(ctx context.Context, customerID, guestID string) (Result, error) {
	if customerID == "" || guestID == "" {
		return Result{}, nil
	}

	items := e.guest.Load(ctx, guestID)
	if len(items) == 0 {
		return Result{}, nil
	}

	var errs []error
	for _, item := range items {
		_, err := e.remote.AddItem(ctx, customerID, remotecart.AddItemInput{
			ItemType: item.Type,
			ItemID:   item.ItemID,
			Title:    item.Title,
			Price:    item.Price,
			Quantity: item.Quantity,
			ImageURL: item.ImageURL,
		})
		if err != nil {
			e.logger.Printf("reconcile: transfer item=%d customer=%s: %v", item.ItemID, customerID, err)
			errs = append(errs, fmt.Errorf("item %d: %w", item.ItemID, err))
		}
	}

	result := Result{Attempted: len(items), Failed: len(errs)}
	if len(errs) > 0 {
		e.notifier.Display(
			"Cart transfer failed",
			"Some items could not be moved to your account cart. They are still saved and you can retry.",
			notify.SeverityError,
		)
		return result, errors.Join(errs...)
	}

	e.guest.Clear(ctx, guestID)
	result.Cleared = true
	e.notifier.Display(
		"Cart transferred",
		"Your saved items were moved to your account cart.",
		notify.SeveritySuccess,
	)
	return result, nil
}

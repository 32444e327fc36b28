package domain

import "time"

type Customer struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	FirstName        string    `json:"firstName,omitempty"`
	LastName         string    `json:"lastName,omitempty"`
	SubscriptionPlan *string   `json:"subscriptionPlan,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Session identifies the caller of a cart operation. Exactly one of
// CustomerID or GuestID is expected to be set; a customer session routes to
// the remote cart, a guest session to the local guest store.
type Session struct {
	CustomerID       string
	GuestID          string
	SubscriptionPlan *string
}

func (s Session) Authenticated() bool {
	return s.CustomerID != ""
}

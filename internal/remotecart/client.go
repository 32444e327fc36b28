// Package remotecart is the HTTP client for the marketplace cart API, which
// owns authenticated carts. This service is only a caller of it.
package remotecart

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"dancehub-storefront/internal/domain"
)

// AddItemInput is the add-to-cart payload. Title, price and image are
// captured at add time; the cart API does not re-fetch them.
//
// The wire shape is asymmetric on purpose: requests send the item type as
// "itemType", while the cart API's responses use "type" (the line-item
// field decoded into domain.CartItem). Both names are the remote contract,
// not a mismatch.
type AddItemInput struct {
	ItemType string  `json:"itemType"`
	ItemID   int64   `json:"itemId"`
	Title    string  `json:"title"`
	Price    string  `json:"price"`
	Quantity int     `json:"quantity"`
	ImageURL *string `json:"imageUrl,omitempty"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Items returns the customer's cart lines.
func (c *Client) Items(ctx context.Context, customerID string) ([]domain.CartItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/carts/%s/items", c.baseURL, customerID), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var items []domain.CartItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddItem posts one line item and returns it with the server-assigned id.
func (c *Client) AddItem(ctx context.Context, customerID string, in AddItemInput) (domain.CartItem, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return domain.CartItem{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/carts/%s/items", c.baseURL, customerID), bytes.NewBuffer(body))
	if err != nil {
		return domain.CartItem{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.CartItem{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return domain.CartItem{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var item domain.CartItem
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return domain.CartItem{}, err
	}
	return item, nil
}

// UpdateQuantity sets a line's quantity verbatim.
func (c *Client) UpdateQuantity(ctx context.Context, customerID string, itemID int64, quantity int) error {
	body, err := json.Marshal(map[string]int{"quantity": quantity})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, fmt.Sprintf("%s/carts/%s/items/%d", c.baseURL, customerID, itemID), bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

// RemoveItem deletes one line.
func (c *Client) RemoveItem(ctx context.Context, customerID string, itemID int64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, fmt.Sprintf("%s/carts/%s/items/%d", c.baseURL, customerID, itemID), nil)
	if err != nil {
		return err
	}
	return c.do(req)
}

// Clear empties the customer's cart.
func (c *Client) Clear(ctx context.Context, customerID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, fmt.Sprintf("%s/carts/%s/items", c.baseURL, customerID), nil)
	if err != nil {
		return err
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return domain.ErrNotFound
	default:
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
}

package remotecart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"dancehub-storefront/internal/domain"
)

func TestAddItemReturnsServerAssignedID(t *testing.T) {
	var gotPath string
	var gotBody AddItemInput
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(domain.CartItem{
			ID: 501, Type: gotBody.ItemType, ItemID: gotBody.ItemID,
			Title: gotBody.Title, Price: gotBody.Price, Quantity: gotBody.Quantity,
		})
	}))
	defer srv.Close()

	client := New(srv.URL)
	item, err := client.AddItem(context.Background(), "cust-1", AddItemInput{
		ItemType: domain.ItemTypeResource, ItemID: 42, Title: "Ballet Basics", Price: "10.00", Quantity: 3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "POST /carts/cust-1/items" {
		t.Fatalf("unexpected request %q", gotPath)
	}
	if gotBody.ItemID != 42 || gotBody.Quantity != 3 || gotBody.Price != "10.00" {
		t.Fatalf("payload not carried through: %+v", gotBody)
	}
	if item.ID != 501 {
		t.Fatalf("expected server-assigned id 501, got %d", item.ID)
	}
}

func TestAddItemUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := New(srv.URL)
	if _, err := client.AddItem(context.Background(), "cust-1", AddItemInput{ItemID: 1, Quantity: 1}); err == nil {
		t.Fatal("expected error on 502 response")
	}
}

func TestRemoveItemMapsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := New(srv.URL)
	err := client.RemoveItem(context.Background(), "cust-1", 7)
	if err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/carts/cust-1/items" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode([]domain.CartItem{
			{ID: 1, ItemID: 42, Title: "Ballet Basics", Price: "10.00", Quantity: 2},
		})
	}))
	defer srv.Close()

	client := New(srv.URL)
	items, err := client.Items(context.Background(), "cust-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].ItemID != 42 {
		t.Fatalf("unexpected items: %+v", items)
	}
}

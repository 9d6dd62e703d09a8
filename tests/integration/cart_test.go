//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestAddToCart(t *testing.T) {
	body := map[string]any{"userId": "it-cart-1", "productId": 5, "qty": 2}
	resp := doPost(t, "/addtocart", body)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	result := decodeJSON[map[string]any](t, resp)
	if result["success"] != true {
		t.Fatalf("expected success, got %v", result)
	}
}

func TestAddToCart_IncrementsExistingRow(t *testing.T) {
	body := map[string]any{"userId": "it-cart-2", "productId": "5", "qty": 1}

	for range 2 {
		resp := doPost(t, "/addtocart", body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
	}

	resp := doGet(t, "/getcart/it-cart-2")
	defer resp.Body.Close()

	items := decodeJSON[[]cartItemResponse](t, resp)
	if len(items) != 1 {
		t.Fatalf("expected 1 cart row, got %d", len(items))
	}
	if items[0].Qty != 2 {
		t.Errorf("qty: got %d, want 2", items[0].Qty)
	}
}

func TestAddToCart_MissingKeys(t *testing.T) {
	resp := doPost(t, "/addtocart", map[string]any{"userId": "it-cart-3"})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestGetCart_EmptyUser(t *testing.T) {
	resp := doGet(t, "/getcart/nobody")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	items := decodeJSON[[]cartItemResponse](t, resp)
	if len(items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(items))
	}
}

package session

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

func newTestStore(t *testing.T, ttl time.Duration) (CartStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisCartStore(client, ttl), mr
}

func TestCartStoreRoundTrip(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)
	ctx := context.Background()
	sessionID := uuid.NewString()

	productID := uuid.NewString()
	cart := domain.Cart{
		productID: {
			Name:     "widget",
			Price:    decimal.New(999, -2),
			ImageURL: "/img/widget.png",
			Quantity: 3,
		},
	}

	if err := store.Save(ctx, sessionID, cart); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Get(ctx, sessionID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	entry, ok := loaded[productID]
	if !ok {
		t.Fatalf("Expected entry for %s, cart %+v", productID, loaded)
	}
	if entry.Name != "widget" {
		t.Errorf("Expected name widget, got %q", entry.Name)
	}
	if !entry.Price.Equal(decimal.New(999, -2)) {
		t.Errorf("Expected price 9.99, got %s", entry.Price)
	}
	if entry.Quantity != 3 {
		t.Errorf("Expected quantity 3, got %d", entry.Quantity)
	}
}

func TestCartStoreMissingKeyYieldsEmptyCart(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)

	cart, err := store.Get(context.Background(), uuid.NewString())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !cart.IsEmpty() {
		t.Errorf("Expected empty cart, got %+v", cart)
	}
}

func TestCartStoreClear(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)
	ctx := context.Background()
	sessionID := uuid.NewString()

	cart := domain.Cart{
		uuid.NewString(): {Name: "widget", Quantity: 2},
	}
	if err := store.Save(ctx, sessionID, cart); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := store.Clear(ctx, sessionID); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	loaded, err := store.Get(ctx, sessionID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !loaded.IsEmpty() {
		t.Errorf("Expected empty cart after clear, got %+v", loaded)
	}
}

func TestCartStoreExpiry(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()
	sessionID := uuid.NewString()

	cart := domain.Cart{
		uuid.NewString(): {Name: "widget", Quantity: 1},
	}
	if err := store.Save(ctx, sessionID, cart); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	loaded, err := store.Get(ctx, sessionID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !loaded.IsEmpty() {
		t.Errorf("Expected cart expired, got %+v", loaded)
	}
}

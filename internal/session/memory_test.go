package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/onlineshop/tvshop/internal/models"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	cart, err := store.GetCart(ctx, "1")
	require.NoError(t, err)
	require.Empty(t, cart, "unknown key reads as an empty cart")

	cart["5"] = models.CartEntry{Name: "OLED55", Price: "499.99", Quantity: 2}
	require.NoError(t, store.SetCart(ctx, "1", cart))

	got, err := store.GetCart(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, cart, got)

	require.NoError(t, store.DeleteCart(ctx, "1"))
	got, err = store.GetCart(ctx, "1")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.SetCart(ctx, "1", models.Cart{
		"5": {Name: "OLED55", Price: "499.99", Quantity: 1},
	}))

	first, err := store.GetCart(ctx, "1")
	require.NoError(t, err)
	first["5"] = models.CartEntry{Name: "OLED55", Price: "499.99", Quantity: 99}

	second, err := store.GetCart(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, 1, second["5"].Quantity, "mutating a returned cart must not leak into the store")
}

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/pizzacraft-storefront/internal/domain/cart"
)

func TestMemoryCartStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryCartStore()

	item, err := cart.NewItem(
		cart.Component{ID: "thin", Name: "Thin Crust", Price: 99},
		cart.Component{ID: "pesto", Name: "Pesto Sauce", Price: 59},
		cart.Component{ID: "cheddar", Name: "Cheddar", Price: 79},
		[]cart.Component{{ID: "onion", Name: "Onion", Price: 20}},
	)
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, "sess-1", []cart.Item{item}))

	loaded, err := s.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, []cart.Item{item}, loaded)
}

func TestMemoryCartStore_LoadMissing(t *testing.T) {
	s := NewMemoryCartStore()

	_, err := s.Load(context.Background(), "nope")

	assert.ErrorIs(t, err, cart.ErrNoSavedCart)
}

func TestMemoryCartStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryCartStore()

	require.NoError(t, s.Save(ctx, "sess-1", nil))
	require.NoError(t, s.Delete(ctx, "sess-1"))

	_, err := s.Load(ctx, "sess-1")
	assert.ErrorIs(t, err, cart.ErrNoSavedCart)
}

func TestMemoryCartStore_SessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryCartStore()

	item, err := cart.NewItem(
		cart.Component{ID: "thin", Price: 99},
		cart.Component{ID: "pesto", Price: 59},
		cart.Component{ID: "cheddar", Price: 79},
		nil,
	)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, "sess-1", []cart.Item{item}))

	_, err = s.Load(ctx, "sess-2")
	assert.ErrorIs(t, err, cart.ErrNoSavedCart)
}

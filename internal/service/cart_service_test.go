package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gtech/internal/domain"
	"gtech/internal/kv"
	"gtech/internal/repository"
)

// fakeCart is an in-process stand-in for the remote cart endpoints.
type fakeCart struct {
	mu        sync.Mutex
	items     []domain.CartItem
	failWrite error
	failRead  error
}

func (f *fakeCart) Items(context.Context) ([]domain.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRead != nil {
		return nil, f.failRead
	}
	return append([]domain.CartItem(nil), f.items...), nil
}

func (f *fakeCart) Add(_ context.Context, id string, qty int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrite != nil {
		return f.failWrite
	}
	for i := range f.items {
		if f.items[i].ProductID == id {
			f.items[i].Quantity += qty
			return nil
		}
	}
	f.items = append(f.items, domain.CartItem{ProductID: id, Quantity: qty})
	return nil
}

func (f *fakeCart) Remove(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrite != nil {
		return f.failWrite
	}
	out := f.items[:0]
	for _, it := range f.items {
		if it.ProductID != id {
			out = append(out, it)
		}
	}
	f.items = out
	return nil
}

func remoteCart(t *testing.T) (*CartService, *fakeCart) {
	t.Helper()
	mem := kv.NewMemory()
	store := repository.NewLocalStore(mem)
	fake := &fakeCart{}
	return NewCartService(NewSession(mem), store, fake, nil), fake
}

func TestCart_AddRemoveClear(t *testing.T) {
	ctx := context.Background()
	d := setup(t)

	items, err := d.cart.Add(ctx, "1", 1)
	require.NoError(t, err)
	require.Len(t, items, 1)

	items, err = d.cart.Add(ctx, "1", 2)
	require.NoError(t, err)
	require.Len(t, items, 1, "ids stay unique")
	assert.EqualValues(t, 3, items[0].Quantity)

	_, err = d.cart.Add(ctx, "8", 0)
	require.NoError(t, err)

	lines, err := d.cart.Products(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "Logitech MX Master 3", lines[1].Product.Name)
	assert.EqualValues(t, 1, lines[1].Quantity)

	items, err = d.cart.Remove(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, []domain.CartItem{{ProductID: "8", Quantity: 1}}, items)

	require.NoError(t, d.cart.Clear(ctx))
	n, err := d.cart.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = d.cart.Add(ctx, "missing", 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestWishlist_ToggleTwice(t *testing.T) {
	ctx := context.Background()
	d := setup(t)

	added, err := d.cart.ToggleWishlist(ctx, "5")
	require.NoError(t, err)
	assert.True(t, added)
	in, _ := d.cart.InWishlist(ctx, "5")
	assert.True(t, in)

	products, err := d.cart.WishlistProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "5", products[0].ID)

	added, err = d.cart.ToggleWishlist(ctx, "5")
	require.NoError(t, err)
	assert.False(t, added)
	in, _ = d.cart.InWishlist(ctx, "5")
	assert.False(t, in)
}

func TestRemoteCart_MirrorsMutations(t *testing.T) {
	ctx := context.Background()
	cart, fake := remoteCart(t)

	_, err := cart.Add(ctx, "2", 1)
	require.NoError(t, err)
	_, err = cart.Add(ctx, "3", 1)
	require.NoError(t, err)
	assert.Len(t, fake.items, 2)

	require.NoError(t, cart.Clear(ctx))
	assert.Empty(t, fake.items)
}

func TestRemoteCart_FailureAdoptsServerState(t *testing.T) {
	ctx := context.Background()
	cart, fake := remoteCart(t)
	fake.items = []domain.CartItem{{ProductID: "4", Quantity: 2}}

	boom := errors.New("backend down")
	fake.failWrite = boom
	_, err := cart.Add(ctx, "1", 1)
	assert.ErrorIs(t, err, boom)

	items, err := cart.Items(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.CartItem{{ProductID: "4", Quantity: 2}}, items)
}

func TestRemoteCart_FailureRollsBack(t *testing.T) {
	ctx := context.Background()
	cart, fake := remoteCart(t)

	_, err := cart.Add(ctx, "1", 1)
	require.NoError(t, err)

	boom := errors.New("backend down")
	fake.failWrite = boom
	fake.failRead = errors.New("still down")
	_, err = cart.Remove(ctx, "1")
	assert.ErrorIs(t, err, boom)

	items, err := cart.Items(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.CartItem{{ProductID: "1", Quantity: 1}}, items)
}

func TestRemoteCart_Sync(t *testing.T) {
	ctx := context.Background()
	cart, fake := remoteCart(t)
	fake.items = []domain.CartItem{{ProductID: "9", Quantity: 1}, {ProductID: "9", Quantity: 4}}

	items, err := cart.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.CartItem{{ProductID: "9", Quantity: 1}}, items)
}

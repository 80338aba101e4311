package kv

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "state", "gtech.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return map[string]Store{"memory": NewMemory(), "sqlite": db}
}

func TestStore_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, KeyCart)
			assert.True(t, errors.Is(err, ErrMissing))

			require.NoError(t, s.Set(ctx, KeyCart, []byte(`["1"]`)))
			require.NoError(t, s.Set(ctx, KeyCart, []byte(`["1","2"]`)))
			v, err := s.Get(ctx, KeyCart)
			require.NoError(t, err)
			assert.Equal(t, `["1","2"]`, string(v))

			require.NoError(t, s.Delete(ctx, KeyCart))
			require.NoError(t, s.Delete(ctx, KeyCart), "deleting a missing key is not an error")
			_, err = s.Get(ctx, KeyCart)
			assert.ErrorIs(t, err, ErrMissing)
		})
	}
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			var ids []string
			found, err := GetJSON(ctx, s, KeyWishlist, &ids)
			require.NoError(t, err)
			assert.False(t, found)

			require.NoError(t, SetJSON(ctx, s, KeyWishlist, []string{"3", "7"}))
			found, err = GetJSON(ctx, s, KeyWishlist, &ids)
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, []string{"3", "7"}, ids)

			require.NoError(t, s.Set(ctx, KeyUsers, []byte("{broken")))
			var users []map[string]any
			_, err = GetJSON(ctx, s, KeyUsers, &users)
			assert.Error(t, err)
		})
	}
}

func TestSQLite_Persists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "gtech.db")
	db, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, db.Set(ctx, KeyToken, []byte(`"tok"`)))
	require.NoError(t, db.Close())

	db, err = OpenSQLite(path)
	require.NoError(t, err)
	defer db.Close()
	v, err := db.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.Equal(t, `"tok"`, string(v))
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	in := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", in))
	in[0] = 'x'
	out, _ := m.Get(ctx, "k")
	out[1] = 'y'
	again, _ := m.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
}

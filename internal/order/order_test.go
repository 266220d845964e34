package order

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindKit(t *testing.T) {
	k, ok := FindKit("vegan_bowl")
	require.True(t, ok)
	assert.Equal(t, 69, k.Price)

	_, ok = FindKit("lobster")
	assert.False(t, ok)
}

func TestBuild(t *testing.T) {
	o, err := Build(Request{KitID: "pizza_family", FullName: "Dana", Phone: "050", Address: "Haifa", UserEmail: "d@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Family Pizza", o.KitTitle)
	assert.Equal(t, 89, o.Price)
	require.NotNil(t, o.UserEmail)
	assert.Equal(t, "d@example.com", *o.UserEmail)

	_, err = Build(Request{KitID: "nope", FullName: "x", Phone: "y", Address: "z"})
	assert.ErrorIs(t, err, ErrUnknownKit)

	_, err = Build(Request{KitID: "pizza_family", FullName: "x", Phone: " ", Address: "z"})
	assert.ErrorIs(t, err, ErrMissingField)
	assert.Contains(t, err.Error(), "phone")
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	email := "a@example.com"
	first := &Order{KitID: "sushi_basic", UserEmail: &email}
	second := &Order{KitID: "cookies_fun"}
	require.NoError(t, s.CreateOrder(ctx, first))
	require.NoError(t, s.CreateOrder(ctx, second))
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.False(t, first.CreatedAt.IsZero())

	all, err := s.ListOrders(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, int64(2), all[0].ID)

	mine, err := s.ListOrders(ctx, email)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "sushi_basic", mine[0].KitID)

	none, err := s.ListOrders(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookvault/bookvault/adapters/store"
	"github.com/bookvault/bookvault/core"
)

func TestBookLifecycle(t *testing.T) {
	t.Parallel()

	svc := NewBookService(store.NewMemoryStore())
	ctx := context.Background()

	book, err := svc.CreateBook(ctx, "Dune", "Frank Herbert", "spice and sand", "sci-fi", "https://covers.example/dune.jpg")
	require.NoError(t, err)
	assert.NotEmpty(t, book.ID)

	_, err = svc.CreateBook(ctx, "Dune", "Frank Herbert", "again", "sci-fi", "")
	assert.ErrorIs(t, err, core.ErrBookExists)

	comment, err := svc.AddComment(ctx, book.ID, "u1", "a classic")
	require.NoError(t, err)
	assert.Equal(t, "u1", comment.UserID)

	got, err := svc.GetBook(ctx, book.ID)
	require.NoError(t, err)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, "a classic", got.Comments[0].Content)

	added, err := svc.ToggleWishlist(ctx, "u1", book.ID)
	require.NoError(t, err)
	assert.True(t, added)

	wishlist, err := svc.Wishlist(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, wishlist, 1)

	require.NoError(t, svc.DeleteBook(ctx, book.ID))
	_, err = svc.GetBook(ctx, book.ID)
	assert.ErrorIs(t, err, core.ErrBookNotFound)
}

package ports

import (
	"context"

	"github.com/bookvault/bookvault/core"
)

// UserStore persists user records. All refresh-token mutations are atomic
// single-record operations scoped to one user.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*core.User, error)
	FindByID(ctx context.Context, id string) (*core.User, error)

	// Create inserts a new user. Returns core.ErrUserExists when the
	// username is taken.
	Create(ctx context.Context, user *core.User) error

	// SetRefreshToken unconditionally replaces the stored refresh reference,
	// ending any previous session.
	SetRefreshToken(ctx context.Context, id, token string) error

	// RotateRefreshToken swaps the stored refresh reference from expectedOld
	// to next in a single compare-and-swap. Returns core.ErrTokenReused when
	// the stored value no longer equals expectedOld.
	RotateRefreshToken(ctx context.Context, id, expectedOld, next string) error

	// ClearRefreshToken drops the stored refresh reference. Clearing an
	// already-clear reference succeeds.
	ClearRefreshToken(ctx context.Context, id string) error

	SetPasswordDigest(ctx context.Context, id, digest string) error

	UpdateAccount(ctx context.Context, id, fullName, email string) error
	UpdateSocials(ctx context.Context, id, bio, website string) error
}

// BookStore persists the protected book catalogue.
type BookStore interface {
	CreateBook(ctx context.Context, book *core.Book) error
	GetBook(ctx context.Context, id string) (*core.Book, error)
	ListBooks(ctx context.Context, filter core.BookFilter) (*core.BookPage, error)
	UpdateBook(ctx context.Context, book *core.Book) error
	DeleteBook(ctx context.Context, id string) error

	AddComment(ctx context.Context, bookID string, comment core.Comment) error

	// ToggleWishlist flips wishlist membership and reports whether the book
	// is on the list afterwards.
	ToggleWishlist(ctx context.Context, userID, bookID string) (bool, error)
	Wishlist(ctx context.Context, userID string) ([]core.Book, error)
}

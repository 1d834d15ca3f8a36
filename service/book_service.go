package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bookvault/bookvault/core"
	"github.com/bookvault/bookvault/ports"
)

// BookService handles the protected book catalogue. Every operation runs
// behind the auth middleware; callers pass the resolved user identity where
// an operation is user-scoped.
type BookService struct {
	books ports.BookStore
}

// NewBookService creates a new book service
func NewBookService(books ports.BookStore) *BookService {
	return &BookService{books: books}
}

// CreateBook adds a catalogue entry. Title and author together must be
// unique.
func (s *BookService) CreateBook(ctx context.Context, title, author, description, genre, coverImage string) (*core.Book, error) {
	now := time.Now()
	book := &core.Book{
		ID:          uuid.New().String(),
		Title:       title,
		Author:      author,
		Description: description,
		Genre:       genre,
		CoverImage:  coverImage,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.books.CreateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}
	return book, nil
}

// GetBook returns a single book with its comments
func (s *BookService) GetBook(ctx context.Context, id string) (*core.Book, error) {
	book, err := s.books.GetBook(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}
	return book, nil
}

// ListBooks returns one page of the catalogue
func (s *BookService) ListBooks(ctx context.Context, filter core.BookFilter) (*core.BookPage, error) {
	page, err := s.books.ListBooks(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	return page, nil
}

// UpdateBook replaces the mutable fields of a catalogue entry
func (s *BookService) UpdateBook(ctx context.Context, book *core.Book) error {
	book.UpdatedAt = time.Now()
	if err := s.books.UpdateBook(ctx, book); err != nil {
		return fmt.Errorf("failed to update book: %w", err)
	}
	return nil
}

// DeleteBook removes a catalogue entry
func (s *BookService) DeleteBook(ctx context.Context, id string) error {
	if err := s.books.DeleteBook(ctx, id); err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	return nil
}

// AddComment attaches a comment by the given user to a book
func (s *BookService) AddComment(ctx context.Context, bookID, userID, content string) (*core.Comment, error) {
	comment := core.Comment{
		ID:        uuid.New().String(),
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now(),
	}

	if err := s.books.AddComment(ctx, bookID, comment); err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}
	return &comment, nil
}

// ToggleWishlist flips wishlist membership and reports the new state
func (s *BookService) ToggleWishlist(ctx context.Context, userID, bookID string) (bool, error) {
	added, err := s.books.ToggleWishlist(ctx, userID, bookID)
	if err != nil {
		return false, fmt.Errorf("failed to toggle wishlist: %w", err)
	}
	return added, nil
}

// Wishlist returns the user's wishlisted books
func (s *BookService) Wishlist(ctx context.Context, userID string) ([]core.Book, error) {
	books, err := s.books.Wishlist(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist: %w", err)
	}
	return books, nil
}

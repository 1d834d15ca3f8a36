package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bookvault/bookvault/core"
)

// MemoryStore is an in-memory implementation of the UserStore and BookStore
// interfaces, used by tests and by dev mode when no database is configured.
// All refresh-token mutations happen under the write lock, which gives the
// rotation its compare-and-swap guarantee.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[string]*core.User // keyed by user ID
	byName   map[string]string     // username -> user ID
	books    map[string]*core.Book // keyed by book ID
	wishlist map[string]map[string]bool
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]*core.User),
		byName:   make(map[string]string),
		books:    make(map[string]*core.Book),
		wishlist: make(map[string]map[string]bool),
	}
}

// FindByUsername returns the user with the given login name
func (s *MemoryStore) FindByUsername(ctx context.Context, username string) (*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byName[username]
	if !ok {
		return nil, core.ErrUserNotFound
	}
	u := *s.users[id]
	return &u, nil
}

// FindByID returns the user with the given ID
func (s *MemoryStore) FindByID(ctx context.Context, id string) (*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, core.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

// Create inserts a new user
func (s *MemoryStore) Create(ctx context.Context, user *core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byName[user.Username]; ok {
		return core.ErrUserExists
	}

	copied := *user
	s.users[copied.ID] = &copied
	s.byName[copied.Username] = copied.ID
	return nil
}

// SetRefreshToken unconditionally replaces the stored refresh reference
func (s *MemoryStore) SetRefreshToken(ctx context.Context, id, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return core.ErrUserNotFound
	}
	u.RefreshToken = token
	u.UpdatedAt = time.Now()
	return nil
}

// RotateRefreshToken swaps the stored refresh reference only if it still
// equals expectedOld
func (s *MemoryStore) RotateRefreshToken(ctx context.Context, id, expectedOld, next string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return core.ErrUserNotFound
	}
	if u.RefreshToken != expectedOld {
		return core.ErrTokenReused
	}
	u.RefreshToken = next
	u.UpdatedAt = time.Now()
	return nil
}

// ClearRefreshToken drops the stored refresh reference
func (s *MemoryStore) ClearRefreshToken(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return core.ErrUserNotFound
	}
	u.RefreshToken = ""
	u.UpdatedAt = time.Now()
	return nil
}

// SetPasswordDigest replaces the stored password digest
func (s *MemoryStore) SetPasswordDigest(ctx context.Context, id, digest string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return core.ErrUserNotFound
	}
	u.PasswordDigest = digest
	u.UpdatedAt = time.Now()
	return nil
}

// UpdateAccount replaces the mutable account fields
func (s *MemoryStore) UpdateAccount(ctx context.Context, id, fullName, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return core.ErrUserNotFound
	}
	u.FullName = fullName
	u.Email = email
	u.UpdatedAt = time.Now()
	return nil
}

// UpdateSocials replaces the profile/social fields
func (s *MemoryStore) UpdateSocials(ctx context.Context, id, bio, website string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return core.ErrUserNotFound
	}
	u.Bio = bio
	u.Website = website
	u.UpdatedAt = time.Now()
	return nil
}

// CreateBook inserts a new catalogue entry
func (s *MemoryStore) CreateBook(ctx context.Context, book *core.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.books {
		if b.Title == book.Title && b.Author == book.Author {
			return core.ErrBookExists
		}
	}
	copied := *book
	copied.Comments = append([]core.Comment(nil), book.Comments...)
	s.books[copied.ID] = &copied
	return nil
}

// GetBook returns the book with the given ID, comments included
func (s *MemoryStore) GetBook(ctx context.Context, id string) (*core.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.books[id]
	if !ok {
		return nil, core.ErrBookNotFound
	}
	copied := *b
	copied.Comments = append([]core.Comment(nil), b.Comments...)
	return &copied, nil
}

// ListBooks returns one page of the catalogue matching the filter
func (s *MemoryStore) ListBooks(ctx context.Context, filter core.BookFilter) (*core.BookPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []core.Book
	for _, b := range s.books {
		if !matchesFilter(b, filter) {
			continue
		}
		copied := *b
		// Listings omit descriptions and comments
		copied.Description = ""
		copied.Comments = nil
		matched = append(matched, copied)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Title < matched[j].Title })

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	total := len(matched)
	totalPages := (total + limit - 1) / limit
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return &core.BookPage{
		Books:      matched[start:end],
		TotalBooks: total,
		TotalPages: totalPages,
	}, nil
}

// UpdateBook replaces the mutable fields of a catalogue entry
func (s *MemoryStore) UpdateBook(ctx context.Context, book *core.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.books[book.ID]
	if !ok {
		return core.ErrBookNotFound
	}
	b.Title = book.Title
	b.Author = book.Author
	b.Description = book.Description
	b.Genre = book.Genre
	if book.CoverImage != "" {
		b.CoverImage = book.CoverImage
	}
	b.UpdatedAt = time.Now()
	return nil
}

// DeleteBook removes a catalogue entry and any wishlist references to it
func (s *MemoryStore) DeleteBook(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.books[id]; !ok {
		return core.ErrBookNotFound
	}
	delete(s.books, id)
	for _, list := range s.wishlist {
		delete(list, id)
	}
	return nil
}

// AddComment appends a comment to a book
func (s *MemoryStore) AddComment(ctx context.Context, bookID string, comment core.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.books[bookID]
	if !ok {
		return core.ErrBookNotFound
	}
	b.Comments = append(b.Comments, comment)
	b.UpdatedAt = time.Now()
	return nil
}

// ToggleWishlist flips wishlist membership for the user
func (s *MemoryStore) ToggleWishlist(ctx context.Context, userID, bookID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.books[bookID]; !ok {
		return false, core.ErrBookNotFound
	}
	list, ok := s.wishlist[userID]
	if !ok {
		list = make(map[string]bool)
		s.wishlist[userID] = list
	}
	if list[bookID] {
		delete(list, bookID)
		return false, nil
	}
	list[bookID] = true
	return true, nil
}

// Wishlist returns every book on the user's wishlist
func (s *MemoryStore) Wishlist(ctx context.Context, userID string) ([]core.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var books []core.Book
	for id := range s.wishlist[userID] {
		if b, ok := s.books[id]; ok {
			copied := *b
			copied.Comments = nil
			books = append(books, copied)
		}
	}
	sort.Slice(books, func(i, j int) bool { return books[i].Title < books[j].Title })
	return books, nil
}

func matchesFilter(b *core.Book, filter core.BookFilter) bool {
	if filter.Genre != "" && !strings.EqualFold(b.Genre, filter.Genre) {
		return false
	}
	if filter.Search == "" {
		return true
	}
	needle := strings.ToLower(filter.Search)
	return strings.Contains(strings.ToLower(b.Title), needle) ||
		strings.Contains(strings.ToLower(b.Author), needle)
}

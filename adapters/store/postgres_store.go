package store

import (
	"context"
	"errors"
	"fmt"
	"math"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookvault/bookvault/core"
)

// PostgresStore is a Postgres implementation of the UserStore and BookStore
// interfaces. Refresh rotation is a single conditional UPDATE, so the
// compare-and-swap happens inside one statement.
type PostgresStore struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

// NewPostgresStore creates a new Postgres store
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		pool: pool,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

const userColumns = "id, username, full_name, email, password_digest, refresh_token, bio, website, created_at, updated_at"

func scanUser(row pgx.Row) (*core.User, error) {
	var u core.User
	var refreshToken *string
	err := row.Scan(&u.ID, &u.Username, &u.FullName, &u.Email, &u.PasswordDigest,
		&refreshToken, &u.Bio, &u.Website, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	if refreshToken != nil {
		u.RefreshToken = *refreshToken
	}
	return &u, nil
}

// FindByUsername returns the user with the given login name
func (s *PostgresStore) FindByUsername(ctx context.Context, username string) (*core.User, error) {
	sqlStr, args, err := s.sb.Select(userColumns).From("users").
		Where(sq.Eq{"username": username}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanUser(s.pool.QueryRow(ctx, sqlStr, args...))
}

// FindByID returns the user with the given ID
func (s *PostgresStore) FindByID(ctx context.Context, id string) (*core.User, error) {
	sqlStr, args, err := s.sb.Select(userColumns).From("users").
		Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return scanUser(s.pool.QueryRow(ctx, sqlStr, args...))
}

// Create inserts a new user
func (s *PostgresStore) Create(ctx context.Context, user *core.User) error {
	sqlStr, args, err := s.sb.Insert("users").
		Columns("id", "username", "full_name", "email", "password_digest", "bio", "website", "created_at", "updated_at").
		Values(user.ID, user.Username, user.FullName, user.Email, user.PasswordDigest,
			user.Bio, user.Website, user.CreatedAt, user.UpdatedAt).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := s.pool.Exec(ctx, sqlStr, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return core.ErrUserExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// SetRefreshToken unconditionally replaces the stored refresh reference
func (s *PostgresStore) SetRefreshToken(ctx context.Context, id, token string) error {
	return s.updateUser(ctx, id, map[string]interface{}{"refresh_token": token})
}

// RotateRefreshToken swaps the stored refresh reference in a single
// conditional UPDATE. Zero affected rows means the stored value had already
// moved on, which the caller reports as token reuse.
func (s *PostgresStore) RotateRefreshToken(ctx context.Context, id, expectedOld, next string) error {
	sqlStr, args, err := s.sb.Update("users").
		Set("refresh_token", next).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id, "refresh_token": expectedOld}).
		ToSql()
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("failed to rotate refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrTokenReused
	}
	return nil
}

// ClearRefreshToken drops the stored refresh reference
func (s *PostgresStore) ClearRefreshToken(ctx context.Context, id string) error {
	return s.updateUser(ctx, id, map[string]interface{}{"refresh_token": nil})
}

// SetPasswordDigest replaces the stored password digest
func (s *PostgresStore) SetPasswordDigest(ctx context.Context, id, digest string) error {
	return s.updateUser(ctx, id, map[string]interface{}{"password_digest": digest})
}

// UpdateAccount replaces the mutable account fields
func (s *PostgresStore) UpdateAccount(ctx context.Context, id, fullName, email string) error {
	return s.updateUser(ctx, id, map[string]interface{}{"full_name": fullName, "email": email})
}

// UpdateSocials replaces the profile/social fields
func (s *PostgresStore) UpdateSocials(ctx context.Context, id, bio, website string) error {
	return s.updateUser(ctx, id, map[string]interface{}{"bio": bio, "website": website})
}

func (s *PostgresStore) updateUser(ctx context.Context, id string, set map[string]interface{}) error {
	builder := s.sb.Update("users").Set("updated_at", sq.Expr("now()")).Where(sq.Eq{"id": id})
	for col, val := range set {
		builder = builder.Set(col, val)
	}

	sqlStr, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrUserNotFound
	}
	return nil
}

// CreateBook inserts a new catalogue entry
func (s *PostgresStore) CreateBook(ctx context.Context, book *core.Book) error {
	sqlStr, args, err := s.sb.Insert("books").
		Columns("id", "title", "author", "description", "genre", "cover_image", "created_at", "updated_at").
		Values(book.ID, book.Title, book.Author, book.Description, book.Genre,
			book.CoverImage, book.CreatedAt, book.UpdatedAt).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := s.pool.Exec(ctx, sqlStr, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return core.ErrBookExists
		}
		return fmt.Errorf("failed to create book: %w", err)
	}
	return nil
}

// GetBook returns the book with the given ID, comments included
func (s *PostgresStore) GetBook(ctx context.Context, id string) (*core.Book, error) {
	sqlStr, args, err := s.sb.Select("id", "title", "author", "description", "genre", "cover_image", "created_at", "updated_at").
		From("books").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	var b core.Book
	err = s.pool.QueryRow(ctx, sqlStr, args...).Scan(&b.ID, &b.Title, &b.Author,
		&b.Description, &b.Genre, &b.CoverImage, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, core.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	sqlStr, args, err = s.sb.Select("id", "user_id", "content", "created_at").
		From("comments").Where(sq.Eq{"book_id": id}).OrderBy("created_at").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c core.Comment
		if err := rows.Scan(&c.ID, &c.UserID, &c.Content, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		b.Comments = append(b.Comments, c)
	}
	return &b, rows.Err()
}

// ListBooks returns one page of the catalogue matching the filter
func (s *PostgresStore) ListBooks(ctx context.Context, filter core.BookFilter) (*core.BookPage, error) {
	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	where := sq.And{}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		where = append(where, sq.Or{
			sq.ILike{"title": pattern},
			sq.ILike{"author": pattern},
		})
	}
	if filter.Genre != "" {
		where = append(where, sq.ILike{"genre": filter.Genre})
	}

	countSQL, countArgs, err := s.sb.Select("count(*)").From("books").Where(where).ToSql()
	if err != nil {
		return nil, err
	}

	var total int
	if err := s.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count books: %w", err)
	}

	sqlStr, args, err := s.sb.Select("id", "title", "author", "genre", "cover_image", "created_at", "updated_at").
		From("books").Where(where).OrderBy("title").
		Offset(uint64((page - 1) * limit)).Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	books := []core.Book{}
	for rows.Next() {
		var b core.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Genre, &b.CoverImage, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &core.BookPage{
		Books:      books,
		TotalBooks: total,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

// UpdateBook replaces the mutable fields of a catalogue entry
func (s *PostgresStore) UpdateBook(ctx context.Context, book *core.Book) error {
	builder := s.sb.Update("books").
		Set("title", book.Title).
		Set("author", book.Author).
		Set("description", book.Description).
		Set("genre", book.Genre).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": book.ID})
	if book.CoverImage != "" {
		builder = builder.Set("cover_image", book.CoverImage)
	}

	sqlStr, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("failed to update book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrBookNotFound
	}
	return nil
}

// DeleteBook removes a catalogue entry. Comments and wishlist rows cascade.
func (s *PostgresStore) DeleteBook(ctx context.Context, id string) error {
	sqlStr, args, err := s.sb.Delete("books").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrBookNotFound
	}
	return nil
}

// AddComment appends a comment to a book
func (s *PostgresStore) AddComment(ctx context.Context, bookID string, comment core.Comment) error {
	sqlStr, args, err := s.sb.Insert("comments").
		Columns("id", "book_id", "user_id", "content", "created_at").
		Values(comment.ID, bookID, comment.UserID, comment.Content, comment.CreatedAt).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := s.pool.Exec(ctx, sqlStr, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return core.ErrBookNotFound
		}
		return fmt.Errorf("failed to add comment: %w", err)
	}
	return nil
}

// ToggleWishlist flips wishlist membership for the user
func (s *PostgresStore) ToggleWishlist(ctx context.Context, userID, bookID string) (bool, error) {
	sqlStr, args, err := s.sb.Delete("wishlists").
		Where(sq.Eq{"user_id": userID, "book_id": bookID}).ToSql()
	if err != nil {
		return false, err
	}

	tag, err := s.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return false, fmt.Errorf("failed to toggle wishlist: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}

	sqlStr, args, err = s.sb.Insert("wishlists").
		Columns("user_id", "book_id").Values(userID, bookID).ToSql()
	if err != nil {
		return false, err
	}

	if _, err := s.pool.Exec(ctx, sqlStr, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return false, core.ErrBookNotFound
		}
		return false, fmt.Errorf("failed to toggle wishlist: %w", err)
	}
	return true, nil
}

// Wishlist returns every book on the user's wishlist
func (s *PostgresStore) Wishlist(ctx context.Context, userID string) ([]core.Book, error) {
	sqlStr, args, err := s.sb.Select("b.id", "b.title", "b.author", "b.genre", "b.cover_image", "b.created_at", "b.updated_at").
		From("wishlists w").Join("books b ON w.book_id = b.id").
		Where(sq.Eq{"w.user_id": userID}).OrderBy("b.title").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist: %w", err)
	}
	defer rows.Close()

	var books []core.Book
	for rows.Next() {
		var b core.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Genre, &b.CoverImage, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

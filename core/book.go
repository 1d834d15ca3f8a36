package core

import "time"

// Book is a catalogue entry. Title+Author is unique.
type Book struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Description string    `json:"description,omitempty"`
	Genre       string    `json:"genre"`
	CoverImage  string    `json:"cover_image,omitempty"`
	Comments    []Comment `json:"comments,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Comment is a user remark attached to a book.
type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// BookFilter narrows and pages a catalogue listing.
type BookFilter struct {
	Search string // Matches title or author, case-insensitive substring
	Genre  string // Exact genre, empty matches all
	Page   int    // 1-based, defaults to 1
	Limit  int    // Page size, defaults to 10
}

// BookPage is one page of a catalogue listing. The listing omits
// descriptions and comments.
type BookPage struct {
	Books      []Book `json:"books"`
	TotalBooks int    `json:"total_books"`
	TotalPages int    `json:"total_pages"`
}

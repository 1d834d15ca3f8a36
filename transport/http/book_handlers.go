package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bookvault/bookvault/core"
	"github.com/bookvault/bookvault/service"
)

// BookHandlers contains HTTP handlers for the protected book endpoints
type BookHandlers struct {
	books *service.BookService
}

// NewBookHandlers creates new book handlers
func NewBookHandlers(books *service.BookService) *BookHandlers {
	return &BookHandlers{books: books}
}

// Create handles book creation
func (h *BookHandlers) Create(c *gin.Context) {
	var req struct {
		Title       string `json:"title" binding:"required"`
		Author      string `json:"author" binding:"required"`
		Description string `json:"description" binding:"required"`
		Genre       string `json:"genre" binding:"required"`
		CoverImage  string `json:"cover_image"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}

	book, err := h.books.CreateBook(c.Request.Context(), req.Title, req.Author, req.Description, req.Genre, req.CoverImage)
	if err != nil {
		if errors.Is(err, core.ErrBookExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "Book with the same title and author already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create book"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"book": book})
}

// List handles paginated catalogue listing with search and genre filters
func (h *BookHandlers) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	result, err := h.books.ListBooks(c.Request.Context(), core.BookFilter{
		Search: c.Query("search"),
		Genre:  c.Query("genre"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list books"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Get returns a single book with its comments
func (h *BookHandlers) Get(c *gin.Context) {
	book, err := h.books.GetBook(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, core.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get book"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"book": book})
}

// Update handles book mutation
func (h *BookHandlers) Update(c *gin.Context) {
	var req struct {
		Title       string `json:"title" binding:"required"`
		Author      string `json:"author" binding:"required"`
		Description string `json:"description" binding:"required"`
		Genre       string `json:"genre" binding:"required"`
		CoverImage  string `json:"cover_image"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}

	book := &core.Book{
		ID:          c.Param("id"),
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		Genre:       req.Genre,
		CoverImage:  req.CoverImage,
	}

	if err := h.books.UpdateBook(c.Request.Context(), book); err != nil {
		if errors.Is(err, core.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update book"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"book": book})
}

// Delete removes a book
func (h *BookHandlers) Delete(c *gin.Context) {
	if err := h.books.DeleteBook(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, core.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete book"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Book deleted"})
}

// AddComment attaches a comment by the authenticated user
func (h *BookHandlers) AddComment(c *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content is required"})
		return
	}

	userID := c.GetString(ContextUserIDKey)
	comment, err := h.books.AddComment(c.Request.Context(), c.Param("id"), userID, req.Content)
	if err != nil {
		if errors.Is(err, core.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add comment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// ToggleWishlist flips wishlist membership for the authenticated user
func (h *BookHandlers) ToggleWishlist(c *gin.Context) {
	userID := c.GetString(ContextUserIDKey)

	added, err := h.books.ToggleWishlist(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, core.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle wishlist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"wishlisted": added})
}

// Wishlist returns the authenticated user's wishlist
func (h *BookHandlers) Wishlist(c *gin.Context) {
	userID := c.GetString(ContextUserIDKey)

	books, err := h.books.Wishlist(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list wishlist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"books": books})
}

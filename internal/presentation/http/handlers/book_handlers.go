package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/StoryNest/storynest-go/internal/application/services"
	"github.com/StoryNest/storynest-go/internal/infrastructure/observability/logging"
	"github.com/StoryNest/storynest-go/internal/infrastructure/observability/performance"
)

// BookHandlers contains all catalog book HTTP handlers
type BookHandlers struct {
	bookService *services.BookService
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewBookHandlers creates book handlers with injected dependencies
func NewBookHandlers(bookService *services.BookService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *BookHandlers {
	return &BookHandlers{
		bookService: bookService,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// GetBooks handles GET /api/v1/books - lists the full catalog
func (h *BookHandlers) GetBooks(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("get_books_request")
	defer marker.Complete()

	books, err := h.bookService.List()
	if err != nil {
		h.logger.Catalog().Error("Failed to list books", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load catalog"})
		return
	}

	marker.SetSuccess(true)
	h.logger.Catalog().Debug("Catalog listed", "count", len(books), "duration", time.Since(start))
	c.JSON(http.StatusOK, books)
}

// GetBook handles GET /api/v1/books/:id
func (h *BookHandlers) GetBook(c *gin.Context) {
	book, err := h.bookService.Get(c.Param("id"))
	if err != nil {
		h.logger.Catalog().Error("Failed to load book", "error", err.Error(), "id", c.Param("id"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load book"})
		return
	}
	if book == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
		return
	}
	c.JSON(http.StatusOK, book)
}

// PostBook handles POST /api/v1/books - creates a catalog book from an upload
func (h *BookHandlers) PostBook(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("post_book_request")
	defer marker.Complete()

	var input services.BookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	book, err := h.bookService.Create(&input)
	if err != nil {
		h.logger.Catalog().Warn("Book creation rejected", "error", err.Error(), "duration", time.Since(start))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusCreated, book)
}

// PutBook handles PUT /api/v1/books/:id
func (h *BookHandlers) PutBook(c *gin.Context) {
	var input services.BookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	book, err := h.bookService.Update(c.Param("id"), &input)
	if err != nil {
		h.logger.Catalog().Error("Book update failed", "error", err.Error(), "id", c.Param("id"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update book"})
		return
	}
	if book == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
		return
	}
	c.JSON(http.StatusOK, book)
}

// DeleteBook handles DELETE /api/v1/books/:id
func (h *BookHandlers) DeleteBook(c *gin.Context) {
	if err := h.bookService.Delete(c.Param("id")); err != nil {
		h.logger.Catalog().Error("Book delete failed", "error", err.Error(), "id", c.Param("id"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete book"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

package services

import (
	"fmt"

	"github.com/StoryNest/storynest-go/internal/domain/entities/catalog"
	"github.com/StoryNest/storynest-go/internal/domain/repositories"
	"github.com/StoryNest/storynest-go/internal/infrastructure/media"
	"github.com/StoryNest/storynest-go/internal/infrastructure/observability/logging"
	"github.com/StoryNest/storynest-go/internal/infrastructure/security"
)

// BookInput carries the fields accepted when creating or updating a
// catalog book. CoverData and PDFData are base64 data URIs from the
// console upload form.
type BookInput struct {
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Traits      []string `json:"traits"`
	AgeRating   string   `json:"ageRating"`
	Hidden      bool     `json:"hidden"`
	CoverData   string   `json:"coverData,omitempty"`
	PDFData     string   `json:"pdfData,omitempty"`
}

// BookService manages the book catalog and its stored media.
type BookService struct {
	books  repositories.BookRepository
	images *media.ImageProcessor
	pdfs   *media.PDFStore
	logger *logging.ChanneledLogger
}

func NewBookService(books repositories.BookRepository, images *media.ImageProcessor, pdfs *media.PDFStore, logger *logging.ChanneledLogger) *BookService {
	return &BookService{
		books:  books,
		images: images,
		pdfs:   pdfs,
		logger: logger,
	}
}

func (s *BookService) List() ([]*catalog.Book, error) {
	return s.books.FindAll()
}

func (s *BookService) Get(id string) (*catalog.Book, error) {
	return s.books.FindByID(id)
}

// Create stores a new book along with its uploaded media. The PDF is
// required, the cover is optional. Books uploaded without tags are
// flagged for later tagging.
func (s *BookService) Create(input *BookInput) (*catalog.Book, error) {
	if input.Title == "" || input.Author == "" {
		return nil, fmt.Errorf("title and author are required")
	}
	if input.PDFData == "" {
		return nil, fmt.Errorf("a PDF upload is required")
	}

	book := &catalog.Book{
		ID:           security.GenerateULID(),
		Title:        input.Title,
		Author:       input.Author,
		Description:  input.Description,
		Tags:         input.Tags,
		Traits:       input.Traits,
		AgeRating:    input.AgeRating,
		Hidden:       input.Hidden,
		NeedsTagging: len(input.Tags) == 0,
	}

	pdfURL, err := s.pdfs.StorePDF(input.PDFData, book.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to store book PDF: %w", err)
	}
	book.PDFURL = pdfURL

	if input.CoverData != "" {
		coverURL, err := s.images.ProcessCover(input.CoverData, book.ID)
		if err != nil {
			s.pdfs.DeletePDF(pdfURL)
			return nil, fmt.Errorf("failed to process cover image: %w", err)
		}
		book.CoverURL = coverURL
	}

	if err := s.books.Store(book); err != nil {
		s.pdfs.DeletePDF(book.PDFURL)
		s.images.DeleteCover(book.CoverURL)
		return nil, err
	}

	s.logger.Catalog().Info("Book created", "id", book.ID, "title", book.Title, "needsTagging", book.NeedsTagging)
	return book, nil
}

// Update applies the input to an existing book, replacing media only
// when new uploads are present.
func (s *BookService) Update(id string, input *BookInput) (*catalog.Book, error) {
	book, err := s.books.FindByID(id)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, nil
	}

	book.Title = input.Title
	book.Author = input.Author
	book.Description = input.Description
	book.Tags = input.Tags
	book.Traits = input.Traits
	book.AgeRating = input.AgeRating
	book.Hidden = input.Hidden
	book.NeedsTagging = len(input.Tags) == 0

	if input.PDFData != "" {
		pdfURL, err := s.pdfs.StorePDF(input.PDFData, book.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to store book PDF: %w", err)
		}
		book.PDFURL = pdfURL
	}
	if input.CoverData != "" {
		coverURL, err := s.images.ProcessCover(input.CoverData, book.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to process cover image: %w", err)
		}
		book.CoverURL = coverURL
	}

	if err := s.books.Update(book); err != nil {
		return nil, err
	}

	s.logger.Catalog().Info("Book updated", "id", book.ID, "title", book.Title)
	return book, nil
}

// Delete removes the book record and its stored media. Reading sessions
// referencing the book are kept and surface as orphans on the dashboard.
func (s *BookService) Delete(id string) error {
	book, err := s.books.FindByID(id)
	if err != nil {
		return err
	}
	if book == nil {
		return nil
	}

	if err := s.books.Delete(id); err != nil {
		return err
	}

	if err := s.images.DeleteCover(book.CoverURL); err != nil {
		s.logger.Media().Warn("Failed to remove cover file", "id", id, "error", err.Error())
	}
	if err := s.pdfs.DeletePDF(book.PDFURL); err != nil {
		s.logger.Media().Warn("Failed to remove PDF file", "id", id, "error", err.Error())
	}

	s.logger.Catalog().Info("Book deleted", "id", id)
	return nil
}

// Package repositories defines the persistence contracts the application
// services depend on. The dashboard aggregation core only ever sees the
// snapshots these return, never the backing store.
package repositories

import "github.com/StoryNest/storynest-go/internal/domain/entities/catalog"

// BookRepository defines the contract for catalog book persistence.
type BookRepository interface {
	FindAll() ([]*catalog.Book, error)
	FindByID(id string) (*catalog.Book, error)
	Store(book *catalog.Book) error
	Update(book *catalog.Book) error
	Delete(id string) error
}

// UserRepository defines the contract for account persistence.
type UserRepository interface {
	FindAll() ([]*catalog.User, error)
	FindByID(id string) (*catalog.User, error)
	FindByEmail(email string) (*catalog.User, error)
	Store(user *catalog.User) error
	UpdateRole(id, role string) error
	Delete(id string) error
}

// SessionRepository defines the contract for reading-session persistence.
type SessionRepository interface {
	FindAll() ([]*catalog.ReadingSession, error)
	Store(session *catalog.ReadingSession) error
}

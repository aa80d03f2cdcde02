// Package repositories defines the repository interfaces for stored pages and
// library layouts. Finders return (nil, nil) when nothing matches.
package repositories

import (
	"github.com/AtRiskMedia/tractstack-builder/internal/domain/entities/builder"
	"github.com/AtRiskMedia/tractstack-builder/internal/domain/entities/content"
)

type PageRepository interface {
	FindByID(id string) (*content.Page, error)
	FindBySlug(slug string) (*content.Page, error)
	FindAll() ([]*content.Page, error)
	Store(page *content.Page) error
	SaveTree(id string, tree *builder.ContentTree) error
	Delete(id string) error
}

type LibraryRepository interface {
	FindByID(id string) (*content.LibraryLayout, error)
	FindAll() ([]*content.LibraryLayout, error)
	FindByCategory(category string) ([]*content.LibraryLayout, error)
	Store(layout *content.LibraryLayout) error
	Exists(id string) (bool, error)
}

// Package content defines the stored documents the editor works on.
package content

import (
	"time"

	"github.com/AtRiskMedia/tractstack-builder/internal/domain/entities/builder"
)

// Page is a persisted page layout.
type Page struct {
	ID      string               `json:"id"`
	Title   string               `json:"title"`
	Slug    string               `json:"slug"`
	Tree    *builder.ContentTree `json:"tree"`
	Created time.Time            `json:"created"`
	Changed *time.Time           `json:"changed,omitempty"`
}

// LibraryLayout is a reusable set of sections that can be imported into a page.
type LibraryLayout struct {
	ID       string             `json:"id"`
	Title    string             `json:"title"`
	Category string             `json:"category"`
	Sections []*builder.Section `json:"sections"`
}

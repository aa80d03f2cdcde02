package services

import (
	"fmt"
	"strings"

	"github.com/AtRiskMedia/tractstack-builder/internal/domain/editor"
	"github.com/AtRiskMedia/tractstack-builder/internal/domain/entities/builder"
	"github.com/AtRiskMedia/tractstack-builder/internal/domain/entities/content"
	"github.com/AtRiskMedia/tractstack-builder/internal/domain/repositories"
	"github.com/AtRiskMedia/tractstack-builder/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-builder/internal/infrastructure/security"
)

// CreateLayoutRequest is the body of a library layout creation request.
type CreateLayoutRequest struct {
	Title    string             `json:"title"`
	Category string             `json:"category"`
	Sections []*builder.Section `json:"sections"`
}

// LibraryService orchestrates layout library operations
type LibraryService struct {
	libraryRepo repositories.LibraryRepository
	logger      *logging.ChanneledLogger
}

// NewLibraryService creates a new library application service
func NewLibraryService(libraryRepo repositories.LibraryRepository, logger *logging.ChanneledLogger) *LibraryService {
	return &LibraryService{
		libraryRepo: libraryRepo,
		logger:      logger,
	}
}

// GetAll returns every layout, or only those in category when it is set.
func (s *LibraryService) GetAll(category string) ([]*content.LibraryLayout, error) {
	var (
		layouts []*content.LibraryLayout
		err     error
	)
	if category != "" {
		layouts, err = s.libraryRepo.FindByCategory(category)
	} else {
		layouts, err = s.libraryRepo.FindAll()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get library layouts: %w", err)
	}
	return layouts, nil
}

// GetByID returns a layout by ID
func (s *LibraryService) GetByID(id string) (*content.LibraryLayout, error) {
	layout, err := s.libraryRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get library layout %s: %w", id, err)
	}
	if layout == nil {
		return nil, ErrLayoutNotFound
	}
	return layout, nil
}

// Create normalizes and stores a new layout.
func (s *LibraryService) Create(req CreateLayoutRequest) (*content.LibraryLayout, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if len(req.Sections) == 0 {
		return nil, fmt.Errorf("%w: a layout needs at least one section", ErrInvalidInput)
	}

	layout := &content.LibraryLayout{
		ID:       security.GenerateULID(),
		Title:    title,
		Category: strings.TrimSpace(req.Category),
		Sections: editor.NormalizeSections(req.Sections, security.NodeIDs),
	}
	if err := s.libraryRepo.Store(layout); err != nil {
		return nil, fmt.Errorf("failed to create library layout: %w", err)
	}
	s.logger.Editor().Info("Library layout created", "layoutId", layout.ID, "category", layout.Category)
	return layout, nil
}

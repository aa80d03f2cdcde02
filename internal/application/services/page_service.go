package services

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/AtRiskMedia/tractstack-builder/internal/domain/editor"
	"github.com/AtRiskMedia/tractstack-builder/internal/domain/entities/builder"
	"github.com/AtRiskMedia/tractstack-builder/internal/domain/entities/content"
	"github.com/AtRiskMedia/tractstack-builder/internal/domain/repositories"
	"github.com/AtRiskMedia/tractstack-builder/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-builder/internal/infrastructure/security"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// CreatePageRequest is the body of a page creation request. Tree is optional
// and may use any legacy layout; it is normalized before storage.
type CreatePageRequest struct {
	Title string               `json:"title"`
	Slug  string               `json:"slug"`
	Tree  *builder.ContentTree `json:"tree,omitempty"`
}

// PageService orchestrates page operations
type PageService struct {
	pageRepo repositories.PageRepository
	logger   *logging.ChanneledLogger
}

// NewPageService creates a new page application service
func NewPageService(pageRepo repositories.PageRepository, logger *logging.ChanneledLogger) *PageService {
	return &PageService{
		pageRepo: pageRepo,
		logger:   logger,
	}
}

// GetAll returns every stored page.
func (s *PageService) GetAll() ([]*content.Page, error) {
	pages, err := s.pageRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get all pages: %w", err)
	}
	return pages, nil
}

// GetByID returns a page by ID
func (s *PageService) GetByID(id string) (*content.Page, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: page ID cannot be empty", ErrInvalidInput)
	}
	page, err := s.pageRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get page %s: %w", id, err)
	}
	if page == nil {
		return nil, ErrPageNotFound
	}
	return page, nil
}

// Create validates and stores a new page.
func (s *PageService) Create(req CreatePageRequest) (*content.Page, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		slug = Slugify(title)
	}
	if !slugPattern.MatchString(slug) {
		return nil, fmt.Errorf("%w: slug %q must be lowercase words joined by hyphens", ErrInvalidInput, slug)
	}

	existing, err := s.pageRepo.FindBySlug(slug)
	if err != nil {
		return nil, fmt.Errorf("failed to check slug: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: slug %q is already in use", ErrInvalidInput, slug)
	}

	page := &content.Page{
		ID:      security.GenerateULID(),
		Title:   title,
		Slug:    slug,
		Tree:    editor.Normalize(req.Tree, security.NodeIDs),
		Created: time.Now().UTC(),
	}
	if err := s.pageRepo.Store(page); err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	s.logger.Editor().Info("Page created", "pageId", page.ID, "slug", page.Slug)
	return page, nil
}

// Delete removes a page.
func (s *PageService) Delete(id string) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	if err := s.pageRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete page %s: %w", id, err)
	}
	s.logger.Editor().Info("Page deleted", "pageId", id)
	return nil
}

// Slugify lowercases title and joins its alphanumeric runs with hyphens.
func Slugify(title string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// Package content provides the SQL repositories for pages and library layouts.
package content

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/AtRiskMedia/tractstack-builder/internal/domain/entities/builder"
	"github.com/AtRiskMedia/tractstack-builder/internal/domain/entities/content"
	"github.com/AtRiskMedia/tractstack-builder/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-builder/internal/infrastructure/persistence/database"
)

const timeLayout = "2006-01-02 15:04:05"

type PageRepository struct {
	db     *sql.DB
	logger *logging.ChanneledLogger
}

func NewPageRepository(db *sql.DB, logger *logging.ChanneledLogger) *PageRepository {
	return &PageRepository{
		db:     db,
		logger: logger,
	}
}

func (r *PageRepository) FindByID(id string) (*content.Page, error) {
	query := `SELECT id, title, slug, tree, created, changed FROM pages WHERE id = ?`
	return r.findOne(query, id)
}

func (r *PageRepository) FindBySlug(slug string) (*content.Page, error) {
	query := `SELECT id, title, slug, tree, created, changed FROM pages WHERE slug = ?`
	return r.findOne(query, slug)
}

// FindAll returns every page ordered by title.
func (r *PageRepository) FindAll() ([]*content.Page, error) {
	query := `SELECT id, title, slug, tree, created, changed FROM pages ORDER BY title`

	start := time.Now()
	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Database().Error("Page list query failed", "error", err.Error())
		return nil, fmt.Errorf("failed to query pages: %w", err)
	}
	defer rows.Close()

	pages := []*content.Page{}
	for rows.Next() {
		page, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pages: %w", err)
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return pages, nil
}

// Store inserts page or replaces the stored row with the same id.
func (r *PageRepository) Store(page *content.Page) error {
	tree := page.Tree
	if tree == nil {
		tree = builder.NewTree()
	}
	treeJSON, err := tree.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode page tree: %w", err)
	}
	if page.Created.IsZero() {
		page.Created = time.Now().UTC()
	}

	query := `INSERT INTO pages (id, title, slug, tree, created, changed) VALUES (?, ?, ?, ?, ?, ?)
	          ON CONFLICT(id) DO UPDATE SET title = excluded.title, slug = excluded.slug,
	          tree = excluded.tree, changed = excluded.changed`

	start := time.Now()
	r.logger.Database().Debug("Executing page upsert", "id", page.ID, "slug", page.Slug)

	_, err = r.db.Exec(query, page.ID, page.Title, page.Slug, string(treeJSON),
		page.Created.UTC().Format(timeLayout), formatChanged(page.Changed))
	if err != nil {
		r.logger.Database().Error("Page upsert failed", "error", err.Error(), "id", page.ID)
		return fmt.Errorf("failed to store page: %w", err)
	}

	duration := time.Since(start)
	r.logger.Database().Info("Page upsert completed", "id", page.ID, "duration", duration)
	database.CheckAndLogSlowQuery(r.logger, query, duration)
	return nil
}

// SaveTree replaces the tree of an existing page and stamps its changed time.
// It returns sql.ErrNoRows when no page has the id.
func (r *PageRepository) SaveTree(id string, tree *builder.ContentTree) error {
	treeJSON, err := tree.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode page tree: %w", err)
	}

	query := `UPDATE pages SET tree = ?, changed = ? WHERE id = ?`

	start := time.Now()
	r.logger.Database().Debug("Executing page tree update", "id", id)

	result, err := r.db.Exec(query, string(treeJSON), time.Now().UTC().Format(timeLayout), id)
	if err != nil {
		r.logger.Database().Error("Page tree update failed", "error", err.Error(), "id", id)
		return fmt.Errorf("failed to save page tree: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}

	duration := time.Since(start)
	r.logger.Database().Info("Page tree update completed", "id", id, "duration", duration)
	database.CheckAndLogSlowQuery(r.logger, query, duration)
	return nil
}

func (r *PageRepository) Delete(id string) error {
	query := `DELETE FROM pages WHERE id = ?`

	start := time.Now()
	if _, err := r.db.Exec(query, id); err != nil {
		r.logger.Database().Error("Page delete failed", "error", err.Error(), "id", id)
		return fmt.Errorf("failed to delete page: %w", err)
	}
	r.logger.Database().Info("Page delete completed", "id", id, "duration", time.Since(start))
	return nil
}

func (r *PageRepository) findOne(query string, arg string) (*content.Page, error) {
	start := time.Now()
	row := r.db.QueryRow(query, arg)
	page, err := scanPage(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Database().Error("Page query failed", "error", err.Error(), "arg", arg)
		return nil, err
	}
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return page, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPage(s scanner) (*content.Page, error) {
	var page content.Page
	var treeJSON, createdStr string
	var changed sql.NullString

	if err := s.Scan(&page.ID, &page.Title, &page.Slug, &treeJSON, &createdStr, &changed); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan page: %w", err)
	}

	tree, err := builder.DecodeTree([]byte(treeJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to decode tree of page %s: %w", page.ID, err)
	}
	page.Tree = tree

	if created, err := time.Parse(timeLayout, createdStr); err == nil {
		page.Created = created
	}
	if changed.Valid {
		if changedTime, err := time.Parse(timeLayout, changed.String); err == nil {
			page.Changed = &changedTime
		}
	}
	return &page, nil
}

func formatChanged(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(timeLayout)
}

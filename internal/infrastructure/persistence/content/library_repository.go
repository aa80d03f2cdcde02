package content

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/AtRiskMedia/tractstack-builder/internal/domain/entities/builder"
	"github.com/AtRiskMedia/tractstack-builder/internal/domain/entities/content"
	"github.com/AtRiskMedia/tractstack-builder/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-builder/internal/infrastructure/persistence/database"
)

type LibraryRepository struct {
	db     *sql.DB
	logger *logging.ChanneledLogger
}

func NewLibraryRepository(db *sql.DB, logger *logging.ChanneledLogger) *LibraryRepository {
	return &LibraryRepository{
		db:     db,
		logger: logger,
	}
}

func (r *LibraryRepository) FindByID(id string) (*content.LibraryLayout, error) {
	query := `SELECT id, title, category, sections FROM library_layouts WHERE id = ?`

	start := time.Now()
	layout, err := scanLayout(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Database().Error("Library layout query failed", "error", err.Error(), "id", id)
		return nil, err
	}
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return layout, nil
}

func (r *LibraryRepository) FindAll() ([]*content.LibraryLayout, error) {
	return r.list(`SELECT id, title, category, sections FROM library_layouts ORDER BY category, title`)
}

func (r *LibraryRepository) FindByCategory(category string) ([]*content.LibraryLayout, error) {
	return r.list(`SELECT id, title, category, sections FROM library_layouts WHERE category = ? ORDER BY title`, category)
}

// Store inserts layout or replaces the stored row with the same id.
func (r *LibraryRepository) Store(layout *content.LibraryLayout) error {
	sections := layout.Sections
	if sections == nil {
		sections = []*builder.Section{}
	}
	sectionsJSON, err := json.Marshal(sections)
	if err != nil {
		return fmt.Errorf("failed to encode layout sections: %w", err)
	}

	query := `INSERT INTO library_layouts (id, title, category, sections) VALUES (?, ?, ?, ?)
	          ON CONFLICT(id) DO UPDATE SET title = excluded.title, category = excluded.category,
	          sections = excluded.sections`

	start := time.Now()
	r.logger.Database().Debug("Executing library layout upsert", "id", layout.ID)

	if _, err := r.db.Exec(query, layout.ID, layout.Title, layout.Category, string(sectionsJSON)); err != nil {
		r.logger.Database().Error("Library layout upsert failed", "error", err.Error(), "id", layout.ID)
		return fmt.Errorf("failed to store library layout: %w", err)
	}

	duration := time.Since(start)
	r.logger.Database().Info("Library layout upsert completed", "id", layout.ID, "duration", duration)
	database.CheckAndLogSlowQuery(r.logger, query, duration)
	return nil
}

func (r *LibraryRepository) Exists(id string) (bool, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM library_layouts WHERE id = ?`, id).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check library layout: %w", err)
	}
	return n > 0, nil
}

func (r *LibraryRepository) list(query string, args ...any) ([]*content.LibraryLayout, error) {
	start := time.Now()
	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.Database().Error("Library layout list query failed", "error", err.Error())
		return nil, fmt.Errorf("failed to query library layouts: %w", err)
	}
	defer rows.Close()

	layouts := []*content.LibraryLayout{}
	for rows.Next() {
		layout, err := scanLayout(rows)
		if err != nil {
			return nil, err
		}
		layouts = append(layouts, layout)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate library layouts: %w", err)
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return layouts, nil
}

func scanLayout(s scanner) (*content.LibraryLayout, error) {
	var layout content.LibraryLayout
	var sectionsJSON string
	if err := s.Scan(&layout.ID, &layout.Title, &layout.Category, &sectionsJSON); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan library layout: %w", err)
	}

	sections, err := builder.DecodeSections([]byte(sectionsJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to decode sections of layout %s: %w", layout.ID, err)
	}
	layout.Sections = sections
	return &layout, nil
}

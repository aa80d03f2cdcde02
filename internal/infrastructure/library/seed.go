// Package library loads the layout library seed file.
package library

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/AtRiskMedia/tractstack-builder/internal/domain/entities/builder"
	"github.com/AtRiskMedia/tractstack-builder/internal/domain/entities/content"
	"github.com/AtRiskMedia/tractstack-builder/internal/domain/repositories"
	"github.com/AtRiskMedia/tractstack-builder/internal/infrastructure/observability/logging"
)

// seedFile is the on-disk shape. Sections stay untyped until they are
// converted, so the lenient tree decoder handles legacy layouts the same way
// for YAML and JSON.
type seedFile struct {
	Layouts []seedLayout `yaml:"layouts"`
}

type seedLayout struct {
	ID       string `yaml:"id"`
	Title    string `yaml:"title"`
	Category string `yaml:"category"`
	Sections []any  `yaml:"sections"`
}

// Parse decodes seed YAML into library layouts.
func Parse(data []byte) ([]*content.LibraryLayout, error) {
	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse library seed: %w", err)
	}

	layouts := make([]*content.LibraryLayout, 0, len(file.Layouts))
	seen := make(map[string]bool, len(file.Layouts))
	for i, l := range file.Layouts {
		if l.ID == "" {
			return nil, fmt.Errorf("library seed layout %d has no id", i)
		}
		if seen[l.ID] {
			return nil, fmt.Errorf("library seed layout %q is defined twice", l.ID)
		}
		seen[l.ID] = true

		raw, err := json.Marshal(l.Sections)
		if err != nil {
			return nil, fmt.Errorf("library seed layout %q: %w", l.ID, err)
		}
		sections, err := builder.DecodeSections(raw)
		if err != nil {
			return nil, fmt.Errorf("library seed layout %q: %w", l.ID, err)
		}
		if sections == nil {
			sections = []*builder.Section{}
		}

		title := l.Title
		if title == "" {
			title = l.ID
		}
		layouts = append(layouts, &content.LibraryLayout{
			ID:       l.ID,
			Title:    title,
			Category: l.Category,
			Sections: sections,
		})
	}
	return layouts, nil
}

// Load reads and parses the seed file at path. A missing file yields no layouts.
func Load(path string) ([]*content.LibraryLayout, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read library seed %s: %w", path, err)
	}
	return Parse(data)
}

// Seed stores every layout from path that the repository does not hold yet.
// Layouts edited after seeding are left alone. It returns the number stored.
func Seed(path string, repo repositories.LibraryRepository, logger *logging.ChanneledLogger) (int, error) {
	start := time.Now()
	layouts, err := Load(path)
	if err != nil {
		return 0, err
	}
	if layouts == nil {
		logger.Startup().Info("No library seed file found", "path", path)
		return 0, nil
	}

	stored := 0
	for _, layout := range layouts {
		exists, err := repo.Exists(layout.ID)
		if err != nil {
			return stored, err
		}
		if exists {
			continue
		}
		if err := repo.Store(layout); err != nil {
			return stored, err
		}
		stored++
	}

	logger.Startup().Info("Library seed applied", "path", path, "layouts", len(layouts), "stored", stored, "duration", time.Since(start))
	return stored, nil
}

package config

import (
	"fmt"
	"strings"
)

// Validate checks the catalog for:
//   - Required fields (version, puzzle id, start word)
//   - Duplicate puzzle ids
//   - Sane time limits
//
// All problems are collected so one reload surfaces every mistake at once.
func Validate(cfg *CatalogConfig) error {
	if cfg.Version == "" {
		return fmt.Errorf("catalog: version is required")
	}
	if len(cfg.Puzzles) == 0 {
		return fmt.Errorf("catalog: at least one puzzle is required")
	}

	ids := make(map[string]int) // id → first index seen
	var errs []string

	for i, p := range cfg.Puzzles {
		if p.ID == "" {
			errs = append(errs, fmt.Sprintf("puzzles[%d]: id is required", i))
			continue
		}
		if first, ok := ids[p.ID]; ok {
			errs = append(errs, fmt.Sprintf("duplicate puzzle id %q (first seen at puzzles[%d], again at puzzles[%d])", p.ID, first, i))
		} else {
			ids[p.ID] = i
		}
		if strings.TrimSpace(p.StartWord) == "" {
			errs = append(errs, fmt.Sprintf("puzzle %s: start_word is required", p.ID))
		}
		if p.TimeLimitSeconds <= 0 {
			errs = append(errs, fmt.Sprintf("puzzle %s: time_limit_seconds must be positive, got %d", p.ID, p.TimeLimitSeconds))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

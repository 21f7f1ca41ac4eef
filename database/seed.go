package database

import (
	"context"
	"fmt"
)

// SeedLookups ensures the given category and technology labels exist
func (d Database) SeedLookups(ctx context.Context, categories, technologies []string) error {
	for _, label := range categories {
		if _, err := d.categoryRepo.FirstOrCreate(ctx, label); err != nil {
			return fmt.Errorf("seed category %q: %w", label, err)
		}
	}
	for _, label := range technologies {
		if _, err := d.technologyRepo.FirstOrCreate(ctx, label); err != nil {
			return fmt.Errorf("seed technology %q: %w", label, err)
		}
	}
	return nil
}

package embedding

import (
	"context"
	"strings"

	"github.com/jubilgo/jubilgo-api/internal/catalog"
	"github.com/jubilgo/jubilgo-api/internal/database"
	"github.com/jubilgo/jubilgo-api/internal/database/models"
)

// EnsureInterestCatalog seeds any base interests missing from the store,
// assigning ids after the current maximum. Existing rows keep their ids so
// stored user interest references stay valid.
func EnsureInterestCatalog(ctx context.Context, store database.InterestRepository) error {
	rows, err := store.ListInterests(ctx)
	if err != nil {
		return err
	}

	existing := make(map[string]bool, len(rows))
	var maxID int64
	for _, row := range rows {
		existing[strings.TrimSpace(row.Name)] = true
		if row.ID > maxID {
			maxID = row.ID
		}
	}

	nextID := maxID + 1
	var missing []*models.Interest
	for _, interest := range catalog.BaseInterests {
		if existing[interest.Name] {
			continue
		}
		missing = append(missing, &models.Interest{
			ID:       nextID,
			Name:     interest.Name,
			Category: interest.Category,
		})
		nextID++
	}
	if len(missing) == 0 {
		return nil
	}
	return store.SeedInterests(ctx, missing)
}

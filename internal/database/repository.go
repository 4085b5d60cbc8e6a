package database

import (
	"context"
	"errors"

	"github.com/jubilgo/jubilgo-api/internal/database/models"
)

var ErrNotFound = errors.New("record not found")

// InterestRepository persists the interest catalog and its cached embeddings.
type InterestRepository interface {
	// SeedInterests inserts any catalog rows that are not present yet.
	// Existing rows (matched by name) are left untouched.
	SeedInterests(ctx context.Context, rows []*models.Interest) error
	ListInterests(ctx context.Context) ([]*models.Interest, error)
	// SaveInterestEmbeddings merge-writes embedding fields onto existing
	// catalog rows. Callers are expected to chunk large batches.
	SaveInterestEmbeddings(ctx context.Context, updates []*models.InterestEmbeddingUpdate) error
}

// BehaviorRepository exposes the per-user behavioral signal collections.
// The preference learner only reads; writes exist for the report lifecycle
// and for seeding.
type BehaviorRepository interface {
	ListFavorites(ctx context.Context, uid, activityType string) ([]*models.ActivityFavorite, error)
	ListHistory(ctx context.Context, uid, activityType string, limit int) ([]*models.ActivityHistoryEntry, error)
	ListReports(ctx context.Context, uid string) ([]*models.ActivityReport, error)

	AddFavorite(ctx context.Context, fav *models.ActivityFavorite) error
	AddHistoryEntry(ctx context.Context, entry *models.ActivityHistoryEntry) error
	UpsertReport(ctx context.Context, report *models.ActivityReport) error
	DeleteReport(ctx context.Context, uid, activityType, activityID string) error
}

// UserAttributes are the classified attributes persisted after a
// questionnaire run. Zero-valued fields are left untouched (merge write).
type UserAttributes struct {
	Interests        []string
	InterestIDs      []int64
	PreparationLevel string
	MobilityLevel    string
}

// UserRepository persists the classified user attributes.
type UserRepository interface {
	GetUser(ctx context.Context, uid string) (*models.UserProfile, error)
	SaveUserAttributes(ctx context.Context, uid string, attrs UserAttributes) error
}

// Store is the full persistence surface the service wires at startup.
type Store interface {
	InterestRepository
	BehaviorRepository
	UserRepository
	Close() error
}

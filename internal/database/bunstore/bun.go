package bunstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jubilgo/jubilgo-api/internal/database"
	"github.com/jubilgo/jubilgo-api/internal/database/models"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"
)

// BunStore implements database.Store on top of the bun ORM.
type BunStore struct {
	db *bun.DB
}

func NewBunStore(db *sql.DB, dialect schema.Dialect) (*BunStore, error) {
	bunDB := bun.NewDB(db, dialect)

	store := &BunStore{db: bunDB}

	ctx := context.Background()
	tables := []any{
		(*models.Interest)(nil),
		(*models.ActivityFavorite)(nil),
		(*models.ActivityHistoryEntry)(nil),
		(*models.ActivityReport)(nil),
		(*models.UserProfile)(nil),
	}
	for _, table := range tables {
		if _, err := bunDB.NewCreateTable().Model(table).IfNotExists().Exec(ctx); err != nil {
			return nil, fmt.Errorf("failed to create table for %T: %w", table, err)
		}
	}

	indexes := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_reports_uid_activity ON activity_reports(uid, activity_type, activity_id)`,
		`CREATE INDEX IF NOT EXISTS idx_favorites_uid ON activity_favorites(uid)`,
		`CREATE INDEX IF NOT EXISTS idx_history_uid ON activity_history(uid)`,
	}
	for _, stmt := range indexes {
		if _, err := bunDB.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("failed to create index: %w", err)
		}
	}

	return store, nil
}

func (s *BunStore) Close() error {
	return s.db.Close()
}

// InterestRepository implementation

func (s *BunStore) SeedInterests(ctx context.Context, rows []*models.Interest) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := s.db.NewInsert().
		Model(&rows).
		On("CONFLICT (name) DO NOTHING").
		Exec(ctx)
	return err
}

func (s *BunStore) ListInterests(ctx context.Context) ([]*models.Interest, error) {
	var rows []*models.Interest
	if err := s.db.NewSelect().Model(&rows).
		Order("category ASC", "name ASC").
		Scan(ctx); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *BunStore) SaveInterestEmbeddings(ctx context.Context, updates []*models.InterestEmbeddingUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		now := time.Now().UTC()
		for _, u := range updates {
			if _, err := tx.NewUpdate().Model((*models.Interest)(nil)).
				Set("embedding = ?", u.Vector).
				Set("embedding_signature = ?", u.Signature).
				Set("embedding_text = ?", u.Text).
				Set("embedding_model = ?", u.Model).
				Set("embedding_updated_at = ?", now).
				Where("id = ?", u.InterestID).
				Exec(ctx); err != nil {
				return fmt.Errorf("interest %d: %w", u.InterestID, err)
			}
		}
		return nil
	})
}

// BehaviorRepository implementation

func (s *BunStore) ListFavorites(ctx context.Context, uid, activityType string) ([]*models.ActivityFavorite, error) {
	var rows []*models.ActivityFavorite
	q := s.db.NewSelect().Model(&rows).Where("uid = ?", uid)
	if activityType != "" {
		q = q.Where("activity_type = ?", activityType)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *BunStore) ListHistory(ctx context.Context, uid, activityType string, limit int) ([]*models.ActivityHistoryEntry, error) {
	var rows []*models.ActivityHistoryEntry
	q := s.db.NewSelect().Model(&rows).Where("uid = ?", uid).Order("created_at DESC")
	if activityType != "" {
		q = q.Where("activity_type = ?", activityType)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *BunStore) ListReports(ctx context.Context, uid string) ([]*models.ActivityReport, error) {
	var rows []*models.ActivityReport
	if err := s.db.NewSelect().Model(&rows).Where("uid = ?", uid).Scan(ctx); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *BunStore) AddFavorite(ctx context.Context, fav *models.ActivityFavorite) error {
	_, err := s.db.NewInsert().Model(fav).Exec(ctx)
	return err
}

func (s *BunStore) AddHistoryEntry(ctx context.Context, entry *models.ActivityHistoryEntry) error {
	_, err := s.db.NewInsert().Model(entry).Exec(ctx)
	return err
}

func (s *BunStore) UpsertReport(ctx context.Context, report *models.ActivityReport) error {
	_, err := s.db.NewInsert().Model(report).
		On("CONFLICT (uid, activity_type, activity_id) DO UPDATE").
		Set("reason = EXCLUDED.reason").
		Set("title = EXCLUDED.title").
		Set("emoji = EXCLUDED.emoji").
		Set("category = EXCLUDED.category").
		Set("updated_at = current_timestamp").
		Exec(ctx)
	return err
}

func (s *BunStore) DeleteReport(ctx context.Context, uid, activityType, activityID string) error {
	_, err := s.db.NewDelete().Model((*models.ActivityReport)(nil)).
		Where("uid = ? AND activity_type = ? AND activity_id = ?", uid, activityType, activityID).
		Exec(ctx)
	return err
}

// UserRepository implementation

func (s *BunStore) GetUser(ctx context.Context, uid string) (*models.UserProfile, error) {
	profile := new(models.UserProfile)
	if err := s.db.NewSelect().Model(profile).Where("uid = ?", uid).Scan(ctx); err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (s *BunStore) SaveUserAttributes(ctx context.Context, uid string, attrs database.UserAttributes) error {
	profile, err := s.GetUser(ctx, uid)
	if err != nil {
		if err != database.ErrNotFound {
			return err
		}
		profile = &models.UserProfile{UID: uid}
	}

	if len(attrs.Interests) > 0 {
		profile.Interests = attrs.Interests
	}
	if len(attrs.InterestIDs) > 0 {
		profile.InterestIDs = attrs.InterestIDs
	}
	if attrs.PreparationLevel != "" {
		profile.PreparationLevel = attrs.PreparationLevel
	}
	if attrs.MobilityLevel != "" {
		profile.MobilityLevel = attrs.MobilityLevel
	}
	profile.UpdatedAt = time.Now().UTC()

	_, err = s.db.NewInsert().Model(profile).
		On("CONFLICT (uid) DO UPDATE").
		Set("interests = EXCLUDED.interests").
		Set("interest_ids = EXCLUDED.interest_ids").
		Set("preparation_level = EXCLUDED.preparation_level").
		Set("mobility_level = EXCLUDED.mobility_level").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

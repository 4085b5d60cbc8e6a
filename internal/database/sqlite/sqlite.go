package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jubilgo/jubilgo-api/internal/database"
	"github.com/jubilgo/jubilgo-api/internal/database/models"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements database.Store with raw SQL over mattn/go-sqlite3.
// Functionally equivalent to the bun-backed store; selectable via config.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS interest_catalog (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		category TEXT,
		embedding TEXT,
		embedding_signature TEXT,
		embedding_text TEXT,
		embedding_model TEXT,
		embedding_updated_at INTEGER
	);

	CREATE TABLE IF NOT EXISTS activity_favorites (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		uid TEXT NOT NULL,
		activity_type TEXT NOT NULL,
		activity_id TEXT NOT NULL,
		category TEXT,
		tags TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_favorites_uid ON activity_favorites(uid);

	CREATE TABLE IF NOT EXISTS activity_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		uid TEXT NOT NULL,
		activity_type TEXT NOT NULL,
		activity_id TEXT NOT NULL,
		category TEXT,
		tags TEXT,
		rating INTEGER,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_history_uid ON activity_history(uid);

	CREATE TABLE IF NOT EXISTS activity_reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		uid TEXT NOT NULL,
		activity_type TEXT NOT NULL,
		activity_id TEXT NOT NULL,
		reason TEXT,
		title TEXT,
		emoji TEXT,
		category TEXT,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL,
		UNIQUE(uid, activity_type, activity_id)
	);

	CREATE TABLE IF NOT EXISTS user_profiles (
		uid TEXT PRIMARY KEY,
		interests TEXT,
		interest_ids TEXT,
		preparation_level TEXT,
		mobility_level TEXT,
		updated_at INTEGER NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Implement InterestRepository

func (s *SQLiteStore) SeedInterests(ctx context.Context, rows []*models.Interest) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	query := `INSERT INTO interest_catalog (id, name, category) VALUES (?, ?, ?)
	          ON CONFLICT(name) DO NOTHING`
	for _, row := range rows {
		if _, err := tx.ExecContext(ctx, query, row.ID, row.Name, row.Category); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) ListInterests(ctx context.Context) ([]*models.Interest, error) {
	query := `SELECT id, name, COALESCE(category, ''), embedding,
	                 COALESCE(embedding_signature, ''), COALESCE(embedding_text, ''),
	                 COALESCE(embedding_model, ''), COALESCE(embedding_updated_at, 0)
	          FROM interest_catalog ORDER BY category ASC, name ASC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Interest
	for rows.Next() {
		row := &models.Interest{}
		var updatedAt int64
		if err := rows.Scan(&row.ID, &row.Name, &row.Category, &row.Embedding,
			&row.EmbeddingSignature, &row.EmbeddingText, &row.EmbeddingModel, &updatedAt); err != nil {
			return nil, err
		}
		if updatedAt > 0 {
			row.EmbeddingUpdatedAt = time.Unix(updatedAt, 0)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) SaveInterestEmbeddings(ctx context.Context, updates []*models.InterestEmbeddingUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().Unix()
	query := `UPDATE interest_catalog
	          SET embedding = ?, embedding_signature = ?, embedding_text = ?,
	              embedding_model = ?, embedding_updated_at = ?
	          WHERE id = ?`
	for _, u := range updates {
		if _, err := tx.ExecContext(ctx, query, u.Vector, u.Signature, u.Text, u.Model, now, u.InterestID); err != nil {
			return fmt.Errorf("interest %d: %w", u.InterestID, err)
		}
	}
	return tx.Commit()
}

// Implement BehaviorRepository

func (s *SQLiteStore) ListFavorites(ctx context.Context, uid, activityType string) ([]*models.ActivityFavorite, error) {
	query := `SELECT id, uid, activity_type, activity_id, COALESCE(category, ''), tags, created_at
	          FROM activity_favorites WHERE uid = ?`
	args := []any{uid}
	if activityType != "" {
		query += ` AND activity_type = ?`
		args = append(args, activityType)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.ActivityFavorite
	for rows.Next() {
		fav := &models.ActivityFavorite{}
		var createdAt int64
		if err := rows.Scan(&fav.ID, &fav.UID, &fav.ActivityType, &fav.ActivityID, &fav.Category, &fav.Tags, &createdAt); err != nil {
			return nil, err
		}
		fav.CreatedAt = time.Unix(createdAt, 0)
		out = append(out, fav)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) ListHistory(ctx context.Context, uid, activityType string, limit int) ([]*models.ActivityHistoryEntry, error) {
	query := `SELECT id, uid, activity_type, activity_id, COALESCE(category, ''), tags, COALESCE(rating, 0), created_at
	          FROM activity_history WHERE uid = ?`
	args := []any{uid}
	if activityType != "" {
		query += ` AND activity_type = ?`
		args = append(args, activityType)
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.ActivityHistoryEntry
	for rows.Next() {
		entry := &models.ActivityHistoryEntry{}
		var createdAt int64
		if err := rows.Scan(&entry.ID, &entry.UID, &entry.ActivityType, &entry.ActivityID, &entry.Category, &entry.Tags, &entry.Rating, &createdAt); err != nil {
			return nil, err
		}
		entry.CreatedAt = time.Unix(createdAt, 0)
		out = append(out, entry)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) ListReports(ctx context.Context, uid string) ([]*models.ActivityReport, error) {
	query := `SELECT id, uid, activity_type, activity_id, COALESCE(reason, ''), COALESCE(title, ''),
	                 COALESCE(emoji, ''), COALESCE(category, ''), created_at, updated_at
	          FROM activity_reports WHERE uid = ?`
	rows, err := s.db.QueryContext(ctx, query, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.ActivityReport
	for rows.Next() {
		report := &models.ActivityReport{}
		var createdAt, updatedAt int64
		if err := rows.Scan(&report.ID, &report.UID, &report.ActivityType, &report.ActivityID,
			&report.Reason, &report.Title, &report.Emoji, &report.Category, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		report.CreatedAt = time.Unix(createdAt, 0)
		report.UpdatedAt = time.Unix(updatedAt, 0)
		out = append(out, report)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) AddFavorite(ctx context.Context, fav *models.ActivityFavorite) error {
	query := `INSERT INTO activity_favorites (uid, activity_type, activity_id, category, tags, created_at)
	          VALUES (?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query, fav.UID, fav.ActivityType, fav.ActivityID, fav.Category, fav.Tags, time.Now().Unix())
	return err
}

func (s *SQLiteStore) AddHistoryEntry(ctx context.Context, entry *models.ActivityHistoryEntry) error {
	query := `INSERT INTO activity_history (uid, activity_type, activity_id, category, tags, rating, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query, entry.UID, entry.ActivityType, entry.ActivityID, entry.Category, entry.Tags, entry.Rating, time.Now().Unix())
	return err
}

func (s *SQLiteStore) UpsertReport(ctx context.Context, report *models.ActivityReport) error {
	now := time.Now().Unix()
	query := `INSERT INTO activity_reports (uid, activity_type, activity_id, reason, title, emoji, category, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	          ON CONFLICT(uid, activity_type, activity_id) DO UPDATE SET
	            reason = excluded.reason, title = excluded.title, emoji = excluded.emoji,
	            category = excluded.category, updated_at = excluded.updated_at`
	_, err := s.db.ExecContext(ctx, query, report.UID, report.ActivityType, report.ActivityID,
		report.Reason, report.Title, report.Emoji, report.Category, now, now)
	return err
}

func (s *SQLiteStore) DeleteReport(ctx context.Context, uid, activityType, activityID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM activity_reports WHERE uid = ? AND activity_type = ? AND activity_id = ?`,
		uid, activityType, activityID)
	return err
}

// Implement UserRepository

func (s *SQLiteStore) GetUser(ctx context.Context, uid string) (*models.UserProfile, error) {
	query := `SELECT uid, interests, interest_ids, COALESCE(preparation_level, ''), COALESCE(mobility_level, ''), updated_at
	          FROM user_profiles WHERE uid = ?`
	profile := &models.UserProfile{}
	var updatedAt int64
	err := s.db.QueryRowContext(ctx, query, uid).Scan(&profile.UID, &profile.Interests, &profile.InterestIDs,
		&profile.PreparationLevel, &profile.MobilityLevel, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	profile.UpdatedAt = time.Unix(updatedAt, 0)
	return profile, nil
}

func (s *SQLiteStore) SaveUserAttributes(ctx context.Context, uid string, attrs database.UserAttributes) error {
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

	query := `INSERT INTO user_profiles (uid, interests, interest_ids, preparation_level, mobility_level, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?)
	          ON CONFLICT(uid) DO UPDATE SET
	            interests = excluded.interests, interest_ids = excluded.interest_ids,
	            preparation_level = excluded.preparation_level, mobility_level = excluded.mobility_level,
	            updated_at = excluded.updated_at`
	_, err = s.db.ExecContext(ctx, query, profile.UID, profile.Interests, profile.InterestIDs,
		profile.PreparationLevel, profile.MobilityLevel, time.Now().Unix())
	return err
}

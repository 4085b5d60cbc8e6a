package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// Vector is an embedding stored as a JSON array in a TEXT column.
type Vector []float32

func (v Vector) Value() (driver.Value, error) {
	if len(v) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (v *Vector) Scan(src any) error {
	return scanJSON(src, v)
}

// StringList is a slice of strings stored as a JSON array in a TEXT column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *StringList) Scan(src any) error {
	return scanJSON(src, l)
}

// Int64List is a slice of ids stored as a JSON array in a TEXT column.
type Int64List []int64

func (l Int64List) Value() (driver.Value, error) {
	if len(l) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *Int64List) Scan(src any) error {
	return scanJSON(src, l)
}

func scanJSON(src, dst any) error {
	switch raw := src.(type) {
	case nil:
		return nil
	case []byte:
		if len(raw) == 0 {
			return nil
		}
		return json.Unmarshal(raw, dst)
	case string:
		if raw == "" {
			return nil
		}
		return json.Unmarshal([]byte(raw), dst)
	default:
		return fmt.Errorf("cannot scan %T into JSON column", src)
	}
}

// Interest is one interest catalog row together with its cached embedding.
// One vector per row; the signature ties the vector to the model identity and
// the canonical passage text it was computed from.
type Interest struct {
	bun.BaseModel `bun:"table:interest_catalog,alias:ic"`

	ID       int64  `bun:",pk"`
	Name     string `bun:",notnull,unique"`
	Category string `bun:",nullzero"`

	Embedding          Vector    `bun:",nullzero,type:text"`
	EmbeddingSignature string    `bun:",nullzero"`
	EmbeddingText      string    `bun:",nullzero"`
	EmbeddingModel     string    `bun:",nullzero"`
	EmbeddingUpdatedAt time.Time `bun:",nullzero"`
}

// InterestEmbeddingUpdate is a merge-write for a single catalog interest.
type InterestEmbeddingUpdate struct {
	InterestID int64
	Vector     Vector
	Signature  string
	Text       string
	Model      string
}

// ActivityFavorite is a user's favorited activity.
type ActivityFavorite struct {
	bun.BaseModel `bun:"table:activity_favorites,alias:af"`

	ID           int64      `bun:",pk,autoincrement"`
	UID          string     `bun:",notnull"`
	ActivityType string     `bun:",notnull"`
	ActivityID   string     `bun:",notnull"`
	Category     string     `bun:",nullzero"`
	Tags         StringList `bun:",nullzero,type:text"`
	CreatedAt    time.Time  `bun:",nullzero,notnull,default:current_timestamp"`
}

// ActivityHistoryEntry is one completed activity, optionally rated 1-5.
// Rating 0 means unrated.
type ActivityHistoryEntry struct {
	bun.BaseModel `bun:"table:activity_history,alias:ah"`

	ID           int64      `bun:",pk,autoincrement"`
	UID          string     `bun:",notnull"`
	ActivityType string     `bun:",notnull"`
	ActivityID   string     `bun:",notnull"`
	Category     string     `bun:",nullzero"`
	Tags         StringList `bun:",nullzero,type:text"`
	Rating       int        `bun:",nullzero"`
	CreatedAt    time.Time  `bun:",nullzero,notnull,default:current_timestamp"`
}

// ActivityReport is a user's "don't show me this" signal. One row per
// (uid, activity type, activity id).
type ActivityReport struct {
	bun.BaseModel `bun:"table:activity_reports,alias:ar"`

	ID           int64     `bun:",pk,autoincrement"`
	UID          string    `bun:",notnull"`
	ActivityType string    `bun:",notnull"`
	ActivityID   string    `bun:",notnull"`
	Reason       string    `bun:",nullzero"`
	Title        string    `bun:",nullzero"`
	Emoji        string    `bun:",nullzero"`
	Category     string    `bun:",nullzero"`
	CreatedAt    time.Time `bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}

// UserProfile carries the classified attributes this core produces for a
// user. Profile CRUD beyond these attributes lives outside this service.
type UserProfile struct {
	bun.BaseModel `bun:"table:user_profiles,alias:up"`

	UID              string     `bun:",pk"`
	Interests        StringList `bun:",nullzero,type:text"`
	InterestIDs      Int64List  `bun:",nullzero,type:text"`
	PreparationLevel string     `bun:",nullzero"`
	MobilityLevel    string     `bun:",nullzero"`
	UpdatedAt        time.Time  `bun:",nullzero,notnull,default:current_timestamp"`
}

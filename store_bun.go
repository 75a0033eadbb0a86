package auth

import (
	"context"
	"database/sql"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// TokenRecord is the single-slot durable storage row. The key column carries
// the fixed storage key so multiple cores can share one database if needed.
type TokenRecord struct {
	bun.BaseModel `bun:"table:session_tokens,alias:tok"`
	Key           string     `bun:"key,pk" json:"key"`
	Token         string     `bun:"token,notnull" json:"token"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// BunTokenStore persists the bearer token in a SQLite (or any Bun-supported)
// table, the durable equivalent of the browser's storage slot.
type BunTokenStore struct {
	db     *bun.DB
	key    string
	logger Logger
}

var _ TokenStore = (*BunTokenStore)(nil)

// NewBunTokenStore returns a store writing under cfg.GetStorageKey(),
// creating the backing table when missing.
func NewBunTokenStore(ctx context.Context, db *bun.DB, cfg Config) (*BunTokenStore, error) {
	key := cfg.GetStorageKey()
	if key == "" {
		key = DefaultStorageKey
	}

	s := &BunTokenStore{
		db:     db,
		key:    key,
		logger: defLogger{},
	}

	if _, err := db.NewCreateTable().
		Model((*TokenRecord)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create session_tokens table")
	}

	return s, nil
}

func (s *BunTokenStore) WithLogger(logger Logger) *BunTokenStore {
	s.logger = logger
	return s
}

func (s *BunTokenStore) Load(ctx context.Context) (string, error) {
	record := new(TokenRecord)

	err := s.db.NewSelect().
		Model(record).
		Where("key = ?", s.key).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load persisted token")
	}

	return record.Token, nil
}

func (s *BunTokenStore) Save(ctx context.Context, token string) error {
	now := time.Now()
	record := &TokenRecord{
		Key:       s.key,
		Token:     token,
		UpdatedAt: &now,
	}

	_, err := s.db.NewInsert().
		Model(record).
		On("CONFLICT (key) DO UPDATE").
		Set("token = EXCLUDED.token").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist token")
	}

	return nil
}

func (s *BunTokenStore) Clear(ctx context.Context) error {
	_, err := s.db.NewDelete().
		Model((*TokenRecord)(nil)).
		Where("key = ?", s.key).
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to clear persisted token")
	}

	return nil
}

package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/pysugar/gato-admin/internal/db/models"
	"github.com/pysugar/gato-admin/internal/lock"
	"github.com/pysugar/gato-admin/internal/secret"
	"gorm.io/gorm"
)

// Store persists ModelConfig records. API keys are sealed before writes and opened after
// reads, so callers only ever see plaintext.
type Store struct {
	db     *gorm.DB
	cipher *secret.Cipher
	locker lock.Locker
}

// NewStore wraps db. A nil locker uses an in-process lock; a nil cipher stores keys as-is.
func NewStore(db *gorm.DB, cipher *secret.Cipher, locker lock.Locker) *Store {
	if locker == nil {
		locker = lock.NewLocal()
	}
	return &Store{db: db, cipher: cipher, locker: locker}
}

// DB exposes the underlying connection for components sharing the database.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// ListModels returns every record ordered by id.
func (s *Store) ListModels(ctx context.Context) ([]models.ModelConfig, error) {
	var rows []models.ModelConfig
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, persistErr("list", err)
	}
	for i := range rows {
		if err := s.open(&rows[i]); err != nil {
			return nil, &PersistenceError{Op: "list", Err: err}
		}
	}
	return rows, nil
}

// GetModel returns the record with id or ErrNotFound.
func (s *Store) GetModel(ctx context.Context, id uint) (*models.ModelConfig, error) {
	var row models.ModelConfig
	if err := s.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, persistErr("get", err)
	}
	if err := s.open(&row); err != nil {
		return nil, &PersistenceError{Op: "get", Err: err}
	}
	return &row, nil
}

// CreateModel inserts candidate; the store assigns ID and CreatedAt.
func (s *Store) CreateModel(ctx context.Context, candidate models.ModelConfig) (*models.ModelConfig, error) {
	row := models.ModelConfig{
		Alias:    candidate.Alias,
		Model:    candidate.Model,
		Strategy: candidate.Strategy,
		Routing:  candidate.Routing,
		Endpoint: candidate.Endpoint,
	}
	sealed, err := s.seal(candidate.APIKey)
	if err != nil {
		return nil, &PersistenceError{Op: "create", Err: err}
	}
	row.APIKey = sealed

	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, persistErr("create", err)
	}

	row.APIKey = candidate.APIKey
	log.Printf("[Store] Created model config id=%d alias=%s", row.ID, row.Alias)
	return &row, nil
}

// UpdateModel replaces every mutable field of the record candidate.ID. Fields absent
// from candidate are cleared.
func (s *Store) UpdateModel(ctx context.Context, candidate models.ModelConfig) (*models.ModelConfig, error) {
	id := candidate.ID
	if id == 0 {
		return nil, ErrNotFound
	}

	unlock, err := s.acquire(ctx, "update", id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	sealed, err := s.seal(candidate.APIKey)
	if err != nil {
		return nil, &PersistenceError{Op: "update", Err: err}
	}

	var updated models.ModelConfig
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.ModelConfig
		if err := tx.First(&existing, id).Error; err != nil {
			return err
		}
		updates := map[string]interface{}{
			"alias":    candidate.Alias,
			"model":    candidate.Model,
			"strategy": candidate.Strategy,
			"routing":  nullable(candidate.Routing),
			"endpoint": nullable(candidate.Endpoint),
			"api_key":  nullable(sealed),
		}
		if err := tx.Model(&existing).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&updated, id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, persistErr("update", err)
	}

	updated.APIKey = candidate.APIKey
	log.Printf("[Store] Updated model config id=%d alias=%s", updated.ID, updated.Alias)
	return &updated, nil
}

// DeleteModel removes the record and returns its prior state.
func (s *Store) DeleteModel(ctx context.Context, id uint) (*models.ModelConfig, error) {
	unlock, err := s.acquire(ctx, "delete", id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var existing models.ModelConfig
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&existing, id).Error; err != nil {
			return err
		}
		return tx.Delete(&existing).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, persistErr("delete", err)
	}

	if err := s.open(&existing); err != nil {
		// The row is gone; report it without the unreadable key.
		log.Printf("[Store] Deleted model config id=%d with unreadable api key: %v", id, err)
		existing.APIKey = nil
	}
	log.Printf("[Store] Deleted model config id=%d alias=%s", existing.ID, existing.Alias)
	return &existing, nil
}

func (s *Store) acquire(ctx context.Context, op string, id uint) (func(), error) {
	unlock, err := s.locker.TryLock(ctx, fmt.Sprintf("model:%d", id))
	if err != nil {
		if errors.Is(err, lock.ErrLocked) {
			return nil, ErrConflict
		}
		return nil, &PersistenceError{Op: op, Err: err}
	}
	return unlock, nil
}

func (s *Store) seal(key *string) (*string, error) {
	if key == nil {
		return nil, nil
	}
	sealed, err := s.cipher.Seal(*key)
	if err != nil {
		return nil, err
	}
	return &sealed, nil
}

func (s *Store) open(row *models.ModelConfig) error {
	if row.APIKey == nil {
		return nil
	}
	plain, err := s.cipher.Open(*row.APIKey)
	if err != nil {
		return err
	}
	row.APIKey = &plain
	return nil
}

func nullable(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

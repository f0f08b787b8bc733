package repository

import (
	"context"
	"errors"

	"github.com/sandeepkv93/shophub-client/internal/domain"
	"github.com/sandeepkv93/shophub-client/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrStateNotFound = errors.New("state entry not found")

type StateRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type GormStateRepository struct{ db *gorm.DB }

func NewStateRepository(db *gorm.DB) StateRepository { return &GormStateRepository{db: db} }

func (r *GormStateRepository) Get(ctx context.Context, key string) (string, error) {
	var e domain.StateEntry
	err := r.db.WithContext(ctx).Where("state_key = ?", key).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(ctx, "gorm", "get", "not_found")
			return "", ErrStateNotFound
		}
		observability.RecordRepositoryOperation(ctx, "gorm", "get", "error")
		return "", err
	}
	observability.RecordRepositoryOperation(ctx, "gorm", "get", "success")
	return e.Value, nil
}

func (r *GormStateRepository) Set(ctx context.Context, key, value string) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "state_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&domain.StateEntry{Key: key, Value: value}).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "gorm", "set", "error")
		return err
	}
	observability.RecordRepositoryOperation(ctx, "gorm", "set", "success")
	return nil
}

func (r *GormStateRepository) Delete(ctx context.Context, key string) error {
	err := r.db.WithContext(ctx).Where("state_key = ?", key).Delete(&domain.StateEntry{}).Error
	if err != nil {
		observability.RecordRepositoryOperation(ctx, "gorm", "delete", "error")
		return err
	}
	observability.RecordRepositoryOperation(ctx, "gorm", "delete", "success")
	return nil
}

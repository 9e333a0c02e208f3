package repository

import (
	"time"

	"optiledger-backend/internal/ingest/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormFailureRepository implements FailureRepository using GORM
type gormFailureRepository struct {
	db *gorm.DB
}

// NewGormFailureRepository creates a new GORM-based FailureRepository
func NewGormFailureRepository(db *gorm.DB) FailureRepository {
	db.AutoMigrate(&domain.IngestFailure{})
	return &gormFailureRepository{db: db}
}

func (r *gormFailureRepository) Create(failure *domain.IngestFailure) error {
	if failure.ID == "" {
		failure.ID = uuid.New().String()
	}
	if failure.CreatedAt.IsZero() {
		failure.CreatedAt = time.Now()
	}
	return r.db.Create(failure).Error
}

func (r *gormFailureRepository) ListByAccount(accountID string, kind *domain.FailureKind, limit, offset int) ([]*domain.IngestFailure, int64, error) {
	var failures []*domain.IngestFailure
	var total int64

	query := r.db.Model(&domain.IngestFailure{}).Where("account_id = ?", accountID)
	if kind != nil {
		query = query.Where("kind = ?", *kind)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&failures).Error
	return failures, total, err
}

package repository

import (
	"errors"
	"fmt"
	"time"

	"optiledger-backend/internal/catalog/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormCatalogRepository implements CatalogRepository using GORM
type gormCatalogRepository struct {
	db *gorm.DB
}

// NewGormCatalogRepository creates a new GORM-based CatalogRepository
func NewGormCatalogRepository(db *gorm.DB) CatalogRepository {
	db.AutoMigrate(&domain.CatalogEntry{})
	return &gormCatalogRepository{db: db}
}

func (r *gormCatalogRepository) FindVariant(vendorID, model, colorCode string, eyeSize int) (*domain.CatalogEntry, error) {
	var entry domain.CatalogEntry
	err := r.db.Where("vendor_id = ? AND model = ? AND color_code = ? AND eye_size = ?",
		vendorID, model, colorCode, eyeSize).First(&entry).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *gormCatalogRepository) List(vendorID string, limit, offset int) ([]*domain.CatalogEntry, int64, error) {
	var entries []*domain.CatalogEntry
	var total int64

	query := r.db.Model(&domain.CatalogEntry{})
	if vendorID != "" {
		query = query.Where("vendor_id = ?", vendorID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("last_updated DESC").Limit(limit).Offset(offset).Find(&entries).Error
	return entries, total, err
}

// Upsert resolves the variant key to one row. Concurrent first observations
// of the same variant can both miss the lookup; the losing insert surfaces as
// a duplicate-key error and is retried as a merge.
func (r *gormCatalogRepository) Upsert(entry *domain.CatalogEntry) (*domain.CatalogEntry, error) {
	existing, err := r.FindVariant(entry.VendorID, entry.Model, entry.ColorCode, entry.EyeSize)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		if entry.ID == "" {
			entry.ID = uuid.New().String()
		}
		now := time.Now()
		entry.CreatedAt = now
		entry.LastUpdated = now
		err := r.db.Create(entry).Error
		if err == nil {
			return entry, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("create catalog entry: %w", err)
		}
		existing, err = r.FindVariant(entry.VendorID, entry.Model, entry.ColorCode, entry.EyeSize)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, fmt.Errorf("catalog entry vanished after duplicate key on %s %s", entry.VendorID, entry.Model)
		}
	}

	if existing.Merge(entry) {
		existing.LastUpdated = time.Now()
		if err := r.db.Save(existing).Error; err != nil {
			return nil, fmt.Errorf("update catalog entry: %w", err)
		}
	}
	return existing, nil
}

func (r *gormCatalogRepository) IncrementTimesOrdered(id string) error {
	return r.db.Model(&domain.CatalogEntry{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"times_ordered": gorm.Expr("times_ordered + ?", 1),
			"last_updated":  time.Now(),
		}).Error
}

package usecase

import (
	"errors"

	"optiledger-backend/internal/catalog/domain"
	"optiledger-backend/internal/catalog/repository"
)

type catalogUsecase struct {
	repo repository.CatalogRepository
}

// NewCatalogUsecase creates a new instance of CatalogUsecase
func NewCatalogUsecase(repo repository.CatalogRepository) CatalogUsecase {
	return &catalogUsecase{repo: repo}
}

func (u *catalogUsecase) ListEntries(vendorID string, limit, offset int) ([]*domain.CatalogEntry, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return u.repo.List(vendorID, limit, offset)
}

func (u *catalogUsecase) FindVariant(vendorID, model, colorCode string, eyeSize int) (*domain.CatalogEntry, error) {
	if model == "" {
		return nil, errors.New("model is required")
	}
	return u.repo.FindVariant(vendorID, model, colorCode, eyeSize)
}

package repository

import (
	"time"

	vendordomain "optiledger-backend/internal/vendors/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// patternRepository implements PatternRepository using GORM
type patternRepository struct {
	db *gorm.DB
}

// NewPatternRepository creates a new instance of patternRepository
func NewPatternRepository(db *gorm.DB) PatternRepository {
	db.AutoMigrate(&vendordomain.VendorPattern{})
	return &patternRepository{db: db}
}

func (r *patternRepository) FindActive() ([]vendordomain.VendorPattern, error) {
	var patterns []vendordomain.VendorPattern
	err := r.db.Where("active = ?", true).Order("vendor_id ASC").Find(&patterns).Error
	return patterns, err
}

func (r *patternRepository) FindByVendorID(vendorID string) (*vendordomain.VendorPattern, error) {
	var pattern vendordomain.VendorPattern
	err := r.db.Where("vendor_id = ?", vendorID).First(&pattern).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &pattern, nil
}

func (r *patternRepository) Upsert(pattern *vendordomain.VendorPattern) error {
	existing, err := r.FindByVendorID(pattern.VendorID)
	if err != nil {
		return err
	}

	now := time.Now()
	if existing == nil {
		if pattern.ID == "" {
			pattern.ID = uuid.New().String()
		}
		pattern.CreatedAt = now
		pattern.UpdatedAt = now
		return r.db.Create(pattern).Error
	}

	pattern.ID = existing.ID
	pattern.CreatedAt = existing.CreatedAt
	pattern.UpdatedAt = now
	return r.db.Save(pattern).Error
}

// SeedDefaults inserts the built-in vendor patterns, skipping any vendor an
// administrator has already configured.
func (r *patternRepository) SeedDefaults() error {
	for _, p := range defaultPatterns() {
		existing, err := r.FindByVendorID(p.VendorID)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		p.ID = uuid.New().String()
		p.CreatedAt = time.Now()
		p.UpdatedAt = p.CreatedAt
		if err := r.db.Create(&p).Error; err != nil {
			return err
		}
	}
	return nil
}

func defaultPatterns() []vendordomain.VendorPattern {
	return []vendordomain.VendorPattern{
		{
			VendorID:             vendordomain.VendorSafilo,
			DisplayName:          "Safilo USA",
			Tier1Domains:         vendordomain.StringArray{"safilo.com", "mysafilo.com", "email.safilo.com"},
			Tier2Signatures:      vendordomain.StringArray{"mysafilo.com", "Safilo USA", "SAFILO Order"},
			Tier3SubjectKeywords: vendordomain.StringArray{"safilo", "your receipt for order"},
			Tier3BodyKeywords:    vendordomain.StringArray{"carrera", "polaroid", "kate spade", "safilo"},
			Tier3RequiredMatches: 2,
			Tier1Weight:          95,
			Tier2Weight:          85,
			Tier3Weight:          60,
			EnrichmentCapable:    true,
			PublicPricing:        true,
			Active:               true,
		},
		{
			VendorID:             vendordomain.VendorLuxottica,
			DisplayName:          "Luxottica",
			Tier1Domains:         vendordomain.StringArray{"luxottica.com", "my.luxottica.com", "luxotticaretail.com"},
			Tier2Signatures:      vendordomain.StringArray{"my.luxottica.com", "Luxottica Group"},
			Tier3SubjectKeywords: vendordomain.StringArray{"luxottica", "order acknowledgement"},
			Tier3BodyKeywords:    vendordomain.StringArray{"ray-ban", "oakley", "vogue eyewear", "luxottica"},
			Tier3RequiredMatches: 2,
			Tier1Weight:          95,
			Tier2Weight:          85,
			Tier3Weight:          60,
			Active:               true,
		},
		{
			VendorID:             vendordomain.VendorModernOptical,
			DisplayName:          "Modern Optical International",
			Tier1Domains:         vendordomain.StringArray{"modernoptical.com"},
			Tier2Signatures:      vendordomain.StringArray{"Modern Optical International", "modernoptical.com"},
			Tier3SubjectKeywords: vendordomain.StringArray{"modern optical", "order confirmation"},
			Tier3BodyKeywords:    vendordomain.StringArray{"modern optical", "b.m.e.c.", "modz"},
			Tier3RequiredMatches: 2,
			Tier1Weight:          95,
			Tier2Weight:          85,
			Tier3Weight:          60,
			Active:               true,
		},
		{
			VendorID:             vendordomain.VendorEuropa,
			DisplayName:          "Europa International",
			Tier1Domains:         vendordomain.StringArray{"europaeye.com"},
			Tier2Signatures:      vendordomain.StringArray{"Europa International", "europaeye.com"},
			Tier3SubjectKeywords: vendordomain.StringArray{"europa", "order confirmation"},
			Tier3BodyKeywords:    vendordomain.StringArray{"europa", "scott harris", "cinzia"},
			Tier3RequiredMatches: 2,
			Tier1Weight:          95,
			Tier2Weight:          85,
			Tier3Weight:          60,
			Active:               true,
		},
		{
			VendorID:             vendordomain.VendorMarchon,
			DisplayName:          "Marchon Eyewear",
			Tier1Domains:         vendordomain.StringArray{"marchon.com"},
			Tier2Signatures:      vendordomain.StringArray{"Marchon Eyewear", "marchon.com"},
			Tier3SubjectKeywords: vendordomain.StringArray{"marchon", "order confirmation"},
			Tier3BodyKeywords:    vendordomain.StringArray{"flexon", "marchon", "nike vision"},
			Tier3RequiredMatches: 2,
			Tier1Weight:          95,
			Tier2Weight:          85,
			Tier3Weight:          60,
			Active:               true,
		},
	}
}

package usecase

import (
	"context"
	"log"
	"sync"
	"time"

	vendordomain "optiledger-backend/internal/vendors/domain"
	"optiledger-backend/internal/vendors/repository"
)

// PatternStore owns the read-mostly vendor pattern cache. It hands out
// immutable snapshot copies; readers never block on a refresh, they just
// keep whatever snapshot they already hold.
type PatternStore struct {
	repo     repository.PatternRepository
	interval time.Duration

	mu       sync.RWMutex
	snapshot []vendordomain.VendorPattern
}

// NewPatternStore creates a PatternStore and performs the initial load.
func NewPatternStore(repo repository.PatternRepository, interval time.Duration) (*PatternStore, error) {
	s := &PatternStore{
		repo:     repo,
		interval: interval,
	}
	if err := s.Refresh(); err != nil {
		return nil, err
	}
	return s, nil
}

// Start launches the background refresh loop. It returns immediately; the
// loop stops when ctx is cancelled.
func (s *PatternStore) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.Refresh(); err != nil {
					// keep serving the last good snapshot
					log.Printf("[PatternStore] refresh failed: %v", err)
				}
			}
		}
	}()
}

// Refresh reloads the snapshot from the repository.
func (s *PatternStore) Refresh() error {
	patterns, err := s.repo.FindActive()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.snapshot = patterns
	s.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the current pattern set. Callers may hold it
// for the duration of one ingestion without further synchronization.
func (s *PatternStore) Snapshot() []vendordomain.VendorPattern {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]vendordomain.VendorPattern, len(s.snapshot))
	copy(out, s.snapshot)
	return out
}

// Update applies an administrative pattern change and refreshes the
// snapshot immediately so the next ingestion sees it.
func (s *PatternStore) Update(pattern *vendordomain.VendorPattern) error {
	if err := s.repo.Upsert(pattern); err != nil {
		return err
	}
	return s.Refresh()
}

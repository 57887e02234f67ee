// Package repository persists one MatchSignals record per member.
package repository

import (
	"context"

	"github.com/okian/affinity/internal/domain/model"
)

// Store provides read/write access to stored match signals.
type Store interface {
	// Upsert inserts or wholly replaces the record for s.UserID and stamps
	// UpdatedAt. The last writer wins. It returns the stored record.
	Upsert(ctx context.Context, s model.MatchSignals) (model.MatchSignals, error)

	// Get returns the record for userID or ErrNotFound.
	Get(ctx context.Context, userID string) (model.MatchSignals, error)

	// List returns up to limit records ordered by user id. limit <= 0
	// returns every record.
	List(ctx context.Context, limit int) ([]model.MatchSignals, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	Close() error
}

// clone deep-copies s so stored records never alias caller memory.
func clone(s model.MatchSignals) model.MatchSignals {
	cp := s
	cp.SupplyTags = append([]string{}, s.SupplyTags...)
	cp.DemandTags = append([]string{}, s.DemandTags...)
	cp.ICPTags = append([]string{}, s.ICPTags...)
	cp.GeoTags = append([]string{}, s.GeoTags...)
	cp.StageTags = append([]string{}, s.StageTags...)
	cp.OptOutIDs = append([]string{}, s.OptOutIDs...)
	cp.NumericFeatures = make(map[string]float64, len(s.NumericFeatures))
	for k, v := range s.NumericFeatures {
		cp.NumericFeatures[k] = v
	}
	cp.TrustSignals.VerifiedLinks = make(map[string]model.VerifiedLink, len(s.TrustSignals.VerifiedLinks))
	for k, v := range s.TrustSignals.VerifiedLinks {
		cp.TrustSignals.VerifiedLinks[k] = v
	}
	return cp
}

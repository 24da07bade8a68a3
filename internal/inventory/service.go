// Package inventory computes the stock ageing report.
//
// Ageing uses whole-lot bucket assignment: each inward lot (a purchase or
// a sales return) lands entirely in the bucket matching its age. This is
// deliberately not a FIFO consumption model; outward movements reduce the
// current balance but do not consume specific lots.
package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/bahikhata/bahikhata/internal/tenant"
)

// RepositoryPort defines the read-only inventory data access.
type RepositoryPort interface {
	ListPositions(ctx context.Context, scope tenant.Scope, filter Filter) ([]Position, error)
	ListInwardLots(ctx context.Context, scope tenant.Scope, filter Filter) ([]Lot, error)
}

// Service builds inventory ageing reports.
type Service struct {
	repo RepositoryPort
	now  func() time.Time
}

// NewService builds the inventory service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithNow overrides the service clock for tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Ageing computes the ageing report for every stock-item × godown pair in
// scope.
func (s *Service) Ageing(ctx context.Context, scope tenant.Scope, filter Filter) ([]ItemAgeing, error) {
	if filter.AsOf.IsZero() {
		filter.AsOf = s.now()
	}
	positions, err := s.repo.ListPositions(ctx, scope, filter)
	if err != nil {
		return nil, err
	}
	lots, err := s.repo.ListInwardLots(ctx, scope, filter)
	if err != nil {
		return nil, err
	}
	return BuildAgeing(positions, lots, filter.AsOf), nil
}

type pairKey struct {
	item, godown int64
}

// BuildAgeing partitions inward lots into age buckets per item/godown
// pair. A balance with no inward lots (pure opening stock) ages entirely
// into the >180 bucket.
func BuildAgeing(positions []Position, lots []Lot, asOf time.Time) []ItemAgeing {
	byPair := make(map[pairKey][]Lot)
	for _, lot := range lots {
		key := pairKey{lot.ItemID, lot.GodownID}
		byPair[key] = append(byPair[key], lot)
	}

	out := make([]ItemAgeing, 0, len(positions))
	for _, pos := range positions {
		row := ItemAgeing{Position: pos, CurrentBalance: pos.Current()}
		pairLots := byPair[pairKey{pos.ItemID, pos.GodownID}]
		if len(pairLots) == 0 {
			if row.CurrentBalance != 0 {
				row.Buckets.Over180 = row.CurrentBalance
			}
			out = append(out, row)
			continue
		}
		for _, lot := range pairLots {
			addToBucket(&row.Buckets, ageDays(lot.ReceivedDate, asOf), lot.Quantity)
		}
		out = append(out, row)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ItemName != out[j].ItemName {
			return out[i].ItemName < out[j].ItemName
		}
		return out[i].GodownName < out[j].GodownName
	})
	return out
}

// ageDays counts whole days between receipt and the report date.
func ageDays(received, asOf time.Time) int {
	return int(asOf.Sub(received).Hours() / 24)
}

func addToBucket(b *Buckets, days int, qty float64) {
	switch {
	case days <= 30:
		b.UpTo30 += qty
	case days <= 60:
		b.UpTo60 += qty
	case days <= 90:
		b.UpTo90 += qty
	case days <= 180:
		b.UpTo180 += qty
	default:
		b.Over180 += qty
	}
}

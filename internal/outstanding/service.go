// Package outstanding builds the bill-wise receivables and payables
// reports: open bills, overdue ageing and risk classification.
package outstanding

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/bahikhata/bahikhata/internal/shared"
	"github.com/bahikhata/bahikhata/internal/tenant"
)

// RepositoryPort defines the read-only bill data access.
type RepositoryPort interface {
	ListBills(ctx context.Context, scope tenant.Scope, filter Filter) ([]Bill, error)
}

// Service computes outstanding reports.
type Service struct {
	repo RepositoryPort
	now  func() time.Time
}

// NewService builds the outstanding service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithNow overrides the service clock for tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Report returns the open bills for one side, bucketed and risk-classified.
func (s *Service) Report(ctx context.Context, scope tenant.Scope, filter Filter) ([]Row, error) {
	if !filter.Side.Valid() {
		return nil, fmt.Errorf("%w: side must be receivable or payable", shared.ErrValidation)
	}
	if filter.AsOf.IsZero() {
		filter.AsOf = s.now()
	}
	bills, err := s.repo.ListBills(ctx, scope, filter)
	if err != nil {
		return nil, err
	}
	rows := BuildRows(bills, filter.AsOf)
	SortRows(rows, filter.SortBy, filter.Desc)
	return rows, nil
}

// Summary computes both sides concurrently.
func (s *Service) Summary(ctx context.Context, scope tenant.Scope, asOf time.Time) (Summary, error) {
	if asOf.IsZero() {
		asOf = s.now()
	}
	out := Summary{AsOf: asOf}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.Report(ctx, scope, Filter{Side: SideReceivable, AsOf: asOf})
		if err != nil {
			return err
		}
		out.Receivable = summarize(SideReceivable, rows)
		return nil
	})
	g.Go(func() error {
		rows, err := s.Report(ctx, scope, Filter{Side: SidePayable, AsOf: asOf})
		if err != nil {
			return err
		}
		out.Payable = summarize(SidePayable, rows)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}
	return out, nil
}

// BuildRows derives outstanding, overdue days, bucket and risk per bill.
func BuildRows(bills []Bill, asOf time.Time) []Row {
	rows := make([]Row, 0, len(bills))
	for _, b := range bills {
		days := b.OverdueDays(asOf)
		open := b.Outstanding()
		rows = append(rows, Row{
			Bill:        b,
			Outstanding: open,
			OverdueDays: days,
			AgeBucket:   BucketFor(days),
			Risk:        RiskFor(days, open),
		})
	}
	return rows
}

// SortRows orders the report stably by the requested key. Party names sort
// with Unicode collation so accented names land where a human expects.
func SortRows(rows []Row, sortBy string, desc bool) {
	var less func(a, b Row) bool
	switch sortBy {
	case SortByOverdueDays:
		less = func(a, b Row) bool { return a.OverdueDays < b.OverdueDays }
	case SortByPartyName:
		coll := collate.New(language.Und, collate.IgnoreCase)
		less = func(a, b Row) bool { return coll.CompareString(a.PartyName, b.PartyName) < 0 }
	case SortByDate:
		less = func(a, b Row) bool { return a.Date.Before(b.Date) }
	default: // SortByAmount
		less = func(a, b Row) bool { return a.Outstanding < b.Outstanding }
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if desc {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})
}

func summarize(side Side, rows []Row) SideSummary {
	sum := SideSummary{Side: side, BillCount: len(rows)}
	for _, row := range rows {
		sum.TotalOutstanding += row.Outstanding
		if row.OverdueDays > 0 {
			sum.TotalOverdue += row.Outstanding
		}
		switch row.AgeBucket {
		case "0-30":
			sum.Buckets.UpTo30 += row.Outstanding
		case "31-60":
			sum.Buckets.UpTo60 += row.Outstanding
		case "61-90":
			sum.Buckets.UpTo90 += row.Outstanding
		default:
			sum.Buckets.Over90 += row.Outstanding
		}
	}
	return sum
}

// Package reports builds the trial balance by rolling ledger balances up
// the group tree to its roots.
package reports

import (
	"context"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/bahikhata/bahikhata/internal/ledger"
	"github.com/bahikhata/bahikhata/internal/tenant"
)

// RepositoryPort defines the read-only data access for reports.
type RepositoryPort interface {
	ListLedgerTotals(ctx context.Context, scope tenant.Scope, asOf time.Time) ([]LedgerTotal, error)
}

// GroupPort supplies the ledger-group tree. The ledger repository
// satisfies it.
type GroupPort interface {
	ListGroups(ctx context.Context, scope tenant.Scope) ([]ledger.Group, error)
}

// Service computes and caches trial balances.
type Service struct {
	repo   RepositoryPort
	groups GroupPort
	cache  *Cache
	sf     singleflight.Group
	now    func() time.Time
}

// NewService builds the reports service. cache may be nil.
func NewService(repo RepositoryPort, groups GroupPort, cache *Cache) *Service {
	return &Service{repo: repo, groups: groups, cache: cache, now: time.Now}
}

// WithNow overrides the service clock for tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// TrialBalance returns the report as of the date, serving concurrent
// identical requests from a single build.
func (s *Service) TrialBalance(ctx context.Context, scope tenant.Scope, asOf time.Time) (TrialBalance, error) {
	if asOf.IsZero() {
		asOf = s.now()
	}
	key := cacheKey(scope, "trial-balance", asOf)

	var cached TrialBalance
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	v, err, _ := s.sf.Do(key, func() (any, error) {
		totals, err := s.repo.ListLedgerTotals(ctx, scope, asOf)
		if err != nil {
			return TrialBalance{}, err
		}
		groups, err := s.groups.ListGroups(ctx, scope)
		if err != nil {
			return TrialBalance{}, err
		}
		tb := BuildTrialBalance(totals, groups, asOf)
		s.cache.Set(ctx, key, tb)
		return tb, nil
	})
	if err != nil {
		return TrialBalance{}, err
	}
	return v.(TrialBalance), nil
}

// BuildTrialBalance rolls each ledger's signed balance up to its root
// group. Debit-leaning balances land in the debit column, credit-leaning in
// the credit column; the two are never netted against each other across
// ledgers.
func BuildTrialBalance(totals []LedgerTotal, groups []ledger.Group, asOf time.Time) TrialBalance {
	byID := make(map[int64]ledger.Group, len(groups))
	for _, g := range groups {
		byID[g.ID] = g
	}

	rowByRoot := make(map[int64]*GroupRow)
	tb := TrialBalance{AsOf: asOf}
	for _, t := range totals {
		net := t.Net()
		if net == 0 {
			continue
		}
		root := rootGroup(byID, t.GroupID)
		row, ok := rowByRoot[root.ID]
		if !ok {
			row = &GroupRow{GroupID: root.ID, GroupName: root.Name, Nature: root.Nature}
			rowByRoot[root.ID] = row
		}
		if net > 0 {
			row.Debit += net
			tb.TotalDebit += net
		} else {
			row.Credit += -net
			tb.TotalCredit += -net
		}
	}

	tb.Rows = make([]GroupRow, 0, len(rowByRoot))
	for _, row := range rowByRoot {
		tb.Rows = append(tb.Rows, *row)
	}
	sort.Slice(tb.Rows, func(i, j int) bool { return tb.Rows[i].GroupName < tb.Rows[j].GroupName })

	tb.Difference = tb.TotalDebit - tb.TotalCredit
	tb.Balanced = math.Abs(tb.Difference) <= balanceTolerance
	return tb
}

// rootGroup walks parent pointers to the top of the tree. Ledgers pointing
// at an unknown group get a synthetic "Ungrouped" root so they still show
// up instead of silently vanishing from the report.
func rootGroup(byID map[int64]ledger.Group, groupID int64) ledger.Group {
	g, ok := byID[groupID]
	if !ok {
		return ledger.Group{ID: 0, Name: "Ungrouped"}
	}
	for depth := 0; depth < 64; depth++ {
		parent, ok := byID[g.ParentID]
		if !ok || g.ParentID == 0 {
			return g
		}
		g = parent
	}
	return g
}

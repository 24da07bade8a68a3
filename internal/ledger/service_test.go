package ledger

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bahikhata/bahikhata/internal/shared"
	"github.com/bahikhata/bahikhata/internal/tenant"
)

var testScope = tenant.Scope{CompanyID: 1, OwnerType: "user", OwnerID: 1}

type memoryLedgerRepo struct {
	ledgers map[int64]Ledger
	entries map[int64][]Entry // keyed by ledger id
}

func newMemoryLedgerRepo() *memoryLedgerRepo {
	return &memoryLedgerRepo{
		ledgers: make(map[int64]Ledger),
		entries: make(map[int64][]Entry),
	}
}

func (r *memoryLedgerRepo) GetLedger(ctx context.Context, scope tenant.Scope, id int64) (Ledger, error) {
	led, ok := r.ledgers[id]
	if !ok {
		return Ledger{}, fmt.Errorf("%w: ledger %d", shared.ErrNotFound, id)
	}
	return led, nil
}

func (r *memoryLedgerRepo) ListLedgers(ctx context.Context, scope tenant.Scope) ([]Ledger, error) {
	var out []Ledger
	for _, l := range r.ledgers {
		out = append(out, l)
	}
	return out, nil
}

func (r *memoryLedgerRepo) ListGroups(ctx context.Context, scope tenant.Scope) ([]Group, error) {
	return nil, nil
}

func (r *memoryLedgerRepo) sorted(ledgerID int64) []Entry {
	entries := append([]Entry(nil), r.entries[ledgerID]...)
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.VoucherID != b.VoucherID {
			return a.VoucherID < b.VoucherID
		}
		return a.EntryID < b.EntryID
	})
	return entries
}

func (r *memoryLedgerRepo) NetBefore(ctx context.Context, scope tenant.Scope, ledgerID int64, before time.Time) (float64, float64, error) {
	var debit, credit float64
	for _, e := range r.entries[ledgerID] {
		if e.Date.Before(before) {
			if e.EntryType == "debit" {
				debit += e.Amount
			} else {
				credit += e.Amount
			}
		}
	}
	return debit, credit, nil
}

func (r *memoryLedgerRepo) EntriesBetween(ctx context.Context, scope tenant.Scope, ledgerID int64, from, to time.Time) ([]Entry, error) {
	var out []Entry
	for _, e := range r.sorted(ledgerID) {
		if !e.Date.Before(from) && !e.Date.After(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memoryLedgerRepo) EntryDateBounds(ctx context.Context, scope tenant.Scope, ledgerID int64) (time.Time, time.Time, bool, error) {
	entries := r.sorted(ledgerID)
	if len(entries) == 0 {
		return time.Time{}, time.Time{}, false, nil
	}
	return entries[0].Date, entries[len(entries)-1].Date, true, nil
}

func day(d int) time.Time {
	return time.Date(2026, 4, d, 0, 0, 0, 0, time.UTC)
}

func TestStatementRunningBalance(t *testing.T) {
	repo := newMemoryLedgerRepo()
	repo.ledgers[1] = Ledger{ID: 1, Name: "Cash", OpeningBalance: 100, BalanceType: BalanceDebit}
	repo.entries[1] = []Entry{
		{EntryID: 1, VoucherID: 10, Date: day(2), EntryType: "debit", Amount: 500},
		{EntryID: 2, VoucherID: 11, Date: day(5), EntryType: "credit", Amount: 200},
		{EntryID: 3, VoucherID: 12, Date: day(9), EntryType: "debit", Amount: 50},
	}
	svc := NewService(repo)

	st, err := svc.Statement(context.Background(), testScope, StatementFilter{
		LedgerID: 1, From: day(1), To: day(30),
	})
	require.NoError(t, err)
	require.Equal(t, 100.0, st.OpeningBalance)
	require.Len(t, st.Rows, 3)
	require.Equal(t, 600.0, st.Rows[0].Balance)
	require.Equal(t, 400.0, st.Rows[1].Balance)
	require.Equal(t, 450.0, st.Rows[2].Balance)
	require.Equal(t, 450.0, st.ClosingBalance)
}

func TestStatementOpeningAdjustsForPriorEntries(t *testing.T) {
	repo := newMemoryLedgerRepo()
	repo.ledgers[1] = Ledger{ID: 1, Name: "Party", OpeningBalance: 1000, BalanceType: BalanceDebit}
	repo.entries[1] = []Entry{
		{EntryID: 1, VoucherID: 5, Date: day(1), EntryType: "credit", Amount: 300},
		{EntryID: 2, VoucherID: 6, Date: day(10), EntryType: "debit", Amount: 100},
	}
	svc := NewService(repo)

	st, err := svc.Statement(context.Background(), testScope, StatementFilter{
		LedgerID: 1, From: day(5), To: day(30),
	})
	require.NoError(t, err)
	// Opening carries the pre-window net: 1000 + (0 - 300).
	require.Equal(t, 700.0, st.OpeningBalance)
	require.Equal(t, 800.0, st.ClosingBalance)
}

func TestStatementCreditLedgerSignConvention(t *testing.T) {
	repo := newMemoryLedgerRepo()
	repo.ledgers[1] = Ledger{ID: 1, Name: "Supplier", OpeningBalance: 500, BalanceType: BalanceCredit}
	repo.entries[1] = []Entry{
		{EntryID: 1, VoucherID: 5, Date: day(1), EntryType: "credit", Amount: 200},
	}
	svc := NewService(repo)

	st, err := svc.Statement(context.Background(), testScope, StatementFilter{
		LedgerID: 1, From: day(5), To: day(30),
	})
	require.NoError(t, err)
	// Credit-type ledger: pre-window net of -200 increases the balance.
	require.Equal(t, 700.0, st.OpeningBalance)
}

func TestStatementAutoDerivesWindow(t *testing.T) {
	repo := newMemoryLedgerRepo()
	repo.ledgers[1] = Ledger{ID: 1, Name: "Cash", OpeningBalance: 0, BalanceType: BalanceDebit}
	repo.entries[1] = []Entry{
		{EntryID: 1, VoucherID: 1, Date: day(3), EntryType: "debit", Amount: 10},
		{EntryID: 2, VoucherID: 2, Date: day(20), EntryType: "debit", Amount: 15},
	}
	svc := NewService(repo)

	st, err := svc.Statement(context.Background(), testScope, StatementFilter{LedgerID: 1})
	require.NoError(t, err)
	require.Equal(t, day(3), st.From)
	require.Equal(t, day(20), st.To)
	require.Equal(t, 25.0, st.ClosingBalance)
}

func TestStatementEmptyLedgerReturnsBaseline(t *testing.T) {
	repo := newMemoryLedgerRepo()
	repo.ledgers[1] = Ledger{ID: 1, Name: "Dormant", OpeningBalance: 42, BalanceType: BalanceDebit}
	svc := NewService(repo)

	st, err := svc.Statement(context.Background(), testScope, StatementFilter{LedgerID: 1})
	require.NoError(t, err)
	require.Equal(t, 42.0, st.OpeningBalance)
	require.Equal(t, 42.0, st.ClosingBalance)
	require.Empty(t, st.Rows)
}

func TestStatementRecomputationIsIdempotent(t *testing.T) {
	repo := newMemoryLedgerRepo()
	repo.ledgers[1] = Ledger{ID: 1, Name: "Cash", OpeningBalance: 10, BalanceType: BalanceDebit}
	repo.entries[1] = []Entry{
		{EntryID: 1, VoucherID: 1, Date: day(1), EntryType: "debit", Amount: 5},
		{EntryID: 2, VoucherID: 2, Date: day(2), EntryType: "credit", Amount: 3},
		{EntryID: 3, VoucherID: 2, Date: day(2), EntryType: "debit", Amount: 8},
	}
	svc := NewService(repo)

	filter := StatementFilter{LedgerID: 1, From: day(1), To: day(28)}
	first, err := svc.Statement(context.Background(), testScope, filter)
	require.NoError(t, err)
	second, err := svc.Statement(context.Background(), testScope, filter)
	require.NoError(t, err)
	require.Equal(t, first.ClosingBalance, second.ClosingBalance)
	require.Equal(t, first.Rows, second.Rows)
}

func TestStatementSyntheticRows(t *testing.T) {
	repo := newMemoryLedgerRepo()
	repo.ledgers[1] = Ledger{ID: 1, Name: "Cash", OpeningBalance: 10, BalanceType: BalanceDebit}
	repo.entries[1] = []Entry{
		{EntryID: 1, VoucherID: 1, Date: day(2), EntryType: "debit", Amount: 5},
	}
	svc := NewService(repo)

	st, err := svc.Statement(context.Background(), testScope, StatementFilter{
		LedgerID: 1, From: day(1), To: day(28), IncludeOpening: true, IncludeClosing: true,
	})
	require.NoError(t, err)
	require.Len(t, st.Rows, 3)
	require.Equal(t, "Opening Balance", st.Rows[0].Narration)
	require.Equal(t, 10.0, st.Rows[0].Balance)
	require.Equal(t, "Closing Balance", st.Rows[2].Narration)
	require.Equal(t, 15.0, st.Rows[2].Balance)
}

func TestStatementUnknownLedger(t *testing.T) {
	svc := NewService(newMemoryLedgerRepo())
	_, err := svc.Statement(context.Background(), testScope, StatementFilter{LedgerID: 99})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

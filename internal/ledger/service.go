package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/bahikhata/bahikhata/internal/shared"
	"github.com/bahikhata/bahikhata/internal/tenant"
)

// StatementFilter selects the window and synthetic rows for a statement.
// Zero From/To auto-derive the window from the ledger's actual first and
// last transaction dates.
type StatementFilter struct {
	LedgerID       int64
	From           time.Time
	To             time.Time
	IncludeOpening bool
	IncludeClosing bool
}

// Service projects ledger statements from posted voucher entries.
type Service struct {
	repo RepositoryPort
}

// NewService builds the ledger service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// GetLedger returns a single ledger within the tenant scope.
func (s *Service) GetLedger(ctx context.Context, scope tenant.Scope, id int64) (Ledger, error) {
	return s.repo.GetLedger(ctx, scope, id)
}

// ListLedgers returns all ledgers within the tenant scope.
func (s *Service) ListLedgers(ctx context.Context, scope tenant.Scope) ([]Ledger, error) {
	return s.repo.ListLedgers(ctx, scope)
}

// Statement computes the opening balance, chronological running balance and
// closing balance for a ledger. Recomputing from entries alone always
// reproduces the same closing value; no cached balance is consulted.
func (s *Service) Statement(ctx context.Context, scope tenant.Scope, filter StatementFilter) (Statement, error) {
	if filter.LedgerID == 0 {
		return Statement{}, fmt.Errorf("%w: ledger id required", shared.ErrValidation)
	}
	led, err := s.repo.GetLedger(ctx, scope, filter.LedgerID)
	if err != nil {
		return Statement{}, err
	}

	from, to := filter.From, filter.To
	if from.IsZero() || to.IsZero() {
		first, last, found, err := s.repo.EntryDateBounds(ctx, scope, led.ID)
		if err != nil {
			return Statement{}, err
		}
		if !found {
			// No transactions at all: degrade to baseline values.
			return s.baseline(led, from, to, filter), nil
		}
		if from.IsZero() {
			from = first
		}
		if to.IsZero() {
			to = last
		}
	}

	preDebit, preCredit, err := s.repo.NetBefore(ctx, scope, led.ID, from)
	if err != nil {
		return Statement{}, err
	}
	opening := openingBalance(led, preDebit-preCredit)

	entries, err := s.repo.EntriesBetween(ctx, scope, led.ID, from, to)
	if err != nil {
		return Statement{}, err
	}

	st := Statement{
		LedgerID:       led.ID,
		LedgerName:     led.Name,
		From:           from,
		To:             to,
		OpeningBalance: opening,
	}
	if filter.IncludeOpening {
		st.Rows = append(st.Rows, StatementRow{Date: from, Narration: "Opening Balance", Balance: opening})
	}

	balance := opening
	for _, e := range entries {
		row := StatementRow{
			Date:          e.Date,
			VoucherID:     e.VoucherID,
			VoucherType:   e.VoucherType,
			VoucherNumber: e.VoucherNumber,
			Narration:     e.Narration,
		}
		if e.EntryType == "debit" {
			row.Debit = e.Amount
			balance += e.Amount
		} else {
			row.Credit = e.Amount
			balance -= e.Amount
		}
		row.Balance = balance
		st.Rows = append(st.Rows, row)
	}
	st.ClosingBalance = balance

	if filter.IncludeClosing {
		st.Rows = append(st.Rows, StatementRow{Date: to, Narration: "Closing Balance", Balance: balance})
	}
	return st, nil
}

// openingBalance adjusts the stored opening balance by the net of entries
// dated before the window, honouring the ledger's sign convention.
func openingBalance(led Ledger, preNet float64) float64 {
	if led.BalanceType == BalanceDebit {
		return led.OpeningBalance + preNet
	}
	return led.OpeningBalance - preNet
}

func (s *Service) baseline(led Ledger, from, to time.Time, filter StatementFilter) Statement {
	st := Statement{
		LedgerID:       led.ID,
		LedgerName:     led.Name,
		From:           from,
		To:             to,
		OpeningBalance: led.OpeningBalance,
		ClosingBalance: led.OpeningBalance,
	}
	if filter.IncludeOpening {
		st.Rows = append(st.Rows, StatementRow{Date: from, Narration: "Opening Balance", Balance: led.OpeningBalance})
	}
	if filter.IncludeClosing {
		st.Rows = append(st.Rows, StatementRow{Date: to, Narration: "Closing Balance", Balance: led.OpeningBalance})
	}
	return st
}

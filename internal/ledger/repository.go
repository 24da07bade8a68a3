package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bahikhata/bahikhata/internal/shared"
	"github.com/bahikhata/bahikhata/internal/tenant"
)

// RepositoryPort defines the data access needed by the statement projector.
type RepositoryPort interface {
	GetLedger(ctx context.Context, scope tenant.Scope, id int64) (Ledger, error)
	ListLedgers(ctx context.Context, scope tenant.Scope) ([]Ledger, error)
	ListGroups(ctx context.Context, scope tenant.Scope) ([]Group, error)
	// NetBefore returns total debits and credits strictly before the date.
	NetBefore(ctx context.Context, scope tenant.Scope, ledgerID int64, before time.Time) (debit, credit float64, err error)
	// EntriesBetween returns entries in [from,to] ordered by
	// (date, voucher_id, entry_id). The ordering is the tie-break contract
	// for running balances, not an implementation detail.
	EntriesBetween(ctx context.Context, scope tenant.Scope, ledgerID int64, from, to time.Time) ([]Entry, error)
	// EntryDateBounds returns the first and last transaction dates for the
	// ledger; found is false when the ledger has no entries at all.
	EntryDateBounds(ctx context.Context, scope tenant.Scope, ledgerID int64) (first, last time.Time, found bool, err error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository builds the pgx-backed ledger repository.
func NewRepository(db *pgxpool.Pool) RepositoryPort {
	return &repository{db: db}
}

const ledgerColumns = `id, name, group_id, opening_balance, balance_type, gst_number, state, address, email, phone, COALESCE(credit_days, 0), tax_rate`

func scanLedger(row pgx.Row) (Ledger, error) {
	var l Ledger
	err := row.Scan(&l.ID, &l.Name, &l.GroupID, &l.OpeningBalance, &l.BalanceType,
		&l.GSTNumber, &l.State, &l.Address, &l.Email, &l.Phone, &l.CreditDays, &l.TaxRate)
	return l, err
}

func (r *repository) GetLedger(ctx context.Context, scope tenant.Scope, id int64) (Ledger, error) {
	row := r.db.QueryRow(ctx, `SELECT `+ledgerColumns+` FROM ledgers
WHERE id=$1 AND company_id=$2 AND owner_type=$3 AND owner_id=$4`,
		id, scope.CompanyID, scope.OwnerType, scope.OwnerID)
	l, err := scanLedger(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Ledger{}, fmt.Errorf("%w: ledger %d", shared.ErrNotFound, id)
		}
		return Ledger{}, fmt.Errorf("ledger: get: %w", err)
	}
	return l, nil
}

func (r *repository) ListLedgers(ctx context.Context, scope tenant.Scope) ([]Ledger, error) {
	rows, err := r.db.Query(ctx, `SELECT `+ledgerColumns+` FROM ledgers
WHERE company_id=$1 AND owner_type=$2 AND owner_id=$3 ORDER BY name ASC`,
		scope.CompanyID, scope.OwnerType, scope.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("ledger: list: %w", err)
	}
	defer rows.Close()
	var ledgers []Ledger
	for rows.Next() {
		l, err := scanLedger(rows)
		if err != nil {
			return nil, fmt.Errorf("ledger: scan: %w", err)
		}
		ledgers = append(ledgers, l)
	}
	return ledgers, rows.Err()
}

func (r *repository) ListGroups(ctx context.Context, scope tenant.Scope) ([]Group, error) {
	// System groups (negative IDs) are shared across tenants.
	rows, err := r.db.Query(ctx, `SELECT id, name, type, nature, parent_id FROM ledger_groups
WHERE id < 0 OR (company_id=$1 AND owner_type=$2 AND owner_id=$3) ORDER BY id ASC`,
		scope.CompanyID, scope.OwnerType, scope.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("ledger: list groups: %w", err)
	}
	defer rows.Close()
	var groups []Group
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Type, &g.Nature, &g.ParentID); err != nil {
			return nil, fmt.Errorf("ledger: scan group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (r *repository) NetBefore(ctx context.Context, scope tenant.Scope, ledgerID int64, before time.Time) (float64, float64, error) {
	var debit, credit float64
	err := r.db.QueryRow(ctx, `SELECT
COALESCE(SUM(e.amount) FILTER (WHERE e.entry_type='debit'), 0),
COALESCE(SUM(e.amount) FILTER (WHERE e.entry_type='credit'), 0)
FROM voucher_entries e
JOIN vouchers v ON v.id = e.voucher_id
WHERE e.ledger_id=$1 AND v.date < $2
AND e.company_id=$3 AND e.owner_type=$4 AND e.owner_id=$5`,
		ledgerID, before, scope.CompanyID, scope.OwnerType, scope.OwnerID).Scan(&debit, &credit)
	if err != nil {
		return 0, 0, fmt.Errorf("ledger: net before: %w", err)
	}
	return debit, credit, nil
}

func (r *repository) EntriesBetween(ctx context.Context, scope tenant.Scope, ledgerID int64, from, to time.Time) ([]Entry, error) {
	rows, err := r.db.Query(ctx, `SELECT e.id, v.id, v.kind, v.number, v.date, e.narration, e.entry_type, e.amount
FROM voucher_entries e
JOIN vouchers v ON v.id = e.voucher_id
WHERE e.ledger_id=$1 AND v.date >= $2 AND v.date <= $3
AND e.company_id=$4 AND e.owner_type=$5 AND e.owner_id=$6
ORDER BY v.date ASC, v.id ASC, e.id ASC`,
		ledgerID, from, to, scope.CompanyID, scope.OwnerType, scope.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("ledger: entries: %w", err)
	}
	defer rows.Close()
	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.EntryID, &e.VoucherID, &e.VoucherType, &e.VoucherNumber, &e.Date, &e.Narration, &e.EntryType, &e.Amount); err != nil {
			return nil, fmt.Errorf("ledger: scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *repository) EntryDateBounds(ctx context.Context, scope tenant.Scope, ledgerID int64) (time.Time, time.Time, bool, error) {
	var first, last *time.Time
	err := r.db.QueryRow(ctx, `SELECT MIN(v.date), MAX(v.date)
FROM voucher_entries e
JOIN vouchers v ON v.id = e.voucher_id
WHERE e.ledger_id=$1 AND e.company_id=$2 AND e.owner_type=$3 AND e.owner_id=$4`,
		ledgerID, scope.CompanyID, scope.OwnerType, scope.OwnerID).Scan(&first, &last)
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("ledger: date bounds: %w", err)
	}
	if first == nil || last == nil {
		return time.Time{}, time.Time{}, false, nil
	}
	return *first, *last, true, nil
}

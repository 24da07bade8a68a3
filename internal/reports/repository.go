package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bahikhata/bahikhata/internal/tenant"
)

type repository struct {
	db *pgxpool.Pool
}

// NewRepository builds the pgx-backed reports repository.
func NewRepository(db *pgxpool.Pool) RepositoryPort {
	return &repository{db: db}
}

func (r *repository) ListLedgerTotals(ctx context.Context, scope tenant.Scope, asOf time.Time) ([]LedgerTotal, error) {
	rows, err := r.db.Query(ctx, `SELECT l.id, l.name, l.group_id, l.opening_balance, l.balance_type,
COALESCE(SUM(e.amount) FILTER (WHERE v.id IS NOT NULL AND e.entry_type='debit'), 0),
COALESCE(SUM(e.amount) FILTER (WHERE v.id IS NOT NULL AND e.entry_type='credit'), 0)
FROM ledgers l
LEFT JOIN voucher_entries e ON e.ledger_id = l.id
	AND e.company_id=$1 AND e.owner_type=$2 AND e.owner_id=$3
LEFT JOIN vouchers v ON v.id = e.voucher_id AND v.date <= $4
WHERE l.company_id=$1 AND l.owner_type=$2 AND l.owner_id=$3
GROUP BY l.id, l.name, l.group_id, l.opening_balance, l.balance_type
ORDER BY l.name ASC`,
		scope.CompanyID, scope.OwnerType, scope.OwnerID, asOf)
	if err != nil {
		return nil, fmt.Errorf("reports: ledger totals: %w", err)
	}
	defer rows.Close()
	var totals []LedgerTotal
	for rows.Next() {
		var t LedgerTotal
		if err := rows.Scan(&t.LedgerID, &t.LedgerName, &t.GroupID, &t.OpeningBalance,
			&t.BalanceType, &t.DebitTotal, &t.CreditTotal); err != nil {
			return nil, fmt.Errorf("reports: scan ledger total: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

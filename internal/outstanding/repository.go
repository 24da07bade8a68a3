package outstanding

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bahikhata/bahikhata/internal/tenant"
)

type repository struct {
	db *pgxpool.Pool
}

// NewRepository builds the pgx-backed outstanding repository.
func NewRepository(db *pgxpool.Pool) RepositoryPort {
	return &repository{db: db}
}

// billKind maps the report side to the voucher kind that raises a bill.
func billKind(side Side) string {
	if side == SidePayable {
		return "purchase"
	}
	return "sales"
}

func (r *repository) ListBills(ctx context.Context, scope tenant.Scope, filter Filter) ([]Bill, error) {
	args := []any{scope.CompanyID, scope.OwnerType, scope.OwnerID, billKind(filter.Side), filter.AsOf}
	where := ""
	if filter.PartyID != 0 {
		args = append(args, filter.PartyID)
		where = fmt.Sprintf(" AND v.party_id=$%d", len(args))
	}
	// Paid amount sums settlement entries pointing back at the bill via
	// against_voucher_id, up to the report date.
	rows, err := r.db.Query(ctx, `SELECT v.id, v.number, v.party_id, l.name, v.date,
v.date + make_interval(days => COALESCE(l.credit_days, 0)) AS due_date,
v.total,
COALESCE((SELECT SUM(e.amount) FROM voucher_entries e
	JOIN vouchers pv ON pv.id = e.voucher_id
	WHERE e.against_voucher_id = v.id
	AND pv.kind IN ('payment','receipt','contra','journal')
	AND pv.date <= $5
	AND e.company_id=$1 AND e.owner_type=$2 AND e.owner_id=$3), 0) AS paid
FROM vouchers v
JOIN ledgers l ON l.id = v.party_id
WHERE v.kind = $4 AND v.date <= $5
AND v.company_id=$1 AND v.owner_type=$2 AND v.owner_id=$3`+where+`
ORDER BY v.date ASC, v.id ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("outstanding: list bills: %w", err)
	}
	defer rows.Close()
	var bills []Bill
	for rows.Next() {
		var b Bill
		if err := rows.Scan(&b.VoucherID, &b.VoucherNumber, &b.PartyLedgerID, &b.PartyName,
			&b.Date, &b.DueDate, &b.BillAmount, &b.PaidAmount); err != nil {
			return nil, fmt.Errorf("outstanding: scan bill: %w", err)
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

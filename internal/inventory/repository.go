package inventory

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bahikhata/bahikhata/internal/tenant"
)

// Stock direction per voucher kind. A credit note records a sales return,
// so the goods come back in; a debit note records a purchase return going
// back out.
var (
	inwardKinds  = []string{"purchase", "credit_note"}
	outwardKinds = []string{"sales", "debit_note"}
)

type repository struct {
	db *pgxpool.Pool
}

// NewRepository builds the pgx-backed read-only inventory repository.
func NewRepository(db *pgxpool.Pool) RepositoryPort {
	return &repository{db: db}
}

func (r *repository) ListPositions(ctx context.Context, scope tenant.Scope, filter Filter) ([]Position, error) {
	args := []any{scope.CompanyID, scope.OwnerType, scope.OwnerID, filter.AsOf, inwardKinds, outwardKinds}
	where := ""
	if filter.ItemID != 0 {
		args = append(args, filter.ItemID)
		where += fmt.Sprintf(" AND si.id=$%d", len(args))
	}
	if filter.GodownID != 0 {
		args = append(args, filter.GodownID)
		where += fmt.Sprintf(" AND g.id=$%d", len(args))
	}
	rows, err := r.db.Query(ctx, `SELECT si.id, si.name, g.id, g.name,
COALESCE(ga.opening_quantity, 0),
COALESCE(SUM(vi.quantity) FILTER (WHERE v.kind = ANY($5)), 0) AS inward,
COALESCE(SUM(vi.quantity) FILTER (WHERE v.kind = ANY($6)), 0) AS outward
FROM stock_items si
JOIN godown_allocations ga ON ga.item_id = si.id
JOIN godowns g ON g.id = ga.godown_id
LEFT JOIN voucher_items vi ON vi.item_id = si.id AND vi.godown_id = g.id
	AND vi.company_id=$1 AND vi.owner_type=$2 AND vi.owner_id=$3
LEFT JOIN vouchers v ON v.id = vi.voucher_id AND v.date <= $4
WHERE si.company_id=$1 AND si.owner_type=$2 AND si.owner_id=$3`+where+`
GROUP BY si.id, si.name, g.id, g.name, ga.opening_quantity
ORDER BY si.name ASC, g.name ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("inventory: list positions: %w", err)
	}
	defer rows.Close()
	var positions []Position
	for rows.Next() {
		var p Position
		if err := rows.Scan(&p.ItemID, &p.ItemName, &p.GodownID, &p.GodownName, &p.Opening, &p.Inward, &p.Outward); err != nil {
			return nil, fmt.Errorf("inventory: scan position: %w", err)
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

func (r *repository) ListInwardLots(ctx context.Context, scope tenant.Scope, filter Filter) ([]Lot, error) {
	args := []any{scope.CompanyID, scope.OwnerType, scope.OwnerID, filter.AsOf, inwardKinds}
	where := ""
	if filter.ItemID != 0 {
		args = append(args, filter.ItemID)
		where += fmt.Sprintf(" AND vi.item_id=$%d", len(args))
	}
	if filter.GodownID != 0 {
		args = append(args, filter.GodownID)
		where += fmt.Sprintf(" AND vi.godown_id=$%d", len(args))
	}
	rows, err := r.db.Query(ctx, `SELECT vi.item_id, COALESCE(vi.godown_id, 0), v.date, vi.quantity
FROM voucher_items vi
JOIN vouchers v ON v.id = vi.voucher_id
WHERE v.kind = ANY($5) AND v.date <= $4
AND vi.company_id=$1 AND vi.owner_type=$2 AND vi.owner_id=$3`+where+`
ORDER BY v.date ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("inventory: list lots: %w", err)
	}
	defer rows.Close()
	var lots []Lot
	for rows.Next() {
		var lot Lot
		if err := rows.Scan(&lot.ItemID, &lot.GodownID, &lot.ReceivedDate, &lot.Quantity); err != nil {
			return nil, fmt.Errorf("inventory: scan lot: %w", err)
		}
		lots = append(lots, lot)
	}
	return lots, rows.Err()
}

package voucher

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bahikhata/bahikhata/internal/shared"
	"github.com/bahikhata/bahikhata/internal/tenant"
)

// Repository encapsulates voucher persistence. Multi-statement writes run
// through WithTx so a header is never left without its children.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	GetVoucher(ctx context.Context, scope tenant.Scope, id int64) (Voucher, error)
	ListVouchers(ctx context.Context, scope tenant.Scope, filter ListFilter) ([]Voucher, int, error)
	CompanyState(ctx context.Context, scope tenant.Scope) (string, error)
}

// TxRepository exposes the statements available inside a posting transaction.
type TxRepository interface {
	// NextSequence atomically allocates the next voucher sequence for the
	// tenant + prefix + period. Safe under concurrent posting.
	NextSequence(ctx context.Context, scope tenant.Scope, prefix, period string) (int64, error)
	InsertVoucher(ctx context.Context, scope tenant.Scope, v *Voucher) error
	InsertEntries(ctx context.Context, scope tenant.Scope, voucherID int64, entries []Entry) error
	InsertItems(ctx context.Context, scope tenant.Scope, voucherID int64, items []Item) error
	GetVoucherForUpdate(ctx context.Context, scope tenant.Scope, id int64) (Voucher, error)
	UpdateVoucherHeader(ctx context.Context, scope tenant.Scope, v Voucher) error
	DeleteChildren(ctx context.Context, scope tenant.Scope, voucherID int64) error
	DeleteVoucher(ctx context.Context, scope tenant.Scope, id int64) error
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository builds the pgx-backed voucher repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return fmt.Errorf("voucher: begin tx: %w", err)
	}
	if err := fn(ctx, &txRepository{tx: tx}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

const voucherColumns = `id, kind, number, date, narration, reference_no, reference,
party_id, subtotal, cgst_total, sgst_total, igst_total, discount_total, total,
created_at, updated_at`

func scanVoucher(row pgx.Row) (Voucher, error) {
	var v Voucher
	err := row.Scan(&v.ID, &v.Kind, &v.Number, &v.Date, &v.Narration, &v.ReferenceNo, &v.Reference,
		&v.PartyID, &v.Subtotal, &v.CGSTTotal, &v.SGSTTotal, &v.IGSTTotal, &v.DiscountTotal, &v.Total,
		&v.CreatedAt, &v.UpdatedAt)
	return v, err
}

func (r *repository) GetVoucher(ctx context.Context, scope tenant.Scope, id int64) (Voucher, error) {
	row := r.db.QueryRow(ctx, `SELECT `+voucherColumns+` FROM vouchers
WHERE id=$1 AND company_id=$2 AND owner_type=$3 AND owner_id=$4`,
		id, scope.CompanyID, scope.OwnerType, scope.OwnerID)
	v, err := scanVoucher(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Voucher{}, fmt.Errorf("%w: voucher %d", shared.ErrNotFound, id)
		}
		return Voucher{}, fmt.Errorf("voucher: get: %w", err)
	}
	if v.Entries, err = r.listEntries(ctx, scope, id); err != nil {
		return Voucher{}, err
	}
	if v.Items, err = r.listItems(ctx, scope, id); err != nil {
		return Voucher{}, err
	}
	return v, nil
}

func (r *repository) listEntries(ctx context.Context, scope tenant.Scope, voucherID int64) ([]Entry, error) {
	rows, err := r.db.Query(ctx, `SELECT id, ledger_id, amount, entry_type, narration,
COALESCE(against_voucher_id, 0)
FROM voucher_entries WHERE voucher_id=$1 AND company_id=$2 AND owner_type=$3 AND owner_id=$4
ORDER BY id ASC`, voucherID, scope.CompanyID, scope.OwnerType, scope.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("voucher: list entries: %w", err)
	}
	defer rows.Close()
	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.LedgerID, &e.Amount, &e.EntryType, &e.Narration, &e.AgainstVoucherID); err != nil {
			return nil, fmt.Errorf("voucher: scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *repository) listItems(ctx context.Context, scope tenant.Scope, voucherID int64) ([]Item, error) {
	rows, err := r.db.Query(ctx, `SELECT id, item_id, quantity, rate, discount,
cgst_rate, sgst_rate, igst_rate, amount, godown_id, batch_number
FROM voucher_items WHERE voucher_id=$1 AND company_id=$2 AND owner_type=$3 AND owner_id=$4
ORDER BY id ASC`, voucherID, scope.CompanyID, scope.OwnerType, scope.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("voucher: list items: %w", err)
	}
	defer rows.Close()
	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.ItemID, &it.Quantity, &it.Rate, &it.Discount,
			&it.CGSTRate, &it.SGSTRate, &it.IGSTRate, &it.Amount, &it.GodownID, &it.BatchNumber); err != nil {
			return nil, fmt.Errorf("voucher: scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *repository) ListVouchers(ctx context.Context, scope tenant.Scope, filter ListFilter) ([]Voucher, int, error) {
	where := `company_id=$1 AND owner_type=$2 AND owner_id=$3`
	args := []any{scope.CompanyID, scope.OwnerType, scope.OwnerID}
	if filter.Kind != "" {
		args = append(args, filter.Kind)
		where += fmt.Sprintf(` AND kind=$%d`, len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		where += fmt.Sprintf(` AND date >= $%d`, len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		where += fmt.Sprintf(` AND date <= $%d`, len(args))
	}
	if filter.PartyID != 0 {
		args = append(args, filter.PartyID)
		where += fmt.Sprintf(` AND party_id=$%d`, len(args))
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM vouchers WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("voucher: count: %w", err)
	}

	p := shared.NewPagination(filter.Page, filter.PerPage, total)
	args = append(args, p.PerPage, p.Offset())
	rows, err := r.db.Query(ctx, `SELECT `+voucherColumns+` FROM vouchers WHERE `+where+
		fmt.Sprintf(` ORDER BY date DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("voucher: list: %w", err)
	}
	defer rows.Close()
	var vouchers []Voucher
	for rows.Next() {
		v, err := scanVoucher(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("voucher: scan: %w", err)
		}
		vouchers = append(vouchers, v)
	}
	return vouchers, total, rows.Err()
}

func (r *repository) CompanyState(ctx context.Context, scope tenant.Scope) (string, error) {
	var state string
	err := r.db.QueryRow(ctx, `SELECT COALESCE(state, '') FROM companies WHERE id=$1`, scope.CompanyID).Scan(&state)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("%w: company %d", shared.ErrNotFound, scope.CompanyID)
		}
		return "", fmt.Errorf("voucher: company state: %w", err)
	}
	return state, nil
}

type txRepository struct {
	tx pgx.Tx
}

func (r *txRepository) NextSequence(ctx context.Context, scope tenant.Scope, prefix, period string) (int64, error) {
	var seq int64
	err := r.tx.QueryRow(ctx, `INSERT INTO voucher_sequences (company_id, owner_type, owner_id, prefix, period, last_seq)
VALUES ($1,$2,$3,$4,$5,1)
ON CONFLICT (company_id, owner_type, owner_id, prefix, period)
DO UPDATE SET last_seq = voucher_sequences.last_seq + 1
RETURNING last_seq`,
		scope.CompanyID, scope.OwnerType, scope.OwnerID, prefix, period).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("voucher: next sequence: %w", err)
	}
	return seq, nil
}

func (r *txRepository) InsertVoucher(ctx context.Context, scope tenant.Scope, v *Voucher) error {
	err := r.tx.QueryRow(ctx, `INSERT INTO vouchers
(company_id, owner_type, owner_id, kind, number, date, narration, reference_no, reference,
party_id, subtotal, cgst_total, sgst_total, igst_total, discount_total, total)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
RETURNING id, created_at, updated_at`,
		scope.CompanyID, scope.OwnerType, scope.OwnerID, v.Kind, v.Number, v.Date, v.Narration,
		v.ReferenceNo, v.Reference, nullInt(v.PartyID), v.Subtotal, v.CGSTTotal, v.SGSTTotal,
		v.IGSTTotal, v.DiscountTotal, v.Total).
		Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return mapPgError("voucher: insert", err)
	}
	return nil
}

func (r *txRepository) InsertEntries(ctx context.Context, scope tenant.Scope, voucherID int64, entries []Entry) error {
	for i := range entries {
		e := &entries[i]
		err := r.tx.QueryRow(ctx, `INSERT INTO voucher_entries
(company_id, owner_type, owner_id, voucher_id, ledger_id, amount, entry_type, narration, against_voucher_id)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9) RETURNING id`,
			scope.CompanyID, scope.OwnerType, scope.OwnerID, voucherID,
			e.LedgerID, e.Amount, e.EntryType, e.Narration, nullInt(e.AgainstVoucherID)).Scan(&e.ID)
		if err != nil {
			return mapPgError("voucher: insert entry", err)
		}
	}
	return nil
}

func (r *txRepository) InsertItems(ctx context.Context, scope tenant.Scope, voucherID int64, items []Item) error {
	for i := range items {
		it := &items[i]
		err := r.tx.QueryRow(ctx, `INSERT INTO voucher_items
(company_id, owner_type, owner_id, voucher_id, item_id, quantity, rate, discount,
cgst_rate, sgst_rate, igst_rate, amount, godown_id, batch_number)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14) RETURNING id`,
			scope.CompanyID, scope.OwnerType, scope.OwnerID, voucherID,
			it.ItemID, it.Quantity, it.Rate, it.Discount,
			it.CGSTRate, it.SGSTRate, it.IGSTRate, it.Amount, nullInt(it.GodownID), it.BatchNumber).Scan(&it.ID)
		if err != nil {
			return mapPgError("voucher: insert item", err)
		}
	}
	return nil
}

func (r *txRepository) GetVoucherForUpdate(ctx context.Context, scope tenant.Scope, id int64) (Voucher, error) {
	row := r.tx.QueryRow(ctx, `SELECT `+voucherColumns+` FROM vouchers
WHERE id=$1 AND company_id=$2 AND owner_type=$3 AND owner_id=$4 FOR UPDATE`,
		id, scope.CompanyID, scope.OwnerType, scope.OwnerID)
	v, err := scanVoucher(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Voucher{}, fmt.Errorf("%w: voucher %d", shared.ErrNotFound, id)
		}
		return Voucher{}, fmt.Errorf("voucher: get for update: %w", err)
	}
	return v, nil
}

func (r *txRepository) UpdateVoucherHeader(ctx context.Context, scope tenant.Scope, v Voucher) error {
	cmd, err := r.tx.Exec(ctx, `UPDATE vouchers SET date=$5, narration=$6, reference_no=$7,
party_id=$8, subtotal=$9, cgst_total=$10, sgst_total=$11, igst_total=$12,
discount_total=$13, total=$14, updated_at=NOW()
WHERE id=$1 AND company_id=$2 AND owner_type=$3 AND owner_id=$4`,
		v.ID, scope.CompanyID, scope.OwnerType, scope.OwnerID,
		v.Date, v.Narration, v.ReferenceNo, nullInt(v.PartyID),
		v.Subtotal, v.CGSTTotal, v.SGSTTotal, v.IGSTTotal, v.DiscountTotal, v.Total)
	if err != nil {
		return mapPgError("voucher: update header", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: voucher %d", shared.ErrNotFound, v.ID)
	}
	return nil
}

func (r *txRepository) DeleteChildren(ctx context.Context, scope tenant.Scope, voucherID int64) error {
	if _, err := r.tx.Exec(ctx, `DELETE FROM voucher_entries
WHERE voucher_id=$1 AND company_id=$2 AND owner_type=$3 AND owner_id=$4`,
		voucherID, scope.CompanyID, scope.OwnerType, scope.OwnerID); err != nil {
		return fmt.Errorf("voucher: delete entries: %w", err)
	}
	if _, err := r.tx.Exec(ctx, `DELETE FROM voucher_items
WHERE voucher_id=$1 AND company_id=$2 AND owner_type=$3 AND owner_id=$4`,
		voucherID, scope.CompanyID, scope.OwnerType, scope.OwnerID); err != nil {
		return fmt.Errorf("voucher: delete items: %w", err)
	}
	return nil
}

func (r *txRepository) DeleteVoucher(ctx context.Context, scope tenant.Scope, id int64) error {
	cmd, err := r.tx.Exec(ctx, `DELETE FROM vouchers
WHERE id=$1 AND company_id=$2 AND owner_type=$3 AND owner_id=$4`,
		id, scope.CompanyID, scope.OwnerType, scope.OwnerID)
	if err != nil {
		return fmt.Errorf("voucher: delete: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: voucher %d", shared.ErrNotFound, id)
	}
	return nil
}

// mapPgError converts referential-integrity failures into the validation
// bucket so posting against a foreign tenant's ledger reads as a 400, not a
// raw storage error.
func mapPgError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503":
			return fmt.Errorf("%w: referenced entity does not exist", shared.ErrValidation)
		case "23505":
			return fmt.Errorf("%w: duplicate voucher number", shared.ErrValidation)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func nullInt(val int64) any {
	if val == 0 {
		return nil
	}
	return val
}

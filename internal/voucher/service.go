package voucher

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/bahikhata/bahikhata/internal/gst"
	"github.com/bahikhata/bahikhata/internal/ledger"
	"github.com/bahikhata/bahikhata/internal/shared"
	"github.com/bahikhata/bahikhata/internal/tenant"
)

// LedgerPort is the slice of the ledger service the posting engine needs.
type LedgerPort interface {
	GetLedger(ctx context.Context, scope tenant.Scope, id int64) (ledger.Ledger, error)
}

// AuditPort records posting activity.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// CacheBuster invalidates cached report view models after a write.
type CacheBuster interface {
	Bust(ctx context.Context, scope tenant.Scope)
}

// Service is the voucher posting engine.
type Service struct {
	repo    Repository
	ledgers LedgerPort
	audit   AuditPort
	cache   CacheBuster
	now     func() time.Time
}

// NewService builds the posting engine. audit and cache may be nil.
func NewService(repo Repository, ledgers LedgerPort, audit AuditPort, cache CacheBuster) *Service {
	return &Service{repo: repo, ledgers: ledgers, audit: audit, cache: cache, now: time.Now}
}

// WithNow overrides the service clock for tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// fiscalYear renders the Indian fiscal year (April to March) of a date as
// "25-26".
func fiscalYear(date time.Time) string {
	start := date.Year()
	if date.Month() < time.April {
		start--
	}
	return fmt.Sprintf("%02d-%02d", start%100, (start+1)%100)
}

// numberFor composes PREFIX/FY/MM/SEQ. The sequence itself is allocated
// inside the posting transaction.
func numberFor(kind Kind, date time.Time, seq int64) string {
	return fmt.Sprintf("%s/%s/%02d/%d", kind.Prefix(), fiscalYear(date), int(date.Month()), seq)
}

// period is the sequence-counter key for a voucher date.
func period(date time.Time) string {
	return fmt.Sprintf("%s/%02d", fiscalYear(date), int(date.Month()))
}

// CreateGeneric posts a payment, receipt, contra or journal voucher.
func (s *Service) CreateGeneric(ctx context.Context, scope tenant.Scope, in GenericInput) (Voucher, error) {
	if err := in.Validate(); err != nil {
		return Voucher{}, err
	}
	v := Voucher{
		Kind:        in.Kind,
		Date:        in.Date,
		Narration:   in.Narration,
		ReferenceNo: in.ReferenceNo,
		Reference:   uuid.New(),
		Entries:     toEntries(in.Entries),
	}
	if err := s.post(ctx, scope, &v); err != nil {
		return Voucher{}, err
	}
	s.afterWrite(ctx, scope, "voucher.post", v)
	return v, nil
}

// CreateInvoice posts a sales or purchase item invoice. Line taxes are
// resolved through the GST split before anything is written, and the header
// totals are the exact sums of the per-line values.
func (s *Service) CreateInvoice(ctx context.Context, scope tenant.Scope, in InvoiceInput) (Voucher, error) {
	if err := in.Validate(); err != nil {
		return Voucher{}, err
	}
	v, err := s.buildInvoice(ctx, scope, in)
	if err != nil {
		return Voucher{}, err
	}
	if err := s.post(ctx, scope, &v); err != nil {
		return Voucher{}, err
	}
	s.afterWrite(ctx, scope, "voucher.post", v)
	return v, nil
}

// CreateNote posts a credit or debit note, with either item lines or a
// structured accounting-entry list.
func (s *Service) CreateNote(ctx context.Context, scope tenant.Scope, in NoteInput) (Voucher, error) {
	if err := in.Validate(); err != nil {
		return Voucher{}, err
	}
	var v Voucher
	if len(in.Entries) > 0 {
		v = Voucher{
			Kind:        in.Kind,
			Date:        in.Date,
			Narration:   in.Narration,
			ReferenceNo: in.ReferenceNo,
			Reference:   uuid.New(),
			PartyID:     in.PartyID,
			Entries:     toEntries(in.Entries),
		}
	} else {
		built, err := s.buildInvoice(ctx, scope, InvoiceInput{
			Kind:        in.Kind,
			PartyID:     in.PartyID,
			Date:        in.Date,
			Narration:   in.Narration,
			ReferenceNo: in.ReferenceNo,
			Items:       in.Items,
		})
		if err != nil {
			return Voucher{}, err
		}
		v = built
	}
	if err := s.post(ctx, scope, &v); err != nil {
		return Voucher{}, err
	}
	s.afterWrite(ctx, scope, "voucher.post", v)
	return v, nil
}

// buildInvoice resolves per-line taxes and computes header totals. Nothing
// is persisted here.
func (s *Service) buildInvoice(ctx context.Context, scope tenant.Scope, in InvoiceInput) (Voucher, error) {
	party, err := s.ledgers.GetLedger(ctx, scope, in.PartyID)
	if err != nil {
		return Voucher{}, err
	}
	companyState, err := s.repo.CompanyState(ctx, scope)
	if err != nil {
		return Voucher{}, err
	}

	v := Voucher{
		Kind:        in.Kind,
		Date:        in.Date,
		Narration:   in.Narration,
		ReferenceNo: in.ReferenceNo,
		Reference:   uuid.New(),
		PartyID:     in.PartyID,
	}
	for _, line := range in.Items {
		rate := line.GSTRate
		if rate == 0 && line.TaxLedgerID != 0 {
			rate, err = s.taxRate(ctx, scope, line.TaxLedgerID)
			if err != nil {
				return Voucher{}, err
			}
		}
		split := gst.Split(rate, companyState, party.State)

		base := line.Quantity * line.Rate
		lineTax := base * split.Total() / 100
		amount := base + lineTax - line.Discount

		v.Items = append(v.Items, Item{
			ItemID:      line.ItemID,
			Quantity:    line.Quantity,
			Rate:        line.Rate,
			Discount:    line.Discount,
			CGSTRate:    split.CGST,
			SGSTRate:    split.SGST,
			IGSTRate:    split.IGST,
			Amount:      amount,
			GodownID:    line.GodownID,
			BatchNumber: line.BatchNumber,
		})
		v.Subtotal += base
		v.CGSTTotal += base * split.CGST / 100
		v.SGSTTotal += base * split.SGST / 100
		v.IGSTTotal += base * split.IGST / 100
		v.DiscountTotal += line.Discount
		v.Total += amount
	}
	return v, nil
}

// taxRate resolves a GST percentage from a tax ledger: the explicit rate
// attribute when present, otherwise the name-scraping fallback for legacy
// rows.
func (s *Service) taxRate(ctx context.Context, scope tenant.Scope, taxLedgerID int64) (float64, error) {
	tl, err := s.ledgers.GetLedger(ctx, scope, taxLedgerID)
	if err != nil {
		return 0, err
	}
	if tl.TaxRate != nil {
		return *tl.TaxRate, nil
	}
	return gst.RateFromLedgerName(tl.Name), nil
}

// post writes the header and children under one transaction, allocating the
// voucher number inside it.
func (s *Service) post(ctx context.Context, scope tenant.Scope, v *Voucher) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		seq, err := tx.NextSequence(ctx, scope, v.Kind.Prefix(), period(v.Date))
		if err != nil {
			return err
		}
		v.Number = numberFor(v.Kind, v.Date, seq)
		if err := tx.InsertVoucher(ctx, scope, v); err != nil {
			return err
		}
		if len(v.Entries) > 0 {
			if err := tx.InsertEntries(ctx, scope, v.ID, v.Entries); err != nil {
				return err
			}
		}
		if len(v.Items) > 0 {
			if err := tx.InsertItems(ctx, scope, v.ID, v.Items); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateInput replaces a voucher's content. The voucher kind and number are
// immutable; child rows are always replaced in full, never patched.
type UpdateInput struct {
	Date        time.Time    `json:"date" validate:"required"`
	Narration   string       `json:"narration"`
	ReferenceNo string       `json:"referenceNo"`
	PartyID     int64        `json:"partyId"`
	Entries     []EntryInput `json:"entries,omitempty"`
	Items       []ItemInput  `json:"items,omitempty"`
}

// Update rewrites a voucher wholesale: header fields are updated and all
// child rows deleted and reinserted under one transaction.
func (s *Service) Update(ctx context.Context, scope tenant.Scope, id int64, in UpdateInput) (Voucher, error) {
	if in.Date.IsZero() {
		return Voucher{}, fmt.Errorf("%w: date required", shared.ErrValidation)
	}

	current, err := s.repo.GetVoucher(ctx, scope, id)
	if err != nil {
		return Voucher{}, err
	}
	if len(in.Entries) > 0 && len(in.Items) > 0 {
		return Voucher{}, fmt.Errorf("%w: a voucher carries items or accounting entries, not both", shared.ErrValidation)
	}
	// Only notes may swap item lines for an accounting-entry list; a sales
	// or purchase bill must keep its items, or the header totals the
	// outstanding report reads would be silently zeroed.
	if len(in.Entries) > 0 && current.Kind.IsItemInvoice() && !current.Kind.IsNote() {
		return Voucher{}, fmt.Errorf("%w: %q vouchers carry item lines, not accounting entries", shared.ErrValidation, current.Kind)
	}

	var next Voucher
	if current.Kind.IsItemInvoice() && len(in.Entries) == 0 {
		partyID := in.PartyID
		if partyID == 0 {
			partyID = current.PartyID
		}
		invoice := InvoiceInput{
			Kind:        current.Kind,
			PartyID:     partyID,
			Date:        in.Date,
			Narration:   in.Narration,
			ReferenceNo: in.ReferenceNo,
			Items:       in.Items,
		}
		if err := invoice.Validate(); err != nil {
			return Voucher{}, err
		}
		if next, err = s.buildInvoice(ctx, scope, invoice); err != nil {
			return Voucher{}, err
		}
	} else {
		if err := validateEntries(in.Entries); err != nil {
			return Voucher{}, err
		}
		next = Voucher{
			Kind:        current.Kind,
			Date:        in.Date,
			Narration:   in.Narration,
			ReferenceNo: in.ReferenceNo,
			PartyID:     current.PartyID,
			Entries:     toEntries(in.Entries),
		}
	}
	next.ID = current.ID
	next.Number = current.Number
	next.Reference = current.Reference

	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if _, err := tx.GetVoucherForUpdate(ctx, scope, id); err != nil {
			return err
		}
		if err := tx.UpdateVoucherHeader(ctx, scope, next); err != nil {
			return err
		}
		if err := tx.DeleteChildren(ctx, scope, id); err != nil {
			return err
		}
		if len(next.Entries) > 0 {
			if err := tx.InsertEntries(ctx, scope, id, next.Entries); err != nil {
				return err
			}
		}
		if len(next.Items) > 0 {
			if err := tx.InsertItems(ctx, scope, id, next.Items); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Voucher{}, err
	}
	s.afterWrite(ctx, scope, "voucher.update", next)
	return next, nil
}

// Delete removes a voucher and all its child rows.
func (s *Service) Delete(ctx context.Context, scope tenant.Scope, id int64) error {
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := tx.DeleteChildren(ctx, scope, id); err != nil {
			return err
		}
		return tx.DeleteVoucher(ctx, scope, id)
	})
	if err != nil {
		return err
	}
	s.afterWrite(ctx, scope, "voucher.delete", Voucher{ID: id})
	return nil
}

// Get returns one voucher with its child rows.
func (s *Service) Get(ctx context.Context, scope tenant.Scope, id int64) (Voucher, error) {
	return s.repo.GetVoucher(ctx, scope, id)
}

// List returns vouchers matching the filter with pagination metadata.
func (s *Service) List(ctx context.Context, scope tenant.Scope, filter ListFilter) ([]Voucher, shared.Pagination, error) {
	vouchers, total, err := s.repo.ListVouchers(ctx, scope, filter)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return vouchers, shared.NewPagination(filter.Page, filter.PerPage, total), nil
}

func (s *Service) afterWrite(ctx context.Context, scope tenant.Scope, action string, v Voucher) {
	if s.cache != nil {
		s.cache.Bust(ctx, scope)
	}
	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			CompanyID: scope.CompanyID,
			OwnerType: scope.OwnerType,
			OwnerID:   scope.OwnerID,
			Action:    action,
			Entity:    "voucher",
			EntityID:  fmt.Sprintf("%d", v.ID),
			Meta:      map[string]any{"number": v.Number, "kind": string(v.Kind)},
			At:        s.now(),
		})
	}
}

func toEntries(inputs []EntryInput) []Entry {
	out := make([]Entry, 0, len(inputs))
	for _, in := range inputs {
		out = append(out, Entry{
			LedgerID:         in.LedgerID,
			Amount:           in.Amount,
			EntryType:        in.EntryType,
			Narration:        in.Narration,
			AgainstVoucherID: in.AgainstVoucherID,
		})
	}
	return out
}

// Balanced reports whether a persisted voucher's entries satisfy the
// double-entry invariant. Used by integrity checks and tests.
func Balanced(entries []Entry) bool {
	var debit, credit float64
	for _, e := range entries {
		if e.EntryType == EntryDebit {
			debit += e.Amount
		} else {
			credit += e.Amount
		}
	}
	return math.Abs(debit-credit) <= balanceTolerance
}

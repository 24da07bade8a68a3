package voucher

import (
	"fmt"
	"math"
	"time"

	"github.com/bahikhata/bahikhata/internal/shared"
)

// balanceTolerance is the floating tolerance for the debit==credit check.
const balanceTolerance = 0.01

// EntryInput is one ledger entry in a posting request. AgainstVoucherID
// optionally marks the entry as a settlement against an earlier bill.
type EntryInput struct {
	LedgerID         int64     `json:"ledgerId" validate:"required,gt=0"`
	Amount           float64   `json:"amount" validate:"required,gt=0"`
	EntryType        EntryType `json:"entryType" validate:"required,oneof=debit credit"`
	Narration        string    `json:"narration"`
	AgainstVoucherID int64     `json:"againstVoucherId" validate:"gte=0"`
}

// GenericInput creates a payment, receipt, contra or journal voucher.
type GenericInput struct {
	Kind        Kind         `json:"voucherType" validate:"required"`
	Date        time.Time    `json:"date" validate:"required"`
	Narration   string       `json:"narration"`
	ReferenceNo string       `json:"referenceNo"`
	Entries     []EntryInput `json:"entries" validate:"required,min=2,dive"`
}

// Validate enforces the double-entry invariant before any write happens.
func (in GenericInput) Validate() error {
	switch in.Kind {
	case KindPayment, KindReceipt, KindContra, KindJournal:
	default:
		return fmt.Errorf("%w: %q is not a generic voucher type", shared.ErrValidation, in.Kind)
	}
	if in.Date.IsZero() {
		return fmt.Errorf("%w: date required", shared.ErrValidation)
	}
	return validateEntries(in.Entries)
}

func validateEntries(entries []EntryInput) error {
	if len(entries) < 2 {
		return fmt.Errorf("%w: at least two entries required", shared.ErrValidation)
	}
	var debit, credit float64
	for idx, e := range entries {
		if e.LedgerID == 0 {
			return fmt.Errorf("%w: entry %d missing ledger", shared.ErrValidation, idx)
		}
		if e.Amount <= 0 {
			return fmt.Errorf("%w: entry %d amount must be positive", shared.ErrValidation, idx)
		}
		switch e.EntryType {
		case EntryDebit:
			debit += e.Amount
		case EntryCredit:
			credit += e.Amount
		default:
			return fmt.Errorf("%w: entry %d has unknown type %q", shared.ErrValidation, idx, e.EntryType)
		}
	}
	if math.Abs(debit-credit) > balanceTolerance {
		return fmt.Errorf("%w: debit %.2f != credit %.2f", shared.ErrUnbalanced, debit, credit)
	}
	return nil
}

// ItemInput is one line of an item-invoice posting request. The GST rate is
// taken from GSTRate when given, otherwise resolved from the referenced tax
// ledger.
type ItemInput struct {
	ItemID      int64   `json:"itemId" validate:"required,gt=0"`
	Quantity    float64 `json:"quantity" validate:"required,gt=0"`
	Rate        float64 `json:"rate" validate:"gte=0"`
	Discount    float64 `json:"discount" validate:"gte=0"`
	GSTRate     float64 `json:"gstRate" validate:"gte=0,lte=100"`
	TaxLedgerID int64   `json:"taxLedgerId"`
	GodownID    int64   `json:"godownId"`
	BatchNumber string  `json:"batchNumber"`
}

// InvoiceInput creates a sales, purchase, credit-note or debit-note voucher
// carrying item lines.
type InvoiceInput struct {
	Kind        Kind        `json:"voucherType" validate:"required"`
	PartyID     int64       `json:"partyId" validate:"required,gt=0"`
	Date        time.Time   `json:"date" validate:"required"`
	Narration   string      `json:"narration"`
	ReferenceNo string      `json:"referenceNo"`
	Items       []ItemInput `json:"items" validate:"required,min=1,dive"`
}

// Validate checks the invoice shape; per-line tax computation happens in the
// service once states and rates are known.
func (in InvoiceInput) Validate() error {
	if !in.Kind.IsItemInvoice() {
		return fmt.Errorf("%w: %q is not an item-invoice voucher type", shared.ErrValidation, in.Kind)
	}
	if in.PartyID == 0 {
		return fmt.Errorf("%w: party required", shared.ErrValidation)
	}
	if in.Date.IsZero() {
		return fmt.Errorf("%w: date required", shared.ErrValidation)
	}
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: at least one item required", shared.ErrValidation)
	}
	for idx, item := range in.Items {
		if item.ItemID == 0 {
			return fmt.Errorf("%w: item %d missing stock item", shared.ErrValidation, idx)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: item %d quantity must be positive", shared.ErrValidation, idx)
		}
		if item.Rate < 0 || item.Discount < 0 {
			return fmt.Errorf("%w: item %d negative rate or discount", shared.ErrValidation, idx)
		}
		if item.GSTRate < 0 || item.GSTRate > 100 {
			return fmt.Errorf("%w: item %d gst rate out of range", shared.ErrValidation, idx)
		}
	}
	return nil
}

// NoteInput creates a credit or debit note. Exactly one of Items or Entries
// must be set: item lines post like an invoice, accounting entries post like
// a generic voucher.
type NoteInput struct {
	Kind        Kind         `json:"voucherType" validate:"required"`
	PartyID     int64        `json:"partyId" validate:"required,gt=0"`
	Date        time.Time    `json:"date" validate:"required"`
	Narration   string       `json:"narration"`
	ReferenceNo string       `json:"referenceNo"`
	Items       []ItemInput  `json:"items,omitempty"`
	Entries     []EntryInput `json:"entries,omitempty"`
}

// Validate dispatches to the shape the note actually carries.
func (in NoteInput) Validate() error {
	if !in.Kind.IsNote() {
		return fmt.Errorf("%w: %q is not a note voucher type", shared.ErrValidation, in.Kind)
	}
	if len(in.Items) > 0 && len(in.Entries) > 0 {
		return fmt.Errorf("%w: a note carries items or accounting entries, not both", shared.ErrValidation)
	}
	if len(in.Entries) > 0 {
		if in.Date.IsZero() {
			return fmt.Errorf("%w: date required", shared.ErrValidation)
		}
		return validateEntries(in.Entries)
	}
	return InvoiceInput{
		Kind:    in.Kind,
		PartyID: in.PartyID,
		Date:    in.Date,
		Items:   in.Items,
	}.Validate()
}

// ListFilter narrows a voucher listing.
type ListFilter struct {
	Kind    Kind
	From    time.Time
	To      time.Time
	PartyID int64
	Page    int
	PerPage int
}

package voucher

import (
	"time"

	"github.com/google/uuid"
)

// Kind enumerates voucher types. Payment, receipt, contra and journal
// vouchers carry free-form ledger entries; sales, purchase, credit-note and
// debit-note vouchers carry item lines (notes may alternatively carry an
// accounting-entry list).
type Kind string

const (
	KindPayment    Kind = "payment"
	KindReceipt    Kind = "receipt"
	KindContra     Kind = "contra"
	KindJournal    Kind = "journal"
	KindSales      Kind = "sales"
	KindPurchase   Kind = "purchase"
	KindCreditNote Kind = "credit_note"
	KindDebitNote  Kind = "debit_note"
)

// IsItemInvoice reports whether the kind uses the item-invoice posting shape.
func (k Kind) IsItemInvoice() bool {
	switch k {
	case KindSales, KindPurchase, KindCreditNote, KindDebitNote:
		return true
	}
	return false
}

// IsNote reports whether the kind is a credit or debit note.
func (k Kind) IsNote() bool {
	return k == KindCreditNote || k == KindDebitNote
}

// Prefix returns the voucher-number prefix for the kind.
func (k Kind) Prefix() string {
	switch k {
	case KindPayment:
		return "PMT"
	case KindReceipt:
		return "RCT"
	case KindContra:
		return "CTR"
	case KindJournal:
		return "JRN"
	case KindSales:
		return "INV"
	case KindPurchase:
		return "PUR"
	case KindCreditNote:
		return "CRN"
	case KindDebitNote:
		return "DBN"
	}
	return "VCH"
}

// Valid reports whether the kind is one of the known voucher types.
func (k Kind) Valid() bool {
	return k.Prefix() != "VCH"
}

// EntryType is the debit/credit marker on a ledger entry.
type EntryType string

const (
	EntryDebit  EntryType = "debit"
	EntryCredit EntryType = "credit"
)

// Entry is one ledger-entry row of a voucher. AgainstVoucherID links a
// settlement entry to the bill it pays down, which is what the outstanding
// report matches on.
type Entry struct {
	ID               int64     `json:"id"`
	LedgerID         int64     `json:"ledgerId"`
	Amount           float64   `json:"amount"`
	EntryType        EntryType `json:"entryType"`
	Narration        string    `json:"narration,omitempty"`
	AgainstVoucherID int64     `json:"againstVoucherId,omitempty"`
}

// Item is one line of an item-invoice voucher. Tax rates are resolved at
// posting time and stored per line so the document is self-contained.
type Item struct {
	ID          int64   `json:"id"`
	ItemID      int64   `json:"itemId"`
	Quantity    float64 `json:"quantity"`
	Rate        float64 `json:"rate"`
	Discount    float64 `json:"discount"`
	CGSTRate    float64 `json:"cgstRate"`
	SGSTRate    float64 `json:"sgstRate"`
	IGSTRate    float64 `json:"igstRate"`
	Amount      float64 `json:"amount"`
	GodownID    int64   `json:"godownId,omitempty"`
	BatchNumber string  `json:"batchNumber,omitempty"`
}

// Voucher is a persisted voucher header with its child rows. Generic
// vouchers populate Entries; item invoices populate Items and the tax
// totals. Credit/debit notes populate one or the other.
type Voucher struct {
	ID          int64     `json:"id"`
	Kind        Kind      `json:"voucherType"`
	Number      string    `json:"number"`
	Date        time.Time `json:"date"`
	Narration   string    `json:"narration,omitempty"`
	ReferenceNo string    `json:"referenceNo,omitempty"`
	Reference   uuid.UUID `json:"reference"`

	PartyID       int64   `json:"partyId,omitempty"`
	Subtotal      float64 `json:"subtotal,omitempty"`
	CGSTTotal     float64 `json:"cgstTotal,omitempty"`
	SGSTTotal     float64 `json:"sgstTotal,omitempty"`
	IGSTTotal     float64 `json:"igstTotal,omitempty"`
	DiscountTotal float64 `json:"discountTotal,omitempty"`
	Total         float64 `json:"total,omitempty"`

	Entries []Entry `json:"entries,omitempty"`
	Items   []Item  `json:"items,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

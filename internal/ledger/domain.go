package ledger

import "time"

// BalanceType fixes the sign convention for a ledger's balance.
type BalanceType string

const (
	BalanceDebit  BalanceType = "debit"
	BalanceCredit BalanceType = "credit"
)

// GroupNature classifies a ledger group for reporting.
type GroupNature string

const (
	NatureAssets      GroupNature = "Assets"
	NatureLiabilities GroupNature = "Liabilities"
	NatureIncome      GroupNature = "Income"
	NatureExpenses    GroupNature = "Expenses"
)

// Group is a node in the ledger-group tree. Negative IDs denote built-in
// system groups; tenant-defined groups may nest under them via ParentID.
type Group struct {
	ID       int64       `json:"id"`
	Name     string      `json:"name"`
	Type     string      `json:"type"`
	Nature   GroupNature `json:"nature"`
	ParentID int64       `json:"parentId"`
}

// Ledger is an account with a running balance: a party, an expense head,
// a tax head and so on.
type Ledger struct {
	ID             int64       `json:"id"`
	Name           string      `json:"name"`
	GroupID        int64       `json:"groupId"`
	OpeningBalance float64     `json:"openingBalance"`
	BalanceType    BalanceType `json:"balanceType"`
	GSTNumber      string      `json:"gstNumber,omitempty"`
	State          string      `json:"state,omitempty"`
	Address        string      `json:"address,omitempty"`
	Email          string      `json:"email,omitempty"`
	Phone          string      `json:"phone,omitempty"`
	// CreditDays is the party's credit period; bills fall due this many
	// days after the voucher date.
	CreditDays int `json:"creditDays,omitempty"`
	// TaxRate is the explicit GST percentage for tax ledgers. Legacy rows
	// without it fall back to name scraping via gst.RateFromLedgerName.
	TaxRate *float64 `json:"taxRate,omitempty"`
}

// Entry is one posted debit or credit against a ledger, as read back for
// statements.
type Entry struct {
	EntryID       int64     `json:"entryId"`
	VoucherID     int64     `json:"voucherId"`
	VoucherType   string    `json:"voucherType"`
	VoucherNumber string    `json:"voucherNumber"`
	Date          time.Time `json:"date"`
	Narration     string    `json:"narration,omitempty"`
	EntryType     string    `json:"entryType"`
	Amount        float64   `json:"amount"`
}

// StatementRow is one line of a ledger statement with the running balance
// after applying the entry.
type StatementRow struct {
	Date          time.Time `json:"date"`
	VoucherID     int64     `json:"voucherId,omitempty"`
	VoucherType   string    `json:"voucherType,omitempty"`
	VoucherNumber string    `json:"voucherNumber,omitempty"`
	Narration     string    `json:"narration,omitempty"`
	Debit         float64   `json:"debit"`
	Credit        float64   `json:"credit"`
	Balance       float64   `json:"balance"`
}

// Statement is the projected view of a ledger over a date window.
type Statement struct {
	LedgerID       int64          `json:"ledgerId"`
	LedgerName     string         `json:"ledgerName"`
	From           time.Time      `json:"from"`
	To             time.Time      `json:"to"`
	OpeningBalance float64        `json:"openingBalance"`
	ClosingBalance float64        `json:"closingBalance"`
	Rows           []StatementRow `json:"rows"`
}

package reports

import (
	"time"

	"github.com/bahikhata/bahikhata/internal/ledger"
)

// balanceTolerance is the floating tolerance for the trial balance check.
const balanceTolerance = 0.01

// LedgerTotal is a ledger with its posted debit and credit sums as of the
// report date.
type LedgerTotal struct {
	LedgerID       int64
	LedgerName     string
	GroupID        int64
	OpeningBalance float64
	BalanceType    ledger.BalanceType
	DebitTotal     float64
	CreditTotal    float64
}

// Net returns the debit-positive signed balance of the ledger.
func (t LedgerTotal) Net() float64 {
	opening := t.OpeningBalance
	if t.BalanceType == ledger.BalanceCredit {
		opening = -opening
	}
	return opening + t.DebitTotal - t.CreditTotal
}

// GroupRow is one root-group line of the trial balance. Debit and credit
// stay in separate columns; a group can carry both when its ledgers lean
// both ways.
type GroupRow struct {
	GroupID   int64              `json:"groupId"`
	GroupName string             `json:"groupName"`
	Nature    ledger.GroupNature `json:"nature,omitempty"`
	Debit     float64            `json:"debit"`
	Credit    float64            `json:"credit"`
}

// TrialBalance is the rolled-up report. Difference is surfaced rather than
// hidden when the books do not balance.
type TrialBalance struct {
	AsOf        time.Time  `json:"asOf"`
	Rows        []GroupRow `json:"rows"`
	TotalDebit  float64    `json:"totalDebit"`
	TotalCredit float64    `json:"totalCredit"`
	Balanced    bool       `json:"balanced"`
	Difference  float64    `json:"difference"`
}

package outstanding

import "time"

// Side selects which half of the books the report covers.
type Side string

const (
	SideReceivable Side = "receivable"
	SidePayable    Side = "payable"
)

// Valid reports whether the side is one of the two known values.
func (s Side) Valid() bool {
	return s == SideReceivable || s == SidePayable
}

// Risk classifies how worrying an open bill is.
type Risk string

const (
	RiskLow      Risk = "low"
	RiskMedium   Risk = "medium"
	RiskHigh     Risk = "high"
	RiskCritical Risk = "critical"
)

// Risk thresholds. A bill past criticalDays with more than criticalAmount
// open is critical; crossing either alone is high.
const (
	criticalDays   = 90
	criticalAmount = 50000.0
	mediumDays     = 30
)

// RiskFor derives the risk category from overdue days and the open amount.
func RiskFor(overdueDays int, outstanding float64) Risk {
	switch {
	case overdueDays > criticalDays && outstanding > criticalAmount:
		return RiskCritical
	case overdueDays > criticalDays || outstanding > criticalAmount:
		return RiskHigh
	case overdueDays > mediumDays:
		return RiskMedium
	default:
		return RiskLow
	}
}

// BucketFor labels the overdue-days age range of a bill.
func BucketFor(overdueDays int) string {
	switch {
	case overdueDays <= 30:
		return "0-30"
	case overdueDays <= 60:
		return "31-60"
	case overdueDays <= 90:
		return "61-90"
	default:
		return "90+"
	}
}

// Bill is one sales or purchase voucher treated as an open bill, with the
// settlements matched against it already summed.
type Bill struct {
	VoucherID     int64     `json:"voucherId"`
	VoucherNumber string    `json:"voucherNumber"`
	PartyLedgerID int64     `json:"partyLedgerId"`
	PartyName     string    `json:"partyName"`
	Date          time.Time `json:"date"`
	DueDate       time.Time `json:"dueDate"`
	BillAmount    float64   `json:"billAmount"`
	PaidAmount    float64   `json:"paidAmount"`
}

// Outstanding is the open amount. Overpaid bills go negative; the value is
// never clamped to zero.
func (b Bill) Outstanding() float64 {
	return b.BillAmount - b.PaidAmount
}

// OverdueDays counts whole days past the due date, never negative.
func (b Bill) OverdueDays(asOf time.Time) int {
	days := int(asOf.Sub(b.DueDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// Row is one line of the outstanding report.
type Row struct {
	Bill
	Outstanding float64 `json:"outstanding"`
	OverdueDays int     `json:"overdueDays"`
	AgeBucket   string  `json:"ageBucket"`
	Risk        Risk    `json:"riskCategory"`
}

// Buckets holds outstanding amounts partitioned by overdue age.
type Buckets struct {
	UpTo30 float64 `json:"days0to30"`
	UpTo60 float64 `json:"days31to60"`
	UpTo90 float64 `json:"days61to90"`
	Over90 float64 `json:"over90"`
}

// SideSummary aggregates one side of the books.
type SideSummary struct {
	Side             Side    `json:"side"`
	BillCount        int     `json:"billCount"`
	TotalOutstanding float64 `json:"totalOutstanding"`
	TotalOverdue     float64 `json:"totalOverdue"`
	Buckets          Buckets `json:"buckets"`
}

// Summary pairs the receivable and payable sides.
type Summary struct {
	AsOf       time.Time   `json:"asOf"`
	Receivable SideSummary `json:"receivable"`
	Payable    SideSummary `json:"payable"`
}

// Sort keys accepted by the report.
const (
	SortByAmount      = "amount"
	SortByOverdueDays = "overdueDays"
	SortByPartyName   = "partyName"
	SortByDate        = "date"
)

// Filter narrows and orders the outstanding report.
type Filter struct {
	Side    Side
	AsOf    time.Time
	PartyID int64
	SortBy  string
	Desc    bool
}

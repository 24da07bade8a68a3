package inventory

import "time"

// Position is the aggregate stock picture for one stock-item in one godown
// as of a report date.
type Position struct {
	ItemID     int64   `json:"itemId"`
	ItemName   string  `json:"itemName"`
	GodownID   int64   `json:"godownId"`
	GodownName string  `json:"godownName"`
	Opening    float64 `json:"openingBalance"`
	Inward     float64 `json:"inward"`
	Outward    float64 `json:"outward"`
}

// Current returns the balance as of the report date.
func (p Position) Current() float64 {
	return p.Opening + p.Inward - p.Outward
}

// Lot is one inward movement (purchase or sales return) for an item/godown
// pair.
type Lot struct {
	ItemID       int64
	GodownID     int64
	ReceivedDate time.Time
	Quantity     float64
}

// Buckets holds quantities partitioned by age ranges in days.
type Buckets struct {
	UpTo30   float64 `json:"days0to30"`
	UpTo60   float64 `json:"days31to60"`
	UpTo90   float64 `json:"days61to90"`
	UpTo180  float64 `json:"days91to180"`
	Over180  float64 `json:"over180"`
}

// Total returns the quantity across all buckets.
func (b Buckets) Total() float64 {
	return b.UpTo30 + b.UpTo60 + b.UpTo90 + b.UpTo180 + b.Over180
}

// ItemAgeing is one row of the inventory ageing report.
type ItemAgeing struct {
	Position
	CurrentBalance float64 `json:"currentBalance"`
	Buckets        Buckets `json:"buckets"`
}

// Filter narrows the ageing report.
type Filter struct {
	AsOf     time.Time
	ItemID   int64
	GodownID int64
}

package outstanding

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bahikhata/bahikhata/internal/shared"
	"github.com/bahikhata/bahikhata/internal/tenant"
)

var asOf = time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

func dueDaysAgo(n int) time.Time {
	return asOf.AddDate(0, 0, -n)
}

func bill(id int64, party string, due time.Time, amount, paid float64) Bill {
	return Bill{
		VoucherID:     id,
		VoucherNumber: "INV/26-27/04/1",
		PartyLedgerID: id,
		PartyName:     party,
		Date:          due.AddDate(0, 0, -30),
		DueDate:       due,
		BillAmount:    amount,
		PaidAmount:    paid,
	}
}

func TestOutstandingNeverClamped(t *testing.T) {
	b := bill(1, "Acme", dueDaysAgo(10), 1000, 1200)
	require.Equal(t, -200.0, b.Outstanding())
}

func TestOverdueDaysNeverNegative(t *testing.T) {
	b := bill(1, "Acme", asOf.AddDate(0, 0, 15), 1000, 0)
	require.Zero(t, b.OverdueDays(asOf))
	require.Equal(t, 10, bill(2, "Acme", dueDaysAgo(10), 1000, 0).OverdueDays(asOf))
}

func TestBucketBoundaries(t *testing.T) {
	require.Equal(t, "0-30", BucketFor(0))
	require.Equal(t, "0-30", BucketFor(30))
	require.Equal(t, "31-60", BucketFor(31))
	require.Equal(t, "61-90", BucketFor(90))
	require.Equal(t, "90+", BucketFor(91))
}

func TestRiskThresholds(t *testing.T) {
	require.Equal(t, RiskCritical, RiskFor(91, 50001))
	require.Equal(t, RiskHigh, RiskFor(91, 100))
	require.Equal(t, RiskHigh, RiskFor(5, 60000))
	require.Equal(t, RiskMedium, RiskFor(31, 100))
	require.Equal(t, RiskLow, RiskFor(30, 100))
}

func TestBuildRowsDerivesFields(t *testing.T) {
	rows := BuildRows([]Bill{bill(1, "Acme", dueDaysAgo(95), 60000, 5000)}, asOf)
	require.Len(t, rows, 1)
	require.Equal(t, 55000.0, rows[0].Outstanding)
	require.Equal(t, 95, rows[0].OverdueDays)
	require.Equal(t, "90+", rows[0].AgeBucket)
	require.Equal(t, RiskCritical, rows[0].Risk)
}

func TestSortRowsStableAndReversible(t *testing.T) {
	mk := func() []Row {
		return BuildRows([]Bill{
			bill(1, "Zen Traders", dueDaysAgo(5), 300, 0),
			bill(2, "acme supplies", dueDaysAgo(50), 100, 0),
			bill(3, "Acme Supplies", dueDaysAgo(50), 200, 0),
		}, asOf)
	}

	rows := mk()
	SortRows(rows, SortByAmount, false)
	require.Equal(t, []float64{100, 200, 300}, []float64{rows[0].Outstanding, rows[1].Outstanding, rows[2].Outstanding})

	rows = mk()
	SortRows(rows, SortByAmount, true)
	require.Equal(t, 300.0, rows[0].Outstanding)

	// Equal keys keep input order: both 50-day bills stay as given.
	rows = mk()
	SortRows(rows, SortByOverdueDays, false)
	require.Equal(t, int64(1), rows[0].VoucherID)
	require.Equal(t, int64(2), rows[1].VoucherID)
	require.Equal(t, int64(3), rows[2].VoucherID)

	// Collated name sort ignores case, so the two Acme rows group together.
	rows = mk()
	SortRows(rows, SortByPartyName, false)
	require.Equal(t, int64(2), rows[0].VoucherID)
	require.Equal(t, int64(3), rows[1].VoucherID)
	require.Equal(t, "Zen Traders", rows[2].PartyName)
}

type stubBillRepo struct {
	bySide map[Side][]Bill
}

func (s *stubBillRepo) ListBills(ctx context.Context, scope tenant.Scope, filter Filter) ([]Bill, error) {
	return s.bySide[filter.Side], nil
}

func testScope() tenant.Scope {
	return tenant.Scope{CompanyID: 1, OwnerType: "user", OwnerID: 1}
}

func TestReportRejectsUnknownSide(t *testing.T) {
	svc := NewService(&stubBillRepo{})
	_, err := svc.Report(context.Background(), testScope(), Filter{Side: "both"})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestSummaryComputesBothSides(t *testing.T) {
	repo := &stubBillRepo{bySide: map[Side][]Bill{
		SideReceivable: {
			bill(1, "Acme", dueDaysAgo(10), 1000, 400),
			bill(2, "Zen", dueDaysAgo(70), 2000, 0),
		},
		SidePayable: {
			bill(3, "Mega", dueDaysAgo(100), 5000, 1000),
		},
	}}
	svc := NewService(repo)
	svc.WithNow(func() time.Time { return asOf })

	sum, err := svc.Summary(context.Background(), testScope(), time.Time{})
	require.NoError(t, err)

	require.Equal(t, 2, sum.Receivable.BillCount)
	require.Equal(t, 2600.0, sum.Receivable.TotalOutstanding)
	require.Equal(t, 2600.0, sum.Receivable.TotalOverdue)
	require.Equal(t, 600.0, sum.Receivable.Buckets.UpTo30)
	require.Equal(t, 2000.0, sum.Receivable.Buckets.UpTo90)

	require.Equal(t, 1, sum.Payable.BillCount)
	require.Equal(t, 4000.0, sum.Payable.TotalOutstanding)
	require.Equal(t, 4000.0, sum.Payable.Buckets.Over90)
	require.Equal(t, asOf, sum.AsOf)
}

func TestSummaryFullyPaidStillCounted(t *testing.T) {
	repo := &stubBillRepo{bySide: map[Side][]Bill{
		SideReceivable: {bill(1, "Acme", dueDaysAgo(10), 1000, 1000)},
	}}
	svc := NewService(repo)
	svc.WithNow(func() time.Time { return asOf })

	sum, err := svc.Summary(context.Background(), testScope(), time.Time{})
	require.NoError(t, err)
	require.Equal(t, 1, sum.Receivable.BillCount)
	require.Zero(t, sum.Receivable.TotalOutstanding)
}

package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bahikhata/bahikhata/internal/tenant"
)

var asOf = time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

func daysBefore(n int) time.Time {
	return asOf.AddDate(0, 0, -n)
}

func TestBuildAgeingBucketBoundaries(t *testing.T) {
	positions := []Position{{ItemID: 1, ItemName: "Widget", GodownID: 1, GodownName: "Main", Inward: 100}}
	lots := []Lot{
		{ItemID: 1, GodownID: 1, ReceivedDate: daysBefore(30), Quantity: 10},
		{ItemID: 1, GodownID: 1, ReceivedDate: daysBefore(31), Quantity: 20},
		{ItemID: 1, GodownID: 1, ReceivedDate: daysBefore(90), Quantity: 30},
		{ItemID: 1, GodownID: 1, ReceivedDate: daysBefore(91), Quantity: 25},
		{ItemID: 1, GodownID: 1, ReceivedDate: daysBefore(181), Quantity: 15},
	}

	rows := BuildAgeing(positions, lots, asOf)
	require.Len(t, rows, 1)
	b := rows[0].Buckets
	require.Equal(t, 10.0, b.UpTo30)
	require.Equal(t, 20.0, b.UpTo60)
	require.Equal(t, 30.0, b.UpTo90)
	require.Equal(t, 25.0, b.UpTo180)
	require.Equal(t, 15.0, b.Over180)
	require.Equal(t, 100.0, b.Total())
}

func TestBuildAgeingCurrentBalance(t *testing.T) {
	positions := []Position{{ItemID: 1, ItemName: "Widget", GodownID: 1, GodownName: "Main", Opening: 5, Inward: 40, Outward: 12}}
	rows := BuildAgeing(positions, nil, asOf)
	require.Equal(t, 33.0, rows[0].CurrentBalance)
}

func TestBuildAgeingPureOpeningBalanceGoesOver180(t *testing.T) {
	positions := []Position{{ItemID: 1, ItemName: "Widget", GodownID: 1, GodownName: "Main", Opening: 50}}
	rows := BuildAgeing(positions, nil, asOf)
	require.Equal(t, 50.0, rows[0].Buckets.Over180)
	require.Zero(t, rows[0].Buckets.UpTo30)
}

func TestBuildAgeingWholeLotAssignment(t *testing.T) {
	// Outward movement reduces the balance but lots stay whole in their
	// buckets: this is not FIFO consumption.
	positions := []Position{{ItemID: 1, ItemName: "Widget", GodownID: 1, GodownName: "Main", Inward: 60, Outward: 45}}
	lots := []Lot{
		{ItemID: 1, GodownID: 1, ReceivedDate: daysBefore(200), Quantity: 40},
		{ItemID: 1, GodownID: 1, ReceivedDate: daysBefore(10), Quantity: 20},
	}
	rows := BuildAgeing(positions, lots, asOf)
	require.Equal(t, 15.0, rows[0].CurrentBalance)
	require.Equal(t, 40.0, rows[0].Buckets.Over180)
	require.Equal(t, 20.0, rows[0].Buckets.UpTo30)
}

func TestBuildAgeingSortsByItemThenGodown(t *testing.T) {
	positions := []Position{
		{ItemID: 2, ItemName: "Bolt", GodownID: 2, GodownName: "South", Inward: 1},
		{ItemID: 1, ItemName: "Widget", GodownID: 1, GodownName: "Main", Inward: 1},
		{ItemID: 2, ItemName: "Bolt", GodownID: 1, GodownName: "Main", Inward: 1},
	}
	rows := BuildAgeing(positions, nil, asOf)
	require.Equal(t, "Bolt", rows[0].ItemName)
	require.Equal(t, "Main", rows[0].GodownName)
	require.Equal(t, "Bolt", rows[1].ItemName)
	require.Equal(t, "South", rows[1].GodownName)
	require.Equal(t, "Widget", rows[2].ItemName)
}

func TestNoteKindsFollowStockDirection(t *testing.T) {
	// A credit note is a sales return: stock comes back in. A debit note
	// is a purchase return: stock goes back out.
	require.ElementsMatch(t, []string{"purchase", "credit_note"}, inwardKinds)
	require.ElementsMatch(t, []string{"sales", "debit_note"}, outwardKinds)
}

type stubInventoryRepo struct {
	positions []Position
	lots      []Lot
}

func (s *stubInventoryRepo) ListPositions(ctx context.Context, scope tenant.Scope, filter Filter) ([]Position, error) {
	return s.positions, nil
}

func (s *stubInventoryRepo) ListInwardLots(ctx context.Context, scope tenant.Scope, filter Filter) ([]Lot, error) {
	return s.lots, nil
}

func TestAgeingDefaultsAsOfToNow(t *testing.T) {
	repo := &stubInventoryRepo{
		positions: []Position{{ItemID: 1, ItemName: "Widget", GodownID: 1, GodownName: "Main", Inward: 10}},
		lots:      []Lot{{ItemID: 1, GodownID: 1, ReceivedDate: daysBefore(5), Quantity: 10}},
	}
	svc := NewService(repo)
	svc.WithNow(func() time.Time { return asOf })

	rows, err := svc.Ageing(context.Background(), tenant.Scope{CompanyID: 1, OwnerType: "user", OwnerID: 1}, Filter{})
	require.NoError(t, err)
	require.Equal(t, 10.0, rows[0].Buckets.UpTo30)
}

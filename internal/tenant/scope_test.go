package tenant

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bahikhata/bahikhata/internal/shared"
)

func TestResolve(t *testing.T) {
	scope, err := Resolve("12", "user", "7")
	require.NoError(t, err)
	require.Equal(t, Scope{CompanyID: 12, OwnerType: "user", OwnerID: 7}, scope)
}

func TestResolveRejectsBadInput(t *testing.T) {
	cases := []struct {
		name      string
		companyID string
		ownerType string
		ownerID   string
	}{
		{"non-numeric company", "abc", "user", "7"},
		{"non-numeric owner", "12", "user", "x"},
		{"zero company", "0", "user", "7"},
		{"negative owner", "12", "user", "-1"},
		{"empty owner type", "12", "", "7"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Resolve(tc.companyID, tc.ownerType, tc.ownerID)
			require.Error(t, err)
			require.True(t, errors.Is(err, shared.ErrValidation))
		})
	}
}

func TestFromRequestRequiresTriple(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/vouchers?companyId=1&ownerType=user", nil)
	_, err := FromRequest(r)
	require.ErrorIs(t, err, shared.ErrValidation)

	r = httptest.NewRequest("GET", "/api/v1/vouchers?companyId=1&ownerType=user&ownerId=2", nil)
	scope, err := FromRequest(r)
	require.NoError(t, err)
	require.Equal(t, int64(1), scope.CompanyID)
	require.Equal(t, int64(2), scope.OwnerID)
}

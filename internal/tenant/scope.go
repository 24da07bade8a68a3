// Package tenant resolves and enforces the (companyId, ownerType, ownerId)
// triple that isolates one customer's data. Every repository query in the
// system is filtered by a Scope; there is no global fallback.
package tenant

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/bahikhata/bahikhata/internal/shared"
)

// Scope is the opaque filter value passed to every data access operation.
type Scope struct {
	CompanyID int64  `json:"companyId" validate:"required,gt=0"`
	OwnerType string `json:"ownerType" validate:"required,alphanum"`
	OwnerID   int64  `json:"ownerId" validate:"required,gt=0"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Resolve validates the raw triple and returns a usable Scope.
func Resolve(companyID, ownerType, ownerID string) (Scope, error) {
	cid, err := strconv.ParseInt(companyID, 10, 64)
	if err != nil {
		return Scope{}, fmt.Errorf("%w: companyId must be a number", shared.ErrValidation)
	}
	oid, err := strconv.ParseInt(ownerID, 10, 64)
	if err != nil {
		return Scope{}, fmt.Errorf("%w: ownerId must be a number", shared.ErrValidation)
	}
	scope := Scope{CompanyID: cid, OwnerType: ownerType, OwnerID: oid}
	if err := validate.Struct(scope); err != nil {
		return Scope{}, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}
	return scope, nil
}

// FromRequest resolves the scope from query parameters.
func FromRequest(r *http.Request) (Scope, error) {
	q := r.URL.Query()
	companyID := q.Get("companyId")
	ownerType := q.Get("ownerType")
	ownerID := q.Get("ownerId")
	if companyID == "" || ownerType == "" || ownerID == "" {
		return Scope{}, fmt.Errorf("%w: companyId, ownerType and ownerId are required", shared.ErrValidation)
	}
	return Resolve(companyID, ownerType, ownerID)
}

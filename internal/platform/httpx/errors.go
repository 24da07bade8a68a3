package httpx

import (
	"errors"
	"net/http"

	"github.com/bahikhata/bahikhata/internal/shared"
)

// RespondError maps the domain error taxonomy onto the wire envelope.
// Storage failures deliberately surface a generic message; the detail is for logs.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrValidation):
		Fail(w, http.StatusBadRequest, "validation failed", err.Error())
	case errors.Is(err, shared.ErrUnbalanced):
		Fail(w, http.StatusBadRequest, "voucher entries are not balanced", err.Error())
	case errors.Is(err, shared.ErrNotFound):
		Fail(w, http.StatusNotFound, "not found", err.Error())
	default:
		Fail(w, http.StatusInternalServerError, "internal error", "")
	}
}

package httpx

import (
	"errors"
	"net/http"

	"github.com/ledgerline/ledgerline/internal/shared"
)

// RespondError maps shared sentinel errors to problem responses.
// Handlers with richer domain errors (validation maps, duplicates) map
// those themselves and delegate the remainder here. The detail is
// always the user-safe message; raw error text never reaches clients.
func RespondError(w http.ResponseWriter, err error) {
	if errors.Is(err, shared.ErrNotFound) {
		Problem(w, http.StatusNotFound, "Not Found", shared.UserSafeMessage(err))
		return
	}
	Problem(w, http.StatusInternalServerError, "Internal Error", shared.UserSafeMessage(err))
}

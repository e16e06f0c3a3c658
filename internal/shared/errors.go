package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrStaleSnapshot indicates a cache fill lost to a newer generation.
	ErrStaleSnapshot = errors.New("stale snapshot discarded")
)

// UserSafeMessage converts internal errors into messages safe to show
// to end users. Unknown errors collapse to a generic message so internal
// details never leak into forms.
func UserSafeMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "The requested record could not be found."
	default:
		return "Something went wrong. Please try again."
	}
}

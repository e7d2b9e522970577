package ledger

import "errors"

// Sentinel errors returned by the engine. Handlers translate these into HTTP
// status codes with errors.Is; everything else is treated as a storage failure.
var (
	ErrValidation = errors.New("invalid input")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrNoMembers  = errors.New("no members in group to split expense")
	ErrStorage    = errors.New("storage failure")
)

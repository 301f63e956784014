package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Ledger backends and platform clients
// return these (optionally wrapped) so callers can decide between degrading and
// failing without inspecting driver-specific errors.
//
//   - ErrUnavailable: durable backend unreachable (refused, timed out, auth failure)
//   - ErrCircuitOpen: backend skipped because the breaker is open
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrUnavailable = errors.New("unavailable")
	ErrCircuitOpen = errors.New("circuit open")
)

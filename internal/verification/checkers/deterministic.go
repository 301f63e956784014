// Package checkers provides the deterministic stand-ins for the face,
// document and risk collaborators. Outputs are derived from the inputs alone
// so integrations and tests see stable results.
package checkers

import (
	"crypto/sha256"
	"encoding/binary"
	"strings"
)

// DeterministicScore maps the parts to a pseudo-score in [0, 1) with four
// decimal places. The same parts always yield the same score.
func DeterministicScore(parts ...string) float64 {
	sum := sha256.Sum256([]byte(strings.Join(parts, "::")))
	v := binary.BigEndian.Uint32(sum[:4])
	return float64(v%10_000) / 10_000
}

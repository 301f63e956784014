package proof

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// Prefix marks every proof hash.
const Prefix = "0x"

// Keys the hasher adds next to the kind-specific fields. They override fields
// of the same name.
const (
	OwnerKey    = "user_id"
	EndpointKey = "endpoint"
)

var endpoints = map[string]string{
	"face":        "/verify/face",
	"document":    "/verify/document",
	"score":       "/score/credit",
	"fraud-check": "/fraud/check",
}

// Endpoint returns the tag bound into a proof for kind. Unknown kinds are
// bound by name.
func Endpoint(kind string) string {
	if ep, ok := endpoints[kind]; ok {
		return ep
	}
	return kind
}

// Hash fingerprints (ownerID, kind, fields): SHA-256 over the canonical
// encoding of the fields plus owner and endpoint tag, hex encoded with Prefix.
// fields is not modified.
func Hash(ownerID, kind string, fields map[string]any) (string, error) {
	payload := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		payload[k] = v
	}
	payload[OwnerKey] = ownerID
	payload[EndpointKey] = Endpoint(kind)

	encoded, err := Encode(payload)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(encoded)
	return Prefix + hex.EncodeToString(sum[:]), nil
}

// Verify recomputes the proof for (ownerID, kind, fields) and compares it with
// proofHash. Hex case is ignored.
func Verify(proofHash, ownerID, kind string, fields map[string]any) (bool, error) {
	computed, err := Hash(ownerID, kind, fields)
	if err != nil {
		return false, err
	}
	given := strings.ToLower(strings.TrimSpace(proofHash))
	return subtle.ConstantTimeCompare([]byte(given), []byte(computed)) == 1, nil
}

package models

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// WildcardSegment replaces id-like path segments in normalized endpoints.
const WildcardSegment = "*"

const fingerprintLength = 16

// Fingerprint identifies a client by source address and user agent. Collisions between
// unrelated clients only merge their buckets; it is not an authentication boundary.
func Fingerprint(sourceAddress, userAgent string) string {
	sum := sha256.Sum256([]byte(sourceAddress + ":" + userAgent))
	return hex.EncodeToString(sum[:])[:fingerprintLength]
}

// NormalizeEndpoint strips the query string and folds id-like segments into a wildcard so
// /api/passwords/<uuid-a> and /api/passwords/<uuid-b> share one window.
func NormalizeEndpoint(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "/"
	}
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if isIDSegment(seg) {
			segments[i] = WildcardSegment
		}
	}
	return strings.Join(segments, "/")
}

// isIDSegment matches numeric ids, UUIDs and long hex digests, and dashed slugs that
// carry a digit (abc-123).
func isIDSegment(seg string) bool {
	if seg == "" {
		return false
	}
	var digits, hex, dashes, other int
	for _, r := range seg {
		switch {
		case r >= '0' && r <= '9':
			digits++
			hex++
		case (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F'):
			hex++
		case r == '-':
			dashes++
		case (r >= 'g' && r <= 'z') || (r >= 'G' && r <= 'Z') || r == '_':
			other++
		default:
			return false
		}
	}
	switch {
	case digits == len(seg):
		return true
	case other == 0 && hex+dashes == len(seg) && len(seg) >= 8 && hex > 0:
		return true
	case dashes > 0 && digits > 0:
		return true
	}
	return false
}

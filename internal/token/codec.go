package token

import (
	"encoding/base64"
	"strings"
)

// Encode returns the URL-safe base64 form of b without padding, the
// alphabet used for every token segment.
func Encode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// Decode reverses Encode. Trailing '=' padding is tolerated because some
// clients re-pad segments before replaying them; any other malformed input
// is an error the caller must treat as an invalid token. Strict mode makes
// non-zero trailing bits an error, so no two distinct inputs decode to the
// same bytes.
func Decode(s string) ([]byte, error) {
	return base64.RawURLEncoding.Strict().DecodeString(strings.TrimRight(s, "="))
}

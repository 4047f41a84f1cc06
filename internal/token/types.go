package token

// Claims is the signed payload of a token and, once verified, the only
// trusted representation of the requesting user. ExpiresAt is a pointer
// because the claim may be absent on the wire; Generate always sets it.
// The struct field order fixes the serialized key order, which keeps
// minting deterministic.
type Claims struct {
	UserID    int64  `json:"user_id"`  // Unique user identifier
	Username  string `json:"username"` // Username or display name
	Email     string `json:"email"`    // User email address
	IssuedAt  int64  `json:"iat,omitempty"`
	ExpiresAt *int64 `json:"exp,omitempty"`
}

// CreateTokenParams contains the identity fields minted into a new token.
// Temporal claims are never accepted from callers.
type CreateTokenParams struct {
	UserID   int64  // Unique user identifier
	Username string // Username or display name
	Email    string // User email address
}

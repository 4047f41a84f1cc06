package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// headerJSON is the fixed first segment before encoding. The exact byte
// layout is part of the wire format.
const headerJSON = `{"typ":"JWT","alg":"HS256"}`

var encodedHeader = Encode([]byte(headerJSON))

// Verification failures. Callers at the HTTP boundary must collapse all of
// them into one generic rejection; the distinctions exist for logging only.
var (
	ErrMalformedToken   = errors.New("token is malformed")
	ErrInvalidSignature = errors.New("token signature mismatch")
	ErrTokenExpired     = errors.New("token is expired")
	ErrMissingExpiry    = errors.New("token carries no exp claim")
)

// Options configures a Manager. The secret and validity window are fixed
// for the life of the process; rotating the secret invalidates every
// outstanding token at once.
type Options struct {
	Secret   string
	Validity time.Duration

	// RequireExpiry rejects tokens that carry no exp claim. Off by default:
	// historically such tokens were accepted as non-expiring, and deployments
	// with tokens already in the wild rely on that.
	RequireExpiry bool
}

// Manager handles token creation and verification using a shared secret and
// validity window. It holds no mutable state, so a single instance serves
// any number of concurrent requests.
type Manager struct {
	secret        []byte
	validity      time.Duration
	requireExpiry bool
	now           func() time.Time
}

// NewManager creates a new token Manager from the given options.
func NewManager(opts Options) *Manager {
	return &Manager{
		secret:        []byte(opts.Secret),
		validity:      opts.Validity,
		requireExpiry: opts.RequireExpiry,
		now:           time.Now,
	}
}

// Generate mints a signed token for the given identity. iat and exp are set
// here, exp exactly iat plus the validity window. The result is
// deterministic for a given identity and instant.
func (m *Manager) Generate(params CreateTokenParams) (string, error) {
	now := m.now().Unix()
	exp := now + int64(m.validity/time.Second)
	claims := Claims{
		UserID:    params.UserID,
		Username:  params.Username,
		Email:     params.Email,
		IssuedAt:  now,
		ExpiresAt: &exp,
	}
	payload, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}
	signingInput := encodedHeader + "." + Encode(payload)
	return signingInput + "." + Encode(m.sign(signingInput)), nil
}

// Verify parses and validates a token string, returning the claims only
// when the signature checks out and the token has not expired. The expiry
// boundary is exp < now: a token expiring this very second still passes.
func (m *Manager) Verify(tokenStr string) (*Claims, error) {
	parts := strings.Split(tokenStr, ".")
	if len(parts) != 3 {
		return nil, ErrMalformedToken
	}
	sig, err := Decode(parts[2])
	if err != nil {
		return nil, ErrMalformedToken
	}
	// Signature first, in constant time, before touching the payload.
	if !hmac.Equal(m.sign(parts[0]+"."+parts[1]), sig) {
		return nil, ErrInvalidSignature
	}
	payload, err := Decode(parts[1])
	if err != nil {
		return nil, ErrMalformedToken
	}
	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, ErrMalformedToken
	}
	switch {
	case claims.ExpiresAt == nil:
		if m.requireExpiry {
			return nil, ErrMissingExpiry
		}
	case *claims.ExpiresAt < m.now().Unix():
		return nil, ErrTokenExpired
	}
	return &claims, nil
}

func (m *Manager) sign(input string) []byte {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(input))
	return mac.Sum(nil)
}

// Package sessioncookie signs and stores the browser session cookie.
//
// The cookie value is an HS256 JWT whose jti is the server-side session id.
// Only the id travels to the browser; the directory token stays in storage.
package sessioncookie

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/louisbranch/userdirectory/internal/services/web/platform/requestmeta"
)

// Name is the session cookie name.
const Name = "ud_session"

const issuer = "userdirectory-web"

var (
	// ErrMissingKey reports a codec built without a signing key.
	ErrMissingKey = errors.New("session signing key is required")
	// ErrInvalidCookie reports a cookie whose signature, expiry or claims do not verify.
	ErrInvalidCookie = errors.New("invalid session cookie")
)

// Claims are the verified contents of a session cookie.
type Claims struct {
	SessionID string
	ExpiresAt time.Time
}

type cookieClaims struct {
	jwt.RegisteredClaims
}

// Codec signs and verifies session cookie values.
type Codec struct {
	key    []byte
	policy requestmeta.SchemePolicy
	now    func() time.Time
}

// NewCodec builds a codec for key. The policy decides the Secure attribute.
func NewCodec(key []byte, policy requestmeta.SchemePolicy) (*Codec, error) {
	if len(key) == 0 {
		return nil, ErrMissingKey
	}
	return &Codec{key: append([]byte(nil), key...), policy: policy, now: time.Now}, nil
}

// Encode returns a signed cookie value for sessionID expiring at expiresAt.
func (c *Codec) Encode(sessionID string, expiresAt time.Time) (string, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return "", fmt.Errorf("session id is required")
	}
	now := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, cookieClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	signed, err := token.SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("sign session cookie: %w", err)
	}
	return signed, nil
}

// Decode verifies value and returns its claims.
func (c *Codec) Decode(value string) (Claims, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Claims{}, ErrInvalidCookie
	}
	var claims cookieClaims
	_, err := jwt.ParseWithClaims(value, &claims, func(*jwt.Token) (any, error) {
		return c.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidCookie, err)
	}
	sessionID := strings.TrimSpace(claims.ID)
	if sessionID == "" {
		return Claims{}, ErrInvalidCookie
	}
	return Claims{SessionID: sessionID, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Read returns the verified claims of the request's session cookie.
func (c *Codec) Read(r *http.Request) (Claims, bool) {
	value, ok := Raw(r)
	if !ok {
		return Claims{}, false
	}
	claims, err := c.Decode(value)
	if err != nil {
		return Claims{}, false
	}
	return claims, true
}

// Write signs sessionID and sets it as the session cookie.
func (c *Codec) Write(w http.ResponseWriter, r *http.Request, sessionID string, expiresAt time.Time) error {
	if w == nil {
		return fmt.Errorf("response writer is required")
	}
	value, err := c.Encode(sessionID, expiresAt)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     Name,
		Value:    value,
		Path:     "/",
		Expires:  expiresAt.UTC(),
		HttpOnly: true,
		Secure:   c.policy.IsHTTPS(r),
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear expires the session cookie.
func (c *Codec) Clear(w http.ResponseWriter, r *http.Request) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.policy.IsHTTPS(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// Raw returns the unverified cookie value when present.
func Raw(r *http.Request) (string, bool) {
	if r == nil {
		return "", false
	}
	cookie, err := r.Cookie(Name)
	if err != nil {
		return "", false
	}
	value := strings.TrimSpace(cookie.Value)
	return value, value != ""
}

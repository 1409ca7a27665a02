// Lightweight HMAC‑SHA256 JWT verifier used by the control-plane facade for
// bearer-token authentication. The implementation deliberately avoids
// advanced JWT conventions (kid, JWKs) to keep the dependency surface
// minimal, and issues nothing: this control plane never mints its own
// tokens, only validates ones issued out-of-band.
//
// External dependency: github.com/golang-jwt/jwt/v5 (MIT).
package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Verifier validates HMAC‑signed tokens.
type Verifier struct {
	secret []byte
	issuer string
	clock  func() time.Time
}

// NewVerifier constructs a verifier with expected issuer.
func NewVerifier(secret []byte, issuer string) *Verifier {
	return &Verifier{secret: secret, issuer: issuer, clock: time.Now}
}

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token expired")
	ErrIssuerMismatch = errors.New("issuer mismatch")
)

// ParseAndVerify parses tokenStr and returns claims after validating signature,
// expiry and issuer.
func (v *Verifier) ParseAndVerify(tokenStr string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if v.issuer != "" && claims["iss"] != v.issuer {
		return nil, ErrIssuerMismatch
	}
	return claims, nil
}

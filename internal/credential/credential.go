package credential

import (
	"time"

	"github.com/google/uuid"

	"github.com/kittynxr/maowbot/internal/event"
)

// Kind enumerates the credential shapes the manager knows how to mint and
// refresh.
type Kind string

const (
	KindOAuth2         Kind = "oauth2"
	KindAPIKey         Kind = "apikey"
	KindBearer         Kind = "bearer"
	KindJWT            Kind = "jwt"
	KindVC             Kind = "vc"
	KindInteractive2FA Kind = "interactive2fa"
)

// Credential is the persisted shape. PrimaryToken, RefreshToken and
// AdditionalData are always ciphertext (base64 nonce||ciphertext+tag) at
// rest; callers obtain plaintext only through Manager, never through Store
// directly.
type Credential struct {
	ID             uuid.UUID       `json:"credential_id"`
	Platform       event.Platform  `json:"platform"`
	AccountLabel   string          `json:"account_label"`
	Kind           Kind            `json:"kind"`
	PrimaryToken   string          `json:"primary_token"`
	RefreshToken   string          `json:"refresh_token,omitempty"`
	AdditionalData string          `json:"additional_data,omitempty"`
	UserID         uuid.UUID       `json:"user_id"`
	ExpiresAt      *time.Time      `json:"expires_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Clone returns a deep-enough copy safe for callers to mutate without
// affecting the store's internal state.
func (c Credential) Clone() Credential {
	if c.ExpiresAt != nil {
		t := *c.ExpiresAt
		c.ExpiresAt = &t
	}
	return c
}

// IsValid reports whether the credential is usable right now: ExpiresAt is
// either unset or strictly in the future.
func (c Credential) IsValid(now time.Time) bool {
	return c.ExpiresAt == nil || c.ExpiresAt.After(now)
}

// NeedsReauth reports whether this credential cannot be silently refreshed:
// it is an OAuth2 credential past expiry with no refresh token.
func (c Credential) NeedsReauth(now time.Time) bool {
	return c.Kind == KindOAuth2 && !c.IsValid(now) && c.RefreshToken == ""
}

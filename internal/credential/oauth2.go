package credential

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/kittynxr/maowbot/internal/apperr"
	"github.com/kittynxr/maowbot/internal/event"
	"github.com/kittynxr/maowbot/internal/util"
)

// OAuth2Authenticator implements Authenticator for any platform whose auth
// flow is standard OAuth2 authorization-code-with-refresh (Twitch, Discord).
// Encryption of the resulting Credential's token fields is the Manager's
// responsibility; this type only ever sees plaintext oauth2.Token values.
type OAuth2Authenticator struct {
	Platform event.Platform
	Config   *oauth2.Config
	UserID   func(ctx context.Context, tok *oauth2.Token) (string, error)

	// pending maps an oauth2 state value to the label/is_bot the flow was
	// started for. CompleteAuth does not read it; it takes the label from
	// the response's "label" value.
	pendingMu sync.Mutex
	pending   map[string]pendingAuth
}

type pendingAuth struct {
	label string
	isBot bool
}

// NewOAuth2Authenticator constructs an authenticator for platform using cfg.
func NewOAuth2Authenticator(platform event.Platform, cfg *oauth2.Config, userID func(context.Context, *oauth2.Token) (string, error)) *OAuth2Authenticator {
	return &OAuth2Authenticator{
		Platform: platform,
		Config:   cfg,
		UserID:   userID,
		pending:  make(map[string]pendingAuth),
	}
}

func (a *OAuth2Authenticator) BeginAuth(_ context.Context, isBot bool, label string) (Prompt, error) {
	state, err := util.New()
	if err != nil {
		return Prompt{}, apperr.Wrap(apperr.KindAuth, "generating oauth2 state", err)
	}
	a.pendingMu.Lock()
	a.pending[state] = pendingAuth{label: label, isBot: isBot}
	a.pendingMu.Unlock()

	url := a.Config.AuthCodeURL(state, oauth2.AccessTypeOffline)
	return Prompt{Kind: PromptBrowserRedirect, URL: url}, nil
}

func (a *OAuth2Authenticator) CompleteAuth(ctx context.Context, resp AuthenticationResponse) (Credential, error) {
	if resp.Code == "" {
		return Credential{}, apperr.New(apperr.KindAuth, "missing authorization code")
	}
	tok, err := a.Config.Exchange(ctx, resp.Code)
	if err != nil {
		return Credential{}, apperr.Wrap(apperr.KindAuth, "exchanging authorization code", err)
	}
	return a.credentialFromToken(ctx, tok, resp.Values["label"])
}

func (a *OAuth2Authenticator) Refresh(ctx context.Context, cred Credential) (Credential, error) {
	if cred.RefreshToken == "" {
		return Credential{}, apperr.New(apperr.KindAuth, "credential has no refresh token")
	}
	src := a.Config.TokenSource(ctx, &oauth2.Token{RefreshToken: cred.RefreshToken})
	tok, err := src.Token()
	if err != nil {
		return Credential{}, apperr.Wrap(apperr.KindPlatform, "refreshing oauth2 token", err)
	}
	refreshed, err := a.credentialFromToken(ctx, tok, cred.AccountLabel)
	if err != nil {
		return Credential{}, err
	}
	refreshed.ID = cred.ID
	refreshed.UserID = cred.UserID
	if refreshed.RefreshToken == "" {
		// Some providers omit refresh_token on renewal; carry the old one
		// forward rather than dropping refresh capability entirely.
		refreshed.RefreshToken = cred.RefreshToken
	}
	return refreshed, nil
}

func (a *OAuth2Authenticator) Revoke(ctx context.Context, cred Credential) error {
	// Standard oauth2.Config has no revoke endpoint; platforms that support
	// one plug in via their own Authenticator wrapping this type. Absent
	// that, revocation is local-only: the Manager deletes the store row.
	return nil
}

func (a *OAuth2Authenticator) IsValid(_ context.Context, cred Credential) bool {
	return cred.IsValid(time.Now().UTC())
}

func (a *OAuth2Authenticator) credentialFromToken(ctx context.Context, tok *oauth2.Token, label string) (Credential, error) {
	var uid string
	if a.UserID != nil {
		id, err := a.UserID(ctx, tok)
		if err != nil {
			return Credential{}, apperr.Wrap(apperr.KindPlatform, "resolving platform user id", err)
		}
		uid = id
	}
	extra, _ := json.Marshal(map[string]any{"platform_user_id": uid})
	var expiresAt *time.Time
	if !tok.Expiry.IsZero() {
		e := tok.Expiry.UTC()
		expiresAt = &e
	}
	return Credential{
		Platform:       a.Platform,
		AccountLabel:   label,
		Kind:           KindOAuth2,
		PrimaryToken:   tok.AccessToken,
		RefreshToken:   tok.RefreshToken,
		AdditionalData: string(extra),
		ExpiresAt:      expiresAt,
	}, nil
}

var _ Authenticator = (*OAuth2Authenticator)(nil)

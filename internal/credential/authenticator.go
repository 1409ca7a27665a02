package credential

import "context"

// PromptKind discriminates the Prompt tagged variant.
type PromptKind string

const (
	PromptBrowserRedirect PromptKind = "browser_redirect"
	PromptMultiple        PromptKind = "multiple"
	PromptCode            PromptKind = "code"
	PromptAPIKey          PromptKind = "api_key"
	PromptNone            PromptKind = "none"
)

// Prompt tells the caller what input is needed to complete an auth flow.
type Prompt struct {
	Kind      PromptKind
	URL       string   // BrowserRedirect
	Fields    []string // Multiple
	TwoFactor bool     // Code
}

// AuthenticationResponse carries whatever the caller collected in reaction
// to a Prompt back to the authenticator.
type AuthenticationResponse struct {
	// Code is the OAuth2 authorization code (BrowserRedirect) or the 2FA
	// code (Code).
	Code string
	// Values holds named field answers for PromptMultiple, keyed by the
	// Fields names from the originating Prompt.
	Values map[string]string
	// APIKey is the raw key for PromptAPIKey.
	APIKey string
}

// AuthenticationHandler is the capability the caller injects so the manager
// can relay a Prompt out of process (to a CLI, GUI, or gRPC client) and
// receive the matching AuthenticationResponse.
type AuthenticationHandler interface {
	Handle(ctx context.Context, prompt Prompt) (AuthenticationResponse, error)
}

// Authenticator is the per-platform contract for minting, refreshing, and
// revoking credentials.
type Authenticator interface {
	BeginAuth(ctx context.Context, isBot bool, label string) (Prompt, error)
	CompleteAuth(ctx context.Context, resp AuthenticationResponse) (Credential, error)
	Refresh(ctx context.Context, cred Credential) (Credential, error)
	Revoke(ctx context.Context, cred Credential) error
	IsValid(ctx context.Context, cred Credential) bool
}

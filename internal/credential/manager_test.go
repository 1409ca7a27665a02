package credential

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kittynxr/maowbot/internal/event"
	"github.com/kittynxr/maowbot/internal/eventbus"
)

// countingAuthenticator counts calls to Refresh so the test can assert the
// singleflight coalescing invariant: two concurrent refreshes of the same
// credential make exactly one authenticator call.
type countingAuthenticator struct {
	calls int32
}

func (c *countingAuthenticator) BeginAuth(context.Context, bool, string) (Prompt, error) {
	return Prompt{Kind: PromptNone}, nil
}

func (c *countingAuthenticator) CompleteAuth(context.Context, AuthenticationResponse) (Credential, error) {
	return Credential{}, nil
}

func (c *countingAuthenticator) Refresh(_ context.Context, cred Credential) (Credential, error) {
	atomic.AddInt32(&c.calls, 1)
	// Simulate network latency so both callers are in flight together.
	time.Sleep(20 * time.Millisecond)
	cred.PrimaryToken = "refreshed-token"
	future := time.Now().UTC().Add(time.Hour)
	cred.ExpiresAt = &future
	return cred, nil
}

func (c *countingAuthenticator) Revoke(context.Context, Credential) error { return nil }

func (c *countingAuthenticator) IsValid(_ context.Context, cred Credential) bool {
	return cred.IsValid(time.Now().UTC())
}

func newTestManager(t *testing.T) (*Manager, *countingAuthenticator) {
	t.Helper()
	store := NewMemStore()
	enc, err := NewAEADEncryptor(testKey())
	if err != nil {
		t.Fatalf("NewAEADEncryptor: %v", err)
	}
	bus := eventbus.New()
	mgr := NewManager(store, enc, bus)
	auth := &countingAuthenticator{}
	mgr.RegisterAuthenticator(event.PlatformTwitchEventSub, auth)
	return mgr, auth
}

func TestRefreshCredentialCoalescesConcurrentCalls(t *testing.T) {
	mgr, auth := newTestManager(t)
	ctx := context.Background()

	initial := Credential{
		Platform:     event.PlatformTwitchEventSub,
		AccountLabel: "main",
		Kind:         KindOAuth2,
		PrimaryToken: "old-token",
		RefreshToken: "refresh-token",
	}
	enc, err := mgr.encryptFields(initial)
	if err != nil {
		t.Fatalf("encryptFields: %v", err)
	}
	if err := mgr.store.Store(ctx, enc); err != nil {
		t.Fatalf("Store: %v", err)
	}

	var wg sync.WaitGroup
	results := make([]Credential, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = mgr.RefreshCredential(ctx, event.PlatformTwitchEventSub, "main")
		}()
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("RefreshCredential[%d]: %v", i, err)
		}
	}
	if got := atomic.LoadInt32(&auth.calls); got != 1 {
		t.Fatalf("expected exactly 1 authenticator call, got %d", got)
	}
	if results[0].PrimaryToken != results[1].PrimaryToken {
		t.Fatalf("expected identical refreshed tokens, got %q and %q", results[0].PrimaryToken, results[1].PrimaryToken)
	}
	if results[0].PrimaryToken != "refreshed-token" {
		t.Fatalf("unexpected token: %q", results[0].PrimaryToken)
	}
}

func TestCredentialNeedsReauth(t *testing.T) {
	past := time.Now().UTC().Add(-time.Hour)
	c := Credential{Kind: KindOAuth2, ExpiresAt: &past}
	if !c.NeedsReauth(time.Now().UTC()) {
		t.Fatal("expected NeedsReauth for expired oauth2 credential with no refresh token")
	}
	c.RefreshToken = "present"
	if c.NeedsReauth(time.Now().UTC()) {
		t.Fatal("expected NeedsReauth false when refresh token present")
	}
}

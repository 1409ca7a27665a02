package credential

import (
	"context"
	"sync"
	"time"

	"github.com/kittynxr/maowbot/internal/apperr"
	"github.com/kittynxr/maowbot/internal/event"
)

// Store is the repository contract for credential persistence. It operates
// purely on already-encrypted fields; encryption/decryption is the Manager's
// job, not the store's.
type Store interface {
	Store(ctx context.Context, cred Credential) error
	Get(ctx context.Context, platform event.Platform, accountLabel string) (Credential, error)
	Update(ctx context.Context, cred Credential) error
	Delete(ctx context.Context, platform event.Platform, accountLabel string) error
	ListExpiring(ctx context.Context, within time.Duration) ([]Credential, error)
	ListAll(ctx context.Context, platform event.Platform) ([]Credential, error)
}

type credKey struct {
	platform event.Platform
	account  string
}

// MemStore is an in-memory Store keyed by (platform, account_label), the
// uniqueness invariant every credential must satisfy. Reads return deep
// copies so callers can't mutate internal state through the returned value.
type MemStore struct {
	mu    sync.RWMutex
	byKey map[credKey]Credential
}

// NewMemStore returns an empty, ready-to-use MemStore.
func NewMemStore() *MemStore {
	return &MemStore{byKey: make(map[credKey]Credential)}
}

func (s *MemStore) Store(_ context.Context, cred Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := credKey{cred.Platform, cred.AccountLabel}
	if _, exists := s.byKey[k]; exists {
		return apperr.New(apperr.KindInvalidInput, "credential already exists for platform/account")
	}
	now := time.Now().UTC()
	cred.CreatedAt, cred.UpdatedAt = now, now
	s.byKey[k] = cred.Clone()
	return nil
}

func (s *MemStore) Get(_ context.Context, platform event.Platform, accountLabel string) (Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byKey[credKey{platform, accountLabel}]
	if !ok {
		return Credential{}, apperr.New(apperr.KindNotFound, "credential not found")
	}
	return c.Clone(), nil
}

func (s *MemStore) Update(_ context.Context, cred Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := credKey{cred.Platform, cred.AccountLabel}
	existing, ok := s.byKey[k]
	if !ok {
		return apperr.New(apperr.KindNotFound, "credential not found")
	}
	cred.CreatedAt = existing.CreatedAt
	cred.UpdatedAt = time.Now().UTC()
	s.byKey[k] = cred.Clone()
	return nil
}

func (s *MemStore) Delete(_ context.Context, platform event.Platform, accountLabel string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := credKey{platform, accountLabel}
	if _, ok := s.byKey[k]; !ok {
		return apperr.New(apperr.KindNotFound, "credential not found")
	}
	delete(s.byKey, k)
	return nil
}

func (s *MemStore) ListExpiring(_ context.Context, within time.Duration) ([]Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cutoff := time.Now().UTC().Add(within)
	out := make([]Credential, 0)
	for _, c := range s.byKey {
		if c.ExpiresAt != nil && c.ExpiresAt.Before(cutoff) {
			out = append(out, c.Clone())
		}
	}
	return out, nil
}

// ListAll returns every stored credential, optionally filtered to one
// platform (pass "" for every platform). Used by the control-plane facade's
// ListCredentials; tokens are still ciphertext — the facade never decrypts
// on this path since it only reports metadata, never raw tokens.
func (s *MemStore) ListAll(_ context.Context, platform event.Platform) ([]Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Credential, 0, len(s.byKey))
	for k, c := range s.byKey {
		if platform != "" && k.platform != platform {
			continue
		}
		out = append(out, c.Clone())
	}
	return out, nil
}

var _ Store = (*MemStore)(nil)

package pluginsvc

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/kittynxr/maowbot/internal/apperr"
)

// Store is the on-disk enable/disable table for registered plugins: a
// disabled plugin's Hello is answered with AuthError until an operator
// re-enables it. Kept as one small JSON file rather than a database table
// since this is the only piece of plugin-session state that must survive a
// restart.
type Store struct {
	mu       sync.Mutex
	path     string
	disabled map[string]bool
}

type storeFile struct {
	Disabled []string `json:"disabled"`
}

// NewStore loads path if it exists, or starts with an empty table.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path, disabled: make(map[string]bool)}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindRepository, "pluginsvc: reading plugin state file", err)
	}
	var f storeFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, apperr.Wrap(apperr.KindRepository, "pluginsvc: parsing plugin state file", err)
	}
	for _, name := range f.Disabled {
		s.disabled[name] = true
	}
	return s, nil
}

// IsDisabled reports whether name is currently disabled.
func (s *Store) IsDisabled(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disabled[name]
}

// SetDisabled marks name disabled or re-enables it, persisting the change.
func (s *Store) SetDisabled(name string, disabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if disabled {
		s.disabled[name] = true
	} else {
		delete(s.disabled, name)
	}
	return s.save()
}

func (s *Store) save() error {
	f := storeFile{Disabled: make([]string, 0, len(s.disabled))}
	for name := range s.disabled {
		f.Disabled = append(f.Disabled, name)
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "pluginsvc: encoding plugin state file", err)
	}

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return apperr.Wrap(apperr.KindRepository, "pluginsvc: creating plugin state directory", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return apperr.Wrap(apperr.KindRepository, "pluginsvc: writing plugin state file", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return apperr.Wrap(apperr.KindRepository, "pluginsvc: committing plugin state file", err)
	}
	return nil
}

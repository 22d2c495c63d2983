// Package localstore is the local persistence mode: JSON values in named slots on a
// key/value backend. Get and Put report failures; Load, Save and the typed slot
// helpers never fail outward, they log and hand back the fallback.
package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"agenda_backend/internal/models"
	"agenda_backend/pkg/utils"
)

const (
	SlotServices     = "services"
	SlotAppointments = "appointments"
	SlotUser         = "user"

	defaultTimeout = 3 * time.Second
)

// Store maps slots to namespaced keys on a Backend.
type Store struct {
	backend   Backend
	namespace string
	timeout   time.Duration
}

// New creates a Store. namespace prefixes every key, e.g. "nails".
func New(backend Backend, namespace string) *Store {
	return &Store{backend: backend, namespace: namespace, timeout: defaultTimeout}
}

// WithNamespace returns a Store whose keys live under an extra namespace segment,
// used to keep one operator's slots apart from another's.
func (s *Store) WithNamespace(sub string) *Store {
	sub = strings.ToLower(strings.TrimSpace(sub))
	if sub == "" {
		return s
	}
	return &Store{backend: s.backend, namespace: s.Key(sub), timeout: s.timeout}
}

// Key is the backend key for a slot.
func (s *Store) Key(slot string) string {
	if s.namespace == "" {
		return slot
	}
	return s.namespace + "." + slot
}

// Get reads slot. ok is false when the slot is absent or empty.
func Get[T any](s *Store, slot string) (value T, ok bool, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	key := s.Key(slot)
	raw, found, err := s.backend.Get(ctx, key)
	if err != nil {
		return value, false, fmt.Errorf("read %s: %w", key, err)
	}
	if !found || len(raw) == 0 {
		return value, false, nil
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		return value, false, fmt.Errorf("decode %s: %w", key, err)
	}
	return value, true, nil
}

// Put writes value into slot. A nil value clears the slot.
func Put[T any](s *Store, slot string, value *T) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	key := s.Key(slot)
	if value == nil {
		if err := s.backend.Delete(ctx, key); err != nil {
			return fmt.Errorf("clear %s: %w", key, err)
		}
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.backend.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Load returns the value stored in slot, or fallback when the slot is absent or
// unreadable.
func Load[T any](s *Store, slot string, fallback T) T {
	value, ok, err := Get[T](s, slot)
	if err != nil {
		utils.LogWarn(err, "Failed to read local store", map[string]interface{}{"key": s.Key(slot)})
		return fallback
	}
	if !ok {
		return fallback
	}
	return value
}

// Save writes value into slot and only logs a failure.
func Save[T any](s *Store, slot string, value *T) {
	if err := Put(s, slot, value); err != nil {
		utils.LogWarn(err, "Failed to write local store", map[string]interface{}{"key": s.Key(slot)})
	}
}

// LoadUser returns nil when no operator is recorded.
func (s *Store) LoadUser() *models.User {
	return Load[*models.User](s, SlotUser, nil)
}

// SaveUser records the operator; nil clears it.
func (s *Store) SaveUser(user *models.User) {
	Save(s, SlotUser, user)
}

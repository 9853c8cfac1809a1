// Package memory is an in-memory implementation of the repository store
// interfaces. It is safe for concurrent use and is intended for tests and
// local development.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/models"
	"github.com/ahmetcoskunkizilkaya/broker-crm/internal/repository"
	"github.com/google/uuid"
)

// Store holds every table behind one lock.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time
	seq int64

	users         map[string]models.User
	clients       map[string]row[models.Client]
	boats         map[string]row[models.Boat]
	refreshTokens map[string]models.RefreshToken
}

type row[T any] struct {
	seq int64
	val T
}

func New() *Store {
	return &Store{
		now:           func() time.Time { return time.Now().UTC() },
		users:         make(map[string]models.User),
		clients:       make(map[string]row[models.Client]),
		boats:         make(map[string]row[models.Boat]),
		refreshTokens: make(map[string]models.RefreshToken),
	}
}

// WithClock replaces the timestamp source. Intended for tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) Stores() repository.Stores {
	return repository.Stores{
		Users:         s.Users(),
		Clients:       s.Clients(),
		Boats:         s.Boats(),
		RefreshTokens: s.RefreshTokens(),
	}
}

func (s *Store) nextSeqLocked() int64 {
	s.seq++
	return s.seq
}

// sortRows orders rows newest first (or oldest first for ASC), breaking
// timestamp ties by insertion order.
func sortRows[T any](rows []row[T], createdAt func(T) time.Time, order string) {
	asc := strings.EqualFold(strings.TrimSpace(order), "created_at ASC")
	sort.SliceStable(rows, func(i, j int) bool {
		ti, tj := createdAt(rows[i].val), createdAt(rows[j].val)
		if !ti.Equal(tj) {
			if asc {
				return ti.Before(tj)
			}
			return ti.After(tj)
		}
		if asc {
			return rows[i].seq < rows[j].seq
		}
		return rows[i].seq > rows[j].seq
	})
}

func page[T any](rows []T, o repository.ListOptions) []T {
	if o.Limit <= 0 {
		return rows
	}
	if o.Offset >= len(rows) {
		return []T{}
	}
	end := o.Offset + o.Limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[o.Offset:end]
}

func containsFold(field *string, needle string) bool {
	if needle == "" {
		return true
	}
	if field == nil {
		return false
	}
	return strings.Contains(strings.ToLower(*field), strings.ToLower(strings.TrimSpace(needle)))
}

func newID() string { return uuid.NewString() }

func checkCtx(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", repository.ErrTimeout, err)
	}
	return nil
}

// Patch values arrive as column -> value; these helpers coerce them into the
// model field types.

func patchString(v interface{}) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case *string:
		if t == nil {
			return "", nil
		}
		return *t, nil
	}
	return "", fmt.Errorf("memory: unsupported string value %T", v)
}

func patchStringPtr(v interface{}) (*string, error) {
	if v == nil {
		return nil, nil
	}
	switch t := v.(type) {
	case string:
		return &t, nil
	case *string:
		return t, nil
	}
	return nil, fmt.Errorf("memory: unsupported string value %T", v)
}

func patchIntPtr(v interface{}) (*int, error) {
	if v == nil {
		return nil, nil
	}
	switch t := v.(type) {
	case int:
		return &t, nil
	case *int:
		return t, nil
	}
	return nil, fmt.Errorf("memory: unsupported int value %T", v)
}

func patchInt64Ptr(v interface{}) (*int64, error) {
	if v == nil {
		return nil, nil
	}
	switch t := v.(type) {
	case int64:
		return &t, nil
	case *int64:
		return t, nil
	}
	return nil, fmt.Errorf("memory: unsupported int64 value %T", v)
}

func patchTimePtr(v interface{}) (*time.Time, error) {
	if v == nil {
		return nil, nil
	}
	switch t := v.(type) {
	case time.Time:
		return &t, nil
	case *time.Time:
		return t, nil
	}
	return nil, fmt.Errorf("memory: unsupported time value %T", v)
}

func patchBool(v interface{}) (bool, error) {
	if b, ok := v.(bool); ok {
		return b, nil
	}
	return false, fmt.Errorf("memory: unsupported bool value %T", v)
}

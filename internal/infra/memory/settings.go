package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// StaticSettings is an app.SettingsProvider backed by a map, for tests and
// the no-profile-service fallback. Users without an entry get the default.
type StaticSettings struct {
	mu           sync.RWMutex
	limits       map[uuid.UUID]int
	defaultLimit int
}

func NewStaticSettings(defaultLimit int) *StaticSettings {
	return &StaticSettings{
		limits:       make(map[uuid.UUID]int),
		defaultLimit: defaultLimit,
	}
}

// SetLimit sets a user's max_question_repetitions. Zero means unlimited.
func (s *StaticSettings) SetLimit(userID uuid.UUID, limit int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limits[userID] = limit
}

func (s *StaticSettings) MaxRepetitions(_ context.Context, userID uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit, ok := s.limits[userID]; ok {
		return limit, nil
	}
	return s.defaultLimit, nil
}

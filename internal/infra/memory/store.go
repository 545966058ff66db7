// Package memory provides in-process implementations of every storage port.
// The server runs on them when Postgres is not configured, and the app tests
// use them directly.
package memory

import (
	"context"
	"sync"

	"github.com/Solvro/backend-testownik-sub000/internal/domain"
	"github.com/google/uuid"
)

// Store is the shared in-memory state backing the repository implementations.
type Store struct {
	mu       sync.Mutex
	quizzes  map[uuid.UUID]*domain.Quiz
	sessions map[uuid.UUID]*domain.QuizSession
	records  []*domain.AnswerRecord
	shares   []*domain.SharedQuiz
	folders  map[uuid.UUID]*domain.Folder
	assets   map[uuid.UUID]*domain.ImageAsset
	groups   map[uuid.UUID][]uuid.UUID
}

func NewStore() *Store {
	return &Store{
		quizzes:  make(map[uuid.UUID]*domain.Quiz),
		sessions: make(map[uuid.UUID]*domain.QuizSession),
		folders:  make(map[uuid.UUID]*domain.Folder),
		assets:   make(map[uuid.UUID]*domain.ImageAsset),
		groups:   make(map[uuid.UUID][]uuid.UUID),
	}
}

// RunInTx satisfies app.Atomic. The store mutates under a single mutex per
// call, so fn runs directly; rollback fidelity is the Postgres layer's job.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// SeedQuiz registers a quiz tree, for tests and the demo fallback.
func (s *Store) SeedQuiz(quiz *domain.Quiz) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quizzes[quiz.ID] = quiz
}

// SeedAsset registers an image asset row.
func (s *Store) SeedAsset(asset *domain.ImageAsset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets[asset.ID] = asset
}

// SeedGroup registers a study group's membership.
func (s *Store) SeedGroup(groupID uuid.UUID, members []uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups[groupID] = append([]uuid.UUID(nil), members...)
}

// SeedFolder registers a folder node.
func (s *Store) SeedFolder(folder *domain.Folder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.folders[folder.ID] = folder
}

// AssetCount reports the number of asset rows; clone tests assert it stays
// unchanged.
func (s *Store) AssetCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.assets)
}

// QuizCount reports the number of stored quizzes.
func (s *Store) QuizCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.quizzes)
}

// Quiz returns a stored quiz tree by id.
func (s *Store) Quiz(id uuid.UUID) (*domain.Quiz, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	quiz, ok := s.quizzes[id]
	return quiz, ok
}

// Exists satisfies app.AssetStore.
func (s *Store) Exists(_ context.Context, assetID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.assets[assetID]
	return ok, nil
}

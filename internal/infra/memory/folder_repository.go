package memory

import (
	"context"

	"github.com/Solvro/backend-testownik-sub000/internal/domain"
	"github.com/google/uuid"
)

// FolderRepository implements app.FolderRepository.
type FolderRepository struct {
	store *Store
}

func NewFolderRepository(store *Store) *FolderRepository {
	return &FolderRepository{store: store}
}

func (r *FolderRepository) ByID(_ context.Context, ownerID, folderID uuid.UUID) (*domain.Folder, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	folder, ok := r.store.folders[folderID]
	if !ok || folder.OwnerID != ownerID {
		return nil, domain.ErrFolderNotFound
	}
	return folder, nil
}

func (r *FolderRepository) Archive(_ context.Context, ownerID uuid.UUID) (*domain.Folder, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, folder := range r.store.folders {
		if folder.OwnerID == ownerID && folder.Kind == domain.FolderKindArchive {
			return folder, nil
		}
	}
	folder := &domain.Folder{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Name:    "Archive",
		Kind:    domain.FolderKindArchive,
	}
	r.store.folders[folder.ID] = folder
	return folder, nil
}

func (r *FolderRepository) Create(_ context.Context, folder *domain.Folder) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.folders[folder.ID] = folder
	return nil
}

func (r *FolderRepository) Update(_ context.Context, folder *domain.Folder) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.folders[folder.ID]
	if !ok {
		return domain.ErrFolderNotFound
	}
	*stored = *folder
	return nil
}

func (r *FolderRepository) Delete(_ context.Context, ownerID, folderID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	folder, ok := r.store.folders[folderID]
	if !ok || folder.OwnerID != ownerID {
		return domain.ErrFolderNotFound
	}
	delete(r.store.folders, folderID)
	return nil
}

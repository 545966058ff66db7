package app

import (
	"context"

	"github.com/Solvro/backend-testownik-sub000/internal/domain"
	"github.com/google/uuid"
)

// Folders manages the owner-scoped folder tree. The archive folder is system
// managed and refuses rename, move, delete and re-typing; moves that would
// make a folder its own ancestor are rejected with an explicit walk, not by
// leaning on constraint behavior.
type Folders struct {
	folders FolderRepository
	atomic  Atomic
	newID   func() uuid.UUID
}

func NewFolders(folders FolderRepository, atomic Atomic) *Folders {
	return &Folders{folders: folders, atomic: atomic, newID: uuid.New}
}

// Archive returns the owner's archive folder, creating it on first use.
func (f *Folders) Archive(ctx context.Context, ownerID uuid.UUID) (*domain.Folder, error) {
	return f.folders.Archive(ctx, ownerID)
}

// Create adds a normal folder under the given parent, or at the root when
// parent is nil. The parent must belong to the same owner.
func (f *Folders) Create(ctx context.Context, ownerID uuid.UUID, name string, parent *uuid.UUID) (*domain.Folder, error) {
	if parent != nil {
		if _, err := f.folders.ByID(ctx, ownerID, *parent); err != nil {
			return nil, err
		}
	}
	folder := &domain.Folder{
		ID:       f.newID(),
		OwnerID:  ownerID,
		ParentID: parent,
		Name:     name,
		Kind:     domain.FolderKindNormal,
	}
	if err := f.folders.Create(ctx, folder); err != nil {
		return nil, err
	}
	return folder, nil
}

// Rename changes a folder's name.
func (f *Folders) Rename(ctx context.Context, ownerID, folderID uuid.UUID, name string) (*domain.Folder, error) {
	folder, err := f.folders.ByID(ctx, ownerID, folderID)
	if err != nil {
		return nil, err
	}
	if folder.Kind == domain.FolderKindArchive {
		return nil, domain.ErrArchiveProtected
	}
	folder.Name = name
	if err := f.folders.Update(ctx, folder); err != nil {
		return nil, err
	}
	return folder, nil
}

// Move re-parents a folder. A nil newParent moves it to the root.
func (f *Folders) Move(ctx context.Context, ownerID, folderID uuid.UUID, newParent *uuid.UUID) (*domain.Folder, error) {
	folder, err := f.folders.ByID(ctx, ownerID, folderID)
	if err != nil {
		return nil, err
	}
	if folder.Kind == domain.FolderKindArchive {
		return nil, domain.ErrArchiveProtected
	}

	if newParent != nil {
		if *newParent == folderID {
			return nil, domain.ErrFolderCycle
		}
		if err := f.checkAncestry(ctx, ownerID, folderID, *newParent); err != nil {
			return nil, err
		}
	}

	var moved *domain.Folder
	err = f.atomic.RunInTx(ctx, func(ctx context.Context) error {
		folder.ParentID = newParent
		if err := f.folders.Update(ctx, folder); err != nil {
			return err
		}
		moved = folder
		return nil
	})
	if err != nil {
		return nil, err
	}
	return moved, nil
}

// Delete removes a folder.
func (f *Folders) Delete(ctx context.Context, ownerID, folderID uuid.UUID) error {
	folder, err := f.folders.ByID(ctx, ownerID, folderID)
	if err != nil {
		return err
	}
	if folder.Kind == domain.FolderKindArchive {
		return domain.ErrArchiveProtected
	}
	return f.folders.Delete(ctx, ownerID, folderID)
}

// checkAncestry walks from the prospective parent to the root and fails if it
// passes through the folder being moved.
func (f *Folders) checkAncestry(ctx context.Context, ownerID, folderID, parentID uuid.UUID) error {
	cursor := &parentID
	for cursor != nil {
		if *cursor == folderID {
			return domain.ErrFolderCycle
		}
		parent, err := f.folders.ByID(ctx, ownerID, *cursor)
		if err != nil {
			return err
		}
		cursor = parent.ParentID
	}
	return nil
}

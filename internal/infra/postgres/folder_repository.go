package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Solvro/backend-testownik-sub000/internal/domain"
	"github.com/google/uuid"
)

// FolderRepository implements app.FolderRepository. The archive folder is
// created lazily under the one-archive-per-owner partial unique index, with
// the same insert-then-refetch pattern the session store uses.
type FolderRepository struct {
	db *DB
}

func NewFolderRepository(db *DB) *FolderRepository {
	return &FolderRepository{db: db}
}

func (r *FolderRepository) ByID(ctx context.Context, ownerID, folderID uuid.UUID) (*domain.Folder, error) {
	folder := new(domain.Folder)
	err := r.db.conn(ctx).NewSelect().
		Model(folder).
		Where("f.id = ?", folderID).
		Where("f.owner_id = ?", ownerID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrFolderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load folder: %w", err)
	}
	return folder, nil
}

func (r *FolderRepository) Archive(ctx context.Context, ownerID uuid.UUID) (*domain.Folder, error) {
	folder := &domain.Folder{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Name:    "Archive",
		Kind:    domain.FolderKindArchive,
	}
	res, err := r.db.conn(ctx).NewInsert().
		Model(folder).
		On("CONFLICT (owner_id) WHERE kind = 1 DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("create archive folder: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 1 {
		return folder, nil
	}

	existing := new(domain.Folder)
	err = r.db.conn(ctx).NewSelect().
		Model(existing).
		Where("f.owner_id = ?", ownerID).
		Where("f.kind = ?", domain.FolderKindArchive).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("load archive folder: %w", err)
	}
	return existing, nil
}

func (r *FolderRepository) Create(ctx context.Context, folder *domain.Folder) error {
	if _, err := r.db.conn(ctx).NewInsert().Model(folder).Exec(ctx); err != nil {
		return fmt.Errorf("insert folder: %w", err)
	}
	return nil
}

func (r *FolderRepository) Update(ctx context.Context, folder *domain.Folder) error {
	res, err := r.db.conn(ctx).NewUpdate().
		Model(folder).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update folder: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return domain.ErrFolderNotFound
	}
	return nil
}

func (r *FolderRepository) Delete(ctx context.Context, ownerID, folderID uuid.UUID) error {
	res, err := r.db.conn(ctx).NewDelete().
		Model((*domain.Folder)(nil)).
		Where("id = ?", folderID).
		Where("owner_id = ?", ownerID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return domain.ErrFolderNotFound
	}
	return nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/Solvro/backend-testownik-sub000/internal/domain"
	"github.com/google/uuid"
)

// AssetStore implements app.AssetStore against the image_assets table. The
// core only ever asks whether an id resolves.
type AssetStore struct {
	db *DB
}

func NewAssetStore(db *DB) *AssetStore {
	return &AssetStore{db: db}
}

func (s *AssetStore) Exists(ctx context.Context, assetID uuid.UUID) (bool, error) {
	exists, err := s.db.conn(ctx).NewSelect().
		Model((*domain.ImageAsset)(nil)).
		Where("ia.id = ?", assetID).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("asset lookup: %w", err)
	}
	return exists, nil
}

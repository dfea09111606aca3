package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/artsfest/models"
)

var ErrAssetNotFound = errors.New("site asset not found")

type SiteAssetRepository interface {
	// Upsert заменяет файл слота и возвращает ключ предыдущего объекта, если он был.
	Upsert(ctx context.Context, asset *models.SiteAsset) (previousKey *string, err error)
	GetBySlot(ctx context.Context, slot string) (*models.SiteAsset, error)
	List(ctx context.Context) ([]models.SiteAsset, error)
	Delete(ctx context.Context, slot string) (*models.SiteAsset, error)
}

type postgresSiteAssetRepository struct {
	db *sql.DB
}

func NewPostgresSiteAssetRepository(db *sql.DB) SiteAssetRepository {
	return &postgresSiteAssetRepository{db: db}
}

func (r *postgresSiteAssetRepository) Upsert(ctx context.Context, asset *models.SiteAsset) (*string, error) {
	var previous sql.NullString
	err := r.db.QueryRowContext(ctx, `SELECT object_key FROM site_assets WHERE slot = $1`, asset.Slot).Scan(&previous)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to read asset slot %s: %w", asset.Slot, err)
	}

	query := `
		INSERT INTO site_assets (slot, object_key, content_type)
		VALUES ($1, $2, $3)
		ON CONFLICT (slot) DO UPDATE
		SET object_key = EXCLUDED.object_key,
			content_type = EXCLUDED.content_type,
			created_at = now()
		RETURNING id, created_at`

	if err := r.db.QueryRowContext(ctx, query, asset.Slot, asset.ObjectKey, asset.ContentType).Scan(&asset.ID, &asset.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to upsert asset slot %s: %w", asset.Slot, err)
	}
	if previous.Valid && previous.String != asset.ObjectKey {
		return &previous.String, nil
	}
	return nil, nil
}

func (r *postgresSiteAssetRepository) GetBySlot(ctx context.Context, slot string) (*models.SiteAsset, error) {
	var a models.SiteAsset
	err := r.db.QueryRowContext(ctx,
		`SELECT id, slot, object_key, content_type, created_at FROM site_assets WHERE slot = $1`, slot,
	).Scan(&a.ID, &a.Slot, &a.ObjectKey, &a.ContentType, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAssetNotFound
		}
		return nil, fmt.Errorf("failed to get asset slot %s: %w", slot, err)
	}
	return &a, nil
}

func (r *postgresSiteAssetRepository) List(ctx context.Context) ([]models.SiteAsset, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, slot, object_key, content_type, created_at FROM site_assets ORDER BY slot`)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	defer rows.Close()

	assets := make([]models.SiteAsset, 0)
	for rows.Next() {
		var a models.SiteAsset
		if err := rows.Scan(&a.ID, &a.Slot, &a.ObjectKey, &a.ContentType, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan asset row: %w", err)
		}
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating asset rows: %w", err)
	}
	return assets, nil
}

func (r *postgresSiteAssetRepository) Delete(ctx context.Context, slot string) (*models.SiteAsset, error) {
	var a models.SiteAsset
	err := r.db.QueryRowContext(ctx,
		`DELETE FROM site_assets WHERE slot = $1 RETURNING id, slot, object_key, content_type, created_at`, slot,
	).Scan(&a.ID, &a.Slot, &a.ObjectKey, &a.ContentType, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAssetNotFound
		}
		return nil, fmt.Errorf("failed to delete asset slot %s: %w", slot, err)
	}
	return &a, nil
}

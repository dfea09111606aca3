package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/artsfest/models"
)

var ErrConfigKeyNotFound = errors.New("config key not found")

type AppConfigRepository interface {
	Get(ctx context.Context, key string) (*models.AppConfigEntry, error)
	Set(ctx context.Context, key, value string) (*models.AppConfigEntry, error)
	List(ctx context.Context) ([]models.AppConfigEntry, error)
}

type postgresAppConfigRepository struct {
	db *sql.DB
}

func NewPostgresAppConfigRepository(db *sql.DB) AppConfigRepository {
	return &postgresAppConfigRepository{db: db}
}

func (r *postgresAppConfigRepository) Get(ctx context.Context, key string) (*models.AppConfigEntry, error) {
	var e models.AppConfigEntry
	err := r.db.QueryRowContext(ctx, `SELECT key, value, updated_at FROM app_config WHERE key = $1`, key).
		Scan(&e.Key, &e.Value, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrConfigKeyNotFound
		}
		return nil, fmt.Errorf("failed to get config %s: %w", key, err)
	}
	return &e, nil
}

func (r *postgresAppConfigRepository) Set(ctx context.Context, key, value string) (*models.AppConfigEntry, error) {
	query := `
		INSERT INTO app_config (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
		RETURNING key, value, updated_at`

	var e models.AppConfigEntry
	if err := r.db.QueryRowContext(ctx, query, key, value).Scan(&e.Key, &e.Value, &e.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to set config %s: %w", key, err)
	}
	return &e, nil
}

func (r *postgresAppConfigRepository) List(ctx context.Context) ([]models.AppConfigEntry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value, updated_at FROM app_config ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list config: %w", err)
	}
	defer rows.Close()

	entries := make([]models.AppConfigEntry, 0)
	for rows.Next() {
		var e models.AppConfigEntry
		if err := rows.Scan(&e.Key, &e.Value, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan config row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating config rows: %w", err)
	}
	return entries, nil
}

package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/artsfest/models"
)

type GradeSettingRepository interface {
	List(ctx context.Context) ([]models.GradeSetting, error)
	Upsert(ctx context.Context, exec SQLExecutor, s *models.GradeSetting) error
}

type postgresGradeSettingRepository struct {
	db *sql.DB
}

func NewPostgresGradeSettingRepository(db *sql.DB) GradeSettingRepository {
	return &postgresGradeSettingRepository{db: db}
}

func (r *postgresGradeSettingRepository) List(ctx context.Context) ([]models.GradeSetting, error) {
	query := `
		SELECT grade_tier, first_points, second_points, third_points, updated_at
		FROM grade_settings
		ORDER BY grade_tier`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list grade settings: %w", err)
	}
	defer rows.Close()

	settings := make([]models.GradeSetting, 0, len(models.GradeTiers))
	for rows.Next() {
		var s models.GradeSetting
		if err := rows.Scan(&s.GradeTier, &s.FirstPoints, &s.SecondPoints, &s.ThirdPoints, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan grade setting row: %w", err)
		}
		settings = append(settings, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating grade setting rows: %w", err)
	}
	return settings, nil
}

func (r *postgresGradeSettingRepository) Upsert(ctx context.Context, exec SQLExecutor, s *models.GradeSetting) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO grade_settings (grade_tier, first_points, second_points, third_points)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (grade_tier) DO UPDATE
		SET first_points = EXCLUDED.first_points,
			second_points = EXCLUDED.second_points,
			third_points = EXCLUDED.third_points,
			updated_at = now()
		RETURNING updated_at`

	err := exec.QueryRowContext(ctx, query, s.GradeTier, s.FirstPoints, s.SecondPoints, s.ThirdPoints).Scan(&s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert grade setting %s: %w", s.GradeTier, err)
	}
	return nil
}

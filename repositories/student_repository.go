package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/artsfest/models"
)

var (
	ErrStudentNotFound     = errors.New("student not found")
	ErrChestNumberConflict = errors.New("chest number conflict")
	ErrStudentTeamInvalid  = errors.New("student team reference is invalid")
)

type ListStudentsFilter struct {
	TeamID  *int
	Section *models.Section
	Search  string
}

type StudentRepository interface {
	Create(ctx context.Context, s *models.Student) error
	GetByID(ctx context.Context, id int) (*models.Student, error)
	List(ctx context.Context, filter ListStudentsFilter) ([]models.Student, error)
	Update(ctx context.Context, exec SQLExecutor, s *models.Student) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
}

type postgresStudentRepository struct {
	db *sql.DB
}

func NewPostgresStudentRepository(db *sql.DB) StudentRepository {
	return &postgresStudentRepository{db: db}
}

func (r *postgresStudentRepository) Create(ctx context.Context, s *models.Student) error {
	query := `
		INSERT INTO students (name, chest_number, section, class_grade, team_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, s.Name, s.ChestNumber, s.Section, s.ClassGrade, s.TeamID).
		Scan(&s.ID, &s.CreatedAt)
	return r.handleStudentError(err)
}

func (r *postgresStudentRepository) GetByID(ctx context.Context, id int) (*models.Student, error) {
	query := `
		SELECT s.id, s.name, s.chest_number, s.section, s.class_grade, s.team_id, s.created_at,
			t.id, t.name, t.color, COALESCE(t.penalty, 0), t.created_at
		FROM students s
		JOIN teams t ON t.id = s.team_id
		WHERE s.id = $1`

	var s models.Student
	var t models.Team
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.ChestNumber, &s.Section, &s.ClassGrade, &s.TeamID, &s.CreatedAt,
		&t.ID, &t.Name, &t.Color, &t.Penalty, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student %d: %w", id, err)
	}
	s.Team = &t
	return &s, nil
}

func (r *postgresStudentRepository) List(ctx context.Context, filter ListStudentsFilter) ([]models.Student, error) {
	query := `
		SELECT id, name, chest_number, section, class_grade, team_id, created_at
		FROM students
		WHERE 1=1`

	args := []interface{}{}
	argID := 1

	if filter.TeamID != nil {
		query += fmt.Sprintf(" AND team_id = $%d", argID)
		args = append(args, *filter.TeamID)
		argID++
	}
	if filter.Section != nil {
		query += fmt.Sprintf(" AND section = $%d", argID)
		args = append(args, *filter.Section)
		argID++
	}
	if filter.Search != "" {
		query += fmt.Sprintf(" AND (name ILIKE $%d OR chest_number ILIKE $%d)", argID, argID)
		args = append(args, "%"+filter.Search+"%")
		argID++
	}
	query += " ORDER BY chest_number, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	students := make([]models.Student, 0)
	for rows.Next() {
		var s models.Student
		if err := rows.Scan(&s.ID, &s.Name, &s.ChestNumber, &s.Section, &s.ClassGrade, &s.TeamID, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan student row: %w", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}
	return students, nil
}

func (r *postgresStudentRepository) Update(ctx context.Context, exec SQLExecutor, s *models.Student) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		UPDATE students
		SET name = $1, chest_number = $2, section = $3, class_grade = $4, team_id = $5
		WHERE id = $6`

	result, err := exec.ExecContext(ctx, query, s.Name, s.ChestNumber, s.Section, s.ClassGrade, s.TeamID, s.ID)
	if err != nil {
		return r.handleStudentError(err)
	}
	return checkAffectedRows(result, ErrStudentNotFound)
}

func (r *postgresStudentRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete student %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrStudentNotFound)
}

func (r *postgresStudentRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM students`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count students: %w", err)
	}
	return n, nil
}

func (r *postgresStudentRepository) handleStudentError(err error) error {
	if err == nil {
		return nil
	}
	if constraint, ok := pqConstraint(err, pqUniqueViolation); ok && constraint == "students_chest_number_key" {
		return ErrChestNumberConflict
	}
	if constraint, ok := pqConstraint(err, pqForeignKeyViolation); ok && constraint == "students_team_id_fkey" {
		return ErrStudentTeamInvalid
	}
	return err
}

package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/artsfest/models"
	"github.com/lib/pq"
)

var (
	ErrEventNotFound     = errors.New("event not found")
	ErrEventCodeConflict = errors.New("event code conflict")
)

type ListEventsFilter struct {
	Category  *models.EventCategory
	GradeTier *models.GradeTier
	Section   *models.Section
}

type EventRepository interface {
	Create(ctx context.Context, e *models.Event) error
	GetByID(ctx context.Context, id int) (*models.Event, error)
	List(ctx context.Context, filter ListEventsFilter) ([]models.Event, error)
	Update(ctx context.Context, exec SQLExecutor, e *models.Event) error
	Delete(ctx context.Context, id int) error
}

type postgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) EventRepository {
	return &postgresEventRepository{db: db}
}

const eventColumns = `id, name, code, category, grade_tier, COALESCE(applicable_sections, '{}'), max_participants, created_at`

func scanEvent(row interface{ Scan(...interface{}) error }, e *models.Event) error {
	var sections pq.StringArray
	if err := row.Scan(&e.ID, &e.Name, &e.Code, &e.Category, &e.GradeTier, &sections, &e.MaxParticipants, &e.CreatedAt); err != nil {
		return err
	}
	e.ApplicableSections = sectionsFromArray(sections)
	return nil
}

func sectionsFromArray(arr pq.StringArray) []models.Section {
	sections := make([]models.Section, 0, len(arr))
	for _, s := range arr {
		sections = append(sections, models.Section(s))
	}
	return sections
}

func sectionsToArray(sections []models.Section) pq.StringArray {
	arr := make(pq.StringArray, 0, len(sections))
	for _, s := range sections {
		arr = append(arr, string(s))
	}
	return arr
}

func (r *postgresEventRepository) Create(ctx context.Context, e *models.Event) error {
	query := `
		INSERT INTO events (name, code, category, grade_tier, applicable_sections, max_participants)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		e.Name, e.Code, e.Category, e.GradeTier, sectionsToArray(e.ApplicableSections), e.MaxParticipants,
	).Scan(&e.ID, &e.CreatedAt)
	return r.handleEventError(err)
}

func (r *postgresEventRepository) GetByID(ctx context.Context, id int) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	var e models.Event
	if err := scanEvent(r.db.QueryRowContext(ctx, query, id), &e); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event %d: %w", id, err)
	}
	return &e, nil
}

func (r *postgresEventRepository) List(ctx context.Context, filter ListEventsFilter) ([]models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE 1=1`
	args := []interface{}{}
	argID := 1

	if filter.Category != nil {
		query += fmt.Sprintf(" AND category = $%d", argID)
		args = append(args, *filter.Category)
		argID++
	}
	if filter.GradeTier != nil {
		query += fmt.Sprintf(" AND grade_tier = $%d", argID)
		args = append(args, *filter.GradeTier)
		argID++
	}
	if filter.Section != nil {
		query += fmt.Sprintf(" AND $%d = ANY(applicable_sections)", argID)
		args = append(args, *filter.Section)
		argID++
	}
	query += " ORDER BY code, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := make([]models.Event, 0)
	for rows.Next() {
		var e models.Event
		if err := scanEvent(rows, &e); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}
	return events, nil
}

func (r *postgresEventRepository) Update(ctx context.Context, exec SQLExecutor, e *models.Event) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		UPDATE events
		SET name = $1, code = $2, category = $3, grade_tier = $4, applicable_sections = $5, max_participants = $6
		WHERE id = $7`

	result, err := exec.ExecContext(ctx, query,
		e.Name, e.Code, e.Category, e.GradeTier, sectionsToArray(e.ApplicableSections), e.MaxParticipants, e.ID,
	)
	if err != nil {
		return r.handleEventError(err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) handleEventError(err error) error {
	if err == nil {
		return nil
	}
	if constraint, ok := pqConstraint(err, pqUniqueViolation); ok && constraint == "events_code_key" {
		return ErrEventCodeConflict
	}
	return err
}

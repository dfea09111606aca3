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
	ErrParticipationNotFound     = errors.New("participation not found")
	ErrParticipationConflict     = errors.New("student already registered for this event")
	ErrParticipationRefInvalid   = errors.New("participation student, team or event reference is invalid")
	ErrParticipationPointsNoRank = errors.New("points require a result position")
)

type ListParticipationsFilter struct {
	EventID     *int
	TeamID      *int
	StudentID   *int
	OnlyResults bool
}

type ParticipationStats struct {
	Total           int
	ResultsDeclared int
}

type ParticipationRepository interface {
	Create(ctx context.Context, exec SQLExecutor, p *models.Participation) error
	GetByID(ctx context.Context, id int) (*models.Participation, error)
	FindByStudentAndEvent(ctx context.Context, exec SQLExecutor, studentID, eventID int) (*models.Participation, error)
	CountByTeamAndEvent(ctx context.Context, exec SQLExecutor, teamID, eventID int) (int, error)
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	UpdateAttendance(ctx context.Context, id int, status models.AttendanceStatus) error
	UpdateResult(ctx context.Context, exec SQLExecutor, id int, pos *models.Position, grade *models.PerformanceGrade, points int) error
	DeleteTeamEntriesByEvent(ctx context.Context, exec SQLExecutor, eventID int) (int64, error)
	ReassignStudentTeam(ctx context.Context, exec SQLExecutor, studentID, teamID int) (int64, error)
	ListDetails(ctx context.Context, filter ListParticipationsFilter) ([]models.ParticipationDetail, error)
	Stats(ctx context.Context) (ParticipationStats, error)
}

type postgresParticipationRepository struct {
	db *sql.DB
}

func NewPostgresParticipationRepository(db *sql.DB) ParticipationRepository {
	return &postgresParticipationRepository{db: db}
}

func (r *postgresParticipationRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const participationColumns = `id, student_id, team_id, event_id, result_position, performance_grade,
	attendance, COALESCE(points_earned, 0), created_at, updated_at`

func scanParticipation(row interface{ Scan(...interface{}) error }, p *models.Participation) error {
	var (
		studentID sql.NullInt64
		pos       sql.NullString
		grade     sql.NullString
	)
	err := row.Scan(&p.ID, &studentID, &p.TeamID, &p.EventID, &pos, &grade,
		&p.Attendance, &p.PointsEarned, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return err
	}
	p.StudentID = intPtr(studentID)
	p.ResultPosition = stringPtr[models.Position](pos)
	p.PerformanceGrade = stringPtr[models.PerformanceGrade](grade)
	return nil
}

func (r *postgresParticipationRepository) Create(ctx context.Context, exec SQLExecutor, p *models.Participation) error {
	executor := r.getExecutor(exec)
	if p.Attendance == "" {
		p.Attendance = models.AttendancePending
	}
	query := `
		INSERT INTO participations (student_id, team_id, event_id, attendance)
		VALUES ($1, $2, $3, $4)
		RETURNING id, points_earned, created_at, updated_at`

	err := executor.QueryRowContext(ctx, query, p.StudentID, p.TeamID, p.EventID, p.Attendance).
		Scan(&p.ID, &p.PointsEarned, &p.CreatedAt, &p.UpdatedAt)
	return r.handleParticipationError(err)
}

func (r *postgresParticipationRepository) GetByID(ctx context.Context, id int) (*models.Participation, error) {
	query := `SELECT ` + participationColumns + ` FROM participations WHERE id = $1`

	var p models.Participation
	if err := scanParticipation(r.db.QueryRowContext(ctx, query, id), &p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipationNotFound
		}
		return nil, fmt.Errorf("failed to get participation %d: %w", id, err)
	}
	return &p, nil
}

func (r *postgresParticipationRepository) FindByStudentAndEvent(ctx context.Context, exec SQLExecutor, studentID, eventID int) (*models.Participation, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + participationColumns + ` FROM participations WHERE student_id = $1 AND event_id = $2`

	var p models.Participation
	if err := scanParticipation(executor.QueryRowContext(ctx, query, studentID, eventID), &p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipationNotFound
		}
		return nil, fmt.Errorf("failed to find participation for student %d event %d: %w", studentID, eventID, err)
	}
	return &p, nil
}

func (r *postgresParticipationRepository) CountByTeamAndEvent(ctx context.Context, exec SQLExecutor, teamID, eventID int) (int, error) {
	executor := r.getExecutor(exec)
	var n int
	err := executor.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM participations WHERE team_id = $1 AND event_id = $2`, teamID, eventID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count entries for team %d event %d: %w", teamID, eventID, err)
	}
	return n, nil
}

func (r *postgresParticipationRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM participations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete participation %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrParticipationNotFound)
}

func (r *postgresParticipationRepository) UpdateAttendance(ctx context.Context, id int, status models.AttendanceStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE participations SET attendance = $1, updated_at = now() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update attendance for participation %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrParticipationNotFound)
}

func (r *postgresParticipationRepository) UpdateResult(ctx context.Context, exec SQLExecutor, id int, pos *models.Position, grade *models.PerformanceGrade, points int) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE participations
		SET result_position = $1, performance_grade = $2, points_earned = $3, updated_at = now()
		WHERE id = $4`

	result, err := executor.ExecContext(ctx, query, nullableString(pos), nullableString(grade), points, id)
	if err != nil {
		return r.handleParticipationError(err)
	}
	return checkAffectedRows(result, ErrParticipationNotFound)
}

// DeleteTeamEntriesByEvent удаляет командные (без студента) записи события.
func (r *postgresParticipationRepository) DeleteTeamEntriesByEvent(ctx context.Context, exec SQLExecutor, eventID int) (int64, error) {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`DELETE FROM participations WHERE event_id = $1 AND student_id IS NULL`, eventID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete team entries for event %d: %w", eventID, err)
	}
	return result.RowsAffected()
}

// ReassignStudentTeam moves every entry of the student to teamID.
func (r *postgresParticipationRepository) ReassignStudentTeam(ctx context.Context, exec SQLExecutor, studentID, teamID int) (int64, error) {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE participations SET team_id = $1, updated_at = now() WHERE student_id = $2`, teamID, studentID)
	if err != nil {
		return 0, r.handleParticipationError(err)
	}
	return result.RowsAffected()
}

func (r *postgresParticipationRepository) ListDetails(ctx context.Context, filter ListParticipationsFilter) ([]models.ParticipationDetail, error) {
	query := `
		SELECT p.id, p.student_id, p.team_id, p.event_id, p.result_position, p.performance_grade,
			p.attendance, COALESCE(p.points_earned, 0), p.created_at, p.updated_at,
			e.id, e.name, e.code, e.category, e.grade_tier, COALESCE(e.applicable_sections, '{}'),
			e.max_participants, e.created_at,
			s.id, s.name, s.chest_number, s.section, s.class_grade, s.team_id,
			t.name
		FROM participations p
		JOIN events e ON e.id = p.event_id
		JOIN teams t ON t.id = p.team_id
		LEFT JOIN students s ON s.id = p.student_id
		WHERE 1=1`

	args := []interface{}{}
	argID := 1
	if filter.EventID != nil {
		query += fmt.Sprintf(" AND p.event_id = $%d", argID)
		args = append(args, *filter.EventID)
		argID++
	}
	if filter.TeamID != nil {
		query += fmt.Sprintf(" AND p.team_id = $%d", argID)
		args = append(args, *filter.TeamID)
		argID++
	}
	if filter.StudentID != nil {
		query += fmt.Sprintf(" AND p.student_id = $%d", argID)
		args = append(args, *filter.StudentID)
		argID++
	}
	if filter.OnlyResults {
		query += " AND p.result_position IS NOT NULL"
	}
	query += " ORDER BY e.code, p.id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list participation details: %w", err)
	}
	defer rows.Close()

	details := make([]models.ParticipationDetail, 0)
	for rows.Next() {
		var (
			d         models.ParticipationDetail
			studentID sql.NullInt64
			pos       sql.NullString
			grade     sql.NullString
			sections  pq.StringArray

			sID         sql.NullInt64
			sName       sql.NullString
			sChest      sql.NullString
			sSection    sql.NullString
			sClassGrade sql.NullString
			sTeamID     sql.NullInt64
		)
		err := rows.Scan(
			&d.ID, &studentID, &d.TeamID, &d.EventID, &pos, &grade,
			&d.Attendance, &d.PointsEarned, &d.CreatedAt, &d.UpdatedAt,
			&d.Event.ID, &d.Event.Name, &d.Event.Code, &d.Event.Category, &d.Event.GradeTier, &sections,
			&d.Event.MaxParticipants, &d.Event.CreatedAt,
			&sID, &sName, &sChest, &sSection, &sClassGrade, &sTeamID,
			&d.TeamName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participation detail row: %w", err)
		}
		d.StudentID = intPtr(studentID)
		d.ResultPosition = stringPtr[models.Position](pos)
		d.PerformanceGrade = stringPtr[models.PerformanceGrade](grade)
		d.Event.ApplicableSections = sectionsFromArray(sections)
		if sID.Valid {
			d.Student = &models.Student{
				ID:          int(sID.Int64),
				Name:        sName.String,
				ChestNumber: sChest.String,
				Section:     models.Section(sSection.String),
				ClassGrade:  sClassGrade.String,
				TeamID:      int(sTeamID.Int64),
			}
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participation detail rows: %w", err)
	}
	return details, nil
}

func (r *postgresParticipationRepository) Stats(ctx context.Context) (ParticipationStats, error) {
	var st ParticipationStats
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE result_position IS NOT NULL)
		FROM participations`).Scan(&st.Total, &st.ResultsDeclared)
	if err != nil {
		return st, fmt.Errorf("failed to read participation stats: %w", err)
	}
	return st, nil
}

func (r *postgresParticipationRepository) handleParticipationError(err error) error {
	if err == nil {
		return nil
	}
	if constraint, ok := pqConstraint(err, pqUniqueViolation); ok && constraint == "participations_student_event_key" {
		return ErrParticipationConflict
	}
	if _, ok := pqConstraint(err, pqForeignKeyViolation); ok {
		return ErrParticipationRefInvalid
	}
	if constraint, ok := pqConstraint(err, pqCheckViolation); ok && constraint == "chk_points_need_position" {
		return ErrParticipationPointsNoRank
	}
	return err
}

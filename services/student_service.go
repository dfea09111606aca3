package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/artsfest/models"
	"github.com/Dosada05/artsfest/repositories"
	"github.com/Dosada05/artsfest/scoring"
)

type StudentService interface {
	CreateStudent(ctx context.Context, actor Actor, input StudentInput) (*models.Student, error)
	GetStudentByID(ctx context.Context, id int) (*models.Student, error)
	ListStudents(ctx context.Context, filter repositories.ListStudentsFilter) ([]models.Student, error)
	UpdateStudent(ctx context.Context, actor Actor, id int, input StudentInput) (*models.Student, error)
	DeleteStudent(ctx context.Context, actor Actor, id int) error
}

type StudentInput struct {
	Name        string
	ChestNumber string
	Section     models.Section
	ClassGrade  string
	TeamID      int
}

type studentService struct {
	studentRepo repositories.StudentRepository
	teamRepo    repositories.TeamRepository
	partRepo    repositories.ParticipationRepository
	tx          repositories.Transactor
	notifier    StandingsNotifier
}

func NewStudentService(
	studentRepo repositories.StudentRepository,
	teamRepo repositories.TeamRepository,
	partRepo repositories.ParticipationRepository,
	tx repositories.Transactor,
	notifier StandingsNotifier,
) StudentService {
	return &studentService{
		studentRepo: studentRepo,
		teamRepo:    teamRepo,
		partRepo:    partRepo,
		tx:          tx,
		notifier:    notifierOrNoop(notifier),
	}
}

func (s *studentService) normalize(input StudentInput) (StudentInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.ChestNumber = strings.TrimSpace(input.ChestNumber)
	input.ClassGrade = strings.TrimSpace(input.ClassGrade)
	if input.Name == "" || input.ChestNumber == "" {
		return input, fmt.Errorf("%w: name and chest number are required", ErrValidationFailed)
	}
	// Студент принадлежит только базовой секции.
	if !input.Section.IsBase() {
		return input, ErrInvalidSection
	}
	return input, nil
}

func (s *studentService) CreateStudent(ctx context.Context, actor Actor, input StudentInput) (*models.Student, error) {
	input, err := s.normalize(input)
	if err != nil {
		return nil, err
	}
	if !actor.CanManageTeam(input.TeamID) {
		return nil, ErrForbiddenOperation
	}

	student := &models.Student{
		Name:        input.Name,
		ChestNumber: input.ChestNumber,
		Section:     input.Section,
		ClassGrade:  input.ClassGrade,
		TeamID:      input.TeamID,
	}
	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, mapStudentRepoError(err, "failed to create student")
	}
	return student, nil
}

func (s *studentService) GetStudentByID(ctx context.Context, id int) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapStudentRepoError(err, fmt.Sprintf("failed to get student by id %d", id))
	}
	return student, nil
}

func (s *studentService) ListStudents(ctx context.Context, filter repositories.ListStudentsFilter) ([]models.Student, error) {
	if filter.Section != nil && !filter.Section.IsBase() {
		return nil, ErrInvalidSection
	}
	students, err := s.studentRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}

func (s *studentService) UpdateStudent(ctx context.Context, actor Actor, id int, input StudentInput) (*models.Student, error) {
	existing, err := s.GetStudentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	input, err = s.normalize(input)
	if err != nil {
		return nil, err
	}
	// Лидер не может ни забрать чужого студента, ни отдать своего.
	if !actor.CanManageTeam(existing.TeamID) || !actor.CanManageTeam(input.TeamID) {
		return nil, ErrForbiddenOperation
	}

	student := &models.Student{
		ID:          id,
		Name:        input.Name,
		ChestNumber: input.ChestNumber,
		Section:     input.Section,
		ClassGrade:  input.ClassGrade,
		TeamID:      input.TeamID,
		CreatedAt:   existing.CreatedAt,
	}
	if existing.Section == student.Section && existing.TeamID == student.TeamID {
		if err := s.studentRepo.Update(ctx, nil, student); err != nil {
			return nil, mapStudentRepoError(err, fmt.Sprintf("failed to update student %d", id))
		}
		return student, nil
	}

	if err := s.moveStudent(ctx, existing, student); err != nil {
		return nil, err
	}
	s.notifier.StandingsChanged("student_moved", nil)
	return student, nil
}

// moveStudent saves a section or team change. Entries follow the student to
// the new team; a section change may not orphan an existing registration.
func (s *studentService) moveStudent(ctx context.Context, existing, student *models.Student) error {
	if existing.TeamID != student.TeamID {
		if _, err := s.teamRepo.GetByID(ctx, student.TeamID); err != nil {
			if errors.Is(err, repositories.ErrTeamNotFound) {
				return ErrTeamNotFound
			}
			return fmt.Errorf("failed to get team %d: %w", student.TeamID, err)
		}
	}
	rows, err := s.partRepo.ListDetails(ctx, repositories.ListParticipationsFilter{StudentID: &student.ID})
	if err != nil {
		return fmt.Errorf("failed to load entries of student %d: %w", student.ID, err)
	}
	if existing.Section != student.Section {
		for _, d := range rows {
			if !scoring.IsEligible(d.Event, student.Section) {
				return fmt.Errorf("%w: %s", ErrSectionChangeBlocked, d.Event.Code)
			}
		}
	}

	return s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if existing.TeamID != student.TeamID {
			for _, d := range rows {
				count, err := s.partRepo.CountByTeamAndEvent(ctx, exec, student.TeamID, d.EventID)
				if err != nil {
					return err
				}
				if count >= d.Event.MaxParticipants {
					return fmt.Errorf("%w: %s", ErrEventFull, d.Event.Code)
				}
			}
			moved, err := s.partRepo.ReassignStudentTeam(ctx, exec, student.ID, student.TeamID)
			if err != nil {
				return mapStudentRepoError(err, fmt.Sprintf("failed to move entries of student %d", student.ID))
			}
			slog.DebugContext(ctx, "student entries moved",
				slog.Int("student_id", student.ID), slog.Int("team_id", student.TeamID), slog.Int64("moved", moved))
		}
		if err := s.studentRepo.Update(ctx, exec, student); err != nil {
			return mapStudentRepoError(err, fmt.Sprintf("failed to update student %d", student.ID))
		}
		return nil
	})
}

func (s *studentService) DeleteStudent(ctx context.Context, actor Actor, id int) error {
	existing, err := s.GetStudentByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanManageTeam(existing.TeamID) {
		return ErrForbiddenOperation
	}
	if err := s.studentRepo.Delete(ctx, id); err != nil {
		return mapStudentRepoError(err, fmt.Sprintf("failed to delete student %d", id))
	}
	s.notifier.StandingsChanged("student_deleted", nil)
	return nil
}

func mapStudentRepoError(err error, msg string) error {
	switch {
	case errors.Is(err, repositories.ErrStudentNotFound):
		return ErrStudentNotFound
	case errors.Is(err, repositories.ErrChestNumberConflict):
		return ErrChestNumberConflict
	case errors.Is(err, repositories.ErrStudentTeamInvalid):
		return ErrTeamNotFound
	default:
		return fmt.Errorf("%s: %w", msg, err)
	}
}

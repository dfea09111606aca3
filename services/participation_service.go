package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/artsfest/metrics"
	"github.com/Dosada05/artsfest/models"
	"github.com/Dosada05/artsfest/repositories"
	"github.com/Dosada05/artsfest/scoring"
)

type RegistrationAction string

const (
	ActionRegistered   RegistrationAction = "registered"
	ActionUnregistered RegistrationAction = "unregistered"
)

// RegistrationResult is what a committed toggle did. Nothing is returned on
// failure: the transaction has been rolled back and the caller's view is still valid.
type RegistrationResult struct {
	Action        RegistrationAction    `json:"action"`
	Participation *models.Participation `json:"participation"`
}

type ParticipationService interface {
	Register(ctx context.Context, actor Actor, studentID, eventID int) (*models.Participation, error)
	Unregister(ctx context.Context, actor Actor, participationID int) error
	ToggleRegistration(ctx context.Context, actor Actor, studentID, eventID int) (*RegistrationResult, error)
	RegisterTeamEntry(ctx context.Context, actor Actor, teamID, eventID int) (*models.Participation, error)
	MarkAttendance(ctx context.Context, participationID int, status models.AttendanceStatus) error
	List(ctx context.Context, filter repositories.ListParticipationsFilter) ([]models.ParticipationDetail, error)
}

type participationService struct {
	partRepo    repositories.ParticipationRepository
	studentRepo repositories.StudentRepository
	eventRepo   repositories.EventRepository
	teamRepo    repositories.TeamRepository
	tx          repositories.Transactor
	config      ConfigService
}

func NewParticipationService(
	partRepo repositories.ParticipationRepository,
	studentRepo repositories.StudentRepository,
	eventRepo repositories.EventRepository,
	teamRepo repositories.TeamRepository,
	tx repositories.Transactor,
	config ConfigService,
) ParticipationService {
	return &participationService{
		partRepo:    partRepo,
		studentRepo: studentRepo,
		eventRepo:   eventRepo,
		teamRepo:    teamRepo,
		tx:          tx,
		config:      config,
	}
}

func (s *participationService) checkRegistrationOpen(ctx context.Context, actor Actor) error {
	if actor.IsAdmin() {
		return nil
	}
	open, err := s.config.Bool(ctx, models.ConfigRegistrationOpen)
	if err != nil {
		return err
	}
	if !open {
		return ErrRegistrationClosed
	}
	return nil
}

func (s *participationService) loadEvent(ctx context.Context, id int) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapEventRepoError(err, fmt.Sprintf("failed to get event %d", id))
	}
	return event, nil
}

// loadIndividual проверяет всё, что не зависит от текущих записей.
func (s *participationService) loadIndividual(ctx context.Context, actor Actor, studentID, eventID int) (*models.Student, *models.Event, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, nil, mapStudentRepoError(err, fmt.Sprintf("failed to get student %d", studentID))
	}
	if !actor.CanManageTeam(student.TeamID) {
		return nil, nil, ErrForbiddenOperation
	}
	event, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}
	if event.IsGroup() {
		return nil, nil, ErrGroupEventOnly
	}
	if !scoring.IsEligible(*event, student.Section) {
		return nil, nil, ErrNotEligible
	}
	return student, event, nil
}

func (s *participationService) createEntry(ctx context.Context, exec repositories.SQLExecutor, event *models.Event, teamID int, studentID *int) (*models.Participation, error) {
	count, err := s.partRepo.CountByTeamAndEvent(ctx, exec, teamID, event.ID)
	if err != nil {
		return nil, err
	}
	if count >= event.MaxParticipants {
		return nil, ErrEventFull
	}
	p := &models.Participation{StudentID: studentID, TeamID: teamID, EventID: event.ID}
	if err := s.partRepo.Create(ctx, exec, p); err != nil {
		switch {
		case errors.Is(err, repositories.ErrParticipationConflict):
			return nil, ErrRegistrationConflict
		case errors.Is(err, repositories.ErrParticipationRefInvalid):
			return nil, ErrNotFound
		default:
			return nil, fmt.Errorf("failed to create participation: %w", err)
		}
	}
	return p, nil
}

func (s *participationService) Register(ctx context.Context, actor Actor, studentID, eventID int) (*models.Participation, error) {
	if err := s.checkRegistrationOpen(ctx, actor); err != nil {
		return nil, err
	}
	student, event, err := s.loadIndividual(ctx, actor, studentID, eventID)
	if err != nil {
		return nil, err
	}

	var created *models.Participation
	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if _, err := s.partRepo.FindByStudentAndEvent(ctx, exec, studentID, eventID); err == nil {
			return ErrRegistrationConflict
		} else if !errors.Is(err, repositories.ErrParticipationNotFound) {
			return err
		}
		created, err = s.createEntry(ctx, exec, event, student.TeamID, &student.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.Registrations.WithLabelValues(string(ActionRegistered)).Inc()
	return created, nil
}

func (s *participationService) Unregister(ctx context.Context, actor Actor, participationID int) error {
	p, err := s.partRepo.GetByID(ctx, participationID)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipationNotFound) {
			return ErrParticipationNotFound
		}
		return fmt.Errorf("failed to get participation %d: %w", participationID, err)
	}
	if !actor.CanManageTeam(p.TeamID) {
		return ErrForbiddenOperation
	}
	if !actor.IsAdmin() && p.ResultPosition != nil {
		return fmt.Errorf("%w: result already declared", ErrForbiddenOperation)
	}
	if err := s.checkRegistrationOpen(ctx, actor); err != nil {
		return err
	}
	if err := s.partRepo.Delete(ctx, nil, participationID); err != nil {
		if errors.Is(err, repositories.ErrParticipationNotFound) {
			return ErrParticipationNotFound
		}
		return fmt.Errorf("failed to delete participation %d: %w", participationID, err)
	}
	metrics.Registrations.WithLabelValues(string(ActionUnregistered)).Inc()
	return nil
}

func (s *participationService) ToggleRegistration(ctx context.Context, actor Actor, studentID, eventID int) (*RegistrationResult, error) {
	if err := s.checkRegistrationOpen(ctx, actor); err != nil {
		return nil, err
	}
	student, event, err := s.loadIndividual(ctx, actor, studentID, eventID)
	if err != nil {
		return nil, err
	}

	var result RegistrationResult
	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		existing, err := s.partRepo.FindByStudentAndEvent(ctx, exec, studentID, eventID)
		switch {
		case err == nil:
			if !actor.IsAdmin() && existing.ResultPosition != nil {
				return fmt.Errorf("%w: result already declared", ErrForbiddenOperation)
			}
			if err := s.partRepo.Delete(ctx, exec, existing.ID); err != nil {
				return err
			}
			result = RegistrationResult{Action: ActionUnregistered, Participation: existing}
			return nil
		case errors.Is(err, repositories.ErrParticipationNotFound):
			created, err := s.createEntry(ctx, exec, event, student.TeamID, &student.ID)
			if err != nil {
				return err
			}
			result = RegistrationResult{Action: ActionRegistered, Participation: created}
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	metrics.Registrations.WithLabelValues(string(result.Action)).Inc()
	return &result, nil
}

func (s *participationService) RegisterTeamEntry(ctx context.Context, actor Actor, teamID, eventID int) (*models.Participation, error) {
	if !actor.CanManageTeam(teamID) {
		return nil, ErrForbiddenOperation
	}
	if err := s.checkRegistrationOpen(ctx, actor); err != nil {
		return nil, err
	}
	if _, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", teamID, err)
	}
	event, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.IsGroup() {
		return nil, ErrIndividualEventOnly
	}

	var created *models.Participation
	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		var err error
		created, err = s.createEntry(ctx, exec, event, teamID, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.Registrations.WithLabelValues("team_entry").Inc()
	return created, nil
}

func (s *participationService) MarkAttendance(ctx context.Context, participationID int, status models.AttendanceStatus) error {
	if !status.Valid() {
		return ErrInvalidAttendance
	}
	if err := s.partRepo.UpdateAttendance(ctx, participationID, status); err != nil {
		if errors.Is(err, repositories.ErrParticipationNotFound) {
			return ErrParticipationNotFound
		}
		return fmt.Errorf("failed to mark attendance for %d: %w", participationID, err)
	}
	return nil
}

func (s *participationService) List(ctx context.Context, filter repositories.ListParticipationsFilter) ([]models.ParticipationDetail, error) {
	rows, err := s.partRepo.ListDetails(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list participations: %w", err)
	}
	return rows, nil
}

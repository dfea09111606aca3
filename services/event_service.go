package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/artsfest/models"
	"github.com/Dosada05/artsfest/repositories"
	"github.com/Dosada05/artsfest/scoring"
)

type EventService interface {
	CreateEvent(ctx context.Context, input EventInput) (*models.Event, error)
	GetEventByID(ctx context.Context, id int) (*models.Event, error)
	ListEvents(ctx context.Context, filter repositories.ListEventsFilter) ([]models.Event, error)
	UpdateEvent(ctx context.Context, id int, input EventInput) (*models.Event, error)
	DeleteEvent(ctx context.Context, id int) error
	EligibleEvents(ctx context.Context, studentID int) ([]models.Event, error)
}

type EventInput struct {
	Name               string
	Code               string
	Category           models.EventCategory
	GradeTier          models.GradeTier
	ApplicableSections []models.Section
	MaxParticipants    int
}

type eventService struct {
	eventRepo   repositories.EventRepository
	studentRepo repositories.StudentRepository
	partRepo    repositories.ParticipationRepository
	tx          repositories.Transactor
	grades      GradeService
	notifier    StandingsNotifier
}

func NewEventService(
	eventRepo repositories.EventRepository,
	studentRepo repositories.StudentRepository,
	partRepo repositories.ParticipationRepository,
	tx repositories.Transactor,
	grades GradeService,
	notifier StandingsNotifier,
) EventService {
	return &eventService{
		eventRepo:   eventRepo,
		studentRepo: studentRepo,
		partRepo:    partRepo,
		tx:          tx,
		grades:      grades,
		notifier:    notifierOrNoop(notifier),
	}
}

func (s *eventService) buildEvent(input EventInput) (*models.Event, error) {
	name := strings.TrimSpace(input.Name)
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if name == "" || code == "" {
		return nil, fmt.Errorf("%w: name and code are required", ErrValidationFailed)
	}
	if !input.Category.Valid() {
		return nil, ErrInvalidCategory
	}
	if !input.GradeTier.Valid() {
		return nil, ErrInvalidGradeTier
	}
	if err := validSections(input.ApplicableSections); err != nil {
		return nil, err
	}
	maxParticipants := input.MaxParticipants
	if maxParticipants <= 0 {
		maxParticipants = 1
	}

	sections := make([]models.Section, 0, len(input.ApplicableSections))
	seen := make(map[models.Section]bool, len(input.ApplicableSections))
	for _, sec := range input.ApplicableSections {
		if !seen[sec] {
			seen[sec] = true
			sections = append(sections, sec)
		}
	}

	return &models.Event{
		Name:               name,
		Code:               code,
		Category:           input.Category,
		GradeTier:          input.GradeTier,
		ApplicableSections: sections,
		MaxParticipants:    maxParticipants,
	}, nil
}

func (s *eventService) CreateEvent(ctx context.Context, input EventInput) (*models.Event, error) {
	event, err := s.buildEvent(input)
	if err != nil {
		return nil, err
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, mapEventRepoError(err, "failed to create event")
	}
	return event, nil
}

func (s *eventService) GetEventByID(ctx context.Context, id int) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapEventRepoError(err, fmt.Sprintf("failed to get event by id %d", id))
	}
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context, filter repositories.ListEventsFilter) ([]models.Event, error) {
	events, err := s.eventRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, id int, input EventInput) (*models.Event, error) {
	existing, err := s.GetEventByID(ctx, id)
	if err != nil {
		return nil, err
	}
	event, err := s.buildEvent(input)
	if err != nil {
		return nil, err
	}
	event.ID = id
	event.CreatedAt = existing.CreatedAt

	if existing.GradeTier == event.GradeTier {
		if err := s.eventRepo.Update(ctx, nil, event); err != nil {
			return nil, mapEventRepoError(err, fmt.Sprintf("failed to update event %d", id))
		}
		s.notifier.StandingsChanged("event_updated", &id)
		return event, nil
	}

	// Новый тир: записанные очки пересчитываются в той же транзакции.
	rows, err := s.partRepo.ListDetails(ctx, repositories.ListParticipationsFilter{EventID: &id})
	if err != nil {
		return nil, fmt.Errorf("failed to load entries of event %d: %w", id, err)
	}
	if len(rows) > 0 && existing.IsGroup() != event.IsGroup() {
		return nil, ErrEventKindLocked
	}
	table, err := s.grades.Table(ctx)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Event.GradeTier = event.GradeTier
	}

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.eventRepo.Update(ctx, exec, event); err != nil {
			return err
		}
		_, err := rederivePoints(ctx, exec, s.partRepo, table, rows)
		return err
	})
	if err != nil {
		return nil, mapEventRepoError(err, fmt.Sprintf("failed to update event %d", id))
	}
	s.notifier.StandingsChanged("event_updated", &id)
	return event, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, id int) error {
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return mapEventRepoError(err, fmt.Sprintf("failed to delete event %d", id))
	}
	s.notifier.StandingsChanged("event_deleted", &id)
	return nil
}

func (s *eventService) EligibleEvents(ctx context.Context, studentID int) ([]models.Event, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, mapStudentRepoError(err, fmt.Sprintf("failed to get student %d", studentID))
	}
	events, err := s.eventRepo.List(ctx, repositories.ListEventsFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return scoring.EligibleEvents(events, student.Section), nil
}

func mapEventRepoError(err error, msg string) error {
	switch {
	case errors.Is(err, repositories.ErrEventNotFound):
		return ErrEventNotFound
	case errors.Is(err, repositories.ErrEventCodeConflict):
		return ErrEventCodeConflict
	default:
		return fmt.Errorf("%s: %w", msg, err)
	}
}

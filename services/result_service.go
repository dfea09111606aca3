package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/artsfest/metrics"
	"github.com/Dosada05/artsfest/models"
	"github.com/Dosada05/artsfest/repositories"
	"github.com/Dosada05/artsfest/scoring"
)

type ResultInput struct {
	Position *models.Position
	Grade    *models.PerformanceGrade
}

type TeamResultInput struct {
	TeamID   int
	Position *models.Position
	Grade    *models.PerformanceGrade
}

type ResultService interface {
	// RecordResult sets or clears (nil position) the result of one participation.
	RecordResult(ctx context.Context, participationID int, input ResultInput) (*models.Participation, error)
	ReplaceTeamResults(ctx context.Context, eventID int, results []TeamResultInput) ([]models.Participation, error)
	// RecalculatePoints re-derives stored points from the effective table and returns how many rows changed.
	RecalculatePoints(ctx context.Context) (int, error)
}

type resultService struct {
	partRepo  repositories.ParticipationRepository
	eventRepo repositories.EventRepository
	tx        repositories.Transactor
	grades    GradeService
	notifier  StandingsNotifier
}

func NewResultService(
	partRepo repositories.ParticipationRepository,
	eventRepo repositories.EventRepository,
	tx repositories.Transactor,
	grades GradeService,
	notifier StandingsNotifier,
) ResultService {
	return &resultService{
		partRepo:  partRepo,
		eventRepo: eventRepo,
		tx:        tx,
		grades:    grades,
		notifier:  notifierOrNoop(notifier),
	}
}

func validateResult(pos *models.Position, grade *models.PerformanceGrade) error {
	if pos != nil && !pos.Valid() {
		return ErrInvalidPosition
	}
	if grade != nil && !grade.Valid() {
		return ErrInvalidGrade
	}
	return nil
}

func (s *resultService) RecordResult(ctx context.Context, participationID int, input ResultInput) (*models.Participation, error) {
	if err := validateResult(input.Position, input.Grade); err != nil {
		return nil, err
	}
	p, err := s.partRepo.GetByID(ctx, participationID)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipationNotFound) {
			return nil, ErrParticipationNotFound
		}
		return nil, fmt.Errorf("failed to get participation %d: %w", participationID, err)
	}
	event, err := s.eventRepo.GetByID(ctx, p.EventID)
	if err != nil {
		return nil, mapEventRepoError(err, fmt.Sprintf("failed to get event %d", p.EventID))
	}
	table, err := s.grades.Table(ctx)
	if err != nil {
		return nil, err
	}

	grade := input.Grade
	if input.Position == nil {
		grade = nil
	}
	points := table.PointsFor(event.GradeTier, input.Position)

	if err := s.partRepo.UpdateResult(ctx, nil, participationID, input.Position, grade, points); err != nil {
		if errors.Is(err, repositories.ErrParticipationNotFound) {
			return nil, ErrParticipationNotFound
		}
		return nil, fmt.Errorf("failed to record result for %d: %w", participationID, err)
	}

	p.ResultPosition = input.Position
	p.PerformanceGrade = grade
	p.PointsEarned = points

	metrics.ResultsRecorded.WithLabelValues("individual").Inc()
	metrics.PointsAwarded.WithLabelValues(string(event.GradeTier)).Observe(float64(points))
	s.notifier.StandingsChanged("result_recorded", &event.ID)
	return p, nil
}

// ReplaceTeamResults заменяет все командные записи события одной транзакцией.
func (s *resultService) ReplaceTeamResults(ctx context.Context, eventID int, results []TeamResultInput) ([]models.Participation, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, mapEventRepoError(err, fmt.Sprintf("failed to get event %d", eventID))
	}
	if !event.IsGroup() {
		return nil, ErrIndividualEventOnly
	}
	seen := make(map[int]bool, len(results))
	for _, r := range results {
		if seen[r.TeamID] {
			return nil, ErrDuplicateTeamResult
		}
		seen[r.TeamID] = true
		if err := validateResult(r.Position, r.Grade); err != nil {
			return nil, err
		}
	}
	table, err := s.grades.Table(ctx)
	if err != nil {
		return nil, err
	}

	saved := make([]models.Participation, 0, len(results))
	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		removed, err := s.partRepo.DeleteTeamEntriesByEvent(ctx, exec, eventID)
		if err != nil {
			return err
		}
		slog.DebugContext(ctx, "team entries cleared", slog.Int("event_id", eventID), slog.Int64("removed", removed))

		for _, r := range results {
			p := &models.Participation{TeamID: r.TeamID, EventID: eventID}
			if err := s.partRepo.Create(ctx, exec, p); err != nil {
				if errors.Is(err, repositories.ErrParticipationRefInvalid) {
					return fmt.Errorf("%w: team %d", ErrTeamNotFound, r.TeamID)
				}
				return err
			}
			grade := r.Grade
			if r.Position == nil {
				grade = nil
			}
			points := table.PointsFor(event.GradeTier, r.Position)
			if err := s.partRepo.UpdateResult(ctx, exec, p.ID, r.Position, grade, points); err != nil {
				return err
			}
			p.ResultPosition = r.Position
			p.PerformanceGrade = grade
			p.PointsEarned = points
			saved = append(saved, *p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.ResultsRecorded.WithLabelValues("team").Add(float64(len(saved)))
	s.notifier.StandingsChanged("team_results_replaced", &eventID)
	return saved, nil
}

func (s *resultService) RecalculatePoints(ctx context.Context) (int, error) {
	table, err := s.grades.Table(ctx)
	if err != nil {
		return 0, err
	}
	rows, err := s.partRepo.ListDetails(ctx, repositories.ListParticipationsFilter{})
	if err != nil {
		return 0, fmt.Errorf("failed to load participations: %w", err)
	}

	changed := 0
	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		changed, err = rederivePoints(ctx, exec, s.partRepo, table, rows)
		return err
	})
	if err != nil {
		return 0, err
	}

	metrics.ResultsRecorded.WithLabelValues("recalculate").Add(float64(changed))
	if changed > 0 {
		s.notifier.StandingsChanged("points_recalculated", nil)
	}
	return changed, nil
}

// rederivePoints rewrites stored points that disagree with table. Each row's
// Event.GradeTier is the tier that applies.
func rederivePoints(
	ctx context.Context,
	exec repositories.SQLExecutor,
	repo repositories.ParticipationRepository,
	table scoring.Table,
	rows []models.ParticipationDetail,
) (int, error) {
	changed := 0
	for _, row := range rows {
		points := table.PointsFor(row.Event.GradeTier, row.ResultPosition)
		if points == row.PointsEarned {
			continue
		}
		if err := repo.UpdateResult(ctx, exec, row.ID, row.ResultPosition, row.PerformanceGrade, points); err != nil {
			return 0, fmt.Errorf("participation %d: %w", row.ID, err)
		}
		changed++
	}
	return changed, nil
}

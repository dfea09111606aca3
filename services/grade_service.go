package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/artsfest/models"
	"github.com/Dosada05/artsfest/repositories"
	"github.com/Dosada05/artsfest/scoring"
)

type GradeService interface {
	// Table возвращает действующую таблицу: значения по умолчанию, перекрытые сохранёнными.
	Table(ctx context.Context) (scoring.Table, error)
	ListSettings(ctx context.Context) ([]models.GradeSetting, error)
	// UpdateSetting stores the override and re-derives the stored points of
	// that tier's results in the same transaction.
	UpdateSetting(ctx context.Context, tier models.GradeTier, pts scoring.Points) (*models.GradeSetting, error)
}

type gradeService struct {
	repo     repositories.GradeSettingRepository
	partRepo repositories.ParticipationRepository
	tx       repositories.Transactor
	notifier StandingsNotifier
}

func NewGradeService(
	repo repositories.GradeSettingRepository,
	partRepo repositories.ParticipationRepository,
	tx repositories.Transactor,
	notifier StandingsNotifier,
) GradeService {
	return &gradeService{
		repo:     repo,
		partRepo: partRepo,
		tx:       tx,
		notifier: notifierOrNoop(notifier),
	}
}

func (s *gradeService) Table(ctx context.Context) (scoring.Table, error) {
	settings, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load grade settings: %w", err)
	}
	return scoring.DefaultTable().With(settings), nil
}

func (s *gradeService) ListSettings(ctx context.Context) ([]models.GradeSetting, error) {
	table, err := s.Table(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.GradeSetting, 0, len(models.GradeTiers))
	for _, tier := range models.GradeTiers {
		p := table[tier]
		out = append(out, models.GradeSetting{
			GradeTier:    tier,
			FirstPoints:  p.First,
			SecondPoints: p.Second,
			ThirdPoints:  p.Third,
		})
	}
	return out, nil
}

func (s *gradeService) UpdateSetting(ctx context.Context, tier models.GradeTier, pts scoring.Points) (*models.GradeSetting, error) {
	if !tier.Valid() {
		return nil, ErrInvalidGradeTier
	}
	if pts.First < 0 || pts.Second < 0 || pts.Third < 0 {
		return nil, ErrInvalidPoints
	}
	setting := &models.GradeSetting{
		GradeTier:    tier,
		FirstPoints:  pts.First,
		SecondPoints: pts.Second,
		ThirdPoints:  pts.Third,
	}

	table, err := s.Table(ctx)
	if err != nil {
		return nil, err
	}
	table[tier] = pts

	all, err := s.partRepo.ListDetails(ctx, repositories.ListParticipationsFilter{OnlyResults: true})
	if err != nil {
		return nil, fmt.Errorf("failed to load results: %w", err)
	}
	rows := make([]models.ParticipationDetail, 0, len(all))
	for _, d := range all {
		if d.Event.GradeTier == tier {
			rows = append(rows, d)
		}
	}

	changed := 0
	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.repo.Upsert(ctx, exec, setting); err != nil {
			return fmt.Errorf("failed to update grade setting %s: %w", tier, err)
		}
		changed, err = rederivePoints(ctx, exec, s.partRepo, table, rows)
		return err
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "grade setting updated", slog.String("tier", string(tier)), slog.Int("recalculated", changed))
	if changed > 0 {
		s.notifier.StandingsChanged("grade_settings_updated", nil)
	}
	return setting, nil
}

package services

import (
	"context"
	"fmt"
	"io"

	"github.com/Dosada05/artsfest/export"
	"github.com/Dosada05/artsfest/models"
	"github.com/Dosada05/artsfest/repositories"
	"golang.org/x/sync/errgroup"
)

type ExportService interface {
	StandingsWorkbook(ctx context.Context, w io.Writer) error
	ScoreReport(ctx context.Context, w io.Writer) error
	StandingsChart(ctx context.Context, w io.Writer) error
	JudgmentSheet(ctx context.Context, w io.Writer, eventID int) error
	CallSheet(ctx context.Context, w io.Writer, eventID int) error
}

// exportService всегда читает данные с правами админа: доступ проверяет роутер.
type exportService struct {
	standings StandingsService
	eventRepo repositories.EventRepository
	partRepo  repositories.ParticipationRepository
	config    ConfigService
}

func NewExportService(
	standings StandingsService,
	eventRepo repositories.EventRepository,
	partRepo repositories.ParticipationRepository,
	config ConfigService,
) ExportService {
	return &exportService{
		standings: standings,
		eventRepo: eventRepo,
		partRepo:  partRepo,
		config:    config,
	}
}

var exportActor = Actor{Role: models.RoleAdmin}

func (s *exportService) StandingsWorkbook(ctx context.Context, w io.Writer) error {
	overview, err := s.standings.Overview(ctx, exportActor)
	if err != nil {
		return err
	}
	students, err := s.standings.StudentLeaderboard(ctx, exportActor, nil, 0)
	if err != nil {
		return err
	}
	if err := export.StandingsWorkbook(w, overview.Teams, students, overview.Champions); err != nil {
		return fmt.Errorf("failed to render workbook: %w", err)
	}
	return nil
}

func (s *exportService) ScoreReport(ctx context.Context, w io.Writer) error {
	overview, err := s.standings.Overview(ctx, exportActor)
	if err != nil {
		return err
	}
	return export.ScoreReport(w, overview.FestivalName, overview.Teams, overview.Champions)
}

func (s *exportService) StandingsChart(ctx context.Context, w io.Writer) error {
	teams, err := s.standings.TeamLeaderboard(ctx, exportActor, nil)
	if err != nil {
		return err
	}
	return export.StandingsChart(w, teams)
}

func (s *exportService) eventSheetData(ctx context.Context, eventID int) (string, *models.Event, []models.ParticipationDetail, error) {
	var (
		festival string
		event    *models.Event
		entries  []models.ParticipationDetail
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		festival, err = s.config.Get(gCtx, models.ConfigFestivalName)
		return err
	})
	g.Go(func() error {
		var err error
		event, err = s.eventRepo.GetByID(gCtx, eventID)
		if err != nil {
			return mapEventRepoError(err, fmt.Sprintf("failed to get event %d", eventID))
		}
		return nil
	})
	g.Go(func() error {
		var err error
		entries, err = s.partRepo.ListDetails(gCtx, repositories.ListParticipationsFilter{EventID: &eventID})
		return err
	})
	if err := g.Wait(); err != nil {
		return "", nil, nil, err
	}
	return festival, event, entries, nil
}

func (s *exportService) JudgmentSheet(ctx context.Context, w io.Writer, eventID int) error {
	festival, event, entries, err := s.eventSheetData(ctx, eventID)
	if err != nil {
		return err
	}
	return export.JudgmentSheet(w, festival, *event, entries)
}

func (s *exportService) CallSheet(ctx context.Context, w io.Writer, eventID int) error {
	festival, event, entries, err := s.eventSheetData(ctx, eventID)
	if err != nil {
		return err
	}
	return export.CallSheet(w, festival, *event, entries)
}

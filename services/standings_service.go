package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/Dosada05/artsfest/models"
	"github.com/Dosada05/artsfest/repositories"
	"github.com/Dosada05/artsfest/scoring"
	"golang.org/x/sync/errgroup"
)

type EventResults struct {
	Event   models.Event                 `json:"event"`
	Entries []models.ParticipationDetail `json:"entries"`
}

type Overview struct {
	FestivalName string                     `json:"festival_name"`
	Stats        models.DashboardStats      `json:"stats"`
	Teams        []scoring.TeamStanding     `json:"teams"`
	TopStudents  []scoring.StudentStanding  `json:"top_students"`
	Champions    []scoring.SectionChampions `json:"champions"`
}

type StandingsService interface {
	// TeamLeaderboard ranks by adjusted total, or by one tier column when tier is set.
	TeamLeaderboard(ctx context.Context, actor Actor, tier *models.Section) ([]scoring.TeamStanding, error)
	StudentLeaderboard(ctx context.Context, actor Actor, section *models.Section, limit int) ([]scoring.StudentStanding, error)
	Champions(ctx context.Context, actor Actor) ([]scoring.SectionChampions, error)
	EventResults(ctx context.Context, actor Actor, eventID int) (*EventResults, error)
	Overview(ctx context.Context, actor Actor) (*Overview, error)
}

type standingsService struct {
	teamRepo  repositories.TeamRepository
	eventRepo repositories.EventRepository
	partRepo  repositories.ParticipationRepository
	config    ConfigService
	dashboard DashboardService
}

func NewStandingsService(
	teamRepo repositories.TeamRepository,
	eventRepo repositories.EventRepository,
	partRepo repositories.ParticipationRepository,
	config ConfigService,
	dashboard DashboardService,
) StandingsService {
	return &standingsService{
		teamRepo:  teamRepo,
		eventRepo: eventRepo,
		partRepo:  partRepo,
		config:    config,
		dashboard: dashboard,
	}
}

// checkVisible: до публикации результаты видит только админ.
func (s *standingsService) checkVisible(ctx context.Context, actor Actor) error {
	if actor.IsAdmin() {
		return nil
	}
	published, err := s.config.Bool(ctx, models.ConfigResultsPublished)
	if err != nil {
		return err
	}
	if !published {
		return ErrResultsNotPublished
	}
	return nil
}

func (s *standingsService) resultRows(ctx context.Context) ([]models.ParticipationDetail, error) {
	rows, err := s.partRepo.ListDetails(ctx, repositories.ListParticipationsFilter{OnlyResults: true})
	if err != nil {
		return nil, fmt.Errorf("failed to load results: %w", err)
	}
	return rows, nil
}

// allRows includes registrations without a result. The Sargga pool is every
// student of the section, so champions read these rather than resultRows.
func (s *standingsService) allRows(ctx context.Context) ([]models.ParticipationDetail, error) {
	rows, err := s.partRepo.ListDetails(ctx, repositories.ListParticipationsFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load participations: %w", err)
	}
	return rows, nil
}

func withResults(rows []models.ParticipationDetail) []models.ParticipationDetail {
	out := make([]models.ParticipationDetail, 0, len(rows))
	for _, d := range rows {
		if d.ResultPosition != nil {
			out = append(out, d)
		}
	}
	return out
}

// loadBoard fetches teams and rows concurrently; either failure aborts both.
func (s *standingsService) loadBoard(ctx context.Context, load func(context.Context) ([]models.ParticipationDetail, error)) ([]models.Team, []models.ParticipationDetail, error) {
	var (
		teams []models.Team
		rows  []models.ParticipationDetail
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		teams, err = s.teamRepo.List(gCtx)
		if err != nil {
			return fmt.Errorf("failed to load teams: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		rows, err = load(gCtx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return teams, rows, nil
}

func (s *standingsService) TeamLeaderboard(ctx context.Context, actor Actor, tier *models.Section) ([]scoring.TeamStanding, error) {
	if tier != nil && !tier.Valid() {
		return nil, ErrInvalidEventSection
	}
	if err := s.checkVisible(ctx, actor); err != nil {
		return nil, err
	}
	teams, rows, err := s.loadBoard(ctx, s.resultRows)
	if err != nil {
		return nil, err
	}
	board := scoring.TeamLeaderboard(teams, rows)
	if tier != nil {
		return scoring.RankByTier(board, *tier), nil
	}
	return board, nil
}

func (s *standingsService) StudentLeaderboard(ctx context.Context, actor Actor, section *models.Section, limit int) ([]scoring.StudentStanding, error) {
	if section != nil && !section.IsBase() {
		return nil, ErrInvalidSection
	}
	if err := s.checkVisible(ctx, actor); err != nil {
		return nil, err
	}
	rows, err := s.resultRows(ctx)
	if err != nil {
		return nil, err
	}
	return truncate(scoring.StudentLeaderboard(rows, section), limit), nil
}

func (s *standingsService) Champions(ctx context.Context, actor Actor) ([]scoring.SectionChampions, error) {
	if err := s.checkVisible(ctx, actor); err != nil {
		return nil, err
	}
	rows, err := s.allRows(ctx)
	if err != nil {
		return nil, err
	}
	return scoring.SelectAllChampions(rows), nil
}

var positionOrder = map[models.Position]int{
	models.PositionFirst:  1,
	models.PositionSecond: 2,
	models.PositionThird:  3,
}

func (s *standingsService) EventResults(ctx context.Context, actor Actor, eventID int) (*EventResults, error) {
	if err := s.checkVisible(ctx, actor); err != nil {
		return nil, err
	}

	var (
		event *models.Event
		rows  []models.ParticipationDetail
	)
	g, gCtx := errgroup.WithContext(ctx)
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
		rows, err = s.partRepo.ListDetails(gCtx, repositories.ListParticipationsFilter{EventID: &eventID, OnlyResults: true})
		if err != nil {
			return fmt.Errorf("failed to load results for event %d: %w", eventID, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return positionOrder[*rows[i].ResultPosition] < positionOrder[*rows[j].ResultPosition]
	})
	return &EventResults{Event: *event, Entries: rows}, nil
}

const overviewTopStudents = 10

func (s *standingsService) Overview(ctx context.Context, actor Actor) (*Overview, error) {
	if err := s.checkVisible(ctx, actor); err != nil {
		return nil, err
	}

	var (
		out   Overview
		teams []models.Team
		rows  []models.ParticipationDetail
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		out.FestivalName, err = s.config.Get(gCtx, models.ConfigFestivalName)
		return err
	})
	g.Go(func() error {
		var err error
		out.Stats, err = s.dashboard.GetStats(gCtx)
		return err
	})
	g.Go(func() error {
		var err error
		teams, rows, err = s.loadBoard(gCtx, s.allRows)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := withResults(rows)
	out.Teams = scoring.TeamLeaderboard(teams, results)
	out.TopStudents = truncate(scoring.StudentLeaderboard(results, nil), overviewTopStudents)
	out.Champions = scoring.SelectAllChampions(rows)
	return &out, nil
}

func truncate[T any](s []T, limit int) []T {
	if limit > 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}

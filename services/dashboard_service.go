package services

import (
	"context"
	"fmt"

	"github.com/Dosada05/artsfest/models"
	"github.com/Dosada05/artsfest/repositories"
	"golang.org/x/sync/errgroup"
)

type DashboardService interface {
	GetStats(ctx context.Context) (models.DashboardStats, error)
}

type dashboardService struct {
	teamRepo    repositories.TeamRepository
	studentRepo repositories.StudentRepository
	eventRepo   repositories.EventRepository
	partRepo    repositories.ParticipationRepository
}

func NewDashboardService(
	teamRepo repositories.TeamRepository,
	studentRepo repositories.StudentRepository,
	eventRepo repositories.EventRepository,
	partRepo repositories.ParticipationRepository,
) DashboardService {
	return &dashboardService{
		teamRepo:    teamRepo,
		studentRepo: studentRepo,
		eventRepo:   eventRepo,
		partRepo:    partRepo,
	}
}

func (s *dashboardService) GetStats(ctx context.Context) (models.DashboardStats, error) {
	var stats models.DashboardStats
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		teams, err := s.teamRepo.List(gCtx)
		if err != nil {
			return fmt.Errorf("count teams: %w", err)
		}
		stats.TeamsTotal = len(teams)
		return nil
	})
	g.Go(func() error {
		n, err := s.studentRepo.Count(gCtx)
		if err != nil {
			return err
		}
		stats.StudentsTotal = n
		return nil
	})
	g.Go(func() error {
		events, err := s.eventRepo.List(gCtx, repositories.ListEventsFilter{})
		if err != nil {
			return fmt.Errorf("count events: %w", err)
		}
		stats.EventsTotal = len(events)
		return nil
	})
	g.Go(func() error {
		ps, err := s.partRepo.Stats(gCtx)
		if err != nil {
			return err
		}
		stats.ParticipationsTotal = ps.Total
		stats.ResultsDeclared = ps.ResultsDeclared
		return nil
	})

	if err := g.Wait(); err != nil {
		return models.DashboardStats{}, err
	}
	return stats, nil
}

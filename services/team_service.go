package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Dosada05/artsfest/models"
	"github.com/Dosada05/artsfest/repositories"
	"github.com/Dosada05/artsfest/storage"
)

type TeamService interface {
	CreateTeam(ctx context.Context, input TeamInput) (*models.Team, error)
	GetTeamByID(ctx context.Context, id int) (*models.Team, error)
	ListTeams(ctx context.Context) ([]models.Team, error)
	UpdateTeam(ctx context.Context, id int, input TeamInput) (*models.Team, error)
	UpdatePenalty(ctx context.Context, actor Actor, id, penalty int) (*models.Team, error)
	UploadLogo(ctx context.Context, actor Actor, id int, contentType string, file io.Reader) (*models.Team, error)
	DeleteTeam(ctx context.Context, id int) error
}

type TeamInput struct {
	Name  string
	Color string
}

type teamService struct {
	teamRepo    repositories.TeamRepository
	studentRepo repositories.StudentRepository
	uploader    storage.FileUploader
	notifier    StandingsNotifier
}

func NewTeamService(
	teamRepo repositories.TeamRepository,
	studentRepo repositories.StudentRepository,
	uploader storage.FileUploader,
	notifier StandingsNotifier,
) TeamService {
	return &teamService{
		teamRepo:    teamRepo,
		studentRepo: studentRepo,
		uploader:    uploader,
		notifier:    notifierOrNoop(notifier),
	}
}

func (s *teamService) CreateTeam(ctx context.Context, input TeamInput) (*models.Team, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTeamNameRequired
	}
	team := &models.Team{Name: name, Color: strings.TrimSpace(input.Color)}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return nil, ErrTeamNameConflict
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	s.notifier.StandingsChanged("team_created", nil)
	return team, nil
}

func (s *teamService) GetTeamByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.getTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	students, err := s.studentRepo.List(ctx, repositories.ListStudentsFilter{TeamID: &id})
	if err != nil {
		return nil, fmt.Errorf("failed to list students of team %d: %w", id, err)
	}
	team.Students = students
	return team, nil
}

func (s *teamService) getTeam(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team by id %d: %w", id, err)
	}
	populateTeamLogoURL(team, s.uploader)
	return team, nil
}

func (s *teamService) ListTeams(ctx context.Context) ([]models.Team, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	for i := range teams {
		populateTeamLogoURL(&teams[i], s.uploader)
	}
	return teams, nil
}

func (s *teamService) UpdateTeam(ctx context.Context, id int, input TeamInput) (*models.Team, error) {
	team, err := s.getTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTeamNameRequired
	}
	team.Name = name
	team.Color = strings.TrimSpace(input.Color)

	if err := s.teamRepo.Update(ctx, team); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTeamNotFound):
			return nil, ErrTeamNotFound
		case errors.Is(err, repositories.ErrTeamNameConflict):
			return nil, ErrTeamNameConflict
		default:
			return nil, fmt.Errorf("failed to update team %d: %w", id, err)
		}
	}
	return team, nil
}

func (s *teamService) UpdatePenalty(ctx context.Context, actor Actor, id, penalty int) (*models.Team, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbiddenOperation
	}
	if penalty < 0 {
		return nil, ErrInvalidPenalty
	}
	if err := s.teamRepo.UpdatePenalty(ctx, id, penalty); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to update penalty for team %d: %w", id, err)
	}
	s.notifier.StandingsChanged("penalty_updated", nil)
	return s.getTeam(ctx, id)
}

func (s *teamService) UploadLogo(ctx context.Context, actor Actor, id int, contentType string, file io.Reader) (*models.Team, error) {
	if s.uploader == nil {
		return nil, ErrStorageNotConfigured
	}
	if !actor.CanManageTeam(id) {
		return nil, ErrForbiddenOperation
	}
	team, err := s.getTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	ext, err := GetExtensionFromContentType(contentType)
	if err != nil {
		return nil, err
	}

	oldKey := derefString(team.LogoKey)
	newKey := storage.TeamLogoKey(id, ext)

	if _, err := s.uploader.Upload(ctx, newKey, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload logo for team %d: %w", id, err)
	}
	if err := s.teamRepo.UpdateLogoKey(ctx, id, &newKey); err != nil {
		if delErr := s.uploader.Delete(context.Background(), newKey); delErr != nil {
			slog.Error("failed to remove orphaned logo", slog.String("key", newKey), slog.Any("error", delErr))
		}
		return nil, fmt.Errorf("failed to save logo key for team %d: %w", id, err)
	}
	if oldKey != "" && oldKey != newKey {
		if err := s.uploader.Delete(ctx, oldKey); err != nil {
			slog.Warn("failed to delete previous team logo", slog.Int("team_id", id), slog.String("key", oldKey), slog.Any("error", err))
		}
	}

	team.LogoKey = &newKey
	populateTeamLogoURL(team, s.uploader)
	return team, nil
}

func (s *teamService) DeleteTeam(ctx context.Context, id int) error {
	team, err := s.getTeam(ctx, id)
	if err != nil {
		return err
	}
	if err := s.teamRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to delete team %d: %w", id, err)
	}
	if key := derefString(team.LogoKey); key != "" && s.uploader != nil {
		if err := s.uploader.Delete(ctx, key); err != nil {
			slog.Warn("failed to delete logo of removed team", slog.Int("team_id", id), slog.Any("error", err))
		}
	}
	s.notifier.StandingsChanged("team_deleted", nil)
	return nil
}

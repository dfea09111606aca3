package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/artsfest/models"
	"github.com/Dosada05/artsfest/repositories"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*models.User, error)
	CreateUser(ctx context.Context, actor Actor, input CreateUserInput) (*models.User, error)
	GetUserByID(ctx context.Context, id int) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

type LoginInput struct {
	Email    string
	Password string
}

type CreateUserInput struct {
	FullName string
	Email    string
	Password string
	Role     models.UserRole
	TeamID   *int
}

type authService struct {
	userRepo repositories.UserRepository
	teamRepo repositories.TeamRepository
}

func NewAuthService(userRepo repositories.UserRepository, teamRepo repositories.TeamRepository) AuthService {
	return &authService{
		userRepo: userRepo,
		teamRepo: teamRepo,
	}
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(input.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}

	user.PasswordHash = ""
	return user, nil
}

// CreateUser заводит учётную запись; публичной регистрации нет.
func (s *authService) CreateUser(ctx context.Context, actor Actor, input CreateUserInput) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbiddenOperation
	}
	if !input.Role.Valid() {
		return nil, ErrInvalidRole
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if input.Role == models.RoleTeamLeader {
		if input.TeamID == nil {
			return nil, ErrLeaderTeamRequired
		}
		if _, err := s.teamRepo.GetByID(ctx, *input.TeamID); err != nil {
			if errors.Is(err, repositories.ErrTeamNotFound) {
				return nil, ErrTeamNotFound
			}
			return nil, fmt.Errorf("failed to check team %d: %w", *input.TeamID, err)
		}
	} else {
		input.TeamID = nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("ошибка хеширования пароля: %w", err)
	}

	user := &models.User{
		FullName:     strings.TrimSpace(input.FullName),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: string(hashedPassword),
		Role:         input.Role,
		TeamID:       input.TeamID,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repositories.ErrUserEmailConflict):
			return nil, ErrUserEmailConflict
		case errors.Is(err, repositories.ErrUserTeamInvalid):
			return nil, ErrTeamNotFound
		default:
			return nil, fmt.Errorf("ошибка создания пользователя: %w", err)
		}
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *authService) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id %d: %w", id, err)
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *authService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

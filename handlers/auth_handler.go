package handlers

import (
	"fmt"
	"net/http"

	"github.com/Dosada05/artsfest/middleware"
	"github.com/Dosada05/artsfest/models"
	"github.com/Dosada05/artsfest/services"
)

type AuthHandler struct {
	authService services.AuthService
	auth        *middleware.Authenticator
}

func NewAuthHandler(authService services.AuthService, auth *middleware.Authenticator) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		auth:        auth,
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login
// @Summary Вход администратора или лидера команды
// @Tags auth
// @Accept json
// @Produce json
// @Param body body loginRequest true "Учётные данные"
// @Success 200 {object} map[string]interface{} "token и user"
// @Failure 401 {object} map[string]string "Неверный email или пароль"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input loginRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}

	user, err := h.authService.Login(r.Context(), services.LoginInput{Email: input.Email, Password: input.Password})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	token, err := h.auth.IssueToken(user)
	if err != nil {
		serverErrorResponse(w, r, fmt.Errorf("failed to sign token: %w", err))
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"token": token, "user": user}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}
	user, err := h.authService.GetUserByID(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"user": user}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type createUserRequest struct {
	FullName string          `json:"full_name" validate:"required,max=120"`
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=8"`
	Role     models.UserRole `json:"role" validate:"required,oneof=admin team_leader"`
	TeamID   *int            `json:"team_id" validate:"omitempty,gt=0"`
}

// CreateUser
// @Summary Создать учётную запись (только администратор)
// @Tags users
// @Accept json
// @Produce json
// @Param body body createUserRequest true "Данные пользователя"
// @Success 201 {object} map[string]interface{} "Пользователь создан"
// @Failure 409 {object} map[string]string "Email уже занят"
// @Security BearerAuth
// @Router /users [post]
func (h *AuthHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var input createUserRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	user, err := h.authService.CreateUser(r.Context(), actor, services.CreateUserInput{
		FullName: input.FullName,
		Email:    input.Email,
		Password: input.Password,
		Role:     input.Role,
		TeamID:   input.TeamID,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"user": user}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.authService.ListUsers(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"users": users}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

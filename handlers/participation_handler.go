package handlers

import (
	"net/http"

	"github.com/Dosada05/artsfest/models"
	"github.com/Dosada05/artsfest/repositories"
	"github.com/Dosada05/artsfest/services"
)

type ParticipationHandler struct {
	participationService services.ParticipationService
}

func NewParticipationHandler(ps services.ParticipationService) *ParticipationHandler {
	return &ParticipationHandler{participationService: ps}
}

type registrationRequest struct {
	StudentID int `json:"student_id" validate:"required,gt=0"`
	EventID   int `json:"event_id" validate:"required,gt=0"`
}

type teamEntryRequest struct {
	TeamID  int `json:"team_id" validate:"required,gt=0"`
	EventID int `json:"event_id" validate:"required,gt=0"`
}

type attendanceRequest struct {
	Attendance models.AttendanceStatus `json:"attendance" validate:"required,oneof=pending present absent"`
}

func (h *ParticipationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input registrationRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	p, err := h.participationService.Register(r.Context(), actor, input.StudentID, input.EventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"participation": p}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ToggleRegistration
// @Summary Переключить регистрацию студента на конкурс
// @Tags participations
// @Description Регистрирует студента или снимает регистрацию. Ответ сообщает, какое действие выполнено.
// @Accept json
// @Produce json
// @Param body body registrationRequest true "Студент и конкурс"
// @Success 200 {object} services.RegistrationResult
// @Failure 400 {object} map[string]string "Студент не подходит по секции"
// @Failure 409 {object} map[string]string "Лимит команды исчерпан"
// @Security BearerAuth
// @Router /participations/toggle [post]
func (h *ParticipationHandler) ToggleRegistration(w http.ResponseWriter, r *http.Request) {
	var input registrationRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	result, err := h.participationService.ToggleRegistration(r.Context(), actor, input.StudentID, input.EventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ParticipationHandler) RegisterTeamEntry(w http.ResponseWriter, r *http.Request) {
	var input teamEntryRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	p, err := h.participationService.RegisterTeamEntry(r.Context(), actor, input.TeamID, input.EventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"participation": p}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ParticipationHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	participationID, err := getIDFromURL(r, "participationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	if err := h.participationService.Unregister(r.Context(), actor, participationID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ParticipationHandler) MarkAttendance(w http.ResponseWriter, r *http.Request) {
	participationID, err := getIDFromURL(r, "participationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input attendanceRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}
	if err := h.participationService.MarkAttendance(r.Context(), participationID, input.Attendance); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// List: ?event_id=, ?team_id=, ?student_id=, ?results=true.
func (h *ParticipationHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter repositories.ListParticipationsFilter
	var err error
	if filter.EventID, err = queryInt(r, "event_id"); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if filter.TeamID, err = queryInt(r, "team_id"); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if filter.StudentID, err = queryInt(r, "student_id"); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	filter.OnlyResults = r.URL.Query().Get("results") == "true"

	rows, err := h.participationService.List(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"participations": rows}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

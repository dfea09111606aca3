package handlers

import (
	"net/http"

	"github.com/Dosada05/artsfest/models"
	"github.com/Dosada05/artsfest/repositories"
	"github.com/Dosada05/artsfest/services"
)

type EventHandler struct {
	eventService services.EventService
}

func NewEventHandler(es services.EventService) *EventHandler {
	return &EventHandler{eventService: es}
}

type eventRequest struct {
	Name               string               `json:"name" validate:"required,max=120"`
	Code               string               `json:"code" validate:"required,max=20"`
	Category           models.EventCategory `json:"category" validate:"required,oneof=on_stage off_stage"`
	GradeTier          models.GradeTier     `json:"grade_tier" validate:"required,oneof=A B C"`
	ApplicableSections []models.Section     `json:"applicable_sections" validate:"dive,oneof=senior junior sub_junior general foundation"`
	MaxParticipants    int                  `json:"max_participants" validate:"min=0,max=50"`
}

func (in eventRequest) toInput() services.EventInput {
	return services.EventInput{
		Name:               in.Name,
		Code:               in.Code,
		Category:           in.Category,
		GradeTier:          in.GradeTier,
		ApplicableSections: in.ApplicableSections,
		MaxParticipants:    in.MaxParticipants,
	}
}

// CreateEvent
// @Summary Создать конкурс
// @Tags events
// @Description Тир C означает групповой конкурс. max_participants ограничивает число заявок от одной команды.
// @Accept json
// @Produce json
// @Param body body eventRequest true "Конкурс"
// @Success 201 {object} map[string]interface{} "Конкурс создан"
// @Failure 409 {object} map[string]string "Код занят"
// @Security BearerAuth
// @Router /events [post]
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var input eventRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}
	event, err := h.eventService.CreateEvent(r.Context(), input.toInput())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"event": event}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EventHandler) GetEventByID(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	event, err := h.eventService.GetEventByID(r.Context(), eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"event": event}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter repositories.ListEventsFilter
	if v := q.Get("category"); v != "" {
		c := models.EventCategory(v)
		filter.Category = &c
	}
	if v := q.Get("grade_tier"); v != "" {
		g := models.GradeTier(v)
		filter.GradeTier = &g
	}
	if v := q.Get("section"); v != "" {
		s := models.Section(v)
		filter.Section = &s
	}

	events, err := h.eventService.ListEvents(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"events": events}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input eventRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}
	event, err := h.eventService.UpdateEvent(r.Context(), eventID, input.toInput())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"event": event}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := h.eventService.DeleteEvent(r.Context(), eventID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

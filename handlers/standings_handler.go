package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/Dosada05/artsfest/models"
	"github.com/Dosada05/artsfest/services"
)

const defaultStudentLimit = 50

type StandingsHandler struct {
	standingsService services.StandingsService
}

func NewStandingsHandler(ss services.StandingsService) *StandingsHandler {
	return &StandingsHandler{standingsService: ss}
}

// TeamLeaderboard
// @Summary Таблица команд
// @Tags standings
// @Description Итоги по пяти секциям, штраф и скорректированная сумма. Без публикации доступно только администратору.
// @Produce json
// @Param tier query string false "Ранжировать по колонке секции (senior|junior|sub_junior|general|foundation)"
// @Success 200 {object} map[string]interface{} "teams"
// @Failure 403 {object} map[string]string "Результаты не опубликованы"
// @Router /standings/teams [get]
func (h *StandingsHandler) TeamLeaderboard(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var tier *models.Section
	if v := r.URL.Query().Get("tier"); v != "" {
		t := models.Section(v)
		tier = &t
	}
	board, err := h.standingsService.TeamLeaderboard(r.Context(), actor, tier)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"teams": board}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// StudentLeaderboard: ?section= (senior|junior|sub_junior), ?limit= (по умолчанию 50).
func (h *StandingsHandler) StudentLeaderboard(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	var section *models.Section
	if v := r.URL.Query().Get("section"); v != "" {
		s := models.Section(v)
		section = &s
	}
	limit := defaultStudentLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			badRequestResponse(w, r, fmt.Errorf("invalid limit query parameter: %q", v))
			return
		}
		limit = n
	}

	board, err := h.standingsService.StudentLeaderboard(r.Context(), actor, section, limit)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"students": board}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StandingsHandler) Champions(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	champions, err := h.standingsService.Champions(r.Context(), actor)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"champions": champions}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StandingsHandler) EventResults(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	results, err := h.standingsService.EventResults(r.Context(), actor, eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, results, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StandingsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	overview, err := h.standingsService.Overview(r.Context(), actor)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, overview, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

package handlers

import (
	"net/http"

	"github.com/Dosada05/artsfest/models"
	"github.com/Dosada05/artsfest/scoring"
	"github.com/Dosada05/artsfest/services"
	"github.com/go-chi/chi/v5"
)

type ResultHandler struct {
	resultService services.ResultService
	gradeService  services.GradeService
}

func NewResultHandler(rs services.ResultService, gs services.GradeService) *ResultHandler {
	return &ResultHandler{resultService: rs, gradeService: gs}
}

type resultRequest struct {
	Position *models.Position         `json:"position" validate:"omitempty,oneof=first second third"`
	Grade    *models.PerformanceGrade `json:"grade" validate:"omitempty,oneof=A B C"`
}

type teamResultRequest struct {
	TeamID   int                      `json:"team_id" validate:"required,gt=0"`
	Position *models.Position         `json:"position" validate:"omitempty,oneof=first second third"`
	Grade    *models.PerformanceGrade `json:"grade" validate:"omitempty,oneof=A B C"`
}

type replaceTeamResultsRequest struct {
	Results []teamResultRequest `json:"results" validate:"dive"`
}

type gradeSettingRequest struct {
	First  int `json:"first" validate:"min=0,max=1000"`
	Second int `json:"second" validate:"min=0,max=1000"`
	Third  int `json:"third" validate:"min=0,max=1000"`
}

// RecordResult
// @Summary Записать результат участия
// @Tags results
// @Description Баллы считаются по действующей таблице. position=null очищает результат.
// @Accept json
// @Produce json
// @Param participationID path int true "Participation ID"
// @Param body body resultRequest true "Место и оценка"
// @Success 200 {object} map[string]interface{} "Участие с баллами"
// @Security BearerAuth
// @Router /participations/{participationID}/result [put]
func (h *ResultHandler) RecordResult(w http.ResponseWriter, r *http.Request) {
	participationID, err := getIDFromURL(r, "participationID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input resultRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}

	p, err := h.resultService.RecordResult(r.Context(), participationID, services.ResultInput{Position: input.Position, Grade: input.Grade})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"participation": p}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ReplaceTeamResults заменяет все командные записи группового конкурса одной транзакцией.
func (h *ResultHandler) ReplaceTeamResults(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input replaceTeamResultsRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}

	results := make([]services.TeamResultInput, 0, len(input.Results))
	for _, res := range input.Results {
		results = append(results, services.TeamResultInput{TeamID: res.TeamID, Position: res.Position, Grade: res.Grade})
	}

	parts, err := h.resultService.ReplaceTeamResults(r.Context(), eventID, results)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"participations": parts}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ResultHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	changed, err := h.resultService.RecalculatePoints(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"updated": changed}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ResultHandler) GradeTable(w http.ResponseWriter, r *http.Request) {
	table, err := h.gradeService.Table(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	out := make(map[models.GradeTier]scoring.Points, len(models.GradeTiers))
	for _, tier := range models.GradeTiers {
		out[tier] = table[tier]
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"grades": out}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateGradeSetting сразу пересчитывает очки уже объявленных результатов этого тира.
func (h *ResultHandler) UpdateGradeSetting(w http.ResponseWriter, r *http.Request) {
	tier := models.GradeTier(chi.URLParam(r, "tier"))
	var input gradeSettingRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}

	setting, err := h.gradeService.UpdateSetting(r.Context(), tier, scoring.Points{First: input.First, Second: input.Second, Third: input.Third})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"grade_setting": setting}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

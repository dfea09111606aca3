package handlers

import (
	"net/http"
	"strings"

	"github.com/Dosada05/artsfest/models"
	"github.com/Dosada05/artsfest/repositories"
	"github.com/Dosada05/artsfest/services"
)

type StudentHandler struct {
	studentService services.StudentService
	eventService   services.EventService
}

func NewStudentHandler(ss services.StudentService, es services.EventService) *StudentHandler {
	return &StudentHandler{studentService: ss, eventService: es}
}

type studentRequest struct {
	Name        string         `json:"name" validate:"required,max=120"`
	ChestNumber string         `json:"chest_number" validate:"required,max=20"`
	Section     models.Section `json:"section" validate:"required,oneof=senior junior sub_junior"`
	ClassGrade  string         `json:"class_grade" validate:"max=20"`
	TeamID      int            `json:"team_id" validate:"required,gt=0"`
}

func (in studentRequest) toInput() services.StudentInput {
	return services.StudentInput{
		Name:        in.Name,
		ChestNumber: in.ChestNumber,
		Section:     in.Section,
		ClassGrade:  in.ClassGrade,
		TeamID:      in.TeamID,
	}
}

// CreateStudent
// @Summary Добавить студента в команду
// @Tags students
// @Accept json
// @Produce json
// @Param body body studentRequest true "Студент"
// @Success 201 {object} map[string]interface{} "Студент создан"
// @Failure 409 {object} map[string]string "Номер участника занят"
// @Security BearerAuth
// @Router /students [post]
func (h *StudentHandler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var input studentRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	student, err := h.studentService.CreateStudent(r.Context(), actor, input.toInput())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"student": student}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StudentHandler) GetStudentByID(w http.ResponseWriter, r *http.Request) {
	studentID, err := getIDFromURL(r, "studentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	student, err := h.studentService.GetStudentByID(r.Context(), studentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"student": student}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListStudents поддерживает ?team_id=, ?section= и ?q= (поиск по имени или номеру).
func (h *StudentHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	teamID, err := queryInt(r, "team_id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	filter := repositories.ListStudentsFilter{
		TeamID: teamID,
		Search: strings.TrimSpace(r.URL.Query().Get("q")),
	}
	if v := r.URL.Query().Get("section"); v != "" {
		sec := models.Section(v)
		filter.Section = &sec
	}

	students, err := h.studentService.ListStudents(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"students": students}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StudentHandler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	studentID, err := getIDFromURL(r, "studentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input studentRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	student, err := h.studentService.UpdateStudent(r.Context(), actor, studentID, input.toInput())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"student": student}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StudentHandler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	studentID, err := getIDFromURL(r, "studentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	if err := h.studentService.DeleteStudent(r.Context(), actor, studentID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *StudentHandler) EligibleEvents(w http.ResponseWriter, r *http.Request) {
	studentID, err := getIDFromURL(r, "studentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	events, err := h.eventService.EligibleEvents(r.Context(), studentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"events": events}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

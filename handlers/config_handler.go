package handlers

import (
	"net/http"

	"github.com/Dosada05/artsfest/services"
	"github.com/go-chi/chi/v5"
)

type ConfigHandler struct {
	configService services.ConfigService
}

func NewConfigHandler(cs services.ConfigService) *ConfigHandler {
	return &ConfigHandler{configService: cs}
}

type configValueRequest struct {
	Value string `json:"value" validate:"required,max=200"`
}

func (h *ConfigHandler) All(w http.ResponseWriter, r *http.Request) {
	values, err := h.configService.All(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"config": values}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Set
// @Summary Изменить настройку портала
// @Tags config
// @Description Ключи: festival_name, results_published, registration_open.
// @Accept json
// @Produce json
// @Param key path string true "Ключ"
// @Param body body configValueRequest true "Значение"
// @Success 200 {object} map[string]interface{} "Сохранённая запись"
// @Security BearerAuth
// @Router /config/{key} [put]
func (h *ConfigHandler) Set(w http.ResponseWriter, r *http.Request) {
	var input configValueRequest
	if !decodeAndValidate(w, r, &input) {
		return
	}
	entry, err := h.configService.Set(r.Context(), chi.URLParam(r, "key"), input.Value)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"config": entry}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Dosada05/artsfest/services"
	"github.com/go-chi/chi/v5"
)

type AssetHandler struct {
	assetService services.AssetService
}

func NewAssetHandler(as services.AssetService) *AssetHandler {
	return &AssetHandler{assetService: as}
}

func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request) {
	assets, err := h.assetService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"assets": assets}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AssetHandler) Get(w http.ResponseWriter, r *http.Request) {
	asset, err := h.assetService.Get(r.Context(), chi.URLParam(r, "slot"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"asset": asset}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Upload принимает multipart-поле "file" и заменяет ассет слота.
func (h *AssetHandler) Upload(w http.ResponseWriter, r *http.Request) {
	slot := chi.URLParam(r, "slot")

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		badRequestResponse(w, r, fmt.Errorf("failed to parse multipart form: %w", err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		badRequestResponse(w, r, fmt.Errorf("failed to get file from form: %w", err))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		badRequestResponse(w, r, errors.New("content type required"))
		return
	}

	asset, err := h.assetService.Upload(r.Context(), slot, contentType, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"asset": asset}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AssetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.assetService.Delete(r.Context(), chi.URLParam(r, "slot")); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

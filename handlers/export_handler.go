package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Dosada05/artsfest/services"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
	contentTypePNG  = "image/png"
)

type ExportHandler struct {
	exportService services.ExportService
}

func NewExportHandler(es services.ExportService) *ExportHandler {
	return &ExportHandler{exportService: es}
}

// sendFile собирает файл целиком до записи заголовков; ошибка рендера уходит обычным JSON-ответом.
func sendFile(w http.ResponseWriter, r *http.Request, contentType, filename string, render func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func stamp() string {
	return time.Now().Format("20060102")
}

// StandingsWorkbook
// @Summary Выгрузка итогов в XLSX
// @Tags exports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Security BearerAuth
// @Router /exports/standings.xlsx [get]
func (h *ExportHandler) StandingsWorkbook(w http.ResponseWriter, r *http.Request) {
	sendFile(w, r, contentTypeXLSX, "standings-"+stamp()+".xlsx", func(buf *bytes.Buffer) error {
		return h.exportService.StandingsWorkbook(r.Context(), buf)
	})
}

func (h *ExportHandler) ScoreReport(w http.ResponseWriter, r *http.Request) {
	sendFile(w, r, contentTypePDF, "score-report-"+stamp()+".pdf", func(buf *bytes.Buffer) error {
		return h.exportService.ScoreReport(r.Context(), buf)
	})
}

func (h *ExportHandler) StandingsChart(w http.ResponseWriter, r *http.Request) {
	sendFile(w, r, contentTypePNG, "standings-"+stamp()+".png", func(buf *bytes.Buffer) error {
		return h.exportService.StandingsChart(r.Context(), buf)
	})
}

func (h *ExportHandler) JudgmentSheet(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	sendFile(w, r, contentTypePDF, fmt.Sprintf("judgment-%d.pdf", eventID), func(buf *bytes.Buffer) error {
		return h.exportService.JudgmentSheet(r.Context(), buf, eventID)
	})
}

func (h *ExportHandler) CallSheet(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	sendFile(w, r, contentTypePDF, fmt.Sprintf("call-sheet-%d.pdf", eventID), func(buf *bytes.Buffer) error {
		return h.exportService.CallSheet(r.Context(), buf, eventID)
	})
}

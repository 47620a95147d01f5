package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mujeebabdul-99/sports-card-text-extraction/config"
	"github.com/mujeebabdul-99/sports-card-text-extraction/internal/domain"
	"github.com/mujeebabdul-99/sports-card-text-extraction/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	exportService *usecase.ExportService
	production    bool
}

// NewHandler creates a new HTTP handler. production hides error details
// and configuration hints from responses.
func NewHandler(exportService *usecase.ExportService, production bool) *Handler {
	return &Handler{
		exportService: exportService,
		production:    production,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "cardexport",
		"version": "1.0.0",
	})
}

// ExportCSV handles POST /export/csv
func (h *Handler) ExportCSV(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req domain.ExportCSVRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	export, err := h.exportService.ExportCSV(c.Request.Context(), &req)
	if err != nil {
		h.writeExportError(c, err, "Failed to export CSV")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.Filename))
	c.Data(http.StatusOK, "text/csv", export.Content)
}

// ExportSheets handles POST /export/sheets
func (h *Handler) ExportSheets(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req domain.ExportSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := h.exportService.ExportSheet(c.Request.Context(), &req)
	if err != nil {
		h.writeExportError(c, err, "Failed to export to Google Sheets")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Card exported to Google Sheets successfully",
		"spreadsheetId": result.SpreadsheetID,
		"sheetName":     result.SheetName,
		"sheetUrl":      result.SheetURL,
		"row":           result.Row,
	})
}

// GetCard handles GET /cards/:id
func (h *Handler) GetCard(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	card, err := h.exportService.GetCard(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeExportError(c, err, "Failed to load card")
		return
	}
	c.JSON(http.StatusOK, card)
}

// PutCard handles PUT /cards/:id, storing a record produced upstream
func (h *Handler) PutCard(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var card domain.CardRecord
	if err := c.ShouldBindJSON(&card); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	card.ID = c.Param("id")

	if err := h.exportService.SaveCard(c.Request.Context(), &card); err != nil {
		h.writeExportError(c, err, "Failed to save card")
		return
	}
	c.JSON(http.StatusOK, &card)
}

func (h *Handler) ready(c *gin.Context) bool {
	if h.exportService == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Export service not configured"})
		return false
	}
	return true
}

// writeExportError maps domain errors to HTTP responses
func (h *Handler) writeExportError(c *gin.Context, err error, fallback string) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": "cardId is required"})

	case errors.Is(err, domain.ErrCardNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Card not found"})

	case errors.Is(err, domain.ErrSpreadsheetIDRequired):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf(
				"No spreadsheet ID configured. Set the %s environment variable or pass spreadsheetId in the request body.",
				config.SpreadsheetIDEnvVar,
			),
		})

	case errors.Is(err, domain.ErrSpreadsheetNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Spreadsheet not found. Check the spreadsheet ID and that it is shared with the service account.",
		})

	case errors.Is(err, domain.ErrSheetsNotConfigured):
		msg := "Google Sheets export is not configured on this server."
		if !h.production {
			msg = fmt.Sprintf(
				"Google Sheets credentials are missing or invalid. Set %s or %s_SHEETS_CREDENTIALS_JSON.",
				config.CredentialsFileEnvVar, config.EnvPrefix,
			)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})

	default:
		body := gin.H{"error": fallback}
		if !h.production {
			body["details"] = err.Error()
		}
		c.JSON(http.StatusInternalServerError, body)
	}
}

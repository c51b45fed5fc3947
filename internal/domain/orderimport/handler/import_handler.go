// Package handler exposes the import pipeline over HTTP for the admin
// dashboard.
package handler

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wasely/courier-admin/internal/domain/orderimport/order"
	"github.com/wasely/courier-admin/internal/domain/orderimport/parser"
	"github.com/wasely/courier-admin/internal/domain/orderimport/service"
)

// maxUploadBytes caps uploads well above the few thousand rows this tool
// targets.
const maxUploadBytes = 10 << 20

// ImportHandler handles bulk order import endpoints.
type ImportHandler struct {
	svc    *service.ImportService
	logger *slog.Logger
}

// NewImportHandler creates a new import handler.
func NewImportHandler(svc *service.ImportService, logger *slog.Logger) *ImportHandler {
	return &ImportHandler{svc: svc, logger: logger}
}

// Register mounts the import routes on a router group.
func (h *ImportHandler) Register(r *gin.RouterGroup) {
	r.POST("/imports/preview", h.Preview)
	r.POST("/imports/validate", h.Validate)
	r.GET("/imports/template", h.Template)
}

// Preview accepts a multipart file upload and returns the parsed, resolved
// and validated batch. Fatal parse errors abort with a single message and no
// partial rows.
func (h *ImportHandler) Preview(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file upload"})
		return
	}
	// An oversized file is rejected whole rather than parsed truncated;
	// a preview of a silently cut-off batch would be worse than no preview.
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file exceeds the upload size limit"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file upload"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file upload"})
		return
	}

	preview, err := h.svc.Preview(c.Request.Context(), fileHeader.Filename, data)
	if err != nil {
		h.logger.Warn("import preview failed", "file", fileHeader.Filename, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, preview)
}

type validateRequest struct {
	Rows []*order.Row `json:"rows" binding:"required"`
}

// Validate re-runs validation over rows the operator edited in the grid.
func (h *ImportHandler) Validate(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	invalid := h.svc.Revalidate(req.Rows)
	c.JSON(http.StatusOK, gin.H{
		"rows":         req.Rows,
		"invalid_rows": invalid,
	})
}

// Template serves the blank starter file in CSV or workbook form.
func (h *ImportHandler) Template(c *gin.Context) {
	switch c.DefaultQuery("format", "csv") {
	case "csv":
		data, err := parser.TemplateCSV()
		if err != nil {
			h.logger.Error("failed to build CSV template", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build template"})
			return
		}
		c.Header("Content-Disposition", `attachment; filename="orders-template.csv"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
	case "xlsx":
		data, err := parser.TemplateXLSX()
		if err != nil {
			h.logger.Error("failed to build XLSX template", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build template"})
			return
		}
		c.Header("Content-Disposition", `attachment; filename="orders-template.xlsx"`)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown template format"})
	}
}

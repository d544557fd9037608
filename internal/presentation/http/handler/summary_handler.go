package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/pedidos-api/internal/application/service"
	"github.com/sangkips/pedidos-api/internal/presentation/http/dto/response"
	"github.com/sangkips/pedidos-api/pkg/orderview"
)

// SummaryHandler handles /resumenes and the profit report built from them
type SummaryHandler struct {
	summaryService *service.SummaryService
	exportService  *service.ExportService
}

// NewSummaryHandler creates a new summary handler
func NewSummaryHandler(summaryService *service.SummaryService, exportService *service.ExportService) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService, exportService: exportService}
}

// List handles listing summaries, newest first
func (h *SummaryHandler) List(c *gin.Context) {
	summaries, err := h.summaryService.ListSummaries(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, summaries)
}

// Get handles fetching one summary
func (h *SummaryHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	summary, err := h.summaryService.GetSummary(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Create handles storing a summary payload built by a client
func (h *SummaryHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var payload orderview.SavedSummary
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	saved, err := h.summaryService.SaveSummary(c.Request.Context(), userID, payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// Delete handles deleting a summary
func (h *SummaryHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.summaryService.DeleteSummary(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Profit handles the per-order profit table across every summary
func (h *SummaryHandler) Profit(c *gin.Context) {
	report, err := h.summaryService.ProfitReport(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Profit report generated", report)
}

// Export handles downloading the profit table as a spreadsheet
func (h *SummaryHandler) Export(c *gin.Context) {
	export, err := h.exportService.ProfitWorkbook(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	if export.Archived != nil {
		c.Header("X-Archive-Key", export.Archived.Key)
		if export.Archived.URL != "" {
			c.Header("X-Archive-URL", export.Archived.URL)
		}
	}
	c.Data(http.StatusOK, export.ContentType, export.Data)
}

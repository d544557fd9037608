package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sangkips/pedidos-api/internal/application/service"
	"github.com/sangkips/pedidos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/pedidos-api/internal/presentation/http/dto/response"
	"github.com/sangkips/pedidos-api/pkg/orderview"
)

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// bindState reads the view state; an empty body is the default state
func bindState(c *gin.Context) (orderview.ViewState, bool) {
	var req request.DashboardRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body")
			return orderview.ViewState{}, false
		}
	}
	return req.State(), true
}

// View handles computing the filtered, sorted, paginated view with totals
func (h *DashboardHandler) View(c *gin.Context) {
	state, ok := bindState(c)
	if !ok {
		return
	}
	view, err := h.dashboardService.View(c.Request.Context(), state)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "View computed", view)
}

// Receipt handles rendering the shareable receipt of the current view
func (h *DashboardHandler) Receipt(c *gin.Context) {
	state, ok := bindState(c)
	if !ok {
		return
	}
	receipt, err := h.dashboardService.Receipt(c.Request.Context(), state)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt generated", receipt)
}

// SaveSummary handles storing the summary of the current view
func (h *DashboardHandler) SaveSummary(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	state, ok := bindState(c)
	if !ok {
		return
	}
	saved, err := h.dashboardService.SaveCurrentSummary(c.Request.Context(), userID, state)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Resumen guardado", saved)
}

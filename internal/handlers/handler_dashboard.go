package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/billing_app/internal/core/ports/services"
	"github.com/SscSPs/billing_app/internal/dto"
	"github.com/SscSPs/billing_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type dashboardHandler struct {
	dashboardService portssvc.DashboardService
}

// RegisterDashboardRoutes registers the aggregated reporting routes.
func RegisterDashboardRoutes(rg *gin.RouterGroup, dashboardService portssvc.DashboardService) {
	h := &dashboardHandler{dashboardService: dashboardService}

	dashboard := rg.Group("/dashboard")
	dashboard.GET("/profit-loss", h.getProfitLoss)
}

// getProfitLoss godoc
// @Summary Get profit and loss
// @Description Income from paid invoices minus all expenses of the logged-in user
// @Tags dashboard
// @Produce  json
// @Success 200 {object} dto.ProfitLossResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to calculate profit and loss"
// @Security BearerAuth
// @Router /dashboard/profit-loss [get]
func (h *dashboardHandler) getProfitLoss(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	summary, err := h.dashboardService.GetProfitLoss(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, logger, err, "calculate profit and loss")
		return
	}

	c.JSON(http.StatusOK, dto.ToProfitLossResponse(summary))
}

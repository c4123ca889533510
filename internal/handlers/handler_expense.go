package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/billing_app/internal/core/ports/services"
	"github.com/SscSPs/billing_app/internal/dto"
	"github.com/SscSPs/billing_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// expenseHandler handles HTTP requests related to expenses.
type expenseHandler struct {
	expenseService portssvc.ExpenseSvcFacade
}

// RegisterExpenseRoutes registers routes related to expenses.
func RegisterExpenseRoutes(rg *gin.RouterGroup, expenseService portssvc.ExpenseSvcFacade) {
	registerCustomValidators()
	h := &expenseHandler{expenseService: expenseService}

	expenses := rg.Group("/expenses")
	{
		expenses.POST("", h.createExpense)
		expenses.GET("", h.listExpenses)
		expenses.GET("/:expenseID", h.getExpense)
		expenses.DELETE("/:expenseID", h.deleteExpense)
	}
}

// createExpense godoc
// @Summary Record an expense
// @Tags expenses
// @Accept  json
// @Produce  json
// @Param   expense body dto.CreateExpenseRequest true "Expense details"
// @Success 201 {object} dto.ExpenseResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create expense"
// @Security BearerAuth
// @Router /expenses [post]
func (h *expenseHandler) createExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateExpense", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("user_id", userID))
	expense, err := h.expenseService.CreateExpense(c.Request.Context(), req, userID)
	if err != nil {
		respondWithError(c, logger, err, "create expense")
		return
	}

	logger.Info("Expense created successfully", slog.String("expense_id", expense.ExpenseID()))
	c.JSON(http.StatusCreated, dto.ToExpenseResponse(expense))
}

// listExpenses godoc
// @Summary List expenses for the logged-in user
// @Description Newest first, paged with an opaque continuation token
// @Tags expenses
// @Produce  json
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListExpensesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list expenses"
// @Security BearerAuth
// @Router /expenses [get]
func (h *expenseHandler) listExpenses(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var params dto.ListExpensesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListExpenses", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.expenseService.ListExpenses(c.Request.Context(), userID, params)
	if err != nil {
		respondWithError(c, logger, err, "list expenses")
		return
	}

	logger.Info("Expenses listed successfully", slog.Int("count", len(resp.Expenses)))
	c.JSON(http.StatusOK, resp)
}

// getExpense godoc
// @Summary Get an expense by ID
// @Tags expenses
// @Produce  json
// @Param   expenseID path string true "Expense ID"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Expense not found"
// @Failure 500 {object} map[string]string "Failed to retrieve expense"
// @Security BearerAuth
// @Router /expenses/{expenseID} [get]
func (h *expenseHandler) getExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	expenseID := c.Param("expenseID")
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	expense, err := h.expenseService.GetExpenseByID(c.Request.Context(), expenseID, userID)
	if err != nil {
		respondWithError(c, logger.With(slog.String("expense_id", expenseID)), err, "retrieve expense")
		return
	}

	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}

// deleteExpense godoc
// @Summary Delete an expense
// @Tags expenses
// @Param   expenseID path string true "Expense ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Expense not found"
// @Failure 500 {object} map[string]string "Failed to delete expense"
// @Security BearerAuth
// @Router /expenses/{expenseID} [delete]
func (h *expenseHandler) deleteExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	expenseID := c.Param("expenseID")
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("expense_id", expenseID))
	if err := h.expenseService.DeleteExpense(c.Request.Context(), expenseID, userID); err != nil {
		respondWithError(c, logger, err, "delete expense")
		return
	}

	logger.Info("Expense deleted successfully")
	c.Status(http.StatusNoContent)
}

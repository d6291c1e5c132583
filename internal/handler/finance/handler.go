package finance

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/styllobarber/styllobarber-api/internal/handler"
	"github.com/styllobarber/styllobarber-api/internal/middleware"
	"github.com/styllobarber/styllobarber-api/internal/model"
	"github.com/styllobarber/styllobarber-api/internal/service/finance"
	apperrors "github.com/styllobarber/styllobarber-api/pkg/errors"
)

type Handler struct {
	service *finance.Service
}

func NewHandler(service *finance.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the POS and reporting endpoints. The router wraps
// the transaction write with pos_operations and the reports with
// access_financial_data.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authMW *middleware.AuthMiddleware) {
	pos := r.Group("/pos")
	pos.Use(authMW.RequirePermission(model.PermPOSOperations))
	{
		pos.POST("/transactions", h.RecordPayment)
	}

	reports := r.Group("/finance")
	reports.Use(authMW.RequirePermission(model.PermAccessFinancialData))
	{
		reports.GET("/transactions", h.ListTransactions)
		reports.GET("/revenue", h.RevenueSummary)
		reports.GET("/revenue/barbers", h.RevenueByBarber)
	}
}

func (h *Handler) RecordPayment(c *gin.Context) {
	var req model.RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, err.Error())
		return
	}

	txn, err := h.service.RecordPayment(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Created(c, txn)
}

// period parses the from/to query params, defaulting to the current month.
func period(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, 0)

	if from := c.Query("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return start, end, apperrors.BadRequest("invalid from date", err)
		}
		start = t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return start, end, apperrors.BadRequest("invalid to date", err)
		}
		end = t.AddDate(0, 0, 1)
	}
	return start, end, nil
}

func (h *Handler) ListTransactions(c *gin.Context) {
	session, _ := middleware.GetSession(c)
	start, end, err := period(c)
	if err != nil {
		handler.Error(c, err)
		return
	}

	txns, err := h.service.List(c.Request.Context(), session.BarbershopID, start, end)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, txns)
}

func (h *Handler) RevenueSummary(c *gin.Context) {
	session, _ := middleware.GetSession(c)
	start, end, err := period(c)
	if err != nil {
		handler.Error(c, err)
		return
	}

	summary, err := h.service.RevenueSummary(c.Request.Context(), session.BarbershopID, start, end)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, summary)
}

func (h *Handler) RevenueByBarber(c *gin.Context) {
	session, _ := middleware.GetSession(c)
	start, end, err := period(c)
	if err != nil {
		handler.Error(c, err)
		return
	}

	rows, err := h.service.RevenueByBarber(c.Request.Context(), session.BarbershopID, start, end)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, rows)
}

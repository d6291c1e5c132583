package appointment

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/styllobarber/styllobarber-api/internal/handler"
	"github.com/styllobarber/styllobarber-api/internal/middleware"
	"github.com/styllobarber/styllobarber-api/internal/model"
	"github.com/styllobarber/styllobarber-api/internal/service/appointment"
	"github.com/styllobarber/styllobarber-api/internal/service/authz"
	apperrors "github.com/styllobarber/styllobarber-api/pkg/errors"
)

type Handler struct {
	service *appointment.Service
	checker *authz.Checker
}

func NewHandler(service *appointment.Service, checker *authz.Checker) *Handler {
	return &Handler{service: service, checker: checker}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appts := r.Group("/appointments")
	{
		appts.POST("", h.Book)
		appts.GET("", h.List)
		appts.GET("/:id", h.Get)
		appts.POST("/:id/confirm", h.Confirm)
		appts.POST("/:id/cancel", h.Cancel)
		appts.POST("/:id/complete", h.Complete)
		appts.POST("/:id/no-show", h.MarkNoShow)
		appts.POST("/:id/reschedule", h.Reschedule)
	}
}

func (h *Handler) Book(c *gin.Context) {
	session, ok := middleware.GetSession(c)
	if !ok || !h.checker.HasPermission(session, model.PermBookAppointments) {
		handler.Error(c, apperrors.Forbidden("booking requires a client account"))
		return
	}

	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, err.Error())
		return
	}

	appt, err := h.service.Book(c.Request.Context(), session.UserID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Created(c, appt)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BadRequest(c, "invalid appointment id")
		return
	}

	appt, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	session, _ := middleware.GetSession(c)
	if !h.canView(session, appt) {
		handler.Error(c, apperrors.Forbidden("not your appointment"))
		return
	}
	handler.OK(c, appt)
}

// List scopes results to the caller: clients see their own bookings,
// barbers their own calendar, staff with the right permission everything.
func (h *Handler) List(c *gin.Context) {
	session, ok := middleware.GetSession(c)
	if !ok {
		handler.Error(c, apperrors.Forbidden("authentication required"))
		return
	}

	filters := &model.AppointmentFilters{BarbershopID: session.BarbershopID}
	if status := c.Query("status"); status != "" {
		filters.Status = model.AppointmentStatus(status)
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			filters.StartDate = t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			filters.EndDate = t
		}
	}

	if !h.checker.HasPermission(session, model.PermViewAllAppointments) {
		switch session.Role {
		case model.RoleBarber:
			filters.BarberID = session.UserID
		default:
			filters.ClientID = session.UserID
		}
	}

	appts, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, appts)
}

func (h *Handler) Confirm(c *gin.Context) {
	h.transition(c, h.service.Confirm)
}

func (h *Handler) Complete(c *gin.Context) {
	h.transition(c, h.service.Complete)
}

func (h *Handler) MarkNoShow(c *gin.Context) {
	h.transition(c, h.service.MarkNoShow)
}

// transition runs the staff-only status changes (confirm, complete,
// no-show); clients cancel through Cancel instead.
func (h *Handler) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*model.Appointment, error)) {
	session, ok := middleware.GetSession(c)
	if !ok {
		handler.Error(c, apperrors.Forbidden("authentication required"))
		return
	}
	if !h.checker.HasAnyPermission(session, model.PermManageAppointments, model.PermManageOwnSchedule) {
		handler.Error(c, apperrors.Forbidden("staff access required"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BadRequest(c, "invalid appointment id")
		return
	}

	appt, err := fn(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, appt)
}

func (h *Handler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BadRequest(c, "invalid appointment id")
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&body)

	session, _ := middleware.GetSession(c)
	appt, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	if !h.canView(session, appt) {
		handler.Error(c, apperrors.Forbidden("not your appointment"))
		return
	}

	cancelled, err := h.service.Cancel(c.Request.Context(), id, body.Reason)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, cancelled)
}

func (h *Handler) Reschedule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BadRequest(c, "invalid appointment id")
		return
	}

	var body struct {
		StartTime time.Time `json:"start_time" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		handler.BadRequest(c, err.Error())
		return
	}

	session, _ := middleware.GetSession(c)
	appt, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	if !h.canView(session, appt) {
		handler.Error(c, apperrors.Forbidden("not your appointment"))
		return
	}

	moved, err := h.service.Reschedule(c.Request.Context(), id, body.StartTime)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, moved)
}

func (h *Handler) canView(session model.Session, appt *model.Appointment) bool {
	if h.checker.HasPermission(session, model.PermViewAllAppointments) {
		return true
	}
	return appt.ClientID == session.UserID || appt.BarberID == session.UserID
}

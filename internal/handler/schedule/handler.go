package schedule

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/styllobarber/styllobarber-api/internal/handler"
	"github.com/styllobarber/styllobarber-api/internal/middleware"
	"github.com/styllobarber/styllobarber-api/internal/model"
	"github.com/styllobarber/styllobarber-api/internal/service/authz"
	"github.com/styllobarber/styllobarber-api/internal/service/schedule"
	apperrors "github.com/styllobarber/styllobarber-api/pkg/errors"
)

type Handler struct {
	service *schedule.Service
	checker *authz.Checker
}

func NewHandler(service *schedule.Service, checker *authz.Checker) *Handler {
	return &Handler{service: service, checker: checker}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	hours := r.Group("/working-hours")
	{
		hours.PUT("", h.UpsertDay)
		hours.GET("/business", h.BusinessWeek)
		hours.GET("/barbers/:barberID", h.EffectiveWeek)
		hours.DELETE("/:id", h.DeleteDay)
	}
}

// UpsertDay writes one day's hours. Barbers may edit their own override;
// anything else needs the working-hours management permission.
func (h *Handler) UpsertDay(c *gin.Context) {
	session, ok := middleware.GetSession(c)
	if !ok {
		handler.Error(c, apperrors.Forbidden("authentication required"))
		return
	}

	var req model.UpsertWorkingHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, err.Error())
		return
	}

	if !h.checker.HasPermission(session, model.PermManageWorkingHours) {
		ownSchedule := h.checker.HasPermission(session, model.PermManageOwnSchedule) &&
			req.BarberID != nil && *req.BarberID == session.UserID.String()
		if !ownSchedule {
			handler.Error(c, apperrors.Forbidden("cannot edit this schedule"))
			return
		}
	}

	hours, err := h.service.UpsertDay(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, hours)
}

func (h *Handler) BusinessWeek(c *gin.Context) {
	session, ok := middleware.GetSession(c)
	if !ok {
		handler.Error(c, apperrors.Forbidden("authentication required"))
		return
	}

	week, err := h.service.BusinessWeek(c.Request.Context(), session.BarbershopID)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, week)
}

func (h *Handler) EffectiveWeek(c *gin.Context) {
	session, ok := middleware.GetSession(c)
	if !ok {
		handler.Error(c, apperrors.Forbidden("authentication required"))
		return
	}

	barberID, err := uuid.Parse(c.Param("barberID"))
	if err != nil {
		handler.BadRequest(c, "invalid barber id")
		return
	}

	week, err := h.service.EffectiveWeek(c.Request.Context(), session.BarbershopID, barberID)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, week)
}

func (h *Handler) DeleteDay(c *gin.Context) {
	session, ok := middleware.GetSession(c)
	if !ok || !h.checker.HasPermission(session, model.PermManageWorkingHours) {
		handler.Error(c, apperrors.Forbidden("cannot edit schedules"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BadRequest(c, "invalid id")
		return
	}

	if err := h.service.DeleteDay(c.Request.Context(), id); err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, gin.H{"deleted": id})
}

package availability

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/styllobarber/styllobarber-api/internal/handler"
	"github.com/styllobarber/styllobarber-api/internal/model"
	"github.com/styllobarber/styllobarber-api/internal/repository"
	"github.com/styllobarber/styllobarber-api/internal/service/availability"
)

type Handler struct {
	service     *availability.Service
	serviceRepo repository.ServiceRepository
}

func NewHandler(service *availability.Service, serviceRepo repository.ServiceRepository) *Handler {
	return &Handler{service: service, serviceRepo: serviceRepo}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	avail := r.Group("/availability")
	{
		avail.GET("/slots", h.GetSlots)
		avail.GET("/slots/any-barber", h.GetSlotsAnyBarber)
		avail.GET("/check", h.CheckSlot)
		avail.POST("/batch", h.CheckBatch)
	}
}

type slotQuery struct {
	BarbershopID string `form:"barbershop_id" binding:"required,uuid"`
	BarberID     string `form:"barber_id" binding:"omitempty,uuid"`
	Date         string `form:"date" binding:"required,datetime=2006-01-02"`
	ServiceID    string `form:"service_id" binding:"omitempty,uuid"`
	Duration     int    `form:"duration" binding:"omitempty,gt=0"`
	Step         int    `form:"step" binding:"omitempty,gt=0"`
}

// resolveDuration prefers an explicit duration and falls back to the
// service catalog entry.
func (h *Handler) resolveDuration(c *gin.Context, q *slotQuery) (int, bool) {
	if q.Duration > 0 {
		return q.Duration, true
	}
	if q.ServiceID == "" {
		handler.BadRequest(c, "either duration or service_id is required")
		return 0, false
	}
	serviceID, _ := uuid.Parse(q.ServiceID)
	svc, err := h.serviceRepo.Get(c.Request.Context(), serviceID)
	if err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse("service not found"))
		return 0, false
	}
	return svc.DurationMinutes, true
}

func (h *Handler) GetSlots(c *gin.Context) {
	var q slotQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		handler.BadRequest(c, err.Error())
		return
	}
	if q.BarberID == "" {
		handler.BadRequest(c, "barber_id is required")
		return
	}

	duration, ok := h.resolveDuration(c, &q)
	if !ok {
		return
	}

	barbershopID, _ := uuid.Parse(q.BarbershopID)
	barberID, _ := uuid.Parse(q.BarberID)
	date, _ := time.Parse("2006-01-02", q.Date)

	slots, err := h.service.GetAvailableTimeSlots(c.Request.Context(), barbershopID, barberID, date, duration, q.Step)
	if err != nil {
		handler.Error(c, err)
		return
	}
	if slots == nil {
		slots = []string{}
	}
	handler.OK(c, gin.H{"date": q.Date, "slots": slots})
}

func (h *Handler) GetSlotsAnyBarber(c *gin.Context) {
	var q slotQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		handler.BadRequest(c, err.Error())
		return
	}

	duration, ok := h.resolveDuration(c, &q)
	if !ok {
		return
	}

	barbershopID, _ := uuid.Parse(q.BarbershopID)
	date, _ := time.Parse("2006-01-02", q.Date)

	slots, err := h.service.GetAvailableTimeSlotsAnyBarber(c.Request.Context(), barbershopID, date, duration, q.Step)
	if err != nil {
		handler.Error(c, err)
		return
	}
	if slots == nil {
		slots = []string{}
	}
	handler.OK(c, gin.H{"date": q.Date, "slots": slots})
}

type checkQuery struct {
	slotQuery
	Time string `form:"time" binding:"required"`
}

func (h *Handler) CheckSlot(c *gin.Context) {
	var q checkQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		handler.BadRequest(c, err.Error())
		return
	}
	if q.BarberID == "" {
		handler.BadRequest(c, "barber_id is required")
		return
	}

	duration, ok := h.resolveDuration(c, &q.slotQuery)
	if !ok {
		return
	}

	barbershopID, _ := uuid.Parse(q.BarbershopID)
	barberID, _ := uuid.Parse(q.BarberID)
	date, _ := time.Parse("2006-01-02", q.Date)

	result, err := h.service.CheckAvailability(c.Request.Context(), barbershopID, barberID, date, q.Time, duration)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, result)
}

func (h *Handler) CheckBatch(c *gin.Context) {
	var req model.AvailabilityBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, err.Error())
		return
	}

	barbershopID, err := uuid.Parse(req.BarbershopID)
	if err != nil {
		handler.BadRequest(c, "invalid barbershop id")
		return
	}
	barberID, err := uuid.Parse(req.BarberID)
	if err != nil {
		handler.BadRequest(c, "invalid barber id")
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		handler.BadRequest(c, "invalid date, expected YYYY-MM-DD")
		return
	}

	results, err := h.service.GetAvailabilityBatch(c.Request.Context(), barbershopID, barberID, date, req.Times, req.DurationMinutes)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, gin.H{"date": req.Date, "results": results})
}

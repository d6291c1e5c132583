package barbershop

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/styllobarber/styllobarber-api/internal/handler"
	"github.com/styllobarber/styllobarber-api/internal/middleware"
	"github.com/styllobarber/styllobarber-api/internal/model"
	"github.com/styllobarber/styllobarber-api/internal/service/barbershop"
	apperrors "github.com/styllobarber/styllobarber-api/pkg/errors"
)

type Handler struct {
	service *barbershop.Service
}

func NewHandler(service *barbershop.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts tenant administration; wrap with the saas_owner
// role where the router builds the group.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	shops := r.Group("/barbershops")
	{
		shops.POST("", h.Create)
		shops.GET("", h.List)
		shops.GET("/:id", h.Get)
		shops.PUT("/:id", h.Update)
	}
}

// RegisterCatalogRoutes mounts the service catalog; reads are open to any
// authenticated user, writes need manage_services.
func (h *Handler) RegisterCatalogRoutes(r *gin.RouterGroup, authMW *middleware.AuthMiddleware) {
	services := r.Group("/services")
	{
		services.GET("", h.ListServices)
		services.POST("", authMW.RequirePermission(model.PermManageServices), h.CreateService)
		services.PUT("/:id", authMW.RequirePermission(model.PermManageServices), h.UpdateService)
		services.DELETE("/:id", authMW.RequirePermission(model.PermManageServices), h.DeleteService)
	}
}

func (h *Handler) Create(c *gin.Context) {
	session, ok := middleware.GetSession(c)
	if !ok {
		handler.Error(c, apperrors.Forbidden("authentication required"))
		return
	}

	var req model.CreateBarbershopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, err.Error())
		return
	}

	shop, err := h.service.Create(c.Request.Context(), session.UserID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Created(c, shop)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BadRequest(c, "invalid barbershop id")
		return
	}

	shop, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, shop)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BadRequest(c, "invalid barbershop id")
		return
	}

	var req model.UpdateBarbershopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, err.Error())
		return
	}

	shop, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, shop)
}

func (h *Handler) List(c *gin.Context) {
	shops, err := h.service.List(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, shops)
}

func (h *Handler) CreateService(c *gin.Context) {
	var req model.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, err.Error())
		return
	}

	svc, err := h.service.CreateService(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.Created(c, svc)
}

func (h *Handler) UpdateService(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BadRequest(c, "invalid service id")
		return
	}

	var req model.UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.BadRequest(c, err.Error())
		return
	}

	svc, err := h.service.UpdateService(c.Request.Context(), id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, svc)
}

func (h *Handler) DeleteService(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.BadRequest(c, "invalid service id")
		return
	}

	if err := h.service.DeleteService(c.Request.Context(), id); err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, gin.H{"deleted": id})
}

func (h *Handler) ListServices(c *gin.Context) {
	session, ok := middleware.GetSession(c)
	if !ok {
		handler.Error(c, apperrors.Forbidden("authentication required"))
		return
	}

	activeOnly := c.DefaultQuery("active_only", "true") == "true"
	services, err := h.service.ListServices(c.Request.Context(), session.BarbershopID, activeOnly)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.OK(c, services)
}

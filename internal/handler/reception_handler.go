package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReceptionHandler struct {
	receptionService service.ReceptionService
}

func NewReceptionHandler(receptionService service.ReceptionService) *ReceptionHandler {
	return &ReceptionHandler{receptionService: receptionService}
}

func (h *ReceptionHandler) RegisterRoutes(router *gin.RouterGroup) {
	receptions := router.Group("/receptions")
	{
		receptions.GET("", middleware.RequirePermission("receptions.read"), h.ListReceptions)
		receptions.GET("/:id", middleware.RequirePermission("receptions.read"), h.GetReception)
		receptions.POST("", middleware.RequirePermission("receptions.create"), h.CreateReception)
		receptions.PUT("/:id", middleware.RequirePermission("receptions.update"), h.UpdateReception)
		receptions.DELETE("/:id", middleware.RequirePermission("receptions.delete"), h.DeleteReception)
	}
}

func (h *ReceptionHandler) ListReceptions(c *gin.Context) {
	p := pagination.Parse(c)

	receptions, total, err := h.receptionService.ListReceptions(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.List(http.StatusOK, receptions, total, p.Page, p.Limit))
}

func (h *ReceptionHandler) GetReception(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	reception, err := h.receptionService.GetReception(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, reception))
}

func (h *ReceptionHandler) CreateReception(c *gin.Context) {
	var req service.ReceptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	reception, err := h.receptionService.CreateReception(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, reception))
}

func (h *ReceptionHandler) UpdateReception(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req service.ReceptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	reception, err := h.receptionService.UpdateReception(c.Request.Context(), middleware.CurrentUserID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, reception))
}

func (h *ReceptionHandler) DeleteReception(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.receptionService.DeleteReception(c.Request.Context(), middleware.CurrentUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Reception deleted"}))
}

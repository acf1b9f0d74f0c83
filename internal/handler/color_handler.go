package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ColorHandler struct {
	colorService service.ColorService
}

func NewColorHandler(colorService service.ColorService) *ColorHandler {
	return &ColorHandler{colorService: colorService}
}

func (h *ColorHandler) RegisterRoutes(router *gin.RouterGroup) {
	colors := router.Group("/colors")
	{
		colors.GET("", middleware.RequirePermission("colors.read"), h.ListColors)
		colors.GET("/:id", middleware.RequirePermission("colors.read"), h.GetColor)
		colors.POST("", middleware.RequirePermission("colors.create"), h.CreateColor)
		colors.PUT("/:id", middleware.RequirePermission("colors.update"), h.UpdateColor)
		colors.DELETE("/:id", middleware.RequirePermission("colors.delete"), h.DeleteColor)
	}
}

func (h *ColorHandler) ListColors(c *gin.Context) {
	colors, err := h.colorService.ListColors(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, colors))
}

func (h *ColorHandler) GetColor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	color, err := h.colorService.GetColor(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, color))
}

func (h *ColorHandler) CreateColor(c *gin.Context) {
	var req service.ColorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	color, err := h.colorService.CreateColor(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, color))
}

func (h *ColorHandler) UpdateColor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req service.ColorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	color, err := h.colorService.UpdateColor(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, color))
}

func (h *ColorHandler) DeleteColor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.colorService.DeleteColor(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Color deleted"}))
}

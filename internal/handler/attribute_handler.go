package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type AttributeHandler struct {
	attributeService service.AttributeService
}

func NewAttributeHandler(attributeService service.AttributeService) *AttributeHandler {
	return &AttributeHandler{attributeService: attributeService}
}

func (h *AttributeHandler) RegisterRoutes(router *gin.RouterGroup) {
	attrs := router.Group("/attributes")
	{
		attrs.GET("", middleware.RequirePermission("attributes.read"), h.ListAttributes)
		attrs.GET("/:id", middleware.RequirePermission("attributes.read"), h.GetAttribute)
		attrs.POST("", middleware.RequirePermission("attributes.create"), h.CreateAttribute)
		attrs.PUT("/:id", middleware.RequirePermission("attributes.update"), h.UpdateAttribute)
		attrs.DELETE("/:id", middleware.RequirePermission("attributes.delete"), h.DeleteAttribute)
		attrs.POST("/:id/values", middleware.RequirePermission("attributes.update"), h.AddValue)
		attrs.DELETE("/:id/values/:valueId", middleware.RequirePermission("attributes.update"), h.RemoveValue)
	}
}

func (h *AttributeHandler) ListAttributes(c *gin.Context) {
	attrs, err := h.attributeService.ListAttributes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, attrs))
}

func (h *AttributeHandler) GetAttribute(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	attr, err := h.attributeService.GetAttribute(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, attr))
}

func (h *AttributeHandler) CreateAttribute(c *gin.Context) {
	var req service.AttributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	attr, err := h.attributeService.CreateAttribute(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, attr))
}

func (h *AttributeHandler) UpdateAttribute(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req service.AttributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	attr, err := h.attributeService.UpdateAttribute(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, attr))
}

func (h *AttributeHandler) DeleteAttribute(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.attributeService.DeleteAttribute(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Attribute deleted"}))
}

type addValueRequest struct {
	Value string `json:"value" binding:"required"`
}

func (h *AttributeHandler) AddValue(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req addValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	value, err := h.attributeService.AddValue(c.Request.Context(), id, req.Value)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, value))
}

func (h *AttributeHandler) RemoveValue(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	valueID, ok := parseIDParam(c, "valueId")
	if !ok {
		return
	}

	if err := h.attributeService.RemoveValue(c.Request.Context(), id, valueID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Attribute value deleted"}))
}

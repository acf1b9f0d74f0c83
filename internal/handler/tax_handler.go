package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type TaxHandler struct {
	taxService service.TaxService
}

func NewTaxHandler(taxService service.TaxService) *TaxHandler {
	return &TaxHandler{taxService: taxService}
}

func (h *TaxHandler) RegisterRoutes(router *gin.RouterGroup) {
	taxes := router.Group("/taxes")
	{
		taxes.GET("", middleware.RequirePermission("taxes.read"), h.ListTaxes)
		taxes.GET("/:id", middleware.RequirePermission("taxes.read"), h.GetTax)
		taxes.POST("", middleware.RequirePermission("taxes.create"), h.CreateTax)
		taxes.PUT("/:id", middleware.RequirePermission("taxes.update"), h.UpdateTax)
		taxes.DELETE("/:id", middleware.RequirePermission("taxes.delete"), h.DeleteTax)
	}
}

// ListTaxes returns all taxes in storage order
func (h *TaxHandler) ListTaxes(c *gin.Context) {
	taxes, err := h.taxService.ListTaxes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, taxes))
}

func (h *TaxHandler) GetTax(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	tax, err := h.taxService.GetTax(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, tax))
}

func (h *TaxHandler) CreateTax(c *gin.Context) {
	var req service.TaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	tax, err := h.taxService.CreateTax(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, tax))
}

func (h *TaxHandler) UpdateTax(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req service.TaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	tax, err := h.taxService.UpdateTax(c.Request.Context(), middleware.CurrentUserID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, tax))
}

func (h *TaxHandler) DeleteTax(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.taxService.DeleteTax(c.Request.Context(), middleware.CurrentUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Tax deleted"}))
}

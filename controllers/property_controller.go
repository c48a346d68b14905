package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"properties-api/dto"
	"properties-api/services"
)

// PropertyController maneja los endpoints HTTP de propiedades
type PropertyController struct {
	service services.PropertyService
}

func NewPropertyController(service services.PropertyService) *PropertyController {
	return &PropertyController{service: service}
}

// ListProperties maneja GET /properties
// Query: status, property_type, owner_id, page, page_size
func (ctrl *PropertyController) ListProperties(c *gin.Context) {
	var req dto.ListPropertiesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	properties, total, filter, err := ctrl.service.ListProperties(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPropertyListResponse(properties, total, filter.Page, filter.PageSize))
}

// CreateProperty maneja POST /properties
func (ctrl *PropertyController) CreateProperty(c *gin.Context) {
	var req dto.CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	property, err := ctrl.service.CreateProperty(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse{
		Message: "Property created successfully",
		Data:    dto.NewPropertyResponse(property),
	})
}

// GetProperty maneja GET /properties/:id
func (ctrl *PropertyController) GetProperty(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	property, err := ctrl.service.GetProperty(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPropertyResponse(property))
}

// UpdateProperty maneja PUT /properties/:id
// Solo cambian los campos que vienen en el body
func (ctrl *PropertyController) UpdateProperty(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	property, err := ctrl.service.UpdateProperty(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Property updated successfully",
		Data:    dto.NewPropertyResponse(property),
	})
}

// DeleteProperty maneja DELETE /properties/:id
func (ctrl *PropertyController) DeleteProperty(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := ctrl.service.DeleteProperty(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Property deleted successfully",
	})
}

package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"properties-api/domain"
	"properties-api/dto"
)

// respondError traduce los errores de la capa de persistencia a respuestas HTTP
func respondError(c *gin.Context, err error) {
	var (
		validationErr *domain.ValidationError
		referenceErr  *domain.ReferenceError
		notFoundErr   *domain.NotFoundError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: validationErr.Error(),
		})
	case errors.As(err, &referenceErr):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error:   "reference_error",
			Message: referenceErr.Error(),
		})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error:   "not_found",
			Message: notFoundErr.Error(),
		})
	default:
		log.Printf("Internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: "internal server error",
		})
	}
}

// bindError responde cuando el body o la query no se pudieron parsear
func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error:   "validation_error",
		Message: err.Error(),
	})
}

// parseID lee el parámetro :id de la URL
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid ID",
		})
		return 0, false
	}
	return uint(id), true
}

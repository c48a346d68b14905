package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"properties-api/dto"
	"properties-api/services"
)

// UserController expone la consulta de propietarios
type UserController struct {
	service services.UserService
}

func NewUserController(service services.UserService) *UserController {
	return &UserController{service: service}
}

// GetUserByID maneja GET /users/:id
func (ctrl *UserController) GetUserByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	user, err := ctrl.service.GetUserByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

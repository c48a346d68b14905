package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// InvestmentController agrupa los endpoints de inversiones.
// Por ahora solo confirman la llamada, no hay lógica detrás.
type InvestmentController struct{}

func NewInvestmentController() *InvestmentController {
	return &InvestmentController{}
}

// ListInvestments maneja GET /investments
func (ctrl *InvestmentController) ListInvestments(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "List of investments"})
}

// CreateInvestment maneja POST /investments
func (ctrl *InvestmentController) CreateInvestment(c *gin.Context) {
	c.JSON(http.StatusCreated, gin.H{"message": "Investment created"})
}

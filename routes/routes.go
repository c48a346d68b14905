package routes

import (
	"github.com/gin-gonic/gin"

	"properties-api/controllers"
	"properties-api/middleware"
)

// Controllers agrupa todos los handlers que monta el router
type Controllers struct {
	Property   *controllers.PropertyController
	User       *controllers.UserController
	Investment *controllers.InvestmentController
}

// SetupRouter monta todos los endpoints detrás de la lista CORS
func SetupRouter(allowedOrigins []string, ctrl Controllers) *gin.Engine {
	router := gin.Default()
	router.Use(middleware.CORSMiddleware(allowedOrigins))

	router.GET("/health", controllers.HealthCheck)

	properties := router.Group("/properties")
	{
		properties.GET("", ctrl.Property.ListProperties)
		properties.POST("", ctrl.Property.CreateProperty)
		properties.GET("/:id", ctrl.Property.GetProperty)
		properties.PUT("/:id", ctrl.Property.UpdateProperty)
		properties.DELETE("/:id", ctrl.Property.DeleteProperty)
	}

	router.GET("/users/:id", ctrl.User.GetUserByID)

	investments := router.Group("/investments")
	{
		investments.GET("", ctrl.Investment.ListInvestments)
		investments.POST("", ctrl.Investment.CreateInvestment)
	}

	return router
}

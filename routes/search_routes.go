package routes

import (
	"github.com/gin-gonic/gin"

	"mediamanager/controllers"
)

func SetupSearchRoutes(api *gin.RouterGroup, container *ServiceContainer) {
	searchController := controllers.NewSearchController(container.Search)

	search := api.Group("/search")
	{
		search.GET("", searchController.Search)
		search.GET("/advanced", searchController.SearchAdvanced)
		search.GET("/suggestions", searchController.Suggest)
	}
}

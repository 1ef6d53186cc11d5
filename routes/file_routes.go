package routes

import (
	"github.com/gin-gonic/gin"

	"mediamanager/controllers"
)

func SetupFileRoutes(api *gin.RouterGroup, container *ServiceContainer) {
	fileController := controllers.NewFileController(
		container.Files,
		container.Config.MaxFileSize,
		container.Config.MaxUploadFiles,
	)

	files := api.Group("/files")
	{
		files.GET("/:id/content", fileController.GetFileContent)
		files.GET("/:id/image", fileController.GetImageContent)
		files.GET("/:id/public-url", fileController.GetPublicURL)
		files.PATCH("/:id/rename", fileController.RenameFile)
		files.DELETE("/:id", fileController.DeleteFile)
	}
}

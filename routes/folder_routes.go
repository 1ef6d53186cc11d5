package routes

import (
	"github.com/gin-gonic/gin"

	"mediamanager/controllers"
)

func SetupFolderRoutes(api *gin.RouterGroup, container *ServiceContainer) {
	folderController := controllers.NewFolderController(
		container.Navigator,
		container.Folders,
		container.Archives,
		container.Config.MaxArchiveSize,
	)
	fileController := controllers.NewFileController(
		container.Files,
		container.Config.MaxFileSize,
		container.Config.MaxUploadFiles,
	)

	folders := api.Group("/folders")
	{
		folders.GET("/root", folderController.ListRootFolders)
		folders.POST("", folderController.CreateFolder)
		folders.POST("/upload-zip", folderController.UploadArchive)

		folders.GET("/:id/light", folderController.GetFolderLight)
		folders.GET("/:id/contents", folderController.GetFolderContents)
		folders.GET("/:id/download", folderController.DownloadFolder)
		folders.PATCH("/:id/rename", folderController.RenameFolder)
		folders.DELETE("/:id", folderController.DeleteFolder)
		folders.DELETE("/:id/recursive", folderController.DeleteFolderRecursive)

		folders.POST("/:id/files", fileController.UploadFile)
		folders.POST("/:id/files/batch", fileController.UploadFiles)
	}
}

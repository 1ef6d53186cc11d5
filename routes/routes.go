package routes

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"mediamanager/config"
	"mediamanager/middleware"
	"mediamanager/repository"
	"mediamanager/services"
)

// ServiceContainer wires repositories and services once at startup and
// hands them to the route groups.
type ServiceContainer struct {
	Users     repository.UserRepository
	Navigator *services.NavigatorService
	Folders   *services.FolderService
	Files     *services.FileService
	Archives  *services.ArchiveService
	Search    *services.SearchService
	Config    *config.Config
}

func NewServiceContainer(db *mongo.Database, cfg *config.Config) *ServiceContainer {
	users := repository.NewMongoUserRepository(db)
	folders := repository.NewMongoFolderRepository(db)
	files := repository.NewMongoFileRepository(db)

	return &ServiceContainer{
		Users:     users,
		Navigator: services.NewNavigatorService(folders, files),
		Folders:   services.NewFolderService(folders, files),
		Files:     services.NewFileService(folders, files),
		Archives:  services.NewArchiveService(folders, files),
		Search:    services.NewSearchService(folders, files),
		Config:    cfg,
	}
}

// SetupRoutes mounts every API route group under /api. All groups run
// behind the user-resolving middleware.
func SetupRoutes(router *gin.Engine, container *ServiceContainer) {
	api := router.Group("/api")
	api.Use(middleware.ResolveUser(container.Users, container.Config.JWTSecret, container.Config.DefaultUserEmail))

	SetupFolderRoutes(api, container)
	SetupFileRoutes(api, container)
	SetupSearchRoutes(api, container)
}

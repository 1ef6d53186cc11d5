package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mediamanager/config"
	"mediamanager/models"
	"mediamanager/repository"
	"mediamanager/routes"
	"mediamanager/utils"
)

func main() {
	// Load .env before config reads the environment
	loadEnvFile()

	config.LoadConfig()
	cfg := config.AppConfig

	utils.InitLogger()

	ctx, cancel := config.CreateContext(10 * time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	defer func() {
		disconnectCtx, disconnectCancel := config.CreateContext(5 * time.Second)
		defer disconnectCancel()
		if err = mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Printf("Failed to disconnect MongoDB: %v", err)
		}
	}()

	if err = mongoClient.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}

	log.Println("Connected to MongoDB successfully")

	db := mongoClient.Database(cfg.DatabaseName)
	serviceContainer := routes.NewServiceContainer(db, cfg)

	if err := ensureDefaultUser(ctx, serviceContainer.Users, cfg); err != nil {
		log.Fatalf("Failed to seed default user: %v", err)
	}

	router := gin.Default()
	router.Use(corsMiddleware(cfg.AllowedOrigins))

	routes.SetupRoutes(router, serviceContainer)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC(),
		})
	})

	log.Printf("Starting MediaManager server on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// ensureDefaultUser creates the account unauthenticated requests run as.
// Repeated startups reuse the existing record.
func ensureDefaultUser(ctx context.Context, users repository.UserRepository, cfg *config.Config) error {
	_, err := users.GetByEmail(ctx, cfg.DefaultUserEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	user := &models.User{
		ID:        primitive.NewObjectID(),
		Name:      cfg.DefaultUserName,
		Email:     cfg.DefaultUserEmail,
		CreatedAt: time.Now(),
	}
	if err := users.Create(ctx, user); err != nil {
		return err
	}
	log.Printf("Seeded default user %s", cfg.DefaultUserEmail)
	return nil
}

// loadEnvFile loads a .env file when one exists; a missing file just
// means the system environment is used as-is.
func loadEnvFile() {
	envPaths := []string{".env", "../.env", "cmd/../.env"}

	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err == nil {
				log.Printf("Loaded environment variables from: %s", envPath)
				return
			}
		}
	}

	log.Println("No .env file found, using system environment variables")
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestOrigin := c.Request.Header.Get("Origin")

		allowOrigin := "*"
		if len(allowedOrigins) > 0 {
			allowOrigin = allowedOrigins[0]
			for _, allowedOrigin := range allowedOrigins {
				if allowedOrigin == "*" || allowedOrigin == requestOrigin {
					allowOrigin = allowedOrigin
					break
				}
			}
		}

		c.Writer.Header().Set("Access-Control-Allow-Origin", allowOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

package controllers

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"mediamanager/services"
	"mediamanager/utils"
)

// getUserID returns the acting user set by the ResolveUser middleware.
func getUserID(c *gin.Context) (primitive.ObjectID, error) {
	value, exists := c.Get("userId")
	if !exists {
		return primitive.NilObjectID, fmt.Errorf("user not authenticated")
	}

	userID, ok := value.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("invalid user ID format")
	}
	return userID, nil
}

// parseObjectID validates and parses a path or query parameter ID.
func parseObjectID(c *gin.Context, value, label string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(value)
	if err != nil {
		utils.BadRequestResponse(c, fmt.Sprintf("Invalid %s ID format", label), nil)
		return primitive.NilObjectID, false
	}
	return id, true
}

// handleServiceError maps service errors to HTTP responses. Anything not
// recognized is a 500 with a generic message; the underlying error goes
// to the log, not the client.
func handleServiceError(c *gin.Context, err error, defaultMessage string) {
	var notEmpty *services.NotEmptyError
	switch {
	case errors.Is(err, services.ErrFolderNotFound):
		utils.NotFoundResponse(c, "Folder not found")
	case errors.Is(err, services.ErrParentFolderNotFound):
		utils.NotFoundResponse(c, "Parent folder not found")
	case errors.Is(err, services.ErrFileNotFound):
		utils.NotFoundResponse(c, "File not found")
	case errors.Is(err, services.ErrDuplicateFolder):
		utils.ConflictResponse(c, "Folder with this name already exists", err.Error())
	case errors.As(err, &notEmpty):
		utils.BadRequestResponse(c, "Folder is not empty", gin.H{
			"files":      notEmpty.Files,
			"subfolders": notEmpty.Children,
		})
	case errors.Is(err, services.ErrEmptyFolder):
		utils.BadRequestResponse(c, "Folder contains no files to download", nil)
	case errors.Is(err, services.ErrEmptyArchive):
		utils.BadRequestResponse(c, "No archive data supplied", nil)
	case errors.Is(err, services.ErrNotAnImage):
		utils.BadRequestResponse(c, "File is not an image", nil)
	case errors.Is(err, services.ErrNoFiles):
		utils.BadRequestResponse(c, "No files supplied", nil)
	case errors.Is(err, services.ErrInvalidName):
		utils.BadRequestResponse(c, "Invalid name", err.Error())
	default:
		utils.LogError(defaultMessage, err)
		utils.InternalServerErrorResponse(c, defaultMessage, nil)
	}
}

package controllers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"mediamanager/services"
	"mediamanager/utils"
)

type FolderController struct {
	navigator      *services.NavigatorService
	folders        *services.FolderService
	archives       *services.ArchiveService
	maxArchiveSize int64
}

func NewFolderController(navigator *services.NavigatorService, folders *services.FolderService, archives *services.ArchiveService, maxArchiveSize int64) *FolderController {
	return &FolderController{
		navigator:      navigator,
		folders:        folders,
		archives:       archives,
		maxArchiveSize: maxArchiveSize,
	}
}

// ListRootFolders returns the user's top-level folders with counts.
func (fc *FolderController) ListRootFolders(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	folders, err := fc.navigator.ListRootFolders(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err, "Failed to retrieve folders")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": folders})
}

// GetFolderLight returns a folder's metadata without its contents.
func (fc *FolderController) GetFolderLight(c *gin.Context) {
	folderID, ok := parseObjectID(c, c.Param("id"), "folder")
	if !ok {
		return
	}

	folder, err := fc.navigator.GetFolderLight(c.Request.Context(), folderID)
	if err != nil {
		handleServiceError(c, err, "Failed to retrieve folder")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": folder})
}

// GetFolderContents returns a paginated view of a folder's direct files
// and the full list of its subfolders.
func (fc *FolderController) GetFolderContents(c *gin.Context) {
	folderID, ok := parseObjectID(c, c.Param("id"), "folder")
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	includeFiles := c.DefaultQuery("includeFiles", "true") != "false"
	includeChildren := c.DefaultQuery("includeChildren", "true") != "false"

	contents, err := fc.navigator.GetFolderPage(c.Request.Context(), folderID, page, pageSize, includeFiles, includeChildren)
	if err != nil {
		handleServiceError(c, err, "Failed to retrieve folder contents")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": contents})
}

// CreateFolder creates a folder at the root or under a parent.
func (fc *FolderController) CreateFolder(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	var req struct {
		Name     string  `json:"name" binding:"required,min=1,max=255"`
		ParentID *string `json:"parent_id,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request data", err.Error())
		return
	}

	var parentID *primitive.ObjectID
	if req.ParentID != nil && *req.ParentID != "" {
		id, ok := parseObjectID(c, *req.ParentID, "parent folder")
		if !ok {
			return
		}
		parentID = &id
	}

	folder, err := fc.folders.CreateFolder(c.Request.Context(), userID, req.Name, parentID)
	if err != nil {
		handleServiceError(c, err, "Failed to create folder")
		return
	}

	utils.CreatedResponse(c, "Folder created successfully", folder)
}

// RenameFolder changes a folder's name in place.
func (fc *FolderController) RenameFolder(c *gin.Context) {
	folderID, ok := parseObjectID(c, c.Param("id"), "folder")
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name" binding:"required,min=1,max=255"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request data", err.Error())
		return
	}

	if err := fc.folders.RenameFolder(c.Request.Context(), folderID, req.Name); err != nil {
		handleServiceError(c, err, "Failed to rename folder")
		return
	}

	utils.SuccessResponse(c, "Folder renamed successfully", nil)
}

// DeleteFolder removes an empty folder; a folder with contents is
// rejected with the blocking counts.
func (fc *FolderController) DeleteFolder(c *gin.Context) {
	folderID, ok := parseObjectID(c, c.Param("id"), "folder")
	if !ok {
		return
	}

	if err := fc.folders.DeleteFolderIfEmpty(c.Request.Context(), folderID); err != nil {
		handleServiceError(c, err, "Failed to delete folder")
		return
	}

	utils.SuccessResponse(c, "Folder deleted successfully", nil)
}

// DeleteFolderRecursive removes a folder and everything beneath it.
func (fc *FolderController) DeleteFolderRecursive(c *gin.Context) {
	folderID, ok := parseObjectID(c, c.Param("id"), "folder")
	if !ok {
		return
	}

	result, err := fc.folders.DeleteFolderRecursive(c.Request.Context(), folderID)
	if err != nil {
		handleServiceError(c, err, "Failed to delete folder")
		return
	}

	utils.SuccessResponse(c, "Folder deleted successfully", result)
}

// DownloadFolder streams the folder's subtree as a ZIP archive.
func (fc *FolderController) DownloadFolder(c *gin.Context) {
	folderID, ok := parseObjectID(c, c.Param("id"), "folder")
	if !ok {
		return
	}

	archive, name, err := fc.archives.BuildFolderArchive(c.Request.Context(), folderID)
	if err != nil {
		handleServiceError(c, err, "Failed to build folder archive")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".zip"))
	c.Data(http.StatusOK, "application/zip", archive)
}

// UploadArchive imports an uploaded ZIP as a new folder tree.
func (fc *FolderController) UploadArchive(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	header, err := c.FormFile("zipFile")
	if err != nil {
		utils.BadRequestResponse(c, "ZIP file is required", err.Error())
		return
	}
	if header.Size > fc.maxArchiveSize {
		utils.PayloadTooLargeResponse(c, fmt.Sprintf("Archive exceeds maximum size of %d bytes", fc.maxArchiveSize))
		return
	}

	var parentID *primitive.ObjectID
	if value := c.PostForm("parentFolderId"); value != "" {
		id, ok := parseObjectID(c, value, "parent folder")
		if !ok {
			return
		}
		parentID = &id
	}

	source, err := header.Open()
	if err != nil {
		utils.BadRequestResponse(c, "Failed to read uploaded archive", err.Error())
		return
	}
	defer source.Close()

	archive, err := io.ReadAll(source)
	if err != nil {
		utils.BadRequestResponse(c, "Failed to read uploaded archive", err.Error())
		return
	}

	result, err := fc.archives.ImportArchive(c.Request.Context(), userID, archive, parentID, c.PostForm("folderName"))
	if err != nil {
		handleServiceError(c, err, "Failed to import archive")
		return
	}

	utils.CreatedResponse(c, fmt.Sprintf("Imported %d files into %d folders", result.FilesProcessed, result.FoldersProcessed+1), result)
}

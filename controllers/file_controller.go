package controllers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"mediamanager/services"
	"mediamanager/utils"
)

// imageCacheControl lets browsers cache served images for a year;
// payloads are immutable once stored.
const imageCacheControl = "public, max-age=31536000"

type FileController struct {
	files          *services.FileService
	maxFileSize    int64
	maxUploadFiles int
}

func NewFileController(files *services.FileService, maxFileSize int64, maxUploadFiles int) *FileController {
	return &FileController{
		files:          files,
		maxFileSize:    maxFileSize,
		maxUploadFiles: maxUploadFiles,
	}
}

// GetFileContent serves a file's raw payload with its stored mime type.
func (fc *FileController) GetFileContent(c *gin.Context) {
	fileID, ok := parseObjectID(c, c.Param("id"), "file")
	if !ok {
		return
	}

	file, err := fc.files.GetFileContent(c.Request.Context(), fileID)
	if err != nil {
		handleServiceError(c, err, "Failed to retrieve file")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", file.OriginalName))
	c.Data(http.StatusOK, file.MimeType, file.Data)
}

// GetImageContent serves an image payload with long-lived caching,
// rejecting files whose mime type is not image/*.
func (fc *FileController) GetImageContent(c *gin.Context) {
	fileID, ok := parseObjectID(c, c.Param("id"), "file")
	if !ok {
		return
	}

	file, err := fc.files.GetImageContent(c.Request.Context(), fileID)
	if err != nil {
		handleServiceError(c, err, "Failed to retrieve image")
		return
	}

	c.Header("Cache-Control", imageCacheControl)
	c.Data(http.StatusOK, file.MimeType, file.Data)
}

// GetPublicURL returns file metadata plus the path the content is served
// from.
func (fc *FileController) GetPublicURL(c *gin.Context) {
	fileID, ok := parseObjectID(c, c.Param("id"), "file")
	if !ok {
		return
	}

	file, err := fc.files.GetFileMeta(c.Request.Context(), fileID)
	if err != nil {
		handleServiceError(c, err, "Failed to retrieve file")
		return
	}

	utils.SuccessResponse(c, "File URL generated", gin.H{
		"id":        file.ID,
		"name":      file.Name,
		"mime_type": file.MimeType,
		"size":      file.Size,
		"url":       fmt.Sprintf("/api/files/%s/content", file.ID.Hex()),
	})
}

// UploadFile stores a single uploaded file in a folder.
func (fc *FileController) UploadFile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	folderID, ok := parseObjectID(c, c.Param("id"), "folder")
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, "File is required", err.Error())
		return
	}
	if err := utils.ValidateFileHeader(header, fc.maxFileSize); err != nil {
		utils.BadRequestResponse(c, "Invalid file", err.Error())
		return
	}

	data, err := readUpload(header)
	if err != nil {
		utils.BadRequestResponse(c, "Failed to read uploaded file", err.Error())
		return
	}

	file, err := fc.files.UploadFile(c.Request.Context(), userID, folderID, header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		handleServiceError(c, err, "Failed to upload file")
		return
	}

	utils.CreatedResponse(c, "File uploaded successfully", gin.H{
		"id":         file.ID,
		"name":       file.Name,
		"mime_type":  file.MimeType,
		"size":       file.Size,
		"created_at": file.CreatedAt,
	})
}

// UploadFiles stores a batch of uploaded files, reporting per-file
// failures without voiding the batch.
func (fc *FileController) UploadFiles(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	folderID, ok := parseObjectID(c, c.Param("id"), "folder")
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		utils.BadRequestResponse(c, "Invalid multipart form", err.Error())
		return
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		utils.BadRequestResponse(c, "No files supplied", nil)
		return
	}
	if len(headers) > fc.maxUploadFiles {
		utils.BadRequestResponse(c, fmt.Sprintf("Too many files: maximum %d per upload", fc.maxUploadFiles), nil)
		return
	}

	uploads := make([]services.FileUpload, 0, len(headers))
	for _, header := range headers {
		if err := utils.ValidateFileHeader(header, fc.maxFileSize); err != nil {
			utils.BadRequestResponse(c, fmt.Sprintf("Invalid file %s", header.Filename), err.Error())
			return
		}
		data, err := readUpload(header)
		if err != nil {
			utils.BadRequestResponse(c, fmt.Sprintf("Failed to read file %s", header.Filename), err.Error())
			return
		}
		uploads = append(uploads, services.FileUpload{
			Name:     header.Filename,
			MimeType: header.Header.Get("Content-Type"),
			Data:     data,
		})
	}

	result, err := fc.files.UploadFiles(c.Request.Context(), userID, folderID, uploads)
	if err != nil {
		handleServiceError(c, err, "Failed to upload files")
		return
	}

	utils.CreatedResponse(c, fmt.Sprintf("Uploaded %d of %d files", len(result.Uploaded), len(uploads)), result)
}

// RenameFile changes a file's display name.
func (fc *FileController) RenameFile(c *gin.Context) {
	fileID, ok := parseObjectID(c, c.Param("id"), "file")
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

	if err := fc.files.RenameFile(c.Request.Context(), fileID, req.Name); err != nil {
		handleServiceError(c, err, "Failed to rename file")
		return
	}

	utils.SuccessResponse(c, "File renamed successfully", nil)
}

// DeleteFile removes a single file.
func (fc *FileController) DeleteFile(c *gin.Context) {
	fileID, ok := parseObjectID(c, c.Param("id"), "file")
	if !ok {
		return
	}

	if err := fc.files.DeleteFile(c.Request.Context(), fileID); err != nil {
		handleServiceError(c, err, "Failed to delete file")
		return
	}

	utils.SuccessResponse(c, "File deleted successfully", nil)
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	source, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer source.Close()
	return io.ReadAll(source)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"mediamanager/models"
	"mediamanager/repository"
	"mediamanager/utils"
)

// FileService owns single-file lifecycle: upload, content retrieval,
// rename and deletion.
type FileService struct {
	folders repository.FolderRepository
	files   repository.FileRepository
}

func NewFileService(folders repository.FolderRepository, files repository.FileRepository) *FileService {
	return &FileService{folders: folders, files: files}
}

// FileUpload is one file of a single or multi upload request.
type FileUpload struct {
	Name     string
	MimeType string
	Data     []byte
}

// UploadFailure records one file of a batch that could not be stored.
type UploadFailure struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// MultiUploadResult reports a best-effort batch upload. TotalSize counts
// successfully stored bytes only.
type MultiUploadResult struct {
	Uploaded  []FileEntry     `json:"uploaded"`
	Failed    []UploadFailure `json:"failed,omitempty"`
	TotalSize int64           `json:"total_size"`
}

// UploadFile stores a single file in the given folder. The mime type is
// inferred from the filename when the caller supplies none.
func (s *FileService) UploadFile(ctx context.Context, userID, folderID primitive.ObjectID, name, mimeType string, data []byte) (*models.File, error) {
	if err := utils.ValidateFileName(name); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidName, err)
	}

	folder, err := s.folders.GetByID(ctx, folderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrFolderNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to load folder: %w", err)
	}

	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = MimeTypeByExtension(name)
	}

	file := &models.File{
		ID:           primitive.NewObjectID(),
		Name:         name,
		OriginalName: name,
		MimeType:     mimeType,
		Size:         int64(len(data)),
		Data:         data,
		FolderID:     &folder.ID,
		UserID:       userID,
		Path:         name,
		CreatedAt:    time.Now(),
	}
	if err := s.files.Create(ctx, file); err != nil {
		return nil, err
	}
	return file, nil
}

// UploadFiles stores a batch of files, continuing past individual
// failures so one bad file never voids the rest of the batch.
func (s *FileService) UploadFiles(ctx context.Context, userID, folderID primitive.ObjectID, uploads []FileUpload) (*MultiUploadResult, error) {
	if len(uploads) == 0 {
		return nil, ErrNoFiles
	}

	_, err := s.folders.GetByID(ctx, folderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrFolderNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to load folder: %w", err)
	}

	result := &MultiUploadResult{Uploaded: []FileEntry{}}
	for _, upload := range uploads {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		file, err := s.UploadFile(ctx, userID, folderID, upload.Name, upload.MimeType, upload.Data)
		if err != nil {
			utils.LogWarning(fmt.Sprintf("skipping upload %s: %v", upload.Name, err))
			result.Failed = append(result.Failed, UploadFailure{Name: upload.Name, Error: err.Error()})
			continue
		}
		result.Uploaded = append(result.Uploaded, FileEntry{
			ID:        file.ID,
			Name:      file.Name,
			MimeType:  file.MimeType,
			Size:      file.Size,
			Path:      file.Path,
			CreatedAt: file.CreatedAt,
		})
		result.TotalSize += file.Size
	}
	return result, nil
}

// GetFileContent loads a file's full record including its payload.
func (s *FileService) GetFileContent(ctx context.Context, fileID primitive.ObjectID) (*models.File, error) {
	file, err := s.files.GetByID(ctx, fileID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrFileNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to load file: %w", err)
	}
	return file, nil
}

// GetImageContent loads a file's payload, refusing anything whose stored
// mime type is not an image.
func (s *FileService) GetImageContent(ctx context.Context, fileID primitive.ObjectID) (*models.File, error) {
	file, err := s.GetFileContent(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(file.MimeType, "image/") {
		return nil, ErrNotAnImage
	}
	return file, nil
}

// GetFileMeta loads a file's record without its payload.
func (s *FileService) GetFileMeta(ctx context.Context, fileID primitive.ObjectID) (*models.File, error) {
	file, err := s.files.GetMetaByID(ctx, fileID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrFileNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to load file: %w", err)
	}
	return file, nil
}

func (s *FileService) RenameFile(ctx context.Context, fileID primitive.ObjectID, name string) error {
	if err := utils.ValidateFileName(name); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidName, err)
	}
	err := s.files.Rename(ctx, fileID, name)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrFileNotFound
	}
	return err
}

func (s *FileService) DeleteFile(ctx context.Context, fileID primitive.ObjectID) error {
	err := s.files.Delete(ctx, fileID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrFileNotFound
	}
	return err
}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"mediamanager/models"
	"mediamanager/repository"
)

// NavigatorService answers metadata-only tree queries. Binary payloads
// are never loaded here, so traversal cost is independent of file sizes.
type NavigatorService struct {
	folders repository.FolderRepository
	files   repository.FileRepository
}

func NewNavigatorService(folders repository.FolderRepository, files repository.FileRepository) *NavigatorService {
	return &NavigatorService{folders: folders, files: files}
}

// FolderSummary is a folder annotated with its direct (non-recursive)
// content counts.
type FolderSummary struct {
	ID         primitive.ObjectID `json:"id"`
	Name       string             `json:"name"`
	CreatedAt  time.Time          `json:"created_at"`
	FileCount  int64              `json:"file_count"`
	ChildCount int64              `json:"child_count"`
}

type FolderRef struct {
	ID   primitive.ObjectID `json:"id"`
	Name string             `json:"name"`
}

type FolderLight struct {
	ID         primitive.ObjectID `json:"id"`
	Name       string             `json:"name"`
	CreatedAt  time.Time          `json:"created_at"`
	Parent     *FolderRef         `json:"parent,omitempty"`
	FileCount  int64              `json:"file_count"`
	ChildCount int64              `json:"child_count"`
}

// FileEntry is the payload-free shape files take in listings.
type FileEntry struct {
	ID        primitive.ObjectID `json:"id"`
	Name      string             `json:"name"`
	MimeType  string             `json:"mime_type"`
	Size      int64              `json:"size"`
	Path      string             `json:"path,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

type Pagination struct {
	Page          int   `json:"page"`
	PageSize      int   `json:"page_size"`
	TotalFiles    int64 `json:"total_files"`
	TotalChildren int64 `json:"total_children"`
	TotalPages    int64 `json:"total_pages"`
}

type FolderPage struct {
	Folder     FolderRef       `json:"folder"`
	CreatedAt  time.Time       `json:"created_at"`
	Pagination Pagination      `json:"pagination"`
	Files      []FileEntry     `json:"files"`
	Children   []FolderSummary `json:"children"`
}

// ListRootFolders returns the user's root folders, name ascending, each
// with direct file and subfolder counts.
func (s *NavigatorService) ListRootFolders(ctx context.Context, userID primitive.ObjectID) ([]FolderSummary, error) {
	roots, err := s.folders.ListRoots(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list root folders: %w", err)
	}

	summaries := make([]FolderSummary, 0, len(roots))
	for _, folder := range roots {
		summary, err := s.summarize(ctx, folder)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// GetFolderLight returns a single folder's metadata, its parent reference
// and direct counts.
func (s *NavigatorService) GetFolderLight(ctx context.Context, folderID primitive.ObjectID) (*FolderLight, error) {
	folder, err := s.folders.GetByID(ctx, folderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrFolderNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to load folder: %w", err)
	}

	light := &FolderLight{
		ID:        folder.ID,
		Name:      folder.Name,
		CreatedAt: folder.CreatedAt,
	}

	if folder.ParentID != nil {
		parent, err := s.folders.GetByID(ctx, *folder.ParentID)
		if err == nil {
			light.Parent = &FolderRef{ID: parent.ID, Name: parent.Name}
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to load parent folder: %w", err)
		}
	}

	light.FileCount, light.ChildCount, err = s.counts(ctx, folder.ID)
	if err != nil {
		return nil, err
	}
	return light, nil
}

// GetFolderPage returns folder metadata plus a paginated, payload-free
// view of its direct contents. Files are ordered by creation time
// descending; children (when requested) are the full name-ascending list.
func (s *NavigatorService) GetFolderPage(ctx context.Context, folderID primitive.ObjectID, page, pageSize int, includeFiles, includeChildren bool) (*FolderPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	folder, err := s.folders.GetByID(ctx, folderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrFolderNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to load folder: %w", err)
	}

	totalFiles, totalChildren, err := s.counts(ctx, folder.ID)
	if err != nil {
		return nil, err
	}

	result := &FolderPage{
		Folder:    FolderRef{ID: folder.ID, Name: folder.Name},
		CreatedAt: folder.CreatedAt,
		Pagination: Pagination{
			Page:          page,
			PageSize:      pageSize,
			TotalFiles:    totalFiles,
			TotalChildren: totalChildren,
			TotalPages:    ceilDiv(totalFiles, int64(pageSize)),
		},
		Files:    []FileEntry{},
		Children: []FolderSummary{},
	}

	if includeFiles {
		skip := int64(page-1) * int64(pageSize)
		files, err := s.files.ListMetaByFolder(ctx, folder.ID, skip, int64(pageSize))
		if err != nil {
			return nil, fmt.Errorf("failed to list files: %w", err)
		}
		for _, file := range files {
			result.Files = append(result.Files, FileEntry{
				ID:        file.ID,
				Name:      file.Name,
				MimeType:  file.MimeType,
				Size:      file.Size,
				Path:      file.Path,
				CreatedAt: file.CreatedAt,
			})
		}
	}

	if includeChildren {
		children, err := s.folders.ListChildren(ctx, folder.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list subfolders: %w", err)
		}
		for _, child := range children {
			summary, err := s.summarize(ctx, child)
			if err != nil {
				return nil, err
			}
			result.Children = append(result.Children, summary)
		}
	}

	return result, nil
}

func (s *NavigatorService) summarize(ctx context.Context, folder models.Folder) (FolderSummary, error) {
	fileCount, childCount, err := s.counts(ctx, folder.ID)
	if err != nil {
		return FolderSummary{}, err
	}
	return FolderSummary{
		ID:         folder.ID,
		Name:       folder.Name,
		CreatedAt:  folder.CreatedAt,
		FileCount:  fileCount,
		ChildCount: childCount,
	}, nil
}

func (s *NavigatorService) counts(ctx context.Context, folderID primitive.ObjectID) (int64, int64, error) {
	fileCount, err := s.files.CountByFolder(ctx, folderID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count files: %w", err)
	}
	childCount, err := s.folders.CountChildren(ctx, folderID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count subfolders: %w", err)
	}
	return fileCount, childCount, nil
}

func ceilDiv(total, pageSize int64) int64 {
	if pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

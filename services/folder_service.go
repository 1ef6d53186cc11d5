package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"mediamanager/models"
	"mediamanager/repository"
	"mediamanager/utils"
)

// FolderService owns folder lifecycle: creation, rename and both deletion
// variants. Recursive deletion is depth-first post-order so no folder is
// ever removed while live descendants remain.
type FolderService struct {
	folders repository.FolderRepository
	files   repository.FileRepository
}

func NewFolderService(folders repository.FolderRepository, files repository.FileRepository) *FolderService {
	return &FolderService{folders: folders, files: files}
}

// DeleteResult reports how much a recursive deletion actually removed. A
// repeat run over an already-deleted subtree yields zero counts.
type DeleteResult struct {
	FoldersDeleted int64 `json:"folders_deleted"`
	FilesDeleted   int64 `json:"files_deleted"`
}

func (s *FolderService) CreateFolder(ctx context.Context, userID primitive.ObjectID, name string, parentID *primitive.ObjectID) (*models.Folder, error) {
	if err := utils.ValidateFolderName(name); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidName, err)
	}

	if parentID != nil {
		_, err := s.folders.GetByID(ctx, *parentID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrParentFolderNotFound
		} else if err != nil {
			return nil, fmt.Errorf("failed to load parent folder: %w", err)
		}
	}

	_, err := s.folders.FindChildByName(ctx, userID, parentID, name)
	if err == nil {
		return nil, fmt.Errorf("%q: %w", name, ErrDuplicateFolder)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing folder: %w", err)
	}

	folder := &models.Folder{
		ID:        primitive.NewObjectID(),
		Name:      name,
		ParentID:  parentID,
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	if err := s.folders.Create(ctx, folder); err != nil {
		return nil, err
	}
	return folder, nil
}

func (s *FolderService) RenameFolder(ctx context.Context, folderID primitive.ObjectID, name string) error {
	if err := utils.ValidateFolderName(name); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidName, err)
	}
	err := s.folders.Rename(ctx, folderID, name)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrFolderNotFound
	}
	return err
}

// DeleteFolderIfEmpty deletes a folder only when it has no direct files
// or subfolders; otherwise it fails with a NotEmptyError carrying the
// blocking counts.
func (s *FolderService) DeleteFolderIfEmpty(ctx context.Context, folderID primitive.ObjectID) error {
	folder, err := s.folders.GetByID(ctx, folderID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrFolderNotFound
	} else if err != nil {
		return fmt.Errorf("failed to load folder: %w", err)
	}

	fileCount, err := s.files.CountByFolder(ctx, folder.ID)
	if err != nil {
		return fmt.Errorf("failed to count files: %w", err)
	}
	childCount, err := s.folders.CountChildren(ctx, folder.ID)
	if err != nil {
		return fmt.Errorf("failed to count subfolders: %w", err)
	}
	if fileCount > 0 || childCount > 0 {
		return &NotEmptyError{Files: fileCount, Children: childCount}
	}

	err = s.folders.Delete(ctx, folder.ID)
	if errors.Is(err, repository.ErrNotFound) {
		// Lost a race with a concurrent deletion; the folder is gone
		// either way.
		return nil
	}
	return err
}

// DeleteFolderRecursive removes an entire subtree in post-order: a
// folder's files first, then each child subtree, then the folder itself.
// A folder that no longer exists counts as already-deleted success, so a
// retried or racing deletion completes cleanly. A visited set bounds the
// walk even if corrupted data introduces a cycle.
func (s *FolderService) DeleteFolderRecursive(ctx context.Context, folderID primitive.ObjectID) (*DeleteResult, error) {
	result := &DeleteResult{}
	visited := make(map[primitive.ObjectID]bool)
	if err := s.deleteTree(ctx, folderID, visited, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *FolderService) deleteTree(ctx context.Context, folderID primitive.ObjectID, visited map[primitive.ObjectID]bool, result *DeleteResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if visited[folderID] {
		return nil
	}
	visited[folderID] = true

	_, err := s.folders.GetByID(ctx, folderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to load folder: %w", err)
	}

	deleted, err := s.files.DeleteByFolder(ctx, folderID)
	if err != nil {
		return fmt.Errorf("failed to delete files: %w", err)
	}
	result.FilesDeleted += deleted

	children, err := s.folders.ListChildren(ctx, folderID)
	if err != nil {
		return fmt.Errorf("failed to list subfolders: %w", err)
	}
	for _, child := range children {
		if err := s.deleteTree(ctx, child.ID, visited, result); err != nil {
			return err
		}
	}

	err = s.folders.Delete(ctx, folderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to delete folder: %w", err)
	}
	result.FoldersDeleted++
	return nil
}

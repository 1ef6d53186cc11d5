// Package repository abstracts the persistent store behind narrow
// interfaces so the tree, archive and search services never depend on a
// concrete database. The store is assumed to provide per-record atomic
// writes; nothing here is transactional across records.
package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"mediamanager/models"
)

// ErrNotFound is returned by lookups whose target record does not exist.
var ErrNotFound = errors.New("record not found")

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type FolderRepository interface {
	Create(ctx context.Context, folder *models.Folder) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Folder, error)

	// ListRoots returns a user's folders with no parent, name ascending.
	ListRoots(ctx context.Context, userID primitive.ObjectID) ([]models.Folder, error)
	// ListChildren returns direct child folders, name ascending.
	ListChildren(ctx context.Context, parentID primitive.ObjectID) ([]models.Folder, error)
	// FindChildByName resolves a user's direct child folder of the given
	// name under parentID (nil parentID means the tree root).
	FindChildByName(ctx context.Context, userID primitive.ObjectID, parentID *primitive.ObjectID, name string) (*models.Folder, error)
	CountChildren(ctx context.Context, parentID primitive.ObjectID) (int64, error)

	Rename(ctx context.Context, id primitive.ObjectID, name string) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// Search returns a page of matching folders (name ascending) plus the
	// total match count.
	Search(ctx context.Context, filter FolderFilter) ([]models.Folder, int64, error)
	// DistinctNames returns up to limit distinct folder names containing
	// term, ascending.
	DistinctNames(ctx context.Context, userID primitive.ObjectID, term string, limit int) ([]string, error)
}

type FileRepository interface {
	Create(ctx context.Context, file *models.File) error
	// GetByID loads the full record including the binary payload.
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.File, error)
	// GetMetaByID loads the record without its payload.
	GetMetaByID(ctx context.Context, id primitive.ObjectID) (*models.File, error)

	// ListMetaByFolder returns a payload-free page of a folder's direct
	// files, creation time descending.
	ListMetaByFolder(ctx context.Context, folderID primitive.ObjectID, skip, limit int64) ([]models.File, error)
	// ListByFolder returns a folder's direct files with payloads, in
	// creation order. Only the archive builder should call this.
	ListByFolder(ctx context.Context, folderID primitive.ObjectID) ([]models.File, error)
	CountByFolder(ctx context.Context, folderID primitive.ObjectID) (int64, error)

	Rename(ctx context.Context, id primitive.ObjectID, name string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// DeleteByFolder removes every direct file of a folder and reports how
	// many records were deleted.
	DeleteByFolder(ctx context.Context, folderID primitive.ObjectID) (int64, error)

	// Search returns a payload-free page of matching files (name
	// ascending) plus the total match count.
	Search(ctx context.Context, filter FileFilter) ([]models.File, int64, error)
	// DistinctNames returns up to limit distinct file names whose name or
	// original name contains term, ascending.
	DistinctNames(ctx context.Context, userID primitive.ObjectID, term string, limit int) ([]string, error)
}

// FolderFilter narrows folder searches. NameContains matches
// case-insensitively.
type FolderFilter struct {
	UserID       primitive.ObjectID
	NameContains string
	Skip         int64
	Limit        int64
}

// FileFilter narrows file searches. NameContains matches name or original
// name case-insensitively; size and date bounds are inclusive.
type FileFilter struct {
	UserID       primitive.ObjectID
	NameContains string
	MimeContains string
	MinSize      *int64
	MaxSize      *int64
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	Skip         int64
	Limit        int64
}

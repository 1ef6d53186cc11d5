package services

import (
	"errors"
	"fmt"
)

var (
	ErrFolderNotFound       = errors.New("folder not found")
	ErrParentFolderNotFound = errors.New("parent folder not found")
	ErrFileNotFound         = errors.New("file not found")
	ErrNotAnImage           = errors.New("file is not an image")
	ErrEmptyFolder          = errors.New("folder contains no files")
	ErrEmptyArchive         = errors.New("no archive data supplied")
	ErrDuplicateFolder      = errors.New("folder with this name already exists")
	ErrNoFiles              = errors.New("no files supplied")
	ErrInvalidName          = errors.New("invalid name")
)

// NotEmptyError reports the direct contents that block a non-recursive
// folder deletion.
type NotEmptyError struct {
	Files    int64
	Children int64
}

func (e *NotEmptyError) Error() string {
	return fmt.Sprintf("folder is not empty: %d files, %d subfolders", e.Files, e.Children)
}

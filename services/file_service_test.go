package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUploadFile(t *testing.T) {
	folders, files, userID := newTestStore(t)
	svc := NewFileService(folders, files)
	ctx := context.Background()

	folder := mustCreateFolder(t, folders, userID, "Docs", nil)

	file, err := svc.UploadFile(ctx, userID, folder.ID, "notes.txt", "", []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", file.Name)
	assert.Equal(t, "text/plain", file.MimeType)
	assert.Equal(t, int64(5), file.Size)
	require.NotNil(t, file.FolderID)
	assert.Equal(t, folder.ID, *file.FolderID)
}

func TestUploadFileKeepsExplicitMimeType(t *testing.T) {
	folders, files, userID := newTestStore(t)
	svc := NewFileService(folders, files)
	ctx := context.Background()

	folder := mustCreateFolder(t, folders, userID, "Docs", nil)

	file, err := svc.UploadFile(ctx, userID, folder.ID, "data.bin", "application/x-custom", []byte{1, 2})
	require.NoError(t, err)
	assert.Equal(t, "application/x-custom", file.MimeType)

	// A generic type is re-derived from the extension.
	file, err = svc.UploadFile(ctx, userID, folder.ID, "photo.png", "application/octet-stream", []byte{1})
	require.NoError(t, err)
	assert.Equal(t, "image/png", file.MimeType)
}

func TestUploadFileRejectsMissingFolder(t *testing.T) {
	folders, files, userID := newTestStore(t)
	svc := NewFileService(folders, files)

	_, err := svc.UploadFile(context.Background(), userID, primitive.NewObjectID(), "a.txt", "", []byte("x"))
	assert.ErrorIs(t, err, ErrFolderNotFound)
}

func TestUploadFilesContinuesPastFailures(t *testing.T) {
	folders, files, userID := newTestStore(t)
	svc := NewFileService(folders, files)
	ctx := context.Background()

	folder := mustCreateFolder(t, folders, userID, "Docs", nil)

	result, err := svc.UploadFiles(ctx, userID, folder.ID, []FileUpload{
		{Name: "good.txt", Data: []byte("abc")},
		{Name: "bad<name.txt", Data: []byte("x")},
		{Name: "also-good.pdf", Data: []byte("defg")},
	})
	require.NoError(t, err)
	assert.Len(t, result.Uploaded, 2)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "bad<name.txt", result.Failed[0].Name)
	assert.Equal(t, int64(7), result.TotalSize)
}

func TestUploadFilesRejectsEmptyBatch(t *testing.T) {
	folders, files, userID := newTestStore(t)
	svc := NewFileService(folders, files)

	folder := mustCreateFolder(t, folders, userID, "Docs", nil)
	_, err := svc.UploadFiles(context.Background(), userID, folder.ID, nil)
	assert.ErrorIs(t, err, ErrNoFiles)
}

func TestGetFileContent(t *testing.T) {
	folders, files, userID := newTestStore(t)
	svc := NewFileService(folders, files)
	ctx := context.Background()

	folder := mustCreateFolder(t, folders, userID, "Docs", nil)
	stored := mustCreateFile(t, files, userID, folder.ID, "a.txt", []byte("payload"), time.Now())

	file, err := svc.GetFileContent(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), file.Data)

	_, err = svc.GetFileContent(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestGetImageContent(t *testing.T) {
	folders, files, userID := newTestStore(t)
	svc := NewFileService(folders, files)
	ctx := context.Background()

	folder := mustCreateFolder(t, folders, userID, "Docs", nil)
	image := mustCreateFile(t, files, userID, folder.ID, "photo.jpg", []byte("jpeg"), time.Now())
	text := mustCreateFile(t, files, userID, folder.ID, "notes.txt", []byte("text"), time.Now())

	file, err := svc.GetImageContent(ctx, image.ID)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", file.MimeType)

	_, err = svc.GetImageContent(ctx, text.ID)
	assert.ErrorIs(t, err, ErrNotAnImage)
}

func TestGetFileMetaOmitsPayload(t *testing.T) {
	folders, files, userID := newTestStore(t)
	svc := NewFileService(folders, files)
	ctx := context.Background()

	folder := mustCreateFolder(t, folders, userID, "Docs", nil)
	stored := mustCreateFile(t, files, userID, folder.ID, "a.txt", []byte("payload"), time.Now())

	meta, err := svc.GetFileMeta(ctx, stored.ID)
	require.NoError(t, err)
	assert.Nil(t, meta.Data)
	assert.Equal(t, int64(7), meta.Size)
}

func TestRenameAndDeleteFile(t *testing.T) {
	folders, files, userID := newTestStore(t)
	svc := NewFileService(folders, files)
	ctx := context.Background()

	folder := mustCreateFolder(t, folders, userID, "Docs", nil)
	stored := mustCreateFile(t, files, userID, folder.ID, "old.txt", []byte("x"), time.Now())

	require.NoError(t, svc.RenameFile(ctx, stored.ID, "new.txt"))
	meta, err := svc.GetFileMeta(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, "new.txt", meta.Name)

	require.NoError(t, svc.DeleteFile(ctx, stored.ID))
	err = svc.DeleteFile(ctx, stored.ID)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

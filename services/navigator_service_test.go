package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestListRootFolders(t *testing.T) {
	folders, files, userID := newTestStore(t)
	svc := NewNavigatorService(folders, files)
	ctx := context.Background()

	docs := mustCreateFolder(t, folders, userID, "Docs", nil)
	mustCreateFolder(t, folders, userID, "Archive", nil)
	mustCreateFolder(t, folders, userID, "Sub", &docs.ID)
	mustCreateFile(t, files, userID, docs.ID, "a.txt", []byte("hello"), time.Now())

	// Another user's folders stay invisible.
	mustCreateFolder(t, folders, primitive.NewObjectID(), "Other", nil)

	roots, err := svc.ListRootFolders(ctx, userID)
	require.NoError(t, err)
	require.Len(t, roots, 2)

	assert.Equal(t, "Archive", roots[0].Name)
	assert.Equal(t, "Docs", roots[1].Name)
	assert.Equal(t, int64(1), roots[1].FileCount)
	assert.Equal(t, int64(1), roots[1].ChildCount)
}

func TestGetFolderLight(t *testing.T) {
	folders, files, userID := newTestStore(t)
	svc := NewNavigatorService(folders, files)
	ctx := context.Background()

	parent := mustCreateFolder(t, folders, userID, "Parent", nil)
	child := mustCreateFolder(t, folders, userID, "Child", &parent.ID)

	light, err := svc.GetFolderLight(ctx, child.ID)
	require.NoError(t, err)
	assert.Equal(t, "Child", light.Name)
	require.NotNil(t, light.Parent)
	assert.Equal(t, parent.ID, light.Parent.ID)
	assert.Equal(t, "Parent", light.Parent.Name)

	root, err := svc.GetFolderLight(ctx, parent.ID)
	require.NoError(t, err)
	assert.Nil(t, root.Parent)
	assert.Equal(t, int64(1), root.ChildCount)

	_, err = svc.GetFolderLight(ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrFolderNotFound)
}

func TestGetFolderPage(t *testing.T) {
	folders, files, userID := newTestStore(t)
	svc := NewNavigatorService(folders, files)
	ctx := context.Background()

	folder := mustCreateFolder(t, folders, userID, "Docs", nil)
	mustCreateFolder(t, folders, userID, "Sub", &folder.ID)
	mustCreateFile(t, files, userID, folder.ID, "a.txt", []byte("hello"), time.Now())

	page, err := svc.GetFolderPage(ctx, folder.ID, 1, 20, true, true)
	require.NoError(t, err)
	assert.Equal(t, folder.ID, page.Folder.ID)
	assert.Equal(t, int64(1), page.Pagination.TotalFiles)
	assert.Equal(t, int64(1), page.Pagination.TotalChildren)
	assert.Equal(t, int64(1), page.Pagination.TotalPages)
	require.Len(t, page.Files, 1)
	assert.Equal(t, "a.txt", page.Files[0].Name)
	assert.Equal(t, int64(5), page.Files[0].Size)
	require.Len(t, page.Children, 1)
	assert.Equal(t, "Sub", page.Children[0].Name)
}

func TestGetFolderPagePaginatesNewestFirst(t *testing.T) {
	folders, files, userID := newTestStore(t)
	svc := NewNavigatorService(folders, files)
	ctx := context.Background()

	folder := mustCreateFolder(t, folders, userID, "Docs", nil)
	base := time.Now().Add(-time.Hour)
	names := []string{"one.txt", "two.txt", "three.txt", "four.txt", "five.txt"}
	for i, name := range names {
		mustCreateFile(t, files, userID, folder.ID, name, []byte("x"), base.Add(time.Duration(i)*time.Minute))
	}

	page, err := svc.GetFolderPage(ctx, folder.ID, 1, 2, true, false)
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Pagination.TotalFiles)
	assert.Equal(t, int64(3), page.Pagination.TotalPages)
	require.Len(t, page.Files, 2)
	assert.Equal(t, "five.txt", page.Files[0].Name)
	assert.Equal(t, "four.txt", page.Files[1].Name)
	assert.Empty(t, page.Children)

	last, err := svc.GetFolderPage(ctx, folder.ID, 3, 2, true, false)
	require.NoError(t, err)
	require.Len(t, last.Files, 1)
	assert.Equal(t, "one.txt", last.Files[0].Name)
}

func TestGetFolderPageNormalizesPaging(t *testing.T) {
	folders, files, userID := newTestStore(t)
	svc := NewNavigatorService(folders, files)
	ctx := context.Background()

	folder := mustCreateFolder(t, folders, userID, "Docs", nil)

	page, err := svc.GetFolderPage(ctx, folder.ID, 0, -5, true, true)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Pagination.Page)
	assert.Equal(t, 20, page.Pagination.PageSize)
	assert.Equal(t, int64(0), page.Pagination.TotalPages)
}

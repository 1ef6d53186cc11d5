package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"mediamanager/models"
)

func seedFile(t *testing.T, files FileRepository, userID, folderID primitive.ObjectID, name string, size int, createdAt time.Time) {
	t.Helper()
	require.NoError(t, files.Create(context.Background(), &models.File{
		ID:           primitive.NewObjectID(),
		Name:         name,
		OriginalName: name,
		MimeType:     "application/octet-stream",
		Size:         int64(size),
		Data:         make([]byte, size),
		FolderID:     &folderID,
		UserID:       userID,
		CreatedAt:    createdAt,
	}))
}

func TestMemoryFileSearchMatchesNameAndOriginalName(t *testing.T) {
	store := NewMemoryStore()
	files := store.Files()
	ctx := context.Background()
	userID := primitive.NewObjectID()
	folderID := primitive.NewObjectID()

	seedFile(t, files, userID, folderID, "Quarterly.pdf", 10, time.Now())

	renamed := &models.File{
		ID:           primitive.NewObjectID(),
		Name:         "final.pdf",
		OriginalName: "quarterly-draft.pdf",
		FolderID:     &folderID,
		UserID:       userID,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, files.Create(ctx, renamed))

	matches, total, err := files.Search(ctx, FileFilter{UserID: userID, NameContains: "quarterly"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, matches, 2)
	// Name ascending, payloads stripped.
	assert.Equal(t, "Quarterly.pdf", matches[0].Name)
	assert.Equal(t, "final.pdf", matches[1].Name)
	assert.Nil(t, matches[0].Data)
}

func TestMemoryFileSearchPaging(t *testing.T) {
	store := NewMemoryStore()
	files := store.Files()
	ctx := context.Background()
	userID := primitive.NewObjectID()
	folderID := primitive.NewObjectID()

	for _, name := range []string{"a.txt", "b.txt", "c.txt", "d.txt"} {
		seedFile(t, files, userID, folderID, name, 1, time.Now())
	}

	page, total, err := files.Search(ctx, FileFilter{UserID: userID, NameContains: "txt", Skip: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	require.Len(t, page, 2)
	assert.Equal(t, "b.txt", page[0].Name)
	assert.Equal(t, "c.txt", page[1].Name)

	past, _, err := files.Search(ctx, FileFilter{UserID: userID, NameContains: "txt", Skip: 10, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, past)
}

func TestMemoryListMetaByFolderOrdersNewestFirst(t *testing.T) {
	store := NewMemoryStore()
	files := store.Files()
	ctx := context.Background()
	userID := primitive.NewObjectID()
	folderID := primitive.NewObjectID()

	base := time.Now().Add(-time.Hour)
	seedFile(t, files, userID, folderID, "oldest.txt", 1, base)
	seedFile(t, files, userID, folderID, "newest.txt", 1, base.Add(10*time.Minute))

	listed, err := files.ListMetaByFolder(ctx, folderID, 0, 10)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "newest.txt", listed[0].Name)
	assert.Nil(t, listed[0].Data)

	withData, err := files.ListByFolder(ctx, folderID)
	require.NoError(t, err)
	assert.Equal(t, "oldest.txt", withData[0].Name)
	assert.NotNil(t, withData[0].Data)
}

func TestMemoryDistinctNamesSortsAndCaps(t *testing.T) {
	store := NewMemoryStore()
	files := store.Files()
	folders := store.Folders()
	ctx := context.Background()
	userID := primitive.NewObjectID()
	folderID := primitive.NewObjectID()

	for _, name := range []string{"beta.txt", "alpha.txt", "gamma.txt", "delta.txt"} {
		seedFile(t, files, userID, folderID, name, 1, time.Now())
	}
	// Duplicate names collapse to one entry.
	seedFile(t, files, userID, folderID, "alpha.txt", 1, time.Now())

	names, err := files.DistinctNames(ctx, userID, "txt", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha.txt", "beta.txt", "delta.txt"}, names)

	for _, name := range []string{"Work", "Archive"} {
		require.NoError(t, folders.Create(ctx, &models.Folder{
			ID: primitive.NewObjectID(), Name: name, UserID: userID, CreatedAt: time.Now(),
		}))
	}
	folderNames, err := folders.DistinctNames(ctx, userID, "r", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Archive", "Work"}, folderNames)
}

func TestMemoryCreateDoesNotAliasCallerMemory(t *testing.T) {
	store := NewMemoryStore()
	folders := store.Folders()
	ctx := context.Background()
	userID := primitive.NewObjectID()

	root := &models.Folder{ID: primitive.NewObjectID(), Name: "Root", UserID: userID, CreatedAt: time.Now()}
	require.NoError(t, folders.Create(ctx, root))

	parentID := root.ID
	child := &models.Folder{ID: primitive.NewObjectID(), Name: "Child", ParentID: &parentID, UserID: userID, CreatedAt: time.Now()}
	require.NoError(t, folders.Create(ctx, child))

	// Mutating the caller's pointer after Create must not touch the store.
	parentID = child.ID

	stored, err := folders.GetByID(ctx, child.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ParentID)
	assert.Equal(t, root.ID, *stored.ParentID)
}

func TestMemoryFolderFindChildByName(t *testing.T) {
	store := NewMemoryStore()
	folders := store.Folders()
	ctx := context.Background()
	userID := primitive.NewObjectID()

	root := &models.Folder{ID: primitive.NewObjectID(), Name: "Docs", UserID: userID, CreatedAt: time.Now()}
	require.NoError(t, folders.Create(ctx, root))
	child := &models.Folder{ID: primitive.NewObjectID(), Name: "Sub", ParentID: &root.ID, UserID: userID, CreatedAt: time.Now()}
	require.NoError(t, folders.Create(ctx, child))

	found, err := folders.FindChildByName(ctx, userID, nil, "Docs")
	require.NoError(t, err)
	assert.Equal(t, root.ID, found.ID)

	found, err = folders.FindChildByName(ctx, userID, &root.ID, "Sub")
	require.NoError(t, err)
	assert.Equal(t, child.ID, found.ID)

	_, err = folders.FindChildByName(ctx, userID, nil, "Sub")
	assert.ErrorIs(t, err, ErrNotFound)
}

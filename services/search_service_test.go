package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchGlobal(t *testing.T) {
	folders, files, userID := newTestStore(t)
	svc := NewSearchService(folders, files)
	ctx := context.Background()

	reports := mustCreateFolder(t, folders, userID, "Reports", nil)
	mustCreateFolder(t, folders, userID, "Photos", nil)
	mustCreateFile(t, files, userID, reports.ID, "Annual Report.pdf", []byte("pdf"), time.Now())
	mustCreateFile(t, files, userID, reports.ID, "holiday.jpg", []byte("jpg"), time.Now())

	result, err := svc.SearchGlobal(ctx, userID, "report", true, true)
	require.NoError(t, err)

	require.Len(t, result.Files, 1)
	assert.Equal(t, "Annual Report.pdf", result.Files[0].Name)
	require.NotNil(t, result.Files[0].Folder)
	assert.Equal(t, "Reports", result.Files[0].Folder.Name)

	require.Len(t, result.Folders, 1)
	assert.Equal(t, "Reports", result.Folders[0].Name)
	assert.Equal(t, int64(2), result.Folders[0].FileCount)

	assert.Equal(t, int64(1), result.Stats.TotalFiles)
	assert.Equal(t, int64(1), result.Stats.TotalFolders)
	assert.Equal(t, int64(2), result.Stats.TotalResults)
}

func TestSearchGlobalBlankQuery(t *testing.T) {
	folders, files, userID := newTestStore(t)
	svc := NewSearchService(folders, files)

	result, err := svc.SearchGlobal(context.Background(), userID, "   ", true, true)
	require.NoError(t, err)
	assert.Empty(t, result.Files)
	assert.Empty(t, result.Folders)
	assert.NotEmpty(t, result.Message)
	assert.Equal(t, int64(0), result.Stats.TotalResults)
}

func TestSearchGlobalHonorsIncludeFlags(t *testing.T) {
	folders, files, userID := newTestStore(t)
	svc := NewSearchService(folders, files)
	ctx := context.Background()

	reports := mustCreateFolder(t, folders, userID, "Reports", nil)
	mustCreateFile(t, files, userID, reports.ID, "report.pdf", []byte("pdf"), time.Now())

	filesOnly, err := svc.SearchGlobal(ctx, userID, "report", true, false)
	require.NoError(t, err)
	assert.Len(t, filesOnly.Files, 1)
	assert.Empty(t, filesOnly.Folders)
	assert.Equal(t, int64(0), filesOnly.Stats.TotalFolders)

	foldersOnly, err := svc.SearchGlobal(ctx, userID, "report", false, true)
	require.NoError(t, err)
	assert.Empty(t, foldersOnly.Files)
	assert.Len(t, foldersOnly.Folders, 1)
}

func TestSearchAdvancedFilters(t *testing.T) {
	folders, files, userID := newTestStore(t)
	svc := NewSearchService(folders, files)
	ctx := context.Background()

	docs := mustCreateFolder(t, folders, userID, "Docs", nil)
	mustCreateFile(t, files, userID, docs.ID, "small.txt", []byte("ab"), time.Now())
	mustCreateFile(t, files, userID, docs.ID, "large.txt", []byte("abcdefghij"), time.Now())
	mustCreateFile(t, files, userID, docs.ID, "photo.jpg", []byte("abcdef"), time.Now())

	minSize := int64(5)
	result, err := svc.SearchAdvanced(ctx, userID, AdvancedQuery{
		Query:    "txt",
		Type:     "file",
		MinSize:  &minSize,
		Page:     1,
		PageSize: 10,
	})
	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	assert.Equal(t, "large.txt", result.Files[0].Name)
	assert.Empty(t, result.Folders)
	assert.Equal(t, int64(1), result.TotalPages)

	byMime, err := svc.SearchAdvanced(ctx, userID, AdvancedQuery{
		Query:    "",
		Type:     "file",
		MimeType: "image",
	})
	require.NoError(t, err)
	require.Len(t, byMime.Files, 1)
	assert.Equal(t, "photo.jpg", byMime.Files[0].Name)
}

func TestSearchAdvancedDateRange(t *testing.T) {
	folders, files, userID := newTestStore(t)
	svc := NewSearchService(folders, files)
	ctx := context.Background()

	docs := mustCreateFolder(t, folders, userID, "Docs", nil)
	old := time.Now().Add(-48 * time.Hour)
	recent := time.Now()
	mustCreateFile(t, files, userID, docs.ID, "old.txt", []byte("x"), old)
	mustCreateFile(t, files, userID, docs.ID, "new.txt", []byte("x"), recent)

	from := time.Now().Add(-24 * time.Hour)
	result, err := svc.SearchAdvanced(ctx, userID, AdvancedQuery{
		Query:       "txt",
		Type:        "file",
		CreatedFrom: &from,
	})
	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	assert.Equal(t, "new.txt", result.Files[0].Name)
}

func TestSuggest(t *testing.T) {
	folders, files, userID := newTestStore(t)
	svc := NewSearchService(folders, files)
	ctx := context.Background()

	docs := mustCreateFolder(t, folders, userID, "Reports", nil)
	mustCreateFile(t, files, userID, docs.ID, "report-2025.pdf", []byte("x"), time.Now())
	mustCreateFile(t, files, userID, docs.ID, "report-2026.pdf", []byte("x"), time.Now())

	suggestions, err := svc.Suggest(ctx, userID, "rep")
	require.NoError(t, err)
	require.Len(t, suggestions, 3)

	// Files come before folders.
	assert.Equal(t, "file", suggestions[0].Type)
	assert.Equal(t, "application/pdf", suggestions[0].MimeType)
	assert.Equal(t, "folder", suggestions[2].Type)
	assert.Equal(t, "Reports", suggestions[2].Name)
	assert.Empty(t, suggestions[2].MimeType)
}

func TestSuggestShortQuery(t *testing.T) {
	folders, files, userID := newTestStore(t)
	svc := NewSearchService(folders, files)

	suggestions, err := svc.Suggest(context.Background(), userID, "r")
	require.NoError(t, err)
	assert.Empty(t, suggestions)

	// A single multi-byte rune is still one character.
	suggestions, err = svc.Suggest(context.Background(), userID, "写")
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}

func TestSuggestCountsRunesNotBytes(t *testing.T) {
	folders, files, userID := newTestStore(t)
	svc := NewSearchService(folders, files)
	ctx := context.Background()

	docs := mustCreateFolder(t, folders, userID, "写真集", nil)
	mustCreateFile(t, files, userID, docs.ID, "写真.jpg", []byte("x"), time.Now())

	suggestions, err := svc.Suggest(ctx, userID, "写真")
	require.NoError(t, err)
	require.Len(t, suggestions, 2)
	assert.Equal(t, "写真.jpg", suggestions[0].Name)
	assert.Equal(t, "写真集", suggestions[1].Name)
}

func TestSuggestCapsResults(t *testing.T) {
	folders, files, userID := newTestStore(t)
	svc := NewSearchService(folders, files)
	ctx := context.Background()

	docs := mustCreateFolder(t, folders, userID, "media-folder", nil)
	for i := 0; i < 12; i++ {
		name := "media-" + string(rune('a'+i)) + ".txt"
		mustCreateFile(t, files, userID, docs.ID, name, []byte("x"), time.Now())
	}
	for i := 0; i < 12; i++ {
		mustCreateFolder(t, folders, userID, "media-dir-"+string(rune('a'+i)), &docs.ID)
	}

	suggestions, err := svc.Suggest(ctx, userID, "media")
	require.NoError(t, err)
	assert.Len(t, suggestions, suggestionsTotal)

	fileCount := 0
	for _, suggestion := range suggestions {
		if suggestion.Type == "file" {
			fileCount++
		}
	}
	assert.Equal(t, suggestionsPerKind, fileCount)
}

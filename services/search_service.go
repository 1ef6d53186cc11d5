package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"mediamanager/models"
	"mediamanager/repository"
)

// Result sets are capped so a one-letter query cannot drag the whole
// store across the wire.
const (
	globalSearchLimit  = 1000
	suggestionsPerKind = 10
	suggestionsTotal   = 15
)

// SearchService answers name searches across files and folders. All
// matching is case-insensitive substring; results never include binary
// payloads.
type SearchService struct {
	folders repository.FolderRepository
	files   repository.FileRepository
}

func NewSearchService(folders repository.FolderRepository, files repository.FileRepository) *SearchService {
	return &SearchService{folders: folders, files: files}
}

// FileHit is a matching file annotated with its containing folder.
type FileHit struct {
	ID        primitive.ObjectID `json:"id"`
	Name      string             `json:"name"`
	MimeType  string             `json:"mime_type"`
	Size      int64              `json:"size"`
	CreatedAt time.Time          `json:"created_at"`
	Folder    *FolderRef         `json:"folder,omitempty"`
}

// FolderHit is a matching folder annotated with its parent and direct
// content counts.
type FolderHit struct {
	ID         primitive.ObjectID `json:"id"`
	Name       string             `json:"name"`
	CreatedAt  time.Time          `json:"created_at"`
	Parent     *FolderRef         `json:"parent,omitempty"`
	FileCount  int64              `json:"file_count"`
	ChildCount int64              `json:"child_count"`
}

type SearchStats struct {
	TotalFiles   int64 `json:"total_files"`
	TotalFolders int64 `json:"total_folders"`
	TotalResults int64 `json:"total_results"`
}

type SearchResult struct {
	Query   string      `json:"query"`
	Files   []FileHit   `json:"files"`
	Folders []FolderHit `json:"folders"`
	Stats   SearchStats `json:"stats"`
	Message string      `json:"message,omitempty"`
}

// AdvancedQuery narrows a search beyond the name term. Type is "file",
// "folder" or "all"; zero-valued filters are ignored.
type AdvancedQuery struct {
	Query       string
	Type        string
	MimeType    string
	MinSize     *int64
	MaxSize     *int64
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Page        int
	PageSize    int
}

type AdvancedResult struct {
	Query      string      `json:"query"`
	Files      []FileHit   `json:"files"`
	Folders    []FolderHit `json:"folders"`
	Stats      SearchStats `json:"stats"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int64       `json:"total_pages"`
}

// Suggestion is one autocomplete candidate. MimeType is set for file
// suggestions only.
type Suggestion struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	MimeType string `json:"mime_type,omitempty"`
}

// SearchGlobal finds files and folders whose names contain the query,
// case-insensitively. A blank query short-circuits to an empty result
// with an explanatory message rather than matching everything.
func (s *SearchService) SearchGlobal(ctx context.Context, userID primitive.ObjectID, query string, includeFiles, includeFolders bool) (*SearchResult, error) {
	result := &SearchResult{
		Query:   query,
		Files:   []FileHit{},
		Folders: []FolderHit{},
	}

	query = strings.TrimSpace(query)
	if query == "" {
		result.Message = "Search query is required"
		return result, nil
	}

	if includeFiles {
		files, total, err := s.files.Search(ctx, repository.FileFilter{
			UserID:       userID,
			NameContains: query,
			Limit:        globalSearchLimit,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to search files: %w", err)
		}
		result.Stats.TotalFiles = total
		for _, file := range files {
			hit, err := s.fileHit(ctx, file)
			if err != nil {
				return nil, err
			}
			result.Files = append(result.Files, hit)
		}
	}

	if includeFolders {
		folders, total, err := s.folders.Search(ctx, repository.FolderFilter{
			UserID:       userID,
			NameContains: query,
			Limit:        globalSearchLimit,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to search folders: %w", err)
		}
		result.Stats.TotalFolders = total
		for _, folder := range folders {
			hit, err := s.folderHit(ctx, folder)
			if err != nil {
				return nil, err
			}
			result.Folders = append(result.Folders, hit)
		}
	}

	result.Stats.TotalResults = result.Stats.TotalFiles + result.Stats.TotalFolders
	return result, nil
}

// SearchAdvanced applies type, mime, size and date filters on top of the
// name search and paginates the combined result.
func (s *SearchService) SearchAdvanced(ctx context.Context, userID primitive.ObjectID, q AdvancedQuery) (*AdvancedResult, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 50
	}
	searchType := q.Type
	if searchType == "" {
		searchType = "all"
	}

	result := &AdvancedResult{
		Query:    q.Query,
		Files:    []FileHit{},
		Folders:  []FolderHit{},
		Page:     q.Page,
		PageSize: q.PageSize,
	}
	skip := int64(q.Page-1) * int64(q.PageSize)

	if searchType == "file" || searchType == "all" {
		files, total, err := s.files.Search(ctx, repository.FileFilter{
			UserID:       userID,
			NameContains: strings.TrimSpace(q.Query),
			MimeContains: q.MimeType,
			MinSize:      q.MinSize,
			MaxSize:      q.MaxSize,
			CreatedFrom:  q.CreatedFrom,
			CreatedTo:    q.CreatedTo,
			Skip:         skip,
			Limit:        int64(q.PageSize),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to search files: %w", err)
		}
		result.Stats.TotalFiles = total
		for _, file := range files {
			hit, err := s.fileHit(ctx, file)
			if err != nil {
				return nil, err
			}
			result.Files = append(result.Files, hit)
		}
	}

	if searchType == "folder" || searchType == "all" {
		folders, total, err := s.folders.Search(ctx, repository.FolderFilter{
			UserID:       userID,
			NameContains: strings.TrimSpace(q.Query),
			Skip:         skip,
			Limit:        int64(q.PageSize),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to search folders: %w", err)
		}
		result.Stats.TotalFolders = total
		for _, folder := range folders {
			hit, err := s.folderHit(ctx, folder)
			if err != nil {
				return nil, err
			}
			result.Folders = append(result.Folders, hit)
		}
	}

	result.Stats.TotalResults = result.Stats.TotalFiles + result.Stats.TotalFolders
	result.TotalPages = ceilDiv(result.Stats.TotalResults, int64(q.PageSize))
	return result, nil
}

// Suggest returns autocomplete candidates for a partial query: distinct
// matching file names first, then folder names, capped overall. Queries
// shorter than two characters yield nothing.
func (s *SearchService) Suggest(ctx context.Context, userID primitive.ObjectID, query string) ([]Suggestion, error) {
	query = strings.TrimSpace(query)
	suggestions := []Suggestion{}
	if utf8.RuneCountInString(query) < 2 {
		return suggestions, nil
	}

	fileNames, err := s.files.DistinctNames(ctx, userID, query, suggestionsPerKind)
	if err != nil {
		return nil, fmt.Errorf("failed to load file suggestions: %w", err)
	}
	for _, name := range fileNames {
		suggestions = append(suggestions, Suggestion{
			Name:     name,
			Type:     "file",
			MimeType: MimeTypeByExtension(name),
		})
	}

	folderNames, err := s.folders.DistinctNames(ctx, userID, query, suggestionsPerKind)
	if err != nil {
		return nil, fmt.Errorf("failed to load folder suggestions: %w", err)
	}
	for _, name := range folderNames {
		suggestions = append(suggestions, Suggestion{Name: name, Type: "folder"})
	}

	if len(suggestions) > suggestionsTotal {
		suggestions = suggestions[:suggestionsTotal]
	}
	return suggestions, nil
}

func (s *SearchService) fileHit(ctx context.Context, file models.File) (FileHit, error) {
	hit := FileHit{
		ID:        file.ID,
		Name:      file.Name,
		MimeType:  file.MimeType,
		Size:      file.Size,
		CreatedAt: file.CreatedAt,
	}
	if file.FolderID != nil {
		folder, err := s.folders.GetByID(ctx, *file.FolderID)
		if err == nil {
			hit.Folder = &FolderRef{ID: folder.ID, Name: folder.Name}
		} else if !errors.Is(err, repository.ErrNotFound) {
			return FileHit{}, fmt.Errorf("failed to load containing folder: %w", err)
		}
	}
	return hit, nil
}

func (s *SearchService) folderHit(ctx context.Context, folder models.Folder) (FolderHit, error) {
	hit := FolderHit{
		ID:        folder.ID,
		Name:      folder.Name,
		CreatedAt: folder.CreatedAt,
	}
	if folder.ParentID != nil {
		parent, err := s.folders.GetByID(ctx, *folder.ParentID)
		if err == nil {
			hit.Parent = &FolderRef{ID: parent.ID, Name: parent.Name}
		} else if !errors.Is(err, repository.ErrNotFound) {
			return FolderHit{}, fmt.Errorf("failed to load parent folder: %w", err)
		}
	}

	var err error
	hit.FileCount, err = s.files.CountByFolder(ctx, folder.ID)
	if err != nil {
		return FolderHit{}, fmt.Errorf("failed to count files: %w", err)
	}
	hit.ChildCount, err = s.folders.CountChildren(ctx, folder.ID)
	if err != nil {
		return FolderHit{}, fmt.Errorf("failed to count subfolders: %w", err)
	}
	return hit, nil
}

package services

import (
	"archive/zip"
	"bytes"
	"compress/flate"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"mediamanager/models"
	"mediamanager/repository"
	"mediamanager/utils"
)

// archiveCompressionLevel is fixed so archives are byte-reproducible for
// identical input ordering.
const archiveCompressionLevel = 6

// ArchiveService packs folder subtrees into ZIP archives and unpacks
// uploaded archives back into folder trees.
type ArchiveService struct {
	folders repository.FolderRepository
	files   repository.FileRepository
}

func NewArchiveService(folders repository.FolderRepository, files repository.FileRepository) *ArchiveService {
	return &ArchiveService{folders: folders, files: files}
}

// EntryFailure records a single archive entry that could not be imported.
type EntryFailure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// ImportResult reports what an archive import accomplished. Counters
// reflect successes only; failed entries are listed separately.
type ImportResult struct {
	FilesProcessed   int            `json:"files_processed"`
	FoldersProcessed int            `json:"folders_processed"`
	Folder           *models.Folder `json:"folder"`
	Failed           []EntryFailure `json:"failed,omitempty"`
}

// BuildFolderArchive walks the folder's entire subtree and packs every
// contained file into a single ZIP, preserving relative paths. Entry
// order is the current folder's files in creation order, then each
// subfolder (name ascending) recursively. Returns the archive bytes and
// the folder's name for the download filename.
func (s *ArchiveService) BuildFolderArchive(ctx context.Context, folderID primitive.ObjectID) ([]byte, string, error) {
	folder, err := s.folders.GetByID(ctx, folderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, "", ErrFolderNotFound
	} else if err != nil {
		return nil, "", fmt.Errorf("failed to load folder: %w", err)
	}

	buf := &bytes.Buffer{}
	zipWriter := zip.NewWriter(buf)
	zipWriter.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, archiveCompressionLevel)
	})

	visited := make(map[primitive.ObjectID]bool)
	packed := 0
	if err := s.addFolderToArchive(ctx, zipWriter, folder.ID, "", visited, &packed); err != nil {
		zipWriter.Close()
		return nil, "", err
	}
	if err := zipWriter.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize archive: %w", err)
	}

	if packed == 0 {
		return nil, "", ErrEmptyFolder
	}
	return buf.Bytes(), folder.Name, nil
}

// addFolderToArchive recursively adds a folder's files and subfolders.
// The visited set guards against corrupted data introducing a cycle; the
// repository is not trusted to enforce acyclicity.
func (s *ArchiveService) addFolderToArchive(ctx context.Context, zipWriter *zip.Writer, folderID primitive.ObjectID, currentPath string, visited map[primitive.ObjectID]bool, packed *int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if visited[folderID] {
		return nil
	}
	visited[folderID] = true

	files, err := s.files.ListByFolder(ctx, folderID)
	if err != nil {
		return fmt.Errorf("failed to load files: %w", err)
	}
	for _, file := range files {
		entry, err := zipWriter.Create(path.Join(currentPath, file.Name))
		if err != nil {
			return fmt.Errorf("failed to create archive entry for %s: %w", file.Name, err)
		}
		if _, err := entry.Write(file.Data); err != nil {
			return fmt.Errorf("failed to write archive entry for %s: %w", file.Name, err)
		}
		*packed++
	}

	children, err := s.folders.ListChildren(ctx, folderID)
	if err != nil {
		return fmt.Errorf("failed to load subfolders: %w", err)
	}
	for _, child := range children {
		childPath := path.Join(currentPath, child.Name)

		// Explicit directory entry so empty folders survive the trip.
		if _, err := zipWriter.Create(childPath + "/"); err != nil {
			return fmt.Errorf("failed to create directory entry for %s: %w", childPath, err)
		}

		if err := s.addFolderToArchive(ctx, zipWriter, child.ID, childPath, visited, packed); err != nil {
			return err
		}
	}
	return nil
}

// ImportArchive unpacks a ZIP archive under a new root folder, recreating
// the folder hierarchy implied by entry paths. Per-entry failures are
// recorded and logged but never abort the import; the whole operation
// fails only when the archive itself cannot be decoded.
func (s *ArchiveService) ImportArchive(ctx context.Context, userID primitive.ObjectID, archive []byte, parentFolderID *primitive.ObjectID, name string) (*ImportResult, error) {
	if len(archive) == 0 {
		return nil, ErrEmptyArchive
	}

	zipReader, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, fmt.Errorf("failed to decode archive: %w", err)
	}

	if name == "" {
		name = fmt.Sprintf("Folder-%d", time.Now().Unix())
	}

	if parentFolderID != nil {
		_, err := s.folders.GetByID(ctx, *parentFolderID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrParentFolderNotFound
		} else if err != nil {
			return nil, fmt.Errorf("failed to load parent folder: %w", err)
		}
	}

	root := &models.Folder{
		ID:        primitive.NewObjectID(),
		Name:      name,
		ParentID:  parentFolderID,
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	if err := s.folders.Create(ctx, root); err != nil {
		return nil, err
	}

	result := &ImportResult{Folder: root}
	for _, entry := range zipReader.File {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.FileInfo().IsDir() || strings.HasSuffix(entry.Name, "/") {
			continue
		}

		if err := s.importEntry(ctx, userID, root.ID, entry, result); err != nil {
			utils.LogWarning(fmt.Sprintf("skipping archive entry %s: %v", entry.Name, err))
			result.Failed = append(result.Failed, EntryFailure{Path: entry.Name, Error: err.Error()})
		}
	}
	return result, nil
}

// importEntry resolves the entry's folder chain under the import root,
// reusing existing same-named children so repeated path prefixes never
// create duplicate subfolders, then stores the file itself.
func (s *ArchiveService) importEntry(ctx context.Context, userID, rootID primitive.ObjectID, entry *zip.File, result *ImportResult) error {
	segments := splitEntryPath(entry.Name)
	if len(segments) == 0 {
		return fmt.Errorf("entry has no filename")
	}
	fileName := segments[len(segments)-1]
	dirSegments := segments[:len(segments)-1]

	if err := utils.ValidateRelativePath(strings.Join(dirSegments, "/")); err != nil {
		return fmt.Errorf("invalid entry path: %w", err)
	}

	parentID := rootID
	for _, segment := range dirSegments {
		existing, err := s.folders.FindChildByName(ctx, userID, &parentID, segment)
		if errors.Is(err, repository.ErrNotFound) {
			// Copy the cursor so advancing it cannot mutate the record
			// just stored through the shared pointer.
			currentParent := parentID
			folder := &models.Folder{
				ID:        primitive.NewObjectID(),
				Name:      segment,
				ParentID:  &currentParent,
				UserID:    userID,
				CreatedAt: time.Now(),
			}
			if err := s.folders.Create(ctx, folder); err != nil {
				return fmt.Errorf("failed to create folder %q: %w", segment, err)
			}
			result.FoldersProcessed++
			parentID = folder.ID
		} else if err != nil {
			return fmt.Errorf("failed to resolve folder %q: %w", segment, err)
		} else {
			parentID = existing.ID
		}
	}

	reader, err := entry.Open()
	if err != nil {
		return fmt.Errorf("failed to open entry: %w", err)
	}
	data, err := io.ReadAll(reader)
	reader.Close()
	if err != nil {
		return fmt.Errorf("failed to read entry: %w", err)
	}

	file := &models.File{
		ID:           primitive.NewObjectID(),
		Name:         fileName,
		OriginalName: fileName,
		MimeType:     MimeTypeByExtension(fileName),
		Size:         int64(len(data)),
		Data:         data,
		FolderID:     &parentID,
		UserID:       userID,
		Path:         entry.Name,
		CreatedAt:    time.Now(),
	}
	if err := s.files.Create(ctx, file); err != nil {
		return fmt.Errorf("failed to store file: %w", err)
	}
	result.FilesProcessed++
	return nil
}

func splitEntryPath(entryPath string) []string {
	var segments []string
	for _, part := range strings.Split(entryPath, "/") {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}

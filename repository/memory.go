package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"mediamanager/models"
)

// MemoryStore is an in-memory implementation of the repositories, used as
// a hermetic backend in tests. It mirrors the Mongo implementation's
// ordering and matching semantics.
type MemoryStore struct {
	mu      sync.RWMutex
	users   map[primitive.ObjectID]models.User
	folders map[primitive.ObjectID]models.Folder
	files   map[primitive.ObjectID]models.File
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[primitive.ObjectID]models.User),
		folders: make(map[primitive.ObjectID]models.Folder),
		files:   make(map[primitive.ObjectID]models.File),
	}
}

func (s *MemoryStore) Users() UserRepository     { return &memoryUserRepo{store: s} }
func (s *MemoryStore) Folders() FolderRepository { return &memoryFolderRepo{store: s} }
func (s *MemoryStore) Files() FileRepository     { return &memoryFileRepo{store: s} }

func containsFold(s, term string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(term))
}

func sameParent(a *primitive.ObjectID, b *primitive.ObjectID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// ---------- users ----------

type memoryUserRepo struct {
	store *MemoryStore
}

func (r *memoryUserRepo) Create(_ context.Context, user *models.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.store.users[user.ID] = *user
	return nil
}

func (r *memoryUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	user, ok := r.store.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (r *memoryUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, user := range r.store.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

// ---------- folders ----------

type memoryFolderRepo struct {
	store *MemoryStore
}

func (r *memoryFolderRepo) Create(_ context.Context, folder *models.Folder) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if folder.ID.IsZero() {
		folder.ID = primitive.NewObjectID()
	}
	stored := *folder
	stored.ParentID = cloneID(folder.ParentID)
	r.store.folders[folder.ID] = stored
	return nil
}

func (r *memoryFolderRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Folder, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	folder, ok := r.store.folders[id]
	if !ok {
		return nil, ErrNotFound
	}
	folder.ParentID = cloneID(folder.ParentID)
	return &folder, nil
}

func (r *memoryFolderRepo) ListRoots(_ context.Context, userID primitive.ObjectID) ([]models.Folder, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var roots []models.Folder
	for _, folder := range r.store.folders {
		if folder.UserID == userID && folder.ParentID == nil {
			roots = append(roots, folder)
		}
	}
	sortFoldersByName(roots)
	return roots, nil
}

func (r *memoryFolderRepo) ListChildren(_ context.Context, parentID primitive.ObjectID) ([]models.Folder, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var children []models.Folder
	for _, folder := range r.store.folders {
		if folder.ParentID != nil && *folder.ParentID == parentID {
			folder.ParentID = cloneID(folder.ParentID)
			children = append(children, folder)
		}
	}
	sortFoldersByName(children)
	return children, nil
}

func (r *memoryFolderRepo) FindChildByName(_ context.Context, userID primitive.ObjectID, parentID *primitive.ObjectID, name string) (*models.Folder, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, folder := range r.store.folders {
		if folder.UserID == userID && folder.Name == name && sameParent(folder.ParentID, parentID) {
			f := folder
			f.ParentID = cloneID(folder.ParentID)
			return &f, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryFolderRepo) CountChildren(_ context.Context, parentID primitive.ObjectID) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var count int64
	for _, folder := range r.store.folders {
		if folder.ParentID != nil && *folder.ParentID == parentID {
			count++
		}
	}
	return count, nil
}

func (r *memoryFolderRepo) Rename(_ context.Context, id primitive.ObjectID, name string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	folder, ok := r.store.folders[id]
	if !ok {
		return ErrNotFound
	}
	folder.Name = name
	r.store.folders[id] = folder
	return nil
}

func (r *memoryFolderRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.folders[id]; !ok {
		return ErrNotFound
	}
	delete(r.store.folders, id)
	return nil
}

func (r *memoryFolderRepo) Search(_ context.Context, filter FolderFilter) ([]models.Folder, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var matches []models.Folder
	for _, folder := range r.store.folders {
		if folder.UserID == filter.UserID && containsFold(folder.Name, filter.NameContains) {
			folder.ParentID = cloneID(folder.ParentID)
			matches = append(matches, folder)
		}
	}
	sortFoldersByName(matches)
	total := int64(len(matches))
	return pageFolders(matches, filter.Skip, filter.Limit), total, nil
}

func (r *memoryFolderRepo) DistinctNames(_ context.Context, userID primitive.ObjectID, term string, limit int) ([]string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	seen := make(map[string]bool)
	for _, folder := range r.store.folders {
		if folder.UserID == userID && containsFold(folder.Name, term) {
			seen[folder.Name] = true
		}
	}
	return capNames(seen, limit), nil
}

// ---------- files ----------

type memoryFileRepo struct {
	store *MemoryStore
}

func (r *memoryFileRepo) Create(_ context.Context, file *models.File) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if file.ID.IsZero() {
		file.ID = primitive.NewObjectID()
	}
	stored := *file
	stored.Data = append([]byte(nil), file.Data...)
	stored.FolderID = cloneID(file.FolderID)
	r.store.files[file.ID] = stored
	return nil
}

func (r *memoryFileRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.File, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	file, ok := r.store.files[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := file
	out.Data = append([]byte(nil), file.Data...)
	out.FolderID = cloneID(file.FolderID)
	return &out, nil
}

func (r *memoryFileRepo) GetMetaByID(_ context.Context, id primitive.ObjectID) (*models.File, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	file, ok := r.store.files[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := file
	out.Data = nil
	out.FolderID = cloneID(file.FolderID)
	return &out, nil
}

func (r *memoryFileRepo) ListMetaByFolder(_ context.Context, folderID primitive.ObjectID, skip, limit int64) ([]models.File, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	files := r.inFolder(folderID, false)
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].CreatedAt.After(files[j].CreatedAt)
	})
	return pageFiles(files, skip, limit), nil
}

func (r *memoryFileRepo) ListByFolder(_ context.Context, folderID primitive.ObjectID) ([]models.File, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	files := r.inFolder(folderID, true)
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].CreatedAt.Before(files[j].CreatedAt)
	})
	return files, nil
}

func (r *memoryFileRepo) CountByFolder(_ context.Context, folderID primitive.ObjectID) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return int64(len(r.inFolder(folderID, false))), nil
}

func (r *memoryFileRepo) Rename(_ context.Context, id primitive.ObjectID, name string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	file, ok := r.store.files[id]
	if !ok {
		return ErrNotFound
	}
	file.Name = name
	r.store.files[id] = file
	return nil
}

func (r *memoryFileRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.files[id]; !ok {
		return ErrNotFound
	}
	delete(r.store.files, id)
	return nil
}

func (r *memoryFileRepo) DeleteByFolder(_ context.Context, folderID primitive.ObjectID) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var deleted int64
	for id, file := range r.store.files {
		if file.FolderID != nil && *file.FolderID == folderID {
			delete(r.store.files, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *memoryFileRepo) Search(_ context.Context, filter FileFilter) ([]models.File, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var matches []models.File
	for _, file := range r.store.files {
		if !r.matches(file, filter) {
			continue
		}
		meta := file
		meta.Data = nil
		meta.FolderID = cloneID(file.FolderID)
		matches = append(matches, meta)
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Name < matches[j].Name
	})
	total := int64(len(matches))
	return pageFiles(matches, filter.Skip, filter.Limit), total, nil
}

func (r *memoryFileRepo) matches(file models.File, filter FileFilter) bool {
	if file.UserID != filter.UserID {
		return false
	}
	if !containsFold(file.Name, filter.NameContains) && !containsFold(file.OriginalName, filter.NameContains) {
		return false
	}
	if filter.MimeContains != "" && !containsFold(file.MimeType, filter.MimeContains) {
		return false
	}
	if filter.MinSize != nil && file.Size < *filter.MinSize {
		return false
	}
	if filter.MaxSize != nil && file.Size > *filter.MaxSize {
		return false
	}
	if filter.CreatedFrom != nil && file.CreatedAt.Before(*filter.CreatedFrom) {
		return false
	}
	if filter.CreatedTo != nil && file.CreatedAt.After(*filter.CreatedTo) {
		return false
	}
	return true
}

func (r *memoryFileRepo) DistinctNames(_ context.Context, userID primitive.ObjectID, term string, limit int) ([]string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	seen := make(map[string]bool)
	for _, file := range r.store.files {
		if file.UserID == userID && (containsFold(file.Name, term) || containsFold(file.OriginalName, term)) {
			seen[file.Name] = true
		}
	}
	return capNames(seen, limit), nil
}

func (r *memoryFileRepo) inFolder(folderID primitive.ObjectID, withData bool) []models.File {
	var files []models.File
	for _, file := range r.store.files {
		if file.FolderID == nil || *file.FolderID != folderID {
			continue
		}
		out := file
		if withData {
			out.Data = append([]byte(nil), file.Data...)
		} else {
			out.Data = nil
		}
		out.FolderID = cloneID(file.FolderID)
		files = append(files, out)
	}
	return files
}

// ---------- helpers ----------

func sortFoldersByName(folders []models.Folder) {
	sort.SliceStable(folders, func(i, j int) bool {
		return folders[i].Name < folders[j].Name
	})
}

func pageFolders(folders []models.Folder, skip, limit int64) []models.Folder {
	start, end := pageBounds(int64(len(folders)), skip, limit)
	return folders[start:end]
}

func pageFiles(files []models.File, skip, limit int64) []models.File {
	start, end := pageBounds(int64(len(files)), skip, limit)
	return files[start:end]
}

func pageBounds(total, skip, limit int64) (int64, int64) {
	if skip < 0 {
		skip = 0
	}
	if skip > total {
		skip = total
	}
	end := total
	if limit > 0 && skip+limit < total {
		end = skip + limit
	}
	return skip, end
}

// capNames converts a set of names to sorted strings capped at limit,
// mirroring capDistinct in the Mongo implementation.
func capNames(seen map[string]bool, limit int) []string {
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}
	return names
}

// cloneID copies an optional ID so stored records never alias caller
// memory.
func cloneID(id *primitive.ObjectID) *primitive.ObjectID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

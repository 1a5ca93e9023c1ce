package claude

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/xiaoyuanzhu-com/claude-sessions/claude/models"
	"github.com/xiaoyuanzhu-com/claude-sessions/log"
)

// SessionIndexCache provides an in-memory view of every session listed in the
// per-project sessions-index.json files. It lazily loads on first access and
// can keep itself current with an fsnotify watcher (see Watch).
type SessionIndexCache struct {
	mu          sync.RWMutex
	byIndex     map[string][]*CachedSessionEntry // index path -> entries
	initialized bool

	watcher  *fsnotify.Watcher
	debounce *debouncer
	wg       sync.WaitGroup

	projectsDir string
}

// CachedSessionEntry holds session metadata in the cache
type CachedSessionEntry struct {
	SessionID    string    `json:"id"`
	FullPath     string    `json:"fullPath"`
	FirstPrompt  string    `json:"firstPrompt"`
	CustomTitle  string    `json:"customTitle,omitempty"`
	DisplayTitle string    `json:"displayTitle"`
	MessageCount int       `json:"messageCount"`
	Created      time.Time `json:"created"`
	Modified     time.Time `json:"modified"`
	GitBranch    string    `json:"gitBranch,omitempty"`
	ProjectPath  string    `json:"projectPath"`
	IndexPath    string    `json:"indexPath"`
}

// NewSessionIndexCache creates a cache over projectsDir. Nothing is read until
// the first call to GetAll, Get or Reload.
func NewSessionIndexCache(projectsDir string) *SessionIndexCache {
	return &SessionIndexCache{
		byIndex:     make(map[string][]*CachedSessionEntry),
		projectsDir: projectsDir,
	}
}

// GetAll returns all cached session entries, most recently modified first.
// A session listed by more than one index appears once (see uniqueEntries).
func (c *SessionIndexCache) GetAll() []*CachedSessionEntry {
	c.ensureInitialized()

	c.mu.RLock()
	unique := c.uniqueEntries()
	c.mu.RUnlock()

	result := make([]*CachedSessionEntry, 0, len(unique))
	for _, entry := range unique {
		result = append(result, entry)
	}
	sortByModified(result)
	return result
}

// Get returns a single session entry by ID, or nil if not found.
func (c *SessionIndexCache) Get(sessionID string) *CachedSessionEntry {
	c.ensureInitialized()

	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.uniqueEntries()[sessionID]
}

// uniqueEntries maps each session ID to its most recently modified entry.
// Equal timestamps resolve to the index path that sorts first. Caller holds mu.
func (c *SessionIndexCache) uniqueEntries() map[string]*CachedSessionEntry {
	paths := make([]string, 0, len(c.byIndex))
	for path := range c.byIndex {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	unique := make(map[string]*CachedSessionEntry)
	for _, path := range paths {
		for _, entry := range c.byIndex[path] {
			if existing, ok := unique[entry.SessionID]; ok && !entry.Modified.After(existing.Modified) {
				continue
			}
			unique[entry.SessionID] = entry
		}
	}
	return unique
}

// Reload drops the cache and reads every index file again.
func (c *SessionIndexCache) Reload() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.byIndex = make(map[string][]*CachedSessionEntry)
	c.loadFromIndexFiles()
	c.initialized = true
}

func (c *SessionIndexCache) ensureInitialized() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.initialized {
		return
	}

	log.Debug().Str("projectsDir", c.projectsDir).Msg("initializing session index cache")
	c.loadFromIndexFiles()
	c.initialized = true
}

// loadFromIndexFiles reads all sessions-index.json files and populates the cache.
// Must be called with write lock held.
func (c *SessionIndexCache) loadFromIndexFiles() {
	paths, err := DiscoverIndexFiles(c.projectsDir)
	if err != nil {
		log.Warn().Err(err).Str("projectsDir", c.projectsDir).Msg("failed to read projects directory")
		return
	}

	count := 0
	for _, path := range paths {
		entries, err := loadIndexEntries(path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("skipping unreadable session index")
			continue
		}
		c.byIndex[path] = entries
		count += len(entries)
	}

	log.Debug().Int("count", count).Int("indexes", len(paths)).Msg("loaded sessions from index files")
}

func loadIndexEntries(path string) ([]*CachedSessionEntry, error) {
	index, err := ReadSessionIndex(path)
	if err != nil {
		return nil, err
	}

	entries := make([]*CachedSessionEntry, 0, len(index.Entries))
	for _, indexEntry := range index.Entries {
		if indexEntry == nil || indexEntry.SessionID == "" {
			continue
		}
		entries = append(entries, convertIndexEntry(indexEntry, path))
	}
	return entries, nil
}

// Watch starts an fsnotify watcher on the projects directory and each project
// directory. Whenever an index file is written or removed, that project's
// entries are reloaded and onChange is called (from the watcher goroutine).
// The watcher stops when ctx is done or Close is called.
func (c *SessionIndexCache) Watch(ctx context.Context, onChange func()) error {
	c.ensureInitialized()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// Also watch the projects directory itself for new project directories
	if err := watcher.Add(c.projectsDir); err != nil {
		watcher.Close()
		return err
	}

	dirs, err := os.ReadDir(c.projectsDir)
	if err != nil {
		watcher.Close()
		return err
	}
	for _, entry := range dirs {
		if !entry.IsDir() {
			continue
		}
		projectDir := filepath.Join(c.projectsDir, entry.Name())
		if err := watcher.Add(projectDir); err != nil {
			log.Debug().Err(err).Str("dir", projectDir).Msg("failed to watch directory")
		}
	}

	c.mu.Lock()
	c.watcher = watcher
	c.debounce = newDebouncer(DefaultDebounceDelay, func(path string, change indexChange) {
		c.applyChange(path, change)
		if onChange != nil {
			onChange()
		}
	})
	debounce := c.debounce
	c.mu.Unlock()

	c.wg.Add(1)
	go c.watchLoop(ctx, watcher, debounce)

	log.Debug().Int("watchedDirs", len(dirs)+1).Msg("started session index watcher")
	return nil
}

// Close stops the watcher started by Watch and waits for it to exit.
func (c *SessionIndexCache) Close() error {
	c.mu.Lock()
	watcher := c.watcher
	debounce := c.debounce
	c.watcher = nil
	c.debounce = nil
	c.mu.Unlock()

	if debounce != nil {
		debounce.Stop()
	}
	var err error
	if watcher != nil {
		err = watcher.Close()
	}
	c.wg.Wait()
	return err
}

func (c *SessionIndexCache) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, debounce *debouncer) {
	defer c.wg.Done()

	for {
		select {
		case <-ctx.Done():
			debounce.Stop()
			watcher.Close()
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			c.handleFSEvent(watcher, debounce, event)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Debug().Err(err).Msg("fsnotify error")
		}
	}
}

// handleFSEvent processes a single fsnotify event.
func (c *SessionIndexCache) handleFSEvent(watcher *fsnotify.Watcher, debounce *debouncer, event fsnotify.Event) {
	if event.Op&fsnotify.Create != 0 && filepath.Dir(event.Name) == c.projectsDir {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := watcher.Add(event.Name); err == nil {
				log.Debug().Str("dir", event.Name).Msg("watching new project directory")
			}
			// The index may have been written before the watch was added
			debounce.Queue(filepath.Join(event.Name, IndexFileName), indexWritten)
			return
		}
	}

	if filepath.Base(event.Name) != IndexFileName {
		return
	}

	switch {
	case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
		debounce.Queue(event.Name, indexWritten)
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		debounce.Queue(event.Name, indexRemoved)
	}
}

// applyChange reloads or drops one index file's entries.
func (c *SessionIndexCache) applyChange(path string, change indexChange) {
	if change == indexRemoved {
		c.mu.Lock()
		delete(c.byIndex, path)
		c.mu.Unlock()
		log.Debug().Str("path", path).Msg("removed session index from cache")
		return
	}

	entries, err := loadIndexEntries(path)
	if err != nil {
		// Keep the previous entries; a half-written index will be followed by another event
		log.Debug().Err(err).Str("path", path).Msg("failed to reload session index")
		return
	}

	c.mu.Lock()
	c.byIndex[path] = entries
	c.mu.Unlock()
	log.Debug().Str("path", path).Int("count", len(entries)).Msg("reloaded session index")
}

// convertIndexEntry converts a SessionIndexEntry to a CachedSessionEntry.
func convertIndexEntry(entry *models.SessionIndexEntry, indexPath string) *CachedSessionEntry {
	created, _ := models.ParseTimestamp(entry.Created)
	modified, _ := models.ParseTimestamp(entry.Modified)

	return &CachedSessionEntry{
		SessionID:    entry.SessionID,
		FullPath:     entry.FullPath,
		FirstPrompt:  entry.FirstPrompt,
		CustomTitle:  entry.CustomTitle,
		DisplayTitle: entry.DisplayTitle(),
		MessageCount: entry.MessageCount,
		Created:      created,
		Modified:     modified,
		GitBranch:    entry.GitBranch,
		ProjectPath:  entry.ProjectPath,
		IndexPath:    indexPath,
	}
}

// sortByModified orders entries most recently modified first; ties keep a
// stable order by session ID.
func sortByModified(entries []*CachedSessionEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Modified.Equal(entries[j].Modified) {
			return entries[i].Modified.After(entries[j].Modified)
		}
		return entries[i].SessionID < entries[j].SessionID
	})
}

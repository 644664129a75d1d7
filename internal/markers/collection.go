package markers

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ironsheep/screen-marker-mcp/internal/imaging"
)

// Entry is one item of a Collection.
type Entry struct {
	Key     string    `json:"key"`
	ModTime time.Time `json:"mod_time"`
}

// Collection is the watched source of marker images.
type Collection interface {
	ListEntries() ([]Entry, error)
	LoadPixels(key string) (image.Image, error)
}

// Forgetter is implemented by collections that hold resources per entry.
// The registry calls Forget when an entry is unloaded.
type Forgetter interface {
	Forget(key string)
}

// DirCollection serves marker images from the files of one directory.
// Sub-directories and files with other extensions are ignored.
type DirCollection struct {
	dir        string
	extensions map[string]bool
	cache      *imaging.ImageCache
}

// NewDirCollection creates a collection over dir. An empty extensions list
// accepts every format the image cache can decode.
func NewDirCollection(dir string, extensions []string, cache *imaging.ImageCache) (*DirCollection, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNoMarkerDir, dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrNoMarkerDir, dir)
	}
	if cache == nil {
		cache = imaging.NewImageCache()
	}
	if len(extensions) == 0 {
		extensions = imaging.DecodableExtensions
	}
	exts := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		e = strings.ToLower(e)
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts[e] = true
	}
	return &DirCollection{dir: dir, extensions: exts, cache: cache}, nil
}

// Dir returns the watched directory.
func (c *DirCollection) Dir() string {
	return c.dir
}

// ListEntries returns the matching files sorted by name.
func (c *DirCollection) ListEntries() ([]Entry, error) {
	dirEntries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read marker directory: %w", err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() || !c.extensions[strings.ToLower(filepath.Ext(de.Name()))] {
			continue
		}
		info, err := de.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			continue
		}
		entries = append(entries, Entry{Key: de.Name(), ModTime: info.ModTime()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries, nil
}

// LoadPixels decodes the file for key, bypassing any cached copy.
func (c *DirCollection) LoadPixels(key string) (image.Image, error) {
	return c.cache.Reload(c.path(key))
}

// Forget drops the cached image for key.
func (c *DirCollection) Forget(key string) {
	c.cache.Evict(c.path(key))
}

func (c *DirCollection) path(key string) string {
	return filepath.Join(c.dir, filepath.Base(key))
}

package collapse

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	errs "github.com/matzehuels/seqtree/pkg/errors"
	"github.com/matzehuels/seqtree/pkg/scene"
)

// FileVersion is the current schema version of collapse state files.
const FileVersion = 1

// fileState is the on-disk format:
//
//	{
//	  "version": 1,
//	  "collapsed": {
//	    "{\"projectId\":\"p\",\"sheetId\":\"s\",\"objectKey\":\"box\"}": true
//	  }
//	}
type fileState struct {
	Version   int             `json:"version"`
	Collapsed map[string]bool `json:"collapsed"`
}

// FileStore persists a [Store] as a JSON file.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a file store at path. The file is not touched until
// Load or Save.
func NewFileStore(path string) (*FileStore, error) {
	if err := errs.ValidatePath(path); err != nil {
		return nil, err
	}
	return &FileStore{path: path}, nil
}

// Path returns the file location.
func (f *FileStore) Path() string { return f.path }

// Load reads the file into a new Store. A missing file yields an empty
// store; a corrupted or newer-version file is an error.
func (f *FileStore) Load() (*Store, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := NewStore()
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read collapse state: %w", err)
	}

	var st fileState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "parse collapse state %s", f.path)
	}
	if st.Version > FileVersion {
		return nil, errs.New(errs.ErrCodeUnsupported, "collapse state version %d is newer than %d", st.Version, FileVersion)
	}
	for k, v := range st.Collapsed {
		s.flags[scene.ItemKey(k)] = v
	}
	return s, nil
}

// Save writes the current flags of s, replacing the file atomically.
func (f *FileStore) Save(s *Store) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap := s.Snapshot()
	st := fileState{Version: FileVersion, Collapsed: make(map[string]bool, snap.Len())}
	for k, v := range snap.flags {
		st.Collapsed[string(k)] = v
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal collapse state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write collapse state: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write collapse state: %w", err)
	}
	return nil
}

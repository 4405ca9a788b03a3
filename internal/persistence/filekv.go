package persistence

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileKV is a file-backed KV store with a byte quota. Each key maps to one
// JSON file under the base directory; writes go through a temp file and
// rename so a crash never leaves a torn blob.
type FileKV struct {
	baseDir string
	quota   int64 // total bytes across all keys; 0 means unlimited
	mu      sync.Mutex
}

// NewFileKV creates the base directory if needed.
func NewFileKV(baseDir string, quota int64) (*FileKV, error) {
	if strings.HasPrefix(baseDir, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			baseDir = filepath.Join(home, baseDir[2:])
		}
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, err
	}
	return &FileKV{baseDir: baseDir, quota: quota}, nil
}

func (s *FileKV) path(key string) string {
	return filepath.Join(s.baseDir, key+".json")
}

// GetItem reads the stored value for key.
func (s *FileKV) GetItem(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	return data, err
}

// SetItem writes value under key, enforcing the byte quota across all keys.
func (s *FileKV) SetItem(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.quota > 0 {
		used, err := s.usedBytesExcept(key)
		if err != nil {
			return err
		}
		if used+int64(len(value)) > s.quota {
			return ErrQuotaExceeded
		}
	}

	tmp, err := os.CreateTemp(s.baseDir, "."+key+"-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, s.path(key))
}

// RemoveItem deletes the value for key; missing keys are not an error.
func (s *FileKV) RemoveItem(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *FileKV) usedBytesExcept(key string) (int64, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return 0, err
	}
	var used int64
	skip := key + ".json"
	for _, e := range entries {
		if e.IsDir() || e.Name() == skip || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		used += info.Size()
	}
	return used, nil
}

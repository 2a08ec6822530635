package database

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// FileKV persists every collection into a single JSON document on disk.
// The whole document is rewritten on each save.
type FileKV struct {
	FilePath string
	mu       sync.RWMutex
	data     map[string]string
}

func NewFileKV(filePath string) (*FileKV, error) {
	s := &FileKV{
		FilePath: filePath,
		data:     make(map[string]string),
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, err
	}
	if err := s.loadFromFile(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	log.WithField("path", filePath).Infof("file store ready with %d collections", len(s.data))
	return s, nil
}

func (s *FileKV) loadFromFile() error {
	file, err := os.ReadFile(s.FilePath)
	if err != nil {
		return err
	}
	if len(file) == 0 {
		return nil
	}
	return json.Unmarshal(file, &s.data)
}

func (s *FileKV) saveToFile() error {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.FilePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.FilePath)
}

func (s *FileKV) Load(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	return []byte(value), nil
}

func (s *FileKV) Save(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	previous, existed := s.data[key]
	s.data[key] = string(value)
	if err := s.saveToFile(); err != nil {
		if existed {
			s.data[key] = previous
		} else {
			delete(s.data, key)
		}
		return err
	}
	return nil
}

func (s *FileKV) Close(ctx context.Context) error {
	return nil
}

package locationrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/yanqian/weather-outfit/internal/domain/location"
)

// FileRepository stores the location list as a JSON array on disk.
type FileRepository struct {
	path string
}

// NewFileRepository constructs a repository rooted at path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

// Load implements location.Repository.
func (r *FileRepository) Load(_ context.Context) ([]location.Location, bool, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read locations file: %w", err)
	}
	var locations []location.Location
	if err := json.Unmarshal(data, &locations); err != nil {
		return nil, false, fmt.Errorf("parse locations file: %w", err)
	}
	return locations, true, nil
}

// Save implements location.Repository. The file is replaced atomically.
func (r *FileRepository) Save(_ context.Context, locations []location.Location) error {
	if locations == nil {
		locations = []location.Location{}
	}
	data, err := json.MarshalIndent(capped(locations), "", "  ")
	if err != nil {
		return fmt.Errorf("encode locations: %w", err)
	}
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create locations dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".locations-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replace locations file: %w", err)
	}
	return nil
}

var _ location.Repository = (*FileRepository)(nil)

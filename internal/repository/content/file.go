package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kuberocketai/contenthub/internal/domain"
	domcontent "github.com/kuberocketai/contenthub/internal/domain/content"
)

// FileSource reads generated collection files from <dir>/<type>.json.
type FileSource struct {
	dir string
}

// NewFileSource creates a file-backed source rooted at dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

// Dir returns the watched directory.
func (s *FileSource) Dir() string {
	return s.dir
}

// Path returns the file backing the given type.
func (s *FileSource) Path(t domcontent.Type) string {
	return filepath.Join(s.dir, string(t)+".json")
}

// TypeForPath maps a file path back to its content type.
func (s *FileSource) TypeForPath(path string) (domcontent.Type, bool) {
	for _, t := range domcontent.Types() {
		if filepath.Clean(path) == filepath.Clean(s.Path(t)) {
			return t, true
		}
	}
	return "", false
}

// Read returns the raw collection file.
func (s *FileSource) Read(ctx context.Context, t domcontent.Type) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path(t))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", domain.ErrSourceUnavailable, s.Path(t))
		}
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrSourceUnavailable, s.Path(t), err)
	}
	return data, nil
}

// Describe names the source for logs and health output.
func (s *FileSource) Describe() string {
	return "file:" + s.dir
}

// Package filesource serves resources from a local directory. The validation
// tag is derived from the file size and modification time, so probes never
// read file contents.
package filesource

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/ghalamif/JointSync/internal/ports"
)

type Source struct {
	root string
}

func New(root string) (*Source, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	return &Source{root: abs}, nil
}

func (s *Source) Probe(ctx context.Context, resource string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fi, err := os.Stat(s.path(resource))
	if err != nil {
		return "", err
	}
	if fi.IsDir() {
		return "", fmt.Errorf("%s: %w", resource, fs.ErrInvalid)
	}
	return tag(fi), nil
}

func (s *Source) Fetch(ctx context.Context, resource string) ([]byte, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	p := s.path(resource)
	f, err := os.Open(p)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, "", err
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", err
	}
	return data, tag(fi), nil
}

// path maps a slash-separated resource name inside root.
func (s *Source) path(resource string) string {
	clean := path.Clean("/" + resource)
	return filepath.Join(s.root, filepath.FromSlash(clean))
}

func tag(fi fs.FileInfo) string {
	return fmt.Sprintf(`"%x-%x"`, fi.ModTime().UnixNano(), fi.Size())
}

var _ ports.ResourceSource = (*Source)(nil)

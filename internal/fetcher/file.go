package fetcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// File serves captured page dumps from disk. The url is taken as a path,
// relative to Dir when it is not absolute; a file:// prefix is accepted.
type File struct {
	Dir string
}

// Fetch implements PageFetcher.
func (f File) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := strings.TrimPrefix(url, "file://")
	if !filepath.IsAbs(path) && f.Dir != "" {
		path = filepath.Join(f.Dir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

var _ PageFetcher = File{}

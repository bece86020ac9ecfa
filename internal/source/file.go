package source

import (
	"context"
	"path/filepath"
)

// FileAdapter tails a local file with tail -F, following rotations
type FileAdapter struct {
	Path string
}

// NewFileAdapter creates an adapter for a local log file
func NewFileAdapter(path string) *FileAdapter {
	return &FileAdapter{Path: path}
}

// Tail streams the file until cancelled
func (a *FileAdapter) Tail(ctx context.Context, emit Emit) {
	tailCommand(ctx, emit, "tail", "-F", "-n", DefaultTailLines, a.Path)
}

// DisplayName returns the file's base name
func (a *FileAdapter) DisplayName() string {
	return filepath.Base(a.Path)
}

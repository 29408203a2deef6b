package filemanager

import (
	"context"
	"io/fs"
	"time"
)

// FileInfo contains metadata about a file
type FileInfo struct {
	Path        string
	Name        string
	Size        int64
	IsDir       bool
	ModTime     time.Time
	Permissions fs.FileMode
}

// FileReadOptions configures file reading behavior
type FileReadOptions struct {
	MaxSize int64 // 0 = no limit
	Timeout time.Duration
	Context context.Context
}

// FileWriteOptions configures file writing behavior
type FileWriteOptions struct {
	CreateDirs  bool
	Permissions fs.FileMode
	// Atomic writes into a sibling temp file and renames it over path.
	Atomic  bool
	Timeout time.Duration
	Context context.Context
}

func DefaultFileReadOptions() FileReadOptions {
	return FileReadOptions{
		MaxSize: 20 * 1024 * 1024,
		Timeout: 30 * time.Second,
		Context: context.Background(),
	}
}

func DefaultFileWriteOptions() FileWriteOptions {
	return FileWriteOptions{
		CreateDirs:  true,
		Permissions: 0644,
		Atomic:      true,
		Timeout:     30 * time.Second,
		Context:     context.Background(),
	}
}

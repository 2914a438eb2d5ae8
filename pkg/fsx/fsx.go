package fsx

import (
	"context"
	"errors"
	"time"
)

// ErrNotExist is returned when a path has no stored object
var ErrNotExist = errors.New("fsx: file does not exist")

// FileSystem abstracts the object storage holding uploaded files
type FileSystem interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, path string, data []byte) error
	Exists(ctx context.Context, path string) (bool, error)
	Join(elem ...string) string
}

// SignOptions tune a signed URL
type SignOptions struct {
	// DownloadName forces a Content-Disposition attachment with this filename
	DownloadName string
}

// URLSigner issues short-lived URLs for direct reads from storage
type URLSigner interface {
	SignedURL(ctx context.Context, path string, ttl time.Duration, opts SignOptions) (string, error)
}

// SignedFileSystem is a FileSystem that can also sign URLs
type SignedFileSystem interface {
	FileSystem
	URLSigner
}

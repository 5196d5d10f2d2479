package filestore

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("file not found")

// Store persists uploaded files under slash separated keys such as
// uploads/ods_2/horta/logo-1700000000000-1a2b3c4d.png.
type Store interface {
	// Put moves the local file at srcPath to key.
	Put(ctx context.Context, key, srcPath string) error
	// Delete removes one file. Missing files are not an error.
	Delete(ctx context.Context, key string) error
	// DeleteDir removes every file under dir. Missing dirs are not an error.
	DeleteDir(ctx context.Context, dir string) error
	// Exists reports whether key is a file or a non-empty dir.
	Exists(ctx context.Context, key string) (bool, error)
	// RenameDir moves every file under from to to.
	RenameDir(ctx context.Context, from, to string) error
}

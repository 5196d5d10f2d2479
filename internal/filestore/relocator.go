package filestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	UploadsPrefix   = "uploads"
	FallbackOds     = "geral"
	FallbackProject = "projeto_sem_nome"

	cleanupParallelism = 4
)

// UploadedFile is a file parked in the temp dir by the upload handler.
type UploadedFile struct {
	Field        string
	TempPath     string
	OriginalName string
}

// Relocator moves uploads into per-project directories and cleans them up.
// Cleanup never fails the caller; problems are logged as warnings.
type Relocator struct {
	store Store
	log   *zap.Logger
	now   func() time.Time
}

func NewRelocator(store Store, log *zap.Logger) *Relocator {
	return &Relocator{store: store, log: log, now: time.Now}
}

// Sanitize lowercases s and replaces every rune outside [a-z0-9] with '_'.
func Sanitize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

func safeSegment(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return Sanitize(s)
}

// ProjectDir is the key prefix holding every file of one project.
func ProjectDir(ods, name string) string {
	return UploadsPrefix + "/" + safeSegment(ods, FallbackOds) + "/" + safeSegment(name, FallbackProject)
}

func (r *Relocator) fileName(field, original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s-%d-%s%s", field, r.now().UnixMilli(), suffix, ext)
}

// Relocate moves files into ProjectDir(ods, name) and returns the new keys
// grouped by form field, in input order. On failure the files already moved
// and the temp files left behind are removed.
func (r *Relocator) Relocate(ctx context.Context, ods, name string, files []UploadedFile) (map[string][]string, error) {
	dir := ProjectDir(ods, name)
	out := make(map[string][]string)
	var moved []string

	for i, f := range files {
		key := dir + "/" + r.fileName(f.Field, f.OriginalName)
		if err := r.store.Put(ctx, key, f.TempPath); err != nil {
			r.RemoveFiles(ctx, moved)
			r.DiscardTemp(files[i:])
			return nil, fmt.Errorf("store %s: %w", f.Field, err)
		}
		moved = append(moved, key)
		out[f.Field] = append(out[f.Field], key)
	}
	return out, nil
}

// DiscardTemp removes temp files of a request that was refused before relocation.
func (r *Relocator) DiscardTemp(files []UploadedFile) {
	for _, f := range files {
		if f.TempPath == "" {
			continue
		}
		if err := os.Remove(f.TempPath); err != nil && !os.IsNotExist(err) {
			r.log.Warn("temp file cleanup failed", zap.String("path", f.TempPath), zap.Error(err))
		}
	}
}

// RenameProjectDir follows a change of ODS or name. The old dir is left in
// place when the target already exists. It reports whether the move happened.
func (r *Relocator) RenameProjectDir(ctx context.Context, oldOds, oldName, newOds, newName string) bool {
	from := ProjectDir(oldOds, oldName)
	to := ProjectDir(newOds, newName)
	if from == to {
		return false
	}

	exists, err := r.store.Exists(ctx, from)
	if err != nil {
		r.log.Warn("project dir lookup failed", zap.String("path", from), zap.Error(err))
		return false
	}
	if !exists {
		return false
	}

	taken, err := r.store.Exists(ctx, to)
	if err != nil {
		r.log.Warn("project dir lookup failed", zap.String("path", to), zap.Error(err))
		return false
	}
	if taken {
		r.log.Warn("project dir target exists, keeping old dir",
			zap.String("from", from), zap.String("to", to))
		return false
	}

	if err := r.store.RenameDir(ctx, from, to); err != nil {
		r.log.Warn("project dir rename failed",
			zap.String("from", from), zap.String("to", to), zap.Error(err))
		return false
	}
	return true
}

// RewriteKey moves key from one project dir to another. Keys outside from are
// returned unchanged.
func RewriteKey(key, from, to string) string {
	prefix := from + "/"
	if strings.HasPrefix(key, prefix) {
		return to + "/" + strings.TrimPrefix(key, prefix)
	}
	return key
}

// RemoveProjectDir deletes the project's dir recursively.
func (r *Relocator) RemoveProjectDir(ctx context.Context, ods, name string) {
	dir := ProjectDir(ods, name)
	if err := r.store.DeleteDir(ctx, dir); err != nil {
		r.log.Warn("project dir cleanup failed", zap.String("path", dir), zap.Error(err))
	}
}

// RemoveFiles deletes keys in parallel.
func (r *Relocator) RemoveFiles(ctx context.Context, keys []string) {
	if len(keys) == 0 {
		return
	}
	var g errgroup.Group
	g.SetLimit(cleanupParallelism)
	for _, key := range keys {
		if key == "" {
			continue
		}
		key := key
		g.Go(func() error {
			if err := r.store.Delete(ctx, key); err != nil {
				r.log.Warn("file cleanup failed", zap.String("path", key), zap.Error(err))
				return err
			}
			return nil
		})
	}
	_ = g.Wait()
}

package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sustentai/ods-platform/internal/config"
	"github.com/sustentai/ods-platform/internal/domain/project"
	"github.com/sustentai/ods-platform/internal/filestore"
)

// ErrUpload marks a rejected upload; handlers answer 400.
var ErrUpload = errors.New("invalid upload")

// Uploader parks multipart files in the temp dir after checking limits
// and content type.
type Uploader struct {
	tempDir  string
	maxBytes int64
}

func NewUploader(cfg config.UploadConfig) (*Uploader, error) {
	if err := os.MkdirAll(cfg.TempDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload temp dir: %w", err)
	}
	return &Uploader{tempDir: cfg.TempDir, maxBytes: cfg.MaxBytes}, nil
}

func uploadErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUpload, fmt.Sprintf(format, args...))
}

// Collect returns nothing for non-multipart requests.
func (u *Uploader) Collect(c *gin.Context) ([]filestore.UploadedFile, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, uploadErr("malformed multipart body")
	}

	fields := make([]string, 0, len(form.File))
	for field := range form.File {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var out []filestore.UploadedFile
	for _, field := range fields {
		headers := form.File[field]
		limit := project.FileFieldLimit(field)
		if limit == 0 {
			u.discard(out)
			return nil, uploadErr("unexpected file field %q", field)
		}
		if len(headers) > limit {
			u.discard(out)
			return nil, uploadErr("field %q accepts at most %d file(s)", field, limit)
		}
		for _, fh := range headers {
			f, err := u.park(c, field, fh)
			if err != nil {
				u.discard(out)
				return nil, err
			}
			out = append(out, f)
		}
	}
	return out, nil
}

func (u *Uploader) park(c *gin.Context, field string, fh *multipart.FileHeader) (filestore.UploadedFile, error) {
	if fh.Size > u.maxBytes {
		return filestore.UploadedFile{}, uploadErr("%s exceeds the %d byte limit", fh.Filename, u.maxBytes)
	}

	src, err := fh.Open()
	if err != nil {
		return filestore.UploadedFile{}, uploadErr("cannot read %s", fh.Filename)
	}
	mt, err := mimetype.DetectReader(src)
	src.Close()
	if err != nil {
		return filestore.UploadedFile{}, uploadErr("cannot read %s", fh.Filename)
	}
	if !acceptedType(field, mt) {
		return filestore.UploadedFile{}, uploadErr("%s has unsupported type %s", fh.Filename, mt.String())
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext == "" {
		ext = mt.Extension()
	}
	dst := filepath.Join(u.tempDir, uuid.NewString()+ext)
	if err := c.SaveUploadedFile(fh, dst); err != nil {
		return filestore.UploadedFile{}, fmt.Errorf("save upload: %w", err)
	}
	return filestore.UploadedFile{Field: field, TempPath: dst, OriginalName: fh.Filename}, nil
}

func acceptedType(field string, mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "image/") {
			return true
		}
		if field == project.FileFieldOficio && m.Is("application/pdf") {
			return true
		}
	}
	return false
}

func (u *Uploader) discard(files []filestore.UploadedFile) {
	for _, f := range files {
		_ = os.Remove(f.TempPath)
	}
}

package application_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/sustentai/ods-platform/internal/api/middleware"
	"github.com/sustentai/ods-platform/internal/application"
	"github.com/sustentai/ods-platform/internal/config"
	"github.com/sustentai/ods-platform/internal/domain/project"
	"github.com/sustentai/ods-platform/internal/filestore"
	"github.com/sustentai/ods-platform/internal/notify"
	"github.com/sustentai/ods-platform/internal/repository"
	"github.com/sustentai/ods-platform/internal/testutils"
	"github.com/sustentai/ods-platform/internal/textfilter"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type outbox struct {
	mu   sync.Mutex
	msgs []notify.Message
}

func (o *outbox) Send(_ context.Context, msg notify.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.msgs = append(o.msgs, msg)
	return nil
}

func (o *outbox) last(t *testing.T) notify.Message {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	require.NotEmpty(t, o.msgs, "expected an email")
	return o.msgs[len(o.msgs)-1]
}

func (o *outbox) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.msgs)
}

// harness wires real services over SQLite and a local file store.
type harness struct {
	svc     *application.Services
	repos   *repository.Repos
	db      *gorm.DB
	root    string
	tempDir string
	mail    *outbox
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gdb := testutils.NewSQLite(t)
	repos := repository.NewRepositories(gdb)

	root := t.TempDir()
	store, err := filestore.NewLocalStore(root)
	require.NoError(t, err)

	mail := &outbox{}
	notifier, err := notify.New(mail, zap.NewNop(), notify.WithSync())
	require.NoError(t, err)

	filter, err := textfilter.New("")
	require.NoError(t, err)

	cfg := &config.Config{Auth: config.AuthConfig{
		JWTSecret:     "test-secret",
		Issuer:        "ods-test",
		AdminUser:     "admin",
		AdminPassword: "s3cret",
		AdminTokenTTL: time.Hour,
	}}
	svc, err := application.New(cfg, application.Deps{
		Repos:    repos,
		Files:    filestore.NewRelocator(store, zap.NewNop()),
		Notifier: notifier,
		Filter:   filter,
		Tokens:   middleware.NewJWT(cfg.Auth),
		Log:      zap.NewNop(),
	})
	require.NoError(t, err)

	return &harness{svc: svc, repos: repos, db: gdb, root: root, tempDir: t.TempDir(), mail: mail}
}

// park writes a file the way the upload handler leaves it in the temp dir.
func (h *harness) park(t *testing.T, field, name string) filestore.UploadedFile {
	t.Helper()
	f, err := os.CreateTemp(h.tempDir, "upload-*"+filepath.Ext(name))
	require.NoError(t, err)
	_, err = f.WriteString(field + ":" + name)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return filestore.UploadedFile{Field: field, TempPath: f.Name(), OriginalName: name}
}

func (h *harness) exists(key string) bool {
	_, err := os.Stat(filepath.Join(h.root, filepath.FromSlash(key)))
	return err == nil
}

// folder lists the file names under a project folder, nil when it is absent.
func (h *harness) folder(t *testing.T, ods, name string) []string {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(h.root, filepath.FromSlash(filestore.ProjectDir(ods, name))))
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func (h *harness) reload(t *testing.T, id uint) project.Project {
	t.Helper()
	p, err := h.repos.Project.GetProjectByID(id)
	require.NoError(t, err)
	return p
}

func baseFields(name string) map[string]string {
	return map[string]string{
		"nomeProjeto":  name,
		"ods":          "ODS 2",
		"emailContato": "contato@" + strings.ReplaceAll(filestore.Sanitize(name), "_", "") + ".gov.br",
		"prefeitura":   "Prefeitura de Sorocaba",
		"descricao":    "Projeto de agricultura urbana",
	}
}

// submit creates a pending project with the given files.
func (h *harness) submit(t *testing.T, name string, files ...filestore.UploadedFile) *project.Project {
	t.Helper()
	p, err := h.svc.Project.Submit(context.Background(), application.SubmitInput{
		Fields: baseFields(name),
		Files:  files,
	})
	require.NoError(t, err)
	return p
}

// live submits and approves a project.
func (h *harness) live(t *testing.T, name string, files ...filestore.UploadedFile) *project.Project {
	t.Helper()
	p := h.submit(t, name, files...)
	res, err := h.svc.Moderation.Approve(context.Background(), p.ID)
	require.NoError(t, err)
	return res.Project
}

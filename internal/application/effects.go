package application

import (
	"context"

	"github.com/sustentai/ods-platform/internal/filestore"
	"github.com/sustentai/ods-platform/internal/notify"
)

// effects collects the file and mail work a decision defers until its
// transaction has settled.
type effects struct {
	deleteFiles []string
	removeDirs  [][2]string
	undo        []func()

	event notify.Event
	to    string
	data  notify.Data
}

func (fx *effects) deleteLater(keys ...string) {
	for _, k := range keys {
		if k != "" {
			fx.deleteFiles = append(fx.deleteFiles, k)
		}
	}
}

func (fx *effects) deleteLaterPtr(key *string) {
	if key != nil {
		fx.deleteLater(*key)
	}
}

func (fx *effects) removeDirLater(ods, name string) {
	fx.removeDirs = append(fx.removeDirs, [2]string{ods, name})
}

func (fx *effects) onRollback(fn func()) {
	fx.undo = append(fx.undo, fn)
}

func (fx *effects) notifyAfter(event notify.Event, to string, data notify.Data) {
	fx.event, fx.to, fx.data = event, to, data
}

// rewriteKeys follows a project dir rename for keys already scheduled.
func (fx *effects) rewriteKeys(from, to string) {
	for i, k := range fx.deleteFiles {
		fx.deleteFiles[i] = filestore.RewriteKey(k, from, to)
	}
}

// commit runs the deferred deletions and the notification.
func (fx *effects) commit(ctx context.Context, files *filestore.Relocator, n *notify.Notifier) {
	for _, d := range fx.removeDirs {
		files.RemoveProjectDir(ctx, d[0], d[1])
	}
	files.RemoveFiles(ctx, fx.deleteFiles)
	if fx.event != "" && n != nil {
		n.Notify(fx.event, fx.to, fx.data)
	}
}

// rollback reverts file moves done inside a failed transaction, newest first.
func (fx *effects) rollback() {
	for i := len(fx.undo) - 1; i >= 0; i-- {
		fx.undo[i]()
	}
}

package application

import (
	"github.com/sustentai/ods-platform/internal/config"
	"github.com/sustentai/ods-platform/internal/filestore"
	"github.com/sustentai/ods-platform/internal/notify"
	"github.com/sustentai/ods-platform/internal/repository"
	"github.com/sustentai/ods-platform/internal/textfilter"
	"go.uber.org/zap"
)

type Services struct {
	Project    *ProjectService
	Moderation *ModerationService
	Review     *ReviewService
	Admin      *AdminService
	Audit      *AuditService
}

// Deps are the collaborators built once in main.
type Deps struct {
	Repos    *repository.Repos
	Files    *filestore.Relocator
	Notifier *notify.Notifier
	Filter   *textfilter.Filter
	Tokens   TokenIssuer
	Log      *zap.Logger
}

func New(cfg *config.Config, d Deps) (*Services, error) {
	admin, err := NewAdminService(cfg.Auth, d.Tokens, d.Log)
	if err != nil {
		return nil, err
	}
	return &Services{
		Project:    NewProjectService(d.Repos, d.Files, d.Log),
		Moderation: NewModerationService(d.Repos, d.Files, d.Notifier, d.Log),
		Review:     NewReviewService(d.Repos, d.Filter, d.Notifier, d.Log),
		Admin:      admin,
		Audit:      NewAuditService(d.Repos, d.Log),
	}, nil
}

package application

import (
	"context"

	"github.com/sustentai/ods-platform/internal/domain/audit"
	"github.com/sustentai/ods-platform/internal/domain/project"
	"github.com/sustentai/ods-platform/internal/repository"
	"go.uber.org/zap"
)

const defaultActor = "admin"

type actorKey struct{}

// WithActor names the admin acting in ctx for the audit trail.
func WithActor(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, actorKey{}, name)
}

func actorFrom(ctx context.Context) string {
	if name, ok := ctx.Value(actorKey{}).(string); ok && name != "" {
		return name
	}
	return defaultActor
}

// record appends an audit entry inside the decision's transaction, so the
// trail never disagrees with the committed state.
func record(ctx context.Context, r *repository.Repos, action string, before project.Status, p *project.Project, res *project.ModerationResult, detail string) error {
	e := &audit.Entry{
		Actor:          actorFrom(ctx),
		Action:         action,
		ProjetoID:      p.ID,
		NomeProjeto:    p.NomeProjeto,
		StatusAnterior: string(before),
		Detalhe:        detail,
	}
	if !res.Deleted {
		e.StatusNovo = string(p.Status)
		if res.Project != nil {
			e.StatusNovo = string(res.Project.Status)
		}
	}
	return r.Audit.CreateAuditLog(e)
}

type AuditService struct {
	Repos *repository.Repos
	log   *zap.Logger
}

func NewAuditService(repos *repository.Repos, log *zap.Logger) *AuditService {
	return &AuditService{
		Repos: repos,
		log:   log,
	}
}

func (s *AuditService) QueryAuditLogs(params repository.AuditQueryParams) ([]audit.Entry, error) {
	logs, err := s.Repos.Audit.GetAuditLogs(params)
	if err != nil {
		return nil, storageErr(err, "")
	}
	if logs == nil {
		logs = []audit.Entry{}
	}
	return logs, nil
}

// CleanupOldLogs drops entries older than the retention window.
func (s *AuditService) CleanupOldLogs(days int) error {
	n, err := s.Repos.Audit.DeleteOldAuditLogs(days)
	if err != nil {
		return storageErr(err, "")
	}
	if n > 0 {
		s.log.Info("audit entries expired", zap.Int64("count", n), zap.Int("retention_days", days))
	}
	return nil
}

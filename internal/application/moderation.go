package application

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sustentai/ods-platform/internal/domain/project"
	"github.com/sustentai/ods-platform/internal/filestore"
	"github.com/sustentai/ods-platform/internal/notify"
	"github.com/sustentai/ods-platform/internal/repository"
	"go.uber.org/zap"
)

// AdminEditInput is an admin's edited payload for edit-and-approve and
// direct updates. Files are new uploads parked by the upload handler.
type AdminEditInput struct {
	Fields       map[string]string
	RemoveLogo   bool
	RemoveOficio bool
	DeleteImages []string
	Files        []filestore.UploadedFile
}

// ModerationService applies admin decisions. Each decision is one
// transaction; destructive file work and email happen after commit.
type ModerationService struct {
	Repos  *repository.Repos
	files  *filestore.Relocator
	notify *notify.Notifier
	log    *zap.Logger
}

func NewModerationService(repos *repository.Repos, files *filestore.Relocator, n *notify.Notifier, log *zap.Logger) *ModerationService {
	return &ModerationService{
		Repos:  repos,
		files:  files,
		notify: n,
		log:    log,
	}
}

type decision func(r *repository.Repos, p *project.Project, fx *effects) (*project.ModerationResult, error)

// decide runs fn and its audit entry in one transaction. detail is stored
// with the entry, the rejection reason for example.
func (s *ModerationService) decide(ctx context.Context, id uint, action, detail string, fn decision) (*project.ModerationResult, error) {
	fx := &effects{}
	var res *project.ModerationResult
	err := s.Repos.ExecTx(func(r *repository.Repos) error {
		p, err := r.Project.GetProjectByID(id)
		if err != nil {
			return notFoundOr(err, ErrProjectNotFound)
		}
		before := p.Status
		if res, err = fn(r, &p, fx); err != nil {
			return err
		}
		return record(ctx, r, action, before, &p, res, detail)
	})
	if err != nil {
		fx.rollback()
		s.log.Warn("moderation decision failed",
			zap.Uint("project_id", id), zap.String("action", action), zap.Error(err))
		return nil, storageErr(err, duplicateProjectMsg)
	}

	fx.commit(ctx, s.files, s.notify)
	s.log.Info("moderation decision applied",
		zap.Uint("project_id", id), zap.String("action", action), zap.Bool("deleted", res.Deleted))
	return res, nil
}

func mailData(p *project.Project, reason string) notify.Data {
	return notify.Data{ProjectID: p.ID, ProjectName: p.NomeProjeto, Reason: reason}
}

func updateRequestOf(p *project.Project) (*project.UpdateRequest, error) {
	pc, err := p.PendingChange()
	if err != nil {
		return nil, &Error{kind: ErrStorage, msg: "pending change is unreadable", cause: err}
	}
	req, ok := pc.(*project.UpdateRequest)
	if !ok {
		return nil, &Error{kind: ErrStorage, msg: fmt.Sprintf("project %d has no pending update", p.ID)}
	}
	return req, nil
}

// reload returns the committed shape of p, images included.
func reload(r *repository.Repos, p *project.Project) (*project.Project, error) {
	fresh, err := r.Project.GetProjectByID(p.ID)
	if err != nil {
		return nil, err
	}
	return &fresh, nil
}

// Approve moves a pending project forward.
func (s *ModerationService) Approve(ctx context.Context, id uint) (*project.ModerationResult, error) {
	return s.decide(ctx, id, string(project.ActionApprove), "", func(r *repository.Repos, p *project.Project, fx *effects) (*project.ModerationResult, error) {
		outcome, err := project.Transition(p.Status, project.ActionApprove)
		if err != nil {
			return nil, illegalState(err)
		}

		switch outcome {
		case project.OutcomeActivate:
			p.Activate()
			if err := r.Project.UpdateProject(p); err != nil {
				return nil, err
			}
			fx.notifyAfter(notify.EventSubmissionApproved, p.EmailContato, mailData(p, ""))
			return &project.ModerationResult{Message: "project approved", Project: p}, nil

		case project.OutcomeMergeEnvelope:
			req, err := updateRequestOf(p)
			if err != nil {
				return nil, err
			}
			fields := project.FilterFields(req.Fields)
			if err := project.ValidateFields(fields, false); err != nil {
				return nil, fieldError(err)
			}
			plan := mergePlan{
				fields:    fields,
				newLogo:   req.NewLogo,
				newOficio: req.NewOficio,
				images:    req.NewImages,
			}
			if err := s.merge(ctx, r, p, plan, fx); err != nil {
				return nil, err
			}
			p.Activate()
			if err := r.Project.UpdateProject(p); err != nil {
				return nil, err
			}
			fresh, err := reload(r, p)
			if err != nil {
				return nil, err
			}
			fx.notifyAfter(notify.EventUpdateApproved, fresh.EmailContato, mailData(fresh, ""))
			return &project.ModerationResult{Message: "update approved", Project: fresh}, nil

		case project.OutcomeDelete:
			if err := s.purge(r, p, fx); err != nil {
				return nil, err
			}
			fx.notifyAfter(notify.EventDeletionApproved, p.EmailContato, mailData(p, ""))
			return &project.ModerationResult{Message: "project deleted", Deleted: true}, nil
		}
		return nil, illegalState(fmt.Errorf("%w: unexpected outcome %d", project.ErrIllegalTransition, outcome))
	})
}

// Reject deletes a new submission or reverts a pending request to ativo.
// The reason goes into the email.
func (s *ModerationService) Reject(ctx context.Context, id uint, reason string) (*project.ModerationResult, error) {
	return s.decide(ctx, id, string(project.ActionReject), reason, func(r *repository.Repos, p *project.Project, fx *effects) (*project.ModerationResult, error) {
		outcome, err := project.Transition(p.Status, project.ActionReject)
		if err != nil {
			return nil, illegalState(err)
		}

		switch outcome {
		case project.OutcomeDelete:
			if err := s.purge(r, p, fx); err != nil {
				return nil, err
			}
			fx.notifyAfter(notify.EventSubmissionRejected, p.EmailContato, mailData(p, reason))
			return &project.ModerationResult{Message: "project rejected and removed", Deleted: true}, nil

		case project.OutcomeRevert:
			event := notify.EventDeletionRejected
			if p.Status == project.StatusPendingUpdate {
				event = notify.EventUpdateRejected
				pc, err := p.PendingChange()
				if err != nil {
					s.log.Warn("discarding unreadable pending change", zap.Uint("project_id", p.ID), zap.Error(err))
				}
				if req, ok := pc.(*project.UpdateRequest); ok {
					fx.deleteLater(unreferenced(req.StagedFiles(), p.ReferencedFiles())...)
				}
			}
			p.RevertToActive()
			if err := r.Project.UpdateProject(p); err != nil {
				return nil, err
			}
			fx.notifyAfter(event, p.EmailContato, mailData(p, reason))
			return &project.ModerationResult{Message: "request rejected", Project: p}, nil
		}
		return nil, illegalState(fmt.Errorf("%w: unexpected outcome %d", project.ErrIllegalTransition, outcome))
	})
}

// EditAndApprove applies the admin's field values, the envelope's files and
// the admin's file removals in one step.
func (s *ModerationService) EditAndApprove(ctx context.Context, id uint, in AdminEditInput) (*project.ModerationResult, error) {
	return s.adminEdit(ctx, id, project.ActionEditAndApprove, in)
}

// AdminDirectUpdate edits a live project in place.
func (s *ModerationService) AdminDirectUpdate(ctx context.Context, id uint, in AdminEditInput) (*project.ModerationResult, error) {
	return s.adminEdit(ctx, id, project.ActionAdminUpdate, in)
}

func (s *ModerationService) adminEdit(ctx context.Context, id uint, action project.Action, in AdminEditInput) (*project.ModerationResult, error) {
	current, err := s.Repos.Project.GetProjectByID(id)
	if err != nil {
		s.files.DiscardTemp(in.Files)
		return nil, notFoundOr(err, ErrProjectNotFound)
	}
	if _, err := project.Transition(current.Status, action); err != nil {
		s.files.DiscardTemp(in.Files)
		return nil, illegalState(err)
	}
	fields := project.FilterFields(in.Fields)
	if err := project.ValidateFields(fields, false); err != nil {
		s.files.DiscardTemp(in.Files)
		return nil, fieldError(err)
	}

	staged, err := s.files.Relocate(ctx, current.Ods, current.NomeProjeto, in.Files)
	if err != nil {
		return nil, &Error{kind: ErrStorage, msg: "failed to store uploaded files", cause: err}
	}

	res, err := s.decide(ctx, id, string(action), strings.Join(project.SortedKeys(fields), ","), func(r *repository.Repos, p *project.Project, fx *effects) (*project.ModerationResult, error) {
		outcome, err := project.Transition(p.Status, action)
		if err != nil {
			return nil, illegalState(err)
		}

		plan := mergePlan{
			fields:       fields,
			newLogo:      firstURL(staged, project.FileFieldLogo),
			newOficio:    firstURL(staged, project.FileFieldOficio),
			addImages:    staged[project.FileFieldImagens],
			removeLogo:   in.RemoveLogo,
			removeOficio: in.RemoveOficio,
			deleteImages: in.DeleteImages,
		}

		event := notify.EventSubmissionApproved
		if p.Status == project.StatusPendingUpdate {
			event = notify.EventUpdateApproved
			req, err := updateRequestOf(p)
			if err != nil {
				return nil, err
			}
			plan.images = req.NewImages
			if plan.newLogo == nil && !plan.removeLogo {
				plan.newLogo = req.NewLogo
			} else {
				fx.deleteLaterPtr(req.NewLogo)
			}
			if plan.newOficio == nil && !plan.removeOficio {
				plan.newOficio = req.NewOficio
			} else {
				fx.deleteLaterPtr(req.NewOficio)
			}
		}

		if err := s.merge(ctx, r, p, plan, fx); err != nil {
			return nil, err
		}

		message := "project updated"
		if outcome == project.OutcomeMergeAdmin {
			p.Activate()
			message = "project edited and approved"
		} else {
			event = ""
		}
		if err := r.Project.UpdateProject(p); err != nil {
			return nil, err
		}
		fresh, err := reload(r, p)
		if err != nil {
			return nil, err
		}
		if event != "" {
			fx.notifyAfter(event, fresh.EmailContato, mailData(fresh, ""))
		}
		return &project.ModerationResult{Message: message, Project: fresh}, nil
	})
	if err != nil {
		s.files.RemoveFiles(ctx, allURLs(staged))
		return nil, err
	}
	return res, nil
}

// AdminDelete removes a project in any status.
func (s *ModerationService) AdminDelete(ctx context.Context, id uint) error {
	_, err := s.decide(ctx, id, "admin-delete", "", func(r *repository.Repos, p *project.Project, fx *effects) (*project.ModerationResult, error) {
		if err := s.purge(r, p, fx); err != nil {
			return nil, err
		}
		return &project.ModerationResult{Message: "project deleted", Deleted: true}, nil
	})
	return err
}

// SetVisibility toggles the ativo flag without touching status.
func (s *ModerationService) SetVisibility(ctx context.Context, id uint, ativo bool) (*project.ModerationResult, error) {
	return s.decide(ctx, id, "set-visibility", strconv.FormatBool(ativo), func(r *repository.Repos, p *project.Project, _ *effects) (*project.ModerationResult, error) {
		p.Ativo = ativo
		if err := r.Project.UpdateProject(p); err != nil {
			return nil, err
		}
		return &project.ModerationResult{Message: "visibility updated", Project: p}, nil
	})
}

// ListPending groups the moderation queue by request kind.
func (s *ModerationService) ListPending() (*project.PendingDTO, error) {
	projects, err := s.Repos.Project.ListByStatus(
		project.StatusPendingApproval,
		project.StatusPendingUpdate,
		project.StatusPendingDeletion,
	)
	if err != nil {
		return nil, storageErr(err, duplicateProjectMsg)
	}

	out := &project.PendingDTO{
		Cadastros:    []project.Project{},
		Atualizacoes: []project.Project{},
		Exclusoes:    []project.Project{},
	}
	for _, p := range projects {
		switch p.Status {
		case project.StatusPendingApproval:
			out.Cadastros = append(out.Cadastros, p)
		case project.StatusPendingUpdate:
			out.Atualizacoes = append(out.Atualizacoes, p)
		case project.StatusPendingDeletion:
			out.Exclusoes = append(out.Exclusoes, p)
		}
	}
	return out, nil
}

// purge deletes the row, its images and reviews; files go after commit.
func (s *ModerationService) purge(r *repository.Repos, p *project.Project, fx *effects) error {
	if err := r.Image.DeleteByProject(p.ID); err != nil {
		return err
	}
	if err := r.Review.DeleteByProject(p.ID); err != nil {
		return err
	}
	if err := r.Project.DeleteProject(p.ID); err != nil {
		return err
	}
	fx.deleteLater(p.ReferencedFiles()...)
	if p.Status == project.StatusPendingUpdate {
		if req, err := updateRequestOf(p); err == nil {
			fx.deleteLater(req.StagedFiles()...)
		}
	}
	// Rows written before the folder check can still share a folder.
	owner, err := folderOwner(r, p.Ods, p.NomeProjeto, p.ID)
	if err != nil {
		return err
	}
	if owner == "" {
		fx.removeDirLater(p.Ods, p.NomeProjeto)
	}
	return nil
}

func unreferenced(keys, live []string) []string {
	keep := make(map[string]struct{}, len(live))
	for _, k := range live {
		keep[k] = struct{}{}
	}
	var out []string
	for _, k := range keys {
		if _, ok := keep[k]; !ok {
			out = append(out, k)
		}
	}
	return out
}

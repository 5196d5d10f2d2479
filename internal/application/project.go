package application

import (
	"context"
	"math"
	"strings"

	"github.com/sustentai/ods-platform/internal/domain/project"
	"github.com/sustentai/ods-platform/internal/filestore"
	"github.com/sustentai/ods-platform/internal/repository"
	"go.uber.org/zap"
)

const duplicateProjectMsg = "a project with this name or contact email already exists"

// SubmitInput is a public form: text fields plus files parked by the upload handler.
type SubmitInput struct {
	Fields map[string]string
	Files  []filestore.UploadedFile
}

type ProjectService struct {
	Repos *repository.Repos
	files *filestore.Relocator
	log   *zap.Logger
}

func NewProjectService(repos *repository.Repos, files *filestore.Relocator, log *zap.Logger) *ProjectService {
	return &ProjectService{
		Repos: repos,
		files: files,
		log:   log,
	}
}

func firstURL(urls map[string][]string, field string) *string {
	if v := urls[field]; len(v) > 0 {
		u := v[0]
		return &u
	}
	return nil
}

func allURLs(urls map[string][]string) []string {
	var out []string
	for _, v := range urls {
		out = append(out, v...)
	}
	return out
}

// checkUnique enforces case-insensitive unique names, unique contact emails
// and one upload folder per project. current is nil for new submissions.
func checkUnique(r *repository.Repos, fields map[string]string, current *project.Project) error {
	var excludeID uint
	ods, name := fields["ods"], fields["nomeProjeto"]
	if current != nil {
		excludeID = current.ID
		if _, ok := fields["ods"]; !ok {
			ods = current.Ods
		}
		if _, ok := fields["nomeProjeto"]; !ok {
			name = current.NomeProjeto
		}
	}

	if n := strings.TrimSpace(fields["nomeProjeto"]); n != "" {
		taken, err := r.Project.NameTaken(n, excludeID)
		if err != nil {
			return storageErr(err, duplicateProjectMsg)
		}
		if taken {
			return validationf("a project named %q already exists", n)
		}
	}
	if email := strings.TrimSpace(fields["emailContato"]); email != "" {
		taken, err := r.Project.EmailTaken(email, excludeID)
		if err != nil {
			return storageErr(err, duplicateProjectMsg)
		}
		if taken {
			return validationf("contact email %q is already used by another project", email)
		}
	}

	_, odsChanged := fields["ods"]
	_, nameChanged := fields["nomeProjeto"]
	if !odsChanged && !nameChanged {
		return nil
	}
	owner, err := folderOwner(r, ods, name, excludeID)
	if err != nil {
		return storageErr(err, duplicateProjectMsg)
	}
	if owner != "" {
		return validationf("project name %q is too close to %q; both would share the same upload folder", name, owner)
	}
	return nil
}

// folderOwner returns the name of another project stored under
// ProjectDir(ods, name), or "" when the folder is free.
func folderOwner(r *repository.Repos, ods, name string, excludeID uint) (string, error) {
	others, err := r.Project.ListIdentities(excludeID)
	if err != nil {
		return "", err
	}
	dir := filestore.ProjectDir(ods, name)
	for _, o := range others {
		if filestore.ProjectDir(o.Ods, o.NomeProjeto) == dir {
			return o.NomeProjeto, nil
		}
	}
	return "", nil
}

// Submit registers a new project awaiting approval.
func (s *ProjectService) Submit(ctx context.Context, in SubmitInput) (*project.Project, error) {
	fields := project.FilterFields(in.Fields)
	if err := project.ValidateFields(fields, true); err != nil {
		s.files.DiscardTemp(in.Files)
		return nil, fieldError(err)
	}
	if err := checkUnique(s.Repos, fields, nil); err != nil {
		s.files.DiscardTemp(in.Files)
		return nil, err
	}

	p := &project.Project{Status: project.StatusPendingApproval}
	if err := project.ApplyFields(p, fields); err != nil {
		s.files.DiscardTemp(in.Files)
		return nil, fieldError(err)
	}

	urls, err := s.files.Relocate(ctx, p.Ods, p.NomeProjeto, in.Files)
	if err != nil {
		return nil, &Error{kind: ErrStorage, msg: "failed to store uploaded files", cause: err}
	}
	p.LogoURL = firstURL(urls, project.FileFieldLogo)
	p.OficioURL = firstURL(urls, project.FileFieldOficio)

	err = s.Repos.ExecTx(func(r *repository.Repos) error {
		if err := r.Project.CreateProject(p); err != nil {
			return err
		}
		return r.Image.CreateImages(p.ID, urls[project.FileFieldImagens])
	})
	if err != nil {
		s.files.RemoveFiles(ctx, allURLs(urls))
		return nil, storageErr(err, duplicateProjectMsg)
	}

	s.log.Info("project submitted", zap.Uint("project_id", p.ID), zap.String("name", p.NomeProjeto))

	created, err := s.Repos.Project.GetProjectByID(p.ID)
	if err != nil {
		return nil, notFoundOr(err, ErrProjectNotFound)
	}
	return &created, nil
}

// RequestUpdate stages a change on a live project. Only values that differ
// from the live record enter the envelope.
func (s *ProjectService) RequestUpdate(ctx context.Context, id uint, in SubmitInput) (*project.Project, error) {
	p, err := s.Repos.Project.GetProjectByID(id)
	if err != nil {
		s.files.DiscardTemp(in.Files)
		return nil, notFoundOr(err, ErrProjectNotFound)
	}
	if _, err := project.Transition(p.Status, project.ActionRequestUpdate); err != nil {
		s.files.DiscardTemp(in.Files)
		return nil, illegalState(err)
	}

	fields := project.FilterFields(in.Fields)
	for key, value := range fields {
		if f, ok := project.LookupField(key); ok && f.Get(&p) == value {
			delete(fields, key)
		}
	}
	if err := project.ValidateFields(fields, false); err != nil {
		s.files.DiscardTemp(in.Files)
		return nil, fieldError(err)
	}
	if len(fields) == 0 && len(in.Files) == 0 {
		return nil, validationf("no changes to submit")
	}
	if err := checkUnique(s.Repos, fields, &p); err != nil {
		s.files.DiscardTemp(in.Files)
		return nil, err
	}

	urls, err := s.files.Relocate(ctx, p.Ods, p.NomeProjeto, in.Files)
	if err != nil {
		return nil, &Error{kind: ErrStorage, msg: "failed to store uploaded files", cause: err}
	}
	req := &project.UpdateRequest{
		Fields:    fields,
		NewLogo:   firstURL(urls, project.FileFieldLogo),
		NewOficio: firstURL(urls, project.FileFieldOficio),
	}
	if imgs := urls[project.FileFieldImagens]; len(imgs) > 0 {
		req.NewImages = imgs
	}

	err = s.Repos.ExecTx(func(r *repository.Repos) error {
		cur, err := r.Project.GetProjectByID(id)
		if err != nil {
			return notFoundOr(err, ErrProjectNotFound)
		}
		if _, err := project.Transition(cur.Status, project.ActionRequestUpdate); err != nil {
			return illegalState(err)
		}
		if err := cur.StageUpdate(req); err != nil {
			return err
		}
		if err := r.Project.UpdateProject(&cur); err != nil {
			return err
		}
		p = cur
		return nil
	})
	if err != nil {
		s.files.RemoveFiles(ctx, req.StagedFiles())
		return nil, storageErr(err, duplicateProjectMsg)
	}

	s.log.Info("project update requested", zap.Uint("project_id", id), zap.Int("fields", len(fields)))
	return &p, nil
}

// RequestDeletion asks the moderators to remove a live project.
func (s *ProjectService) RequestDeletion(ctx context.Context, id uint, reason string) (*project.Project, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, validationf("a reason is required to request deletion")
	}

	var p project.Project
	err := s.Repos.ExecTx(func(r *repository.Repos) error {
		cur, err := r.Project.GetProjectByID(id)
		if err != nil {
			return notFoundOr(err, ErrProjectNotFound)
		}
		if _, err := project.Transition(cur.Status, project.ActionRequestDeletion); err != nil {
			return illegalState(err)
		}
		if err := cur.StageDeletion(reason); err != nil {
			return err
		}
		if err := r.Project.UpdateProject(&cur); err != nil {
			return err
		}
		p = cur
		return nil
	})
	if err != nil {
		return nil, storageErr(err, duplicateProjectMsg)
	}

	s.log.Info("project deletion requested", zap.Uint("project_id", id))
	return &p, nil
}

func (s *ProjectService) ListPublic(filter project.ActiveFilter) ([]project.Project, error) {
	projects, err := s.Repos.Project.ListPublic(filter)
	if err != nil {
		return nil, storageErr(err, duplicateProjectMsg)
	}
	return projects, nil
}

// GetPublic returns a visible project with its average root rating.
func (s *ProjectService) GetPublic(id uint) (*project.DetailDTO, error) {
	p, err := s.Repos.Project.GetProjectByID(id)
	if err != nil {
		return nil, notFoundOr(err, ErrProjectNotFound)
	}
	if !p.IsPubliclyVisible() {
		return nil, ErrProjectNotFound
	}

	summary, err := s.Repos.Review.Summary(id)
	if err != nil {
		return nil, storageErr(err, duplicateProjectMsg)
	}
	return &project.DetailDTO{
		Project:         p,
		Media:           math.Round(summary.Average*10) / 10,
		TotalAvaliacoes: summary.Count,
	}, nil
}

// GetProject returns any project regardless of status.
func (s *ProjectService) GetProject(id uint) (*project.Project, error) {
	p, err := s.Repos.Project.GetProjectByID(id)
	if err != nil {
		return nil, notFoundOr(err, ErrProjectNotFound)
	}
	return &p, nil
}

// ListAllActive returns every project in ativo status, hidden ones included.
func (s *ProjectService) ListAllActive() ([]project.Project, error) {
	projects, err := s.Repos.Project.ListByStatus(project.StatusActive)
	if err != nil {
		return nil, storageErr(err, duplicateProjectMsg)
	}
	return projects, nil
}

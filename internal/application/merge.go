package application

import (
	"context"

	"github.com/sustentai/ods-platform/internal/domain/project"
	"github.com/sustentai/ods-platform/internal/filestore"
	"github.com/sustentai/ods-platform/internal/repository"
)

// mergePlan describes one reconciliation of a live record.
type mergePlan struct {
	fields    map[string]string
	newLogo   *string
	newOficio *string
	// images replaces the whole portfolio when non-nil.
	images       []string
	addImages    []string
	removeLogo   bool
	removeOficio bool
	deleteImages []string
}

// merge applies plan to p and its image rows. Superseded files are scheduled
// on fx; the caller persists p.
func (s *ModerationService) merge(ctx context.Context, r *repository.Repos, p *project.Project, plan mergePlan, fx *effects) error {
	if err := checkUnique(r, plan.fields, p); err != nil {
		return err
	}

	oldOds, oldName := p.Ods, p.NomeProjeto
	if err := project.ApplyFields(p, plan.fields); err != nil {
		return fieldError(err)
	}

	p.LogoURL = swapFile(p.LogoURL, plan.newLogo, plan.removeLogo, fx)
	p.OficioURL = swapFile(p.OficioURL, plan.newOficio, plan.removeOficio, fx)

	if plan.images != nil {
		current, err := r.Image.ListByProject(p.ID)
		if err != nil {
			return err
		}
		urls := make([]string, 0, len(current))
		for _, img := range current {
			urls = append(urls, img.URL)
		}
		fx.deleteLater(unreferenced(urls, plan.images)...)
		if err := r.Image.DeleteByProject(p.ID); err != nil {
			return err
		}
		if err := r.Image.CreateImages(p.ID, plan.images); err != nil {
			return err
		}
	}

	if len(plan.deleteImages) > 0 {
		current, err := r.Image.ListByProject(p.ID)
		if err != nil {
			return err
		}
		wanted := make(map[string]struct{}, len(plan.deleteImages))
		for _, u := range plan.deleteImages {
			wanted[u] = struct{}{}
		}
		var owned []string
		for _, img := range current {
			if _, ok := wanted[img.URL]; ok {
				owned = append(owned, img.URL)
			}
		}
		if err := r.Image.DeleteByURLs(p.ID, owned); err != nil {
			return err
		}
		fx.deleteLater(owned...)
	}

	if err := r.Image.CreateImages(p.ID, plan.addImages); err != nil {
		return err
	}

	current, err := r.Image.ListByProject(p.ID)
	if err != nil {
		return err
	}
	if len(current) > project.MaxImageFiles {
		return validationf("a project may hold at most %d images", project.MaxImageFiles)
	}

	return s.followRename(ctx, r, p, oldOds, oldName, fx)
}

func swapFile(cur, next *string, remove bool, fx *effects) *string {
	switch {
	case next != nil:
		if cur != nil && *cur != *next {
			fx.deleteLater(*cur)
		}
		return next
	case remove:
		fx.deleteLaterPtr(cur)
		return nil
	}
	return cur
}

// followRename moves the project dir after an ODS or name change and
// rewrites every stored key. The move is undone if the transaction fails.
func (s *ModerationService) followRename(ctx context.Context, r *repository.Repos, p *project.Project, oldOds, oldName string, fx *effects) error {
	newOds, newName := p.Ods, p.NomeProjeto
	if !s.files.RenameProjectDir(ctx, oldOds, oldName, newOds, newName) {
		return nil
	}
	fx.onRollback(func() {
		s.files.RenameProjectDir(context.WithoutCancel(ctx), newOds, newName, oldOds, oldName)
	})

	from := filestore.ProjectDir(oldOds, oldName)
	to := filestore.ProjectDir(newOds, newName)
	p.LogoURL = rewritePtr(p.LogoURL, from, to)
	p.OficioURL = rewritePtr(p.OficioURL, from, to)
	fx.rewriteKeys(from, to)
	return r.Image.RewritePrefix(p.ID, from, to)
}

func rewritePtr(key *string, from, to string) *string {
	if key == nil {
		return nil
	}
	v := filestore.RewriteKey(*key, from, to)
	return &v
}

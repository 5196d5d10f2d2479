package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sustentai/ods-platform/internal/domain/review"
	"github.com/sustentai/ods-platform/internal/notify"
	"github.com/sustentai/ods-platform/internal/repository"
	"github.com/sustentai/ods-platform/internal/textfilter"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const duplicateReviewMsg = "this user has already rated this project"

type ReviewService struct {
	Repos  *repository.Repos
	filter *textfilter.Filter
	notify *notify.Notifier
	log    *zap.Logger
}

func NewReviewService(repos *repository.Repos, filter *textfilter.Filter, n *notify.Notifier, log *zap.Logger) *ReviewService {
	return &ReviewService{
		Repos:  repos,
		filter: filter,
		notify: n,
		log:    log,
	}
}

func (s *ReviewService) checkComment(comment string) error {
	if s.filter != nil && s.filter.IsProfane(comment) {
		return validationf("the comment contains inappropriate language")
	}
	if textfilter.ContainsEmoji(comment) {
		return validationf("the comment cannot contain emoji")
	}
	return nil
}

func checkRating(nota *int) error {
	if nota == nil || *nota < review.MinRating || *nota > review.MaxRating {
		return validationf("rating must be between %d and %d", review.MinRating, review.MaxRating)
	}
	return nil
}

// Submit stores a root rating, or an unrated reply when ParentID is set.
func (s *ReviewService) Submit(ctx context.Context, userID uint, in review.CreateReviewDTO) (*review.Review, error) {
	if in.ProjetoID == 0 {
		return nil, validationf("project id is required")
	}
	comment := strings.TrimSpace(in.Comentario)
	if err := s.checkComment(comment); err != nil {
		return nil, err
	}

	p, err := s.Repos.Project.GetProjectByID(in.ProjetoID)
	if err != nil {
		return nil, notFoundOr(err, ErrProjectNotFound)
	}

	rv := &review.Review{
		Comentario: comment,
		UsuarioID:  userID,
		ProjetoID:  in.ProjetoID,
	}

	if in.ParentID != nil {
		parent, err := s.Repos.Review.GetReviewByID(*in.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, validationf("parent review not found")
			}
			return nil, storageErr(err, duplicateReviewMsg)
		}
		if !parent.IsRoot() {
			return nil, validationf("cannot reply to a reply")
		}
		if parent.ProjetoID != in.ProjetoID {
			return nil, validationf("parent review belongs to another project")
		}
		if comment == "" {
			return nil, validationf("a reply needs a comment")
		}
		parentID := parent.ID
		rv.ParentID = &parentID
	} else {
		if err := checkRating(in.Nota); err != nil {
			return nil, err
		}
		_, err := s.Repos.Review.FindRoot(userID, in.ProjetoID)
		switch {
		case err == nil:
			return nil, validationf(duplicateReviewMsg)
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, storageErr(err, duplicateReviewMsg)
		}
		nota := *in.Nota
		rv.Nota = &nota
	}

	if err := s.Repos.Review.CreateReview(rv); err != nil {
		return nil, storageErr(err, duplicateReviewMsg)
	}

	data := notify.Data{ProjectID: p.ID, ProjectName: p.NomeProjeto, Comment: comment, Reply: rv.ParentID != nil}
	if rv.Nota != nil {
		data.Rating = *rv.Nota
	}
	s.notify.Notify(notify.EventNewReview, p.EmailContato, data)

	s.log.Info("review submitted",
		zap.Uint("review_id", rv.ID), zap.Uint("project_id", p.ID), zap.Uint("user_id", userID))
	return rv, nil
}

// Update edits the author's own review. Replies stay unrated.
func (s *ReviewService) Update(ctx context.Context, userID, id uint, in review.UpdateReviewDTO) (*review.Review, error) {
	rv, err := s.Repos.Review.GetReviewByID(id)
	if err != nil {
		return nil, notFoundOr(err, ErrReviewNotFound)
	}
	if rv.UsuarioID != userID {
		return nil, forbidden("you may only edit your own reviews")
	}

	if in.Comentario != nil {
		comment := strings.TrimSpace(*in.Comentario)
		if err := s.checkComment(comment); err != nil {
			return nil, err
		}
		if !rv.IsRoot() && comment == "" {
			return nil, validationf("a reply needs a comment")
		}
		rv.Comentario = comment
	}
	if in.Nota != nil {
		if !rv.IsRoot() {
			return nil, validationf("replies cannot carry a rating")
		}
		if err := checkRating(in.Nota); err != nil {
			return nil, err
		}
		nota := *in.Nota
		rv.Nota = &nota
	}

	if err := s.Repos.Review.UpdateReview(&rv); err != nil {
		return nil, storageErr(err, duplicateReviewMsg)
	}
	return &rv, nil
}

// Delete removes the author's own review; a root takes its replies along.
func (s *ReviewService) Delete(ctx context.Context, userID, id uint) error {
	rv, err := s.Repos.Review.GetReviewByID(id)
	if err != nil {
		return notFoundOr(err, ErrReviewNotFound)
	}
	if rv.UsuarioID != userID {
		return forbidden("you may only delete your own reviews")
	}
	return s.delete(id)
}

// AdminDelete removes any review without an ownership check.
func (s *ReviewService) AdminDelete(ctx context.Context, id uint) error {
	if _, err := s.Repos.Review.GetReviewByID(id); err != nil {
		return notFoundOr(err, ErrReviewNotFound)
	}
	if err := s.delete(id); err != nil {
		return err
	}
	s.log.Info("review removed by admin", zap.Uint("review_id", id))
	return nil
}

func (s *ReviewService) delete(id uint) error {
	err := s.Repos.ExecTx(func(r *repository.Repos) error {
		return r.Review.DeleteReview(id)
	})
	if err != nil {
		return notFoundOr(err, ErrReviewNotFound)
	}
	return nil
}

func (s *ReviewService) ListByProject(projectID uint) ([]review.Review, error) {
	if _, err := s.Repos.Project.GetProjectByID(projectID); err != nil {
		return nil, notFoundOr(err, ErrProjectNotFound)
	}
	reviews, err := s.Repos.Review.ListByProject(projectID)
	if err != nil {
		return nil, storageErr(err, duplicateReviewMsg)
	}
	return reviews, nil
}

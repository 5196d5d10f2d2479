package repository

import (
	"github.com/sustentai/ods-platform/internal/domain/review"
	"gorm.io/gorm"
)

type ReviewRepo interface {
	GetReviewByID(id uint) (review.Review, error)
	FindRoot(userID, projectID uint) (review.Review, error)
	CreateReview(r *review.Review) error
	UpdateReview(r *review.Review) error
	DeleteReview(id uint) error
	DeleteByProject(projectID uint) error
	ListByProject(projectID uint) ([]review.Review, error)
	Summary(projectID uint) (review.Summary, error)
	WithTx(tx *gorm.DB) ReviewRepo
}

type DBReviewRepo struct {
	db *gorm.DB
}

func NewReviewRepo(db *gorm.DB) *DBReviewRepo {
	return &DBReviewRepo{db: db}
}

func (r *DBReviewRepo) GetReviewByID(id uint) (review.Review, error) {
	var rv review.Review
	err := r.db.First(&rv, id).Error
	return rv, err
}

// FindRoot returns the reviewer's top-level rating on a project.
func (r *DBReviewRepo) FindRoot(userID, projectID uint) (review.Review, error) {
	var rv review.Review
	err := r.db.Where("usuario_id = ? AND projeto_id = ? AND parent_id IS NULL", userID, projectID).
		First(&rv).Error
	return rv, err
}

func (r *DBReviewRepo) CreateReview(rv *review.Review) error {
	return r.db.Omit("Respostas").Create(rv).Error
}

func (r *DBReviewRepo) UpdateReview(rv *review.Review) error {
	return r.db.Omit("Respostas").Save(rv).Error
}

// DeleteReview removes the review and, for a root, its replies.
func (r *DBReviewRepo) DeleteReview(id uint) error {
	if err := r.db.Where("parent_id = ?", id).Delete(&review.Review{}).Error; err != nil {
		return err
	}
	res := r.db.Delete(&review.Review{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *DBReviewRepo) DeleteByProject(projectID uint) error {
	return r.db.Where("projeto_id = ?", projectID).Delete(&review.Review{}).Error
}

// ListByProject returns roots newest first, each with replies oldest first.
func (r *DBReviewRepo) ListByProject(projectID uint) ([]review.Review, error) {
	var roots []review.Review
	err := r.db.Preload("Respostas", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC, avaliacoes_id ASC")
	}).
		Where("projeto_id = ? AND parent_id IS NULL", projectID).
		Order("created_at DESC, avaliacoes_id DESC").
		Find(&roots).Error
	return roots, err
}

func (r *DBReviewRepo) Summary(projectID uint) (review.Summary, error) {
	var row struct {
		Average *float64
		Count   int64
	}
	err := r.db.Model(&review.Review{}).
		Select("AVG(nota) AS average, COUNT(*) AS count").
		Where("projeto_id = ? AND parent_id IS NULL AND nota IS NOT NULL", projectID).
		Scan(&row).Error
	if err != nil {
		return review.Summary{}, err
	}
	s := review.Summary{Count: row.Count}
	if row.Average != nil {
		s.Average = *row.Average
	}
	return s, nil
}

func (r *DBReviewRepo) WithTx(tx *gorm.DB) ReviewRepo {
	if tx == nil {
		return r
	}
	return &DBReviewRepo{db: tx}
}

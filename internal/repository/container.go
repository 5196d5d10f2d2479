package repository

import (
	"gorm.io/gorm"
)

type Repos struct {
	Project ProjectRepo
	Image   ImageRepo
	Review  ReviewRepo
	Audit   AuditRepo

	db *gorm.DB
}

func NewRepositories(db *gorm.DB) *Repos {
	return &Repos{
		Project: NewProjectRepo(db),
		Image:   NewImageRepo(db),
		Review:  NewReviewRepo(db),
		Audit:   NewAuditRepo(db),
		db:      db,
	}
}

func (r *Repos) WithTx(tx *gorm.DB) *Repos {
	return &Repos{
		Project: r.Project.WithTx(tx),
		Image:   r.Image.WithTx(tx),
		Review:  r.Review.WithTx(tx),
		Audit:   r.Audit.WithTx(tx),
		db:      tx,
	}
}

// ExecTx runs fn against repositories bound to one transaction.
// Returning an error from fn rolls everything back.
func (r *Repos) ExecTx(fn func(*Repos) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}

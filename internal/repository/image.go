package repository

import (
	"strings"

	"github.com/sustentai/ods-platform/internal/domain/project"
	"gorm.io/gorm"
)

type ImageRepo interface {
	ListByProject(projectID uint) ([]project.Image, error)
	CreateImages(projectID uint, urls []string) error
	DeleteByProject(projectID uint) error
	DeleteByURLs(projectID uint, urls []string) error
	RewritePrefix(projectID uint, from, to string) error
	WithTx(tx *gorm.DB) ImageRepo
}

type DBImageRepo struct {
	db *gorm.DB
}

func NewImageRepo(db *gorm.DB) *DBImageRepo {
	return &DBImageRepo{db: db}
}

func (r *DBImageRepo) ListByProject(projectID uint) ([]project.Image, error) {
	var imgs []project.Image
	err := r.db.Where("projeto_id = ?", projectID).Order("id ASC").Find(&imgs).Error
	return imgs, err
}

// CreateImages bulk-inserts one row per URL in the given order.
func (r *DBImageRepo) CreateImages(projectID uint, urls []string) error {
	if len(urls) == 0 {
		return nil
	}
	imgs := make([]project.Image, 0, len(urls))
	for _, u := range urls {
		imgs = append(imgs, project.Image{URL: u, ProjetoID: projectID})
	}
	return r.db.Create(&imgs).Error
}

func (r *DBImageRepo) DeleteByProject(projectID uint) error {
	return r.db.Where("projeto_id = ?", projectID).Delete(&project.Image{}).Error
}

func (r *DBImageRepo) DeleteByURLs(projectID uint, urls []string) error {
	if len(urls) == 0 {
		return nil
	}
	return r.db.Where("projeto_id = ? AND url IN ?", projectID, urls).Delete(&project.Image{}).Error
}

// RewritePrefix follows a project dir rename for every image row.
func (r *DBImageRepo) RewritePrefix(projectID uint, from, to string) error {
	imgs, err := r.ListByProject(projectID)
	if err != nil {
		return err
	}
	prefix := from + "/"
	for _, img := range imgs {
		if !strings.HasPrefix(img.URL, prefix) {
			continue
		}
		url := to + "/" + strings.TrimPrefix(img.URL, prefix)
		if err := r.db.Model(&project.Image{}).Where("id = ?", img.ID).Update("url", url).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *DBImageRepo) WithTx(tx *gorm.DB) ImageRepo {
	if tx == nil {
		return r
	}
	return &DBImageRepo{db: tx}
}

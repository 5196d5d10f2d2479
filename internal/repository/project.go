package repository

import (
	"strings"

	"github.com/sustentai/ods-platform/internal/domain/project"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProjectRepo interface {
	GetProjectByID(id uint) (project.Project, error)
	NameTaken(name string, excludeID uint) (bool, error)
	EmailTaken(email string, excludeID uint) (bool, error)
	ListIdentities(excludeID uint) ([]project.Project, error)
	CreateProject(p *project.Project) error
	UpdateProject(p *project.Project) error
	DeleteProject(id uint) error
	ListByStatus(statuses ...project.Status) ([]project.Project, error)
	ListPublic(filter project.ActiveFilter) ([]project.Project, error)
	WithTx(tx *gorm.DB) ProjectRepo
}

type DBProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *DBProjectRepo {
	return &DBProjectRepo{
		db: db,
	}
}

func (r *DBProjectRepo) GetProjectByID(id uint) (project.Project, error) {
	var p project.Project
	err := r.db.Preload("Imagens", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).First(&p, id).Error
	return p, err
}

// NameTaken compares names case-insensitively across every status.
func (r *DBProjectRepo) NameTaken(name string, excludeID uint) (bool, error) {
	return r.exists("LOWER(nome_projeto) = ?", strings.ToLower(strings.TrimSpace(name)), excludeID)
}

func (r *DBProjectRepo) EmailTaken(email string, excludeID uint) (bool, error) {
	return r.exists("LOWER(email_contato) = ?", strings.ToLower(strings.TrimSpace(email)), excludeID)
}

// ListIdentities loads only id, ods and name of every other project.
func (r *DBProjectRepo) ListIdentities(excludeID uint) ([]project.Project, error) {
	var projects []project.Project
	q := r.db.Select("projeto_id", "ods", "nome_projeto")
	if excludeID != 0 {
		q = q.Where("projeto_id <> ?", excludeID)
	}
	err := q.Find(&projects).Error
	return projects, err
}

func (r *DBProjectRepo) exists(cond string, value string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.Model(&project.Project{}).Where(cond, value)
	if excludeID != 0 {
		q = q.Where("projeto_id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateProject inserts the row only; images go through ImageRepo.
func (r *DBProjectRepo) CreateProject(p *project.Project) error {
	return r.db.Omit(clause.Associations).Create(p).Error
}

func (r *DBProjectRepo) UpdateProject(p *project.Project) error {
	return r.db.Omit(clause.Associations).Save(p).Error
}

func (r *DBProjectRepo) DeleteProject(id uint) error {
	res := r.db.Delete(&project.Project{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *DBProjectRepo) ListByStatus(statuses ...project.Status) ([]project.Project, error) {
	values := make([]string, 0, len(statuses))
	for _, st := range statuses {
		values = append(values, string(st))
	}
	var projects []project.Project
	err := r.db.Preload("Imagens").
		Where("status IN ?", values).
		Order("created_at ASC").
		Find(&projects).Error
	return projects, err
}

// ListPublic returns live, visible projects. Name matches by substring.
func (r *DBProjectRepo) ListPublic(filter project.ActiveFilter) ([]project.Project, error) {
	var projects []project.Project
	q := r.db.Preload("Imagens").
		Where("status = ? AND ativo = ?", string(project.StatusActive), true)
	if name := strings.TrimSpace(filter.Name); name != "" {
		q = q.Where("LOWER(nome_projeto) LIKE ?", "%"+strings.ToLower(name)+"%")
	}
	if ods := strings.TrimSpace(filter.Ods); ods != "" {
		q = q.Where("ods = ?", ods)
	}
	err := q.Order("nome_projeto ASC").Find(&projects).Error
	return projects, err
}

func (r *DBProjectRepo) WithTx(tx *gorm.DB) ProjectRepo {
	if tx == nil {
		return r
	}
	return &DBProjectRepo{
		db: tx,
	}
}

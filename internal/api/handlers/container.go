package handlers

import (
	"github.com/sustentai/ods-platform/internal/application"
)

type Handlers struct {
	Project *ProjectHandler
	Admin   *AdminHandler
	Review  *ReviewHandler
}

func New(svc *application.Services, uploads *Uploader) *Handlers {
	return &Handlers{
		Project: NewProjectHandler(svc.Project, uploads),
		Admin:   NewAdminHandler(svc, uploads),
		Review:  NewReviewHandler(svc.Review),
	}
}

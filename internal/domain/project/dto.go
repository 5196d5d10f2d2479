package project

type DeletionRequestDTO struct {
	Motivo string `json:"motivo" form:"motivo" binding:"required,max=1000"`
}

type RejectDTO struct {
	Motivo string `json:"motivo" form:"motivo" binding:"omitempty,max=1000"`
}

type VisibilityDTO struct {
	Ativo *bool `json:"ativo" binding:"required"`
}

// PendingDTO groups the moderation queue by kind of request.
type PendingDTO struct {
	Cadastros    []Project `json:"cadastros"`
	Atualizacoes []Project `json:"atualizacoes"`
	Exclusoes    []Project `json:"exclusoes"`
}

// DetailDTO is the public view of one project with its rating summary.
type DetailDTO struct {
	Project
	Media           float64 `json:"media"`
	TotalAvaliacoes int64   `json:"totalAvaliacoes"`
}

// ModerationResult is returned by every admin decision.
type ModerationResult struct {
	Message string   `json:"message"`
	Project *Project `json:"projeto,omitempty"`
	Deleted bool     `json:"-"`
}

type ActiveFilter struct {
	Name string
	Ods  string
}

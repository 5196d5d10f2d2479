package review

type CreateReviewDTO struct {
	ProjetoID  uint   `json:"projetoId" binding:"required"`
	Nota       *int   `json:"nota"`
	Comentario string `json:"comentario" binding:"max=2000"`
	ParentID   *uint  `json:"parent_id"`
}

type UpdateReviewDTO struct {
	Nota       *int    `json:"nota"`
	Comentario *string `json:"comentario" binding:"omitempty,max=2000"`
}

// Summary aggregates the root ratings of one project.
type Summary struct {
	Average float64
	Count   int64
}

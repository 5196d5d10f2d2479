package review

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Review is a rated comment on a project, or an unrated reply to one.
type Review struct {
	ID         uint      `gorm:"primaryKey;column:avaliacoes_id;autoIncrement" json:"avaliacoesId"`
	Comentario string    `gorm:"type:text" json:"comentario"`
	Nota       *int      `json:"nota"`
	UsuarioID  uint      `gorm:"column:usuario_id;not null;index" json:"usuarioId"`
	ProjetoID  uint      `gorm:"column:projeto_id;not null;index" json:"projetoId"`
	ParentID   *uint     `gorm:"column:parent_id;index" json:"parent_id"`
	Respostas  []Review  `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"respostas,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Review) TableName() string {
	return "avaliacoes"
}

// IsRoot reports whether the review is a top-level rating.
func (r *Review) IsRoot() bool {
	return r.ParentID == nil
}

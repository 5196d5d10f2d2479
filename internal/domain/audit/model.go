package audit

import "time"

// Entry records one admin moderation decision. ProjetoID is kept after the
// project itself is deleted.
type Entry struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Actor          string    `gorm:"size:100;not null" json:"ator"`
	Action         string    `gorm:"size:32;not null;index" json:"acao"`
	ProjetoID      uint      `gorm:"column:projeto_id;not null;index" json:"projetoId"`
	NomeProjeto    string    `gorm:"column:nome_projeto;size:255" json:"nomeProjeto"`
	StatusAnterior string    `gorm:"column:status_anterior;size:32" json:"statusAnterior"`
	StatusNovo     string    `gorm:"column:status_novo;size:32" json:"statusNovo"`
	Detalhe        string    `gorm:"type:text" json:"detalhe,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
}

func (Entry) TableName() string {
	return "auditoria_moderacao"
}

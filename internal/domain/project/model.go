package project

import (
	"time"

	"gorm.io/datatypes"
)

// Project is a municipal initiative tied to an ODS category.
type Project struct {
	ID                   uint           `gorm:"primaryKey;column:projeto_id;autoIncrement" json:"projetoId"`
	Ods                  string         `gorm:"size:100" json:"ods"`
	Prefeitura           string         `gorm:"size:100" json:"prefeitura"`
	Secretaria           string         `gorm:"size:255" json:"secretaria"`
	Responsavel          string         `gorm:"size:255" json:"responsavel"`
	NomeProjeto          string         `gorm:"column:nome_projeto;size:255;not null" json:"nomeProjeto"`
	EmailContato         string         `gorm:"column:email_contato;size:255" json:"emailContato"`
	Endereco             string         `gorm:"size:255" json:"endereco"`
	Link                 string         `gorm:"size:255" json:"link"`
	Descricao            string         `gorm:"size:500" json:"descricao"`
	DescricaoDiferencial string         `gorm:"column:descricao_diferencial;size:130" json:"descricaoDiferencial"`
	OdsRelacionadas      string         `gorm:"column:ods_relacionadas;size:255" json:"odsRelacionadas"`
	Website              string         `gorm:"size:255" json:"website"`
	Instagram            string         `gorm:"size:150" json:"instagram"`
	Facebook             string         `gorm:"size:150" json:"facebook"`
	Premiado             bool           `gorm:"default:false" json:"premiado"`
	Escala               string         `gorm:"size:50" json:"escala"`
	ApoioPlanejamento    string         `gorm:"column:apoio_planejamento;type:text" json:"apoioPlanejamento"`
	LogoURL              *string        `gorm:"column:logo_url;type:text" json:"logoUrl"`
	OficioURL            *string        `gorm:"column:oficio_url;type:text" json:"oficioUrl"`
	Ativo                bool           `gorm:"default:false" json:"ativo"`
	Status               Status         `gorm:"size:32;not null;default:'pendente_aprovacao';index" json:"status"`
	DadosAtualizacao     datatypes.JSON `gorm:"column:dados_atualizacao" json:"dados_atualizacao"`
	Imagens              []Image        `gorm:"foreignKey:ProjetoID;constraint:OnDelete:CASCADE" json:"imagens"`
	CreatedAt            time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt            time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the database table name
func (Project) TableName() string {
	return "projeto"
}

// Image is one portfolio picture owned by a project.
type Image struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	URL       string `gorm:"column:url;type:text" json:"url"`
	ProjetoID uint   `gorm:"column:projeto_id;index;not null" json:"projetoId"`
}

func (Image) TableName() string {
	return "imagens_projeto"
}

// ImageURLs lists the portfolio URLs in stored order.
func (p *Project) ImageURLs() []string {
	urls := make([]string, 0, len(p.Imagens))
	for _, img := range p.Imagens {
		urls = append(urls, img.URL)
	}
	return urls
}

// IsPubliclyVisible reports whether anonymous visitors may see the project.
func (p *Project) IsPubliclyVisible() bool {
	return p.Status == StatusActive && p.Ativo
}

package application

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/sustentai/ods-platform/internal/domain/project"
)

var exportHeader = []string{
	"projetoId", "nomeProjeto", "ods", "prefeitura", "secretaria", "responsavel",
	"emailContato", "website", "premiado", "escala", "ativo", "imagens", "createdAt",
}

// ExportCSV writes every ativo-status project as CSV.
func (s *ProjectService) ExportCSV(w io.Writer) error {
	projects, err := s.ListAllActive()
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, p := range projects {
		if err := cw.Write(exportRow(p)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func exportRow(p project.Project) []string {
	return []string{
		strconv.FormatUint(uint64(p.ID), 10),
		p.NomeProjeto,
		p.Ods,
		p.Prefeitura,
		p.Secretaria,
		p.Responsavel,
		p.EmailContato,
		p.Website,
		strconv.FormatBool(p.Premiado),
		p.Escala,
		strconv.FormatBool(p.Ativo),
		strconv.Itoa(len(p.Imagens)),
		p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

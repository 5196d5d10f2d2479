package application_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sustentai/ods-platform/internal/application"
	"github.com/sustentai/ods-platform/internal/domain/project"
	"github.com/sustentai/ods-platform/internal/domain/review"
	"github.com/sustentai/ods-platform/internal/filestore"
)

func TestSubmitStoresPendingProjectWithFiles(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	fields := baseFields("Horta Comunitária")
	fields["status"] = "ativo"
	fields["ativo"] = "true"

	p, err := h.svc.Project.Submit(ctx, application.SubmitInput{
		Fields: fields,
		Files: []filestore.UploadedFile{
			h.park(t, project.FileFieldLogo, "logo.png"),
			h.park(t, project.FileFieldImagens, "a.jpg"),
			h.park(t, project.FileFieldImagens, "b.jpg"),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, project.StatusPendingApproval, p.Status)
	assert.False(t, p.Ativo)
	assert.Empty(t, p.DadosAtualizacao)
	require.NotNil(t, p.LogoURL)
	assert.True(t, strings.HasPrefix(*p.LogoURL, "uploads/ods_2/horta_comunit_ria/logo-"))
	assert.True(t, h.exists(*p.LogoURL))
	require.Len(t, p.Imagens, 2)
	for _, img := range p.Imagens {
		assert.True(t, strings.HasPrefix(img.URL, "uploads/ods_2/horta_comunit_ria/imagens-"))
		assert.True(t, h.exists(img.URL))
	}
	assert.Nil(t, p.OficioURL)
}

func TestSubmitValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	t.Run("missing required field discards uploads", func(t *testing.T) {
		fields := baseFields("Sem ODS")
		delete(fields, "ods")
		upload := h.park(t, project.FileFieldLogo, "logo.png")

		_, err := h.svc.Project.Submit(ctx, application.SubmitInput{Fields: fields, Files: []filestore.UploadedFile{upload}})
		require.ErrorIs(t, err, application.ErrValidation)
		assert.Contains(t, err.Error(), "ods")
		assert.NoFileExists(t, upload.TempPath)
	})

	t.Run("oversized description", func(t *testing.T) {
		fields := baseFields("Texto Longo")
		fields["descricao"] = strings.Repeat("x", 501)
		_, err := h.svc.Project.Submit(ctx, application.SubmitInput{Fields: fields})
		require.ErrorIs(t, err, application.ErrValidation)
		assert.Contains(t, err.Error(), "descricao")
	})

	t.Run("invalid email", func(t *testing.T) {
		fields := baseFields("Email Ruim")
		fields["emailContato"] = "not-an-email"
		_, err := h.svc.Project.Submit(ctx, application.SubmitInput{Fields: fields})
		require.ErrorIs(t, err, application.ErrValidation)
	})

	t.Run("duplicate name ignores case", func(t *testing.T) {
		h.submit(t, "Horta Comunitária")
		fields := baseFields("HORTA COMUNITÁRIA")
		fields["emailContato"] = "outro@sorocaba.gov.br"
		_, err := h.svc.Project.Submit(ctx, application.SubmitInput{Fields: fields})
		require.ErrorIs(t, err, application.ErrValidation)
	})

	t.Run("duplicate email", func(t *testing.T) {
		h.submit(t, "Primeiro")
		fields := baseFields("Segundo")
		fields["emailContato"] = baseFields("Primeiro")["emailContato"]
		_, err := h.svc.Project.Submit(ctx, application.SubmitInput{Fields: fields})
		require.ErrorIs(t, err, application.ErrValidation)
	})
}

func TestSubmitNormalisesTagList(t *testing.T) {
	h := newHarness(t)
	fields := baseFields("Tags")
	fields["apoioPlanejamento"] = " saude , , educacao ,"
	fields["premiado"] = "true"

	p, err := h.svc.Project.Submit(context.Background(), application.SubmitInput{Fields: fields})
	require.NoError(t, err)
	assert.Equal(t, "saude,educacao", p.ApoioPlanejamento)
	assert.True(t, p.Premiado)
}

func TestRequestUpdateStagesOnlyChangedFields(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	live := h.live(t, "Horta Comunitária", h.park(t, project.FileFieldImagens, "old.jpg"))

	fields := baseFields("Horta Comunitária")
	fields["descricao"] = "Nova descrição"
	fields["status"] = "ativo"

	p, err := h.svc.Project.RequestUpdate(ctx, live.ID, application.SubmitInput{
		Fields: fields,
		Files: []filestore.UploadedFile{
			h.park(t, project.FileFieldImagens, "n1.jpg"),
			h.park(t, project.FileFieldImagens, "n2.jpg"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, project.StatusPendingUpdate, p.Status)

	stored := h.reload(t, live.ID)
	assert.Equal(t, "Projeto de agricultura urbana", stored.Descricao)
	assert.True(t, stored.Ativo)

	pc, err := stored.PendingChange()
	require.NoError(t, err)
	req, ok := pc.(*project.UpdateRequest)
	require.True(t, ok)
	assert.Equal(t, map[string]string{"descricao": "Nova descrição"}, req.Fields)
	require.Len(t, req.NewImages, 2)
	for _, u := range req.NewImages {
		assert.True(t, h.exists(u))
	}
}

func TestRequestUpdateRules(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	t.Run("pending project cannot be updated", func(t *testing.T) {
		p := h.submit(t, "Pendente")
		_, err := h.svc.Project.RequestUpdate(ctx, p.ID, application.SubmitInput{
			Fields: map[string]string{"descricao": "x"},
		})
		require.ErrorIs(t, err, application.ErrIllegalState)
	})

	t.Run("no changes", func(t *testing.T) {
		p := h.live(t, "Sem Mudanca")
		_, err := h.svc.Project.RequestUpdate(ctx, p.ID, application.SubmitInput{Fields: baseFields("Sem Mudanca")})
		require.ErrorIs(t, err, application.ErrValidation)
	})

	t.Run("unknown project", func(t *testing.T) {
		_, err := h.svc.Project.RequestUpdate(ctx, 9999, application.SubmitInput{})
		require.ErrorIs(t, err, application.ErrNotFound)
	})

	t.Run("second request while pending", func(t *testing.T) {
		p := h.live(t, "Duas Vezes")
		_, err := h.svc.Project.RequestUpdate(ctx, p.ID, application.SubmitInput{Fields: map[string]string{"descricao": "a"}})
		require.NoError(t, err)
		_, err = h.svc.Project.RequestUpdate(ctx, p.ID, application.SubmitInput{Fields: map[string]string{"descricao": "b"}})
		require.ErrorIs(t, err, application.ErrIllegalState)
	})
}

func TestRequestDeletion(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	p := h.live(t, "Para Excluir")

	_, err := h.svc.Project.RequestDeletion(ctx, p.ID, "  ")
	require.ErrorIs(t, err, application.ErrValidation)

	got, err := h.svc.Project.RequestDeletion(ctx, p.ID, "projeto encerrado")
	require.NoError(t, err)
	assert.Equal(t, project.StatusPendingDeletion, got.Status)

	pending := h.reload(t, p.ID)
	pc, err := pending.PendingChange()
	require.NoError(t, err)
	assert.Equal(t, &project.DeletionRequest{Reason: "projeto encerrado"}, pc)

	_, err = h.svc.Project.RequestDeletion(ctx, p.ID, "de novo")
	require.ErrorIs(t, err, application.ErrIllegalState)
}

func TestPublicQueries(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	horta := h.live(t, "Horta Comunitária")
	h.live(t, "Biblioteca Viva")
	pending := h.submit(t, "Horta Escondida")

	all, err := h.svc.Project.ListPublic(project.ActiveFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Biblioteca Viva", all[0].NomeProjeto)

	found, err := h.svc.Project.ListPublic(project.ActiveFilter{Name: "horta"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, horta.ID, found[0].ID)

	byOds, err := h.svc.Project.ListPublic(project.ActiveFilter{Ods: "ODS 9"})
	require.NoError(t, err)
	assert.Empty(t, byOds)

	_, err = h.svc.Project.GetPublic(pending.ID)
	require.ErrorIs(t, err, application.ErrNotFound)

	_, err = h.svc.Moderation.SetVisibility(ctx, horta.ID, false)
	require.NoError(t, err)
	_, err = h.svc.Project.GetPublic(horta.ID)
	require.ErrorIs(t, err, application.ErrNotFound)

	active, err := h.svc.Project.ListAllActive()
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestGetPublicAverageRating(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	p := h.live(t, "Media")

	for user, nota := range map[uint]int{1: 5, 2: 4, 3: 4} {
		n := nota
		_, err := h.svc.Review.Submit(ctx, user, review.CreateReviewDTO{ProjetoID: p.ID, Nota: &n, Comentario: "bom"})
		require.NoError(t, err)
	}

	detail, err := h.svc.Project.GetPublic(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.3, detail.Media)
	assert.Equal(t, int64(3), detail.TotalAvaliacoes)
}

func TestExportCSV(t *testing.T) {
	h := newHarness(t)
	h.live(t, "Horta Comunitária", h.park(t, project.FileFieldImagens, "a.jpg"))
	h.submit(t, "Ainda Pendente")

	var buf bytes.Buffer
	require.NoError(t, h.svc.Project.ExportCSV(&buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "nomeProjeto", rows[0][1])
	assert.Equal(t, "Horta Comunitária", rows[1][1])
	assert.Equal(t, "1", rows[1][11])
}

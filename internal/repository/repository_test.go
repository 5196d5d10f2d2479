package repository_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sustentai/ods-platform/internal/domain/project"
	"github.com/sustentai/ods-platform/internal/domain/review"
	"github.com/sustentai/ods-platform/internal/repository"
	"github.com/sustentai/ods-platform/internal/testutils"
	"gorm.io/gorm"
)

func intPtr(v int) *int    { return &v }
func uintPtr(v uint) *uint { return &v }

func newProject(t *testing.T, repos *repository.Repos, name, ods string, status project.Status, ativo bool) project.Project {
	t.Helper()
	p := project.Project{
		NomeProjeto:  name,
		Ods:          ods,
		EmailContato: name + "@example.gov.br",
		Status:       status,
		Ativo:        ativo,
	}
	require.NoError(t, repos.Project.CreateProject(&p))
	return p
}

func TestProjectRepo(t *testing.T) {
	repos := repository.NewRepositories(testutils.NewSQLite(t))

	horta := newProject(t, repos, "Horta Comunitaria", "ODS 2", project.StatusActive, true)
	newProject(t, repos, "Horta Escolar", "ODS 4", project.StatusActive, false)
	newProject(t, repos, "Ciclovia", "ODS 11", project.StatusPendingApproval, false)

	t.Run("name and email checks ignore case", func(t *testing.T) {
		taken, err := repos.Project.NameTaken("  horta comunitaria ", 0)
		require.NoError(t, err)
		assert.True(t, taken)

		taken, err = repos.Project.NameTaken("Horta Comunitaria", horta.ID)
		require.NoError(t, err)
		assert.False(t, taken)

		taken, err = repos.Project.EmailTaken("HORTA COMUNITARIA@example.gov.br", 0)
		require.NoError(t, err)
		assert.True(t, taken)
	})

	t.Run("identities cover every status", func(t *testing.T) {
		got, err := repos.Project.ListIdentities(horta.ID)
		require.NoError(t, err)
		require.Len(t, got, 2)
		names := []string{got[0].NomeProjeto, got[1].NomeProjeto}
		assert.ElementsMatch(t, []string{"Horta Escolar", "Ciclovia"}, names)
		for _, p := range got {
			assert.NotZero(t, p.ID)
			assert.NotEmpty(t, p.Ods)
			assert.Empty(t, p.EmailContato)
		}

		all, err := repos.Project.ListIdentities(0)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("public listing hides inactive and pending", func(t *testing.T) {
		got, err := repos.Project.ListPublic(project.ActiveFilter{Name: "horta"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, horta.ID, got[0].ID)

		got, err = repos.Project.ListPublic(project.ActiveFilter{Ods: "ODS 11"})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("list by status", func(t *testing.T) {
		got, err := repos.Project.ListByStatus(project.StatusPendingApproval, project.StatusPendingUpdate)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Ciclovia", got[0].NomeProjeto)
	})

	t.Run("unique name index", func(t *testing.T) {
		dup := project.Project{NomeProjeto: "HORTA COMUNITARIA", Status: project.StatusPendingApproval}
		err := repos.Project.CreateProject(&dup)
		assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey), "got %v", err)
	})

	t.Run("delete missing project", func(t *testing.T) {
		err := repos.Project.DeleteProject(9999)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestImageRepo(t *testing.T) {
	repos := repository.NewRepositories(testutils.NewSQLite(t))
	p := newProject(t, repos, "Parque Linear", "ODS 15", project.StatusActive, true)

	urls := []string{
		"uploads/ods_15/parque_linear/a.jpg",
		"uploads/ods_15/parque_linear/b.jpg",
		"https://cdn.example/elsewhere.jpg",
	}
	require.NoError(t, repos.Image.CreateImages(p.ID, urls))
	require.NoError(t, repos.Image.CreateImages(p.ID, nil))

	require.NoError(t, repos.Image.RewritePrefix(p.ID, "uploads/ods_15/parque_linear", "uploads/ods_15/parque_verde"))
	imgs, err := repos.Image.ListByProject(p.ID)
	require.NoError(t, err)
	require.Len(t, imgs, 3)
	assert.Equal(t, "uploads/ods_15/parque_verde/a.jpg", imgs[0].URL)
	assert.Equal(t, "uploads/ods_15/parque_verde/b.jpg", imgs[1].URL)
	assert.Equal(t, "https://cdn.example/elsewhere.jpg", imgs[2].URL)

	require.NoError(t, repos.Image.DeleteByURLs(p.ID, []string{"uploads/ods_15/parque_verde/a.jpg"}))
	imgs, err = repos.Image.ListByProject(p.ID)
	require.NoError(t, err)
	assert.Len(t, imgs, 2)

	loaded, err := repos.Project.GetProjectByID(p.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Imagens, 2)

	require.NoError(t, repos.Image.DeleteByProject(p.ID))
	imgs, err = repos.Image.ListByProject(p.ID)
	require.NoError(t, err)
	assert.Empty(t, imgs)
}

func TestReviewRepo(t *testing.T) {
	repos := repository.NewRepositories(testutils.NewSQLite(t))
	p := newProject(t, repos, "Coleta Seletiva", "ODS 12", project.StatusActive, true)

	first := review.Review{ProjetoID: p.ID, UsuarioID: 1, Nota: intPtr(5), Comentario: "otimo"}
	second := review.Review{ProjetoID: p.ID, UsuarioID: 2, Nota: intPtr(2)}
	require.NoError(t, repos.Review.CreateReview(&first))
	require.NoError(t, repos.Review.CreateReview(&second))

	reply := review.Review{ProjetoID: p.ID, UsuarioID: 2, ParentID: uintPtr(first.ID), Comentario: "concordo"}
	require.NoError(t, repos.Review.CreateReview(&reply))

	dup := review.Review{ProjetoID: p.ID, UsuarioID: 1, Nota: intPtr(3)}
	assert.ErrorIs(t, repos.Review.CreateReview(&dup), gorm.ErrDuplicatedKey)

	root, err := repos.Review.FindRoot(2, p.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, root.ID)

	sum, err := repos.Review.Summary(p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), sum.Count)
	assert.InDelta(t, 3.5, sum.Average, 0.001)

	roots, err := repos.Review.ListByProject(p.ID)
	require.NoError(t, err)
	require.Len(t, roots, 2)
	var withReply review.Review
	for _, r := range roots {
		if r.ID == first.ID {
			withReply = r
		}
	}
	require.Len(t, withReply.Respostas, 1)
	assert.Equal(t, "concordo", withReply.Respostas[0].Comentario)

	require.NoError(t, repos.Review.DeleteReview(first.ID))
	_, err = repos.Review.GetReviewByID(reply.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, repos.Review.DeleteReview(first.ID), gorm.ErrRecordNotFound)

	require.NoError(t, repos.Review.DeleteByProject(p.ID))
	sum, err = repos.Review.Summary(p.ID)
	require.NoError(t, err)
	assert.Zero(t, sum.Count)
	assert.Zero(t, sum.Average)
}

func TestExecTxRollsBack(t *testing.T) {
	repos := repository.NewRepositories(testutils.NewSQLite(t))
	boom := errors.New("boom")

	err := repos.ExecTx(func(tx *repository.Repos) error {
		p := project.Project{NomeProjeto: "Temporario", Status: project.StatusPendingApproval}
		if err := tx.Project.CreateProject(&p); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	taken, err := repos.Project.NameTaken("Temporario", 0)
	require.NoError(t, err)
	assert.False(t, taken)
}

package project_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sustentai/ods-platform/internal/domain/project"
)

func TestTransitionTable(t *testing.T) {
	legal := []struct {
		from   project.Status
		action project.Action
		want   project.Outcome
	}{
		{project.StatusPendingApproval, project.ActionApprove, project.OutcomeActivate},
		{project.StatusPendingApproval, project.ActionReject, project.OutcomeDelete},
		{project.StatusPendingApproval, project.ActionEditAndApprove, project.OutcomeMergeAdmin},
		{project.StatusActive, project.ActionRequestUpdate, project.OutcomeStageUpdate},
		{project.StatusActive, project.ActionRequestDeletion, project.OutcomeStageDeletion},
		{project.StatusActive, project.ActionAdminUpdate, project.OutcomeApplyDirect},
		{project.StatusPendingUpdate, project.ActionApprove, project.OutcomeMergeEnvelope},
		{project.StatusPendingUpdate, project.ActionReject, project.OutcomeRevert},
		{project.StatusPendingUpdate, project.ActionEditAndApprove, project.OutcomeMergeAdmin},
		{project.StatusPendingDeletion, project.ActionApprove, project.OutcomeDelete},
		{project.StatusPendingDeletion, project.ActionReject, project.OutcomeRevert},
	}
	for _, tc := range legal {
		got, err := project.Transition(tc.from, tc.action)
		require.NoError(t, err, "%s/%s", tc.from, tc.action)
		assert.Equal(t, tc.want, got, "%s/%s", tc.from, tc.action)
	}

	illegal := []struct {
		from   project.Status
		action project.Action
	}{
		{project.StatusActive, project.ActionApprove},
		{project.StatusActive, project.ActionReject},
		{project.StatusPendingApproval, project.ActionRequestUpdate},
		{project.StatusPendingUpdate, project.ActionRequestDeletion},
		{project.StatusPendingDeletion, project.ActionEditAndApprove},
		{project.StatusRejected, project.ActionApprove},
	}
	for _, tc := range illegal {
		_, err := project.Transition(tc.from, tc.action)
		assert.ErrorIs(t, err, project.ErrIllegalTransition, "%s/%s", tc.from, tc.action)
	}
}

func TestEnvelopeIffPending(t *testing.T) {
	p := &project.Project{Status: project.StatusActive}

	require.NoError(t, p.StageUpdate(&project.UpdateRequest{Fields: map[string]string{"descricao": "x"}}))
	assert.Equal(t, project.StatusPendingUpdate, p.Status)
	assert.Equal(t, p.Status.CarriesEnvelope(), len(p.DadosAtualizacao) > 0)

	p.RevertToActive()
	assert.Equal(t, project.StatusActive, p.Status)
	assert.Empty(t, p.DadosAtualizacao)

	require.NoError(t, p.StageDeletion("fim"))
	assert.Equal(t, project.StatusPendingDeletion, p.Status)
	assert.True(t, p.Status.CarriesEnvelope())

	p.Activate()
	assert.True(t, p.Ativo)
	assert.Empty(t, p.DadosAtualizacao)
	assert.False(t, p.Status.IsPending())
}

func TestRevertKeepsVisibility(t *testing.T) {
	p := &project.Project{Status: project.StatusActive, Ativo: false}
	require.NoError(t, p.StageDeletion("fim"))
	p.RevertToActive()
	assert.False(t, p.Ativo)
}

func TestPendingChangeMustMatchStatus(t *testing.T) {
	p := &project.Project{Status: project.StatusActive}
	require.NoError(t, p.StageDeletion("fim"))

	pc, err := p.PendingChange()
	require.NoError(t, err)
	assert.Equal(t, project.ChangeKindDeletion, pc.Kind())

	p.Status = project.StatusPendingUpdate
	_, err = p.PendingChange()
	assert.Error(t, err)

	p.DadosAtualizacao = nil
	pc, err = p.PendingChange()
	require.NoError(t, err)
	assert.Nil(t, pc)
}

func TestVisibilityAndFiles(t *testing.T) {
	logo := "uploads/a/b/logo.png"
	p := project.Project{
		Status:  project.StatusActive,
		Ativo:   true,
		LogoURL: &logo,
		Imagens: []project.Image{{URL: "uploads/a/b/1.jpg"}, {URL: "uploads/a/b/2.jpg"}},
	}
	assert.True(t, p.IsPubliclyVisible())
	assert.Equal(t, []string{logo, "uploads/a/b/1.jpg", "uploads/a/b/2.jpg"}, p.ReferencedFiles())

	p.Ativo = false
	assert.False(t, p.IsPubliclyVisible())

	assert.Equal(t, 5, project.FileFieldLimit(project.FileFieldImagens))
	assert.Equal(t, 1, project.FileFieldLimit(project.FileFieldOficio))
	assert.Zero(t, project.FileFieldLimit("avatar"))
}

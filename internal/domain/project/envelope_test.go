package project_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sustentai/ods-platform/internal/domain/project"
	"gorm.io/datatypes"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	logo := "uploads/ods_2/horta/logo-1.png"
	in := &project.UpdateRequest{
		Fields:    map[string]string{"descricao": "nova"},
		NewLogo:   &logo,
		NewImages: []string{"uploads/ods_2/horta/imagens-1.jpg"},
	}

	raw, err := project.EncodePendingChange(in)
	require.NoError(t, err)

	var shape map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &shape))
	assert.JSONEq(t, `"atualizacao"`, string(shape["tipo"]))
	assert.Contains(t, string(shape["dados"]), `"campos"`)

	out, err := project.DecodePendingChange(raw)
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.Equal(t, []string{logo, "uploads/ods_2/horta/imagens-1.jpg"}, out.(*project.UpdateRequest).StagedFiles())
}

func TestEnvelopeKeepsImagesNilWhenAbsent(t *testing.T) {
	raw, err := project.EncodePendingChange(&project.UpdateRequest{Fields: map[string]string{"link": "x"}})
	require.NoError(t, err)

	out, err := project.DecodePendingChange(raw)
	require.NoError(t, err)
	assert.Nil(t, out.(*project.UpdateRequest).NewImages)
}

func TestDecodeRejectsMalformedEnvelopes(t *testing.T) {
	for _, raw := range []string{
		`not json`,
		`{"tipo":"outro","dados":{}}`,
		`{"tipo":"exclusao","dados":"texto"}`,
	} {
		_, err := project.DecodePendingChange(datatypes.JSON(raw))
		assert.ErrorIs(t, err, project.ErrMalformedEnvelope, raw)
	}
}

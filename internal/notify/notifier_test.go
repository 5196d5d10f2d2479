package notify_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sustentai/ods-platform/internal/notify"
	"github.com/sustentai/ods-platform/internal/notify/mock"
	"go.uber.org/zap"
)

func TestRenderIncludesReason(t *testing.T) {
	n, err := notify.New(notify.NewLogSender(zap.NewNop()), zap.NewNop())
	require.NoError(t, err)

	msg, err := n.Render(notify.EventDeletionRejected, "a@b.com", notify.Data{
		ProjectName: "Horta <Comunitária>",
		Reason:      "dados incompletos",
	})
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", msg.To)
	assert.Contains(t, msg.HTML, "dados incompletos")
	assert.Contains(t, msg.HTML, "Horta &lt;Comunitária&gt;")
	assert.NotEmpty(t, msg.Subject)
}

func TestNotifySyncDelivers(t *testing.T) {
	ctrl := gomock.NewController(t)
	sender := mock.NewMockSender(ctrl)
	n, err := notify.New(sender, zap.NewNop(), notify.WithSync())
	require.NoError(t, err)

	sender.EXPECT().Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg notify.Message) error {
			assert.Equal(t, "contato@prefeitura.gov.br", msg.To)
			assert.Contains(t, msg.HTML, "Horta")
			return nil
		})

	n.Notify(notify.EventSubmissionApproved, " contato@prefeitura.gov.br ", notify.Data{ProjectName: "Horta"})
}

func TestNotifyFailureIsSwallowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	sender := mock.NewMockSender(ctrl)
	n, err := notify.New(sender, zap.NewNop())
	require.NoError(t, err)

	sender.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("smtp down"))

	n.Notify(notify.EventUpdateApproved, "x@y.com", notify.Data{ProjectName: "P"})
	n.Wait()
}

func TestNotifySkipsEmptyRecipient(t *testing.T) {
	ctrl := gomock.NewController(t)
	sender := mock.NewMockSender(ctrl)
	n, err := notify.New(sender, zap.NewNop(), notify.WithSync())
	require.NoError(t, err)

	n.Notify(notify.EventNewReview, "", notify.Data{ProjectName: "P"})
}

package service

import (
	"context"
	"strings"
	"testing"

	"alumnet/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageService_Send(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	tests := []struct {
		name     string
		receiver uint
		content  string
		code     string
	}{
		{name: "self", receiver: 1, content: "hi", code: models.CodeInvalidArgument},
		{name: "empty", receiver: 2, content: "  ", code: models.CodeInvalidArgument},
		{name: "too long", receiver: 2, content: strings.Repeat("x", 5001), code: models.CodeInvalidArgument},
		{name: "unknown receiver", receiver: 404, content: "hi", code: models.CodeNotFound},
	}

	users := noopUserRepo()
	users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		if id == 404 {
			return nil, models.NewNotFoundError("User", id)
		}
		return &models.User{ID: id}, nil
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := NewMessageService(noopMessageRepo(), users, nil)
			_, err := svc.Send(ctx, 1, tt.receiver, tt.content)
			assertCode(t, err, tt.code)
		})
	}

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		svc := NewMessageService(noopMessageRepo(), users, nil)
		msg, err := svc.Send(ctx, 1, 2, " hello ")
		require.NoError(t, err)
		assert.Equal(t, "hello", msg.Content)
		assert.False(t, msg.IsRead)
	})
}

func TestMessageService_Thread(t *testing.T) {
	t.Parallel()

	repo := noopMessageRepo()
	repo.threadFn = func(_ context.Context, userID, otherID uint, limit, offset int) ([]models.Message, int64, error) {
		assert.Equal(t, uint(1), userID)
		assert.Equal(t, uint(2), otherID)
		return []models.Message{{ID: 3}, {ID: 2}, {ID: 1}}, 3, nil
	}
	var marked [2]uint
	repo.markReadFn = func(_ context.Context, receiverID, senderID uint) (int64, error) {
		marked = [2]uint{receiverID, senderID}
		return 2, nil
	}
	svc := NewMessageService(repo, noopUserRepo(), nil)

	msgs, total, err := svc.Thread(context.Background(), 1, 2, NewPage(1, 20, DefaultPageSize))
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, msgs, 3)
	assert.Equal(t, []uint{1, 2, 3}, []uint{msgs[0].ID, msgs[1].ID, msgs[2].ID})
	assert.Equal(t, [2]uint{1, 2}, marked)
}

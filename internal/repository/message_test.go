package repository

import (
	"context"
	"fmt"
	"testing"

	"alumnet/internal/models"
	"alumnet/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageRepository_Conversations(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	me := testutil.CreateUser(t, db)
	alice := testutil.CreateUser(t, db)
	bob := testutil.CreateUser(t, db)

	send := func(from, to uint, content string) {
		require.NoError(t, repo.Create(ctx, &models.Message{SenderID: from, ReceiverID: to, Content: content}))
	}
	send(alice.ID, me.ID, "hi")
	send(alice.ID, me.ID, "are you there?")
	send(me.ID, bob.ID, "ping")
	send(bob.ID, me.ID, "pong")

	convs, err := repo.Conversations(ctx, me.ID)
	require.NoError(t, err)
	require.Len(t, convs, 2)

	assert.Equal(t, bob.ID, convs[0].User.ID)
	assert.Equal(t, "pong", convs[0].LastMessage)
	assert.Equal(t, int64(1), convs[0].UnreadCount)

	assert.Equal(t, alice.ID, convs[1].User.ID)
	assert.Equal(t, "are you there?", convs[1].LastMessage)
	assert.Equal(t, int64(2), convs[1].UnreadCount)

	empty, err := repo.Conversations(ctx, testutil.CreateUser(t, db).ID)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMessageRepository_ConversationsLoadsOnlyLatestPerPair(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMessageRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "messages" WHERE id IN \(SELECT MAX\(id\) FROM messages\s+WHERE sender_id = \$1 OR receiver_id = \$2\s+GROUP BY CASE WHEN sender_id = \$3 THEN receiver_id ELSE sender_id END\)`).
		WithArgs(7, 7, 7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "sender_id", "receiver_id", "content", "is_read", "created_at"}))

	convs, err := repo.Conversations(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, convs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageRepository_ConversationsLongHistory(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	me := testutil.CreateUser(t, db)
	chatty := testutil.CreateUser(t, db)
	quiet := testutil.CreateUser(t, db)

	require.NoError(t, repo.Create(ctx, &models.Message{SenderID: quiet.ID, ReceiverID: me.ID, Content: "hello", IsRead: true}))
	for i := 0; i < 25; i++ {
		from, to := chatty.ID, me.ID
		if i%2 == 1 {
			from, to = me.ID, chatty.ID
		}
		require.NoError(t, repo.Create(ctx, &models.Message{SenderID: from, ReceiverID: to, Content: fmt.Sprintf("msg %d", i)}))
	}
	// A conversation between two other users is invisible to me.
	require.NoError(t, repo.Create(ctx, &models.Message{SenderID: chatty.ID, ReceiverID: quiet.ID, Content: "aside"}))

	convs, err := repo.Conversations(ctx, me.ID)
	require.NoError(t, err)
	require.Len(t, convs, 2)

	assert.Equal(t, chatty.ID, convs[0].User.ID)
	assert.Equal(t, "msg 24", convs[0].LastMessage)
	assert.Equal(t, int64(13), convs[0].UnreadCount)

	assert.Equal(t, quiet.ID, convs[1].User.ID)
	assert.Equal(t, "hello", convs[1].LastMessage)
	assert.Zero(t, convs[1].UnreadCount)
}

func TestMessageRepository_ThreadAndMarkRead(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	me := testutil.CreateUser(t, db)
	other := testutil.CreateUser(t, db)
	stranger := testutil.CreateUser(t, db)

	for _, m := range []*models.Message{
		{SenderID: other.ID, ReceiverID: me.ID, Content: "one"},
		{SenderID: me.ID, ReceiverID: other.ID, Content: "two"},
		{SenderID: other.ID, ReceiverID: me.ID, Content: "three"},
		{SenderID: stranger.ID, ReceiverID: me.ID, Content: "spam"},
	} {
		require.NoError(t, repo.Create(ctx, m))
	}

	msgs, total, err := repo.Thread(ctx, me.ID, other.ID, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, msgs, 2)
	assert.Equal(t, "three", msgs[0].Content)
	assert.Equal(t, "two", msgs[1].Content)

	marked, err := repo.MarkRead(ctx, me.ID, other.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), marked)

	var unread int64
	require.NoError(t, db.Model(&models.Message{}).Where("receiver_id = ? AND is_read = ?", me.ID, false).Count(&unread).Error)
	assert.Equal(t, int64(1), unread, "messages from other senders stay unread")
}

package repository

import (
	"context"
	"regexp"
	"testing"

	"alumnet/internal/models"
	"alumnet/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionRepository_PairUniqueness(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConnectionRepository(db)
	ctx := context.Background()

	a := testutil.CreateUser(t, db)
	b := testutil.CreateUser(t, db)

	first := &models.Connection{InitiatorID: a.ID, ReceiverID: b.ID, Status: models.ConnectionPending}
	require.NoError(t, repo.Create(ctx, first))

	tests := []struct {
		name      string
		initiator uint
		receiver  uint
	}{
		{"same direction", a.ID, b.ID},
		{"reverse direction", b.ID, a.ID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(ctx, &models.Connection{
				InitiatorID: tt.initiator,
				ReceiverID:  tt.receiver,
				Status:      models.ConnectionPending,
			})
			assert.True(t, models.HasCode(err, models.CodeConflict), "got %v", err)
		})
	}

	var count int64
	require.NoError(t, db.Model(&models.Connection{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	found, err := repo.GetBetween(ctx, b.ID, a.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, first.ID, found.ID)
}

func TestConnectionRepository_RespondIsTerminal(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConnectionRepository(db)
	ctx := context.Background()

	a := testutil.CreateUser(t, db)
	b := testutil.CreateUser(t, db)
	conn := &models.Connection{InitiatorID: a.ID, ReceiverID: b.ID, Status: models.ConnectionPending}
	require.NoError(t, repo.Create(ctx, conn))

	require.NoError(t, repo.Respond(ctx, conn.ID, models.ConnectionAccepted))

	err := repo.Respond(ctx, conn.ID, models.ConnectionRejected)
	assert.True(t, models.HasCode(err, models.CodeInvalidState), "got %v", err)

	stored, err := repo.GetByID(ctx, conn.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionAccepted, stored.Status)

	for _, id := range []uint{a.ID, b.ID} {
		accepted, err := repo.ListAccepted(ctx, id)
		require.NoError(t, err)
		require.Len(t, accepted, 1)
		assert.Equal(t, conn.ID, accepted[0].ID)
	}
}

func TestConnectionRepository_RespondSQL(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewConnectionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "connections" SET "status"=$1,"updated_at"=$2 WHERE`)).
		WithArgs(models.ConnectionAccepted, sqlmock.AnyArg(), 5, models.ConnectionPending).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Respond(context.Background(), 5, models.ConnectionAccepted)
	assert.True(t, models.HasCode(err, models.CodeInvalidState), "got %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConnectionRepository_ListPending(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConnectionRepository(db)
	ctx := context.Background()

	me := testutil.CreateUser(t, db)
	older := testutil.CreateUser(t, db)
	newer := testutil.CreateUser(t, db)
	outgoing := testutil.CreateUser(t, db)

	require.NoError(t, repo.Create(ctx, &models.Connection{InitiatorID: older.ID, ReceiverID: me.ID, Status: models.ConnectionPending}))
	require.NoError(t, repo.Create(ctx, &models.Connection{InitiatorID: newer.ID, ReceiverID: me.ID, Status: models.ConnectionPending}))
	require.NoError(t, repo.Create(ctx, &models.Connection{InitiatorID: me.ID, ReceiverID: outgoing.ID, Status: models.ConnectionPending}))

	pending, err := repo.ListPending(ctx, me.ID)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, newer.ID, pending[0].InitiatorID)
	assert.Equal(t, older.ID, pending[1].InitiatorID)
	assert.Equal(t, newer.ID, pending[0].Initiator.ID)
}

func TestConnectionRepository_Suggest(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConnectionRepository(db)
	ctx := context.Background()

	me := testutil.CreateUser(t, db, testutil.WithProfile("CS", 2020, "Acme", "go"))

	sameBranch := testutil.CreateUser(t, db, testutil.WithProfile("CS", 0, ""))
	sameYear := testutil.CreateUser(t, db, testutil.WithProfile("ME", 2020, ""))
	sameCompany := testutil.CreateUser(t, db, testutil.WithProfile("", 0, "ACME"))
	sameSkill := testutil.CreateUser(t, db, testutil.WithProfile("", 0, "", "Go"))

	testutil.CreateUser(t, db, testutil.WithProfile("ME", 1999, "Other", "cobol"))
	testutil.CreateUser(t, db, testutil.WithProfile("CS", 2020, "Acme"), testutil.Inactive())
	rejectedUser := testutil.CreateUser(t, db, testutil.WithProfile("CS", 2020, "Acme"))
	require.NoError(t, db.Model(rejectedUser).Update("verification_status", models.VerificationRejected).Error)

	linked := testutil.CreateUser(t, db, testutil.WithProfile("CS", 2020, "Acme"))
	require.NoError(t, repo.Create(ctx, &models.Connection{InitiatorID: linked.ID, ReceiverID: me.ID, Status: models.ConnectionRejected}))

	got, err := repo.Suggest(ctx, me, 10)
	require.NoError(t, err)

	ids := make([]uint, 0, len(got))
	for _, u := range got {
		ids = append(ids, u.ID)
	}
	assert.ElementsMatch(t, []uint{sameBranch.ID, sameYear.ID, sameCompany.ID, sameSkill.ID}, ids)

	t.Run("limit", func(t *testing.T) {
		got, err := repo.Suggest(ctx, me, 2)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("no criteria", func(t *testing.T) {
		blank := testutil.CreateUser(t, db)
		got, err := repo.Suggest(ctx, blank, 10)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

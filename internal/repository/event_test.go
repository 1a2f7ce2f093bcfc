package repository

import (
	"context"
	"testing"
	"time"

	"alumnet/internal/models"
	"alumnet/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createEvent(t *testing.T, db *gorm.DB, creatorID uint, date time.Time, maxAttendees *int) *models.Event {
	t.Helper()
	event := &models.Event{
		Title:        "Reunion",
		Description:  "Annual reunion",
		Date:         date,
		Location:     "Main hall",
		MaxAttendees: maxAttendees,
		CreatorID:    creatorID,
	}
	require.NoError(t, NewEventRepository(db).Create(context.Background(), event))
	return event
}

func TestEventRepository_UpsertRSVPIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEventRepository(db)
	ctx := context.Background()

	creator := testutil.CreateUser(t, db, testutil.WithRole(models.RoleTeacher))
	attendee := testutil.CreateUser(t, db)
	event := createEvent(t, db, creator.ID, time.Now().Add(72*time.Hour), nil)

	first, err := repo.UpsertRSVP(ctx, event, attendee.ID, models.RSVPGoing)
	require.NoError(t, err)
	second, err := repo.UpsertRSVP(ctx, event, attendee.ID, models.RSVPGoing)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, models.RSVPGoing, second.Status)

	var count int64
	require.NoError(t, db.Model(&models.EventRSVP{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	changed, err := repo.UpsertRSVP(ctx, event, attendee.ID, models.RSVPMaybe)
	require.NoError(t, err)
	assert.Equal(t, first.ID, changed.ID)
	assert.Equal(t, models.RSVPMaybe, changed.Status)
}

func TestEventRepository_AttendeesAndCounts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEventRepository(db)
	ctx := context.Background()

	creator := testutil.CreateUser(t, db, testutil.WithRole(models.RoleTeacher))
	going := testutil.CreateUser(t, db)
	maybe := testutil.CreateUser(t, db)
	event := createEvent(t, db, creator.ID, time.Now().Add(24*time.Hour), nil)

	_, err := repo.UpsertRSVP(ctx, event, going.ID, models.RSVPGoing)
	require.NoError(t, err)
	_, err = repo.UpsertRSVP(ctx, event, maybe.ID, models.RSVPMaybe)
	require.NoError(t, err)

	attendees, err := repo.ListAttendees(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, attendees, 1)
	assert.Equal(t, going.ID, attendees[0].ID)

	counts, err := repo.GoingCounts(ctx, []uint{event.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[event.ID])

	statuses, err := repo.RSVPStatuses(ctx, maybe.ID, []uint{event.ID})
	require.NoError(t, err)
	assert.Equal(t, models.RSVPMaybe, statuses[event.ID])
}

func TestEventRepository_Capacity(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEventRepository(db)
	ctx := context.Background()

	one := 1
	creator := testutil.CreateUser(t, db, testutil.WithRole(models.RoleTeacher))
	a := testutil.CreateUser(t, db)
	b := testutil.CreateUser(t, db)
	event := createEvent(t, db, creator.ID, time.Now().Add(24*time.Hour), &one)

	_, err := repo.UpsertRSVP(ctx, event, a.ID, models.RSVPGoing)
	require.NoError(t, err)

	_, err = repo.UpsertRSVP(ctx, event, b.ID, models.RSVPGoing)
	assert.True(t, models.HasCode(err, models.CodeInvalidState), "got %v", err)

	// Already counted attendees may repeat their answer.
	_, err = repo.UpsertRSVP(ctx, event, a.ID, models.RSVPGoing)
	assert.NoError(t, err)

	_, err = repo.UpsertRSVP(ctx, event, b.ID, models.RSVPMaybe)
	assert.NoError(t, err)
}

func TestEventRepository_List(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEventRepository(db)
	ctx := context.Background()

	now := time.Now()
	creator := testutil.CreateUser(t, db, testutil.WithRole(models.RoleTeacher))
	past := createEvent(t, db, creator.ID, now.Add(-48*time.Hour), nil)
	later := createEvent(t, db, creator.ID, now.Add(96*time.Hour), nil)
	soon := createEvent(t, db, creator.ID, now.Add(24*time.Hour), nil)
	require.NoError(t, db.Model(soon).Update("branch", "CS").Error)

	all, total, err := repo.List(ctx, EventFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, all, 3)
	assert.Equal(t, []uint{past.ID, soon.ID, later.ID}, []uint{all[0].ID, all[1].ID, all[2].ID})
	assert.Equal(t, creator.ID, all[0].Creator.ID)

	upcoming, total, err := repo.List(ctx, EventFilter{UpcomingAfter: now})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, soon.ID, upcoming[0].ID)

	cs, _, err := repo.List(ctx, EventFilter{Branch: "CS"})
	require.NoError(t, err)
	require.Len(t, cs, 1)
	assert.Equal(t, soon.ID, cs[0].ID)
}

func TestEventRepository_DeleteRemovesRSVPs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewEventRepository(db)
	ctx := context.Background()

	creator := testutil.CreateUser(t, db, testutil.WithRole(models.RoleTeacher))
	event := createEvent(t, db, creator.ID, time.Now().Add(time.Hour), nil)
	_, err := repo.UpsertRSVP(ctx, event, creator.ID, models.RSVPGoing)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, event.ID))

	_, err = repo.GetByID(ctx, event.ID)
	assert.True(t, models.HasCode(err, models.CodeNotFound), "got %v", err)

	var count int64
	require.NoError(t, db.Model(&models.EventRSVP{}).Count(&count).Error)
	assert.Zero(t, count)
}

package repository

import (
	"context"
	"errors"
	"time"

	"alumnet/internal/models"
	"alumnet/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EventFilter narrows an event listing.
type EventFilter struct {
	Branch string
	// UpcomingAfter hides events dated before it when non-zero.
	UpcomingAfter time.Time
	Limit         int
	Offset        int
}

// EventRepository defines persistence for events and their RSVPs.
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id uint) (*models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter EventFilter) ([]models.Event, int64, error)
	GoingCounts(ctx context.Context, eventIDs []uint) (map[uint]int64, error)
	RSVPStatuses(ctx context.Context, userID uint, eventIDs []uint) (map[uint]models.RSVPStatus, error)
	UpsertRSVP(ctx context.Context, event *models.Event, userID uint, status models.RSVPStatus) (*models.EventRSVP, error)
	ListAttendees(ctx context.Context, eventID uint) ([]models.User, error)
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository returns a new EventRepository implementation.
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	if err := r.db.WithContext(ctx).Omit("Creator").Create(event).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).Preload("Creator").First(&event, id).Error; err != nil {
		return nil, notFoundOr(err, "Event", id)
	}
	return &event, nil
}

func (r *eventRepository) Update(ctx context.Context, event *models.Event) error {
	if err := r.db.WithContext(ctx).Model(event).Select(
		"Title", "Description", "Date", "Location", "IsVirtual",
		"MeetingLink", "Image", "MaxAttendees", "Branch",
	).Updates(event).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&models.EventRSVP{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Event{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// List returns events in date order, soonest first.
func (r *eventRepository) List(ctx context.Context, filter EventFilter) ([]models.Event, int64, error) {
	defer observability.TrackQuery("list", "events")()

	q := r.db.WithContext(ctx).Model(&models.Event{})
	if filter.Branch != "" {
		q = q.Where("branch = ?", filter.Branch)
	}
	if !filter.UpcomingAfter.IsZero() {
		q = q.Where("date >= ?", filter.UpcomingAfter)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var events []models.Event
	if err := paginate(q.Preload("Creator").Order("date ASC").Order("id ASC"), filter.Limit, filter.Offset).
		Find(&events).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return events, total, nil
}

func (r *eventRepository) GoingCounts(ctx context.Context, eventIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(eventIDs))
	if len(eventIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		EventID uint
		Count   int64
	}
	if err := r.db.WithContext(ctx).Model(&models.EventRSVP{}).
		Select("event_id, COUNT(*) AS count").
		Where("event_id IN ? AND status = ?", eventIDs, models.RSVPGoing).
		Group("event_id").
		Scan(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, row := range rows {
		counts[row.EventID] = row.Count
	}
	return counts, nil
}

func (r *eventRepository) RSVPStatuses(ctx context.Context, userID uint, eventIDs []uint) (map[uint]models.RSVPStatus, error) {
	statuses := make(map[uint]models.RSVPStatus, len(eventIDs))
	if len(eventIDs) == 0 {
		return statuses, nil
	}

	var rsvps []models.EventRSVP
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND event_id IN ?", userID, eventIDs).
		Find(&rsvps).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, rsvp := range rsvps {
		statuses[rsvp.EventID] = rsvp.Status
	}
	return statuses, nil
}

// UpsertRSVP records userID's answer for event, overwriting any earlier answer.
// A GOING answer is refused with InvalidState once the event is at capacity,
// unless the user was already counted.
func (r *eventRepository) UpsertRSVP(ctx context.Context, event *models.Event, userID uint, status models.RSVPStatus) (*models.EventRSVP, error) {
	var rsvp models.EventRSVP
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if status == models.RSVPGoing && event.MaxAttendees != nil {
			// Serialize capacity checks for this event.
			var locked models.Event
			if err := lockForUpdate(tx).Select("id").First(&locked, event.ID).Error; err != nil {
				return notFoundOr(err, "Event", event.ID)
			}

			var existing models.EventRSVP
			err := tx.Where("event_id = ? AND user_id = ?", event.ID, userID).First(&existing).Error
			alreadyGoing := err == nil && existing.Status == models.RSVPGoing
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewInternalError(err)
			}

			if !alreadyGoing {
				var going int64
				if err := tx.Model(&models.EventRSVP{}).
					Where("event_id = ? AND status = ?", event.ID, models.RSVPGoing).
					Count(&going).Error; err != nil {
					return models.NewInternalError(err)
				}
				if going >= int64(*event.MaxAttendees) {
					return models.NewInvalidStateError("Event is full")
				}
			}
		}

		now := time.Now()
		row := models.EventRSVP{EventID: event.ID, UserID: userID, Status: status}
		if err := tx.Omit("User").Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "event_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"status":     status,
				"updated_at": now,
			}),
		}).Create(&row).Error; err != nil {
			return models.NewInternalError(err)
		}

		if err := tx.Where("event_id = ? AND user_id = ?", event.ID, userID).First(&rsvp).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rsvp, nil
}

// ListAttendees returns the users who answered GOING.
func (r *eventRepository) ListAttendees(ctx context.Context, eventID uint) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Joins("JOIN event_rsvps er ON er.user_id = users.id").
		Where("er.event_id = ? AND er.status = ?", eventID, models.RSVPGoing).
		Preload("Skills").
		Order("er.created_at ASC").
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

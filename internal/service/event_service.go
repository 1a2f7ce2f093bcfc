package service

import (
	"context"
	"strings"
	"time"

	"alumnet/internal/models"
	"alumnet/internal/observability"
	"alumnet/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// EventService manages events and RSVPs.
type EventService struct {
	eventRepo repository.EventRepository
	now       func() time.Time
}

// NewEventService returns a new EventService.
func NewEventService(eventRepo repository.EventRepository) *EventService {
	return &EventService{eventRepo: eventRepo, now: time.Now}
}

// EventInput is the writable part of an event. Nil fields are left unchanged
// on update.
type EventInput struct {
	Title        *string
	Description  *string
	Date         *time.Time
	Location     *string
	IsVirtual    *bool
	MeetingLink  *string
	Image        *string
	MaxAttendees *int
	Branch       *string
}

// EventListInput filters the event listing.
type EventListInput struct {
	Branch   string
	Upcoming bool
	Page     Page
}

func (in EventInput) apply(e *models.Event) error {
	if in.Title != nil {
		e.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		e.Description = strings.TrimSpace(*in.Description)
	}
	if in.Date != nil {
		e.Date = *in.Date
	}
	if in.Location != nil {
		e.Location = strings.TrimSpace(*in.Location)
	}
	if in.IsVirtual != nil {
		e.IsVirtual = *in.IsVirtual
	}
	if in.MeetingLink != nil {
		e.MeetingLink = strings.TrimSpace(*in.MeetingLink)
	}
	if in.Image != nil {
		e.Image = strings.TrimSpace(*in.Image)
	}
	if in.MaxAttendees != nil {
		switch {
		case *in.MaxAttendees < 0:
			return models.NewValidationError("max_attendees must not be negative")
		case *in.MaxAttendees == 0:
			// Zero lifts the cap.
			e.MaxAttendees = nil
		default:
			limit := *in.MaxAttendees
			e.MaxAttendees = &limit
		}
	}
	if in.Branch != nil {
		e.Branch = strings.TrimSpace(*in.Branch)
	}

	if e.Title == "" || e.Description == "" {
		return models.NewValidationError("Title and description are required")
	}
	if e.Date.IsZero() {
		return models.NewValidationError("Event date is required")
	}
	return nil
}

// Create schedules a new event.
func (s *EventService) Create(ctx context.Context, creatorID uint, in EventInput) (*models.Event, error) {
	event := &models.Event{CreatorID: creatorID}
	if err := in.apply(event); err != nil {
		return nil, err
	}
	if event.HasStarted(s.now()) {
		return nil, models.NewValidationError("Event date must be in the future")
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}
	return s.eventRepo.GetByID(ctx, event.ID)
}

// List returns events soonest first, annotated for viewerID.
func (s *EventService) List(ctx context.Context, viewerID uint, in EventListInput) ([]models.EventView, int64, error) {
	filter := repository.EventFilter{
		Branch: strings.TrimSpace(in.Branch),
		Limit:  in.Page.Size,
		Offset: in.Page.Offset(),
	}
	if in.Upcoming {
		filter.UpcomingAfter = s.now()
	}

	events, total, err := s.eventRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	views, err := s.annotate(ctx, viewerID, events)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// Get returns one event annotated for viewerID.
func (s *EventService) Get(ctx context.Context, viewerID, id uint) (*models.EventView, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.annotate(ctx, viewerID, []models.Event{*event})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *EventService) annotate(ctx context.Context, viewerID uint, events []models.Event) ([]models.EventView, error) {
	ids := make([]uint, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}

	counts, err := s.eventRepo.GoingCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	statuses, err := s.eventRepo.RSVPStatuses(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}

	views := make([]models.EventView, 0, len(events))
	for i := range events {
		e := events[i]
		view := models.EventView{
			Event:          e,
			CreatorSummary: e.Creator.Summary(),
			GoingCount:     counts[e.ID],
		}
		if st, ok := statuses[e.ID]; ok {
			view.UserRSVPStatus = &st
		}
		views = append(views, view)
	}
	return views, nil
}

// Update edits an event. Only its creator or an admin may do so.
func (s *EventService) Update(ctx context.Context, actor Actor, id uint, in EventInput) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanModify(event.CreatorID) {
		return nil, models.NewForbiddenError("Access denied. You can only update your own events.")
	}
	if err := in.apply(event); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// Delete removes an event and its RSVPs.
func (s *EventService) Delete(ctx context.Context, actor Actor, id uint) error {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanModify(event.CreatorID) {
		return models.NewForbiddenError("Access denied. You can only delete your own events.")
	}
	return s.eventRepo.Delete(ctx, id)
}

// RSVP records userID's answer. Answering again overwrites the earlier answer.
func (s *EventService) RSVP(ctx context.Context, eventID, userID uint, status models.RSVPStatus) (*models.EventRSVP, error) {
	if !status.Valid() {
		return nil, models.NewValidationError("Status must be one of GOING, MAYBE, NOT_GOING")
	}

	ctx, span := observability.StartSpan(ctx, "event", "rsvp")
	span.AddAttributes(
		attribute.Int64("event.id", int64(eventID)),
		attribute.String("rsvp.status", string(status)),
	)
	var err error
	defer func() { span.End(err) }()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.HasStarted(s.now()) {
		err = models.NewInvalidStateError("Cannot RSVP to past events")
		return nil, err
	}

	rsvp, err := s.eventRepo.UpsertRSVP(ctx, event, userID, status)
	if err != nil {
		return nil, err
	}
	observability.RSVPResponses.WithLabelValues(string(status)).Inc()
	return rsvp, nil
}

// Attendees lists the users going to an event.
func (s *EventService) Attendees(ctx context.Context, eventID uint) ([]models.User, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.eventRepo.ListAttendees(ctx, eventID)
}

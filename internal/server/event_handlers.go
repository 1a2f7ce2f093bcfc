package server

import (
	"strings"
	"time"

	"alumnet/internal/middleware"
	"alumnet/internal/models"
	"alumnet/internal/service"

	"github.com/gofiber/fiber/v2"
)

// EventRequest is the body of POST /events and PUT /events/:id. On update,
// omitted fields are left unchanged.
type EventRequest struct {
	Title        *string    `json:"title" validate:"omitempty,max=200"`
	Description  *string    `json:"description"`
	Date         *time.Time `json:"date"`
	Location     *string    `json:"location" validate:"omitempty,max=200"`
	IsVirtual    *bool      `json:"is_virtual"`
	MeetingLink  *string    `json:"meeting_link" validate:"omitempty,url"`
	Image        *string    `json:"image" validate:"omitempty,url"`
	MaxAttendees *int       `json:"max_attendees" validate:"omitempty,min=0"`
	Branch       *string    `json:"branch" validate:"omitempty,max=100"`
}

func (r EventRequest) input() service.EventInput {
	return service.EventInput{
		Title:        r.Title,
		Description:  r.Description,
		Date:         r.Date,
		Location:     r.Location,
		IsVirtual:    r.IsVirtual,
		MeetingLink:  r.MeetingLink,
		Image:        r.Image,
		MaxAttendees: r.MaxAttendees,
		Branch:       r.Branch,
	}
}

// RSVPRequest is the body of POST /events/:id/rsvp.
type RSVPRequest struct {
	Status string `json:"status" validate:"required,rsvp"`
}

// CreateEvent handles POST /api/events
// @Summary Create an event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body EventRequest true "Event"
// @Success 201 {object} models.Envelope{data=models.Event}
// @Failure 400 {object} models.Envelope
// @Failure 403 {object} models.Envelope
// @Router /events [post]
func (s *Server) CreateEvent(c *fiber.Ctx) error {
	var req EventRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	event, err := s.eventService.Create(c.UserContext(), middleware.CurrentUserID(c), req.input())
	if err != nil {
		return respondError(c, err)
	}
	return models.Respond(c, fiber.StatusCreated, "Event created", event)
}

// GetEvents handles GET /api/events
// @Summary List events
// @Description Soonest first, each with the caller's RSVP status and the GOING count.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param branch query string false "Branch filter"
// @Param upcoming query bool false "Only future events"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} models.Envelope
// @Router /events [get]
func (s *Server) GetEvents(c *fiber.Ctx) error {
	in := service.EventListInput{
		Branch:   c.Query("branch"),
		Upcoming: c.QueryBool("upcoming", false),
		Page:     parsePage(c, service.DefaultPageSize),
	}

	events, total, err := s.eventService.List(c.UserContext(), middleware.CurrentUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Events retrieved", newPage(events, in.Page, total))
}

// GetEvent handles GET /api/events/:id
// @Summary Get an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} models.Envelope{data=models.EventView}
// @Failure 404 {object} models.Envelope
// @Router /events/{id} [get]
func (s *Server) GetEvent(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	event, err := s.eventService.Get(c.UserContext(), middleware.CurrentUserID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Event retrieved", event)
}

// UpdateEvent handles PUT /api/events/:id
// @Summary Update an event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param request body EventRequest true "Fields to change"
// @Success 200 {object} models.Envelope{data=models.Event}
// @Failure 403 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Router /events/{id} [put]
func (s *Server) UpdateEvent(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req EventRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	event, err := s.eventService.Update(c.UserContext(), actor(c), id, req.input())
	if err != nil {
		return respondError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Event updated", event)
}

// DeleteEvent handles DELETE /api/events/:id
// @Summary Delete an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} models.Envelope
// @Failure 403 {object} models.Envelope
// @Router /events/{id} [delete]
func (s *Server) DeleteEvent(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.eventService.Delete(c.UserContext(), actor(c), id); err != nil {
		return respondError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Event deleted", nil)
}

// RSVPEvent handles POST /api/events/:id/rsvp
// @Summary RSVP to an event
// @Description Answering again overwrites the previous answer.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param request body RSVPRequest true "GOING, MAYBE or NOT_GOING"
// @Success 200 {object} models.Envelope{data=models.EventRSVP}
// @Failure 400 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Router /events/{id}/rsvp [post]
func (s *Server) RSVPEvent(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req RSVPRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	status := models.RSVPStatus(strings.ToUpper(req.Status))
	rsvp, err := s.eventService.RSVP(c.UserContext(), id, middleware.CurrentUserID(c), status)
	if err != nil {
		return respondError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "RSVP recorded", rsvp)
}

// GetEventAttendees handles GET /api/events/:id/attendees
// @Summary Users going to an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} models.Envelope{data=[]models.UserProfile}
// @Failure 404 {object} models.Envelope
// @Router /events/{id}/attendees [get]
func (s *Server) GetEventAttendees(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	users, err := s.eventService.Attendees(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Attendees retrieved", models.Profiles(users))
}

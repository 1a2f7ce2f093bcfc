package server

import (
	"strings"

	"alumnet/internal/middleware"
	"alumnet/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ConnectionRequest is the body of POST /connections.
type ConnectionRequest struct {
	ReceiverID uint `json:"receiver_id" validate:"required"`
}

// RespondConnectionRequest is the body of PUT /connections/:id/respond.
type RespondConnectionRequest struct {
	Status string `json:"status"`
}

// RequestConnection handles POST /api/connections
// @Summary Send a connection request
// @Tags connections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ConnectionRequest true "Receiver"
// @Success 201 {object} models.Envelope{data=models.Connection}
// @Failure 400 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Router /connections [post]
func (s *Server) RequestConnection(c *fiber.Ctx) error {
	var req ConnectionRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	conn, err := s.connectionService.Request(c.UserContext(), middleware.CurrentUserID(c), req.ReceiverID)
	if err != nil {
		return respondError(c, err)
	}
	return models.Respond(c, fiber.StatusCreated, "Connection request sent", conn)
}

// GetConnections handles GET /api/connections
// @Summary Accepted connections
// @Tags connections
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Envelope{data=[]models.ConnectionView}
// @Router /connections [get]
func (s *Server) GetConnections(c *fiber.Ctx) error {
	views, err := s.connectionService.List(c.UserContext(), middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Connections retrieved", views)
}

// GetPendingConnections handles GET /api/connections/pending
// @Summary Incoming connection requests
// @Tags connections
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Envelope{data=[]models.PendingConnectionView}
// @Router /connections/pending [get]
func (s *Server) GetPendingConnections(c *fiber.Ctx) error {
	views, err := s.connectionService.ListPending(c.UserContext(), middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Pending connection requests retrieved", views)
}

// GetConnectionSuggestions handles GET /api/connections/suggestions
// @Summary People you may know
// @Description Up to ten approved users sharing a branch, graduation year, employer or skill.
// @Tags connections
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Envelope{data=[]models.UserProfile}
// @Router /connections/suggestions [get]
func (s *Server) GetConnectionSuggestions(c *fiber.Ctx) error {
	users, err := s.connectionService.Suggest(c.UserContext(), middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Suggestions retrieved", models.Profiles(users))
}

// RespondConnection handles PUT /api/connections/:id/respond
// @Summary Accept or reject a connection request
// @Tags connections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Connection ID"
// @Param request body RespondConnectionRequest true "ACCEPTED or REJECTED"
// @Success 200 {object} models.Envelope{data=models.Connection}
// @Failure 403 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Router /connections/{id}/respond [put]
func (s *Server) RespondConnection(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req RespondConnectionRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	conn, err := s.connectionService.Respond(c.UserContext(), id, middleware.CurrentUserID(c), req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Connection request "+strings.ToLower(string(conn.Status)), conn)
}

package server

import (
	"alumnet/internal/middleware"
	"alumnet/internal/models"
	"alumnet/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SendMessageRequest is the body of POST /messages.
type SendMessageRequest struct {
	ReceiverID uint   `json:"receiver_id" validate:"required"`
	Content    string `json:"content" validate:"required"`
}

// SendMessage handles POST /api/messages
// @Summary Send a direct message
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SendMessageRequest true "Message"
// @Success 201 {object} models.Envelope{data=models.Message}
// @Failure 400 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Router /messages [post]
func (s *Server) SendMessage(c *fiber.Ctx) error {
	var req SendMessageRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	msg, err := s.messageService.Send(c.UserContext(), middleware.CurrentUserID(c), req.ReceiverID, req.Content)
	if err != nil {
		return respondError(c, err)
	}
	return models.Respond(c, fiber.StatusCreated, "Message sent", msg)
}

// GetConversations handles GET /api/messages/conversations
// @Summary List conversations
// @Description One entry per correspondent with the last message and unread count.
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Envelope{data=[]models.Conversation}
// @Router /messages/conversations [get]
func (s *Server) GetConversations(c *fiber.Ctx) error {
	convs, err := s.messageService.Conversations(c.UserContext(), middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	if convs == nil {
		convs = []models.Conversation{}
	}
	return models.Respond(c, fiber.StatusOK, "Conversations retrieved", convs)
}

// GetThread handles GET /api/messages/with/:userId
// @Summary Message thread with a user
// @Description Oldest first. Messages received from that user are marked read.
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param userId path int true "Other user ID"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Router /messages/with/{userId} [get]
func (s *Server) GetThread(c *fiber.Ctx) error {
	otherID, err := parseID(c, "userId")
	if err != nil {
		return nil
	}
	page := parsePage(c, service.DefaultPageSize)

	msgs, total, err := s.messageService.Thread(c.UserContext(), middleware.CurrentUserID(c), otherID, page)
	if err != nil {
		return respondError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Messages retrieved", newPage(msgs, page, total))
}

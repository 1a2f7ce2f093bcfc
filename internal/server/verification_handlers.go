package server

import (
	"context"

	"alumnet/internal/middleware"
	"alumnet/internal/models"
	"alumnet/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ReviewRequest is the optional body of the approve and reject endpoints.
type ReviewRequest struct {
	Notes string `json:"notes" validate:"max=2000"`
}

// GetPendingVerifications handles GET /api/verification/pending
// @Summary Pending verification requests
// @Description Oldest first, with the applicant's profile.
// @Tags verification
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} models.Envelope
// @Failure 403 {object} models.Envelope
// @Router /verification/pending [get]
func (s *Server) GetPendingVerifications(c *fiber.Ctx) error {
	page := parsePage(c, service.DefaultPageSize)
	reqs, total, err := s.verificationService.ListPending(c.UserContext(), page)
	if err != nil {
		return respondError(c, err)
	}

	views := make([]models.VerificationRequestView, 0, len(reqs))
	for i := range reqs {
		views = append(views, reqs[i].View())
	}
	return models.Respond(c, fiber.StatusOK, "Pending verification requests retrieved", newPage(views, page, total))
}

// GetVerificationStats handles GET /api/verification/stats
// @Summary Verification counts by status
// @Tags verification
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Envelope{data=models.VerificationStats}
// @Router /verification/stats [get]
func (s *Server) GetVerificationStats(c *fiber.Ctx) error {
	stats, err := s.verificationService.Stats(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Verification stats retrieved", stats)
}

// ApproveVerification handles POST /api/verification/:id/approve
// @Summary Approve a verification request
// @Description Marks the request approved and activates the account.
// @Tags verification
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Verification request ID"
// @Param request body ReviewRequest false "Review notes"
// @Success 200 {object} models.Envelope{data=models.VerificationRequestView}
// @Failure 400 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Router /verification/{id}/approve [post]
func (s *Server) ApproveVerification(c *fiber.Ctx) error {
	return s.decideVerification(c, s.verificationService.Approve, "Verification request approved")
}

// RejectVerification handles POST /api/verification/:id/reject
// @Summary Reject a verification request
// @Tags verification
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Verification request ID"
// @Param request body ReviewRequest false "Review notes"
// @Success 200 {object} models.Envelope{data=models.VerificationRequestView}
// @Failure 400 {object} models.Envelope
// @Failure 404 {object} models.Envelope
// @Router /verification/{id}/reject [post]
func (s *Server) RejectVerification(c *fiber.Ctx) error {
	return s.decideVerification(c, s.verificationService.Reject, "Verification request rejected")
}

type decideFunc func(ctx context.Context, requestID, reviewerID uint, notes string) (*models.VerificationRequest, error)

func (s *Server) decideVerification(c *fiber.Ctx, decide decideFunc, msg string) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req ReviewRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return nil
		}
	}

	vr, err := decide(c.UserContext(), id, middleware.CurrentUserID(c), req.Notes)
	if err != nil {
		return respondError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, msg, vr.View())
}

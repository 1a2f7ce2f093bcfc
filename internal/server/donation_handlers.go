package server

import (
	"alumnet/internal/middleware"
	"alumnet/internal/models"
	"alumnet/internal/service"

	"github.com/gofiber/fiber/v2"
)

// DonationRequest is the body of POST /donations. Amount is in minor units.
type DonationRequest struct {
	Amount        int64  `json:"amount" validate:"required,gt=0"`
	PaymentMethod string `json:"payment_method" validate:"required,max=40"`
	Note          string `json:"note" validate:"max=500"`
}

// ExpenseRequest is the body of POST /donations/expenses.
type ExpenseRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Amount      int64  `json:"amount" validate:"required,gt=0"`
}

// Donate handles POST /api/donations
// @Summary Make a donation
// @Description Payment capture is simulated; the donation completes immediately and credits the fund.
// @Tags donations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body DonationRequest true "Donation"
// @Success 201 {object} models.Envelope{data=service.DonationResult}
// @Failure 400 {object} models.Envelope
// @Router /donations [post]
func (s *Server) Donate(c *fiber.Ctx) error {
	var req DonationRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	res, err := s.donationService.Donate(c.UserContext(), middleware.CurrentUserID(c), service.DonationInput{
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Note:          req.Note,
	})
	if err != nil {
		return respondError(c, err)
	}
	return models.Respond(c, fiber.StatusCreated, "Thank you for your donation", res)
}

// GetMyDonations handles GET /api/donations/mine
// @Summary The caller's donations
// @Tags donations
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} models.Envelope
// @Router /donations/mine [get]
func (s *Server) GetMyDonations(c *fiber.Ctx) error {
	page := parsePage(c, service.DefaultPageSize)
	donations, total, err := s.donationService.MyDonations(c.UserContext(), middleware.CurrentUserID(c), page)
	if err != nil {
		return respondError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Donations retrieved", newPage(donations, page, total))
}

// GetFundSummary handles GET /api/donations/funds
// @Summary Fund totals and recent expenses
// @Tags donations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Envelope{data=models.FundSummary}
// @Router /donations/funds [get]
func (s *Server) GetFundSummary(c *fiber.Ctx) error {
	summary, err := s.donationService.FundSummary(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, "Fund summary retrieved", summary)
}

// RecordExpense handles POST /api/donations/expenses
// @Summary Record an expense against the fund
// @Tags donations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ExpenseRequest true "Expense"
// @Success 201 {object} models.Envelope{data=service.ExpenseResult}
// @Failure 400 {object} models.Envelope
// @Failure 403 {object} models.Envelope
// @Router /donations/expenses [post]
func (s *Server) RecordExpense(c *fiber.Ctx) error {
	var req ExpenseRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	res, err := s.donationService.RecordExpense(c.UserContext(), middleware.CurrentUserID(c), service.ExpenseInput{
		Title:       req.Title,
		Description: req.Description,
		Amount:      req.Amount,
	})
	if err != nil {
		return respondError(c, err)
	}
	return models.Respond(c, fiber.StatusCreated, "Expense recorded", res)
}

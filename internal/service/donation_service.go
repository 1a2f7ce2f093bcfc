package service

import (
	"context"
	"log/slog"
	"strings"

	"alumnet/internal/models"
	"alumnet/internal/observability"
	"alumnet/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// DonationService records donations against the alumni fund. Payment capture
// is not integrated; every accepted donation is recorded as COMPLETED.
type DonationService struct {
	repo   repository.DonationRepository
	logger *slog.Logger
}

// NewDonationService returns a new DonationService.
func NewDonationService(repo repository.DonationRepository, logger *slog.Logger) *DonationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DonationService{repo: repo, logger: logger}
}

// DonationInput is a donation request. Amount is in minor currency units.
type DonationInput struct {
	Amount        int64
	PaymentMethod string
	Note          string
}

// DonationResult is the stored donation with the fund after crediting it.
type DonationResult struct {
	Donation *models.Donation `json:"donation"`
	Fund     *models.Fund     `json:"fund"`
}

// Donate records a donation and credits the fund atomically.
func (s *DonationService) Donate(ctx context.Context, donorID uint, in DonationInput) (*DonationResult, error) {
	if in.Amount <= 0 {
		return nil, models.NewValidationError("Donation amount must be greater than zero")
	}
	method := strings.TrimSpace(in.PaymentMethod)
	if method == "" {
		return nil, models.NewValidationError("Payment method is required")
	}

	ctx, span := observability.StartSpan(ctx, "donation", "donate")
	span.AddAttributes(attribute.Int64("donation.amount", in.Amount))

	donation := &models.Donation{
		DonorID:       donorID,
		Amount:        in.Amount,
		PaymentMethod: method,
		Note:          strings.TrimSpace(in.Note),
		Status:        models.DonationCompleted,
	}
	fund, err := s.repo.Donate(ctx, donation)
	span.End(err)
	if err != nil {
		return nil, err
	}

	observability.DonationAmount.Add(float64(in.Amount))
	s.logger.InfoContext(ctx, "donation recorded",
		slog.Uint64("donation_id", uint64(donation.ID)),
		slog.Int64("amount", donation.Amount))
	return &DonationResult{Donation: donation, Fund: fund}, nil
}

// MyDonations lists a donor's donations newest first.
func (s *DonationService) MyDonations(ctx context.Context, donorID uint, page Page) ([]models.Donation, int64, error) {
	return s.repo.ListByDonor(ctx, donorID, page.Size, page.Offset())
}

// FundSummary returns the ledger totals with recent expenses.
func (s *DonationService) FundSummary(ctx context.Context) (*models.FundSummary, error) {
	return s.repo.FundSummary(ctx)
}

// ExpenseInput is money spent out of the fund.
type ExpenseInput struct {
	Title       string
	Description string
	Amount      int64
}

// ExpenseResult is the stored expense with the fund after debiting it.
type ExpenseResult struct {
	Expense *models.Expense `json:"expense"`
	Fund    *models.Fund    `json:"fund"`
}

// RecordExpense debits the fund. Overdrawing is refused.
func (s *DonationService) RecordExpense(ctx context.Context, recorderID uint, in ExpenseInput) (*ExpenseResult, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("Expense title is required")
	}
	if in.Amount <= 0 {
		return nil, models.NewValidationError("Expense amount must be greater than zero")
	}

	expense := &models.Expense{
		Title:        title,
		Description:  strings.TrimSpace(in.Description),
		Amount:       in.Amount,
		RecordedByID: recorderID,
	}
	fund, err := s.repo.RecordExpense(ctx, expense)
	if err != nil {
		return nil, err
	}
	return &ExpenseResult{Expense: expense, Fund: fund}, nil
}

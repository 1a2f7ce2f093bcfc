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

// VerificationService runs the review queue for restricted-role accounts.
type VerificationService struct {
	repo   repository.VerificationRepository
	logger *slog.Logger
}

// NewVerificationService returns a new VerificationService.
func NewVerificationService(repo repository.VerificationRepository, logger *slog.Logger) *VerificationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &VerificationService{repo: repo, logger: logger}
}

// ListPending returns the oldest pending requests first.
func (s *VerificationService) ListPending(ctx context.Context, page Page) ([]models.VerificationRequest, int64, error) {
	return s.repo.ListPending(ctx, page.Size, page.Offset())
}

// Approve accepts the request and activates the account.
func (s *VerificationService) Approve(ctx context.Context, requestID, reviewerID uint, notes string) (*models.VerificationRequest, error) {
	return s.decide(ctx, requestID, reviewerID, models.VerificationApproved, notes)
}

// Reject declines the request. The account stays inactive.
func (s *VerificationService) Reject(ctx context.Context, requestID, reviewerID uint, notes string) (*models.VerificationRequest, error) {
	return s.decide(ctx, requestID, reviewerID, models.VerificationRejected, notes)
}

func (s *VerificationService) decide(ctx context.Context, requestID, reviewerID uint, decision models.VerificationStatus, notes string) (*models.VerificationRequest, error) {
	ctx, span := observability.StartSpan(ctx, "verification", "decide")
	span.AddAttributes(
		attribute.Int64("verification.request_id", int64(requestID)),
		attribute.String("verification.decision", string(decision)),
	)

	var notesPtr *string
	if n := strings.TrimSpace(notes); n != "" {
		notesPtr = &n
	}

	req, err := s.repo.Decide(ctx, requestID, reviewerID, decision, notesPtr)
	span.End(err)
	if err != nil {
		return nil, err
	}

	observability.VerificationDecisions.WithLabelValues(strings.ToLower(string(decision))).Inc()
	s.logger.InfoContext(ctx, "verification decided",
		slog.Uint64("request_id", uint64(requestID)),
		slog.Uint64("subject_id", uint64(req.UserID)),
		slog.Uint64("reviewer_id", uint64(reviewerID)),
		slog.String("decision", string(decision)))
	return req, nil
}

// Stats counts requests per status.
func (s *VerificationService) Stats(ctx context.Context) (*models.VerificationStats, error) {
	return s.repo.Stats(ctx)
}

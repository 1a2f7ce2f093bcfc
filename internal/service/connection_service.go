package service

import (
	"context"
	"strings"

	"alumnet/internal/models"
	"alumnet/internal/observability"
	"alumnet/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// MaxSuggestions caps the connection suggestion list.
const MaxSuggestions = 10

// ConnectionService provides connection-request business logic.
type ConnectionService struct {
	connRepo repository.ConnectionRepository
	userRepo repository.UserRepository
}

// NewConnectionService returns a new ConnectionService.
func NewConnectionService(connRepo repository.ConnectionRepository, userRepo repository.UserRepository) *ConnectionService {
	return &ConnectionService{connRepo: connRepo, userRepo: userRepo}
}

// Request sends a connection request from initiatorID to receiverID.
func (s *ConnectionService) Request(ctx context.Context, initiatorID, receiverID uint) (*models.Connection, error) {
	ctx, span := observability.StartSpan(ctx, "connection", "request")
	span.AddAttributes(attribute.Int64("connection.receiver_id", int64(receiverID)))

	conn, err := s.request(ctx, initiatorID, receiverID)
	span.End(err)
	if err != nil {
		if models.HasCode(err, models.CodeConflict) {
			observability.ConnectionEvents.WithLabelValues("duplicate").Inc()
		}
		return nil, err
	}
	observability.ConnectionEvents.WithLabelValues("requested").Inc()
	return conn, nil
}

func (s *ConnectionService) request(ctx context.Context, initiatorID, receiverID uint) (*models.Connection, error) {
	if initiatorID == receiverID {
		return nil, models.NewValidationError("You cannot send a connection request to yourself")
	}

	if _, err := s.userRepo.GetByID(ctx, receiverID); err != nil {
		return nil, err
	}

	existing, err := s.connRepo.GetBetween(ctx, initiatorID, receiverID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("Connection already exists")
	}

	conn := &models.Connection{
		InitiatorID: initiatorID,
		ReceiverID:  receiverID,
		Status:      models.ConnectionPending,
	}
	// A concurrent request for the same pair loses on the unique index.
	if err := s.connRepo.Create(ctx, conn); err != nil {
		return nil, err
	}
	return conn, nil
}

// ParseConnectionDecision accepts ACCEPTED or REJECTED in any case.
func ParseConnectionDecision(s string) (models.ConnectionStatus, error) {
	switch v := models.ConnectionStatus(strings.ToUpper(strings.TrimSpace(s))); v {
	case models.ConnectionAccepted, models.ConnectionRejected:
		return v, nil
	}
	return "", models.NewValidationError("Status must be ACCEPTED or REJECTED")
}

// Respond answers a pending request. Only the receiver may answer; the
// decision is validated only once the caller is known to be the receiver of
// a pending request.
func (s *ConnectionService) Respond(ctx context.Context, connectionID, responderID uint, decision string) (*models.Connection, error) {
	ctx, span := observability.StartSpan(ctx, "connection", "respond")
	var err error
	defer func() { span.End(err) }()

	conn, err := s.connRepo.GetByID(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	if conn.ReceiverID != responderID {
		err = models.NewForbiddenError("Only the recipient can respond to this connection request")
		return nil, err
	}
	if conn.Status != models.ConnectionPending {
		err = models.NewInvalidStateError("Connection request has already been answered")
		return nil, err
	}
	status, err := ParseConnectionDecision(decision)
	if err != nil {
		return nil, err
	}

	if err = s.connRepo.Respond(ctx, connectionID, status); err != nil {
		return nil, err
	}
	conn.Status = status
	observability.ConnectionEvents.WithLabelValues(strings.ToLower(string(status))).Inc()
	return conn, nil
}

// List returns the caller's accepted connections as seen from their side.
func (s *ConnectionService) List(ctx context.Context, userID uint) ([]models.ConnectionView, error) {
	conns, err := s.connRepo.ListAccepted(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]models.ConnectionView, 0, len(conns))
	for i := range conns {
		c := &conns[i]
		views = append(views, models.ConnectionView{
			ID:             c.ID,
			User:           c.OtherParty(userID).Profile(),
			ConnectedSince: c.UpdatedAt,
		})
	}
	return views, nil
}

// ListPending returns requests awaiting the caller's answer, newest first.
func (s *ConnectionService) ListPending(ctx context.Context, userID uint) ([]models.PendingConnectionView, error) {
	conns, err := s.connRepo.ListPending(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]models.PendingConnectionView, 0, len(conns))
	for i := range conns {
		c := &conns[i]
		views = append(views, models.PendingConnectionView{
			ID:        c.ID,
			Status:    c.Status,
			Initiator: c.Initiator.Profile(),
			CreatedAt: c.CreatedAt,
		})
	}
	return views, nil
}

// Suggest proposes up to MaxSuggestions people the caller may know.
func (s *ConnectionService) Suggest(ctx context.Context, userID uint) ([]models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.connRepo.Suggest(ctx, user, MaxSuggestions)
}

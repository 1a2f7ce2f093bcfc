package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"alumnet/internal/auth"
	"alumnet/internal/models"
	"alumnet/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn                       func(context.Context, uint) (*models.User, error)
	getByEmailFn                    func(context.Context, string) (*models.User, error)
	getByCollegeEmailFn             func(context.Context, string) (*models.User, error)
	createFn                        func(context.Context, *models.User) error
	createWithVerificationRequestFn func(context.Context, *models.User) (*models.VerificationRequest, error)
	updateProfileFn                 func(context.Context, *models.User, []string) error
	listFn                          func(context.Context, repository.UserFilter) ([]models.User, int64, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByCollegeEmail(ctx context.Context, collegeEmail string) (*models.User, error) {
	return s.getByCollegeEmailFn(ctx, collegeEmail)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) CreateWithVerificationRequest(ctx context.Context, user *models.User) (*models.VerificationRequest, error) {
	return s.createWithVerificationRequestFn(ctx, user)
}
func (s *userRepoStub) UpdateProfile(ctx context.Context, user *models.User, skills []string) error {
	return s.updateProfileFn(ctx, user, skills)
}
func (s *userRepoStub) List(ctx context.Context, filter repository.UserFilter) ([]models.User, int64, error) {
	return s.listFn(ctx, filter)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Role: models.RoleAlumni, IsActive: true}, nil
		},
		getByEmailFn:        func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByCollegeEmailFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn: func(_ context.Context, u *models.User) error {
			u.ID = 1
			return nil
		},
		createWithVerificationRequestFn: func(_ context.Context, u *models.User) (*models.VerificationRequest, error) {
			u.ID = 1
			return &models.VerificationRequest{ID: 1, UserID: u.ID, Status: models.VerificationPending}, nil
		},
		updateProfileFn: func(_ context.Context, _ *models.User, _ []string) error { return nil },
		listFn: func(_ context.Context, _ repository.UserFilter) ([]models.User, int64, error) {
			return nil, 0, nil
		},
	}
}

// connRepoStub is a stub for repository.ConnectionRepository.
type connRepoStub struct {
	createFn       func(context.Context, *models.Connection) error
	getByIDFn      func(context.Context, uint) (*models.Connection, error)
	getBetweenFn   func(context.Context, uint, uint) (*models.Connection, error)
	respondFn      func(context.Context, uint, models.ConnectionStatus) error
	listAcceptedFn func(context.Context, uint) ([]models.Connection, error)
	listPendingFn  func(context.Context, uint) ([]models.Connection, error)
	suggestFn      func(context.Context, *models.User, int) ([]models.User, error)
}

func (s *connRepoStub) Create(ctx context.Context, conn *models.Connection) error {
	return s.createFn(ctx, conn)
}
func (s *connRepoStub) GetByID(ctx context.Context, id uint) (*models.Connection, error) {
	return s.getByIDFn(ctx, id)
}
func (s *connRepoStub) GetBetween(ctx context.Context, a, b uint) (*models.Connection, error) {
	return s.getBetweenFn(ctx, a, b)
}
func (s *connRepoStub) Respond(ctx context.Context, id uint, status models.ConnectionStatus) error {
	return s.respondFn(ctx, id, status)
}
func (s *connRepoStub) ListAccepted(ctx context.Context, userID uint) ([]models.Connection, error) {
	return s.listAcceptedFn(ctx, userID)
}
func (s *connRepoStub) ListPending(ctx context.Context, receiverID uint) ([]models.Connection, error) {
	return s.listPendingFn(ctx, receiverID)
}
func (s *connRepoStub) Suggest(ctx context.Context, user *models.User, limit int) ([]models.User, error) {
	return s.suggestFn(ctx, user, limit)
}

func noopConnRepo() *connRepoStub {
	return &connRepoStub{
		createFn:       func(_ context.Context, _ *models.Connection) error { return nil },
		getByIDFn:      func(_ context.Context, id uint) (*models.Connection, error) { return &models.Connection{ID: id}, nil },
		getBetweenFn:   func(_ context.Context, _, _ uint) (*models.Connection, error) { return nil, nil },
		respondFn:      func(_ context.Context, _ uint, _ models.ConnectionStatus) error { return nil },
		listAcceptedFn: func(_ context.Context, _ uint) ([]models.Connection, error) { return nil, nil },
		listPendingFn:  func(_ context.Context, _ uint) ([]models.Connection, error) { return nil, nil },
		suggestFn:      func(_ context.Context, _ *models.User, _ int) ([]models.User, error) { return nil, nil },
	}
}

// verificationRepoStub is a stub for repository.VerificationRepository.
type verificationRepoStub struct {
	listPendingFn func(context.Context, int, int) ([]models.VerificationRequest, int64, error)
	getByIDFn     func(context.Context, uint) (*models.VerificationRequest, error)
	decideFn      func(context.Context, uint, uint, models.VerificationStatus, *string) (*models.VerificationRequest, error)
	statsFn       func(context.Context) (*models.VerificationStats, error)
}

func (s *verificationRepoStub) ListPending(ctx context.Context, limit, offset int) ([]models.VerificationRequest, int64, error) {
	return s.listPendingFn(ctx, limit, offset)
}
func (s *verificationRepoStub) GetByID(ctx context.Context, id uint) (*models.VerificationRequest, error) {
	return s.getByIDFn(ctx, id)
}
func (s *verificationRepoStub) Decide(ctx context.Context, id, reviewerID uint, decision models.VerificationStatus, notes *string) (*models.VerificationRequest, error) {
	return s.decideFn(ctx, id, reviewerID, decision, notes)
}
func (s *verificationRepoStub) Stats(ctx context.Context) (*models.VerificationStats, error) {
	return s.statsFn(ctx)
}

func noopVerificationRepo() *verificationRepoStub {
	return &verificationRepoStub{
		listPendingFn: func(_ context.Context, _, _ int) ([]models.VerificationRequest, int64, error) {
			return nil, 0, nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.VerificationRequest, error) {
			return &models.VerificationRequest{ID: id}, nil
		},
		decideFn: func(_ context.Context, id, reviewerID uint, decision models.VerificationStatus, notes *string) (*models.VerificationRequest, error) {
			return &models.VerificationRequest{ID: id, UserID: 7, Status: decision, ReviewedByUserID: &reviewerID, ReviewNotes: notes}, nil
		},
		statsFn: func(_ context.Context) (*models.VerificationStats, error) { return &models.VerificationStats{}, nil },
	}
}

// eventRepoStub is a stub for repository.EventRepository.
type eventRepoStub struct {
	createFn        func(context.Context, *models.Event) error
	getByIDFn       func(context.Context, uint) (*models.Event, error)
	updateFn        func(context.Context, *models.Event) error
	deleteFn        func(context.Context, uint) error
	listFn          func(context.Context, repository.EventFilter) ([]models.Event, int64, error)
	goingCountsFn   func(context.Context, []uint) (map[uint]int64, error)
	rsvpStatusesFn  func(context.Context, uint, []uint) (map[uint]models.RSVPStatus, error)
	upsertRSVPFn    func(context.Context, *models.Event, uint, models.RSVPStatus) (*models.EventRSVP, error)
	listAttendeesFn func(context.Context, uint) ([]models.User, error)
}

func (s *eventRepoStub) Create(ctx context.Context, e *models.Event) error { return s.createFn(ctx, e) }
func (s *eventRepoStub) GetByID(ctx context.Context, id uint) (*models.Event, error) {
	return s.getByIDFn(ctx, id)
}
func (s *eventRepoStub) Update(ctx context.Context, e *models.Event) error { return s.updateFn(ctx, e) }
func (s *eventRepoStub) Delete(ctx context.Context, id uint) error        { return s.deleteFn(ctx, id) }
func (s *eventRepoStub) List(ctx context.Context, f repository.EventFilter) ([]models.Event, int64, error) {
	return s.listFn(ctx, f)
}
func (s *eventRepoStub) GoingCounts(ctx context.Context, ids []uint) (map[uint]int64, error) {
	return s.goingCountsFn(ctx, ids)
}
func (s *eventRepoStub) RSVPStatuses(ctx context.Context, userID uint, ids []uint) (map[uint]models.RSVPStatus, error) {
	return s.rsvpStatusesFn(ctx, userID, ids)
}
func (s *eventRepoStub) UpsertRSVP(ctx context.Context, e *models.Event, userID uint, status models.RSVPStatus) (*models.EventRSVP, error) {
	return s.upsertRSVPFn(ctx, e, userID, status)
}
func (s *eventRepoStub) ListAttendees(ctx context.Context, eventID uint) ([]models.User, error) {
	return s.listAttendeesFn(ctx, eventID)
}

func noopEventRepo() *eventRepoStub {
	return &eventRepoStub{
		createFn: func(_ context.Context, e *models.Event) error {
			e.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Event, error) {
			return &models.Event{ID: id, Title: "Meetup", Description: "d", Date: time.Now().Add(48 * time.Hour), CreatorID: 1}, nil
		},
		updateFn: func(_ context.Context, _ *models.Event) error { return nil },
		deleteFn: func(_ context.Context, _ uint) error { return nil },
		listFn: func(_ context.Context, _ repository.EventFilter) ([]models.Event, int64, error) {
			return nil, 0, nil
		},
		goingCountsFn: func(_ context.Context, _ []uint) (map[uint]int64, error) { return map[uint]int64{}, nil },
		rsvpStatusesFn: func(_ context.Context, _ uint, _ []uint) (map[uint]models.RSVPStatus, error) {
			return map[uint]models.RSVPStatus{}, nil
		},
		upsertRSVPFn: func(_ context.Context, e *models.Event, userID uint, status models.RSVPStatus) (*models.EventRSVP, error) {
			return &models.EventRSVP{ID: 1, EventID: e.ID, UserID: userID, Status: status}, nil
		},
		listAttendeesFn: func(_ context.Context, _ uint) ([]models.User, error) { return nil, nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn     func(context.Context, *models.Post) error
	getByIDFn    func(context.Context, uint) (*models.Post, error)
	listFn       func(context.Context, repository.PostFilter) ([]models.Post, int64, error)
	updateFn     func(context.Context, *models.Post) error
	deleteFn     func(context.Context, uint) error
	toggleLikeFn func(context.Context, uint, uint) (bool, error)
	isLikedFn    func(context.Context, uint, uint) (bool, error)
}

func (s *postRepoStub) Create(ctx context.Context, p *models.Post) error { return s.createFn(ctx, p) }
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, f repository.PostFilter) ([]models.Post, int64, error) {
	return s.listFn(ctx, f)
}
func (s *postRepoStub) Update(ctx context.Context, p *models.Post) error { return s.updateFn(ctx, p) }
func (s *postRepoStub) Delete(ctx context.Context, id uint) error        { return s.deleteFn(ctx, id) }
func (s *postRepoStub) ToggleLike(ctx context.Context, userID, postID uint) (bool, error) {
	return s.toggleLikeFn(ctx, userID, postID)
}
func (s *postRepoStub) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	return s.isLikedFn(ctx, userID, postID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, p *models.Post) error {
			p.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, Title: "t", Content: "c", IsPublic: true, AuthorID: 1}, nil
		},
		listFn: func(_ context.Context, _ repository.PostFilter) ([]models.Post, int64, error) {
			return nil, 0, nil
		},
		updateFn:     func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:     func(_ context.Context, _ uint) error { return nil },
		toggleLikeFn: func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		isLikedFn:    func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	listByPostFn func(context.Context, uint, int, int) ([]models.Comment, int64, error)
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint, limit, offset int) ([]models.Comment, int64, error) {
	return s.listByPostFn(ctx, postID, limit, offset)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, c *models.Comment) error {
			c.ID = 1
			return nil
		},
		listByPostFn: func(_ context.Context, _ uint, _, _ int) ([]models.Comment, int64, error) {
			return nil, 0, nil
		},
	}
}

// messageRepoStub is a stub for repository.MessageRepository.
type messageRepoStub struct {
	createFn        func(context.Context, *models.Message) error
	conversationsFn func(context.Context, uint) ([]models.Conversation, error)
	threadFn        func(context.Context, uint, uint, int, int) ([]models.Message, int64, error)
	markReadFn      func(context.Context, uint, uint) (int64, error)
}

func (s *messageRepoStub) Create(ctx context.Context, m *models.Message) error {
	return s.createFn(ctx, m)
}
func (s *messageRepoStub) Conversations(ctx context.Context, userID uint) ([]models.Conversation, error) {
	return s.conversationsFn(ctx, userID)
}
func (s *messageRepoStub) Thread(ctx context.Context, userID, otherID uint, limit, offset int) ([]models.Message, int64, error) {
	return s.threadFn(ctx, userID, otherID, limit, offset)
}
func (s *messageRepoStub) MarkRead(ctx context.Context, receiverID, senderID uint) (int64, error) {
	return s.markReadFn(ctx, receiverID, senderID)
}

func noopMessageRepo() *messageRepoStub {
	return &messageRepoStub{
		createFn:        func(_ context.Context, _ *models.Message) error { return nil },
		conversationsFn: func(_ context.Context, _ uint) ([]models.Conversation, error) { return nil, nil },
		threadFn: func(_ context.Context, _, _ uint, _, _ int) ([]models.Message, int64, error) {
			return nil, 0, nil
		},
		markReadFn: func(_ context.Context, _, _ uint) (int64, error) { return 0, nil },
	}
}

// jobRepoStub is a stub for repository.JobRepository.
type jobRepoStub struct {
	createFn            func(context.Context, *models.JobPosting) error
	getByIDFn           func(context.Context, uint) (*models.JobPosting, error)
	updateFn            func(context.Context, *models.JobPosting) error
	deleteFn            func(context.Context, uint) error
	listFn              func(context.Context, repository.JobFilter) ([]models.JobPosting, int64, error)
	categoryCountsFn    func(context.Context, time.Time) ([]models.JobCategoryCount, error)
	deactivateExpiredFn func(context.Context, time.Time) (int64, error)
}

func (s *jobRepoStub) Create(ctx context.Context, j *models.JobPosting) error { return s.createFn(ctx, j) }
func (s *jobRepoStub) GetByID(ctx context.Context, id uint) (*models.JobPosting, error) {
	return s.getByIDFn(ctx, id)
}
func (s *jobRepoStub) Update(ctx context.Context, j *models.JobPosting) error { return s.updateFn(ctx, j) }
func (s *jobRepoStub) Delete(ctx context.Context, id uint) error             { return s.deleteFn(ctx, id) }
func (s *jobRepoStub) List(ctx context.Context, f repository.JobFilter) ([]models.JobPosting, int64, error) {
	return s.listFn(ctx, f)
}
func (s *jobRepoStub) CategoryCounts(ctx context.Context, now time.Time) ([]models.JobCategoryCount, error) {
	return s.categoryCountsFn(ctx, now)
}
func (s *jobRepoStub) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	return s.deactivateExpiredFn(ctx, now)
}

func noopJobRepo() *jobRepoStub {
	return &jobRepoStub{
		createFn: func(_ context.Context, j *models.JobPosting) error {
			j.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.JobPosting, error) {
			return &models.JobPosting{
				ID: id, Title: "Engineer", Description: "d", Company: "Acme",
				EmploymentType: models.EmploymentFullTime, JobCategory: models.JobCategoryEngineering,
				IsActive: true, PosterID: 1,
			}, nil
		},
		updateFn: func(_ context.Context, _ *models.JobPosting) error { return nil },
		deleteFn: func(_ context.Context, _ uint) error { return nil },
		listFn: func(_ context.Context, _ repository.JobFilter) ([]models.JobPosting, int64, error) {
			return nil, 0, nil
		},
		categoryCountsFn:    func(_ context.Context, _ time.Time) ([]models.JobCategoryCount, error) { return nil, nil },
		deactivateExpiredFn: func(_ context.Context, _ time.Time) (int64, error) { return 0, nil },
	}
}

// donationRepoStub is a stub for repository.DonationRepository.
type donationRepoStub struct {
	donateFn        func(context.Context, *models.Donation) (*models.Fund, error)
	listByDonorFn   func(context.Context, uint, int, int) ([]models.Donation, int64, error)
	fundSummaryFn   func(context.Context) (*models.FundSummary, error)
	recordExpenseFn func(context.Context, *models.Expense) (*models.Fund, error)
}

func (s *donationRepoStub) Donate(ctx context.Context, d *models.Donation) (*models.Fund, error) {
	return s.donateFn(ctx, d)
}
func (s *donationRepoStub) ListByDonor(ctx context.Context, donorID uint, limit, offset int) ([]models.Donation, int64, error) {
	return s.listByDonorFn(ctx, donorID, limit, offset)
}
func (s *donationRepoStub) FundSummary(ctx context.Context) (*models.FundSummary, error) {
	return s.fundSummaryFn(ctx)
}
func (s *donationRepoStub) RecordExpense(ctx context.Context, e *models.Expense) (*models.Fund, error) {
	return s.recordExpenseFn(ctx, e)
}

func noopDonationRepo() *donationRepoStub {
	return &donationRepoStub{
		donateFn: func(_ context.Context, d *models.Donation) (*models.Fund, error) {
			d.ID = 1
			return &models.Fund{TotalDonations: d.Amount, AvailableBalance: d.Amount}, nil
		},
		listByDonorFn: func(_ context.Context, _ uint, _, _ int) ([]models.Donation, int64, error) {
			return nil, 0, nil
		},
		fundSummaryFn: func(_ context.Context) (*models.FundSummary, error) { return &models.FundSummary{}, nil },
		recordExpenseFn: func(_ context.Context, _ *models.Expense) (*models.Fund, error) {
			return &models.Fund{}, nil
		},
	}
}

// hasherStub hashes by prefixing, so digests are predictable in tests.
type hasherStub struct {
	compareErr error
}

func (h hasherStub) Hash(plaintext string) (string, error) { return "hashed:" + plaintext, nil }
func (h hasherStub) Compare(digest, plaintext string) (bool, error) {
	if h.compareErr != nil {
		return false, h.compareErr
	}
	return digest == "hashed:"+plaintext, nil
}

// tokenIssuerStub records issued and revoked tokens.
type tokenIssuerStub struct {
	issued  []uint
	revoked []string
	err     error
}

func (s *tokenIssuerStub) Issue(user *models.User) (string, *auth.Claims, error) {
	if s.err != nil {
		return "", nil, s.err
	}
	s.issued = append(s.issued, user.ID)
	return "token-for-" + user.Email, &auth.Claims{UserID: user.ID, Role: user.Role, TokenID: "jti"}, nil
}

func (s *tokenIssuerStub) Revoke(_ context.Context, claims *auth.Claims) error {
	if s.err != nil {
		return s.err
	}
	s.revoked = append(s.revoked, claims.TokenID)
	return nil
}

// assertCode asserts that err is an AppError with the given code.
func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

// assertValidationError asserts that err is an AppError with code INVALID_ARGUMENT.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertCode(t, err, models.CodeInvalidArgument)
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
func intPtr(i int) *int       { return &i }

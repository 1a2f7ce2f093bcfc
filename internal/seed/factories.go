// Package seed provides helpers to create demo data for the alumni network.
// These helpers are intended for development and testing only.
package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"alumnet/internal/models"
	"alumnet/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// DefaultPassword is the plaintext password given to every seeded account.
const DefaultPassword = "Alumnet123"

// Factory builds domain entities and persists them to the database.
// Writes that carry invariants (verification tickets, RSVP capacity, fund
// totals) go through the repositories; everything else is inserted directly.
type Factory struct {
	db      *gorm.DB
	faker   *gofakeit.Faker
	catalog *Catalog
	digest  string
	maxDays int
	seq     int

	users     repository.UserRepository
	events    repository.EventRepository
	donations repository.DonationRepository
}

// NewFactory creates a Factory. digest is the precomputed password hash
// assigned to every user; randSeed makes runs reproducible.
func NewFactory(db *gorm.DB, catalog *Catalog, digest string, randSeed int64, maxDays int) *Factory {
	if maxDays <= 0 {
		maxDays = 90
	}
	return &Factory{
		db:        db,
		faker:     gofakeit.New(randSeed),
		catalog:   catalog,
		digest:    digest,
		maxDays:   maxDays,
		users:     repository.NewUserRepository(db),
		events:    repository.NewEventRepository(db),
		donations: repository.NewDonationRepository(db),
	}
}

// pastTime returns a timestamp somewhere in the last maxDays.
func (f *Factory) pastTime() time.Time {
	back := time.Duration(f.faker.Number(0, f.maxDays*24*60)) * time.Minute
	return time.Now().UTC().Add(-back)
}

func (f *Factory) branch() string {
	return f.faker.RandomString(f.catalog.Branches)
}

func (f *Factory) skills(n int) []models.UserSkill {
	seen := make(map[string]bool, n)
	out := make([]models.UserSkill, 0, n)
	for len(out) < n && len(seen) < len(f.catalog.Skills) {
		s := f.faker.RandomString(f.catalog.Skills)
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, models.UserSkill{Skill: s})
	}
	return out
}

// BuildUser constructs an approved, active user of the given role without
// persisting it.
func (f *Factory) BuildUser(role models.Role, overrides ...func(*models.User)) *models.User {
	f.seq++
	first, last := f.faker.FirstName(), f.faker.LastName()
	local := strings.ToLower(fmt.Sprintf("%s.%s%d", first, last, f.seq))
	local = strings.NewReplacer(" ", "", "'", "").Replace(local)

	u := &models.User{
		Email:              local + "@example.com",
		Password:           f.digest,
		FirstName:          first,
		LastName:           last,
		Role:               role,
		IsActive:           true,
		VerificationStatus: models.VerificationApproved,
		Branch:             f.branch(),
		Bio:                f.faker.Sentence(12),
		Avatar:             fmt.Sprintf("https://i.pravatar.cc/150?u=%s", local),
		Skills:             f.skills(f.faker.Number(1, 4)),
		CreatedAt:          f.pastTime(),
	}

	thisYear := time.Now().Year()
	switch role {
	case models.RoleAlumni:
		year := f.faker.Number(thisYear-30, thisYear-1)
		u.GraduationYear = &year
		u.CurrentJob = f.faker.JobTitle()
		u.CurrentCompany = f.faker.Company()
		u.IsMentor = f.faker.Number(1, 4) == 1
	case models.RoleStudent:
		year := f.faker.Number(thisYear, thisYear+4)
		u.GraduationYear = &year
		college := local + "@students.example.edu"
		u.CollegeEmail = &college
	case models.RoleTeacher:
		u.CurrentJob = "Faculty"
		u.CurrentCompany = "Example University"
	}

	for _, override := range overrides {
		override(u)
	}
	return u
}

// CreateUser persists an approved, active user.
func (f *Factory) CreateUser(ctx context.Context, role models.Role, overrides ...func(*models.User)) (*models.User, error) {
	u := f.BuildUser(role, overrides...)
	if err := f.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create %s user: %w", role, err)
	}
	return u, nil
}

// CreatePendingStudent registers a student that still awaits review, along
// with its verification request.
func (f *Factory) CreatePendingStudent(ctx context.Context) (*models.User, *models.VerificationRequest, error) {
	u := f.BuildUser(models.RoleStudent, func(u *models.User) {
		u.IsActive = false
		u.VerificationStatus = models.VerificationPending
	})
	req, err := f.users.CreateWithVerificationRequest(ctx, u)
	if err != nil {
		return nil, nil, fmt.Errorf("create pending student: %w", err)
	}
	return u, req, nil
}

// CreateEvent persists an event in the next few weeks created by creator.
func (f *Factory) CreateEvent(ctx context.Context, creator *models.User, overrides ...func(*models.Event)) (*models.Event, error) {
	e := &models.Event{
		Title:       strings.TrimSuffix(f.faker.Sentence(4), "."),
		Description: f.faker.Paragraph(1, 3, 10, " "),
		Date:        time.Now().UTC().Add(time.Duration(f.faker.Number(24, 24*60)) * time.Hour).Truncate(time.Hour),
		CreatorID:   creator.ID,
	}
	if f.faker.Bool() {
		e.IsVirtual = true
		e.MeetingLink = f.faker.URL()
	} else {
		e.Location = f.faker.City()
	}
	if f.faker.Number(1, 3) == 1 {
		limit := f.faker.Number(5, 200)
		e.MaxAttendees = &limit
	}
	if f.faker.Bool() {
		e.Branch = f.branch()
	}
	for _, override := range overrides {
		override(e)
	}
	if err := f.events.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return e, nil
}

// RSVP answers an event through the repository so capacity is honored.
// A full event is not an error for seeding purposes.
func (f *Factory) RSVP(ctx context.Context, event *models.Event, user *models.User) error {
	statuses := []models.RSVPStatus{models.RSVPGoing, models.RSVPGoing, models.RSVPMaybe, models.RSVPNotGoing}
	status := statuses[f.faker.Number(0, len(statuses)-1)]
	_, err := f.events.UpsertRSVP(ctx, event, user.ID, status)
	if models.HasCode(err, models.CodeInvalidState) {
		return nil
	}
	return err
}

// CreatePost persists a post by author.
func (f *Factory) CreatePost(user *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	p := &models.Post{
		Title:     strings.TrimSuffix(f.faker.Sentence(6), "."),
		Content:   f.faker.Paragraph(1, 3, 12, "\n"),
		IsPublic:  f.faker.Number(1, 5) > 1,
		Category:  f.faker.RandomString(f.catalog.PostCategories),
		AuthorID:  user.ID,
		CreatedAt: f.pastTime(),
	}
	if f.faker.Number(1, 4) == 1 {
		p.Image = fmt.Sprintf("https://picsum.photos/seed/%s/800/600", f.faker.UUID())
	}
	for _, override := range overrides {
		override(p)
	}
	if err := f.db.Create(p).Error; err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return p, nil
}

// CreateComment persists a comment on post.
func (f *Factory) CreateComment(user *models.User, post *models.Post) (*models.Comment, error) {
	c := &models.Comment{
		Content:   f.faker.Sentence(f.faker.Number(4, 18)),
		PostID:    post.ID,
		AuthorID:  user.ID,
		CreatedAt: post.CreatedAt.Add(time.Duration(f.faker.Number(1, 600)) * time.Minute),
	}
	if err := f.db.Create(c).Error; err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return c, nil
}

// CreateLike records that user liked post.
func (f *Factory) CreateLike(user *models.User, post *models.Post) error {
	like := &models.Like{UserID: user.ID, PostID: post.ID}
	return f.db.Where(models.Like{UserID: user.ID, PostID: post.ID}).FirstOrCreate(like).Error
}

// CreateConnection persists a connection request with the given status.
func (f *Factory) CreateConnection(initiator, receiver *models.User, status models.ConnectionStatus) (*models.Connection, error) {
	c := &models.Connection{
		InitiatorID: initiator.ID,
		ReceiverID:  receiver.ID,
		Status:      status,
		CreatedAt:   f.pastTime(),
	}
	if err := f.db.Create(c).Error; err != nil {
		return nil, fmt.Errorf("create connection: %w", err)
	}
	return c, nil
}

// CreateMessage persists a direct message. Older messages are marked read.
func (f *Factory) CreateMessage(sender, receiver *models.User) (*models.Message, error) {
	m := &models.Message{
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Content:    f.faker.Sentence(f.faker.Number(3, 20)),
		CreatedAt:  f.pastTime(),
	}
	m.IsRead = time.Since(m.CreatedAt) > 48*time.Hour
	if err := f.db.Create(m).Error; err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return m, nil
}

// CreateJob persists a job posting. Roughly one in six is already expired.
func (f *Factory) CreateJob(poster *models.User, overrides ...func(*models.JobPosting)) (*models.JobPosting, error) {
	types := []models.EmploymentType{models.EmploymentFullTime, models.EmploymentPartTime, models.EmploymentContract, models.EmploymentInternship}
	expiry := time.Now().UTC().Add(time.Duration(f.faker.Number(-10, 60)) * 24 * time.Hour)
	j := &models.JobPosting{
		Title:          f.faker.JobTitle(),
		Description:    f.faker.Paragraph(2, 3, 12, "\n\n"),
		Company:        f.faker.Company(),
		Location:       f.faker.City(),
		IsRemote:       f.faker.Bool(),
		EmploymentType: types[f.faker.Number(0, len(types)-1)],
		SalaryRange:    fmt.Sprintf("%dk-%dk", f.faker.Number(40, 90), f.faker.Number(91, 180)),
		ApplyLink:      f.faker.URL(),
		ExpiryDate:     &expiry,
		JobCategory:    models.JobCategories[f.faker.Number(0, len(models.JobCategories)-1)],
		IsActive:       true,
		PosterID:       poster.ID,
		CreatedAt:      f.pastTime(),
	}
	for _, override := range overrides {
		override(j)
	}
	if err := f.db.Create(j).Error; err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	return j, nil
}

// CreateDonation records a completed donation and updates the fund.
func (f *Factory) CreateDonation(ctx context.Context, donor *models.User) (*models.Donation, error) {
	methods := []string{"card", "upi", "bank_transfer", "paypal"}
	d := &models.Donation{
		DonorID:       donor.ID,
		Amount:        int64(f.faker.Number(5, 500)) * 100,
		PaymentMethod: methods[f.faker.Number(0, len(methods)-1)],
		Status:        models.DonationCompleted,
	}
	if f.faker.Bool() {
		d.Note = f.faker.Sentence(6)
	}
	if _, err := f.donations.Donate(ctx, d); err != nil {
		return nil, fmt.Errorf("create donation: %w", err)
	}
	return d, nil
}

// CreateExpense spends from the fund. Expenses larger than the balance are
// rejected by the repository and surface as errors.
func (f *Factory) CreateExpense(ctx context.Context, admin *models.User, amount int64) (*models.Expense, error) {
	e := &models.Expense{
		Title:        strings.TrimSuffix(f.faker.Sentence(4), "."),
		Description:  f.faker.Sentence(10),
		Amount:       amount,
		RecordedByID: admin.ID,
	}
	if _, err := f.donations.RecordExpense(ctx, e); err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}
	return e, nil
}

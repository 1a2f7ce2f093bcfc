package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"alumnet/internal/auth"
	"alumnet/internal/database"
	"alumnet/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configures a Seeder.
type Options struct {
	// RandSeed makes content reproducible; zero picks one from the clock.
	RandSeed int64
	// MaxDays bounds how far back generated timestamps reach.
	MaxDays int
	// BcryptCost is used once to hash DefaultPassword.
	BcryptCost int
	Logger     *slog.Logger
}

// Summary counts what a run created.
type Summary struct {
	Users           int
	PendingStudents int
	Posts           int
	Comments        int
	Likes           int
	Events          int
	RSVPs           int
	Jobs            int
	Donations       int
	Expenses        int
	Connections     int
	Messages        int
}

// Seeder fills a database with demo data.
type Seeder struct {
	db      *gorm.DB
	catalog *Catalog
	opts    Options
	logger  *slog.Logger
}

// NewSeeder creates a Seeder using the built-in preset catalog.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	if opts.RandSeed == 0 {
		opts.RandSeed = time.Now().UnixNano()
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{db: db, catalog: DefaultCatalog(), opts: opts, logger: logger}
}

// Catalog exposes the presets the seeder knows about.
func (s *Seeder) Catalog() *Catalog {
	return s.catalog
}

// ClearAll removes every row from the persistent tables, children first.
func (s *Seeder) ClearAll() error {
	all := database.PersistentModels()
	for i := len(all) - 1; i >= 0; i-- {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(all[i]).Error; err != nil {
			return fmt.Errorf("clear %T: %w", all[i], err)
		}
	}
	s.logger.Info("seed data cleared", slog.Int("tables", len(all)))
	return nil
}

// ApplyPreset seeds using the named preset.
func (s *Seeder) ApplyPreset(ctx context.Context, name string) (*Summary, error) {
	p, err := s.catalog.Preset(name)
	if err != nil {
		return nil, err
	}
	s.logger.Info("applying seed preset", slog.String("preset", name), slog.String("description", p.Description))
	return s.Run(ctx, p)
}

// Run creates the entities described by p.
func (s *Seeder) Run(ctx context.Context, p Preset) (*Summary, error) {
	digest, err := auth.NewBcryptHasher(s.opts.BcryptCost).Hash(DefaultPassword)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}
	f := NewFactory(s.db, s.catalog, digest, s.opts.RandSeed, s.opts.MaxDays)
	sum := &Summary{}
	start := time.Now()

	var alumni, students, teachers, staff []*models.User
	mk := func(role models.Role, n int, into *[]*models.User) error {
		for i := 0; i < n; i++ {
			u, err := f.CreateUser(ctx, role)
			if err != nil {
				return err
			}
			*into = append(*into, u)
		}
		return nil
	}
	if err := mk(models.RoleAlumni, p.Alumni, &alumni); err != nil {
		return nil, err
	}
	if err := mk(models.RoleStudent, p.Students, &students); err != nil {
		return nil, err
	}
	if err := mk(models.RoleTeacher, p.Teachers, &teachers); err != nil {
		return nil, err
	}
	if err := mk(models.RoleStaff, p.Staff, &staff); err != nil {
		return nil, err
	}
	for i := 0; i < p.PendingStudents; i++ {
		if _, _, err := f.CreatePendingStudent(ctx); err != nil {
			return nil, err
		}
	}

	active := make([]*models.User, 0, len(alumni)+len(students)+len(teachers)+len(staff))
	active = append(active, alumni...)
	active = append(active, students...)
	active = append(active, teachers...)
	active = append(active, staff...)
	sum.Users = len(active)
	sum.PendingStudents = p.PendingStudents
	if len(active) == 0 {
		return sum, nil
	}
	pick := func(from []*models.User) *models.User {
		return from[f.faker.Number(0, len(from)-1)]
	}

	if err := s.seedPosts(f, p, active, pick, sum); err != nil {
		return nil, err
	}

	organizers := append(append([]*models.User{}, teachers...), staff...)
	if len(organizers) == 0 {
		organizers = active
	}
	for i := 0; i < p.Events; i++ {
		e, err := f.CreateEvent(ctx, pick(organizers))
		if err != nil {
			return nil, err
		}
		sum.Events++
		for j := 0; j < f.faker.Number(0, min(len(active), 12)); j++ {
			if err := f.RSVP(ctx, e, pick(active)); err != nil {
				return nil, err
			}
			sum.RSVPs++
		}
	}

	posters := append(append([]*models.User{}, alumni...), teachers...)
	if len(posters) > 0 {
		for i := 0; i < p.Jobs; i++ {
			if _, err := f.CreateJob(pick(posters)); err != nil {
				return nil, err
			}
			sum.Jobs++
		}
	}

	for i := 0; i < p.Donations; i++ {
		if _, err := f.CreateDonation(ctx, pick(active)); err != nil {
			return nil, err
		}
		sum.Donations++
	}
	if sum.Donations > 0 && len(staff) > 0 {
		// Smallest possible donation, so the fund always covers it.
		if _, err := f.CreateExpense(ctx, staff[0], 500); err != nil {
			return nil, err
		}
		sum.Expenses++
	}

	if err := s.seedNetwork(f, p, active, pick, sum); err != nil {
		return nil, err
	}

	s.logger.Info("seed complete",
		slog.Int("users", sum.Users),
		slog.Int("pending_students", sum.PendingStudents),
		slog.Int("posts", sum.Posts),
		slog.Int("events", sum.Events),
		slog.Int("jobs", sum.Jobs),
		slog.Int("donations", sum.Donations),
		slog.Int("connections", sum.Connections),
		slog.Int("messages", sum.Messages),
		slog.Duration("elapsed", time.Since(start)),
	)
	return sum, nil
}

func (s *Seeder) seedPosts(f *Factory, p Preset, active []*models.User, pick func([]*models.User) *models.User, sum *Summary) error {
	for i := 0; i < p.Posts; i++ {
		post, err := f.CreatePost(pick(active))
		if err != nil {
			return err
		}
		sum.Posts++
		for j := 0; j < p.CommentsPerPost; j++ {
			if _, err := f.CreateComment(pick(active), post); err != nil {
				return err
			}
			sum.Comments++
		}
		liked := make(map[uint]bool)
		for j := 0; j < f.faker.Number(0, min(len(active), 8)); j++ {
			u := pick(active)
			if liked[u.ID] {
				continue
			}
			liked[u.ID] = true
			if err := f.CreateLike(u, post); err != nil {
				return err
			}
			sum.Likes++
		}
	}
	return nil
}

// seedNetwork creates connections between distinct pairs and messages
// between connected users.
func (s *Seeder) seedNetwork(f *Factory, p Preset, active []*models.User, pick func([]*models.User) *models.User, sum *Summary) error {
	if len(active) < 2 {
		return nil
	}
	type pair struct{ a, b *models.User }
	var accepted []pair
	seen := make(map[[2]uint]bool)
	maxPairs := len(active) * (len(active) - 1) / 2

	for attempts := 0; sum.Connections < p.Connections && len(seen) < maxPairs && attempts < p.Connections*4; attempts++ {
		a, b := pick(active), pick(active)
		if a.ID == b.ID {
			continue
		}
		lo, hi := models.NormalizePair(a.ID, b.ID)
		if seen[[2]uint{lo, hi}] {
			continue
		}
		seen[[2]uint{lo, hi}] = true

		status := models.ConnectionAccepted
		switch f.faker.Number(1, 6) {
		case 1:
			status = models.ConnectionPending
		case 2:
			status = models.ConnectionRejected
		}
		if _, err := f.CreateConnection(a, b, status); err != nil {
			return err
		}
		sum.Connections++
		if status == models.ConnectionAccepted {
			accepted = append(accepted, pair{a, b})
		}
	}

	if len(accepted) == 0 {
		return nil
	}
	for i := 0; i < p.Messages; i++ {
		pr := accepted[f.faker.Number(0, len(accepted)-1)]
		from, to := pr.a, pr.b
		if f.faker.Bool() {
			from, to = to, from
		}
		if _, err := f.CreateMessage(from, to); err != nil {
			return err
		}
		sum.Messages++
	}
	return nil
}

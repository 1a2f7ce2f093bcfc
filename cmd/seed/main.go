// Command seed fills the database with demo data for AlumNet.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"alumnet/internal/config"
	"alumnet/internal/database"
	"alumnet/internal/seed"
)

func main() {
	preset := flag.String("preset", "small", "seed preset to apply")
	shouldClean := flag.Bool("clean", true, "clean database before seeding")
	randSeed := flag.Int64("rand", 0, "random seed for reproducible content (0 = time based)")
	alumni := flag.Int("alumni", -1, "override the preset's alumni count")
	posts := flag.Int("posts", -1, "override the preset's post count")
	list := flag.Bool("list", false, "list presets and exit")
	flag.Parse()

	catalog := seed.DefaultCatalog()
	if *list {
		for _, name := range catalog.Names() {
			p, _ := catalog.Preset(name)
			fmt.Printf("%-10s %s\n", name, p.Description)
		}
		return
	}

	p, err := catalog.Preset(*preset)
	if err != nil {
		log.Fatal(err)
	}
	if *alumni >= 0 {
		p.Alumni = *alumni
	}
	if *posts >= 0 {
		p.Posts = *posts
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db, seed.Options{RandSeed: *randSeed, BcryptCost: cfg.BcryptCost})
	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	sum, err := s.Run(context.Background(), p)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	fmt.Println(strings.Repeat("=", 40))
	fmt.Printf("preset %q: %d users (%d pending), %d posts, %d events, %d jobs, %d donations, %d connections, %d messages\n",
		*preset, sum.Users, sum.PendingStudents, sum.Posts, sum.Events, sum.Jobs, sum.Donations, sum.Connections, sum.Messages)
	fmt.Printf("all seeded users have the password: %s\n", seed.DefaultPassword)
}

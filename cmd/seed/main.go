// Command seed populates the database with demo users, skills and swaps.
package main

import (
	"context"
	"flag"
	"log"

	"skillswap/internal/config"
	"skillswap/internal/database"
	"skillswap/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()
	numUsers := flag.Int("users", defaults.NumUsers, "Number of users to create")
	skillsPerUser := flag.Int("skills", defaults.SkillsPerUser, "Offered and wanted skills per user")
	numSwaps := flag.Int("swaps", defaults.NumSwaps, "Number of swaps to attempt")
	randSeed := flag.Int64("seed", 0, "Random seed (0 picks one from the clock)")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, %d skills each, %d swaps, clean=%v", *numUsers, *skillsPerUser, *numSwaps, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s, err := seed.NewSeeder(db, seed.Options{
		NumUsers:      *numUsers,
		SkillsPerUser: *skillsPerUser,
		NumSwaps:      *numSwaps,
		Seed:          *randSeed,
	})
	if err != nil {
		log.Fatalf("Failed to create seeder: %v", err)
	}

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	summary, err := s.Run(context.Background())
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Created %d users, %d skills, %d swaps, %d feedback entries",
		summary.Users, summary.Skills, summary.Swaps, summary.Feedback)
	log.Printf("All demo users have the password: %s", seed.DemoPassword)
}

// Command main runs the database seeder for fitCheck.
package main

import (
	"flag"
	"log"

	"fitcheck/internal/config"
	"fitcheck/internal/database"
	"fitcheck/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	postsPerUser := flag.Int("posts-per-user", 4, "Number of posts per user")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Seed(db, seed.Options{
		NumUsers:     *numUsers,
		PostsPerUser: *postsPerUser,
		ShouldClean:  *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding complete. All demo users have the password: password123")
}

// Command main runs the database seeder for Penlight.
package main

import (
	"flag"
	"log"

	"penlight/internal/config"
	"penlight/internal/database"
	"penlight/internal/seed"
)

func main() {
	// Parse command line flags
	numPosts := flag.Int("posts", 24, "Number of posts to create")
	numPinned := flag.Int("pinned", 2, "Number of posts to pin")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d posts (%d pinned), clean=%v\n", *numPosts, *numPinned, *shouldClean)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run seeder
	s := seed.NewSeeder(db)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	opts := seed.DefaultOptions()
	opts.NumPosts = *numPosts
	opts.NumPinned = *numPinned
	opts.Topics = cfg.TopicLabels()

	if _, err := s.SeedPosts(opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("All done! The database is now populated with demo posts.")
}

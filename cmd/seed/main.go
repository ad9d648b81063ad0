// Command seed populates the database with demo groups, users, posts, and
// comments.
package main

import (
	"context"
	"flag"
	"log"

	"quill/internal/config"
	"quill/internal/database"
	"quill/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	users := flag.Int("users", 10, "number of users to create")
	posts := flag.Int("posts", 50, "number of posts to create")
	clean := flag.Bool("clean", false, "delete existing rows first")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = seed.Run(context.Background(), db, seed.Options{
		NumUsers:    *users,
		NumPosts:    *posts,
		ShouldClean: *clean,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}

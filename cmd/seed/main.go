// Command seed populates the development database with demo data.
package main

import (
	"flag"
	"log"

	"linkup/internal/config"
	"linkup/internal/database"
	"linkup/internal/seed"
)

func main() {
	users := flag.Int("users", 10, "number of users to create")
	postsPerUser := flag.Int("posts", 3, "posts per user")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Env == "production" || cfg.Env == "prod" {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Demo(db, *users, *postsPerUser); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}

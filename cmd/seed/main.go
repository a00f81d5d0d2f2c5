package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/sri-maddineni/college-shortlister/config"
	"github.com/sri-maddineni/college-shortlister/database"
)

func main() {
	// Load environment variables
	if err := config.LoadENV(); err != nil {
		log.Fatalf("Failed to load environment: %v", err)
	}
	getEnv, err := config.Get()
	if err != nil {
		log.Fatalf("Failed to read configuration: %v", err)
	}

	// Initialize database connection
	store, err := database.Open(getEnv)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	// Run seeds
	separator := strings.Repeat("=", 60)
	fmt.Println(separator)
	fmt.Println("College Shortlister - Database Seeding")
	fmt.Println(separator)
	fmt.Println()

	created, err := database.Seed(context.Background(), store)
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	fmt.Println()
	fmt.Println(separator)
	if created == 0 {
		fmt.Println("Store already has records, nothing seeded.")
	} else {
		fmt.Printf("🎉 Seeded %d sample records into %s\n", created, getEnv.DB_DRIVER)
	}
	fmt.Println(separator)
}

package main

import (
	"flag"
	"log"
	"os"

	"github.com/oceanminded/insurance-application-form/internal/db/migrate"
)

func main() {
	direction := flag.String("direction", "up", "migration direction: up or down")
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	if err := migrate.Run(dsn, *direction); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Printf("Migrations applied (%s)", *direction)
}

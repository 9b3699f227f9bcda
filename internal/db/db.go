package db

import (
	"log"
	"os"
	"time"

	"sqmcc/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Init opens the hosted Postgres database and runs migrations. It is fatal
// on failure: the application cannot do anything useful without storage.
func Init() *gorm.DB {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=sqmcc port=5432 sslmode=disable TimeZone=America/Sao_Paulo"
	}

	database, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		log.Fatalf("Failed to access connection pool: %v", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	log.Println("Database connection established")

	if err := Migrate(database); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	return database
}

// Migrate creates the four tables. Unique indexes on users.email and
// posts.slug are the authoritative guard for the invariants the application
// also checks optimistically.
func Migrate(database *gorm.DB) error {
	return database.AutoMigrate(
		&models.User{},
		&models.Topic{},
		&models.Post{},
		&models.Comment{},
	)
}

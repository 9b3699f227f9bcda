package services

import (
	"testing"

	"sqmcc/internal/db"
	"sqmcc/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(database))
	return database
}

func createTestUser(t *testing.T, database *gorm.DB, email, role string) *models.User {
	t.Helper()
	user := &models.User{Email: email, Role: role}
	require.NoError(t, database.Create(user).Error)
	return user
}

func createTestTopic(t *testing.T, database *gorm.DB, status string) *models.Topic {
	t.Helper()
	topic := &models.Topic{
		Category: "Geral",
		Title:    "Ambientes sem perfume",
		Body:     "Como vocês lidam com produtos de limpeza no trabalho?",
		Status:   status,
	}
	require.NoError(t, database.Create(topic).Error)
	return topic
}

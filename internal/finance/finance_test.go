package finance

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kelechionyeama/Finance-app/internal/models"
)

// setupTest creates an isolated in-memory database with the domain schema.
// Each test gets its own database to ensure isolation.
func setupTest(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.Transaction{})
	require.NoError(t, err)

	return db
}

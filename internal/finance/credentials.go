package finance

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/kelechionyeama/Finance-app/internal/models"
)

// CredentialStore defines the interface for account creation and login.
type CredentialStore interface {
	Register(ctx context.Context, username, password string) (uint, error)
	Authenticate(ctx context.Context, username, password string) (uint, error)
}

// credentialStore implements the CredentialStore interface.
type credentialStore struct {
	db           *gorm.DB
	logger       *zap.Logger
	startingCash decimal.Decimal
}

// NewCredentialStore creates a new credential store. Every account it
// registers starts with startingCash.
func NewCredentialStore(db *gorm.DB, logger *zap.Logger, startingCash decimal.Decimal) CredentialStore {
	return &credentialStore{
		db:           db,
		logger:       logger,
		startingCash: startingCash,
	}
}

// dummyHash is compared against when the username does not exist, so a
// login probe costs the same whether or not the account is real.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// Register creates a new account. Uniqueness is enforced by the database
// index on username, so two concurrent registrations of the same name
// cannot both succeed.
func (s *credentialStore) Register(ctx context.Context, username, password string) (uint, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Username:     username,
		PasswordHash: string(hash),
		Cash:         s.startingCash,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, ErrDuplicateUsername
		}
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("Registered new account",
		zap.String("username", username),
		zap.Uint("user_id", user.ID))
	return user.ID, nil
}

// Authenticate verifies a username/password pair and returns the user id.
// bcrypt's comparison is constant-time.
func (s *credentialStore) Authenticate(ctx context.Context, username, password string) (uint, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return 0, ErrInvalidCredentials
		}
		return 0, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return 0, ErrInvalidCredentials
	}

	return user.ID, nil
}

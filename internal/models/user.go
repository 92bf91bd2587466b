package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// User represents a registered account.
// Cash is the live balance; it is only ever mutated together with a
// ledger insert inside the same database transaction.
type User struct {
	gorm.Model
	Username     string          `gorm:"uniqueIndex;not null"`
	PasswordHash string          `gorm:"not null"`
	Cash         decimal.Decimal `gorm:"type:decimal(20,4);not null"`
}

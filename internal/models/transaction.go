package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderType classifies a ledger entry.
type OrderType string

const (
	OrderTypeBuy  OrderType = "Buy"
	OrderTypeSell OrderType = "Sell"
)

// Transaction is one row of the append-only trade ledger. Shares is
// signed: positive for buys, negative for sells, so the net position
// for a (user, symbol) pair is SUM(shares). StockName and Price are
// snapshots taken at execution time. Rows are never updated or deleted.
type Transaction struct {
	gorm.Model
	UserID    uint      `gorm:"index;not null"`
	OrderType OrderType `gorm:"not null"`
	Symbol    string    `gorm:"index;not null"`
	StockName string
	Shares    int64           `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Time      time.Time       `gorm:"index;not null"`
}

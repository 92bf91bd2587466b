package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/kelechionyeama/Finance-app/internal/models"
)

// Holding is the net position an account holds in one symbol.
type Holding struct {
	Symbol    string
	StockName string
	Shares    int64
}

// Ledger defines the interface for the append-only trade ledger and the
// cash balance that moves with it.
type Ledger interface {
	RecordBuy(ctx context.Context, userID uint, symbol, stockName string, shares int64, price decimal.Decimal) error
	RecordSell(ctx context.Context, userID uint, symbol, stockName string, shares int64, price decimal.Decimal) error
	Position(ctx context.Context, userID uint, symbol string) (int64, error)
	Holdings(ctx context.Context, userID uint) ([]Holding, error)
	History(ctx context.Context, userID uint) ([]models.Transaction, error)
	Cash(ctx context.Context, userID uint) (decimal.Decimal, error)
}

// ledger implements the Ledger interface.
type ledger struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewLedger creates a new ledger store.
func NewLedger(db *gorm.DB, logger *zap.Logger) Ledger {
	return &ledger{db: db, logger: logger}
}

// RecordBuy inserts a Buy row and debits the account's cash as one
// database transaction. The funds check runs against the cash balance
// re-read inside that transaction, not against whatever the caller saw.
func (l *ledger) RecordBuy(ctx context.Context, userID uint, symbol, stockName string, shares int64, price decimal.Decimal) error {
	if shares <= 0 {
		return &ValidationError{Field: "shares", Reason: "must be a positive whole number"}
	}
	if !price.IsPositive() {
		return &ValidationError{Field: "price", Reason: "must be positive"}
	}

	cost := price.Mul(decimal.NewFromInt(shares))

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return fmt.Errorf("failed to load user %d: %w", userID, err)
		}

		if cost.GreaterThan(user.Cash) {
			return ErrInsufficientFunds
		}

		entry := models.Transaction{
			UserID:    userID,
			OrderType: models.OrderTypeBuy,
			Symbol:    symbol,
			StockName: stockName,
			Shares:    shares,
			Price:     price,
			Time:      time.Now().UTC(),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to record buy: %w", err)
		}

		if err := tx.Model(&models.User{}).Where("id = ?", userID).
			Update("cash", user.Cash.Sub(cost)).Error; err != nil {
			return fmt.Errorf("failed to debit cash: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	l.logger.Info("Recorded buy",
		zap.Uint("user_id", userID),
		zap.String("symbol", symbol),
		zap.Int64("shares", shares),
		zap.String("price", price.String()))
	return nil
}

// RecordSell inserts a Sell row (negative shares) and credits the
// account's cash as one database transaction. The position check runs
// inside that transaction, so two concurrent sells cannot both pass it
// against a stale position.
func (l *ledger) RecordSell(ctx context.Context, userID uint, symbol, stockName string, shares int64, price decimal.Decimal) error {
	if shares <= 0 {
		return &ValidationError{Field: "shares", Reason: "must be a positive whole number"}
	}
	if !price.IsPositive() {
		return &ValidationError{Field: "price", Reason: "must be positive"}
	}

	proceeds := price.Mul(decimal.NewFromInt(shares))

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		position, err := sumShares(tx, userID, symbol)
		if err != nil {
			return err
		}
		if position <= 0 {
			return ErrUnknownSymbol
		}
		if shares > position {
			return ErrInsufficientShares
		}

		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return fmt.Errorf("failed to load user %d: %w", userID, err)
		}

		entry := models.Transaction{
			UserID:    userID,
			OrderType: models.OrderTypeSell,
			Symbol:    symbol,
			StockName: stockName,
			Shares:    -shares,
			Price:     price,
			Time:      time.Now().UTC(),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to record sell: %w", err)
		}

		if err := tx.Model(&models.User{}).Where("id = ?", userID).
			Update("cash", user.Cash.Add(proceeds)).Error; err != nil {
			return fmt.Errorf("failed to credit cash: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	l.logger.Info("Recorded sell",
		zap.Uint("user_id", userID),
		zap.String("symbol", symbol),
		zap.Int64("shares", shares),
		zap.String("price", price.String()))
	return nil
}

// Position returns the net share count for (userID, symbol), 0 if the
// account has never traded the symbol.
func (l *ledger) Position(ctx context.Context, userID uint, symbol string) (int64, error) {
	return sumShares(l.db.WithContext(ctx), userID, symbol)
}

func sumShares(tx *gorm.DB, userID uint, symbol string) (int64, error) {
	var position int64
	err := tx.Model(&models.Transaction{}).
		Where("user_id = ? AND symbol = ?", userID, symbol).
		Select("COALESCE(SUM(shares), 0)").
		Scan(&position).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum position: %w", err)
	}
	return position, nil
}

// Holdings returns the account's non-zero net positions grouped by symbol.
// Symbols the account has fully sold out of stay in the ledger but do not
// appear here.
func (l *ledger) Holdings(ctx context.Context, userID uint) ([]Holding, error) {
	var holdings []Holding
	err := l.db.WithContext(ctx).Model(&models.Transaction{}).
		Select("symbol, MAX(stock_name) AS stock_name, SUM(shares) AS shares").
		Where("user_id = ?", userID).
		Group("symbol").
		Having("SUM(shares) > 0").
		Order("symbol").
		Scan(&holdings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load holdings: %w", err)
	}
	return holdings, nil
}

// History returns every ledger row for the account, oldest first. The id
// tiebreak keeps rows with equal timestamps in insertion order.
func (l *ledger) History(ctx context.Context, userID uint) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := l.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("time, id").
		Find(&transactions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return transactions, nil
}

// Cash returns the account's current cash balance.
func (l *ledger) Cash(ctx context.Context, userID uint) (decimal.Decimal, error) {
	var user models.User
	if err := l.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return decimal.Zero, fmt.Errorf("failed to load user %d: %w", userID, err)
	}
	return user.Cash, nil
}

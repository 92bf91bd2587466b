package finance

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/kelechionyeama/Finance-app/internal/models"
)

// newTestUser inserts a user with the given cash balance.
func newTestUser(t *testing.T, db *gorm.DB, cash int64) uint {
	t.Helper()
	user := models.User{Username: "trader", PasswordHash: "x", Cash: decimal.NewFromInt(cash)}
	require.NoError(t, db.Create(&user).Error)
	return user.ID
}

func TestBuySellCashConservation(t *testing.T) {
	// The worked example: start at 10000, buy 10 AAA @ 50, sell 4 AAA @ 60.
	db := setupTest(t)
	ledger := NewLedger(db, zap.NewNop())
	ctx := context.Background()
	userID := newTestUser(t, db, 10000)

	err := ledger.RecordBuy(ctx, userID, "AAA", "Alcoa", 10, decimal.NewFromInt(50))
	require.NoError(t, err)

	cash, err := ledger.Cash(ctx, userID)
	require.NoError(t, err)
	assert.True(t, cash.Equal(decimal.NewFromInt(9500)), "cash after buy: %s", cash)

	position, err := ledger.Position(ctx, userID, "AAA")
	require.NoError(t, err)
	assert.Equal(t, int64(10), position)

	err = ledger.RecordSell(ctx, userID, "AAA", "Alcoa", 4, decimal.NewFromInt(60))
	require.NoError(t, err)

	cash, err = ledger.Cash(ctx, userID)
	require.NoError(t, err)
	assert.True(t, cash.Equal(decimal.NewFromInt(9740)), "cash after sell: %s", cash)

	position, err = ledger.Position(ctx, userID, "AAA")
	require.NoError(t, err)
	assert.Equal(t, int64(6), position)
}

func TestBuyInsufficientFunds(t *testing.T) {
	db := setupTest(t)
	ledger := NewLedger(db, zap.NewNop())
	ctx := context.Background()
	userID := newTestUser(t, db, 100)

	err := ledger.RecordBuy(ctx, userID, "AAA", "Alcoa", 3, decimal.NewFromInt(50))
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	// Neither cash nor ledger may have changed.
	cash, err := ledger.Cash(ctx, userID)
	require.NoError(t, err)
	assert.True(t, cash.Equal(decimal.NewFromInt(100)))

	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestBuyRejectsBadInput(t *testing.T) {
	db := setupTest(t)
	ledger := NewLedger(db, zap.NewNop())
	ctx := context.Background()
	userID := newTestUser(t, db, 10000)

	var verr *ValidationError

	// A zero-share buy is invalid input, not a no-op.
	err := ledger.RecordBuy(ctx, userID, "AAA", "Alcoa", 0, decimal.NewFromInt(50))
	assert.ErrorAs(t, err, &verr)

	err = ledger.RecordBuy(ctx, userID, "AAA", "Alcoa", -5, decimal.NewFromInt(50))
	assert.ErrorAs(t, err, &verr)

	err = ledger.RecordBuy(ctx, userID, "AAA", "Alcoa", 5, decimal.Zero)
	assert.ErrorAs(t, err, &verr)

	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSellWithoutPosition(t *testing.T) {
	db := setupTest(t)
	ledger := NewLedger(db, zap.NewNop())
	ctx := context.Background()
	userID := newTestUser(t, db, 10000)

	err := ledger.RecordSell(ctx, userID, "BBB", "Barnes", 5, decimal.NewFromInt(10))
	assert.ErrorIs(t, err, ErrUnknownSymbol)

	cash, err := ledger.Cash(ctx, userID)
	require.NoError(t, err)
	assert.True(t, cash.Equal(decimal.NewFromInt(10000)))
}

func TestSellInsufficientShares(t *testing.T) {
	db := setupTest(t)
	ledger := NewLedger(db, zap.NewNop())
	ctx := context.Background()
	userID := newTestUser(t, db, 10000)

	require.NoError(t, ledger.RecordBuy(ctx, userID, "AAA", "Alcoa", 3, decimal.NewFromInt(50)))

	err := ledger.RecordSell(ctx, userID, "AAA", "Alcoa", 4, decimal.NewFromInt(60))
	assert.ErrorIs(t, err, ErrInsufficientShares)

	// The rejected sell must leave no trace.
	position, err := ledger.Position(ctx, userID, "AAA")
	require.NoError(t, err)
	assert.Equal(t, int64(3), position)

	cash, err := ledger.Cash(ctx, userID)
	require.NoError(t, err)
	assert.True(t, cash.Equal(decimal.NewFromInt(9850)))
}

func TestHistoryOrder(t *testing.T) {
	db := setupTest(t)
	ledger := NewLedger(db, zap.NewNop())
	ctx := context.Background()
	userID := newTestUser(t, db, 10000)

	require.NoError(t, ledger.RecordBuy(ctx, userID, "AAA", "Alcoa", 10, decimal.NewFromInt(50)))
	require.NoError(t, ledger.RecordSell(ctx, userID, "AAA", "Alcoa", 4, decimal.NewFromInt(60)))

	history, err := ledger.History(ctx, userID)
	require.NoError(t, err)
	require.Len(t, history, 2)

	assert.Equal(t, models.OrderTypeBuy, history[0].OrderType)
	assert.Equal(t, int64(10), history[0].Shares)
	assert.Equal(t, models.OrderTypeSell, history[1].OrderType)
	assert.Equal(t, int64(-4), history[1].Shares)
	assert.False(t, history[1].Time.Before(history[0].Time))
}

func TestHoldingsExcludesClosedPositions(t *testing.T) {
	db := setupTest(t)
	ledger := NewLedger(db, zap.NewNop())
	ctx := context.Background()
	userID := newTestUser(t, db, 10000)

	require.NoError(t, ledger.RecordBuy(ctx, userID, "AAA", "Alcoa", 5, decimal.NewFromInt(10)))
	require.NoError(t, ledger.RecordBuy(ctx, userID, "BBB", "Barnes", 2, decimal.NewFromInt(20)))
	require.NoError(t, ledger.RecordSell(ctx, userID, "AAA", "Alcoa", 5, decimal.NewFromInt(12)))

	holdings, err := ledger.Holdings(ctx, userID)
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	assert.Equal(t, "BBB", holdings[0].Symbol)
	assert.Equal(t, int64(2), holdings[0].Shares)

	// The closed position stays in the ledger.
	history, err := ledger.History(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, history, 3)
}

func TestHistoryScopedToUser(t *testing.T) {
	db := setupTest(t)
	ledger := NewLedger(db, zap.NewNop())
	ctx := context.Background()
	userID := newTestUser(t, db, 10000)

	other := models.User{Username: "other", PasswordHash: "x", Cash: decimal.NewFromInt(10000)}
	require.NoError(t, db.Create(&other).Error)

	require.NoError(t, ledger.RecordBuy(ctx, userID, "AAA", "Alcoa", 1, decimal.NewFromInt(10)))
	require.NoError(t, ledger.RecordBuy(ctx, other.ID, "CCC", "Corp", 1, decimal.NewFromInt(10)))

	history, err := ledger.History(ctx, userID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "AAA", history[0].Symbol)
}

package finance

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/kelechionyeama/Finance-app/internal/quote"
)

// Position is one row of the portfolio view. PriceKnown is false when the
// quote provider could not price the symbol; such rows are rendered
// without a price and excluded from the total.
type Position struct {
	Symbol     string
	Name       string
	Shares     int64
	Price      decimal.Decimal
	Value      decimal.Decimal
	PriceKnown bool
}

// PortfolioView is the fully priced state of one account: every non-zero
// holding, the cash balance, and Total = cash + sum of priced holdings.
type PortfolioView struct {
	Positions []Position
	Cash      decimal.Decimal
	Total     decimal.Decimal
	Degraded  bool
}

// Calculator aggregates the ledger into a live-priced portfolio. It holds
// no state between calls: every view re-reads the ledger and fetches
// fresh quotes.
type Calculator struct {
	ledger   Ledger
	provider quote.Provider
	logger   *zap.Logger
}

// NewCalculator creates a new portfolio calculator.
func NewCalculator(ledger Ledger, provider quote.Provider, logger *zap.Logger) *Calculator {
	return &Calculator{
		ledger:   ledger,
		provider: provider,
		logger:   logger,
	}
}

// PortfolioView prices every non-zero holding of the account. A failed
// quote lookup degrades that one row instead of failing the whole view;
// Degraded is set so the page can say the total is incomplete.
func (c *Calculator) PortfolioView(ctx context.Context, userID uint) (*PortfolioView, error) {
	holdings, err := c.ledger.Holdings(ctx, userID)
	if err != nil {
		return nil, err
	}

	cash, err := c.ledger.Cash(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &PortfolioView{Cash: cash, Total: cash}
	for _, h := range holdings {
		pos := Position{
			Symbol: h.Symbol,
			Name:   h.StockName,
			Shares: h.Shares,
		}

		q, err := c.provider.Lookup(ctx, h.Symbol)
		if err != nil {
			c.logger.Warn("Price lookup failed, rendering position without a price",
				zap.String("symbol", h.Symbol),
				zap.Error(err))
			view.Degraded = true
		} else {
			pos.Name = q.Name
			pos.Price = q.Price
			pos.Value = q.Price.Mul(decimal.NewFromInt(h.Shares))
			pos.PriceKnown = true
			view.Total = view.Total.Add(pos.Value)
		}

		view.Positions = append(view.Positions, pos)
	}

	return view, nil
}

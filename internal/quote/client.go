package quote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kelechionyeama/Finance-app/internal/config"
)

var (
	// ErrSymbolNotFound means the provider resolved the request but knows
	// no such ticker.
	ErrSymbolNotFound = errors.New("symbol not found")
	// ErrUnavailable means the provider could not be reached or kept
	// failing after the retry budget was spent.
	ErrUnavailable = errors.New("quote service unavailable")
)

// Quote is the provider's answer for one ticker symbol.
type Quote struct {
	Symbol string
	Name   string
	Price  decimal.Decimal
}

// Provider resolves a ticker symbol to a current name and price.
type Provider interface {
	Lookup(ctx context.Context, symbol string) (*Quote, error)
}

// Client is a REST client for the external quote provider.
// It implements the Provider interface.
type Client struct {
	client  *resty.Client
	logger  *zap.Logger
	limiter *rate.Limiter
}

// ensure Client implements the interface
var _ Provider = (*Client)(nil)

// NewClient creates a new quote provider client. Every request carries a
// bounded timeout; a price lookup is never allowed to hang a page render.
func NewClient(cfg *config.Quote, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second)

	// Initialize the rate limiter
	// rate.Limit is requests per second.
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst)

	return &Client{
		client:  client,
		logger:  logger,
		limiter: limiter,
	}
}

// lookupResponse is the provider's wire format for a quote.
type lookupResponse struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Price  string `json:"price"`
}

// Lookup fetches the current name and price for symbol. Transport errors
// and 5xx responses are retried once; a 404 is authoritative and returned
// immediately as ErrSymbolNotFound.
func (c *Client) Lookup(ctx context.Context, symbol string) (*Quote, error) {
	const maxAttempts = 2

	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, ErrSymbolNotFound
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		// Wait for the rate limiter
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}

		resp, err := c.client.R().
			SetContext(ctx).
			SetQueryParam("symbol", symbol).
			SetResult(&lookupResponse{}).
			Get("/quote")
		if err != nil {
			lastErr = err
			c.logger.Warn("Quote request failed",
				zap.String("symbol", symbol),
				zap.Int("attempt", attempt),
				zap.Error(err))
			continue
		}

		if resp.StatusCode() == http.StatusNotFound {
			return nil, ErrSymbolNotFound
		}
		if resp.IsError() {
			lastErr = fmt.Errorf("provider returned status %d", resp.StatusCode())
			c.logger.Warn("Quote request rejected",
				zap.String("symbol", symbol),
				zap.Int("attempt", attempt),
				zap.Int("status", resp.StatusCode()))
			continue
		}

		result := resp.Result().(*lookupResponse)
		if result.Symbol == "" || result.Price == "" {
			return nil, ErrSymbolNotFound
		}

		price, err := decimal.NewFromString(result.Price)
		if err != nil {
			return nil, fmt.Errorf("malformed price %q for %s: %w", result.Price, symbol, err)
		}
		if !price.IsPositive() {
			// A zero or negative price must never be mistaken for a
			// successful quote.
			return nil, fmt.Errorf("non-positive price %s for %s", price, symbol)
		}

		return &Quote{Symbol: symbol, Name: result.Name, Price: price}, nil
	}

	return nil, fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
}

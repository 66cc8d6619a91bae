package binanceclient

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"auditdesk/internal/domain"
	"auditdesk/internal/ports"

	"github.com/adshao/go-binance/v2/common"
	"github.com/adshao/go-binance/v2/futures"
)

const (
	// Base URLs
	baseURLProduction = "https://fapi.binance.com"
	baseURLTestnet    = "https://testnet.binancefuture.com"
)

// Client retrieves account trade history from Binance futures and converts
// it into fill records. It is used by the ingestion tool only; the audit
// engine never talks to the exchange.
type Client struct {
	futuresClient *futures.Client
	logger        ports.Logger
}

// Config holds configuration specific to the Binance client adapter.
type Config struct {
	APIKey     string
	SecretKey  string
	UseTestnet bool
	Logger     ports.Logger
}

// New creates a new Binance client adapter.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Binance client")
	}
	if cfg.APIKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("API credentials are required to read account trades: %w", ports.ErrConfigurationError)
	}

	client := futures.NewClient(cfg.APIKey, cfg.SecretKey)

	// Set BaseURL directly instead of using global futures.UseTestnet
	if cfg.UseTestnet {
		client.BaseURL = baseURLTestnet
	} else {
		client.BaseURL = baseURLProduction
	}
	cfg.Logger.Info(context.Background(), "Binance client configured", map[string]interface{}{"baseURL": client.BaseURL})

	return &Client{futuresClient: client, logger: cfg.Logger}, nil
}

// RecentFills fetches the most recent account trades for a symbol and maps
// them to fill records tagged with the given strategy label. Trades carrying
// realized PNL are recorded as closed.
func (c *Client) RecentFills(ctx context.Context, symbol, strategy string, limit int) ([]*domain.TradeFill, error) {
	trades, err := c.futuresClient.NewListAccountTradeService().
		Symbol(symbol).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, c.handleError(ctx, err, "RecentFills")
	}

	fills := make([]*domain.TradeFill, 0, len(trades))
	for _, t := range trades {
		price, err := strconv.ParseFloat(t.Price, 64)
		if err != nil {
			c.logger.Warn(ctx, "Skipping trade with unparsable price", map[string]interface{}{"tradeID": t.ID, "price": t.Price})
			continue
		}

		direction := domain.Long
		if t.Side == futures.SideTypeSell {
			direction = domain.Short
		}

		fill := &domain.TradeFill{
			Time:      time.UnixMilli(t.Time).UTC(),
			Strategy:  strategy,
			Symbol:    t.Symbol,
			Direction: direction,
			Size:      t.Quantity, // kept as the exchange's string quantity
			Price:     price,
			Status:    domain.StatusFilled, // account trades are executions by definition
		}

		// A non-zero realized PNL marks the closing trade of a position.
		if pnl, err := strconv.ParseFloat(t.RealizedPnl, 64); err == nil && pnl != 0 {
			win := pnl > 0
			fill.PNL = &pnl
			fill.Win = &win
			exitTime := fill.Time
			fill.ExitTime = &exitTime
		}
		fills = append(fills, fill)
	}
	c.logger.Debug(ctx, "Fetched account trades", map[string]interface{}{"symbol": symbol, "count": len(fills)})
	return fills, nil
}

// handleError maps go-binance errors onto the shared application errors.
func (c *Client) handleError(ctx context.Context, err error, operation string) error {
	if err == nil {
		return nil
	}

	fields := map[string]interface{}{"operation": operation, "originalError": err.Error()}

	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		fields["apiErrorCode"] = apiErr.Code
		fields["apiErrorMessage"] = apiErr.Message

		var mappedErr error
		switch apiErr.Code {
		case -1003: // Too many requests
			mappedErr = ports.ErrRateLimited
		case -1021: // Timestamp outside of the recvWindow
			mappedErr = ports.ErrTimeout
		case -1022, -2014, -2015: // Bad signature / API key / permissions
			mappedErr = ports.ErrAuthenticationFailed
		default:
			mappedErr = ports.ErrExchangeUnavailable
		}
		finalErr := fmt.Errorf("%s failed: %w: %w", operation, mappedErr, err)
		c.logger.Error(ctx, err, fmt.Sprintf("%s failed with API error", operation), fields)
		return finalErr
	}

	var finalErr error
	if errors.Is(err, context.DeadlineExceeded) {
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrTimeout, err)
	} else if errors.Is(err, context.Canceled) {
		finalErr = fmt.Errorf("%s operation canceled: %w: %w", operation, ports.ErrContextCanceled, err)
	} else {
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrExchangeUnavailable, err)
	}

	c.logger.Error(ctx, err, fmt.Sprintf("%s failed", operation), fields)
	return finalErr
}

// Package currency converts calculation outputs between currencies using
// a live exchange-rate feed with a static fallback table.
package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/opensource-trade/skipjack/internal/domain"
)

// cacheKey is the shared cache entry holding the fetched rate table.
const cacheKey = "currency:rates"

// fallbackRates are used when the feed is unreachable. Conversion factors
// against USD, as of January 2025.
var fallbackRates = map[string]float64{
	"USD": 1.0,
	"AUD": 1.52,
	"INR": 83.12,
	"CNY": 7.25,
	"JPY": 149.50,
	"SGD": 1.34,
	"PHP": 56.50,
	"IDR": 15750.0,
	"MYR": 4.48,
	"VND": 24350.0,
}

// currencyNames maps supported codes to display names.
var currencyNames = map[string]string{
	"USD": "US Dollar",
	"AUD": "Australian Dollar",
	"INR": "Indian Rupee",
	"CNY": "Chinese Yuan",
	"JPY": "Japanese Yen",
	"SGD": "Singapore Dollar",
	"PHP": "Philippine Peso",
	"IDR": "Indonesian Rupiah",
	"MYR": "Malaysian Ringgit",
	"VND": "Vietnamese Dong",
}

// Service fetches and caches exchange rates against the base currency.
type Service struct {
	cfg    domain.CurrencyConfig
	cache  domain.Cache
	bus    domain.EventBus
	client *http.Client
	logger *slog.Logger
}

// New creates the currency service. cache holds the fetched rate table for
// the configured refresh interval; a nil cache disables caching. A non-nil
// bus gets a rates-refreshed event whenever a fresh table is fetched.
func New(cfg domain.CurrencyConfig, cache domain.Cache, bus domain.EventBus, logger *slog.Logger) *Service {
	if cfg.BaseCurrency == "" {
		cfg.BaseCurrency = "USD"
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = 3600
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cfg:    cfg,
		cache:  cache,
		bus:    bus,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

// feedResponse is the exchangerate-api.com payload shape.
type feedResponse struct {
	Result          string             `json:"result"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
}

// Rate returns the conversion factor from the base currency to code.
func (s *Service) Rate(ctx context.Context, code string) (float64, error) {
	code = strings.ToUpper(code)
	if code == "" || code == s.cfg.BaseCurrency {
		return 1.0, nil
	}

	rates := s.rates(ctx)
	if rate, ok := rates[code]; ok {
		return rate, nil
	}
	return 0, domain.NewValidationError("currency", fmt.Sprintf("unsupported currency %q", code))
}

// Convert converts amount from one currency to another. Only conversions
// out of the base currency are supported.
func (s *Service) Convert(ctx context.Context, amount float64, from, to string) (float64, error) {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)
	if from == to {
		return amount, nil
	}
	if from != s.cfg.BaseCurrency {
		return 0, domain.NewValidationError("currency", fmt.Sprintf("conversion from %s is not supported", from))
	}
	rate, err := s.Rate(ctx, to)
	if err != nil {
		return 0, err
	}
	return amount * rate, nil
}

// Supported returns the known currency codes with display names and the
// current rate table.
func (s *Service) Supported(ctx context.Context) (map[string]string, map[string]float64) {
	rates := s.rates(ctx)
	out := make(map[string]float64, len(currencyNames))
	for code := range currencyNames {
		if rate, ok := rates[code]; ok {
			out[code] = rate
		}
	}
	return currencyNames, out
}

// rates returns the current rate table: cache, then feed, then fallback.
func (s *Service) rates(ctx context.Context) map[string]float64 {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, domain.GlobalOwner, cacheKey); err == nil && data != nil {
			var cached map[string]float64
			if err := json.Unmarshal(data, &cached); err == nil && len(cached) > 0 {
				return cached
			}
		}
	}

	fetched, err := s.fetch(ctx)
	if err != nil {
		s.logger.Warn("exchange rate feed unavailable, using fallback rates", "error", err)
		return fallbackRates
	}

	if data, err := json.Marshal(fetched); err == nil {
		if s.cache != nil {
			ttl := time.Duration(s.cfg.RefreshInterval) * time.Second
			if err := s.cache.Set(ctx, domain.GlobalOwner, cacheKey, data, ttl); err != nil {
				s.logger.Warn("failed to cache exchange rates", "error", err)
			}
		}
		if s.bus != nil {
			if err := s.bus.Publish(ctx, domain.GlobalOwner, domain.TopicRatesRefreshed, data); err != nil {
				s.logger.Warn("failed to publish rates refresh", "error", err)
			}
		}
	}
	return fetched
}

func (s *Service) fetch(ctx context.Context) (map[string]float64, error) {
	if s.cfg.FeedURL == "" {
		return nil, fmt.Errorf("no feed configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.FeedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	var feed feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decode feed response: %w", err)
	}
	if feed.Result != "success" || len(feed.ConversionRates) == 0 {
		return nil, fmt.Errorf("feed result %q", feed.Result)
	}
	return feed.ConversionRates, nil
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"hotel-pricing/models"

	"go.uber.org/zap"
)

var ErrInvalidCurrency = errors.New("invalid_currency_code")

// RateFetcher returns USD-relative rates keyed by currency code.
type RateFetcher interface {
	FetchRates(ctx context.Context) (map[string]float64, error)
}

// OpenERClient talks to the open.er-api.com latest-rates endpoint.
type OpenERClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewOpenERClient(baseURL string, timeout time.Duration) *OpenERClient {
	return &OpenERClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type latestRatesResponse struct {
	Result string             `json:"result"`
	Base   string             `json:"base_code"`
	Rates  map[string]float64 `json:"rates"`
}

func (c *OpenERClient) FetchRates(ctx context.Context) (map[string]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v6/latest/USD", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var body latestRatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if body.Result != "" && body.Result != "success" {
		return nil, fmt.Errorf("upstream result %q", body.Result)
	}
	return body.Rates, nil
}

// RateService resolves the exchange rate of a currency, fetching at most
// once per TTL per code. It never fails a caller over an upstream problem:
// a stale cached rate is served if there is one, else the rate is 1.
type RateService struct {
	fetcher RateFetcher
	cache   RateCache
	ttl     time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

func NewRateService(fetcher RateFetcher, cache RateCache, ttl time.Duration, logger *zap.Logger) *RateService {
	if cache == nil {
		cache = NewMemoryRateCache()
	}
	return &RateService{
		fetcher: fetcher,
		cache:   cache,
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *RateService) Rate(ctx context.Context, code string) (models.CurrencyContext, error) {
	code = NormalizeCurrencyCode(code)
	if !ValidCurrencyCode(code) {
		return models.CurrencyContext{}, ErrInvalidCurrency
	}
	now := s.now()
	if code == DefaultCurrency {
		return models.CurrencyContext{Code: code, Rate: 1, FetchedAt: now}, nil
	}

	cached, found, err := s.cache.Get(ctx, code)
	if err != nil {
		s.logger.Warn("rate cache read failed", zap.String("currency", code), zap.Error(err))
		found = false
	}
	if found && now.Sub(cached.FetchedAt) < s.ttl {
		return cached, nil
	}

	rates, err := s.fetcher.FetchRates(ctx)
	if err != nil {
		if found {
			s.logger.Warn("exchange rate fetch failed, serving stale rate",
				zap.String("currency", code),
				zap.Time("fetched_at", cached.FetchedAt),
				zap.Error(err))
			return cached, nil
		}
		s.logger.Warn("exchange rate fetch failed, falling back to 1",
			zap.String("currency", code), zap.Error(err))
		return models.CurrencyContext{Code: code, Rate: 1, FetchedAt: now}, nil
	}

	result := models.CurrencyContext{Code: code, Rate: NormalizeExchangeRate(rates[code]), FetchedAt: now}
	if err := s.cache.Set(ctx, result); err != nil {
		s.logger.Warn("rate cache write failed", zap.String("currency", code), zap.Error(err))
	}
	return result, nil
}

package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jspittman/stockledger/internal/models"
)

// HTTPProvider fetches quotes from a JSON quote API
// (GET {baseURL}/quote/{symbol}?token={apiKey}).
type HTTPProvider struct {
	client  *http.Client
	baseURL string
	apiKey  string
	log     zerolog.Logger
}

func NewHTTPProvider(baseURL, apiKey string, log zerolog.Logger) *HTTPProvider {
	return &HTTPProvider{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
		log:     log.With().Str("client", "quotes").Logger(),
	}
}

// quoteResponse mirrors the provider's JSON payload. Price arrives as
// a JSON number; decoding straight into decimal keeps it exact.
type quoteResponse struct {
	Symbol      string          `json:"symbol"`
	CompanyName string          `json:"companyName"`
	LatestPrice decimal.Decimal `json:"latestPrice"`
}

func (p *HTTPProvider) Lookup(ctx context.Context, symbol string) (*models.Quote, error) {
	u := fmt.Sprintf("%s/quote/%s?token=%s",
		p.baseURL, url.PathEscape(symbol), url.QueryEscape(p.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build quote request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quote request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrSymbolNotFound
	case resp.StatusCode != http.StatusOK:
		p.log.Warn().Int("status", resp.StatusCode).Str("symbol", symbol).
			Msg("quote provider returned non-200")
		return nil, fmt.Errorf("quote provider status %d", resp.StatusCode)
	}

	var qr quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&qr); err != nil {
		return nil, fmt.Errorf("decode quote: %w", err)
	}
	if !qr.LatestPrice.IsPositive() {
		return nil, fmt.Errorf("quote provider returned non-positive price for %s", symbol)
	}

	return &models.Quote{
		Symbol: qr.Symbol,
		Name:   qr.CompanyName,
		Price:  qr.LatestPrice,
	}, nil
}

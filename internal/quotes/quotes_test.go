package quotes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulator_Lookup(t *testing.T) {
	sim := NewSimulator()
	sim.Add("AAA", "Triple A Corp", decimal.NewFromInt(100))

	q, err := sim.Lookup(context.Background(), "aaa")
	require.NoError(t, err)
	assert.Equal(t, "AAA", q.Symbol)
	assert.Equal(t, "Triple A Corp", q.Name)
	assert.True(t, q.Price.Equal(decimal.NewFromInt(100)))

	_, err = sim.Lookup(context.Background(), "NOPE")
	require.ErrorIs(t, err, ErrSymbolNotFound)
}

func TestSimulator_TickMovesPrices(t *testing.T) {
	sim := NewSimulator()

	for i := 0; i < 100; i++ {
		update := sim.Tick()
		assert.True(t, update.Price.IsPositive(), "tick produced non-positive price")

		q, err := sim.Lookup(context.Background(), update.Symbol)
		require.NoError(t, err)
		assert.True(t, q.Price.Equal(update.Price), "lookup must see the ticked price")
	}
}

func TestHTTPProvider_Lookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/quote/NFLX":
			assert.Equal(t, "test-key", r.URL.Query().Get("token"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"symbol":"NFLX","companyName":"Netflix Inc","latestPrice":402.31}`))
		case "/quote/GONE":
			http.NotFound(w, r)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, "test-key", zerolog.Nop())

	q, err := p.Lookup(context.Background(), "NFLX")
	require.NoError(t, err)
	assert.Equal(t, "NFLX", q.Symbol)
	assert.Equal(t, "Netflix Inc", q.Name)
	assert.True(t, q.Price.Equal(decimal.NewFromFloat(402.31)))

	// Unknown symbol is a distinct condition
	_, err = p.Lookup(context.Background(), "GONE")
	require.ErrorIs(t, err, ErrSymbolNotFound)

	// Transient provider failure is NOT ErrSymbolNotFound
	_, err = p.Lookup(context.Background(), "FLAKY")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSymbolNotFound)
}

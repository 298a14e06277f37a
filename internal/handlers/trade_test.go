package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jspittman/stockledger/internal/accounts"
	"github.com/jspittman/stockledger/internal/ledger"
	"github.com/jspittman/stockledger/internal/models"
	"github.com/jspittman/stockledger/internal/quotes"
)

func newTestRouter(t *testing.T) (*gin.Engine, *ledger.MemStore, *quotes.Simulator) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := ledger.NewMemStore()
	sim := quotes.NewSimulator()
	sim.Add("AAA", "Triple A Corp", decimal.NewFromInt(100))

	log := zerolog.Nop()
	engine := ledger.NewEngine(store, sim, log)
	processor := ledger.NewProcessor(engine, 2, log)
	processor.Start()
	t.Cleanup(processor.Stop)

	h := &Handler{
		Processor:  processor,
		Aggregator: ledger.NewAggregator(store, sim),
		Accounts:   accounts.NewManager(store, decimal.NewFromInt(10000), log),
		Store:      store,
		Quotes:     sim,
		Simulator:  sim,
		Log:        log,
	}

	router := gin.New()
	h.Routes(router)
	return router, store, sim
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createUser(t *testing.T, store *ledger.MemStore, cash int64) int64 {
	t.Helper()
	id, err := store.CreateUser(context.Background(), "testuser", "hash",
		decimal.NewFromInt(cash))
	require.NoError(t, err)
	return id
}

func TestBuyStock_Success(t *testing.T) {
	router, store, _ := newTestRouter(t)
	userID := createUser(t, store, 10000)

	w := doJSON(t, router, http.MethodPost, "/api/trades/buy", models.TradeRequest{
		UserID: userID,
		Symbol: "AAA",
		Shares: 10,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	user, err := store.UserByID(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, user.Cash.Equal(decimal.NewFromInt(9000)), "cash %s", user.Cash)

	txs, err := store.Transactions(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, int64(10), txs[0].Shares)
}

func TestBuyStock_InsufficientFunds(t *testing.T) {
	router, store, _ := newTestRouter(t)
	userID := createUser(t, store, 100)

	w := doJSON(t, router, http.MethodPost, "/api/trades/buy", models.TradeRequest{
		UserID: userID,
		Symbol: "AAA",
		Shares: 10,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient funds")

	user, err := store.UserByID(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, user.Cash.Equal(decimal.NewFromInt(100)))
}

func TestSellStock_InsufficientShares(t *testing.T) {
	router, store, _ := newTestRouter(t)
	userID := createUser(t, store, 10000)

	w := doJSON(t, router, http.MethodPost, "/api/trades/buy", models.TradeRequest{
		UserID: userID, Symbol: "AAA", Shares: 3,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/trades/sell", models.TradeRequest{
		UserID: userID, Symbol: "AAA", Shares: 5,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient shares")
}

func TestTrade_BadRequests(t *testing.T) {
	router, store, _ := newTestRouter(t)
	userID := createUser(t, store, 10000)

	// binding rejects missing and non-positive share counts
	w := doJSON(t, router, http.MethodPost, "/api/trades/buy",
		map[string]any{"user_id": userID, "symbol": "AAA"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/trades/buy",
		map[string]any{"user_id": userID, "symbol": "AAA", "shares": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// fractional shares are malformed input for an integer field
	w = doJSON(t, router, http.MethodPost, "/api/trades/buy",
		map[string]any{"user_id": userID, "symbol": "AAA", "shares": 1.5})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// unknown symbol
	w = doJSON(t, router, http.MethodPost, "/api/trades/buy", models.TradeRequest{
		UserID: userID, Symbol: "ZZZZ", Shares: 1,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetPortfolio(t *testing.T) {
	router, store, sim := newTestRouter(t)
	userID := createUser(t, store, 10000)

	w := doJSON(t, router, http.MethodPost, "/api/trades/buy", models.TradeRequest{
		UserID: userID, Symbol: "AAA", Shares: 10,
	})
	require.Equal(t, http.StatusOK, w.Code)

	sim.Add("AAA", "Triple A Corp", decimal.NewFromInt(120))

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/portfolio/%d", userID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.PortfolioResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Len(t, resp.Positions, 1)
	assert.Equal(t, int64(10), resp.Positions[0].Shares)
	assert.True(t, resp.Positions[0].Value.Equal(decimal.NewFromInt(1200)))
	assert.True(t, resp.Cash.Equal(decimal.NewFromInt(9000)))
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(10200)))
	assert.Equal(t, "$9,000.00", resp.CashUSD)
	assert.Equal(t, "$10,200.00", resp.TotalUSD)
}

func TestGetTradeHistory(t *testing.T) {
	router, store, _ := newTestRouter(t)
	userID := createUser(t, store, 10000)

	for _, shares := range []int64{2, 3} {
		w := doJSON(t, router, http.MethodPost, "/api/trades/buy", models.TradeRequest{
			UserID: userID, Symbol: "AAA", Shares: shares,
		})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/trades/%d", userID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Transactions []models.Transaction `json:"transactions"`
		Count        int                  `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	require.Len(t, resp.Transactions, 2)
	assert.Equal(t, int64(2), resp.Transactions[0].Shares)
	assert.Equal(t, int64(3), resp.Transactions[1].Shares)
}

func TestGetQuote(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/quote/AAA", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Triple A Corp")

	w = doJSON(t, router, http.MethodGet, "/api/quote/ZZZZ", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegisterAndLogin(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/register", models.RegisterRequest{
		Username: "alice", Password: "hunter2", Confirmation: "hunter2",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// duplicate
	w = doJSON(t, router, http.MethodPost, "/api/register", models.RegisterRequest{
		Username: "alice", Password: "hunter2", Confirmation: "hunter2",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// mismatched confirmation
	w = doJSON(t, router, http.MethodPost, "/api/register", models.RegisterRequest{
		Username: "bob", Password: "pw", Confirmation: "other",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/login", models.LoginRequest{
		Username: "alice", Password: "hunter2",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/login", models.LoginRequest{
		Username: "alice", Password: "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHealth(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/agentpay-wallet-ledger/internal/domain/agent"
	"github.com/agentpay-wallet-ledger/internal/domain/gaming"
	"github.com/agentpay-wallet-ledger/internal/domain/wallet"
)

func TestCasinoHandler_RecordSession(t *testing.T) {
	logger := testLogger()
	agentID := uuid.New()

	newRouter := func(mockService *MockLedgerService) *gin.Engine {
		handler := NewCasinoHandler(logger, mockService)
		r := setupTestRouter()
		r.POST("/casino/sessions", withAgent(agentID), handler.RecordSession)
		return r
	}

	postSession := func(r *gin.Engine, payload map[string]interface{}) *httptest.ResponseRecorder {
		body, _ := json.Marshal(payload)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/casino/sessions", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("winning_session", func(t *testing.T) {
		mockService := new(MockLedgerService)
		outcome := json.RawMessage(`{"hand":"flush"}`)
		session := gaming.NewSession(agentID, "poker", decimal.NewFromInt(30), decimal.NewFromInt(100), outcome)
		mockService.On("RecordGameSession", mock.Anything, agentID, "poker",
			mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.NewFromInt(30)) }),
			mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.NewFromInt(100)) }),
			mock.Anything,
		).Return(session, nil)

		w := postSession(newRouter(mockService), map[string]interface{}{
			"game_type":     "poker",
			"bet_amount":    "30",
			"payout_amount": "100",
			"outcome_data":  map[string]string{"hand": "flush"},
		})

		require.Equal(t, http.StatusCreated, w.Code)
		var body GameSessionResponse
		envelope := decodeResponse(t, w)
		require.NoError(t, json.Unmarshal(envelope.Data, &body))
		assert.Equal(t, "poker", body.GameType)
		assert.Equal(t, "70", body.Profit)
		mockService.AssertExpectations(t)
	})

	t.Run("missing_game_type", func(t *testing.T) {
		w := postSession(newRouter(new(MockLedgerService)), map[string]interface{}{
			"bet_amount":    "30",
			"payout_amount": "100",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("uncovered_loss", func(t *testing.T) {
		mockService := new(MockLedgerService)
		mockService.On("RecordGameSession", mock.Anything, agentID, "blackjack", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, wallet.ErrInsufficientFunds)

		w := postSession(newRouter(mockService), map[string]interface{}{
			"game_type":     "blackjack",
			"bet_amount":    "30",
			"payout_amount": "0",
		})

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		envelope := decodeResponse(t, w)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, "INSUFFICIENT_FUNDS", envelope.Error.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("unknown_agent", func(t *testing.T) {
		mockService := new(MockLedgerService)
		mockService.On("RecordGameSession", mock.Anything, agentID, "poker", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, agent.ErrAgentNotFound{AgentID: agentID})

		w := postSession(newRouter(mockService), map[string]interface{}{
			"game_type":     "poker",
			"bet_amount":    "30",
			"payout_amount": "100",
		})

		require.Equal(t, http.StatusNotFound, w.Code)
		envelope := decodeResponse(t, w)
		require.NotNil(t, envelope.Error)
		assert.Equal(t, "NOT_FOUND", envelope.Error.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("negative_bet", func(t *testing.T) {
		mockService := new(MockLedgerService)
		mockService.On("RecordGameSession", mock.Anything, agentID, "poker", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, wallet.ErrInvalidAmount)

		w := postSession(newRouter(mockService), map[string]interface{}{
			"game_type":     "poker",
			"bet_amount":    "-5",
			"payout_amount": "0",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertExpectations(t)
	})
}

func TestCasinoHandler_ListSessions(t *testing.T) {
	logger := testLogger()
	agentID := uuid.New()

	mockService := new(MockLedgerService)
	handler := NewCasinoHandler(logger, mockService)

	sessions := []*gaming.Session{
		gaming.NewSession(agentID, "roulette", decimal.NewFromInt(10), decimal.NewFromInt(0), nil),
	}
	mockService.On("ListGameSessions", mock.Anything, agentID, 10, 0).Return(sessions, nil)

	r := setupTestRouter()
	r.GET("/casino/sessions", withAgent(agentID), handler.ListSessions)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/casino/sessions", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body []GameSessionResponse
	envelope := decodeResponse(t, w)
	require.NoError(t, json.Unmarshal(envelope.Data, &body))
	require.Len(t, body, 1)
	assert.Equal(t, "roulette", body[0].GameType)
	mockService.AssertExpectations(t)
}

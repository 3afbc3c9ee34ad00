package api

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"savvy_dca/internal/agent"
	"savvy_dca/internal/models"
	"savvy_dca/internal/wallet"

	"github.com/gin-gonic/gin"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "savvy-dca-agent"})
}

type setupGoalRequest struct {
	StrategyID   *string            `json:"strategyId"`
	StrategyName *string            `json:"strategyName"`
	Creator      *string            `json:"creator"`
	Allocation   map[string]float64 `json:"allocation"`
	WeeklyAmount *float64           `json:"weeklyAmount"`
	Duration     *int               `json:"duration"`
	StrictMode   *bool              `json:"strictMode"`
}

func (s *Server) setupGoal(c *gin.Context) {
	var req setupGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	// Field-presence checks stay at the boundary; the engine re-validates
	// only the amount and allocation sum.
	for _, f := range []struct {
		name string
		ok   bool
	}{
		{"strategyId", req.StrategyID != nil},
		{"strategyName", req.StrategyName != nil},
		{"creator", req.Creator != nil},
		{"allocation", req.Allocation != nil},
		{"weeklyAmount", req.WeeklyAmount != nil},
	} {
		if !f.ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field: " + f.name})
			return
		}
	}

	strict := true
	if req.StrictMode != nil {
		strict = *req.StrictMode
	}

	snap, err := s.Agent.SetupGoal(agent.SetupParams{
		ID:           *req.StrategyID,
		Name:         *req.StrategyName,
		Creator:      *req.Creator,
		Allocation:   req.Allocation,
		WeeklyAmount: *req.WeeklyAmount,
		Duration:     req.Duration,
		StrictMode:   strict,
	})
	if err != nil {
		writeEngineError(c, err)
		return
	}

	s.Notifier.Notify(fmt.Sprintf("🎯 *DCA goal configured:* %s by %s — %g GAS/week",
		*req.StrategyName, *req.Creator, *req.WeeklyAmount))
	c.JSON(http.StatusOK, snap)
}

func (s *Server) status(c *gin.Context) {
	c.JSON(http.StatusOK, s.Agent.Status())
}

type simulateWeekRequest struct {
	CryptoPrices map[string]float64 `json:"cryptoPrices"`
}

type simulateWeekResponse struct {
	models.Snapshot
	Transaction models.Transaction `json:"transaction"`
}

func (s *Server) simulateWeek(c *gin.Context) {
	var req simulateWeekRequest
	// An empty body is fine; prices then come from the provider.
	_ = c.ShouldBindJSON(&req)

	prices := req.CryptoPrices
	if prices == nil {
		prices = s.lookupPrices()
	}

	snap, tx, err := s.Agent.SimulateWeek(prices)
	if err != nil {
		writeEngineError(c, err)
		return
	}

	s.Notifier.Notify(fmt.Sprintf("📈 *Week %d DCA executed:* %g GAS spent, pool %g GAS remaining",
		tx.Week, tx.GasSpent, snap.DCAPoolBalance))
	c.JSON(http.StatusOK, simulateWeekResponse{Snapshot: snap, Transaction: tx})
}

// lookupPrices asks the configured provider for the strategy's symbols. Any
// failure degrades to an empty map — the engine prices unknown assets at 1.0.
func (s *Server) lookupPrices() map[string]float64 {
	snap := s.Agent.Status()
	if snap.Strategy == nil {
		return map[string]float64{}
	}
	symbols := make([]string, 0, len(snap.Strategy.Allocation))
	for sym := range snap.Strategy.Allocation {
		symbols = append(symbols, sym)
	}
	prices, err := s.Prices.Prices(symbols)
	if err != nil {
		log.Printf("Warning: price lookup failed, simulating at 1:1: %v", err)
		return map[string]float64{}
	}
	return prices
}

type amountRequest struct {
	Amount *float64 `json:"amount"`
}

func (s *Server) addFunds(c *gin.Context) {
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Amount == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field: amount"})
		return
	}

	snap, err := s.Agent.AddFunds(*req.Amount)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) withdraw(c *gin.Context) {
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Amount == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field: amount"})
		return
	}

	snap, err := s.Agent.Withdraw(*req.Amount)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) history(c *gin.Context) {
	txs := s.Agent.History()

	if limitStr := c.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 && limit < len(txs) {
			txs = txs[:limit]
		}
	}

	c.JSON(http.StatusOK, txs)
}

type chatRequest struct {
	Message string `json:"message"`
}

func (s *Server) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field: message"})
		return
	}

	reply, err := s.AI.Chat(req.Message)
	if err != nil {
		log.Printf("Chat error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"response": reply,
		"metadata": gin.H{
			"integration": "Savvy Coach",
			"demo_mode":   s.AI.DemoMode(),
		},
	})
}

type agentActionRequest struct {
	UserPrompt    string `json:"user_prompt"`
	WalletAddress string `json:"wallet_address"`
}

func (s *Server) agentAction(c *gin.Context) {
	var req agentActionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserPrompt == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_prompt is required"})
		return
	}

	walletContext := ""
	if req.WalletAddress != "" && wallet.ValidAddress(req.WalletAddress) {
		if bal, err := s.Wallet.Balance(req.WalletAddress); err != nil {
			log.Printf("Warning: wallet balance lookup failed: %v", err)
		} else {
			walletContext = fmt.Sprintf("Wallet %s holds %s GAS on %s (block %d).",
				bal.WalletAddress, bal.BalanceGas, bal.Network, bal.BlockNumber)
		}
	}

	reply, err := s.AI.AgentAction(req.UserPrompt, walletContext)
	if err != nil {
		log.Printf("Agent action error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"response": reply})
}

type ttsRequest struct {
	Text string `json:"text"`
}

func (s *Server) textToSpeech(c *gin.Context) {
	var req ttsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text must be a non-empty string"})
		return
	}

	if !s.TTS.Configured() {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "TTS service not configured"})
		return
	}

	audio, err := s.TTS.Speak(req.Text)
	if err != nil {
		log.Printf("TTS error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate audio"})
		return
	}

	c.Data(http.StatusOK, "audio/mpeg", audio)
}

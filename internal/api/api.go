package api

import (
	"errors"
	"net/http"

	"savvy_dca/internal/agent"
	"savvy_dca/internal/ai"
	"savvy_dca/internal/market"
	"savvy_dca/internal/notify"
	"savvy_dca/internal/tts"
	"savvy_dca/internal/wallet"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Server bundles the engine and its collaborators for the HTTP handlers. The
// handlers are request/response glue only; all portfolio logic lives in the
// agent package.
type Server struct {
	Agent    *agent.Agent
	Prices   market.PriceProvider
	AI       *ai.Client
	Wallet   *wallet.Client
	TTS      *tts.Client
	Notifier *notify.Notifier
}

// Router builds the gin engine with all routes mounted under /api. CORS is
// wide open, matching the development posture of the frontend.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	api := r.Group("/api")
	{
		api.GET("/health", s.health)
		api.POST("/setup-goal", s.setupGoal)
		api.GET("/status", s.status)
		api.POST("/simulate-week", s.simulateWeek)
		api.POST("/add-funds", s.addFunds)
		api.POST("/withdraw", s.withdraw)
		api.GET("/history", s.history)
		api.POST("/chat", s.chat)
		api.POST("/agent/action", s.agentAction)
		api.POST("/tts", s.textToSpeech)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Endpoint not found"})
	})

	return r
}

// writeEngineError maps engine error kinds onto HTTP statuses: validation and
// precondition failures are the caller's problem (400, with the message);
// anything else (persistence) is a 500 with the detail kept server-side.
func writeEngineError(c *gin.Context, err error) {
	var ve *agent.ValidationError
	var pe *agent.PreconditionError
	if errors.As(err, &ve) || errors.As(err, &pe) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

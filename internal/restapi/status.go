package restapi

import (
	"net/http"

	"github.com/BaasherHub/SolanaLiquidityRadarBot/internal/config"
	"github.com/BaasherHub/SolanaLiquidityRadarBot/internal/observability"
	"github.com/BaasherHub/SolanaLiquidityRadarBot/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// APIStatusResponse is the payload of the status endpoint.
type APIStatusResponse struct {
	ChainID             string              `json:"chainId"`
	PollIntervalSeconds int                 `json:"pollIntervalSeconds"`
	MinLiquidityUSD     float64             `json:"minLiquidityUsd"`
	TrackedPairs        int                 `json:"trackedPairs"`
	LastCycle           *service.CycleStats `json:"lastCycle,omitempty"`
	StatusMessage       string              `json:"status_message"`
}

// StatusHandler serves the read-only ops endpoints.
type StatusHandler struct {
	monitor *service.Monitor
	cfg     *config.Config
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(monitor *service.Monitor, cfg *config.Config) *StatusHandler {
	return &StatusHandler{
		monitor: monitor,
		cfg:     cfg,
	}
}

// GetStatusHandler reports the radar's configuration and last cycle stats.
func (h *StatusHandler) GetStatusHandler(c *gin.Context) {
	response := APIStatusResponse{
		ChainID:             h.cfg.Radar.ChainID,
		PollIntervalSeconds: h.cfg.Radar.PollIntervalSeconds,
		MinLiquidityUSD:     h.cfg.Radar.MinLiquidityUSD,
		TrackedPairs:        h.monitor.TrackedPairs(),
	}

	if stats, ok := h.monitor.LastCycle(); ok {
		response.LastCycle = &stats
		response.StatusMessage = "Radar running."
	} else {
		response.StatusMessage = "Radar started, no cycle completed yet."
	}

	c.JSON(http.StatusOK, response)
}

// SetupRouter configures the ops HTTP surface: health, metrics and status.
func SetupRouter(handler *StatusHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/metrics", gin.WrapH(observability.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/status", handler.GetStatusHandler)
	}

	return router
}

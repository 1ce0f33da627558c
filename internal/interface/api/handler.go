// Package api exposes the read/maintenance HTTP surface over the pipeline.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"flightwatch-service/internal/domain/repository"
	"flightwatch-service/internal/usecase"
	"flightwatch-service/pkg/logger"
)

// Handler bundles the repositories and usecases the HTTP layer reads from.
type Handler struct {
	flightRepo       repository.FlightRepository
	historyRepo      repository.PriceHistoryRepository
	subscriptionRepo repository.SubscriptionRepository
	userRepo         repository.UserRepository
	airportRepo      repository.AirportRepository
	airlineRepo      repository.AirlineRepository
	batchRepo        repository.BatchRepository
	orchestrator     *usecase.ScrapeOrchestrator
	logger           logger.Logger
	version          string
}

func NewHandler(
	flightRepo repository.FlightRepository,
	historyRepo repository.PriceHistoryRepository,
	subscriptionRepo repository.SubscriptionRepository,
	userRepo repository.UserRepository,
	airportRepo repository.AirportRepository,
	airlineRepo repository.AirlineRepository,
	batchRepo repository.BatchRepository,
	orchestrator *usecase.ScrapeOrchestrator,
	logger logger.Logger,
	version string,
) *Handler {
	return &Handler{
		flightRepo:       flightRepo,
		historyRepo:      historyRepo,
		subscriptionRepo: subscriptionRepo,
		userRepo:         userRepo,
		airportRepo:      airportRepo,
		airlineRepo:      airlineRepo,
		batchRepo:        batchRepo,
		orchestrator:     orchestrator,
		logger:           logger,
		version:          version,
	}
}

// Register wires all routes onto the engine.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/flights", h.ListFlights)
	r.GET("/flights/:id", h.GetFlight)

	r.GET("/price-history/flight/:flightId", h.ListPriceHistory)
	r.GET("/price-history/:id", h.GetPriceHistory)

	r.POST("/subscriptions", h.CreateSubscription)
	r.GET("/subscriptions", h.ListSubscriptions)
	r.GET("/subscriptions/:id", h.GetSubscription)
	r.PUT("/subscriptions/:id", h.UpdateSubscription)
	r.DELETE("/subscriptions/:id", h.DeleteSubscription)
	r.GET("/subscriptions/flight/:flightId", h.GetSubscriptionByFlight)

	r.POST("/users", h.CreateUser)
	r.GET("/users", h.ListUsers)
	r.GET("/users/:email", h.GetUser)
	r.PUT("/users/:email", h.UpdateUser)

	r.GET("/airports", h.ListAirports)
	r.POST("/airports", h.CreateAirport)
	r.PUT("/airports/:code", h.UpdateAirport)
	r.DELETE("/airports/:code", h.DeleteAirport)

	r.GET("/airlines", h.ListAirlines)
	r.POST("/airlines", h.CreateAirline)

	r.GET("/scraper", h.TriggerScrape)
	r.POST("/report", h.ReportObservations)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": h.version})
}

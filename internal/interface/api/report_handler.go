package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"flightwatch-service/internal/domain/entity"
)

type reportRequest struct {
	Source  string                   `json:"source" binding:"required"`
	Flights []entity.CandidateFlight `json:"flights" binding:"required,min=1"`
}

// TriggerScrape kicks off a full scrape run in the background and returns
// immediately. Concurrent triggers are allowed; the reconciler keys on flight
// identity, so overlapping runs converge.
func (h *Handler) TriggerScrape(c *gin.Context) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		if err := h.orchestrator.Run(ctx); err != nil {
			h.logger.Error("Triggered scrape run finished with errors", "error", err)
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{"status": "scrape started"})
}

// ReportObservations journals an externally produced observation batch. The
// batch processor drains it on its own schedule.
func (h *Handler) ReportObservations(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	for _, f := range req.Flights {
		if f.DepartureAirportCode == "" || f.ArrivalAirportCode == "" || f.AirlineCode == "" || f.DepartureDate.IsZero() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "every flight needs departureDate, departureAirportCode, arrivalAirportCode and airlineCode"})
			return
		}
	}

	batch := &entity.ObservationBatch{
		Source:  req.Source,
		Flights: req.Flights,
	}
	if err := h.batchRepo.Save(c.Request.Context(), batch); err != nil {
		h.logger.Error("Journal observation batch failed", "source", req.Source, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store batch"})
		return
	}

	h.logger.Info("Observation batch accepted", "batchId", batch.ID, "source", batch.Source, "flights", len(batch.Flights))
	c.JSON(http.StatusAccepted, gin.H{"batchId": batch.ID, "status": batch.ProcessStatus})
}

package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"flightwatch-service/internal/airlines"
	"flightwatch-service/internal/domain/entity"
)

// flightResponse decorates a flight with its historical price range and a
// booking link when the airline supports deep links.
type flightResponse struct {
	*entity.Flight
	MinPriceEur *float64 `json:"minPriceEur"`
	MaxPriceEur *float64 `json:"maxPriceEur"`
	BookingURL  string   `json:"bookingUrl,omitempty"`
}

func (h *Handler) ListFlights(c *gin.Context) {
	filter, err := parseFlightFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	flights, err := h.flightRepo.Find(ctx, filter)
	if err != nil {
		h.logger.Error("List flights failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch flights"})
		return
	}

	out := make([]flightResponse, 0, len(flights))
	for _, f := range flights {
		resp := flightResponse{Flight: f, BookingURL: airlines.BookingURL(f)}
		if pr, err := h.historyRepo.PriceRange(ctx, f.ID); err == nil && pr != nil {
			resp.MinPriceEur = pr.MinPrice
			resp.MaxPriceEur = pr.MaxPrice
		}
		out = append(out, resp)
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) GetFlight(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	ctx := c.Request.Context()
	flight, err := h.flightRepo.GetByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "flight not found"})
			return
		}
		h.logger.Error("Get flight failed", "flightId", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch flight"})
		return
	}

	resp := flightResponse{Flight: flight, BookingURL: airlines.BookingURL(flight)}
	if pr, err := h.historyRepo.PriceRange(ctx, flight.ID); err == nil && pr != nil {
		resp.MinPriceEur = pr.MinPrice
		resp.MaxPriceEur = pr.MaxPrice
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) ListPriceHistory(c *gin.Context) {
	flightID, err := strconv.ParseUint(c.Param("flightId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid flight id"})
		return
	}

	history, err := h.historyRepo.ListByFlight(c.Request.Context(), uint(flightID))
	if err != nil {
		h.logger.Error("List price history failed", "flightId", flightID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch price history"})
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *Handler) GetPriceHistory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	record, err := h.historyRepo.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "price history entry not found"})
			return
		}
		h.logger.Error("Get price history failed", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch price history"})
		return
	}
	c.JSON(http.StatusOK, record)
}

func parseFlightFilter(c *gin.Context) (entity.FlightFilter, error) {
	filter := entity.FlightFilter{
		DepartureAirportCodes: splitCodes(c.Query("departureAirportCodes")),
		ArrivalAirportCodes:   splitCodes(c.Query("arrivalAirportCodes")),
		AirlineCodes:          splitCodes(c.Query("airlineCodes")),
	}

	if v := c.Query("startDate"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, errors.New("invalid startDate, expected YYYY-MM-DD")
		}
		filter.StartDate = &t
	}
	if v := c.Query("endDate"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, errors.New("invalid endDate, expected YYYY-MM-DD")
		}
		filter.EndDate = &t
	}
	return filter, nil
}

func splitCodes(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	codes := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.ToUpper(strings.TrimSpace(p)); p != "" {
			codes = append(codes, p)
		}
	}
	return codes
}

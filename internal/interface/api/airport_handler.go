package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"flightwatch-service/internal/domain/entity"
)

type airportRequest struct {
	Code    string `json:"code" binding:"required,len=3"`
	Name    string `json:"name" binding:"required"`
	Country string `json:"country" binding:"required,len=2"`
}

type airlineRequest struct {
	Code string `json:"code" binding:"required,len=2"`
	Name string `json:"name" binding:"required"`
}

func (h *Handler) ListAirports(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		airports []*entity.Airport
		err      error
	)
	if country := c.Query("country"); country != "" {
		airports, err = h.airportRepo.ListByCountry(ctx, strings.ToUpper(country))
	} else {
		airports, err = h.airportRepo.List(ctx)
	}
	if err != nil {
		h.logger.Error("List airports failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch airports"})
		return
	}
	c.JSON(http.StatusOK, airports)
}

func (h *Handler) CreateAirport(c *gin.Context) {
	var req airportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	airport := &entity.Airport{
		Code:    strings.ToUpper(req.Code),
		Name:    req.Name,
		Country: strings.ToUpper(req.Country),
	}
	if err := h.airportRepo.Create(c.Request.Context(), airport); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "airport already exists"})
			return
		}
		h.logger.Error("Create airport failed", "code", req.Code, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create airport"})
		return
	}
	c.JSON(http.StatusCreated, airport)
}

func (h *Handler) UpdateAirport(c *gin.Context) {
	code := strings.ToUpper(c.Param("code"))

	var req airportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	airport, err := h.airportRepo.Update(c.Request.Context(), code, &entity.Airport{
		Code:    strings.ToUpper(req.Code),
		Name:    req.Name,
		Country: strings.ToUpper(req.Country),
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "airport not found"})
			return
		}
		h.logger.Error("Update airport failed", "code", code, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update airport"})
		return
	}
	c.JSON(http.StatusOK, airport)
}

func (h *Handler) DeleteAirport(c *gin.Context) {
	code := strings.ToUpper(c.Param("code"))

	if err := h.airportRepo.Delete(c.Request.Context(), code); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "airport not found"})
			return
		}
		h.logger.Error("Delete airport failed", "code", code, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete airport"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListAirlines(c *gin.Context) {
	airlinesList, err := h.airlineRepo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("List airlines failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch airlines"})
		return
	}
	c.JSON(http.StatusOK, airlinesList)
}

func (h *Handler) CreateAirline(c *gin.Context) {
	var req airlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	airline := &entity.Airline{Code: strings.ToUpper(req.Code), Name: req.Name}
	if err := h.airlineRepo.Create(c.Request.Context(), airline); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "airline already exists"})
			return
		}
		h.logger.Error("Create airline failed", "code", req.Code, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create airline"})
		return
	}
	c.JSON(http.StatusCreated, airline)
}

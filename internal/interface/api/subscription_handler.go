package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"flightwatch-service/internal/domain/entity"
)

type createSubscriptionRequest struct {
	FlightID    uint    `json:"flightId" binding:"required"`
	Email       string  `json:"email" binding:"required,email"`
	TargetPrice float64 `json:"targetPrice" binding:"required,gt=0"`
}

type updateSubscriptionRequest struct {
	TargetPrice *float64 `json:"targetPrice" binding:"omitempty,gt=0"`
	IsActive    *bool    `json:"isActive"`
}

func (h *Handler) CreateSubscription(c *gin.Context) {
	var req createSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.flightRepo.GetByID(ctx, req.FlightID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "flight not found"})
			return
		}
		h.logger.Error("Create subscription failed", "flightId", req.FlightID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create subscription"})
		return
	}
	if _, err := h.userRepo.GetByEmail(ctx, req.Email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.logger.Error("Create subscription failed", "email", req.Email, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create subscription"})
		return
	}

	sub := &entity.Subscription{
		FlightID:    req.FlightID,
		Email:       req.Email,
		TargetPrice: req.TargetPrice,
		IsActive:    true,
	}
	if err := h.subscriptionRepo.Create(ctx, sub); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "subscription already exists for this flight and email"})
			return
		}
		h.logger.Error("Create subscription failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create subscription"})
		return
	}
	c.JSON(http.StatusCreated, sub)
}

func (h *Handler) ListSubscriptions(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		subs []*entity.Subscription
		err  error
	)
	if email := c.Query("email"); email != "" {
		subs, err = h.subscriptionRepo.ListByEmail(ctx, email)
	} else {
		subs, err = h.subscriptionRepo.List(ctx)
	}
	if err != nil {
		h.logger.Error("List subscriptions failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch subscriptions"})
		return
	}
	c.JSON(http.StatusOK, subs)
}

func (h *Handler) GetSubscription(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	sub, err := h.subscriptionRepo.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "subscription not found"})
			return
		}
		h.logger.Error("Get subscription failed", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch subscription"})
		return
	}
	c.JSON(http.StatusOK, sub)
}

// GetSubscriptionByFlight resolves a subscription by flight id and subscriber
// email, the natural key clients hold before they know the row id.
func (h *Handler) GetSubscriptionByFlight(c *gin.Context) {
	flightID, err := strconv.ParseUint(c.Param("flightId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid flight id"})
		return
	}
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email query parameter is required"})
		return
	}

	sub, err := h.subscriptionRepo.GetByFlightAndEmail(c.Request.Context(), uint(flightID), email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "subscription not found"})
			return
		}
		h.logger.Error("Get subscription failed", "flightId", flightID, "email", email, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch subscription"})
		return
	}
	c.JSON(http.StatusOK, sub)
}

func (h *Handler) UpdateSubscription(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req updateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if req.TargetPrice == nil && req.IsActive == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}

	sub, err := h.subscriptionRepo.Update(c.Request.Context(), uint(id), req.TargetPrice, req.IsActive)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "subscription not found"})
			return
		}
		h.logger.Error("Update subscription failed", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update subscription"})
		return
	}
	c.JSON(http.StatusOK, sub)
}

func (h *Handler) DeleteSubscription(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.subscriptionRepo.Delete(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "subscription not found"})
			return
		}
		h.logger.Error("Delete subscription failed", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete subscription"})
		return
	}
	c.Status(http.StatusNoContent)
}

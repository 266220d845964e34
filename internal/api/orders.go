package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"foodgenius/internal/order"
)

// ListKits returns the kit catalog.
func (h *Handler) ListKits(c *gin.Context) {
	c.JSON(http.StatusOK, order.Kits)
}

// CreateOrder validates and stores a kit order.
func (h *Handler) CreateOrder(c *gin.Context) {
	var req order.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	o, err := order.Build(req)
	if err != nil {
		if errors.Is(err, order.ErrUnknownKit) || errors.Is(err, order.ErrMissingField) {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		c.String(http.StatusInternalServerError, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
	defer cancel()

	if err := h.OrderStore.CreateOrder(ctx, o); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.String(http.StatusRequestTimeout, "Database query timed out after 5 seconds")
			return
		}
		h.Logger.Error("failed to store order", zap.String("kit_id", o.KitID), zap.Error(err))
		c.String(http.StatusInternalServerError, "database error: "+err.Error())
		return
	}

	h.Logger.Info("order created", zap.Int64("id", o.ID), zap.String("kit_id", o.KitID))
	c.JSON(http.StatusCreated, o)
}

// ListOrders returns stored orders, newest first, optionally filtered by the
// email query parameter.
func (h *Handler) ListOrders(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
	defer cancel()

	orders, err := h.OrderStore.ListOrders(ctx, c.Query("email"))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.String(http.StatusRequestTimeout, "Database query timed out after 5 seconds")
			return
		}
		h.Logger.Error("failed to list orders", zap.Error(err))
		c.String(http.StatusInternalServerError, "database error: "+err.Error())
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}
	c.JSON(http.StatusOK, orders)
}

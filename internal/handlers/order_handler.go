package handlers

import (
	"log"

	"github.com/kenzyo3030/cafe/internal/models"
	"github.com/kenzyo3030/cafe/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler exposes the order history and dashboard stats to the
// admin panel.
type OrderHandler struct {
	carts   *services.CartService
	catalog *services.CatalogService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(carts *services.CartService, catalog *services.CatalogService) *OrderHandler {
	return &OrderHandler{
		carts:   carts,
		catalog: catalog,
	}
}

// RegisterRoutes registers the admin order routes.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/orders", h.HandleGetOrders)
	router.Get("/stats", h.HandleGetStats)
}

// HandleGetOrders returns the append-only order log, oldest first.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	return c.JSON(h.carts.Orders())
}

// Stats mirrors the admin dashboard cards.
type Stats struct {
	TotalItems   int   `json:"total_items"`
	ReadyItems   int   `json:"ready_items"`
	TotalOrders  int   `json:"total_orders"`
	TotalRevenue int64 `json:"total_revenue"`
}

// HandleGetStats computes dashboard stats from the catalog and the
// order log.
func (h *OrderHandler) HandleGetStats(c *fiber.Ctx) error {
	items, err := h.catalog.ListItems()
	if err != nil {
		log.Printf("Error listing menu items for stats: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not compute stats",
			"error":   err.Error(),
		})
	}

	stats := Stats{TotalItems: len(items)}
	for _, item := range items {
		if item.Status == models.StatusReady {
			stats.ReadyItems++
		}
	}
	for _, order := range h.carts.Orders() {
		stats.TotalOrders++
		stats.TotalRevenue += order.Total
	}
	return c.JSON(stats)
}
